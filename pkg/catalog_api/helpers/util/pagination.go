package util

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/booklabs/book-catalog-api/pkg/catalog_api/models"
)

// SetPaginationHeaders writes X-Total-Count and an RFC 8288 Link header
// with next/prev relations based on the request URL.
func SetPaginationHeaders(r *http.Request, set func(key, value string), p models.Pagination) {
	set("X-Total-Count", strconv.Itoa(p.TotalRecords))
	set("X-Total-Pages", strconv.Itoa(p.TotalPages))

	var links []string
	if p.Next != nil {
		links = append(links, fmt.Sprintf("<%s>; rel=\"next\"", pageURL(r, *p.Next)))
	}
	if p.Previous != nil {
		links = append(links, fmt.Sprintf("<%s>; rel=\"prev\"", pageURL(r, *p.Previous)))
	}
	if len(links) > 0 {
		set("Link", strings.Join(links, ", "))
	}
}

func pageURL(r *http.Request, page int) string {
	u := *r.URL
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String()
}
