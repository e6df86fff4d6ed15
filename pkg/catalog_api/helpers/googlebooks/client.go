// Package googlebooks is the client for the bibliographic collaborator.
// Requests carry a short timeout and are never retried: a timeout or
// connection failure surfaces immediately as a typed error.
package googlebooks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/booklabs/book-catalog-api/pkg/catalog_api/models"
)

const defaultBaseURL = "https://www.googleapis.com/books/v1"

// DefaultTimeout bounds every upstream call.
const DefaultTimeout = 10 * time.Second

var (
	// ErrUpstreamTimeout signals the collaborator did not answer in time.
	ErrUpstreamTimeout = errors.New("bibliographic API timed out")
	// ErrUpstreamUnavailable signals a connection or server-side failure.
	ErrUpstreamUnavailable = errors.New("bibliographic API unavailable")
	// ErrVolumeNotFound signals an unknown external volume id.
	ErrVolumeNotFound = errors.New("volume not found")
)

// Client talks to the Google Books volumes API.
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

// NewClient reads GOOGLE_BOOKS_API_KEY from the environment; the key is
// optional, unauthenticated requests just get a lower rate limit.
func NewClient() *Client {
	return &Client{
		BaseURL: defaultBaseURL,
		APIKey:  os.Getenv("GOOGLE_BOOKS_API_KEY"),
		HTTP:    &http.Client{Timeout: DefaultTimeout},
	}
}

// volume mirrors the upstream response shape.
type volume struct {
	ID         string `json:"id"`
	VolumeInfo struct {
		Title               string   `json:"title"`
		Authors             []string `json:"authors"`
		PublishedDate       string   `json:"publishedDate"`
		Publisher           string   `json:"publisher"`
		Description         string   `json:"description"`
		PageCount           int      `json:"pageCount"`
		Categories          []string `json:"categories"`
		Language            string   `json:"language"`
		IndustryIdentifiers []struct {
			Type       string `json:"type"`
			Identifier string `json:"identifier"`
		} `json:"industryIdentifiers"`
		ImageLinks struct {
			Thumbnail string `json:"thumbnail"`
		} `json:"imageLinks"`
	} `json:"volumeInfo"`
}

type searchResponse struct {
	TotalItems int      `json:"totalItems"`
	Items      []volume `json:"items"`
}

// Search queries the volumes endpoint and returns normalized records plus
// the upstream total.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]models.ExternalBook, int, error) {
	if maxResults < 1 {
		maxResults = 10
	}
	q := url.Values{}
	q.Set("q", query)
	q.Set("maxResults", strconv.Itoa(maxResults))

	var resp searchResponse
	if err := c.get(ctx, c.BaseURL+"/volumes", q, &resp); err != nil {
		return nil, 0, err
	}

	books := make([]models.ExternalBook, 0, len(resp.Items))
	for _, item := range resp.Items {
		books = append(books, normalize(item))
	}
	return books, resp.TotalItems, nil
}

// Fetch retrieves a single volume by its external id.
func (c *Client) Fetch(ctx context.Context, externalID string) (*models.ExternalBook, error) {
	var item volume
	if err := c.get(ctx, c.BaseURL+"/volumes/"+url.PathEscape(externalID), nil, &item); err != nil {
		return nil, err
	}
	book := normalize(item)
	return &book, nil
}

func (c *Client) get(ctx context.Context, rawURL string, q url.Values, out any) error {
	if c.APIKey != "" {
		if q == nil {
			q = url.Values{}
		}
		q.Set("key", c.APIKey)
	}
	if len(q) > 0 {
		rawURL += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		if isTimeout(err) {
			return fmt.Errorf("%w: %v", ErrUpstreamTimeout, err)
		}
		return fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrVolumeNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%w: status %d", ErrUpstreamUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: malformed response: %v", ErrUpstreamUnavailable, err)
	}
	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne interface{ Timeout() bool }
	return errors.As(err, &ne) && ne.Timeout()
}

func normalize(item volume) models.ExternalBook {
	info := item.VolumeInfo
	book := models.ExternalBook{
		ExternalId:    item.ID,
		Title:         info.Title,
		Authors:       info.Authors,
		PublishedDate: info.PublishedDate,
		Publisher:     info.Publisher,
		Description:   info.Description,
		PageCount:     info.PageCount,
		Categories:    info.Categories,
		Language:      info.Language,
		Thumbnail:     info.ImageLinks.Thumbnail,
	}
	for _, ident := range info.IndustryIdentifiers {
		switch ident.Type {
		case "ISBN_10":
			book.Isbn10 = ident.Identifier
		case "ISBN_13":
			book.Isbn13 = ident.Identifier
		}
	}
	return book
}
