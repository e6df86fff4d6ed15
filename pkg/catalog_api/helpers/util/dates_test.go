package util_test

import (
	"testing"
	"time"

	"github.com/booklabs/book-catalog-api/pkg/catalog_api/helpers/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePublishedDate(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2020", time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)},
		{"2020-05", time.Date(2020, time.May, 1, 0, 0, 0, 0, time.UTC)},
		{"2020-05-17", time.Date(2020, time.May, 17, 0, 0, 0, 0, time.UTC)},
		{"2020-05-17T10:00:00Z", time.Date(2020, time.May, 17, 0, 0, 0, 0, time.UTC)},
	}
	for _, c := range cases {
		got := util.ParsePublishedDate(c.in)
		require.NotNil(t, got, "input %q", c.in)
		assert.True(t, c.want.Equal(*got), "input %q: got %v", c.in, got)
	}
}

func TestParsePublishedDateMalformed(t *testing.T) {
	for _, in := range []string{"", "20", "abcd", "2020-13", "99999", "2020-aa-bb"} {
		assert.Nil(t, util.ParsePublishedDate(in), "input %q", in)
	}
}
