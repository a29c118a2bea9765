package listing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/akuan1997/concertweb/api/internal/listing"
)

func TestPageWindow(t *testing.T) {
	cases := []struct {
		name    string
		current int
		total   int
		want    []int
	}{
		{name: "no pages", current: 1, total: 0, want: []int{}},
		{name: "fewer than max", current: 2, total: 3, want: []int{1, 2, 3}},
		{name: "at start", current: 1, total: 10, want: []int{1, 2, 3, 4, 5}},
		{name: "second page", current: 2, total: 10, want: []int{1, 2, 3, 4, 5}},
		{name: "centred", current: 6, total: 10, want: []int{4, 5, 6, 7, 8}},
		{name: "near end", current: 9, total: 10, want: []int{6, 7, 8, 9, 10}},
		{name: "at end", current: 10, total: 10, want: []int{6, 7, 8, 9, 10}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, listing.PageWindow(tc.current, tc.total, listing.MaxPageLinks))
		})
	}
}
