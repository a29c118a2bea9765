package listing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/akuan1997/concertweb/api/internal/listing"
)

func TestPriceLabel(t *testing.T) {
	assert.Equal(t, "洽詢主辦", listing.PriceLabel(nil))
	assert.Equal(t, "洽詢主辦", listing.PriceLabel([]float64{-1}))
	assert.Equal(t, "免費或洽詢", listing.PriceLabel([]float64{0, 0}))
	assert.Equal(t, "$800 / $1200.5 / 洽詢", listing.PriceLabel([]float64{800, 1200.5, -1}))
}

func TestJoinOrNotProvided(t *testing.T) {
	assert.Equal(t, "未提供", listing.JoinOrNotProvided(nil))
	assert.Equal(t, "未提供", listing.JoinOrNotProvided([]string{" ", "-"}))
	assert.Equal(t, "台北小巨蛋、Legacy", listing.JoinOrNotProvided([]string{"台北小巨蛋", "", "Legacy"}))
}

func TestDisplayDate(t *testing.T) {
	assert.Equal(t, "2024/05/01", listing.DisplayDate("20240501"))
	assert.Equal(t, "2024-05-01", listing.DisplayDate("2024-05-01"))
	assert.Equal(t, "2024O501", listing.DisplayDate("2024O501"))
}
