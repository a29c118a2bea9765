package listing

import (
	"strconv"
	"strings"
)

// Display labels used by the concert listings.
const (
	NotProvided   = "未提供"
	AskOrganizer  = "洽詢主辦"
	FreeOrAsk     = "免費或洽詢"
	AskPrice      = "洽詢"
	listSeparator = "、"
	priceJoiner   = " / "
)

// PriceLabel renders a price list. An absent list or a lone -1 means "ask the
// organizer", all zeros means "free or ask", and any other non-positive entry is
// shown as "ask".
func PriceLabel(prices []float64) string {
	if len(prices) == 0 || (len(prices) == 1 && prices[0] == -1) {
		return AskOrganizer
	}
	allZero := true
	for _, p := range prices {
		if p != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		return FreeOrAsk
	}

	labels := make([]string, 0, len(prices))
	for _, p := range prices {
		if p > 0 {
			labels = append(labels, "$"+strconv.FormatFloat(p, 'f', -1, 64))
			continue
		}
		labels = append(labels, AskPrice)
	}
	return strings.Join(labels, priceJoiner)
}

// JoinOrNotProvided joins the non-blank entries of values, skipping "-" placeholders.
func JoinOrNotProvided(values []string) string {
	kept := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || v == "-" {
			continue
		}
		kept = append(kept, v)
	}
	if len(kept) == 0 {
		return NotProvided
	}
	return strings.Join(kept, listSeparator)
}

// DisplayDate turns YYYYMMDD into YYYY/MM/DD and returns anything else unchanged.
func DisplayDate(value string) string {
	if len(value) != 8 {
		return value
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return value
		}
	}
	return value[0:4] + "/" + value[4:6] + "/" + value[6:8]
}
