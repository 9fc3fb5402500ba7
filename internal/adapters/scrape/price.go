package scrape

import (
	"fmt"
	"strconv"
	"strings"
)

// parsePrice extracts a numeric price from a marketplace price string like
// "$1,234.56" or "USD 300". Currency symbols and thousands separators are
// dropped; anything left that is not a number is an error.
func parsePrice(raw string) (float64, error) {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return 0, fmt.Errorf("no digits in price %q", raw)
	}

	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("parse price %q: %w", raw, err)
	}
	return price, nil
}
