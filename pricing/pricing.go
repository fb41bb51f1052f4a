// Package pricing derives buyer-facing prices and aggregate durations.
// Nothing here reads configuration or touches storage; callers pass a Config
// built once at startup and write the results themselves.
package pricing

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Config holds the percentages applied to base prices. 10 means 10%.
type Config struct {
	MarkupPercent         decimal.Decimal
	CourseDiscountPercent decimal.Decimal
}

// NewConfig builds a Config from the float percentages kept in app config.
func NewConfig(markupPercent, courseDiscountPercent float64) Config {
	return Config{
		MarkupPercent:         decimal.NewFromFloat(markupPercent),
		CourseDiscountPercent: decimal.NewFromFloat(courseDiscountPercent),
	}
}

// ModuleSellPrice is price plus markup.
func (c Config) ModuleSellPrice(price decimal.Decimal) decimal.Decimal {
	return applyPercent(price, c.MarkupPercent).Round(2)
}

// CourseSellPrice is price plus markup, less the bundling discount.
func (c Config) CourseSellPrice(price decimal.Decimal) decimal.Decimal {
	marked := applyPercent(price, c.MarkupPercent)
	return applyPercent(marked, c.CourseDiscountPercent.Neg()).Round(2)
}

// CoursePrice is the sum of module base prices.
func CoursePrice(modulePrices []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, p := range modulePrices {
		total = total.Add(p)
	}
	return total
}

// TotalDuration sums durations in seconds, ignoring negative values.
func TotalDuration(durations []int64) int64 {
	var total int64
	for _, d := range durations {
		if d > 0 {
			total += d
		}
	}
	return total
}

func applyPercent(v, percent decimal.Decimal) decimal.Decimal {
	return v.Mul(hundred.Add(percent)).Div(hundred)
}
