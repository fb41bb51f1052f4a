package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestModuleSellPrice(t *testing.T) {
	cfg := NewConfig(10, 0)

	assert.True(t, d("110").Equal(cfg.ModuleSellPrice(d("100"))))
	assert.True(t, d("0").Equal(cfg.ModuleSellPrice(d("0"))))
	assert.True(t, d("10.99").Equal(cfg.ModuleSellPrice(d("9.99"))), cfg.ModuleSellPrice(d("9.99")).String())
}

func TestCourseSellPriceAppliesDiscountAfterMarkup(t *testing.T) {
	tests := []struct {
		name     string
		markup   float64
		discount float64
		price    string
		want     string
	}{
		{"markup only", 10, 0, "100", "110"},
		{"markup and discount", 10, 10, "100", "99"},
		{"no percentages", 0, 0, "250.50", "250.5"},
		{"rounds to cents", 15, 5, "33.33", "36.41"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewConfig(tt.markup, tt.discount).CourseSellPrice(d(tt.price))
			assert.True(t, d(tt.want).Equal(got), "got %s want %s", got, tt.want)
		})
	}
}

func TestCoursePriceSumsModules(t *testing.T) {
	assert.True(t, decimal.Zero.Equal(CoursePrice(nil)))
	assert.True(t, d("100").Equal(CoursePrice([]decimal.Decimal{d("40"), d("35.5"), d("24.5")})))
}

func TestTotalDuration(t *testing.T) {
	assert.Equal(t, int64(0), TotalDuration(nil))
	assert.Equal(t, int64(900), TotalDuration([]int64{300, 600, -20}))
}
