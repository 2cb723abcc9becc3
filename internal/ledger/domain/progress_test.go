package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestProgressPercentage(t *testing.T) {
	t.Run("partial progress", func(t *testing.T) {
		got := ProgressPercentage(dec("30"), dec("100"))
		assert.True(t, got.Equal(dec("30")), "got %s", got)
	})

	t.Run("over-funded clamps to 100", func(t *testing.T) {
		// goal=$100, contributions of $30+$40+$50
		got := ProgressPercentage(dec("120"), dec("100"))
		assert.True(t, got.Equal(dec("100")), "got %s", got)
	})

	t.Run("exactly funded", func(t *testing.T) {
		got := ProgressPercentage(dec("100"), dec("100"))
		assert.True(t, got.Equal(dec("100")), "got %s", got)
	})

	t.Run("zero goal reads zero, no division by zero", func(t *testing.T) {
		got := ProgressPercentage(dec("50"), dec("0"))
		assert.True(t, got.IsZero(), "got %s", got)
	})

	t.Run("negative goal reads zero", func(t *testing.T) {
		got := ProgressPercentage(dec("50"), dec("-10"))
		assert.True(t, got.IsZero(), "got %s", got)
	})

	t.Run("rounds to two decimal places", func(t *testing.T) {
		// 1/3 of the goal: 33.333... -> 33.33
		got := ProgressPercentage(dec("1"), dec("3"))
		assert.Equal(t, "33.33", got.StringFixed(2))
	})

	t.Run("small contributions stay exact", func(t *testing.T) {
		// 0.01 * 3 against a 0.03 goal must be exactly 100, not 99.99...
		total := decimal.Zero
		for i := 0; i < 3; i++ {
			total = total.Add(dec("0.01"))
		}
		got := ProgressPercentage(total, dec("0.03"))
		assert.True(t, got.Equal(dec("100")), "got %s", got)
	})

	t.Run("never below zero", func(t *testing.T) {
		got := ProgressPercentage(dec("-5"), dec("100"))
		assert.True(t, got.IsZero(), "got %s", got)
	})
}
