package service

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

func TestCalculateGST_SameState(t *testing.T) {
	b := CalculateGST(dec("5000.00"), "27", "27")

	assert.True(t, b.Cgst.Equal(dec("450.00")), "CGST = %s", b.Cgst)
	assert.True(t, b.Sgst.Equal(dec("450.00")), "SGST = %s", b.Sgst)
	assert.True(t, b.Igst.IsZero(), "IGST = %s", b.Igst)
	assert.True(t, b.Total.Equal(dec("5900.00")), "Total = %s", b.Total)
}

func TestCalculateGST_DifferentState(t *testing.T) {
	b := CalculateGST(dec("5000.00"), "27", "29")

	assert.True(t, b.Cgst.IsZero())
	assert.True(t, b.Sgst.IsZero())
	assert.True(t, b.Igst.Equal(dec("900.00")), "IGST = %s", b.Igst)
	assert.True(t, b.Total.Equal(dec("5900.00")), "Total = %s", b.Total)
}

func TestCalculateGST_EmptyStateTreatedAsInterstate(t *testing.T) {
	b := CalculateGST(dec("1000.00"), "", "")

	assert.True(t, b.Igst.Equal(dec("180.00")))
	assert.True(t, b.Cgst.IsZero())
	assert.True(t, b.Sgst.IsZero())
}

func TestCalculateGST_RoundsHalfUp(t *testing.T) {
	// 1234.50 * 0.09 = 111.105 -> 111.11
	b := CalculateGST(dec("1234.50"), "27", "27")

	assert.True(t, b.Cgst.Equal(dec("111.11")), "CGST = %s", b.Cgst)
	assert.True(t, b.Sgst.Equal(dec("111.11")))
	assert.True(t, b.Total.Equal(dec("1456.72")), "Total = %s", b.Total)
}

func TestCalculateGST_SplitNeverExceedsFullRate(t *testing.T) {
	amounts := []string{"0.01", "0.05", "1.00", "99.99", "12345.67"}
	for _, raw := range amounts {
		amount := dec(raw)
		same := CalculateGST(amount, "27", "27")
		inter := CalculateGST(amount, "27", "29")

		split := same.Cgst.Add(same.Sgst)
		diff := split.Sub(inter.Igst).Abs()
		assert.True(t, diff.LessThanOrEqual(dec("0.01")),
			"amount %s: CGST+SGST=%s vs IGST=%s", raw, split, inter.Igst)
	}
}
