package service

import "github.com/shopspring/decimal"

// GST is charged at a flat 18%. Same-state transactions split it evenly
// into CGST and SGST (9% each); interstate transactions charge the full
// rate as IGST.
var (
	gstHalfRate = decimal.NewFromFloat(0.09)
	gstFullRate = decimal.NewFromFloat(0.18)
)

// GSTBreakdown is the result of a GST calculation. Exactly one of
// (Cgst, Sgst) or Igst is non-zero, never both.
type GSTBreakdown struct {
	Cgst  decimal.Decimal
	Sgst  decimal.Decimal
	Igst  decimal.Decimal
	Total decimal.Decimal
}

// CalculateGST computes the tax components for a base amount given the
// vendor's and the invoice's state codes. Components are rounded to two
// decimal places, half up. Total = amount + components.
func CalculateGST(amount decimal.Decimal, vendorState, invoiceState string) GSTBreakdown {
	var b GSTBreakdown
	if vendorState != "" && vendorState == invoiceState {
		b.Cgst = amount.Mul(gstHalfRate).Round(2)
		b.Sgst = b.Cgst
		b.Igst = decimal.Zero
	} else {
		b.Cgst = decimal.Zero
		b.Sgst = decimal.Zero
		b.Igst = amount.Mul(gstFullRate).Round(2)
	}
	b.Total = amount.Add(b.Cgst).Add(b.Sgst).Add(b.Igst)
	return b
}
