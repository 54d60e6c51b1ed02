package service

import (
	"context"
	"testing"
	"time"

	"vims/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type riskTestEnv struct {
	svc         RiskService
	vendorRepo  *fakeVendorRepo
	invoiceRepo *fakeInvoiceRepo
	paymentRepo *fakePaymentRepo
	vendor      model.Vendor
}

func newRiskTestEnv(t *testing.T) *riskTestEnv {
	t.Helper()

	vendorRepo := newFakeVendorRepo()
	invoiceRepo := newFakeInvoiceRepo()
	paymentRepo := newFakePaymentRepo()
	svc := NewRiskService(vendorRepo, invoiceRepo, paymentRepo)

	vendor := model.Vendor{
		Name:   "Acme Supplies",
		Email:  "billing@acme.example",
		Gstin:  "27AAAAA0000A1Z5",
		Status: model.VendorActive,
	}
	require.NoError(t, vendorRepo.Create(context.Background(), &vendor))

	return &riskTestEnv{svc: svc, vendorRepo: vendorRepo, invoiceRepo: invoiceRepo, paymentRepo: paymentRepo, vendor: vendor}
}

func (e *riskTestEnv) addInvoice(t *testing.T, total string, status string, overdue bool, escalation int, due time.Time) model.Invoice {
	t.Helper()
	inv := model.Invoice{
		VendorID:    e.vendor.ID,
		TotalAmount: dec(total),
		Status:      status,
		IsOverdue:   overdue,
		DueDate:     due,
	}
	if escalation > 0 {
		inv.EscalationLevel = &escalation
	}
	require.NoError(t, e.invoiceRepo.Create(context.Background(), &inv))
	return inv
}

func (e *riskTestEnv) addPayment(t *testing.T, invoiceID model.Invoice, amount string, date time.Time) {
	t.Helper()
	p := model.Payment{InvoiceID: invoiceID.ID, Amount: dec(amount), PaymentDate: date}
	require.NoError(t, e.paymentRepo.Create(context.Background(), &p))
}

func TestCalculateRiskScore_NoInvoices(t *testing.T) {
	env := newRiskTestEnv(t)

	score, err := env.svc.CalculateRiskScore(context.Background(), env.vendor.ID)
	require.NoError(t, err)
	assert.True(t, score.IsZero(), "score = %s", score)
}

func TestCalculateRiskScore_FullyPaidOnTime(t *testing.T) {
	env := newRiskTestEnv(t)
	due := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)

	inv := env.addInvoice(t, "1000.00", model.StatusPaid, false, 0, due)
	env.addPayment(t, inv, "1000.00", due.AddDate(0, 0, -5))

	score, err := env.svc.CalculateRiskScore(context.Background(), env.vendor.ID)
	require.NoError(t, err)
	assert.True(t, score.IsZero(), "score = %s", score)
}

func TestCalculateRiskScore_FactorMath(t *testing.T) {
	env := newRiskTestEnv(t)
	due := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)

	// 2 overdue unpaid invoices: overdue factor 20, payment ratio drops.
	env.addInvoice(t, "1000.00", model.StatusOverdue, true, 0, due)
	env.addInvoice(t, "1000.00", model.StatusOverdue, true, 0, due)

	// 1 invoice paid late: late factor 5.
	late := env.addInvoice(t, "2000.00", model.StatusPaid, false, 0, due)
	env.addPayment(t, late, "2000.00", due.AddDate(0, 0, 10))

	// ratio = 2000/4000 = 0.50, unpaid factor = (1-0.50)*20 = 10
	score, err := env.svc.CalculateRiskScore(context.Background(), env.vendor.ID)
	require.NoError(t, err)
	assert.True(t, score.Equal(dec("35.00")), "score = %s", score)
}

func TestCalculateRiskScore_FactorsAreCapped(t *testing.T) {
	env := newRiskTestEnv(t)
	due := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)

	// 6 overdue escalated invoices: overdue factor capped at 40,
	// escalation factor capped at 10, nothing paid so unpaid factor 20.
	for i := 0; i < 6; i++ {
		env.addInvoice(t, "1000.00", model.StatusEscalated, true, 2, due)
	}

	score, err := env.svc.CalculateRiskScore(context.Background(), env.vendor.ID)
	require.NoError(t, err)
	assert.True(t, score.Equal(dec("70.00")), "score = %s", score)
}

func TestCalculateRiskScore_NeverExceedsHundred(t *testing.T) {
	env := newRiskTestEnv(t)
	due := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 10; i++ {
		env.addInvoice(t, "1000.00", model.StatusEscalated, true, 3, due)
	}
	for i := 0; i < 10; i++ {
		late := env.addInvoice(t, "100.00", model.StatusPaid, false, 0, due)
		env.addPayment(t, late, "100.00", due.AddDate(0, 0, 30))
	}

	score, err := env.svc.CalculateRiskScore(context.Background(), env.vendor.ID)
	require.NoError(t, err)
	assert.True(t, score.LessThanOrEqual(dec("100.00")), "score = %s", score)
}

func TestUpdateVendorRiskScore_Persists(t *testing.T) {
	env := newRiskTestEnv(t)
	ctx := context.Background()
	due := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)

	env.addInvoice(t, "1000.00", model.StatusOverdue, true, 0, due)

	resp, err := env.svc.UpdateVendorRiskScore(ctx, env.vendor.ID.String())
	require.NoError(t, err)
	// overdue 10 + unpaid (1-0)*20 = 30
	assert.Equal(t, "30.00", resp.RiskScore)
	assert.Equal(t, 1, resp.OverdueCount)

	stored, _ := env.vendorRepo.FindByID(ctx, env.vendor.ID)
	assert.InDelta(t, 30.0, stored.RiskScore, 0.001)
}

func TestGetHighRiskVendors(t *testing.T) {
	env := newRiskTestEnv(t)
	ctx := context.Background()

	risky := model.Vendor{Name: "Risky", Email: "r@x.example", Gstin: "27BBBBB0000B1Z5", Status: model.VendorActive, RiskScore: 85}
	require.NoError(t, env.vendorRepo.Create(ctx, &risky))

	vendors, err := env.svc.GetHighRiskVendors(ctx, 70)
	require.NoError(t, err)
	require.Len(t, vendors, 1)
	assert.Equal(t, "Risky", vendors[0].VendorName)
}

func TestRefreshAllRiskScores(t *testing.T) {
	env := newRiskTestEnv(t)
	ctx := context.Background()
	due := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)

	env.addInvoice(t, "1000.00", model.StatusOverdue, true, 0, due)

	updated, err := env.svc.RefreshAllRiskScores(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	stored, _ := env.vendorRepo.FindByID(ctx, env.vendor.ID)
	assert.Greater(t, stored.RiskScore, 0.0)
}
