package service

import (
	"context"
	"testing"
	"time"

	"vims/internal/model"
	"vims/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type paymentTestEnv struct {
	svc         PaymentService
	invoiceRepo *fakeInvoiceRepo
	paymentRepo *fakePaymentRepo
	invoice     model.Invoice
}

// newPaymentTestEnv seeds one approved invoice with a total of 17700.00.
func newPaymentTestEnv(t *testing.T) *paymentTestEnv {
	t.Helper()

	invoiceRepo := newFakeInvoiceRepo()
	paymentRepo := newFakePaymentRepo()
	audit := NewAuditService(newFakeAuditRepo())
	svc := NewPaymentService(paymentRepo, invoiceRepo, audit, fakeTxManager{}, nil)

	invoice := model.Invoice{
		InvoiceNumber: "INV-20250615-0001",
		Amount:        dec("15000.00"),
		CgstAmount:    dec("1350.00"),
		SgstAmount:    dec("1350.00"),
		TotalAmount:   dec("17700.00"),
		InvoiceDate:   time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		DueDate:       time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC),
		Status:        model.StatusApproved,
	}
	require.NoError(t, invoiceRepo.Create(context.Background(), &invoice))

	return &paymentTestEnv{svc: svc, invoiceRepo: invoiceRepo, paymentRepo: paymentRepo, invoice: invoice}
}

func (e *paymentTestEnv) pay(t *testing.T, amount, date string) (PaymentResponse, error) {
	t.Helper()
	return e.svc.CreatePayment(context.Background(), CreatePaymentRequest{
		InvoiceID:     e.invoice.ID.String(),
		Amount:        amount,
		PaymentDate:   date,
		PaymentMethod: "NEFT",
	}, Actor{Username: "fin1", Role: model.RoleFinance})
}

func TestCreatePayment_PartialThenFull(t *testing.T) {
	env := newPaymentTestEnv(t)
	ctx := context.Background()

	first, err := env.pay(t, "10000.00", "2025-06-20")
	require.NoError(t, err)
	assert.Equal(t, model.StatusPartiallyPaid, first.InvoiceStatus)

	second, err := env.pay(t, "7700.00", "2025-06-25")
	require.NoError(t, err)
	assert.Equal(t, model.StatusPaid, second.InvoiceStatus)

	stored, _ := env.invoiceRepo.FindByID(ctx, env.invoice.ID)
	assert.Equal(t, model.StatusPaid, stored.Status)
}

func TestCreatePayment_RejectsOverpayment(t *testing.T) {
	env := newPaymentTestEnv(t)

	_, err := env.pay(t, "10000.00", "2025-06-20")
	require.NoError(t, err)

	_, err = env.pay(t, "8000.00", "2025-06-25")
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	assert.Contains(t, err.Error(), "7700.00")
}

func TestCreatePayment_AllowedForPendingInvoice(t *testing.T) {
	env := newPaymentTestEnv(t)
	ctx := context.Background()

	stored, _ := env.invoiceRepo.FindByID(ctx, env.invoice.ID)
	stored.Status = model.StatusPending
	require.NoError(t, env.invoiceRepo.Save(ctx, stored))

	resp, err := env.pay(t, "100.00", "2025-06-20")
	require.NoError(t, err)
	assert.Equal(t, model.StatusPartiallyPaid, resp.InvoiceStatus)
}

func TestCreatePayment_DefaultsDateToToday(t *testing.T) {
	env := newPaymentTestEnv(t)
	env.svc.(*paymentService).now = func() time.Time {
		return time.Date(2025, 6, 20, 10, 30, 0, 0, time.UTC)
	}

	resp, err := env.pay(t, "100.00", "")
	require.NoError(t, err)
	assert.Equal(t, "2025-06-20", resp.PaymentDate)
}

func TestCreatePayment_AllowedForOverdueInvoice(t *testing.T) {
	env := newPaymentTestEnv(t)
	ctx := context.Background()

	stored, _ := env.invoiceRepo.FindByID(ctx, env.invoice.ID)
	stored.Status = model.StatusOverdue
	stored.IsOverdue = true
	require.NoError(t, env.invoiceRepo.Save(ctx, stored))

	resp, err := env.pay(t, "17700.00", "2025-08-01")
	require.NoError(t, err)
	assert.Equal(t, model.StatusPaid, resp.InvoiceStatus)

	stored, _ = env.invoiceRepo.FindByID(ctx, env.invoice.ID)
	assert.False(t, stored.IsOverdue)
}

func TestCreatePayment_BlocksManagers(t *testing.T) {
	env := newPaymentTestEnv(t)

	_, err := env.svc.CreatePayment(context.Background(), CreatePaymentRequest{
		InvoiceID:     env.invoice.ID.String(),
		Amount:        "100.00",
		PaymentDate:   "2025-06-20",
		PaymentMethod: "NEFT",
	}, Actor{Username: "mgr", Role: model.RoleManager})
	assert.True(t, apperror.IsKind(err, apperror.KindPermission))

	_, err = env.svc.GetPayments(context.Background(), Actor{Username: "mgr", Role: model.RoleManager})
	assert.True(t, apperror.IsKind(err, apperror.KindPermission))
}

func TestPaymentReads_ScopedToOwnInvoices(t *testing.T) {
	env := newPaymentTestEnv(t)
	ctx := context.Background()

	stored, _ := env.invoiceRepo.FindByID(ctx, env.invoice.ID)
	stored.CreatedBy = "alice"
	require.NoError(t, env.invoiceRepo.Save(ctx, stored))

	bobInvoice := model.Invoice{
		InvoiceNumber: "INV-20250615-0002",
		Amount:        dec("1000.00"),
		TotalAmount:   dec("1180.00"),
		InvoiceDate:   time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		DueDate:       time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC),
		Status:        model.StatusApproved,
		CreatedBy:     "bob",
	}
	require.NoError(t, env.invoiceRepo.Create(ctx, &bobInvoice))

	alicePayment, err := env.pay(t, "500.00", "2025-06-20")
	require.NoError(t, err)
	_, err = env.svc.CreatePayment(ctx, CreatePaymentRequest{
		InvoiceID:     bobInvoice.ID.String(),
		Amount:        "1180.00",
		PaymentDate:   "2025-06-21",
		PaymentMethod: "NEFT",
	}, Actor{Username: "fin1", Role: model.RoleFinance})
	require.NoError(t, err)

	bob := Actor{Username: "bob", Role: model.RoleUser}

	payments, err := env.svc.GetPayments(ctx, bob)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, bobInvoice.ID.String(), payments[0].InvoiceID)

	_, err = env.svc.GetPaymentByID(ctx, alicePayment.ID, bob)
	assert.True(t, apperror.IsKind(err, apperror.KindPermission))

	_, err = env.svc.GetPaymentsByInvoiceID(ctx, env.invoice.ID.String(), bob)
	assert.True(t, apperror.IsKind(err, apperror.KindPermission))

	all, err := env.svc.GetPayments(ctx, Actor{Username: "admin", Role: model.RoleAdmin})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestDeletePayment_RederivesInvoiceStatus(t *testing.T) {
	env := newPaymentTestEnv(t)
	ctx := context.Background()
	actor := Actor{Username: "fin1", Role: model.RoleFinance}

	first, err := env.pay(t, "10000.00", "2025-06-20")
	require.NoError(t, err)
	second, err := env.pay(t, "7700.00", "2025-06-25")
	require.NoError(t, err)

	// Dropping the second payment leaves a partial balance.
	require.NoError(t, env.svc.DeletePayment(ctx, second.ID, actor))
	stored, _ := env.invoiceRepo.FindByID(ctx, env.invoice.ID)
	assert.Equal(t, model.StatusPartiallyPaid, stored.Status)

	// Dropping the remaining payment reverts to approved.
	require.NoError(t, env.svc.DeletePayment(ctx, first.ID, actor))
	stored, _ = env.invoiceRepo.FindByID(ctx, env.invoice.ID)
	assert.Equal(t, model.StatusApproved, stored.Status)
}

func TestDeletePayment_NotFound(t *testing.T) {
	env := newPaymentTestEnv(t)

	err := env.svc.DeletePayment(context.Background(), "3f0c9a11-1111-2222-3333-444455556666", Actor{Username: "admin", Role: model.RoleAdmin})
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestGetPaymentsByInvoiceID_OrderedByDate(t *testing.T) {
	env := newPaymentTestEnv(t)

	_, err := env.pay(t, "5000.00", "2025-06-25")
	require.NoError(t, err)
	_, err = env.pay(t, "2000.00", "2025-06-18")
	require.NoError(t, err)

	payments, err := env.svc.GetPaymentsByInvoiceID(context.Background(), env.invoice.ID.String(), Actor{Username: "fin1", Role: model.RoleFinance})
	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.Equal(t, "2000.00", payments[0].Amount)
	assert.Equal(t, "5000.00", payments[1].Amount)
}
