package service

import (
	"context"
	"fmt"
	"time"

	"vims/internal/model"
	"vims/internal/repository"
	"vims/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreatePaymentRequest struct {
	InvoiceID            string `json:"invoice_id" binding:"required"`
	Amount               string `json:"amount" binding:"required"`
	PaymentDate          string `json:"payment_date"` // YYYY-MM-DD, defaults to today
	PaymentMethod        string `json:"payment_method" binding:"required"`
	TransactionReference string `json:"transaction_reference"`
	Notes                string `json:"notes"`
}

type PaymentResponse struct {
	ID                   string `json:"id"`
	InvoiceID            string `json:"invoice_id"`
	InvoiceNumber        string `json:"invoice_number"`
	Amount               string `json:"amount"`
	PaymentDate          string `json:"payment_date"`
	PaymentMethod        string `json:"payment_method"`
	TransactionReference string `json:"transaction_reference"`
	Notes                string `json:"notes"`
	InvoiceStatus        string `json:"invoice_status"`
	CreatedAt            string `json:"created_at"`
}

type PaymentService interface {
	CreatePayment(ctx context.Context, req CreatePaymentRequest, actor Actor) (PaymentResponse, error)
	GetPayments(ctx context.Context, actor Actor) ([]PaymentResponse, error)
	GetPaymentByID(ctx context.Context, id string, actor Actor) (PaymentResponse, error)
	GetPaymentsByInvoiceID(ctx context.Context, invoiceID string, actor Actor) ([]PaymentResponse, error)
	DeletePayment(ctx context.Context, id string, actor Actor) error
}

type paymentService struct {
	paymentRepo  repository.PaymentRepository
	invoiceRepo  repository.InvoiceRepository
	auditService AuditService
	txManager    repository.TransactionManager
	hub          Broadcaster
	now          func() time.Time
}

func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	invoiceRepo repository.InvoiceRepository,
	auditService AuditService,
	txManager repository.TransactionManager,
	hub Broadcaster,
) PaymentService {
	return &paymentService{
		paymentRepo:  paymentRepo,
		invoiceRepo:  invoiceRepo,
		auditService: auditService,
		txManager:    txManager,
		hub:          hub,
		now:          time.Now,
	}
}

func (s *paymentService) CreatePayment(ctx context.Context, req CreatePaymentRequest, actor Actor) (PaymentResponse, error) {
	if err := requirePaymentAccess(actor); err != nil {
		return PaymentResponse{}, err
	}

	invoiceID, err := uuid.Parse(req.InvoiceID)
	if err != nil {
		return PaymentResponse{}, apperror.Validation("invalid invoice id: %s", req.InvoiceID)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || !amount.IsPositive() {
		return PaymentResponse{}, apperror.Validation("payment amount must be greater than 0")
	}

	// Payment date defaults to today when omitted.
	paymentDate := s.now()
	if req.PaymentDate != "" {
		paymentDate, err = time.Parse("2006-01-02", req.PaymentDate)
		if err != nil {
			return PaymentResponse{}, apperror.Validation("invalid payment_date: %s", req.PaymentDate)
		}
	}

	var payment model.Payment
	var invoice *model.Invoice
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		invoice, findErr = s.invoiceRepo.FindByIDForUpdate(txCtx, invoiceID)
		if findErr != nil {
			return apperror.NotFound("invoice not found with id: %s", req.InvoiceID)
		}

		paid, sumErr := s.paymentRepo.SumByInvoiceID(txCtx, invoice.ID)
		if sumErr != nil {
			return fmt.Errorf("failed to sum existing payments: %w", sumErr)
		}

		remaining := invoice.TotalAmount.Sub(paid)
		if amount.GreaterThan(remaining) {
			return apperror.Validation("payment amount %s exceeds remaining balance %s",
				amount.StringFixed(2), remaining.StringFixed(2))
		}

		payment = model.Payment{
			InvoiceID:            invoice.ID,
			Amount:               amount,
			PaymentDate:          paymentDate,
			PaymentMethod:        req.PaymentMethod,
			TransactionReference: req.TransactionReference,
			Notes:                req.Notes,
		}
		if createErr := s.paymentRepo.Create(txCtx, &payment); createErr != nil {
			return fmt.Errorf("failed to create payment: %w", createErr)
		}

		newTotal := paid.Add(amount)
		if newTotal.GreaterThanOrEqual(invoice.TotalAmount) {
			invoice.Status = model.StatusPaid
			invoice.IsOverdue = false
		} else {
			invoice.Status = model.StatusPartiallyPaid
		}

		if saveErr := s.invoiceRepo.Save(txCtx, invoice); saveErr != nil {
			return fmt.Errorf("failed to update invoice status: %w", saveErr)
		}
		return nil
	})
	if err != nil {
		return PaymentResponse{}, err
	}

	resp := toPaymentResponse(payment, invoice)
	s.auditService.Record(ctx, actor.Username, model.ActionCreate, model.EntityPayment, payment.ID.String(),
		nil, resp, fmt.Sprintf("Payment of %s recorded for invoice %s", amount.StringFixed(2), invoice.InvoiceNumber))

	return resp, nil
}

func (s *paymentService) GetPayments(ctx context.Context, actor Actor) ([]PaymentResponse, error) {
	if err := requirePaymentAccess(actor); err != nil {
		return nil, err
	}

	payments, err := s.paymentRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payments: %w", err)
	}

	res := make([]PaymentResponse, 0, len(payments))
	for _, p := range payments {
		invoice, _ := s.invoiceRepo.FindByID(ctx, p.InvoiceID)
		if !canViewInvoicePayments(actor, invoice) {
			continue
		}
		res = append(res, toPaymentResponse(p, invoice))
	}
	return res, nil
}

func (s *paymentService) GetPaymentByID(ctx context.Context, id string, actor Actor) (PaymentResponse, error) {
	if err := requirePaymentAccess(actor); err != nil {
		return PaymentResponse{}, err
	}

	paymentID, err := uuid.Parse(id)
	if err != nil {
		return PaymentResponse{}, apperror.Validation("invalid payment id: %s", id)
	}

	payment, err := s.paymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		return PaymentResponse{}, apperror.NotFound("payment not found with id: %s", id)
	}

	invoice, _ := s.invoiceRepo.FindByID(ctx, payment.InvoiceID)
	if !canViewInvoicePayments(actor, invoice) {
		return PaymentResponse{}, apperror.Permission("you can only view payments on your own invoices")
	}
	return toPaymentResponse(*payment, invoice), nil
}

func (s *paymentService) GetPaymentsByInvoiceID(ctx context.Context, invoiceID string, actor Actor) ([]PaymentResponse, error) {
	if err := requirePaymentAccess(actor); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(invoiceID)
	if err != nil {
		return nil, apperror.Validation("invalid invoice id: %s", invoiceID)
	}

	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.NotFound("invoice not found with id: %s", invoiceID)
	}
	if !canViewInvoicePayments(actor, invoice) {
		return nil, apperror.Permission("you can only view payments on your own invoices")
	}

	payments, err := s.paymentRepo.FindByInvoiceID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payments: %w", err)
	}

	res := make([]PaymentResponse, 0, len(payments))
	for _, p := range payments {
		res = append(res, toPaymentResponse(p, invoice))
	}
	return res, nil
}

func (s *paymentService) DeletePayment(ctx context.Context, id string, actor Actor) error {
	if !actor.isAdmin() && !actor.isFinance() {
		return apperror.Permission("only ADMIN or FINANCE can delete payments")
	}

	paymentID, err := uuid.Parse(id)
	if err != nil {
		return apperror.Validation("invalid payment id: %s", id)
	}

	var deleted model.Payment
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		payment, findErr := s.paymentRepo.FindByID(txCtx, paymentID)
		if findErr != nil {
			return apperror.NotFound("payment not found with id: %s", id)
		}
		deleted = *payment

		invoice, findErr := s.invoiceRepo.FindByIDForUpdate(txCtx, payment.InvoiceID)
		if findErr != nil {
			return fmt.Errorf("failed to load invoice: %w", findErr)
		}

		if delErr := s.paymentRepo.Delete(txCtx, payment); delErr != nil {
			return fmt.Errorf("failed to delete payment: %w", delErr)
		}

		paid, sumErr := s.paymentRepo.SumByInvoiceID(txCtx, invoice.ID)
		if sumErr != nil {
			return fmt.Errorf("failed to sum remaining payments: %w", sumErr)
		}

		// The invoice status is re-derived entirely from the remaining
		// payment total.
		switch {
		case paid.IsZero():
			invoice.Status = model.StatusApproved
		case paid.LessThan(invoice.TotalAmount):
			invoice.Status = model.StatusPartiallyPaid
		default:
			invoice.Status = model.StatusPaid
		}

		if saveErr := s.invoiceRepo.Save(txCtx, invoice); saveErr != nil {
			return fmt.Errorf("failed to update invoice status: %w", saveErr)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.auditService.Record(ctx, actor.Username, model.ActionDelete, model.EntityPayment, deleted.ID.String(),
		toPaymentResponse(deleted, nil), nil, "Payment deleted")
	return nil
}

// requirePaymentAccess blocks managers from the settlement ledger. Managers
// handle approvals only.
func requirePaymentAccess(actor Actor) error {
	if actor.isManager() {
		return apperror.Permission("managers cannot access payments")
	}
	return nil
}

// canViewInvoicePayments scopes payment reads: admins and finance see all
// payments, ordinary users only those on invoices they created.
func canViewInvoicePayments(actor Actor, invoice *model.Invoice) bool {
	if actor.isAdmin() || actor.isFinance() {
		return true
	}
	return invoice != nil && invoice.CreatedBy != "" && invoice.CreatedBy == actor.Username
}

func toPaymentResponse(p model.Payment, invoice *model.Invoice) PaymentResponse {
	resp := PaymentResponse{
		ID:                   p.ID.String(),
		InvoiceID:            p.InvoiceID.String(),
		Amount:               p.Amount.StringFixed(2),
		PaymentDate:          p.PaymentDate.Format("2006-01-02"),
		PaymentMethod:        p.PaymentMethod,
		TransactionReference: p.TransactionReference,
		Notes:                p.Notes,
		CreatedAt:            p.CreatedAt.Format(time.RFC3339),
	}
	if invoice != nil {
		resp.InvoiceNumber = invoice.InvoiceNumber
		resp.InvoiceStatus = invoice.Status
	}
	return resp
}
