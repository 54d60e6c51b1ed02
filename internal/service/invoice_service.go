package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"vims/internal/model"
	"vims/internal/repository"
	"vims/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Actor identifies the authenticated user performing an operation.
type Actor struct {
	Username string
	Role     string
}

func (a Actor) isAdmin() bool   { return a.Role == model.RoleAdmin }
func (a Actor) isManager() bool { return a.Role == model.RoleManager }
func (a Actor) isFinance() bool { return a.Role == model.RoleFinance }

// Broadcaster pushes lifecycle events to connected dashboard clients.
// A nil broadcaster disables notifications.
type Broadcaster interface {
	Broadcast(message []byte)
}

// --- DTOs ---

type InvoiceItemRequest struct {
	Description string `json:"description" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required,min=1"`
	UnitPrice   string `json:"unit_price" binding:"required"`
}

type CreateInvoiceRequest struct {
	VendorID    string               `json:"vendor_id" binding:"required"`
	Items       []InvoiceItemRequest `json:"items" binding:"required"`
	InvoiceDate string               `json:"invoice_date" binding:"required"` // YYYY-MM-DD
	DueDate     string               `json:"due_date" binding:"required"`     // YYYY-MM-DD
}

type UpdateInvoiceRequest struct {
	Items       []InvoiceItemRequest `json:"items"`
	InvoiceDate string               `json:"invoice_date"`
	DueDate     string               `json:"due_date"`
}

type InvoiceItemResponse struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	Amount      string `json:"amount"`
	ItemOrder   int    `json:"item_order"`
}

type InvoiceResponse struct {
	ID                   string                `json:"id"`
	VendorID             string                `json:"vendor_id"`
	InvoiceNumber        string                `json:"invoice_number"`
	Amount               string                `json:"amount"`
	CgstAmount           string                `json:"cgst_amount"`
	SgstAmount           string                `json:"sgst_amount"`
	IgstAmount           string                `json:"igst_amount"`
	TotalAmount          string                `json:"total_amount"`
	InvoiceDate          string                `json:"invoice_date"`
	DueDate              string                `json:"due_date"`
	Status               string                `json:"status"`
	CurrentApprovalLevel int                   `json:"current_approval_level"`
	IsOverdue            bool                  `json:"is_overdue"`
	EscalationLevel      int                   `json:"escalation_level"`
	CreatedBy            string                `json:"created_by"`
	Items                []InvoiceItemResponse `json:"items"`
	CreatedAt            string                `json:"created_at"`
}

type ApprovalInfoResponse struct {
	CurrentApprovalLevel   int    `json:"current_approval_level"`
	RequiredApprovalLevels int    `json:"required_approval_levels"`
	RemainingApprovals     int    `json:"remaining_approvals"`
	IsFullyApproved        bool   `json:"is_fully_approved"`
	ApprovalRuleRange      string `json:"approval_rule_range"`
}

// --- Interface ---

type InvoiceService interface {
	CreateInvoice(ctx context.Context, req CreateInvoiceRequest, actor Actor) (InvoiceResponse, error)
	GetInvoices(ctx context.Context, actor Actor) ([]InvoiceResponse, error)
	GetInvoiceByID(ctx context.Context, id string, actor Actor) (InvoiceResponse, error)
	UpdateInvoice(ctx context.Context, id string, req UpdateInvoiceRequest, actor Actor) (InvoiceResponse, error)
	ApproveInvoice(ctx context.Context, id string, level int, approver string, comments string) (InvoiceResponse, error)
	RejectInvoice(ctx context.Context, id string, rejector string, comments string) (InvoiceResponse, error)
	GetApprovalInfo(ctx context.Context, id string) (ApprovalInfoResponse, error)
	GetOverdueInvoices(ctx context.Context) ([]InvoiceResponse, error)
	GetInvoicesByDateRange(ctx context.Context, start, end time.Time) ([]InvoiceResponse, error)

	// Batch transitions driven by the scheduler.
	MarkOverdueInvoices(ctx context.Context) (int, error)
	EscalateOverdueInvoices(ctx context.Context) (int, error)
	SendDueDateReminders(ctx context.Context) (int, error)
}

type invoiceService struct {
	invoiceRepo  repository.InvoiceRepository
	vendorRepo   repository.VendorRepository
	approvalRepo repository.InvoiceApprovalRepository
	ruleService  ApprovalRuleService
	auditService AuditService
	txManager    repository.TransactionManager
	hub          Broadcaster
	now          func() time.Time
}

func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	vendorRepo repository.VendorRepository,
	approvalRepo repository.InvoiceApprovalRepository,
	ruleService ApprovalRuleService,
	auditService AuditService,
	txManager repository.TransactionManager,
	hub Broadcaster,
) InvoiceService {
	return &invoiceService{
		invoiceRepo:  invoiceRepo,
		vendorRepo:   vendorRepo,
		approvalRepo: approvalRepo,
		ruleService:  ruleService,
		auditService: auditService,
		txManager:    txManager,
		hub:          hub,
		now:          time.Now,
	}
}

// --- Implementation ---

func (s *invoiceService) CreateInvoice(ctx context.Context, req CreateInvoiceRequest, actor Actor) (InvoiceResponse, error) {
	vendorID, err := uuid.Parse(req.VendorID)
	if err != nil {
		return InvoiceResponse{}, apperror.Validation("invalid vendor id: %s", req.VendorID)
	}

	vendor, err := s.vendorRepo.FindByID(ctx, vendorID)
	if err != nil {
		return InvoiceResponse{}, apperror.NotFound("vendor not found with id: %s", req.VendorID)
	}

	items, baseAmount, err := buildItems(req.Items)
	if err != nil {
		return InvoiceResponse{}, err
	}

	invoiceDate, dueDate, err := parseInvoiceDates(req.InvoiceDate, req.DueDate)
	if err != nil {
		return InvoiceResponse{}, err
	}

	// Same-state assumption: the vendor's state code is used for both sides
	// of the transaction. Cross-state invoicing is not modeled.
	gst := CalculateGST(baseAmount, vendor.StateCode(), vendor.StateCode())

	invoice := model.Invoice{
		VendorID:    vendor.ID,
		Amount:      baseAmount,
		CgstAmount:  gst.Cgst,
		SgstAmount:  gst.Sgst,
		IgstAmount:  gst.Igst,
		TotalAmount: gst.Total,
		InvoiceDate: invoiceDate,
		DueDate:     dueDate,
		Status:      model.StatusPending,
		CreatedBy:   actor.Username,
		Items:       items,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		number, numErr := s.generateInvoiceNumber(txCtx)
		if numErr != nil {
			return fmt.Errorf("failed to generate invoice number: %w", numErr)
		}
		invoice.InvoiceNumber = number

		if createErr := s.invoiceRepo.Create(txCtx, &invoice); createErr != nil {
			return fmt.Errorf("failed to create invoice: %w", createErr)
		}
		return nil
	})
	if err != nil {
		return InvoiceResponse{}, err
	}

	s.auditService.Record(ctx, actor.Username, model.ActionCreate, model.EntityInvoice, invoice.ID.String(),
		nil, toInvoiceResponse(invoice), fmt.Sprintf("Invoice created with %d items", len(items)))

	return toInvoiceResponse(invoice), nil
}

func (s *invoiceService) GetInvoices(ctx context.Context, actor Actor) ([]InvoiceResponse, error) {
	var invoices []model.Invoice
	var err error

	// Role-scoped visibility: managers review pending invoices, finance
	// pays approved ones, ordinary users see only their own.
	switch {
	case actor.isAdmin():
		invoices, err = s.invoiceRepo.FindAll(ctx)
	case actor.isManager():
		invoices, err = s.invoiceRepo.FindByStatus(ctx, model.StatusPending)
	case actor.isFinance():
		invoices, err = s.invoiceRepo.FindByStatus(ctx, model.StatusApproved)
	default:
		invoices, err = s.invoiceRepo.FindByCreatedBy(ctx, actor.Username)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch invoices: %w", err)
	}

	return toInvoiceResponses(invoices), nil
}

func (s *invoiceService) GetInvoiceByID(ctx context.Context, id string, actor Actor) (InvoiceResponse, error) {
	invoice, err := s.findInvoice(ctx, id)
	if err != nil {
		return InvoiceResponse{}, err
	}

	if !actor.isAdmin() {
		switch {
		case actor.isManager():
			if invoice.Status != model.StatusPending {
				return InvoiceResponse{}, apperror.Permission("managers can only view pending invoices")
			}
		case actor.isFinance():
			if invoice.Status != model.StatusApproved {
				return InvoiceResponse{}, apperror.Permission("finance can only view approved invoices")
			}
		default:
			if invoice.CreatedBy == "" || invoice.CreatedBy != actor.Username {
				return InvoiceResponse{}, apperror.Permission("you can only view your own invoices")
			}
		}
	}

	return toInvoiceResponse(*invoice), nil
}

func (s *invoiceService) UpdateInvoice(ctx context.Context, id string, req UpdateInvoiceRequest, actor Actor) (InvoiceResponse, error) {
	invoice, err := s.findInvoice(ctx, id)
	if err != nil {
		return InvoiceResponse{}, err
	}

	if !actor.isAdmin() {
		return InvoiceResponse{}, apperror.Permission("only ADMIN can update invoices")
	}

	// Once an invoice has entered settlement it is immutable.
	switch invoice.Status {
	case model.StatusApproved, model.StatusPaid, model.StatusPartiallyPaid:
		return InvoiceResponse{}, apperror.Validation("cannot edit invoice with status %s", invoice.Status)
	}

	oldValue := toInvoiceResponse(*invoice)

	// Editing a rejected invoice restarts the approval workflow.
	if invoice.Status == model.StatusRejected {
		invoice.Status = model.StatusPending
		invoice.CurrentApprovalLevel = 0
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if len(req.Items) > 0 {
			items, baseAmount, buildErr := buildItems(req.Items)
			if buildErr != nil {
				return buildErr
			}

			vendor, vendErr := s.vendorRepo.FindByID(txCtx, invoice.VendorID)
			if vendErr != nil {
				return fmt.Errorf("failed to load vendor: %w", vendErr)
			}

			gst := CalculateGST(baseAmount, vendor.StateCode(), vendor.StateCode())
			invoice.Amount = baseAmount
			invoice.CgstAmount = gst.Cgst
			invoice.SgstAmount = gst.Sgst
			invoice.IgstAmount = gst.Igst
			invoice.TotalAmount = gst.Total

			if repErr := s.invoiceRepo.ReplaceItems(txCtx, invoice, items); repErr != nil {
				return fmt.Errorf("failed to replace invoice items: %w", repErr)
			}
		}

		if req.InvoiceDate != "" {
			d, parseErr := time.Parse("2006-01-02", req.InvoiceDate)
			if parseErr != nil {
				return apperror.Validation("invalid invoice_date: %s", req.InvoiceDate)
			}
			invoice.InvoiceDate = d
		}
		if req.DueDate != "" {
			d, parseErr := time.Parse("2006-01-02", req.DueDate)
			if parseErr != nil {
				return apperror.Validation("invalid due_date: %s", req.DueDate)
			}
			invoice.DueDate = d
		}

		if saveErr := s.invoiceRepo.Save(txCtx, invoice); saveErr != nil {
			return fmt.Errorf("failed to update invoice: %w", saveErr)
		}
		return nil
	})
	if err != nil {
		return InvoiceResponse{}, err
	}

	s.auditService.Record(ctx, actor.Username, model.ActionUpdate, model.EntityInvoice, invoice.ID.String(),
		oldValue, toInvoiceResponse(*invoice), "Invoice updated")

	return toInvoiceResponse(*invoice), nil
}

func (s *invoiceService) ApproveInvoice(ctx context.Context, id string, level int, approver string, comments string) (InvoiceResponse, error) {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return InvoiceResponse{}, apperror.Validation("invalid invoice id: %s", id)
	}

	var invoice *model.Invoice
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		invoice, findErr = s.invoiceRepo.FindByIDForUpdate(txCtx, invoiceID)
		if findErr != nil {
			return apperror.NotFound("invoice not found with id: %s", id)
		}

		// Duplicate approvals are swallowed as idempotent no-ops: a second
		// submission by the same approver, or for an already-claimed level,
		// returns the invoice unchanged.
		alreadyByUser, existsErr := s.approvalRepo.ExistsByInvoiceAndApprover(txCtx, invoice.ID, approver)
		if existsErr != nil {
			return fmt.Errorf("failed to check existing approvals: %w", existsErr)
		}
		if alreadyByUser {
			return nil
		}

		levelTaken, existsErr := s.approvalRepo.ExistsByInvoiceAndLevel(txCtx, invoice.ID, level)
		if existsErr != nil {
			return fmt.Errorf("failed to check existing approvals: %w", existsErr)
		}
		if levelTaken {
			return nil
		}

		// Levels must be claimed strictly in order, one at a time.
		if level != invoice.CurrentApprovalLevel+1 {
			return apperror.Validation("invalid approval level: expected level %d but received %d",
				invoice.CurrentApprovalLevel+1, level)
		}

		approval := model.InvoiceApproval{
			InvoiceID:     invoice.ID,
			ApprovalLevel: level,
			ApprovedBy:    approver,
			Status:        model.ApprovalApproved,
			Comments:      comments,
		}
		if createErr := s.approvalRepo.Create(txCtx, &approval); createErr != nil {
			return fmt.Errorf("failed to record approval: %w", createErr)
		}

		invoice.CurrentApprovalLevel = level

		rule, ruleErr := s.ruleService.FindApplicableRule(txCtx, invoice.TotalAmount)
		if ruleErr != nil {
			return ruleErr
		}
		if rule != nil {
			if invoice.CurrentApprovalLevel >= rule.ApprovalLevels {
				invoice.Status = model.StatusApproved
			} else {
				invoice.Status = model.StatusPending
			}
		} else {
			// No rule applies: auto-approve.
			invoice.Status = model.StatusApproved
		}

		if saveErr := s.invoiceRepo.Save(txCtx, invoice); saveErr != nil {
			return fmt.Errorf("failed to update invoice: %w", saveErr)
		}

		s.auditService.Record(txCtx, approver, model.ActionApprove, model.EntityInvoice, invoice.ID.String(),
			nil, toInvoiceResponse(*invoice), fmt.Sprintf("Invoice approved at level %d", level))
		return nil
	})
	if err != nil {
		return InvoiceResponse{}, err
	}

	s.publishEvent("invoice.approval", *invoice)
	return toInvoiceResponse(*invoice), nil
}

func (s *invoiceService) RejectInvoice(ctx context.Context, id string, rejector string, comments string) (InvoiceResponse, error) {
	invoice, err := s.findInvoice(ctx, id)
	if err != nil {
		return InvoiceResponse{}, err
	}

	// Rejection is unconditional: no level-ordering check and no
	// idempotency guard. A rejected invoice can be edited and resubmitted.
	invoice.Status = model.StatusRejected

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if saveErr := s.invoiceRepo.Save(txCtx, invoice); saveErr != nil {
			return fmt.Errorf("failed to update invoice: %w", saveErr)
		}

		rejection := model.InvoiceApproval{
			InvoiceID:     invoice.ID,
			ApprovalLevel: invoice.CurrentApprovalLevel,
			ApprovedBy:    rejector,
			Status:        model.ApprovalRejected,
			Comments:      comments,
		}
		if createErr := s.approvalRepo.Create(txCtx, &rejection); createErr != nil {
			return fmt.Errorf("failed to record rejection: %w", createErr)
		}
		return nil
	})
	if err != nil {
		return InvoiceResponse{}, err
	}

	s.auditService.Record(ctx, rejector, model.ActionReject, model.EntityInvoice, invoice.ID.String(),
		nil, toInvoiceResponse(*invoice), "Invoice rejected: "+comments)

	s.publishEvent("invoice.rejected", *invoice)
	return toInvoiceResponse(*invoice), nil
}

func (s *invoiceService) GetApprovalInfo(ctx context.Context, id string) (ApprovalInfoResponse, error) {
	invoice, err := s.findInvoice(ctx, id)
	if err != nil {
		return ApprovalInfoResponse{}, err
	}

	info := ApprovalInfoResponse{CurrentApprovalLevel: invoice.CurrentApprovalLevel}

	rule, err := s.ruleService.FindApplicableRule(ctx, invoice.TotalAmount)
	if err != nil {
		return ApprovalInfoResponse{}, err
	}

	if rule != nil {
		info.RequiredApprovalLevels = rule.ApprovalLevels
		remaining := rule.ApprovalLevels - info.CurrentApprovalLevel
		if remaining < 0 {
			remaining = 0
		}
		info.RemainingApprovals = remaining
		info.IsFullyApproved = info.CurrentApprovalLevel >= rule.ApprovalLevels
		info.ApprovalRuleRange = fmt.Sprintf("%s - %s",
			rule.MinAmount.StringFixed(2), rule.MaxAmount.StringFixed(2))
	} else {
		info.IsFullyApproved = true
		info.ApprovalRuleRange = "No rule applicable"
	}

	return info, nil
}

func (s *invoiceService) GetOverdueInvoices(ctx context.Context) ([]InvoiceResponse, error) {
	invoices, err := s.invoiceRepo.FindOverdueFlagged(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch overdue invoices: %w", err)
	}
	return toInvoiceResponses(invoices), nil
}

func (s *invoiceService) GetInvoicesByDateRange(ctx context.Context, start, end time.Time) ([]InvoiceResponse, error) {
	invoices, err := s.invoiceRepo.FindByDateRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch invoices by date range: %w", err)
	}
	return toInvoiceResponses(invoices), nil
}

// MarkOverdueInvoices flags every invoice whose due date has passed and
// that is neither paid nor rejected. Returns the number of invoices
// transitioned.
func (s *invoiceService) MarkOverdueInvoices(ctx context.Context) (int, error) {
	today := s.today()
	overdue, err := s.invoiceRepo.FindDueBefore(ctx, today, []string{model.StatusPaid, model.StatusRejected})
	if err != nil {
		return 0, fmt.Errorf("failed to fetch due invoices: %w", err)
	}

	marked := 0
	for i := range overdue {
		invoice := &overdue[i]
		invoice.IsOverdue = true
		invoice.Status = model.StatusOverdue
		if saveErr := s.invoiceRepo.Save(ctx, invoice); saveErr != nil {
			log.Printf("invoice: failed to mark %s overdue: %v", invoice.InvoiceNumber, saveErr)
			continue
		}
		marked++
		s.publishEvent("invoice.overdue", *invoice)
	}
	return marked, nil
}

// EscalateOverdueInvoices bumps the escalation counter on every invoice
// still flagged overdue. There is no upper bound on escalation level.
func (s *invoiceService) EscalateOverdueInvoices(ctx context.Context) (int, error) {
	overdue, err := s.invoiceRepo.FindOverdueFlagged(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch overdue invoices: %w", err)
	}

	escalated := 0
	for i := range overdue {
		invoice := &overdue[i]
		next := 1
		if invoice.EscalationLevel != nil {
			next = *invoice.EscalationLevel + 1
		}
		invoice.EscalationLevel = &next
		invoice.Status = model.StatusEscalated
		if saveErr := s.invoiceRepo.Save(ctx, invoice); saveErr != nil {
			log.Printf("invoice: failed to escalate %s: %v", invoice.InvoiceNumber, saveErr)
			continue
		}
		escalated++
		s.publishEvent("invoice.escalated", *invoice)
	}
	return escalated, nil
}

// SendDueDateReminders logs a reminder for every unsettled invoice due
// within the next three days. Returns the number of reminders issued.
func (s *invoiceService) SendDueDateReminders(ctx context.Context) (int, error) {
	today := s.today()
	upcoming, err := s.invoiceRepo.FindDueBetween(ctx, today, today.AddDate(0, 0, 3),
		[]string{model.StatusPaid, model.StatusRejected})
	if err != nil {
		return 0, fmt.Errorf("failed to fetch upcoming invoices: %w", err)
	}

	for i := range upcoming {
		invoice := &upcoming[i]
		log.Printf("invoice: reminder: %s (status %s) is due on %s",
			invoice.InvoiceNumber, invoice.Status, invoice.DueDate.Format("2006-01-02"))
	}
	return len(upcoming), nil
}

// --- Helpers ---

func (s *invoiceService) findInvoice(ctx context.Context, id string) (*model.Invoice, error) {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.Validation("invalid invoice id: %s", id)
	}
	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, apperror.NotFound("invoice not found with id: %s", id)
	}
	return invoice, nil
}

func (s *invoiceService) generateInvoiceNumber(ctx context.Context) (string, error) {
	prefix := "INV-" + s.now().Format("20060102") + "-"
	seq, err := s.invoiceRepo.NextSequenceForPrefix(ctx, prefix)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%04d", prefix, seq), nil
}

func (s *invoiceService) today() time.Time {
	now := s.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

func (s *invoiceService) publishEvent(event string, invoice model.Invoice) {
	if s.hub == nil {
		return
	}
	payload, err := json.Marshal(map[string]interface{}{
		"event":          event,
		"invoice_id":     invoice.ID.String(),
		"invoice_number": invoice.InvoiceNumber,
		"status":         invoice.Status,
	})
	if err != nil {
		return
	}
	s.hub.Broadcast(payload)
}

// buildItems validates the submitted line items and computes their amounts
// and the invoice base amount. Item amounts are never trusted from input.
func buildItems(reqs []InvoiceItemRequest) ([]model.InvoiceItem, decimal.Decimal, error) {
	if len(reqs) == 0 {
		return nil, decimal.Zero, apperror.Validation("at least one invoice item is required")
	}

	items := make([]model.InvoiceItem, 0, len(reqs))
	base := decimal.Zero
	for i, req := range reqs {
		if req.Quantity < 1 {
			return nil, decimal.Zero, apperror.Validation("item quantity must be at least 1")
		}
		unitPrice, err := decimal.NewFromString(req.UnitPrice)
		if err != nil {
			return nil, decimal.Zero, apperror.Validation("invalid unit_price: %s", req.UnitPrice)
		}
		if !unitPrice.IsPositive() {
			return nil, decimal.Zero, apperror.Validation("item unit price must be greater than 0")
		}

		amount := unitPrice.Mul(decimal.NewFromInt(int64(req.Quantity)))
		items = append(items, model.InvoiceItem{
			Description: req.Description,
			Quantity:    req.Quantity,
			UnitPrice:   unitPrice,
			Amount:      amount,
			ItemOrder:   i + 1,
		})
		base = base.Add(amount)
	}
	return items, base, nil
}

func parseInvoiceDates(invoiceDateStr, dueDateStr string) (time.Time, time.Time, error) {
	invoiceDate, err := time.Parse("2006-01-02", invoiceDateStr)
	if err != nil {
		return time.Time{}, time.Time{}, apperror.Validation("invalid invoice_date: %s", invoiceDateStr)
	}
	dueDate, err := time.Parse("2006-01-02", dueDateStr)
	if err != nil {
		return time.Time{}, time.Time{}, apperror.Validation("invalid due_date: %s", dueDateStr)
	}
	return invoiceDate, dueDate, nil
}

// --- Mapping ---

func toInvoiceResponse(inv model.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		ID:                   inv.ID.String(),
		VendorID:             inv.VendorID.String(),
		InvoiceNumber:        inv.InvoiceNumber,
		Amount:               inv.Amount.StringFixed(2),
		CgstAmount:           inv.CgstAmount.StringFixed(2),
		SgstAmount:           inv.SgstAmount.StringFixed(2),
		IgstAmount:           inv.IgstAmount.StringFixed(2),
		TotalAmount:          inv.TotalAmount.StringFixed(2),
		InvoiceDate:          inv.InvoiceDate.Format("2006-01-02"),
		DueDate:              inv.DueDate.Format("2006-01-02"),
		Status:               inv.Status,
		CurrentApprovalLevel: inv.CurrentApprovalLevel,
		IsOverdue:            inv.IsOverdue,
		CreatedBy:            inv.CreatedBy,
		CreatedAt:            inv.CreatedAt.Format(time.RFC3339),
	}

	if inv.EscalationLevel != nil {
		resp.EscalationLevel = *inv.EscalationLevel
	}

	resp.Items = make([]InvoiceItemResponse, 0, len(inv.Items))
	for _, item := range inv.Items {
		resp.Items = append(resp.Items, InvoiceItemResponse{
			ID:          item.ID.String(),
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice.StringFixed(2),
			Amount:      item.Amount.StringFixed(2),
			ItemOrder:   item.ItemOrder,
		})
	}

	return resp
}

func toInvoiceResponses(invoices []model.Invoice) []InvoiceResponse {
	res := make([]InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		res = append(res, toInvoiceResponse(inv))
	}
	return res
}
