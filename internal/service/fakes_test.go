package service

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"vims/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var errNotFound = errors.New("record not found")

func mustParseUUID(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	require.NoError(t, err)
	return id
}

// --- transaction manager ---

type fakeTxManager struct{}

func (fakeTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

// --- vendor repository ---

type fakeVendorRepo struct {
	vendors map[uuid.UUID]*model.Vendor
}

func newFakeVendorRepo() *fakeVendorRepo {
	return &fakeVendorRepo{vendors: make(map[uuid.UUID]*model.Vendor)}
}

func (r *fakeVendorRepo) Create(_ context.Context, vendor *model.Vendor) error {
	if vendor.ID == uuid.Nil {
		vendor.ID = uuid.New()
	}
	vendor.CreatedAt = time.Now()
	cp := *vendor
	r.vendors[vendor.ID] = &cp
	return nil
}

func (r *fakeVendorRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Vendor, error) {
	if v, ok := r.vendors[id]; ok {
		cp := *v
		return &cp, nil
	}
	return nil, errNotFound
}

func (r *fakeVendorRepo) FindByEmail(_ context.Context, email string) (*model.Vendor, error) {
	for _, v := range r.vendors {
		if v.Email == email {
			cp := *v
			return &cp, nil
		}
	}
	return nil, errNotFound
}

func (r *fakeVendorRepo) FindByGstin(_ context.Context, gstin string) (*model.Vendor, error) {
	for _, v := range r.vendors {
		if v.Gstin == gstin {
			cp := *v
			return &cp, nil
		}
	}
	return nil, errNotFound
}

func (r *fakeVendorRepo) FindAll(_ context.Context) ([]model.Vendor, error) {
	res := make([]model.Vendor, 0, len(r.vendors))
	for _, v := range r.vendors {
		res = append(res, *v)
	}
	return res, nil
}

func (r *fakeVendorRepo) FindByRiskScoreAbove(_ context.Context, threshold float64) ([]model.Vendor, error) {
	var res []model.Vendor
	for _, v := range r.vendors {
		if v.RiskScore > threshold {
			res = append(res, *v)
		}
	}
	return res, nil
}

func (r *fakeVendorRepo) Save(_ context.Context, vendor *model.Vendor) error {
	cp := *vendor
	r.vendors[vendor.ID] = &cp
	return nil
}

func (r *fakeVendorRepo) Delete(_ context.Context, vendor *model.Vendor) error {
	delete(r.vendors, vendor.ID)
	return nil
}

// --- invoice repository ---

type fakeInvoiceRepo struct {
	invoices  map[uuid.UUID]*model.Invoice
	sequences map[string]int64
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{
		invoices:  make(map[uuid.UUID]*model.Invoice),
		sequences: make(map[string]int64),
	}
}

func (r *fakeInvoiceRepo) Create(_ context.Context, invoice *model.Invoice) error {
	if invoice.ID == uuid.Nil {
		invoice.ID = uuid.New()
	}
	for i := range invoice.Items {
		if invoice.Items[i].ID == uuid.Nil {
			invoice.Items[i].ID = uuid.New()
		}
		invoice.Items[i].InvoiceID = invoice.ID
	}
	invoice.CreatedAt = time.Now()
	cp := *invoice
	r.invoices[invoice.ID] = &cp
	return nil
}

func (r *fakeInvoiceRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Invoice, error) {
	if inv, ok := r.invoices[id]; ok {
		cp := *inv
		return &cp, nil
	}
	return nil, errNotFound
}

func (r *fakeInvoiceRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeInvoiceRepo) FindAll(_ context.Context) ([]model.Invoice, error) {
	return r.collect(func(*model.Invoice) bool { return true }), nil
}

func (r *fakeInvoiceRepo) FindByStatus(_ context.Context, status string) ([]model.Invoice, error) {
	return r.collect(func(inv *model.Invoice) bool { return inv.Status == status }), nil
}

func (r *fakeInvoiceRepo) FindByCreatedBy(_ context.Context, username string) ([]model.Invoice, error) {
	return r.collect(func(inv *model.Invoice) bool { return inv.CreatedBy == username }), nil
}

func (r *fakeInvoiceRepo) FindByVendorID(_ context.Context, vendorID uuid.UUID) ([]model.Invoice, error) {
	return r.collect(func(inv *model.Invoice) bool { return inv.VendorID == vendorID }), nil
}

func (r *fakeInvoiceRepo) FindByDateRange(_ context.Context, start, end time.Time) ([]model.Invoice, error) {
	return r.collect(func(inv *model.Invoice) bool {
		return !inv.InvoiceDate.Before(start) && !inv.InvoiceDate.After(end)
	}), nil
}

func (r *fakeInvoiceRepo) FindDueBefore(_ context.Context, day time.Time, excludedStatuses []string) ([]model.Invoice, error) {
	excluded := make(map[string]bool, len(excludedStatuses))
	for _, s := range excludedStatuses {
		excluded[s] = true
	}
	return r.collect(func(inv *model.Invoice) bool {
		return inv.DueDate.Before(day) && !excluded[inv.Status]
	}), nil
}

func (r *fakeInvoiceRepo) FindDueBetween(_ context.Context, start, end time.Time, excludedStatuses []string) ([]model.Invoice, error) {
	excluded := make(map[string]bool, len(excludedStatuses))
	for _, s := range excludedStatuses {
		excluded[s] = true
	}
	return r.collect(func(inv *model.Invoice) bool {
		return !inv.DueDate.Before(start) && !inv.DueDate.After(end) && !excluded[inv.Status]
	}), nil
}

func (r *fakeInvoiceRepo) FindOverdueFlagged(_ context.Context) ([]model.Invoice, error) {
	return r.collect(func(inv *model.Invoice) bool { return inv.IsOverdue }), nil
}

func (r *fakeInvoiceRepo) Save(_ context.Context, invoice *model.Invoice) error {
	cp := *invoice
	r.invoices[invoice.ID] = &cp
	return nil
}

func (r *fakeInvoiceRepo) ReplaceItems(_ context.Context, invoice *model.Invoice, items []model.InvoiceItem) error {
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
		items[i].InvoiceID = invoice.ID
	}
	invoice.Items = items
	cp := *invoice
	r.invoices[invoice.ID] = &cp
	return nil
}

func (r *fakeInvoiceRepo) NextSequenceForPrefix(_ context.Context, prefix string) (int64, error) {
	r.sequences[prefix]++
	return r.sequences[prefix], nil
}

func (r *fakeInvoiceRepo) collect(match func(*model.Invoice) bool) []model.Invoice {
	var res []model.Invoice
	for _, inv := range r.invoices {
		if match(inv) {
			res = append(res, *inv)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].InvoiceNumber < res[j].InvoiceNumber })
	return res
}

// --- invoice approval repository ---

type fakeApprovalRepo struct {
	approvals []model.InvoiceApproval
}

func newFakeApprovalRepo() *fakeApprovalRepo {
	return &fakeApprovalRepo{}
}

func (r *fakeApprovalRepo) Create(_ context.Context, approval *model.InvoiceApproval) error {
	if approval.ID == uuid.Nil {
		approval.ID = uuid.New()
	}
	approval.CreatedAt = time.Now()
	r.approvals = append(r.approvals, *approval)
	return nil
}

func (r *fakeApprovalRepo) FindByInvoiceID(_ context.Context, invoiceID uuid.UUID) ([]model.InvoiceApproval, error) {
	var res []model.InvoiceApproval
	for _, a := range r.approvals {
		if a.InvoiceID == invoiceID {
			res = append(res, a)
		}
	}
	return res, nil
}

func (r *fakeApprovalRepo) ExistsByInvoiceAndApprover(_ context.Context, invoiceID uuid.UUID, approver string) (bool, error) {
	for _, a := range r.approvals {
		if a.InvoiceID == invoiceID && a.ApprovedBy == approver {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeApprovalRepo) ExistsByInvoiceAndLevel(_ context.Context, invoiceID uuid.UUID, level int) (bool, error) {
	for _, a := range r.approvals {
		if a.InvoiceID == invoiceID && a.ApprovalLevel == level && a.Status == model.ApprovalApproved {
			return true, nil
		}
	}
	return false, nil
}

// --- approval rule repository ---

type fakeRuleRepo struct {
	rules map[uuid.UUID]*model.ApprovalRule
}

func newFakeRuleRepo() *fakeRuleRepo {
	return &fakeRuleRepo{rules: make(map[uuid.UUID]*model.ApprovalRule)}
}

func (r *fakeRuleRepo) Create(_ context.Context, rule *model.ApprovalRule) error {
	if rule.ID == uuid.Nil {
		rule.ID = uuid.New()
	}
	cp := *rule
	r.rules[rule.ID] = &cp
	return nil
}

func (r *fakeRuleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.ApprovalRule, error) {
	if rule, ok := r.rules[id]; ok {
		cp := *rule
		return &cp, nil
	}
	return nil, errNotFound
}

func (r *fakeRuleRepo) FindAll(_ context.Context) ([]model.ApprovalRule, error) {
	res := make([]model.ApprovalRule, 0, len(r.rules))
	for _, rule := range r.rules {
		res = append(res, *rule)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Priority < res[j].Priority })
	return res, nil
}

func (r *fakeRuleRepo) FindActiveOrderedByPriority(_ context.Context) ([]model.ApprovalRule, error) {
	var res []model.ApprovalRule
	for _, rule := range r.rules {
		if rule.IsActive {
			res = append(res, *rule)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Priority < res[j].Priority })
	return res, nil
}

func (r *fakeRuleRepo) Save(_ context.Context, rule *model.ApprovalRule) error {
	cp := *rule
	r.rules[rule.ID] = &cp
	return nil
}

func (r *fakeRuleRepo) Delete(_ context.Context, rule *model.ApprovalRule) error {
	delete(r.rules, rule.ID)
	return nil
}

// --- payment repository ---

type fakePaymentRepo struct {
	payments map[uuid.UUID]*model.Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[uuid.UUID]*model.Payment)}
}

func (r *fakePaymentRepo) Create(_ context.Context, payment *model.Payment) error {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	payment.CreatedAt = time.Now()
	cp := *payment
	r.payments[payment.ID] = &cp
	return nil
}

func (r *fakePaymentRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Payment, error) {
	if p, ok := r.payments[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, errNotFound
}

func (r *fakePaymentRepo) FindAll(_ context.Context) ([]model.Payment, error) {
	res := make([]model.Payment, 0, len(r.payments))
	for _, p := range r.payments {
		res = append(res, *p)
	}
	return res, nil
}

func (r *fakePaymentRepo) FindByInvoiceID(_ context.Context, invoiceID uuid.UUID) ([]model.Payment, error) {
	var res []model.Payment
	for _, p := range r.payments {
		if p.InvoiceID == invoiceID {
			res = append(res, *p)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].PaymentDate.Before(res[j].PaymentDate) })
	return res, nil
}

func (r *fakePaymentRepo) SumByInvoiceID(_ context.Context, invoiceID uuid.UUID) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, p := range r.payments {
		if p.InvoiceID == invoiceID {
			sum = sum.Add(p.Amount)
		}
	}
	return sum, nil
}

func (r *fakePaymentRepo) LastByInvoiceID(ctx context.Context, invoiceID uuid.UUID) (*model.Payment, error) {
	payments, _ := r.FindByInvoiceID(ctx, invoiceID)
	if len(payments) == 0 {
		return nil, nil
	}
	last := payments[len(payments)-1]
	return &last, nil
}

func (r *fakePaymentRepo) Delete(_ context.Context, payment *model.Payment) error {
	delete(r.payments, payment.ID)
	return nil
}

// --- audit repository ---

type fakeAuditRepo struct {
	entries []model.AuditLog
}

func newFakeAuditRepo() *fakeAuditRepo {
	return &fakeAuditRepo{}
}

func (r *fakeAuditRepo) Create(_ context.Context, entry *model.AuditLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeAuditRepo) List(_ context.Context, page, limit int) ([]model.AuditLog, int64, error) {
	total := int64(len(r.entries))
	start := (page - 1) * limit
	if start >= len(r.entries) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(r.entries) {
		end = len(r.entries)
	}
	return r.entries[start:end], total, nil
}

// --- user repository ---

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, errNotFound
}

func (r *fakeUserRepo) FindAll(_ context.Context) ([]model.User, error) {
	res := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		res = append(res, *u)
	}
	return res, nil
}

func (r *fakeUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.users)), nil
}
