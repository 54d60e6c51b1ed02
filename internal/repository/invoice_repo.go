package repository

import (
	"context"
	"time"

	"vims/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *model.Invoice) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	FindAll(ctx context.Context) ([]model.Invoice, error)
	FindByStatus(ctx context.Context, status string) ([]model.Invoice, error)
	FindByCreatedBy(ctx context.Context, username string) ([]model.Invoice, error)
	FindByVendorID(ctx context.Context, vendorID uuid.UUID) ([]model.Invoice, error)
	FindByDateRange(ctx context.Context, start, end time.Time) ([]model.Invoice, error)
	FindDueBefore(ctx context.Context, day time.Time, excludedStatuses []string) ([]model.Invoice, error)
	FindDueBetween(ctx context.Context, start, end time.Time, excludedStatuses []string) ([]model.Invoice, error)
	FindOverdueFlagged(ctx context.Context) ([]model.Invoice, error)
	Save(ctx context.Context, invoice *model.Invoice) error
	ReplaceItems(ctx context.Context, invoice *model.Invoice, items []model.InvoiceItem) error
	NextSequenceForPrefix(ctx context.Context, prefix string) (int64, error)
}

type invoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *model.Invoice) error {
	return GetDB(ctx, r.db).Create(invoice).Error
}

func (r *invoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	var invoice model.Invoice
	if err := GetDB(ctx, r.db).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("item_order ASC")
	}).First(&invoice, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

// FindByIDForUpdate acquires a row lock so concurrent approval or payment
// requests against the same invoice are serialized. Only meaningful inside
// a TransactionManager transaction.
func (r *invoiceRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	var invoice model.Invoice
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("item_order ASC")
		}).
		First(&invoice, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) FindAll(ctx context.Context) ([]model.Invoice, error) {
	return r.findWhere(ctx, nil)
}

func (r *invoiceRepository) FindByStatus(ctx context.Context, status string) ([]model.Invoice, error) {
	return r.findWhere(ctx, map[string]interface{}{"status": status})
}

func (r *invoiceRepository) FindByCreatedBy(ctx context.Context, username string) ([]model.Invoice, error) {
	return r.findWhere(ctx, map[string]interface{}{"created_by": username})
}

func (r *invoiceRepository) FindByVendorID(ctx context.Context, vendorID uuid.UUID) ([]model.Invoice, error) {
	return r.findWhere(ctx, map[string]interface{}{"vendor_id": vendorID})
}

func (r *invoiceRepository) findWhere(ctx context.Context, conds map[string]interface{}) ([]model.Invoice, error) {
	var invoices []model.Invoice
	query := GetDB(ctx, r.db).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("item_order ASC")
	}).Order("created_at desc")
	if conds != nil {
		query = query.Where(conds)
	}
	if err := query.Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *invoiceRepository) FindByDateRange(ctx context.Context, start, end time.Time) ([]model.Invoice, error) {
	var invoices []model.Invoice
	if err := GetDB(ctx, r.db).
		Where("invoice_date >= ? AND invoice_date <= ?", start, end).
		Order("invoice_date asc").Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *invoiceRepository) FindDueBefore(ctx context.Context, day time.Time, excludedStatuses []string) ([]model.Invoice, error) {
	var invoices []model.Invoice
	if err := GetDB(ctx, r.db).
		Where("due_date < ? AND status NOT IN ?", day, excludedStatuses).
		Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *invoiceRepository) FindDueBetween(ctx context.Context, start, end time.Time, excludedStatuses []string) ([]model.Invoice, error) {
	var invoices []model.Invoice
	if err := GetDB(ctx, r.db).
		Where("due_date >= ? AND due_date <= ? AND status NOT IN ?", start, end, excludedStatuses).
		Order("due_date asc").Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *invoiceRepository) FindOverdueFlagged(ctx context.Context) ([]model.Invoice, error) {
	var invoices []model.Invoice
	if err := GetDB(ctx, r.db).Where("is_overdue = ?", true).Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *invoiceRepository) Save(ctx context.Context, invoice *model.Invoice) error {
	return GetDB(ctx, r.db).Save(invoice).Error
}

// ReplaceItems deletes the invoice's current line items and inserts the new
// list in one shot. Callers recompute amounts before saving the invoice.
func (r *invoiceRepository) ReplaceItems(ctx context.Context, invoice *model.Invoice, items []model.InvoiceItem) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("invoice_id = ?", invoice.ID).Delete(&model.InvoiceItem{}).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].InvoiceID = invoice.ID
	}
	if len(items) > 0 {
		if err := db.Create(&items).Error; err != nil {
			return err
		}
	}
	invoice.Items = items
	return nil
}

// NextSequenceForPrefix returns the next per-day invoice sequence. A
// transaction-scoped advisory lock on the prefix prevents two concurrent
// creations from drawing the same number.
func (r *invoiceRepository) NextSequenceForPrefix(ctx context.Context, prefix string) (int64, error) {
	db := GetDB(ctx, r.db)
	db.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", prefix)

	var count int64
	if err := db.Model(&model.Invoice{}).
		Where("invoice_number LIKE ?", prefix+"%").
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count + 1, nil
}
