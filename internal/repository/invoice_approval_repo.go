package repository

import (
	"context"

	"vims/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InvoiceApprovalRepository interface {
	Create(ctx context.Context, approval *model.InvoiceApproval) error
	FindByInvoiceID(ctx context.Context, invoiceID uuid.UUID) ([]model.InvoiceApproval, error)
	ExistsByInvoiceAndApprover(ctx context.Context, invoiceID uuid.UUID, approver string) (bool, error)
	ExistsByInvoiceAndLevel(ctx context.Context, invoiceID uuid.UUID, level int) (bool, error)
}

type invoiceApprovalRepository struct {
	db *gorm.DB
}

func NewInvoiceApprovalRepository(db *gorm.DB) InvoiceApprovalRepository {
	return &invoiceApprovalRepository{db: db}
}

func (r *invoiceApprovalRepository) Create(ctx context.Context, approval *model.InvoiceApproval) error {
	return GetDB(ctx, r.db).Create(approval).Error
}

func (r *invoiceApprovalRepository) FindByInvoiceID(ctx context.Context, invoiceID uuid.UUID) ([]model.InvoiceApproval, error) {
	var approvals []model.InvoiceApproval
	if err := GetDB(ctx, r.db).Where("invoice_id = ?", invoiceID).
		Order("created_at asc").Find(&approvals).Error; err != nil {
		return nil, err
	}
	return approvals, nil
}

func (r *invoiceApprovalRepository) ExistsByInvoiceAndApprover(ctx context.Context, invoiceID uuid.UUID, approver string) (bool, error) {
	var count int64
	if err := GetDB(ctx, r.db).Model(&model.InvoiceApproval{}).
		Where("invoice_id = ? AND approved_by = ?", invoiceID, approver).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *invoiceApprovalRepository) ExistsByInvoiceAndLevel(ctx context.Context, invoiceID uuid.UUID, level int) (bool, error) {
	var count int64
	if err := GetDB(ctx, r.db).Model(&model.InvoiceApproval{}).
		Where("invoice_id = ? AND approval_level = ? AND status = ?", invoiceID, level, model.ApprovalApproved).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
