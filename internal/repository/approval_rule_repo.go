package repository

import (
	"context"

	"vims/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ApprovalRuleRepository interface {
	Create(ctx context.Context, rule *model.ApprovalRule) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ApprovalRule, error)
	FindAll(ctx context.Context) ([]model.ApprovalRule, error)
	FindActiveOrderedByPriority(ctx context.Context) ([]model.ApprovalRule, error)
	Save(ctx context.Context, rule *model.ApprovalRule) error
	Delete(ctx context.Context, rule *model.ApprovalRule) error
}

type approvalRuleRepository struct {
	db *gorm.DB
}

func NewApprovalRuleRepository(db *gorm.DB) ApprovalRuleRepository {
	return &approvalRuleRepository{db: db}
}

func (r *approvalRuleRepository) Create(ctx context.Context, rule *model.ApprovalRule) error {
	return GetDB(ctx, r.db).Create(rule).Error
}

func (r *approvalRuleRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.ApprovalRule, error) {
	var rule model.ApprovalRule
	if err := GetDB(ctx, r.db).First(&rule, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *approvalRuleRepository) FindAll(ctx context.Context) ([]model.ApprovalRule, error) {
	var rules []model.ApprovalRule
	if err := GetDB(ctx, r.db).Order("priority asc").Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *approvalRuleRepository) FindActiveOrderedByPriority(ctx context.Context) ([]model.ApprovalRule, error) {
	var rules []model.ApprovalRule
	if err := GetDB(ctx, r.db).Where("is_active = ?", true).
		Order("priority asc").Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *approvalRuleRepository) Save(ctx context.Context, rule *model.ApprovalRule) error {
	return GetDB(ctx, r.db).Save(rule).Error
}

func (r *approvalRuleRepository) Delete(ctx context.Context, rule *model.ApprovalRule) error {
	return GetDB(ctx, r.db).Delete(rule).Error
}
