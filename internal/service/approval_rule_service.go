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

// --- DTOs ---

type ApprovalRuleRequest struct {
	MinAmount      string `json:"min_amount" binding:"required"`
	MaxAmount      string `json:"max_amount" binding:"required"`
	ApprovalLevels int    `json:"approval_levels" binding:"required,min=1,max=4"`
	RequiredRoles  string `json:"required_roles"` // comma-separated, e.g. "MANAGER,FINANCE"
	IsActive       *bool  `json:"is_active"`
	Priority       *int   `json:"priority"`
}

type ApprovalRuleResponse struct {
	ID             string `json:"id"`
	MinAmount      string `json:"min_amount"`
	MaxAmount      string `json:"max_amount"`
	ApprovalLevels int    `json:"approval_levels"`
	RequiredRoles  string `json:"required_roles"`
	IsActive       bool   `json:"is_active"`
	Priority       int    `json:"priority"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

// --- Interface ---

type ApprovalRuleService interface {
	GetApprovalRules(ctx context.Context) ([]ApprovalRuleResponse, error)
	GetActiveApprovalRules(ctx context.Context) ([]ApprovalRuleResponse, error)
	GetApprovalRuleByID(ctx context.Context, id string) (ApprovalRuleResponse, error)
	CreateApprovalRule(ctx context.Context, req ApprovalRuleRequest, userName string) (ApprovalRuleResponse, error)
	UpdateApprovalRule(ctx context.Context, id string, req ApprovalRuleRequest, userName string) (ApprovalRuleResponse, error)
	DeleteApprovalRule(ctx context.Context, id string, userName string) error
	ToggleApprovalRuleStatus(ctx context.Context, id string, userName string) (ApprovalRuleResponse, error)

	// FindApplicableRule returns the lowest-priority active rule whose range
	// contains the total, or nil when no rule applies (auto-approve).
	FindApplicableRule(ctx context.Context, total decimal.Decimal) (*model.ApprovalRule, error)
}

type approvalRuleService struct {
	ruleRepo     repository.ApprovalRuleRepository
	auditService AuditService
}

func NewApprovalRuleService(ruleRepo repository.ApprovalRuleRepository, auditService AuditService) ApprovalRuleService {
	return &approvalRuleService{ruleRepo: ruleRepo, auditService: auditService}
}

// --- Implementation ---

func (s *approvalRuleService) GetApprovalRules(ctx context.Context) ([]ApprovalRuleResponse, error) {
	rules, err := s.ruleRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch approval rules: %w", err)
	}
	return toRuleResponses(rules), nil
}

func (s *approvalRuleService) GetActiveApprovalRules(ctx context.Context) ([]ApprovalRuleResponse, error) {
	rules, err := s.ruleRepo.FindActiveOrderedByPriority(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch active approval rules: %w", err)
	}
	return toRuleResponses(rules), nil
}

func (s *approvalRuleService) GetApprovalRuleByID(ctx context.Context, id string) (ApprovalRuleResponse, error) {
	rule, err := s.findRule(ctx, id)
	if err != nil {
		return ApprovalRuleResponse{}, err
	}
	return toRuleResponse(*rule), nil
}

func (s *approvalRuleService) CreateApprovalRule(ctx context.Context, req ApprovalRuleRequest, userName string) (ApprovalRuleResponse, error) {
	minAmount, maxAmount, err := parseRuleRange(req.MinAmount, req.MaxAmount)
	if err != nil {
		return ApprovalRuleResponse{}, err
	}

	if err := s.validateNoOverlap(ctx, minAmount, maxAmount, nil); err != nil {
		return ApprovalRuleResponse{}, err
	}

	rule := model.ApprovalRule{
		MinAmount:      minAmount,
		MaxAmount:      maxAmount,
		ApprovalLevels: req.ApprovalLevels,
		RequiredRoles:  req.RequiredRoles,
		IsActive:       true,
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}
	if req.Priority != nil {
		rule.Priority = *req.Priority
	}

	if err := s.ruleRepo.Create(ctx, &rule); err != nil {
		return ApprovalRuleResponse{}, fmt.Errorf("failed to create approval rule: %w", err)
	}

	s.auditService.Record(ctx, userName, model.ActionCreate, model.EntityApprovalRule, rule.ID.String(),
		nil, req, fmt.Sprintf("Approval rule created for range %s - %s", req.MinAmount, req.MaxAmount))

	return toRuleResponse(rule), nil
}

func (s *approvalRuleService) UpdateApprovalRule(ctx context.Context, id string, req ApprovalRuleRequest, userName string) (ApprovalRuleResponse, error) {
	rule, err := s.findRule(ctx, id)
	if err != nil {
		return ApprovalRuleResponse{}, err
	}

	minAmount, maxAmount, err := parseRuleRange(req.MinAmount, req.MaxAmount)
	if err != nil {
		return ApprovalRuleResponse{}, err
	}

	excludeID := rule.ID
	if err := s.validateNoOverlap(ctx, minAmount, maxAmount, &excludeID); err != nil {
		return ApprovalRuleResponse{}, err
	}

	oldValue := toRuleResponse(*rule)

	rule.MinAmount = minAmount
	rule.MaxAmount = maxAmount
	rule.ApprovalLevels = req.ApprovalLevels
	rule.RequiredRoles = req.RequiredRoles
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}
	if req.Priority != nil {
		rule.Priority = *req.Priority
	}

	if err := s.ruleRepo.Save(ctx, rule); err != nil {
		return ApprovalRuleResponse{}, fmt.Errorf("failed to update approval rule: %w", err)
	}

	s.auditService.Record(ctx, userName, model.ActionUpdate, model.EntityApprovalRule, rule.ID.String(),
		oldValue, toRuleResponse(*rule), "Approval rule updated")

	return toRuleResponse(*rule), nil
}

func (s *approvalRuleService) DeleteApprovalRule(ctx context.Context, id string, userName string) error {
	rule, err := s.findRule(ctx, id)
	if err != nil {
		return err
	}

	oldValue := toRuleResponse(*rule)
	if err := s.ruleRepo.Delete(ctx, rule); err != nil {
		return fmt.Errorf("failed to delete approval rule: %w", err)
	}

	s.auditService.Record(ctx, userName, model.ActionDelete, model.EntityApprovalRule, id,
		oldValue, nil, "Approval rule deleted")
	return nil
}

func (s *approvalRuleService) ToggleApprovalRuleStatus(ctx context.Context, id string, userName string) (ApprovalRuleResponse, error) {
	rule, err := s.findRule(ctx, id)
	if err != nil {
		return ApprovalRuleResponse{}, err
	}

	rule.IsActive = !rule.IsActive
	if err := s.ruleRepo.Save(ctx, rule); err != nil {
		return ApprovalRuleResponse{}, fmt.Errorf("failed to toggle approval rule: %w", err)
	}

	s.auditService.Record(ctx, userName, model.ActionUpdate, model.EntityApprovalRule, rule.ID.String(),
		nil, toRuleResponse(*rule), fmt.Sprintf("Approval rule active=%t", rule.IsActive))

	return toRuleResponse(*rule), nil
}

func (s *approvalRuleService) FindApplicableRule(ctx context.Context, total decimal.Decimal) (*model.ApprovalRule, error) {
	rules, err := s.ruleRepo.FindActiveOrderedByPriority(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch active approval rules: %w", err)
	}

	// Rules arrive ordered by ascending priority; the first containing
	// range wins. Ranges are non-overlapping by construction, so priority
	// only breaks ties that should not occur.
	for i := range rules {
		if rules[i].Contains(total) {
			return &rules[i], nil
		}
	}
	return nil, nil
}

// --- Helpers ---

func (s *approvalRuleService) findRule(ctx context.Context, id string) (*model.ApprovalRule, error) {
	ruleID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.Validation("invalid approval rule id: %s", id)
	}
	rule, err := s.ruleRepo.FindByID(ctx, ruleID)
	if err != nil {
		return nil, apperror.NotFound("approval rule not found with id: %s", id)
	}
	return rule, nil
}

// validateNoOverlap rejects a range that intersects any existing rule's
// range, active or not. excludeID skips the rule being updated.
func (s *approvalRuleService) validateNoOverlap(ctx context.Context, minAmount, maxAmount decimal.Decimal, excludeID *uuid.UUID) error {
	existing, err := s.ruleRepo.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch approval rules: %w", err)
	}

	for _, rule := range existing {
		if excludeID != nil && rule.ID == *excludeID {
			continue
		}
		if minAmount.LessThan(rule.MaxAmount) && maxAmount.GreaterThan(rule.MinAmount) {
			return apperror.Validation("amount range overlaps with existing rule (id: %s, range: %s - %s)",
				rule.ID, rule.MinAmount.StringFixed(2), rule.MaxAmount.StringFixed(2))
		}
	}
	return nil
}

func parseRuleRange(minStr, maxStr string) (decimal.Decimal, decimal.Decimal, error) {
	minAmount, err := decimal.NewFromString(minStr)
	if err != nil {
		return decimal.Zero, decimal.Zero, apperror.Validation("invalid min_amount: %s", minStr)
	}
	maxAmount, err := decimal.NewFromString(maxStr)
	if err != nil {
		return decimal.Zero, decimal.Zero, apperror.Validation("invalid max_amount: %s", maxStr)
	}
	if minAmount.GreaterThanOrEqual(maxAmount) {
		return decimal.Zero, decimal.Zero, apperror.Validation("minimum amount must be less than maximum amount")
	}
	return minAmount, maxAmount, nil
}

func toRuleResponse(rule model.ApprovalRule) ApprovalRuleResponse {
	return ApprovalRuleResponse{
		ID:             rule.ID.String(),
		MinAmount:      rule.MinAmount.StringFixed(2),
		MaxAmount:      rule.MaxAmount.StringFixed(2),
		ApprovalLevels: rule.ApprovalLevels,
		RequiredRoles:  rule.RequiredRoles,
		IsActive:       rule.IsActive,
		Priority:       rule.Priority,
		CreatedAt:      rule.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      rule.UpdatedAt.Format(time.RFC3339),
	}
}

func toRuleResponses(rules []model.ApprovalRule) []ApprovalRuleResponse {
	res := make([]ApprovalRuleResponse, 0, len(rules))
	for _, r := range rules {
		res = append(res, toRuleResponse(r))
	}
	return res
}
