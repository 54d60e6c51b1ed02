package service

import (
	"context"
	"encoding/json"
	"log"

	"vims/internal/model"
	"vims/internal/repository"
)

// --- DTOs ---

type AuditLogResponse struct {
	ID          string `json:"id"`
	UserName    string `json:"user_name"`
	Action      string `json:"action"`
	EntityType  string `json:"entity_type"`
	EntityID    string `json:"entity_id"`
	OldValue    string `json:"old_value,omitempty"`
	NewValue    string `json:"new_value,omitempty"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}

// --- Interface ---

// AuditService records who did what. Record is best-effort: failures are
// logged and swallowed so the primary operation always proceeds.
type AuditService interface {
	Record(ctx context.Context, userName, action, entityType, entityID string, oldValue, newValue interface{}, description string)
	GetAuditLogs(ctx context.Context, page, limit int) ([]AuditLogResponse, int64, error)
}

type auditService struct {
	auditRepo repository.AuditRepository
}

func NewAuditService(auditRepo repository.AuditRepository) AuditService {
	return &auditService{auditRepo: auditRepo}
}

// --- Implementation ---

func (s *auditService) Record(ctx context.Context, userName, action, entityType, entityID string, oldValue, newValue interface{}, description string) {
	entry := model.AuditLog{
		UserName:    userName,
		Action:      action,
		EntityType:  entityType,
		EntityID:    entityID,
		OldValue:    marshalSnapshot(oldValue),
		NewValue:    marshalSnapshot(newValue),
		Description: description,
	}

	if err := s.auditRepo.Create(ctx, &entry); err != nil {
		log.Printf("audit: failed to record %s %s %s: %v", action, entityType, entityID, err)
	}
}

func (s *auditService) GetAuditLogs(ctx context.Context, page, limit int) ([]AuditLogResponse, int64, error) {
	logs, total, err := s.auditRepo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]AuditLogResponse, 0, len(logs))
	for _, l := range logs {
		res = append(res, AuditLogResponse{
			ID:          l.ID.String(),
			UserName:    l.UserName,
			Action:      l.Action,
			EntityType:  l.EntityType,
			EntityID:    l.EntityID,
			OldValue:    l.OldValue,
			NewValue:    l.NewValue,
			Description: l.Description,
			CreatedAt:   l.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	return res, total, nil
}

func marshalSnapshot(v interface{}) string {
	if v == nil {
		return ""
	}
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("audit: failed to serialize snapshot: %v", err)
		return `"serialization failed"`
	}
	return string(data)
}
