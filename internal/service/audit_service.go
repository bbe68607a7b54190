package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-platform/internal/domain"
	"github.com/spec-kit/helpdesk-platform/internal/repository"
)

// AuditService appends audit entries fire-and-forget. A failed write is
// logged and swallowed; it must never fail the primary operation.
type AuditService struct {
	audit  repository.AuditRepository
	logger *zap.Logger
}

// NewAuditService constructs the sink.
func NewAuditService(audit repository.AuditRepository, logger *zap.Logger) *AuditService {
	return &AuditService{audit: audit, logger: logger}
}

// Record appends an entry.
func (s *AuditService) Record(ctx context.Context, entityType, entityID, action, userID string, changes map[string]any) {
	if s == nil || s.audit == nil {
		return
	}
	entry := &domain.AuditEntry{
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		UserID:     userID,
		Changes:    changes,
	}
	if err := s.audit.Create(ctx, entry); err != nil {
		s.logger.Warn("audit write failed",
			zap.String("entity_type", entityType),
			zap.String("entity_id", entityID),
			zap.String("action", action),
			zap.Error(err))
	}
}
