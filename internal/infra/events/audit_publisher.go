package events

import (
	"context"

	"fooddash/internal/domain/model"
	"fooddash/internal/repository"
)

// AuditLogPublisher はイベントを監査ログとしてDBに残す。
type AuditLogPublisher struct {
	repo repository.AuditLogRepository
}

func NewAuditLogPublisher(repo repository.AuditLogRepository) *AuditLogPublisher {
	return &AuditLogPublisher{repo: repo}
}

func (p *AuditLogPublisher) Publish(ctx context.Context, ev model.PortalEvent) error {
	return p.repo.Create(ctx, model.NewAuditLog(ev))
}
