package service

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/templui/datanexus/internal/model"
	"github.com/templui/datanexus/internal/repository"
)

const (
	DefaultAuditLimit = 50
	MaxAuditLimit     = 500
)

// AuditService records admin mutations. A nil repository disables it.
type AuditService struct {
	auditRepository repository.AuditRepository
}

func NewAuditService(auditRepository repository.AuditRepository) *AuditService {
	return &AuditService{
		auditRepository: auditRepository,
	}
}

// Record stores one entry. Failures are logged and never returned, the
// mutation it describes has already happened.
func (s *AuditService) Record(actor, action, target, key string) {
	if s == nil || s.auditRepository == nil {
		return
	}

	entry := &model.AuditEntry{
		ID:        uuid.New().String(),
		Actor:     actor,
		Action:    action,
		Target:    target,
		Key:       key,
		CreatedAt: time.Now().UTC(),
	}

	err := s.auditRepository.Create(entry)
	if err != nil {
		slog.Error("failed to record audit entry",
			"error", err,
			"actor", actor,
			"action", action,
			"target", target,
			"key", key,
		)
	}
}

// Recent returns the newest entries first. limit is clamped to
// [1, MaxAuditLimit]; zero or less selects DefaultAuditLimit.
func (s *AuditService) Recent(limit int) ([]*model.AuditEntry, error) {
	if limit <= 0 {
		limit = DefaultAuditLimit
	}
	if limit > MaxAuditLimit {
		limit = MaxAuditLimit
	}

	if s == nil || s.auditRepository == nil {
		return []*model.AuditEntry{}, nil
	}

	entries, err := s.auditRepository.Recent(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load audit entries: %w", err)
	}
	if entries == nil {
		entries = []*model.AuditEntry{}
	}
	return entries, nil
}
