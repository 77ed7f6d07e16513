package repository

import (
	"github.com/jmoiron/sqlx"
	"github.com/templui/datanexus/internal/model"
)

type AuditRepository interface {
	Create(entry *model.AuditEntry) error
	Recent(limit int) ([]*model.AuditEntry, error)
}

type auditRepository struct {
	db *sqlx.DB
}

func NewAuditRepository(db *sqlx.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(entry *model.AuditEntry) error {
	query := `INSERT INTO audit_entries (id, actor, action, target, record_key, created_at) VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(query, entry.ID, entry.Actor, entry.Action, entry.Target, entry.Key, entry.CreatedAt)
	return err
}

func (r *auditRepository) Recent(limit int) ([]*model.AuditEntry, error) {
	var entries []*model.AuditEntry
	query := `SELECT id, actor, action, target, record_key, created_at FROM audit_entries ORDER BY created_at DESC, id DESC LIMIT $1`

	err := r.db.Select(&entries, query, limit)
	if err != nil {
		return nil, err
	}

	return entries, nil
}
