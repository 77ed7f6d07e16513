package model

import (
	"time"
)

const (
	AuditActionInsert      = "insert"
	AuditActionUpdate      = "update"
	AuditActionDelete      = "delete"
	AuditActionImageUpload = "image_upload"
	AuditActionImageDelete = "image_delete"
)

type AuditEntry struct {
	ID        string    `db:"id" json:"id"`
	Actor     string    `db:"actor" json:"actor"`
	Action    string    `db:"action" json:"action"`
	Target    string    `db:"target" json:"target"` // table id or image category
	Key       string    `db:"record_key" json:"key"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
