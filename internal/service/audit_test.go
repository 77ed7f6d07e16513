package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/datanexus/internal/model"
)

func TestAuditRecent(t *testing.T) {
	repo := &memoryAuditRepository{}
	svc := NewAuditService(repo)

	for i := 0; i < 60; i++ {
		svc.Record("admin", model.AuditActionInsert, "students", "S1")
	}
	svc.Record("admin", model.AuditActionDelete, "students", "S1")

	entries, err := svc.Recent(0)
	require.NoError(t, err)
	assert.Len(t, entries, DefaultAuditLimit)
	assert.Equal(t, model.AuditActionDelete, entries[0].Action)
	assert.Equal(t, "admin", entries[0].Actor)
	assert.NotEmpty(t, entries[0].ID)

	entries, err = svc.Recent(MaxAuditLimit + 100)
	require.NoError(t, err)
	assert.Len(t, entries, 61)
}

func TestAuditDisabled(t *testing.T) {
	svc := NewAuditService(nil)
	svc.Record("admin", model.AuditActionInsert, "students", "S1")

	entries, err := svc.Recent(10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
