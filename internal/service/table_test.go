package service

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/datanexus/internal/apperr"
	"github.com/templui/datanexus/internal/catalog"
	"github.com/templui/datanexus/internal/flatfile"
)

func newTableService(t *testing.T) (*TableService, *catalog.Catalog, *memoryAuditRepository) {
	t.Helper()
	c := newFixtureCatalog(t)
	audit := &memoryAuditRepository{}
	return NewTableService(c, flatfile.NewFileStore(), NewAuditService(audit)), c, audit
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

func TestListTables(t *testing.T) {
	svc, _, _ := newTableService(t)

	tables, err := svc.ListTables()
	require.NoError(t, err)
	require.Len(t, tables, 6)

	var ids []string
	for _, table := range tables {
		ids = append(ids, table.ID)
	}
	assert.Equal(t, []string{"students", "employers", "contacts", "events", "dates", "alumniEngagement"}, ids)
	assert.Equal(t, "student_key", tables[0].PrimaryKey)
	assert.Equal(t, []string{"student_key", "first_name", "last_name", "program_name", "graduation_year"}, tables[0].Columns)
}

func TestListTablesMissingSource(t *testing.T) {
	svc, c, _ := newTableService(t)
	events, _ := c.Table("events")
	require.NoError(t, os.Remove(events.Path))

	_, err := svc.ListTables()
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Equal(t, `Source file for "events" does not exist.`, err.Error())
}

func TestGetTable(t *testing.T) {
	svc, _, _ := newTableService(t)

	data, err := svc.GetTable("employers")
	require.NoError(t, err)
	assert.Equal(t, "Employers", data.Label)
	assert.Equal(t, "employer_key", data.PrimaryKey)
	require.Len(t, data.Rows, 3)
	assert.Equal(t, "Amazon", data.Rows[1]["employer_name"])

	_, err = svc.GetTable("nope")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Equal(t, `Table "nope" not found.`, err.Error())
}

func TestInsert(t *testing.T) {
	svc, _, audit := newTableService(t)

	row, err := svc.Insert("admin", "events", Record{
		"event_key":  " EV2 ",
		"event_name": "Alumni Mixer",
		"unknown":    "dropped",
	})
	require.NoError(t, err)
	assert.Equal(t, "EV2", row["event_key"])
	assert.NotContains(t, row, "unknown")

	data, err := svc.GetTable("events")
	require.NoError(t, err)
	require.Len(t, data.Rows, 2)
	assert.Equal(t, "Alumni Mixer", data.Rows[1]["event_name"])
	assert.Equal(t, []string{"insert:events:EV2"}, audit.actions())
}

func TestInsertStringifiesValues(t *testing.T) {
	svc, _, _ := newTableService(t)

	var record Record
	require.NoError(t, json.Unmarshal([]byte(`{"date_key": 20240102, "full_date": null}`), &record))

	row, err := svc.Insert("admin", "dates", record)
	require.NoError(t, err)
	assert.Equal(t, "20240102", row["date_key"])
	assert.Equal(t, "", row["full_date"])
}

func TestInsertRejectionsLeaveFileUntouched(t *testing.T) {
	svc, c, audit := newTableService(t)
	students, _ := c.Table("students")
	before := readFile(t, students.Path)

	_, err := svc.Insert("admin", "students", Record{"first_name": "Nobody"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, `Field "student_key" is required for new records.`, err.Error())

	_, err = svc.Insert("admin", "students", Record{"student_key": "S1", "first_name": "Dup"})
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.Equal(t, `A record with student_key="S1" already exists.`, err.Error())

	assert.Equal(t, before, readFile(t, students.Path))
	assert.Empty(t, audit.actions())
}

func TestUpdateKeepsPrimaryKey(t *testing.T) {
	svc, _, audit := newTableService(t)

	row, err := svc.Update("admin", "students", "S3", Record{
		"student_key":  "S99",
		"first_name":   "Alan M.",
		"program_name": "PhD Mathematics",
	})
	require.NoError(t, err)
	assert.Equal(t, "S3", row["student_key"])
	assert.Equal(t, "Alan M.", row["first_name"])
	assert.Equal(t, "", row["last_name"], "omitted columns are cleared")

	data, err := svc.GetTable("students")
	require.NoError(t, err)
	assert.Equal(t, row, data.Rows[2])
	assert.Equal(t, []string{"update:students:S3"}, audit.actions())
}

func TestUpdateMissingRecord(t *testing.T) {
	svc, _, _ := newTableService(t)

	_, err := svc.Update("admin", "students", "S404", Record{"first_name": "x"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Equal(t, `Record with student_key="S404" not found.`, err.Error())
}

func TestDelete(t *testing.T) {
	svc, _, audit := newTableService(t)

	require.NoError(t, svc.Delete("admin", "contacts", "C1"))

	data, err := svc.GetTable("contacts")
	require.NoError(t, err)
	assert.Empty(t, data.Rows)
	assert.Equal(t, []string{"contact_key", "employer_key", "contact_name"}, data.Columns)

	err = svc.Delete("admin", "contacts", "C1")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Equal(t, `Record with contact_key="C1" not found.`, err.Error())
	assert.Equal(t, []string{"delete:contacts:C1"}, audit.actions())
}

func TestConcurrentInsertsKeepEveryRow(t *testing.T) {
	svc, _, _ := newTableService(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Insert("admin", "dates", Record{"date_key": fmt.Sprintf("202501%02d", i+2)})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	data, err := svc.GetTable("dates")
	require.NoError(t, err)
	assert.Len(t, data.Rows, 11)
}

func TestCellValue(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"  padded ", "padded"},
		{json.Number("42"), "42"},
		{float64(1.5), "1.5"},
		{float64(3), "3"},
		{true, "true"},
		{[]any{"a", "b"}, `["a","b"]`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cellValue(tt.in))
	}
}
