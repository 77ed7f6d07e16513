package service

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/templui/datanexus/internal/apperr"
	"github.com/templui/datanexus/internal/catalog"
	"github.com/templui/datanexus/internal/flatfile"
	"github.com/templui/datanexus/internal/model"
)

// Record is a row as submitted by a client, before sanitization.
type Record map[string]any

type TableService struct {
	catalog      *catalog.Catalog
	store        flatfile.Store
	auditService *AuditService
}

func NewTableService(catalog *catalog.Catalog, store flatfile.Store, auditService *AuditService) *TableService {
	return &TableService{
		catalog:      catalog,
		store:        store,
		auditService: auditService,
	}
}

// descriptor resolves a table id to a descriptor whose file exists.
func (s *TableService) descriptor(id string) (catalog.TableDescriptor, error) {
	table, ok := s.catalog.Table(id)
	if !ok {
		return catalog.TableDescriptor{}, apperr.NotFound(`Table "%s" not found.`, id)
	}
	if !s.store.Exists(table.Path) {
		return catalog.TableDescriptor{}, apperr.NotFound(`Source file for "%s" does not exist.`, id)
	}
	return table, nil
}

func (s *TableService) load(id string) (catalog.TableDescriptor, *flatfile.Table, error) {
	table, err := s.descriptor(id)
	if err != nil {
		return table, nil, err
	}

	data, err := s.store.Load(table.Path)
	if err != nil {
		return table, nil, err
	}

	rows := make([]model.Row, 0, len(data.Rows))
	for _, row := range data.Rows {
		rows = append(rows, row.Normalize(data.Columns))
	}
	data.Rows = rows
	if data.Columns == nil {
		data.Columns = []string{}
	}
	return table, data, nil
}

// ListTables returns every table in catalog order with its current columns.
func (s *TableService) ListTables() ([]model.TableSummary, error) {
	summaries := make([]model.TableSummary, 0, len(s.catalog.Tables))
	for _, t := range s.catalog.Tables {
		_, data, err := s.load(t.ID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, model.TableSummary{
			ID:          t.ID,
			Label:       t.Label,
			Description: t.Description,
			PrimaryKey:  t.PrimaryKey,
			Columns:     data.Columns,
		})
	}
	return summaries, nil
}

func (s *TableService) GetTable(id string) (*model.TableData, error) {
	table, data, err := s.load(id)
	if err != nil {
		return nil, err
	}

	return &model.TableData{
		Label:       table.Label,
		Description: table.Description,
		PrimaryKey:  table.PrimaryKey,
		Columns:     data.Columns,
		Rows:        data.Rows,
	}, nil
}

// Insert appends a new row. The primary key must be present and unused.
func (s *TableService) Insert(actor, id string, record Record) (model.Row, error) {
	table, err := s.descriptor(id)
	if err != nil {
		return nil, err
	}

	unlock := s.store.Lock(table.Path)
	defer unlock()

	table, data, err := s.load(id)
	if err != nil {
		return nil, err
	}

	pk := table.PrimaryKey
	key := cellValue(record[pk])
	if key == "" {
		return nil, apperr.Validation(`Field "%s" is required for new records.`, pk)
	}
	for _, row := range data.Rows {
		if row[pk] == key {
			return nil, apperr.Conflict(`A record with %s="%s" already exists.`, pk, key)
		}
	}

	row := sanitize(data.Columns, record)
	rows := append(data.Rows, row)

	err = s.store.Save(table.Path, data.Columns, rows)
	if err != nil {
		return nil, fmt.Errorf("failed to write table %s: %w", id, err)
	}

	s.auditService.Record(actor, model.AuditActionInsert, id, key)
	return row, nil
}

// Update overwrites the row identified by key with the sanitized record.
// The primary key itself never changes.
func (s *TableService) Update(actor, id, key string, record Record) (model.Row, error) {
	table, err := s.descriptor(id)
	if err != nil {
		return nil, err
	}

	unlock := s.store.Lock(table.Path)
	defer unlock()

	table, data, err := s.load(id)
	if err != nil {
		return nil, err
	}

	pk := table.PrimaryKey
	key = strings.TrimSpace(key)
	index := -1
	for i, row := range data.Rows {
		if row[pk] == key {
			index = i
			break
		}
	}
	if index == -1 {
		return nil, apperr.NotFound(`Record with %s="%s" not found.`, pk, key)
	}

	updated := data.Rows[index].Clone()
	for column, value := range sanitize(data.Columns, record) {
		updated[column] = value
	}
	updated[pk] = data.Rows[index][pk]
	data.Rows[index] = updated

	err = s.store.Save(table.Path, data.Columns, data.Rows)
	if err != nil {
		return nil, fmt.Errorf("failed to write table %s: %w", id, err)
	}

	s.auditService.Record(actor, model.AuditActionUpdate, id, key)
	return updated, nil
}

// Delete removes every row whose primary key equals key.
func (s *TableService) Delete(actor, id, key string) error {
	table, err := s.descriptor(id)
	if err != nil {
		return err
	}

	unlock := s.store.Lock(table.Path)
	defer unlock()

	table, data, err := s.load(id)
	if err != nil {
		return err
	}

	pk := table.PrimaryKey
	key = strings.TrimSpace(key)
	kept := make([]model.Row, 0, len(data.Rows))
	for _, row := range data.Rows {
		if row[pk] != key {
			kept = append(kept, row)
		}
	}
	if len(kept) == len(data.Rows) {
		return apperr.NotFound(`Record with %s="%s" not found.`, pk, key)
	}

	err = s.store.Save(table.Path, data.Columns, kept)
	if err != nil {
		return fmt.Errorf("failed to write table %s: %w", id, err)
	}

	s.auditService.Record(actor, model.AuditActionDelete, id, key)
	return nil
}

// sanitize builds a row holding every column; absent and null values
// become empty strings and all values are trimmed.
func sanitize(columns []string, record Record) model.Row {
	row := make(model.Row, len(columns))
	for _, column := range columns {
		row[column] = cellValue(record[column])
	}
	return row
}

// cellValue renders a decoded JSON value as trimmed cell text.
func cellValue(v any) string {
	var s string
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		s = value
	case json.Number:
		s = value.String()
	case float64:
		s = strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		s = strconv.FormatBool(value)
	default:
		data, err := json.Marshal(value)
		if err != nil {
			s = fmt.Sprint(value)
		} else {
			s = string(data)
		}
	}
	return strings.TrimSpace(s)
}
