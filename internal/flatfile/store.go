package flatfile

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/templui/datanexus/internal/model"
)

// Table is the full content of one flat file.
type Table struct {
	Columns []string
	Rows    []model.Row
}

// Store reads and writes tabular files as whole units.
type Store interface {
	// Load reads the file at path. A missing file yields an empty table.
	Load(path string) (*Table, error)

	// Save replaces the file at path with the given columns and rows.
	Save(path string, columns []string, rows []model.Row) error

	// Exists reports whether a regular file is present at path.
	Exists(path string) bool

	// Lock serializes read-modify-write cycles on path until the returned
	// func is called.
	Lock(path string) func()
}

type codec interface {
	decode(r io.Reader) (*Table, error)
	encode(w io.Writer, columns []string, rows []model.Row) error
}

// FileStore implements Store on the local filesystem. The codec is chosen
// by file extension: .xlsx files are spreadsheets, anything else is CSV.
type FileStore struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewFileStore() *FileStore {
	return &FileStore{locks: make(map[string]*sync.Mutex)}
}

func codecFor(path string) codec {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return xlsxCodec{}
	}
	return csvCodec{}
}

func (s *FileStore) Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Table{}, nil
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	table, err := codecFor(path).decode(f)
	if err != nil {
		return nil, err
	}
	return table, nil
}

// Save writes to a temp file in the target directory and renames it into
// place, so readers see either the old or the new content.
func (s *FileStore) Save(path string, columns []string, rows []model.Row) error {
	dir := filepath.Dir(path)
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if committed {
			return
		}
		_ = tmp.Close()
		if rmErr := os.Remove(tmpPath); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			slog.Warn("failed to remove temp file", "path", tmpPath, "error", rmErr)
		}
	}()

	err = codecFor(path).encode(tmp, columns, rows)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	err = tmp.Sync()
	if err != nil {
		return fmt.Errorf("failed to sync %s: %w", tmpPath, err)
	}
	err = tmp.Close()
	if err != nil {
		return fmt.Errorf("failed to close %s: %w", tmpPath, err)
	}
	err = os.Chmod(tmpPath, 0644)
	if err != nil {
		return fmt.Errorf("failed to chmod %s: %w", tmpPath, err)
	}
	err = os.Rename(tmpPath, path)
	if err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	committed = true
	return nil
}

func (s *FileStore) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func (s *FileStore) Lock(path string) func() {
	key := filepath.Clean(path)

	s.mu.Lock()
	m, ok := s.locks[key]
	if !ok {
		m = &sync.Mutex{}
		s.locks[key] = m
	}
	s.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// Append adds one row to the file at path, creating it with the given
// header when absent. Rows already in the file are normalized to columns.
func Append(store Store, path string, columns []string, row model.Row) error {
	unlock := store.Lock(path)
	defer unlock()

	table, err := store.Load(path)
	if err != nil {
		return err
	}

	rows := make([]model.Row, 0, len(table.Rows)+1)
	for _, existing := range table.Rows {
		rows = append(rows, existing.Normalize(columns))
	}
	rows = append(rows, row.Normalize(columns))

	return store.Save(path, columns, rows)
}
