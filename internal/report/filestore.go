package report

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

const historyFile = "history.json"

// historyDB is the on-disk layout of a FileStore.
type historyDB struct {
	Version int      `json:"version"`
	Records []Record `json:"records"`
}

// FileStore keeps calculation records in a JSON file.
type FileStore struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// NewFileStore returns a store backed by path. The file is created on the
// first Report.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, now: time.Now}
}

// DefaultHistoryPath returns ~/.config/smartcalc/history.json.
func DefaultHistoryPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "smartcalc", historyFile), nil
}

// Path returns the backing file path.
func (s *FileStore) Path() string { return s.path }

// Report appends a record with a fresh ID and timestamp.
func (s *FileStore) Report(ctx context.Context, source, expression string, result float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.load()
	if err != nil {
		return err
	}
	db.Records = append(db.Records, Record{
		ID:         uuid.NewString(),
		Source:     source,
		Expression: expression,
		Result:     result,
		Created:    s.now(),
	})
	return s.save(db)
}

// List returns all records, oldest first.
func (s *FileStore) List() ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.load()
	if err != nil {
		return nil, err
	}
	return db.Records, nil
}

// Clear removes every record.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(&historyDB{Version: 1})
}

func (s *FileStore) load() (*historyDB, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &historyDB{Version: 1}, nil
		}
		return nil, err
	}

	var db historyDB
	if err := json.Unmarshal(data, &db); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.path, err)
	}
	return &db, nil
}

func (s *FileStore) save(db *historyDB) error {
	data, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
