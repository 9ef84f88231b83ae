package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/doeshing/notecalc/internal/domain"
	"github.com/doeshing/notecalc/internal/pkg/filesystem"
	"github.com/doeshing/notecalc/internal/ports"
)

// SQLiteStore persists history in a SQLite database. When the database
// cannot be opened it degrades to a jsonl FileStore in the same directory.
type SQLiteStore struct {
	db            *sql.DB
	path          string
	fallback      *FileStore
	mu            sync.Mutex
	retentionDays int
}

// NewSQLiteStore opens ~/.notecalc/history/history.db.
func NewSQLiteStore(retentionDays int) *SQLiteStore {
	return NewSQLiteStoreAt(filesystem.AppPath(domain.HistoryDirName, domain.HistoryDBFileName), retentionDays)
}

// NewSQLiteStoreAt opens (or creates) the database at path.
func NewSQLiteStoreAt(path string, retentionDays int) *SQLiteStore {
	store := &SQLiteStore{path: path, retentionDays: retentionDays}
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return store.degrade()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return store.degrade()
	}
	store.db = db
	if err := store.init(); err != nil {
		_ = db.Close()
		store.db = nil
		return store.degrade()
	}
	return store
}

func (s *SQLiteStore) degrade() *SQLiteStore {
	s.fallback = NewFileStoreAt(filepath.Join(filepath.Dir(s.path), domain.HistoryJSONLName))
	return s
}

func (s *SQLiteStore) init() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS evaluations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TEXT NOT NULL,
		session_id TEXT,
		kind TEXT,
		input TEXT,
		output TEXT,
		value REAL
	);`)
	return err
}

// Degraded reports whether records go to the jsonl fallback.
func (s *SQLiteStore) Degraded() bool {
	return s.db == nil
}

// Save inserts a new record and applies the retention policy.
func (s *SQLiteStore) Save(record domain.HistoryRecord) error {
	if s.db == nil {
		return s.fallback.Save(record)
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}
	s.mu.Lock()
	_, err := s.db.Exec(`INSERT INTO evaluations
		(timestamp, session_id, kind, input, output, value)
		VALUES (?, ?, ?, ?, ?, ?)`,
		formatTimestamp(record.Timestamp),
		record.SessionID,
		string(record.Kind),
		record.Input,
		record.Output,
		record.Value,
	)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	if s.retentionDays > 0 {
		return s.PruneOlderThan(s.retentionDays)
	}
	return nil
}

// Records returns history entries newest first (limit/search optional).
func (s *SQLiteStore) Records(limit int, search string) ([]domain.HistoryRecord, error) {
	if s.db == nil {
		return s.fallback.Records(limit, search)
	}
	builder := strings.Builder{}
	builder.WriteString("SELECT timestamp, session_id, kind, input, output, value FROM evaluations")
	var args []interface{}
	if search != "" {
		builder.WriteString(" WHERE input LIKE ? OR output LIKE ?")
		args = append(args, "%"+search+"%", "%"+search+"%")
	}
	builder.WriteString(" ORDER BY timestamp DESC, id DESC")
	if limit > 0 {
		builder.WriteString(" LIMIT ?")
		args = append(args, limit)
	}
	rows, err := s.db.Query(builder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var records []domain.HistoryRecord
	for rows.Next() {
		var rec domain.HistoryRecord
		var ts, kind string
		if err := rows.Scan(&ts, &rec.SessionID, &kind, &rec.Input, &rec.Output, &rec.Value); err != nil {
			return nil, err
		}
		if t, err := time.Parse(domain.TimestampFormat, ts); err == nil {
			rec.Timestamp = t
		}
		rec.Kind = domain.LineKind(kind)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Clear deletes all history entries.
func (s *SQLiteStore) Clear() error {
	if s.db == nil {
		return s.fallback.Clear()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec("DELETE FROM evaluations")
	return err
}

// ExportJSON writes the evaluation table to a jsonl file, oldest first.
func (s *SQLiteStore) ExportJSON(dest string) error {
	if s.db == nil {
		return s.fallback.ExportJSON(dest)
	}
	records, err := s.Records(0, "")
	if err != nil {
		return err
	}
	file, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer file.Close()
	for i := len(records) - 1; i >= 0; i-- {
		b, err := json.Marshal(records[i])
		if err != nil {
			return err
		}
		if _, err := file.Write(append(b, '\n')); err != nil {
			return err
		}
	}
	return nil
}

// Path returns the active storage path.
func (s *SQLiteStore) Path() string {
	if s.db == nil {
		return s.fallback.Path()
	}
	return s.path
}

// PruneOlderThan removes entries older than N days.
func (s *SQLiteStore) PruneOlderThan(days int) error {
	if days <= 0 {
		return nil
	}
	if s.db == nil {
		return s.fallback.PruneOlderThan(days)
	}
	cutoff := formatTimestamp(time.Now().AddDate(0, 0, -days))
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.Exec("DELETE FROM evaluations WHERE timestamp < ?", cutoff); err != nil {
		return fmt.Errorf("prune history: %w", err)
	}
	return nil
}

// SetRetentionDays updates retention policy.
func (s *SQLiteStore) SetRetentionDays(days int) {
	s.retentionDays = days
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// formatTimestamp stores UTC RFC3339 so string order matches time order.
func formatTimestamp(t time.Time) string {
	return t.UTC().Format(domain.TimestampFormat)
}

var _ ports.HistoryRepository = (*SQLiteStore)(nil)
