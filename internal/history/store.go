// Package history keeps one sqlite row per inspection run, so watch mode
// and the --trends flag can show how a package's exposed surface moves
// over time.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const (
	driverName  = "sqlite"
	maxAttempts = 5
)

// Snapshot is the API-surface summary of one run.
type Snapshot struct {
	RunID      string
	Package    string
	Timestamp  time.Time
	Nodes      int
	Namespaces int
	Callables  int
	Values     int
	Public     int
	Private    int
	Magic      int
	Aliases    int
	External   int
	MaxDepth   int
}

// Trend is the difference between two consecutive snapshots.
type Trend struct {
	From, To    Snapshot
	NodeDelta   int
	PublicDelta int
}

type Store struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

func Open(path string) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("history path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("history path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory %q: %w", dir, err)
		}
	}

	// busy_timeout + WAL reduce lock conflicts during watch-mode churn.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(2000)&_pragma=journal_mode(WAL)", cleanPath)
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite history %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite history %q: %w", cleanPath, err)
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize sqlite schema %q: %w", cleanPath, err)
	}

	return &Store{path: cleanPath, db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveSnapshot records one run. A missing run ID or timestamp is filled in.
func (s *Store) SaveSnapshot(snapshot Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if snapshot.RunID == "" {
		snapshot.RunID = uuid.New().String()
	}
	if snapshot.Timestamp.IsZero() {
		snapshot.Timestamp = time.Now().UTC()
	}
	if snapshot.Package == "" {
		snapshot.Package = "default"
	}

	query := `
INSERT INTO runs (
  run_id, package, schema_version, ts_utc, node_count, namespace_count,
  callable_count, value_count, public_count, private_count, magic_count,
  alias_count, external_count, max_depth
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`
	return s.withRetry("save snapshot", func() error {
		_, err := s.db.Exec(
			query,
			snapshot.RunID,
			snapshot.Package,
			SchemaVersion,
			snapshot.Timestamp.UTC().Format(time.RFC3339Nano),
			snapshot.Nodes,
			snapshot.Namespaces,
			snapshot.Callables,
			snapshot.Values,
			snapshot.Public,
			snapshot.Private,
			snapshot.Magic,
			snapshot.Aliases,
			snapshot.External,
			snapshot.MaxDepth,
		)
		return err
	})
}

// RecentSnapshots returns up to limit snapshots for the package, newest
// first.
func (s *Store) RecentSnapshots(pkg string, limit int) ([]Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(`
SELECT run_id, package, ts_utc, node_count, namespace_count, callable_count,
       value_count, public_count, private_count, magic_count, alias_count,
       external_count, max_depth
FROM runs WHERE package = ? ORDER BY ts_utc DESC LIMIT ?`, pkg, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var snap Snapshot
		var ts string
		if err := rows.Scan(
			&snap.RunID, &snap.Package, &ts, &snap.Nodes, &snap.Namespaces,
			&snap.Callables, &snap.Values, &snap.Public, &snap.Private,
			&snap.Magic, &snap.Aliases, &snap.External, &snap.MaxDepth,
		); err != nil {
			return nil, err
		}
		if parsed, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			snap.Timestamp = parsed
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

// LatestTrend compares the two most recent snapshots for the package.
func (s *Store) LatestTrend(pkg string) (*Trend, error) {
	snaps, err := s.RecentSnapshots(pkg, 2)
	if err != nil {
		return nil, err
	}
	if len(snaps) < 2 {
		return nil, nil
	}
	return &Trend{
		From:        snaps[1],
		To:          snaps[0],
		NodeDelta:   snaps[0].Nodes - snaps[1].Nodes,
		PublicDelta: snaps[0].Public - snaps[1].Public,
	}, nil
}

func (s *Store) withRetry(op string, fn func() error) error {
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if !strings.Contains(err.Error(), "database is locked") &&
			!strings.Contains(err.Error(), "busy") {
			break
		}
		time.Sleep(time.Duration(attempt) * 50 * time.Millisecond)
	}
	return fmt.Errorf("%s: %w", op, err)
}
