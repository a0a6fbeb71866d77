// Package state persists the last shown slide so a restarted carousel can
// resume where it stopped.
package state

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite" // SQLite driver
)

const (
	appName         = "carousel"
	dbFileName      = "carousel.db"
	defaultDebounce = 500 * time.Millisecond
)

// Manager persists the carousel position. Saves are debounced so a fast
// sequence of navigations costs a single write.
type Manager struct {
	db       *sql.DB
	log      *slog.Logger
	debounce time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending *Position
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger reports failed background saves to log.
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) { m.log = log }
}

// WithDebounce sets how long a save waits for a newer one. Zero writes
// every save immediately.
func WithDebounce(d time.Duration) Option {
	return func(m *Manager) { m.debounce = d }
}

// Open opens the database at path, or at the XDG data location when path
// is empty.
func Open(path string, opts ...Option) (*Manager, error) {
	if path == "" {
		p, err := xdg.DataFile(filepath.Join(appName, dbFileName))
		if err != nil {
			return nil, fmt.Errorf("locating database: %w", err)
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	// One writer; sqlite serializes anyway.
	db.SetMaxOpenConns(1)

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return newManager(db, opts...), nil
}

func newManager(db *sql.DB, opts ...Option) *Manager {
	m := &Manager{
		db:       db,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		debounce: defaultDebounce,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// GetPosition returns the saved position, or nil when none was saved yet.
func (m *Manager) GetPosition() (*Position, error) {
	return getPosition(m.db)
}

// SavePosition schedules pos to be written. A later call before the write
// replaces it.
func (m *Manager) SavePosition(pos Position) {
	if m.debounce <= 0 {
		m.write(pos)
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.pending = &pos
	if m.timer != nil {
		m.timer.Stop()
	}
	m.timer = time.AfterFunc(m.debounce, func() { _ = m.Flush() })
}

// Flush writes the pending position now, if any.
func (m *Manager) Flush() error {
	m.mu.Lock()
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	pending := m.pending
	m.pending = nil
	m.mu.Unlock()

	if pending == nil {
		return nil
	}
	return m.write(*pending)
}

// Close flushes the pending position and closes the database.
func (m *Manager) Close() error {
	flushErr := m.Flush()
	if err := m.db.Close(); err != nil {
		return err
	}
	return flushErr
}

func (m *Manager) write(pos Position) error {
	if err := savePosition(m.db, pos); err != nil {
		m.log.Warn("state: save failed", "index", pos.Index, "error", err)
		return err
	}
	return nil
}
