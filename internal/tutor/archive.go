package tutor

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/nkarpova/tutor-ai/internal/domain"
	_ "modernc.org/sqlite"
)

// Turn is one persisted chat transcript row.
type Turn struct {
	SessionID string
	UserID    string
	Role      string
	Intent    domain.IntentLabel
	Content   string
	Timestamp time.Time
}

// Archiver persists completed chat turns for offline review. Implementations
// must not block the pipeline.
type Archiver interface {
	Record(turn Turn)
}

// ArchiveConfig controls the SQLite transcript archive.
type ArchiveConfig struct {
	Path      string
	QueueSize int
}

// SQLiteArchive is an asynchronous transcript sink backed by SQLite. Record
// is fire-and-forget: a full queue drops the turn with a warning rather than
// stalling a chat response.
type SQLiteArchive struct {
	db     *sql.DB
	queue  chan Turn
	done   chan struct{}
	logger *slog.Logger

	mu     sync.Mutex
	closed bool
}

var _ Archiver = (*SQLiteArchive)(nil)

// NewSQLiteArchive opens (creating if needed) the archive database at
// cfg.Path and starts the background writer.
func NewSQLiteArchive(cfg ArchiveConfig, logger *slog.Logger) (*SQLiteArchive, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1000
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
		return nil, fmt.Errorf("create archive directory: %w", err)
	}

	// WAL so reads (offline review tooling) never block the writer.
	dsn := cfg.Path + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open archive database: %w", err)
	}
	db.SetMaxOpenConns(5)

	if _, err := db.Exec(schemaQuery); err != nil {
		return nil, fmt.Errorf("initialize archive schema: %w", err)
	}

	a := &SQLiteArchive{
		db:     db,
		queue:  make(chan Turn, cfg.QueueSize),
		done:   make(chan struct{}),
		logger: logger,
	}
	go a.run()
	return a, nil
}

const schemaQuery = `
	CREATE TABLE IF NOT EXISTS transcript (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		role TEXT NOT NULL,
		intent TEXT NOT NULL DEFAULT '',
		content TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_transcript_session ON transcript(session_id);
`

// Record queues a turn for archiving. Never blocks; turns are dropped with a
// warning when the queue is full or the archive is closed.
func (a *SQLiteArchive) Record(turn Turn) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	select {
	case a.queue <- turn:
	default:
		a.logger.Warn("transcript queue full, dropping turn", "session_id", turn.SessionID)
	}
}

// TurnCount reports how many turns have been archived for a session.
func (a *SQLiteArchive) TurnCount(ctx context.Context, sessionID string) (int, error) {
	var n int
	err := a.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transcript WHERE session_id = ?`, sessionID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count transcript turns: %w", err)
	}
	return n, nil
}

// Close drains the queue, stops the writer and closes the database.
func (a *SQLiteArchive) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	close(a.queue)
	a.mu.Unlock()

	<-a.done
	return a.db.Close()
}

func (a *SQLiteArchive) run() {
	defer close(a.done)
	for turn := range a.queue {
		if err := a.insert(turn); err != nil {
			a.logger.Warn("failed to archive chat turn", "error", err, "session_id", turn.SessionID)
		}
	}
}

func (a *SQLiteArchive) insert(turn Turn) error {
	const query = `
		INSERT INTO transcript (session_id, user_id, role, intent, content, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err := a.db.Exec(query,
		turn.SessionID, turn.UserID, turn.Role, string(turn.Intent), turn.Content, turn.Timestamp.Unix())
	if isSQLiteBusy(err) {
		time.Sleep(50 * time.Millisecond)
		_, err = a.db.Exec(query,
			turn.SessionID, turn.UserID, turn.Role, string(turn.Intent), turn.Content, turn.Timestamp.Unix())
	}
	if err != nil {
		return fmt.Errorf("insert transcript turn: %w", err)
	}
	return nil
}

// isSQLiteBusy matches SQLite's concurrency errors, which warrant one retry.
func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "SQLITE_BUSY") ||
		strings.Contains(err.Error(), "database is locked")
}
