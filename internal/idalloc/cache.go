package idalloc

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

// Cache persists (kind, key) -> id assignments in a small SQLite file
// so re-exports of an unchanged library keep the same ids. It is safe
// for concurrent use because the underlying *sql.DB is concurrency-safe.
type Cache struct {
	conn   *sql.DB
	logger *logrus.Logger

	lookupStmt *sql.Stmt
	storeStmt  *sql.Stmt
	maxStmt    *sql.Stmt
}

// OpenCache opens (or creates) the id cache at the provided path and
// ensures the schema exists. Caller should Close() it when finished.
func OpenCache(path string) (*Cache, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	conn, err := sql.Open("sqlite3", path+"?cache=shared&mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("failed to open id cache: %w", err)
	}

	conn.SetMaxOpenConns(2)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(15 * time.Minute)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA temp_store=memory;",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			logger.WithError(err).WithField("pragma", pragma).Warn("Failed to set pragma")
		}
	}

	c := &Cache{conn: conn, logger: logger}

	if err := c.createTables(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create id cache tables: %w", err)
	}
	if err := c.prepareStatements(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to prepare id cache statements: %w", err)
	}

	logger.WithField("cache_path", path).Info("Id cache initialized")
	return c, nil
}

// createTables is idempotent and safe to call multiple times.
func (c *Cache) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS ids (
		kind TEXT NOT NULL,
		key_hash TEXT NOT NULL,
		id INTEGER NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (kind, key_hash)
	);`
	if _, err := c.conn.Exec(schema); err != nil {
		return err
	}
	index := `CREATE INDEX IF NOT EXISTS idx_ids_kind ON ids(kind);`
	_, err := c.conn.Exec(index)
	return err
}

func (c *Cache) prepareStatements() error {
	var err error
	if c.lookupStmt, err = c.conn.Prepare(`SELECT id FROM ids WHERE kind = ? AND key_hash = ?`); err != nil {
		return err
	}
	if c.storeStmt, err = c.conn.Prepare(`INSERT OR IGNORE INTO ids (kind, key_hash, id) VALUES (?, ?, ?)`); err != nil {
		return err
	}
	if c.maxStmt, err = c.conn.Prepare(`SELECT COALESCE(MAX(id), 0) FROM ids WHERE kind = ?`); err != nil {
		return err
	}
	return nil
}

// Lookup returns the cached id for (kind, key), if any.
func (c *Cache) Lookup(kind Kind, key string) (uint32, bool, error) {
	var id uint32
	err := c.lookupStmt.QueryRow(string(kind), keyDigest(key)).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("id cache lookup failed: %w", err)
	}
	return id, true, nil
}

// Store records an assignment. Failures are logged and swallowed; a
// missing cache entry only costs id stability on the next run, never
// the current build.
func (c *Cache) Store(kind Kind, key string, id uint32) {
	if _, err := c.storeStmt.Exec(string(kind), keyDigest(key), id); err != nil {
		c.logger.WithError(err).WithFields(logrus.Fields{
			"kind": kind,
			"id":   id,
		}).Warn("Failed to store id cache entry")
	}
}

// MaxID returns the highest id recorded for kind (0 if none).
func (c *Cache) MaxID(kind Kind) (uint32, error) {
	var max uint32
	if err := c.maxStmt.QueryRow(string(kind)).Scan(&max); err != nil {
		return 0, fmt.Errorf("id cache max query failed: %w", err)
	}
	return max, nil
}

// Close releases the prepared statements and the connection.
func (c *Cache) Close() error {
	for _, stmt := range []*sql.Stmt{c.lookupStmt, c.storeStmt, c.maxStmt} {
		if stmt != nil {
			stmt.Close()
		}
	}
	return c.conn.Close()
}
