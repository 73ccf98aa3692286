package linkdb

import (
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	_ "modernc.org/sqlite"
)

// DB is an offline link dump: pages, redirects, and ordered outbound links,
// keyed by normalized title. It is written once by `linkdb load` and then
// read by Resolve, so the connection settings favour many readers.
type DB struct {
	conn *sql.DB
	Path string
}

// busyTimeoutMS lets a reader wait out a concurrent load's write lock
// instead of failing with SQLITE_BUSY.
const busyTimeoutMS = 5000

// connPragmas apply to every pooled connection. Links cascade with their
// page, so foreign keys must be on for deletes to stay consistent.
var connPragmas = []string{
	"foreign_keys(1)",
	fmt.Sprintf("busy_timeout(%d)", busyTimeoutMS),
}

// OpenDB opens the link dump at path. ":memory:" opens a private in-memory
// database on a single connection, since each connection would otherwise
// see its own empty database.
func OpenDB(path string) (*DB, error) {
	if path == ":memory:" {
		conn, err := sql.Open("sqlite", path)
		if err != nil {
			return nil, fmt.Errorf("opening link dump: %w", err)
		}
		conn.SetMaxOpenConns(1)
		if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
			conn.Close()
			return nil, fmt.Errorf("enabling foreign keys: %w", err)
		}
		return &DB{conn: conn, Path: path}, nil
	}

	conn, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("opening link dump: %w", err)
	}
	// WAL persists in the file: lookups keep reading the last committed
	// dump while a load is writing.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}
	return &DB{conn: conn, Path: path}, nil
}

func dsn(path string) string {
	q := url.Values{}
	for _, p := range connPragmas {
		q.Add("_pragma", p)
	}
	// '?' and '#' would otherwise start the URI query or fragment.
	escaped := strings.NewReplacer("%", "%25", "?", "%3f", "#", "%23").Replace(path)
	return "file:" + escaped + "?" + q.Encode()
}

// Close closes the database connection
func (d *DB) Close() error {
	return d.conn.Close()
}

// Conn returns the underlying sql.DB for custom queries
func (d *DB) Conn() *sql.DB {
	return d.conn
}
