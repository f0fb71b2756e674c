// Package chatdb opens and queries the IDE's chat-history SQLite store
// read-only (C2): `ItemTable(key TEXT, value BLOB)` rows keyed by
// `bubble:<composerId>:<bubbleId>` and per-session metadata keys.
//
// Grounded on the teacher's own direct dependency github.com/ncruces/go-sqlite3
// (+/driver +/embed), used throughout cmd/bd/doctor/*.go and
// internal/storage/sqlite/*_test.go for embedded, cgo-free SQLite access —
// used here instead of the teacher's production CGO mattn driver
// (internal/storage/sqlite/external_deps.go's sql.Open("sqlite3", ...))
// because we must coexist with a foreign process's live writer with zero
// host dependency, which the embedded engine does strictly better.
package chatdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// Errors per spec §7's database taxonomy.
var (
	ErrNotFound = errors.New("chatdb: path not found")
	ErrAccess   = errors.New("chatdb: access denied")
	ErrSchema   = errors.New("chatdb: unexpected schema")
	ErrQuery    = errors.New("chatdb: query failed")
)

// DefaultQueryTimeout bounds every query against the store (spec §5).
const DefaultQueryTimeout = 5 * time.Second

// Reader is a read-only view over one IDE SQLite file. No caching across
// calls — connections are cheap and the file may rotate.
type Reader struct {
	path string
}

// OpenReadonly validates path exists and is readable, then returns a
// Reader. It does not hold an open connection between queries: each
// query opens, runs, and closes, matching the contract-manager semantics
// spec §4.2 requires ("guarantee close on all exits").
func OpenReadonly(ctx context.Context, path string) (*Reader, error) {
	db, err := open(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if err := validateSchema(ctx, db); err != nil {
		return nil, err
	}
	return &Reader{path: path}, nil
}

func open(path string) (*sql.DB, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrAccess, err)
	}
	dsn := fmt.Sprintf("file:%s?mode=ro&immutable=0", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAccess, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		if errors.Is(err, sql.ErrConnDone) {
			return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrAccess, err)
	}
	return db, nil
}

func validateSchema(ctx context.Context, db *sql.DB) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultQueryTimeout)
	defer cancel()

	row := db.QueryRowContext(ctx, `SELECT count(*) FROM sqlite_master WHERE type='table' AND name='ItemTable'`)
	var count int
	if err := row.Scan(&count); err != nil {
		return fmt.Errorf("%w: %v", ErrQuery, err)
	}
	if count == 0 {
		return fmt.Errorf("%w: ItemTable not found", ErrSchema)
	}

	cols, err := db.QueryContext(ctx, `PRAGMA table_info(ItemTable)`)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrQuery, err)
	}
	defer cols.Close()

	var hasKey, hasValue bool
	for cols.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dflt sql.NullString
		if err := cols.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return fmt.Errorf("%w: %v", ErrQuery, err)
		}
		switch name {
		case "key":
			hasKey = true
		case "value":
			hasValue = true
		}
	}
	if !hasKey || !hasValue {
		return fmt.Errorf("%w: ItemTable missing key/value columns", ErrSchema)
	}
	return nil
}

// Get fetches the value for one key, returning ErrNotFound if absent.
func (r *Reader) Get(ctx context.Context, key string) ([]byte, error) {
	db, err := open(r.path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(ctx, DefaultQueryTimeout)
	defer cancel()

	row := db.QueryRowContext(ctx, `SELECT value FROM ItemTable WHERE key = ?`, key)
	var value []byte
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: key %q", ErrNotFound, key)
		}
		return nil, fmt.Errorf("%w: %v", ErrQuery, err)
	}
	return value, nil
}

// Query runs an arbitrary read against ItemTable (e.g. prefix scans for
// `bubble:<composerId>:%`), returning (key, value) pairs.
func (r *Reader) Query(ctx context.Context, sqlText string, args ...any) ([]KeyValue, error) {
	db, err := open(r.path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(ctx, DefaultQueryTimeout)
	defer cancel()

	rows, err := db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQuery, err)
	}
	defer rows.Close()

	var out []KeyValue
	for rows.Next() {
		var kv KeyValue
		if err := rows.Scan(&kv.Key, &kv.Value); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrQuery, err)
		}
		out = append(out, kv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQuery, err)
	}
	return out, nil
}

// CheckIntegrity runs PRAGMA integrity_check. Not run automatically —
// it is expensive, per spec §4.2 — only on explicit caller request.
func (r *Reader) CheckIntegrity(ctx context.Context) error {
	db, err := open(r.path)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(ctx, DefaultQueryTimeout)
	defer cancel()

	row := db.QueryRowContext(ctx, `PRAGMA integrity_check`)
	var result string
	if err := row.Scan(&result); err != nil {
		return fmt.Errorf("%w: %v", ErrQuery, err)
	}
	if result != "ok" {
		return fmt.Errorf("%w: integrity check failed: %s", ErrSchema, result)
	}
	return nil
}

// KeyValue is one ItemTable row.
type KeyValue struct {
	Key   string
	Value []byte
}
