package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
)

// driverName is go-sqlite3 with a fold() SQL function so title prefix
// matching is case-insensitive beyond ASCII.
const driverName = "sqlite3_notes"

func init() {
	sqlx.BindDriver(driverName, sqlx.QUESTION)
	sql.Register(driverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("fold", strings.ToLower, true)
		},
	})
}

type DB struct {
	conn *sqlx.DB
	hub  *Hub
}

func New(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	conn, err := sqlx.Open(driverName, dbPath+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection serializes writers; readers queue behind them.
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn, hub: NewHub()}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS notes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL DEFAULT '',
		content TEXT NOT NULL DEFAULT '',
		is_pinned INTEGER NOT NULL DEFAULT 0,
		is_deleted INTEGER NOT NULL DEFAULT 0,
		is_favorite INTEGER NOT NULL DEFAULT 0,
		creation_date TEXT NOT NULL,
		modification_date TEXT NOT NULL,
		color INTEGER NOT NULL DEFAULT 0,
		notebook_id INTEGER NOT NULL DEFAULT 1
	);
	CREATE TABLE IF NOT EXISTS notebooks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		description TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_notes_title ON notes(title);
	CREATE INDEX IF NOT EXISTS idx_notes_deleted ON notes(is_deleted);
	CREATE INDEX IF NOT EXISTS idx_notes_notebook ON notes(notebook_id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// Changes subscribes to commits touching any of the given tables.
func (db *DB) Changes(tables ...Table) (<-chan struct{}, func()) {
	return db.hub.Subscribe(tables...)
}

func (db *DB) Close() error {
	return db.conn.Close()
}
