package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

func (db *DB) ListNotebooks(ctx context.Context) ([]Notebook, error) {
	notebooks := []Notebook{}
	if err := db.conn.SelectContext(ctx, &notebooks, `SELECT id, description FROM notebooks ORDER BY id`); err != nil {
		return nil, storeErr("list notebooks", err)
	}
	return notebooks, nil
}

// FirstNotebooks returns up to limit notebooks in creation order.
func (db *DB) FirstNotebooks(ctx context.Context, limit int) ([]Notebook, error) {
	notebooks := []Notebook{}
	err := db.conn.SelectContext(ctx, &notebooks, `SELECT id, description FROM notebooks ORDER BY id LIMIT ?`, limit)
	if err != nil {
		return nil, storeErr("list notebooks", err)
	}
	return notebooks, nil
}

func (db *DB) GetNotebook(ctx context.Context, id int64) (*Notebook, error) {
	var nb Notebook
	err := db.conn.GetContext(ctx, &nb, `SELECT id, description FROM notebooks WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("notebook %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, storeErr("get notebook", err)
	}
	return &nb, nil
}

func (db *DB) InsertNotebook(ctx context.Context, nb Notebook) (int64, error) {
	result, err := db.conn.NamedExecContext(ctx, `INSERT INTO notebooks (description) VALUES (:description)`, nb)
	if err != nil {
		return 0, storeErr("insert notebook", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, storeErr("get last insert id", err)
	}
	db.hub.Publish(TableNotebooks)
	return id, nil
}

func (db *DB) UpdateNotebook(ctx context.Context, nb Notebook) error {
	result, err := db.conn.NamedExecContext(ctx, `UPDATE notebooks SET description = :description WHERE id = :id`, nb)
	if err != nil {
		return storeErr("update notebook", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return storeErr("update notebook", err)
	}
	if n == 0 {
		return fmt.Errorf("notebook %d: %w", nb.ID, ErrNotFound)
	}
	db.hub.Publish(TableNotebooks)
	return nil
}

// DeleteNotebook removes a notebook and moves its notes, trashed ones
// included, to the default notebook in the same transaction.
func (db *DB) DeleteNotebook(ctx context.Context, id int64) (int, error) {
	if id == DefaultNotebookID {
		return 0, ErrDefaultNotebook
	}

	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return 0, storeErr("begin transaction", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `DELETE FROM notebooks WHERE id = ?`, id)
	if err != nil {
		return 0, storeErr("delete notebook", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, storeErr("delete notebook", err)
	}
	if n == 0 {
		return 0, fmt.Errorf("notebook %d: %w", id, ErrNotFound)
	}

	result, err = tx.ExecContext(ctx, `UPDATE notes SET notebook_id = ? WHERE notebook_id = ?`, DefaultNotebookID, id)
	if err != nil {
		return 0, storeErr("reassign notes", err)
	}
	moved, err := result.RowsAffected()
	if err != nil {
		return 0, storeErr("reassign notes", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, storeErr("commit transaction", err)
	}

	db.hub.Publish(TableNotebooks, TableNotes)
	return int(moved), nil
}
