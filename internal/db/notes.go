package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const noteColumns = `id, title, content, is_pinned, is_favorite, is_deleted,
	creation_date, modification_date, color, notebook_id`

func (db *DB) ListNotes(ctx context.Context, q NoteQuery) ([]Note, error) {
	query, args := q.build()

	var rows []noteRow
	if err := db.conn.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, storeErr("list notes", err)
	}
	return toNotes(rows)
}

func (db *DB) CountNotes(ctx context.Context, scope Scope) (int, error) {
	where, args := scope.where()

	var n int
	if err := db.conn.GetContext(ctx, &n, "SELECT COUNT(*) FROM notes WHERE "+where, args...); err != nil {
		return 0, storeErr("count notes", err)
	}
	return n, nil
}

func (db *DB) GetNote(ctx context.Context, id int64) (*Note, error) {
	var row noteRow
	err := db.conn.GetContext(ctx, &row, "SELECT "+noteColumns+" FROM notes WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("note %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, storeErr("get note", err)
	}

	n, err := row.note()
	if err != nil {
		return nil, storeErr("get note", err)
	}
	return &n, nil
}

// InsertNote stores n and returns the id assigned by the store. n.ID is
// ignored.
func (db *DB) InsertNote(ctx context.Context, n Note) (int64, error) {
	result, err := db.conn.NamedExecContext(ctx, `
		INSERT INTO notes (title, content, is_pinned, is_favorite, is_deleted,
		                   creation_date, modification_date, color, notebook_id)
		VALUES (:title, :content, :is_pinned, :is_favorite, :is_deleted,
		        :creation_date, :modification_date, :color, :notebook_id)
	`, newNoteRow(n))
	if err != nil {
		return 0, storeErr("insert note", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, storeErr("get last insert id", err)
	}

	db.hub.Publish(TableNotes)
	return id, nil
}

// UpdateNote overwrites every column of the row with n.ID.
func (db *DB) UpdateNote(ctx context.Context, n Note) error {
	result, err := db.conn.NamedExecContext(ctx, `
		UPDATE notes SET title = :title, content = :content, is_pinned = :is_pinned,
		       is_favorite = :is_favorite, is_deleted = :is_deleted,
		       creation_date = :creation_date, modification_date = :modification_date,
		       color = :color, notebook_id = :notebook_id
		WHERE id = :id
	`, newNoteRow(n))
	return db.finishWrite("update note", n.ID, result, err)
}

// UpdateNoteFields writes the partial-update subset. The deleted flag and the
// creation date are left alone.
func (db *DB) UpdateNoteFields(ctx context.Context, f NoteFields) error {
	result, err := db.conn.ExecContext(ctx, `
		UPDATE notes SET title = ?, content = ?, is_favorite = ?, is_pinned = ?,
		       color = ?, notebook_id = ?, modification_date = ?
		WHERE id = ?
	`, f.Title, f.Content, f.IsFavorite, f.IsPinned, f.Color, f.NotebookID,
		FormatDate(f.ModificationDate), f.ID)
	return db.finishWrite("update note", f.ID, result, err)
}

func (db *DB) SetNoteDeleted(ctx context.Context, id int64, deleted bool) error {
	result, err := db.conn.ExecContext(ctx, `UPDATE notes SET is_deleted = ? WHERE id = ?`, deleted, id)
	return db.finishWrite("set note deleted", id, result, err)
}

// RestoreNotes clears the deleted flag on every id that exists and reports
// how many rows were restored.
func (db *DB) RestoreNotes(ctx context.Context, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In(`UPDATE notes SET is_deleted = 0 WHERE is_deleted = 1 AND id IN (?)`, ids)
	if err != nil {
		return 0, storeErr("restore notes", err)
	}
	return db.execMany(ctx, "restore notes", query, args)
}

func (db *DB) PurgeNotes(ctx context.Context, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In(`DELETE FROM notes WHERE id IN (?)`, ids)
	if err != nil {
		return 0, storeErr("purge notes", err)
	}
	return db.execMany(ctx, "purge notes", query, args)
}

func (db *DB) PurgeDeletedNotes(ctx context.Context) (int, error) {
	return db.execMany(ctx, "purge deleted notes", `DELETE FROM notes WHERE is_deleted = 1`, nil)
}

func (db *DB) execMany(ctx context.Context, op, query string, args []any) (int, error) {
	result, err := db.conn.ExecContext(ctx, db.conn.Rebind(query), args...)
	if err != nil {
		return 0, storeErr(op, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, storeErr(op, err)
	}
	if n > 0 {
		db.hub.Publish(TableNotes)
	}
	return int(n), nil
}

func (db *DB) finishWrite(op string, id int64, result sql.Result, err error) error {
	if err != nil {
		return storeErr(op, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return storeErr(op, err)
	}
	if n == 0 {
		return fmt.Errorf("note %d: %w", id, ErrNotFound)
	}
	db.hub.Publish(TableNotes)
	return nil
}

func toNotes(rows []noteRow) ([]Note, error) {
	notes := make([]Note, 0, len(rows))
	for _, r := range rows {
		n, err := r.note()
		if err != nil {
			return nil, storeErr("scan note", err)
		}
		notes = append(notes, n)
	}
	return notes, nil
}
