package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Row types mirror the schema one to one. Timestamps are stored as
// RFC3339Nano strings.

type Note struct {
	ID        string
	Title     string
	Path      string
	Body      string
	CreatedAt string
	UpdatedAt string
}

type Revision struct {
	ID        string
	NoteID    string
	Version   string
	Body      string
	CreatedAt string
}

type Log struct {
	ID         string
	Timestamp  string
	Level      string
	Message    string
	Attributes sql.NullString
	CreatedAt  string
}

// DBTX is the common surface of *sql.DB and *sql.Tx the queries run on.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns queries bound to the transaction.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

type CreateNoteParams struct {
	ID    string
	Title string
	Path  string
	Body  string
}

const createNote = `
INSERT INTO notes (id, title, path, body, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING id, title, path, body, created_at, updated_at
`

func (q *Queries) CreateNote(ctx context.Context, arg CreateNoteParams) (Note, error) {
	ts := now()
	row := q.db.QueryRowContext(ctx, createNote, arg.ID, arg.Title, arg.Path, arg.Body, ts, ts)
	var n Note
	err := row.Scan(&n.ID, &n.Title, &n.Path, &n.Body, &n.CreatedAt, &n.UpdatedAt)
	return n, err
}

const getNoteByID = `
SELECT id, title, path, body, created_at, updated_at FROM notes WHERE id = ?
`

func (q *Queries) GetNoteByID(ctx context.Context, id string) (Note, error) {
	row := q.db.QueryRowContext(ctx, getNoteByID, id)
	var n Note
	err := row.Scan(&n.ID, &n.Title, &n.Path, &n.Body, &n.CreatedAt, &n.UpdatedAt)
	return n, err
}

const getNoteByPath = `
SELECT id, title, path, body, created_at, updated_at FROM notes WHERE path = ?
`

func (q *Queries) GetNoteByPath(ctx context.Context, path string) (Note, error) {
	row := q.db.QueryRowContext(ctx, getNoteByPath, path)
	var n Note
	err := row.Scan(&n.ID, &n.Title, &n.Path, &n.Body, &n.CreatedAt, &n.UpdatedAt)
	return n, err
}

const listNotes = `
SELECT id, title, path, body, created_at, updated_at FROM notes ORDER BY updated_at DESC
`

func (q *Queries) ListNotes(ctx context.Context) ([]Note, error) {
	rows, err := q.db.QueryContext(ctx, listNotes)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var notes []Note
	for rows.Next() {
		var n Note
		if err := rows.Scan(&n.ID, &n.Title, &n.Path, &n.Body, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

const searchNotes = `
SELECT id, title, path, body, created_at, updated_at FROM notes
WHERE title LIKE ? OR body LIKE ?
ORDER BY updated_at DESC
`

func (q *Queries) SearchNotes(ctx context.Context, term string) ([]Note, error) {
	like := fmt.Sprintf("%%%s%%", term)
	rows, err := q.db.QueryContext(ctx, searchNotes, like, like)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var notes []Note
	for rows.Next() {
		var n Note
		if err := rows.Scan(&n.ID, &n.Title, &n.Path, &n.Body, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

type UpdateNoteParams struct {
	ID    string
	Title string
	Body  string
}

const updateNote = `
UPDATE notes SET title = ?, body = ?, updated_at = ?
WHERE id = ?
RETURNING id, title, path, body, created_at, updated_at
`

func (q *Queries) UpdateNote(ctx context.Context, arg UpdateNoteParams) (Note, error) {
	row := q.db.QueryRowContext(ctx, updateNote, arg.Title, arg.Body, now(), arg.ID)
	var n Note
	err := row.Scan(&n.ID, &n.Title, &n.Path, &n.Body, &n.CreatedAt, &n.UpdatedAt)
	return n, err
}

const deleteNote = `DELETE FROM notes WHERE id = ?`

func (q *Queries) DeleteNote(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, deleteNote, id)
	return err
}

type CreateRevisionParams struct {
	ID      string
	NoteID  string
	Version string
	Body    string
}

const createRevision = `
INSERT INTO revisions (id, note_id, version, body, created_at)
VALUES (?, ?, ?, ?, ?)
RETURNING id, note_id, version, body, created_at
`

func (q *Queries) CreateRevision(ctx context.Context, arg CreateRevisionParams) (Revision, error) {
	row := q.db.QueryRowContext(ctx, createRevision, arg.ID, arg.NoteID, arg.Version, arg.Body, now())
	var r Revision
	err := row.Scan(&r.ID, &r.NoteID, &r.Version, &r.Body, &r.CreatedAt)
	return r, err
}

const getRevision = `
SELECT id, note_id, version, body, created_at FROM revisions WHERE id = ?
`

func (q *Queries) GetRevision(ctx context.Context, id string) (Revision, error) {
	row := q.db.QueryRowContext(ctx, getRevision, id)
	var r Revision
	err := row.Scan(&r.ID, &r.NoteID, &r.Version, &r.Body, &r.CreatedAt)
	return r, err
}

const listRevisionsByNote = `
SELECT id, note_id, version, body, created_at FROM revisions
WHERE note_id = ?
ORDER BY created_at DESC
`

func (q *Queries) ListRevisionsByNote(ctx context.Context, noteID string) ([]Revision, error) {
	rows, err := q.db.QueryContext(ctx, listRevisionsByNote, noteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var revisions []Revision
	for rows.Next() {
		var r Revision
		if err := rows.Scan(&r.ID, &r.NoteID, &r.Version, &r.Body, &r.CreatedAt); err != nil {
			return nil, err
		}
		revisions = append(revisions, r)
	}
	return revisions, rows.Err()
}

const getLatestRevision = `
SELECT id, note_id, version, body, created_at FROM revisions
WHERE note_id = ?
ORDER BY created_at DESC
LIMIT 1
`

func (q *Queries) GetLatestRevision(ctx context.Context, noteID string) (Revision, error) {
	row := q.db.QueryRowContext(ctx, getLatestRevision, noteID)
	var r Revision
	err := row.Scan(&r.ID, &r.NoteID, &r.Version, &r.Body, &r.CreatedAt)
	return r, err
}

type CreateLogParams struct {
	ID         string
	Timestamp  string
	Level      string
	Message    string
	Attributes sql.NullString
}

const createLog = `
INSERT INTO logs (id, timestamp, level, message, attributes, created_at)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING id, timestamp, level, message, attributes, created_at
`

func (q *Queries) CreateLog(ctx context.Context, arg CreateLogParams) (Log, error) {
	row := q.db.QueryRowContext(ctx, createLog, arg.ID, arg.Timestamp, arg.Level, arg.Message, arg.Attributes, now())
	var l Log
	err := row.Scan(&l.ID, &l.Timestamp, &l.Level, &l.Message, &l.Attributes, &l.CreatedAt)
	return l, err
}

const listAllLogs = `
SELECT id, timestamp, level, message, attributes, created_at FROM logs
ORDER BY timestamp DESC
LIMIT ?
`

func (q *Queries) ListAllLogs(ctx context.Context, limit int64) ([]Log, error) {
	rows, err := q.db.QueryContext(ctx, listAllLogs, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var logs []Log
	for rows.Next() {
		var l Log
		if err := rows.Scan(&l.ID, &l.Timestamp, &l.Level, &l.Message, &l.Attributes, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
