package storage

import (
	"database/sql"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Task is a single to-do item. ID 0 marks a task not yet inserted; the
// store assigns the id on insert. An empty Description means absent.
type Task struct {
	ID          int64
	Title       string
	Description string
	Due         sql.NullTime
	Completed   bool
}

// Store wraps the sqlite handle. One connection; sqlite serializes
// access internally.
type Store struct {
	db *sql.DB
}

func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, initErr("open", errors.New("db path is empty"))
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, initErr("create db dir", err)
	}
	db, err := sql.Open("sqlite", sqliteDSN(dbPath))
	if err != nil {
		return nil, initErr("open", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, initErr("create schema", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS tasks (
	id INTEGER PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT,
	due_at INTEGER,
	completed INTEGER NOT NULL DEFAULT 0
);`
	_, err := s.db.Exec(ddl)
	return err
}

// ListAll returns every stored task ordered by id.
func (s *Store) ListAll() ([]Task, error) {
	rows, err := s.db.Query(`SELECT id, title, description, due_at, completed FROM tasks ORDER BY id;`)
	if err != nil {
		return nil, readErr("list tasks", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		var t Task
		var desc sql.NullString
		var dueMillis sql.NullInt64
		var completed int
		if err := rows.Scan(&t.ID, &t.Title, &desc, &dueMillis, &completed); err != nil {
			return nil, readErr("scan task", err)
		}
		t.Description = desc.String
		t.Completed = completed == 1
		if dueMillis.Valid {
			t.Due = sql.NullTime{Time: time.UnixMilli(dueMillis.Int64), Valid: true}
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, readErr("list tasks", err)
	}
	return tasks, nil
}

// Insert stores t as a new row, or replaces the existing row wholesale
// when t.ID collides. With ID 0 sqlite assigns the rowid, which is
// written back into t.
func (s *Store) Insert(t *Task) error {
	res, err := s.db.Exec(`INSERT OR REPLACE INTO tasks (id, title, description, due_at, completed) VALUES (?, ?, ?, ?, ?);`,
		idParam(t.ID), t.Title, descParam(t.Description), dueParam(t.Due), boolInt(t.Completed))
	if err != nil {
		return writeErr("insert task", err)
	}
	if t.ID == 0 {
		id, err := res.LastInsertId()
		if err != nil {
			return writeErr("insert task", err)
		}
		t.ID = id
	}
	return nil
}

// Update overwrites the row matching t.ID. No-op when no row matches.
func (s *Store) Update(t *Task) error {
	_, err := s.db.Exec(`UPDATE tasks SET title = ?, description = ?, due_at = ?, completed = ? WHERE id = ?;`,
		t.Title, descParam(t.Description), dueParam(t.Due), boolInt(t.Completed), t.ID)
	if err != nil {
		return writeErr("update task", err)
	}
	return nil
}

// Delete removes the row matching id. No-op when absent.
func (s *Store) Delete(id int64) error {
	if _, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?;`, id); err != nil {
		return writeErr("delete task", err)
	}
	return nil
}

// SetCompleted flips only the completion column, leaving the rest of the
// row untouched.
func (s *Store) SetCompleted(id int64, done bool) error {
	if _, err := s.db.Exec(`UPDATE tasks SET completed = ? WHERE id = ?;`, boolInt(done), id); err != nil {
		return writeErr("toggle task", err)
	}
	return nil
}

func idParam(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}

// Empty description is stored as NULL so "" and absent stay one state.
func descParam(desc string) any {
	if desc == "" {
		return nil
	}
	return desc
}

// Due timestamps are stored as epoch milliseconds.
func dueParam(due sql.NullTime) any {
	if !due.Valid {
		return nil
	}
	return due.Time.UnixMilli()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
