package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/taskboard/internal/client/migrations"
	"github.com/dmitrijs2005/taskboard/internal/client/models"
	"github.com/dmitrijs2005/taskboard/internal/common"
	"github.com/dmitrijs2005/taskboard/internal/dbx"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists the cache in a local SQLite file so it survives
// restarts.
type SQLiteStore struct {
	db *sql.DB
}

// RunMigrations applies the embedded cache schema.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// OpenSQLiteStore opens dsn with the pure-Go SQLite driver and migrates it.
func OpenSQLiteStore(ctx context.Context, dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// one connection keeps ":memory:" databases shared and serializes writers
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("cache migrations: %w", err)
	}
	return NewSQLiteStore(db), nil
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const cachedTaskColumns = `id, title, description, status, created_at, updated_at, pending`

func scanEntry(row interface{ Scan(...any) error }) (*Entry, error) {
	var (
		t         models.Task
		desc      sql.NullString
		status    string
		createdAt int64
		updatedAt int64
		pending   bool
	)
	if err := row.Scan(&t.ID, &t.Title, &desc, &status, &createdAt, &updatedAt, &pending); err != nil {
		return nil, err
	}
	if desc.Valid {
		t.Description = &desc.String
	}
	t.Status = models.Status(status)
	t.CreatedAt = time.Unix(0, createdAt).UTC()
	t.UpdatedAt = time.Unix(0, updatedAt).UTC()
	return &Entry{Task: &t, Pending: pending}, nil
}

func (s *SQLiteStore) List(ctx context.Context, userID string) ([]Entry, error) {
	query := `SELECT ` + cachedTaskColumns + ` FROM cached_tasks WHERE user_id = ? ORDER BY created_at DESC, id`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select cached tasks: %w", err)
	}
	defer rows.Close()

	result := []Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *SQLiteStore) Get(ctx context.Context, userID, id string) (*Entry, error) {
	query := `SELECT ` + cachedTaskColumns + ` FROM cached_tasks WHERE user_id = ? AND id = ?`
	e, err := scanEntry(s.db.QueryRowContext(ctx, query, userID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("failed to select cached task: %w", err)
	}
	return e, nil
}

func upsert(ctx context.Context, db dbx.DBTX, userID string, e Entry) error {
	query := `INSERT INTO cached_tasks (user_id, ` + cachedTaskColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			status = excluded.status,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at,
			pending = excluded.pending`

	t := e.Task
	var desc sql.NullString
	if t.Description != nil {
		desc = sql.NullString{String: *t.Description, Valid: true}
	}

	_, err := db.ExecContext(ctx, query, userID,
		t.ID, t.Title, desc, string(t.Status), t.CreatedAt.UnixNano(), t.UpdatedAt.UnixNano(), e.Pending)
	if err != nil {
		return fmt.Errorf("failed to upsert cached task: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Put(ctx context.Context, userID string, e Entry) error {
	return upsert(ctx, s.db, userID, e)
}

func (s *SQLiteStore) Replace(ctx context.Context, userID string, tasks []*models.Task) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM cached_tasks WHERE user_id = ?`, userID); err != nil {
			return fmt.Errorf("failed to clear cached tasks: %w", err)
		}
		for _, t := range tasks {
			if err := upsert(ctx, tx, userID, Entry{Task: t}); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SQLiteStore) Remove(ctx context.Context, userID, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM cached_tasks WHERE user_id = ? AND id = ?`, userID, id); err != nil {
		return fmt.Errorf("failed to delete cached task: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM cached_tasks`); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
