package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tripsort/internal/model"
	"tripsort/internal/store/migrations"
	"tripsort/internal/trip"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStateStore implements the StateStore interface using SQLite. The
// serialized state is stored as a single JSON document per project; its
// canonical form (sorted edits, no volatile fields) makes row contents
// stable across identical saves.
type SQLiteStateStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStateStore opens (or creates) the database at path and runs
// pending migrations. path can be ":memory:" for an in-memory store.
func NewSQLiteStateStore(path string) (*SQLiteStateStore, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	return &SQLiteStateStore{db: db, path: path}, nil
}

// OpenConnection opens and configures a SQLite connection with the
// PRAGMAs the store relies on. Exported for tools and tests that need a
// properly configured connection.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Foreign keys default to OFF in SQLite for backward compatibility.
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

func (s *SQLiteStateStore) SaveState(projectID string, state *model.PersistedState) error {
	data, err := state.Marshal()
	if err != nil {
		return err
	}

	now := time.Now()
	_, err = s.db.Exec(`
		INSERT INTO projects (id, name, state, edit_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			state = excluded.state,
			edit_count = excluded.edit_count,
			updated_at = excluded.updated_at`,
		projectID, state.Name, string(data), len(state.Edits), now, now)
	if err != nil {
		return fmt.Errorf("saving project state: %w", err)
	}
	return nil
}

func (s *SQLiteStateStore) LoadState(projectID string) (*model.PersistedState, error) {
	var raw string
	err := s.db.QueryRow(`SELECT state FROM projects WHERE id = ?`, projectID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("loading project state: %w", err)
	}

	state, err := model.UnmarshalPersistedState([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("decoding project state: %w", err)
	}
	return state, nil
}

func (s *SQLiteStateStore) LoadCachedEdits(projectID string) ([]model.CachedEdit, error) {
	state, err := s.LoadState(projectID)
	if err != nil || state == nil {
		return nil, err
	}
	return state.Edits, nil
}

func (s *SQLiteStateStore) DeleteState(projectID string) error {
	if _, err := s.db.Exec(`DELETE FROM projects WHERE id = ?`, projectID); err != nil {
		return fmt.Errorf("deleting project state: %w", err)
	}
	return nil
}

func (s *SQLiteStateStore) ListProjects() ([]trip.ProjectInfo, error) {
	rows, err := s.db.Query(`SELECT id, name, edit_count, created_at FROM projects ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var infos []trip.ProjectInfo
	for rows.Next() {
		var info trip.ProjectInfo
		if err := rows.Scan(&info.ID, &info.Name, &info.EditCount, &info.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning project row: %w", err)
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	return infos, nil
}

// Path returns the database file path (or ":memory:").
func (s *SQLiteStateStore) Path() string {
	return s.path
}

// CheckMigrations verifies the database schema is up-to-date.
func (s *SQLiteStateStore) CheckMigrations() error {
	return migrations.CheckDBMigrationStatus(s.db)
}

// Close closes the database connection.
func (s *SQLiteStateStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

var _ trip.StateStore = (*SQLiteStateStore)(nil)
