package data

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/zjrosen/gridline/internal/log"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// recordColumns is the column set served by SQLiteSource, in render order.
var recordColumns = []string{"id", "label", "value", "updated_at"}

// NewDB opens (creating if necessary) a gridline dataset database at
// path and brings its schema up to date.
func NewDB(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	log.Info(log.CatData, "dataset database ready", "path", path)
	return db, nil
}

// runMigrations applies the embedded schema migrations.
func runMigrations(db *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}
	drv, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("preparing migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", drv)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}

// SQLiteSource serves rows from the records table of a gridline dataset
// database. Row index r maps to id r+1; ids are expected contiguous.
type SQLiteSource struct {
	db *sql.DB
}

// NewSQLiteSource wraps an open dataset database.
func NewSQLiteSource(db *sql.DB) *SQLiteSource {
	return &SQLiteSource{db: db}
}

// ColumnNames implements ColumnNamer.
func (s *SQLiteSource) ColumnNames() []string {
	names := make([]string, len(recordColumns))
	copy(names, recordColumns)
	return names
}

// FetchRows implements RowSource.
func (s *SQLiteSource) FetchRows(start, count int64) ([]Row, error) {
	if start < 0 || count <= 0 {
		return nil, nil
	}
	rows, err := s.db.Query(
		`SELECT id, label, value, updated_at FROM records WHERE id > ? ORDER BY id LIMIT ?`,
		start, count,
	)
	if err != nil {
		log.ErrorErr(log.CatData, "record query failed", err, "start", start, "count", count)
		return nil, err
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var id int64
		var label, value, updatedAt string
		if err := rows.Scan(&id, &label, &value, &updatedAt); err != nil {
			return nil, err
		}
		out = append(out, Row{Cells: []string{
			fmt.Sprintf("%d", id), label, value, updatedAt,
		}})
	}
	return out, rows.Err()
}

// CountRows returns the number of records in the dataset.
func (s *SQLiteSource) CountRows() (int64, error) {
	var n int64
	err := s.db.QueryRow(`SELECT COUNT(*) FROM records`).Scan(&n)
	return n, err
}

// Close closes the underlying database.
func (s *SQLiteSource) Close() error {
	return s.db.Close()
}

// Seed inserts n generated records, replacing any existing ones with the
// same ids. Used to bootstrap demo datasets and test fixtures.
func Seed(db *sql.DB, n int64) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO records (id, label, value) VALUES (?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()
	for i := int64(1); i <= n; i++ {
		if _, err := stmt.Exec(i, fmt.Sprintf("record %d", i), fmt.Sprintf("value-%d", i)); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}
