// Package migration runs and tracks schema migrations.
//
// Usage (in database/migrations):
//
//	func init() {
//	    migration.Register("20260101000000_create_users_table", &CreateUsersTable{})
//	}
//
// Run from the CLI:
//
//	farmermarket migrate             // run all pending
//	farmermarket migrate:rollback    // roll back the last batch
//	farmermarket migrate:status
package migration

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/farmermarket/backend/pkg/logger"
)

// Migration is the interface every migration must implement.
type Migration interface {
	Up(db *gorm.DB) error
	Down(db *gorm.DB) error
}

// record is one row of the tracking table.
type record struct {
	ID    uint      `gorm:"primaryKey;autoIncrement"`
	Name  string    `gorm:"uniqueIndex;size:255;not null"`
	Batch int       `gorm:"not null"`
	RunAt time.Time `gorm:"autoCreateTime"`
}

func (record) TableName() string { return "schema_migrations" }

// Entry is a named migration.
type Entry struct {
	Name      string
	Migration Migration
}

var registry []Entry

// Register adds a migration to the global registry. name should start with a
// sortable timestamp, e.g. "20260101000000_create_users_table".
func Register(name string, m Migration) {
	registry = append(registry, Entry{Name: name, Migration: m})
}

// Registered returns a copy of the global registry sorted by name.
func Registered() []Entry {
	out := append([]Entry(nil), registry...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ErrNoMigrations is returned by Run when nothing is registered.
var ErrNoMigrations = errors.New("migration: no migrations registered")

// Runner executes and tracks migrations.
type Runner struct {
	db      *gorm.DB
	entries []Entry
	out     io.Writer
}

// New creates a Runner over the global registry.
func New(db *gorm.DB) *Runner {
	return NewWith(db, Registered()...)
}

// NewWith creates a Runner over an explicit migration list.
func NewWith(db *gorm.DB, entries ...Entry) *Runner {
	sorted := append([]Entry(nil), entries...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	return &Runner{db: db, entries: sorted, out: os.Stdout}
}

// SetOutput redirects progress lines, e.g. to a test buffer.
func (r *Runner) SetOutput(w io.Writer) { r.out = w }

// EnsureTable creates the tracking table if it does not exist.
func (r *Runner) EnsureTable() error {
	return r.db.AutoMigrate(&record{})
}

// Pending returns the migrations that have not run yet, in name order.
func (r *Runner) Pending() ([]Entry, error) {
	ran, err := r.ran()
	if err != nil {
		return nil, err
	}

	var pending []Entry
	for _, e := range r.entries {
		if _, ok := ran[e.Name]; !ok {
			pending = append(pending, e)
		}
	}
	return pending, nil
}

// Run executes all pending migrations as one batch.
func (r *Runner) Run() error {
	if len(r.entries) == 0 {
		return ErrNoMigrations
	}
	if err := r.EnsureTable(); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}

	pending, err := r.Pending()
	if err != nil {
		return fmt.Errorf("migration: fetch pending: %w", err)
	}
	if len(pending) == 0 {
		fmt.Fprintln(r.out, "Nothing to migrate.")
		return nil
	}

	batch, err := r.lastBatch()
	if err != nil {
		return err
	}
	batch++

	for _, e := range pending {
		logger.Info("migration: running", "name", e.Name)
		fmt.Fprintf(r.out, "  ▶ Migrating: %s\n", e.Name)

		if err := e.Migration.Up(r.db); err != nil {
			return fmt.Errorf("migration: %s up: %w", e.Name, err)
		}
		if err := r.db.Create(&record{Name: e.Name, Batch: batch}).Error; err != nil {
			return fmt.Errorf("migration: record %s: %w", e.Name, err)
		}

		fmt.Fprintf(r.out, "  ✅ Migrated:  %s\n", e.Name)
	}

	logger.Info("migration: done", "ran", len(pending), "batch", batch)
	return nil
}

// Rollback reverses every migration of the most recent batch, newest first.
func (r *Runner) Rollback() error {
	if err := r.EnsureTable(); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}

	batch, err := r.lastBatch()
	if err != nil {
		return err
	}
	if batch == 0 {
		fmt.Fprintln(r.out, "Nothing to roll back.")
		return nil
	}

	var records []record
	if err := r.db.Where("batch = ?", batch).Order("id desc").Find(&records).Error; err != nil {
		return fmt.Errorf("migration: load batch %d: %w", batch, err)
	}

	byName := make(map[string]Migration, len(r.entries))
	for _, e := range r.entries {
		byName[e.Name] = e.Migration
	}

	for _, rec := range records {
		m, ok := byName[rec.Name]
		if !ok {
			return fmt.Errorf("migration: cannot roll back %s: not registered", rec.Name)
		}

		logger.Info("migration: rolling back", "name", rec.Name)
		fmt.Fprintf(r.out, "  ◀ Rolling back: %s\n", rec.Name)

		if err := m.Down(r.db); err != nil {
			return fmt.Errorf("migration: %s down: %w", rec.Name, err)
		}
		if err := r.db.Delete(&rec).Error; err != nil {
			return fmt.Errorf("migration: forget %s: %w", rec.Name, err)
		}

		fmt.Fprintf(r.out, "  ✅ Rolled back:  %s\n", rec.Name)
	}
	return nil
}

// Status prints every known migration and whether it ran.
func (r *Runner) Status() error {
	if err := r.EnsureTable(); err != nil {
		return err
	}

	ran, err := r.ran()
	if err != nil {
		return err
	}

	fmt.Fprintf(r.out, "%-60s  %-8s  %s\n", "Migration", "Status", "Batch")
	fmt.Fprintln(r.out, strings.Repeat("-", 80))
	for _, e := range r.entries {
		if rec, ok := ran[e.Name]; ok {
			fmt.Fprintf(r.out, "%-60s  %-8s  %d\n", e.Name, "Ran", rec.Batch)
		} else {
			fmt.Fprintf(r.out, "%-60s  %-8s  -\n", e.Name, "Pending")
		}
	}
	return nil
}

func (r *Runner) ran() (map[string]record, error) {
	var rows []record
	if err := r.db.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("migration: load history: %w", err)
	}
	out := make(map[string]record, len(rows))
	for _, rec := range rows {
		out[rec.Name] = rec
	}
	return out, nil
}

func (r *Runner) lastBatch() (int, error) {
	var row struct{ Batch int }
	if err := r.db.Model(&record{}).Select("COALESCE(MAX(batch), 0) AS batch").Scan(&row).Error; err != nil {
		return 0, fmt.Errorf("migration: last batch: %w", err)
	}
	return row.Batch, nil
}
