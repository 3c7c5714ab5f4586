package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/shopspring/decimal"

	"github.com/comite-agua/ledger/internal/models"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Seed values written on first initialization only.
const (
	DefaultMonthlyFee = "50.0"
	DefaultAccessPin  = "1234"
)

// DefaultConcept is a catalog entry seeded into an empty catalog.
type DefaultConcept struct {
	Name  string
	Price decimal.Decimal
}

// DefaultConcepts are the charges common to water committees.
var DefaultConcepts = []DefaultConcept{
	{Name: "Cooperación Anual", Price: decimal.NewFromInt(100)},
	{Name: "Toma Nueva", Price: decimal.NewFromInt(500)},
	{Name: "Multa por Inasistencia", Price: decimal.NewFromInt(25)},
	{Name: "Multa por Desperdicio", Price: decimal.NewFromInt(75)},
	{Name: "Reconexión", Price: decimal.NewFromInt(150)},
}

// runMigrations applies every pending schema migration.
// The migrate instance is not closed: that would close db.
func runMigrations(db *sql.DB) error {
	src, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open migration source: %w", err)
	}

	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// seedDefaults inserts the default settings if they are missing and the
// default concepts if the catalog is empty. Existing rows are never touched.
func seedDefaults(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	settings := []struct{ key, value, description string }{
		{models.KeyMonthlyFee, DefaultMonthlyFee, "Cuota mensual del servicio de agua"},
		{models.KeyAccessPin, DefaultAccessPin, "PIN de acceso al sistema"},
	}
	for _, s := range settings {
		if _, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO configuracion (clave, valor, descripcion) VALUES (?, ?, ?)",
			s.key, s.value, s.description,
		); err != nil {
			return fmt.Errorf("failed to seed setting %s: %w", s.key, err)
		}
	}

	var count int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM conceptos_cobro").Scan(&count); err != nil {
		return fmt.Errorf("failed to count concepts: %w", err)
	}
	if count == 0 {
		for _, c := range DefaultConcepts {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO conceptos_cobro (nombre, precio) VALUES (?, ?)",
				c.Name, c.Price.String(),
			); err != nil {
				return fmt.Errorf("failed to seed concept %s: %w", c.Name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
