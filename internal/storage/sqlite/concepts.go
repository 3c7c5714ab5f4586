package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/comite-agua/ledger/internal/models"
	"github.com/comite-agua/ledger/internal/storage"
)

const conceptColumns = "id, nombre, precio, activo, fecha_creacion"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConcept(row rowScanner) (models.Concept, error) {
	var c models.Concept
	var createdAt int64
	if err := row.Scan(&c.ID, &c.Name, &c.UnitPrice, &c.Active, &createdAt); err != nil {
		return models.Concept{}, err
	}
	c.CreatedAt = unixTime(createdAt)
	return c, nil
}

// ListConcepts retrieves the catalog ordered by name.
func (s *SQLiteStore) ListConcepts(ctx context.Context, activeOnly bool) ([]models.Concept, error) {
	query := "SELECT " + conceptColumns + " FROM conceptos_cobro"
	if activeOnly {
		query += " WHERE activo = 1"
	}
	query += " ORDER BY nombre"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list concepts: %w", err)
	}
	defer rows.Close()

	var concepts []models.Concept
	for rows.Next() {
		c, err := scanConcept(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan concept: %w", err)
		}
		concepts = append(concepts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate concepts: %w", err)
	}
	return concepts, nil
}

// GetConcept retrieves a concept by ID.
func (s *SQLiteStore) GetConcept(ctx context.Context, id int64) (*models.Concept, error) {
	c, err := scanConcept(s.db.QueryRowContext(ctx,
		"SELECT "+conceptColumns+" FROM conceptos_cobro WHERE id = ?", id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: concept %d", storage.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get concept: %w", err)
	}
	return &c, nil
}

// CreateConcept inserts a new active concept.
func (s *SQLiteStore) CreateConcept(ctx context.Context, concept *models.Concept) error {
	now := s.now()
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO conceptos_cobro (nombre, precio, activo, fecha_creacion) VALUES (?, ?, 1, ?)",
		concept.Name, concept.UnitPrice.String(), now.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert concept: %w", translateErr(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read concept id: %w", err)
	}
	concept.ID = id
	concept.Active = true
	concept.CreatedAt = unixTime(now.Unix())
	return nil
}

// UpdateConcept writes the fields set in patch. Column names come from this
// fixed list only, never from input.
func (s *SQLiteStore) UpdateConcept(ctx context.Context, id int64, patch models.ConceptPatch) error {
	var sets []string
	var args []any
	if patch.Name.Set {
		sets = append(sets, "nombre = ?")
		args = append(args, patch.Name.Value)
	}
	if patch.UnitPrice.Set {
		sets = append(sets, "precio = ?")
		args = append(args, patch.UnitPrice.Value.String())
	}
	if patch.Active.Set {
		sets = append(sets, "activo = ?")
		args = append(args, patch.Active.Value)
	}
	if len(sets) == 0 {
		return fmt.Errorf("%w: empty concept patch", storage.ErrValidation)
	}
	args = append(args, id)

	res, err := s.db.ExecContext(ctx,
		"UPDATE conceptos_cobro SET "+strings.Join(sets, ", ")+" WHERE id = ?",
		args...,
	)
	if err != nil {
		return fmt.Errorf("failed to update concept: %w", translateErr(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: concept %d", storage.ErrNotFound, id)
	}
	return nil
}
