package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/comite-agua/ledger/internal/models"
	"github.com/comite-agua/ledger/internal/storage"
)

// GetConfig retrieves a setting by key.
func (s *SQLiteStore) GetConfig(ctx context.Context, key string) (*models.ConfigEntry, error) {
	entry := &models.ConfigEntry{}
	var modifiedAt int64
	err := s.db.QueryRowContext(ctx,
		"SELECT clave, valor, COALESCE(descripcion, ''), fecha_modificacion FROM configuracion WHERE clave = ?",
		key,
	).Scan(&entry.Key, &entry.Value, &entry.Description, &modifiedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: setting %q", storage.ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get setting: %w", err)
	}
	entry.ModifiedAt = unixTime(modifiedAt)
	return entry, nil
}

// ListConfig retrieves every setting ordered by key.
func (s *SQLiteStore) ListConfig(ctx context.Context) ([]models.ConfigEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT clave, valor, COALESCE(descripcion, ''), fecha_modificacion FROM configuracion ORDER BY clave",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	defer rows.Close()

	var entries []models.ConfigEntry
	for rows.Next() {
		var entry models.ConfigEntry
		var modifiedAt int64
		if err := rows.Scan(&entry.Key, &entry.Value, &entry.Description, &modifiedAt); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		entry.ModifiedAt = unixTime(modifiedAt)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settings: %w", err)
	}
	return entries, nil
}

// SetConfig updates the value of an existing setting.
func (s *SQLiteStore) SetConfig(ctx context.Context, key, value string, modifiedAt time.Time) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE configuracion SET valor = ?, fecha_modificacion = ? WHERE clave = ?",
		value, modifiedAt.Unix(), key,
	)
	if err != nil {
		return fmt.Errorf("failed to update setting: %w", translateErr(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: setting %q", storage.ErrNotFound, key)
	}
	return nil
}
