package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/comite-agua/ledger/internal/models"
	"github.com/comite-agua/ledger/internal/storage"
)

const userColumns = `id, numero, nombre, COALESCE(direccion, ''), COALESCE(telefono, ''),
	COALESCE(email, ''), estado, fecha_registro`

func scanUser(row rowScanner) (*models.User, error) {
	user := &models.User{}
	var registeredAt int64
	if err := row.Scan(
		&user.ID,
		&user.Number,
		&user.Name,
		&user.Address,
		&user.Phone,
		&user.Email,
		&user.Status,
		&registeredAt,
	); err != nil {
		return nil, err
	}
	user.RegisteredAt = unixTime(registeredAt)
	return user, nil
}

// CreateUser inserts a new member. A duplicate member number returns ErrConflict.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.Status == "" {
		user.Status = models.UserActive
	}
	if user.RegisteredAt.IsZero() {
		user.RegisteredAt = unixTime(s.now().Unix())
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO usuarios (numero, nombre, direccion, telefono, email, estado, fecha_registro)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.Number,
		user.Name,
		user.Address,
		user.Phone,
		user.Email,
		string(user.Status),
		user.RegisteredAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", translateErr(err))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read user id: %w", err)
	}
	user.ID = id
	return nil
}

// GetUser retrieves a member by ID.
func (s *SQLiteStore) GetUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := scanUser(s.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM usuarios WHERE id = ?", id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %d", storage.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return user, nil
}

// GetUserByNumber retrieves a member by member number.
func (s *SQLiteStore) GetUserByNumber(ctx context.Context, number int64) (*models.User, error) {
	user, err := scanUser(s.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM usuarios WHERE numero = ?", number,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user number %d", storage.ErrNotFound, number)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by number: %w", err)
	}
	return user, nil
}

// NextUserNumber returns one past the highest member number in use, or 1.
func (s *SQLiteStore) NextUserNumber(ctx context.Context) (int64, error) {
	var maxNumber sql.NullInt64
	if err := s.db.QueryRowContext(ctx, "SELECT MAX(numero) FROM usuarios").Scan(&maxNumber); err != nil {
		return 0, fmt.Errorf("failed to get max user number: %w", err)
	}
	return maxNumber.Int64 + 1, nil
}

// SetUserStatus changes a member's status.
func (s *SQLiteStore) SetUserStatus(ctx context.Context, id int64, status models.UserStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: invalid user status %q", storage.ErrValidation, status)
	}
	res, err := s.db.ExecContext(ctx, "UPDATE usuarios SET estado = ? WHERE id = ?", string(status), id)
	if err != nil {
		return fmt.Errorf("failed to update user status: %w", translateErr(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: user %d", storage.ErrNotFound, id)
	}
	return nil
}
