package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/comite-agua/ledger/internal/models"
	"github.com/comite-agua/ledger/internal/storage"
)

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// CreatePayment persists a payment header and its line items in a single
// transaction. Monthly dues already paid for the same member and year are
// rejected with ErrConflict inside that transaction.
func (s *SQLiteStore) CreatePayment(ctx context.Context, payment *models.Payment) error {
	if payment.PaidAt.IsZero() {
		payment.PaidAt = s.now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to begin transaction: %w", storage.ErrTransactionFailed, err)
	}
	defer tx.Rollback()

	if err := checkMonthsUnpaid(ctx, tx, payment); err != nil {
		return err
	}

	var notes any
	if payment.Notes != "" {
		notes = payment.Notes
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO pagos (usuario_id, fecha_pago, total, observaciones) VALUES (?, ?, ?, ?)",
		payment.UserID, payment.PaidAt.Unix(), payment.Total.String(), notes,
	)
	if err != nil {
		return txFailure("failed to insert payment", err)
	}
	paymentID, err := res.LastInsertId()
	if err != nil {
		return txFailure("failed to read payment id", err)
	}

	for i := range payment.Items {
		item := &payment.Items[i]
		if item.Quantity == 0 {
			item.Quantity = 1
		}

		var month any
		if item.Month != nil {
			month = *item.Month
		}

		res, err := tx.ExecContext(ctx,
			"INSERT INTO detalle_pagos (pago_id, concepto, mes, anio, precio, cantidad) VALUES (?, ?, ?, ?, ?, ?)",
			paymentID, item.Concept, month, item.Year, item.UnitPrice.String(), item.Quantity,
		)
		if err != nil {
			return txFailure("failed to insert line item", err)
		}
		itemID, err := res.LastInsertId()
		if err != nil {
			return txFailure("failed to read line item id", err)
		}
		item.ID = itemID
		item.PaymentID = paymentID
	}

	if err := tx.Commit(); err != nil {
		return txFailure("failed to commit transaction", err)
	}

	payment.ID = paymentID
	payment.PaidAt = unixTime(payment.PaidAt.Unix())
	return nil
}

// txFailure classifies an error raised inside the payment transaction.
// Constraint violations keep their class; everything else is a transaction failure.
func txFailure(msg string, err error) error {
	translated := translateErr(err)
	if errors.Is(translated, storage.ErrValidation) || errors.Is(translated, storage.ErrConflict) {
		return fmt.Errorf("%s: %w", msg, translated)
	}
	return fmt.Errorf("%w: %s: %w", storage.ErrTransactionFailed, msg, err)
}

// checkMonthsUnpaid fails with ErrConflict if any monthly due of payment is
// already recorded for the same member and year.
func checkMonthsUnpaid(ctx context.Context, tx *sql.Tx, payment *models.Payment) error {
	byYear := make(map[int][]any)
	for _, item := range payment.Items {
		if item.Month != nil {
			byYear[item.Year] = append(byYear[item.Year], *item.Month)
		}
	}

	for year, months := range byYear {
		args := append([]any{payment.UserID, year}, months...)
		paid, err := queryMonths(ctx, tx, `
			SELECT DISTINCT dp.mes
			FROM detalle_pagos dp
			JOIN pagos p ON dp.pago_id = p.id
			WHERE p.usuario_id = ? AND dp.anio = ? AND dp.mes IN (?`+repeatPlaceholder(len(months)-1)+`)
			ORDER BY dp.mes`,
			args...,
		)
		if err != nil {
			return txFailure("failed to check paid months", err)
		}
		if len(paid) > 0 {
			return fmt.Errorf("%w: months %v of %d already paid by user %d",
				storage.ErrConflict, paid, year, payment.UserID)
		}
	}
	return nil
}

func queryMonths(ctx context.Context, q queryer, query string, args ...any) ([]int, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	months := []int{}
	for rows.Next() {
		var month int
		if err := rows.Scan(&month); err != nil {
			return nil, err
		}
		months = append(months, month)
	}
	return months, rows.Err()
}

// PaidMonths retrieves the distinct months paid by a member in a year.
func (s *SQLiteStore) PaidMonths(ctx context.Context, userID int64, year int) ([]int, error) {
	months, err := queryMonths(ctx, s.db, `
		SELECT DISTINCT dp.mes
		FROM detalle_pagos dp
		JOIN pagos p ON dp.pago_id = p.id
		WHERE p.usuario_id = ? AND dp.anio = ? AND dp.mes IS NOT NULL
		ORDER BY dp.mes`,
		userID, year,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get paid months: %w", err)
	}
	return months, nil
}

// ListPayments retrieves a member's payments, newest first, including line
// items and the member's number and name.
func (s *SQLiteStore) ListPayments(ctx context.Context, userID int64) ([]models.Payment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.usuario_id, u.numero, u.nombre, p.fecha_pago, p.total,
		       COALESCE(p.observaciones, '')
		FROM pagos p
		JOIN usuarios u ON p.usuario_id = u.id
		WHERE p.usuario_id = ?
		ORDER BY p.fecha_pago DESC, p.id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	payments := []models.Payment{}
	for rows.Next() {
		var p models.Payment
		var paidAt int64
		if err := rows.Scan(&p.ID, &p.UserID, &p.UserNumber, &p.UserName,
			&paidAt, &p.Total, &p.Notes); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		p.PaidAt = unixTime(paidAt)
		payments = append(payments, p)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}

	for i := range payments {
		items, err := s.lineItems(ctx, payments[i].ID)
		if err != nil {
			return nil, err
		}
		payments[i].Items = items
	}
	return payments, nil
}

// GetReceipt retrieves a payment together with the member fields printed on a receipt.
func (s *SQLiteStore) GetReceipt(ctx context.Context, paymentID int64) (*models.Receipt, error) {
	receipt := &models.Receipt{}
	p := &receipt.Payment
	var paidAt int64
	err := s.db.QueryRowContext(ctx, `
		SELECT p.id, p.usuario_id, p.fecha_pago, p.total, COALESCE(p.observaciones, ''),
		       u.numero, u.nombre, COALESCE(u.direccion, '')
		FROM pagos p
		JOIN usuarios u ON p.usuario_id = u.id
		WHERE p.id = ?`,
		paymentID,
	).Scan(&p.ID, &p.UserID, &paidAt, &p.Total, &p.Notes,
		&receipt.User.Number, &receipt.User.Name, &receipt.User.Address)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: payment %d", storage.ErrNotFound, paymentID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	p.PaidAt = unixTime(paidAt)
	p.UserNumber = receipt.User.Number
	p.UserName = receipt.User.Name

	items, err := s.lineItems(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	p.Items = items
	return receipt, nil
}

// lineItems loads a payment's items ordered by month, then concept.
// Concept charges carry no month and sort ahead of the monthly dues.
func (s *SQLiteStore) lineItems(ctx context.Context, paymentID int64) ([]models.LineItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, pago_id, concepto, mes, anio, precio, cantidad
		FROM detalle_pagos
		WHERE pago_id = ?
		ORDER BY mes, concepto, id`,
		paymentID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get line items: %w", err)
	}
	defer rows.Close()

	items := []models.LineItem{}
	for rows.Next() {
		var item models.LineItem
		var month sql.NullInt64
		if err := rows.Scan(&item.ID, &item.PaymentID, &item.Concept, &month,
			&item.Year, &item.UnitPrice, &item.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan line item: %w", err)
		}
		if month.Valid {
			m := int(month.Int64)
			item.Month = &m
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate line items: %w", err)
	}
	return items, nil
}
