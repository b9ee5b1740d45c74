package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/satheeshds/invoicing/models"
)

// SerialPool stores released serial numbers in serial_number_pool.
type SerialPool struct {
	pool *pgxpool.Pool
}

// NewSerialPool returns a pool over the given connection pool.
func NewSerialPool(pool *pgxpool.Pool) *SerialPool {
	return &SerialPool{pool: pool}
}

// ClaimSmallest deletes and returns the smallest available number in one
// statement. Rows locked by a concurrent claim are skipped.
func (p *SerialPool) ClaimSmallest(ctx context.Context) (int, bool, error) {
	var n int
	err := p.pool.QueryRow(ctx, `DELETE FROM serial_number_pool
		WHERE number = (
			SELECT number FROM serial_number_pool
			WHERE available
			ORDER BY number
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING number`).Scan(&n)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, mapError("claim serial number", err)
	}
	return n, true, nil
}

func (p *SerialPool) Release(ctx context.Context, n int, at time.Time) error {
	_, err := p.pool.Exec(ctx,
		"INSERT INTO serial_number_pool (number, available, deleted_at) VALUES ($1, TRUE, $2)", n, at)
	return mapError("release serial number", err)
}

// Entries lists pooled numbers in ascending order.
func (p *SerialPool) Entries(ctx context.Context) ([]models.SerialPoolEntry, error) {
	rows, err := p.pool.Query(ctx, "SELECT number, available, deleted_at FROM serial_number_pool ORDER BY number")
	if err != nil {
		return nil, mapError("list serial pool", err)
	}
	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.SerialPoolEntry, error) {
		var e models.SerialPoolEntry
		err := row.Scan(&e.Number, &e.Available, &e.DeletedAt)
		return e, err
	})
	if err != nil {
		return nil, mapError("list serial pool", err)
	}
	return entries, nil
}
