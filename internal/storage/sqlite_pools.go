package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/good-yellow-bee/hwportal/internal/models"
)

type sqlitePoolRepo struct {
	db *sql.DB
}

func (r *sqlitePoolRepo) Create(ctx context.Context, pool *models.HardwarePool) error {
	query := `
		INSERT INTO hardware_pools (name, capacity, checked_out, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		pool.Name, pool.Capacity, pool.CheckedOut,
		pool.CreatedAt, pool.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("insert pool: %w", ErrDuplicateKey)
	}
	if err != nil {
		return fmt.Errorf("insert pool: %w", err)
	}
	return nil
}

func (r *sqlitePoolRepo) GetByName(ctx context.Context, name string) (*models.HardwarePool, error) {
	query := `
		SELECT name, capacity, checked_out, created_at, updated_at
		FROM hardware_pools WHERE name = ?
	`
	pool := &models.HardwarePool{}
	err := r.db.QueryRowContext(ctx, query, name).Scan(
		&pool.Name, &pool.Capacity, &pool.CheckedOut,
		&pool.CreatedAt, &pool.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		//nolint:nilnil
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get pool by name: %w", err)
	}
	return pool, nil
}

func (r *sqlitePoolRepo) List(ctx context.Context) ([]*models.HardwarePool, error) {
	query := `
		SELECT name, capacity, checked_out, created_at, updated_at
		FROM hardware_pools ORDER BY name
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list pools: %w", err)
	}
	defer rows.Close()

	var pools []*models.HardwarePool
	for rows.Next() {
		pool := &models.HardwarePool{}
		err := rows.Scan(
			&pool.Name, &pool.Capacity, &pool.CheckedOut,
			&pool.CreatedAt, &pool.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan pool: %w", err)
		}
		pools = append(pools, pool)
	}
	return pools, rows.Err()
}

func (r *sqlitePoolRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM hardware_pools").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count pools: %w", err)
	}
	return count, nil
}

// CheckoutUnits atomically increments checked_out by quantity if the result
// stays within capacity. The guard lives in the WHERE clause of a single
// UPDATE, so it is re-evaluated against the committed row at commit time;
// a stale capacity check in application memory cannot overdraw the pool.
// Returns false if the guard did not hold.
func (r *sqlitePoolRepo) CheckoutUnits(ctx context.Context, name, userID string, quantity int) (bool, error) {
	return r.adjust(ctx, name, userID, quantity, models.ActionCheckout, `
		UPDATE hardware_pools
		SET checked_out = checked_out + ?, updated_at = ?
		WHERE name = ? AND checked_out + ? <= capacity
	`)
}

// CheckinUnits atomically decrements checked_out by quantity if at least
// that many units are currently out. Returns false if the guard did not
// hold.
func (r *sqlitePoolRepo) CheckinUnits(ctx context.Context, name, userID string, quantity int) (bool, error) {
	return r.adjust(ctx, name, userID, quantity, models.ActionCheckin, `
		UPDATE hardware_pools
		SET checked_out = checked_out - ?, updated_at = ?
		WHERE name = ? AND checked_out - ? >= 0
	`)
}

func (r *sqlitePoolRepo) adjust(ctx context.Context, name, userID string, quantity int, action models.EventAction, query string) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin %s: %w", action, err)
	}

	now := time.Now()
	result, err := tx.ExecContext(ctx, query, quantity, now, name, quantity)
	if err != nil {
		tx.Rollback()
		return false, fmt.Errorf("%s units: %w", action, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		tx.Rollback()
		return false, fmt.Errorf("%s rows affected: %w", action, err)
	}
	if rows == 0 {
		// Guard lost: nothing changed, nothing to record.
		tx.Rollback()
		return false, nil
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO checkout_events (id, pool_name, user_id, action, quantity, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, uuid.New().String(), name, userID, string(action), quantity, now)
	if err != nil {
		tx.Rollback()
		return false, fmt.Errorf("record %s event: %w", action, err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit %s: %w", action, err)
	}
	return true, nil
}
