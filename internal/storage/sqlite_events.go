package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/good-yellow-bee/hwportal/internal/models"
)

type sqliteEventRepo struct {
	db *sql.DB
}

func (r *sqliteEventRepo) ListByPool(ctx context.Context, poolName string, limit int) ([]*models.CheckoutEvent, error) {
	query := `
		SELECT id, pool_name, user_id, action, quantity, created_at
		FROM checkout_events
		WHERE pool_name = ?
		ORDER BY created_at DESC
		LIMIT ?
	`
	rows, err := r.db.QueryContext(ctx, query, poolName, limit)
	if err != nil {
		return nil, fmt.Errorf("list events by pool: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (r *sqliteEventRepo) ListByUser(ctx context.Context, userID string, limit int) ([]*models.CheckoutEvent, error) {
	query := `
		SELECT id, pool_name, user_id, action, quantity, created_at
		FROM checkout_events
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT ?
	`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list events by user: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]*models.CheckoutEvent, error) {
	var events []*models.CheckoutEvent
	for rows.Next() {
		event := &models.CheckoutEvent{}
		var action string
		err := rows.Scan(
			&event.ID, &event.PoolName, &event.UserID, &action,
			&event.Quantity, &event.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		event.Action = models.EventAction(action)
		events = append(events, event)
	}
	return events, rows.Err()
}
