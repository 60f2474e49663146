package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/cartflow/internal/domain"
	"github.com/nikolayk812/cartflow/internal/port"
)

type orderRepository struct {
	pool *pgxpool.Pool
}

func NewOrder(pool *pgxpool.Pool) (port.OrderRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}

	return &orderRepository{pool: pool}, nil
}

// SubmitOrder persists the order record and its lines in one transaction.
// Order ids are client-generated, so a retried submission of the same logical
// attempt hits the primary key and is deduplicated here.
func (r *orderRepository) SubmitOrder(ctx context.Context, order domain.Order) error {
	if order.ID == uuid.Nil {
		return fmt.Errorf("order ID is empty")
	}
	if order.UserID == "" {
		return fmt.Errorf("order userID is empty")
	}
	if len(order.Items) == 0 {
		return fmt.Errorf("order has no items")
	}

	_, err := withTx(ctx, r.pool, func(tx pgx.Tx) (struct{}, error) {
		var zero struct{}

		tag, err := tx.Exec(ctx,
			`INSERT INTO orders (id, user_id, total_amount, total_currency, status, submitted_at)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT (id) DO NOTHING`,
			order.ID, order.UserID, order.Total.Amount, order.Total.Currency.String(),
			string(order.Status), order.SubmittedAt)
		if err != nil {
			return zero, fmt.Errorf("insert order: %w", err)
		}

		// Duplicate of an already-persisted attempt: nothing more to do.
		if tag.RowsAffected() == 0 {
			return zero, nil
		}

		for _, item := range order.Items {
			_, err := tx.Exec(ctx,
				`INSERT INTO order_items (order_id, item_id, name, price_amount, price_currency, quantity)
				 VALUES ($1, $2, $3, $4, $5, $6)`,
				order.ID, item.ItemID, item.Name, item.Price.Amount,
				item.Price.Currency.String(), item.Quantity)
			if err != nil {
				return zero, fmt.Errorf("insert order item[%d]: %w", item.ItemID, err)
			}
		}

		return zero, nil
	})
	if err != nil {
		return fmt.Errorf("withTx: %w", err)
	}

	return nil
}
