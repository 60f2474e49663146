package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/cartflow/internal/domain"
	"github.com/nikolayk812/cartflow/internal/port"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type catalogRepository struct {
	pool *pgxpool.Pool
}

func NewCatalog(pool *pgxpool.Pool) (port.CatalogProvider, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}

	return &catalogRepository{pool: pool}, nil
}

func (r *catalogRepository) FetchCatalog(ctx context.Context) ([]domain.CatalogItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, price_amount, price_currency
		 FROM menu_items
		 ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("pool.Query: %w", err)
	}
	defer rows.Close()

	var items []domain.CatalogItem

	for rows.Next() {
		var (
			item         domain.CatalogItem
			amount       decimal.Decimal
			currencyCode string
		)

		if err := rows.Scan(&item.ID, &item.Name, &amount, &currencyCode); err != nil {
			return nil, fmt.Errorf("rows.Scan: %w", err)
		}

		parsedCurrency, err := currency.ParseISO(currencyCode)
		if err != nil {
			return nil, fmt.Errorf("currency[%s] is not valid: %w", currencyCode, err)
		}

		item.Price = domain.Money{Amount: amount, Currency: parsedCurrency}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return items, nil
}
