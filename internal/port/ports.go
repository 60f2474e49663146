package port

import (
	"context"

	"github.com/nikolayk812/cartflow/internal/domain"
)

// CatalogProvider fetches the available menu items.
type CatalogProvider interface {
	FetchCatalog(ctx context.Context) ([]domain.CatalogItem, error)
}

// OrderRepository accepts a finished order record. It may fail; deduplication
// of retried submissions is this collaborator's contract, keyed by Order.ID.
type OrderRepository interface {
	SubmitOrder(ctx context.Context, order domain.Order) error
}

// SessionProvider exposes the acting user's identity, if any.
type SessionProvider interface {
	CurrentUser(ctx context.Context) (domain.Identity, bool)
}
