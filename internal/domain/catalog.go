package domain

// CatalogItem is immutable once loaded; the cart keeps its own price snapshot.
type CatalogItem struct {
	ID    int64
	Name  string
	Price Money
}
