// Package catalog loads the menu once at session start and publishes it.
package catalog

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/nikolayk812/cartflow/internal/domain"
	"github.com/nikolayk812/cartflow/internal/observe"
	"github.com/nikolayk812/cartflow/internal/port"
)

type Status int

const (
	StatusLoading Status = iota
	StatusReady
	StatusError
)

// GenericLoadMessage is what users see when the fetch fails; the underlying
// cause goes to the log only.
const GenericLoadMessage = "could not load the menu"

type Snapshot struct {
	Status  Status
	Items   []domain.CatalogItem
	Message string
}

// Loader fetches the catalog through its provider. There is no automatic
// retry: after an error the caller may invoke Load again.
type Loader struct {
	provider port.CatalogProvider
	logger   *slog.Logger
	hub      *observe.Hub

	mu      sync.Mutex
	status  Status
	items   []domain.CatalogItem
	message string
}

func NewLoader(provider port.CatalogProvider, logger *slog.Logger) *Loader {
	return &Loader{
		provider: provider,
		logger:   logger,
		hub:      observe.NewHub(),
		status:   StatusLoading,
	}
}

// Load fetches the catalog and transitions loading -> ready, or
// loading -> error with a generic user-facing message.
func (l *Loader) Load(ctx context.Context) {
	l.setLoading()

	items, err := l.provider.FetchCatalog(ctx)
	if err != nil {
		l.logger.Error("catalog fetch failed", "error", err)
		l.setError(GenericLoadMessage)
		return
	}

	l.setReady(items)
}

// Item looks up a catalog entry by id once the catalog is ready.
func (l *Loader) Item(id int64) (domain.CatalogItem, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, item := range l.items {
		if item.ID == id {
			return item, true
		}
	}

	return domain.CatalogItem{}, false
}

func (l *Loader) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	return Snapshot{
		Status:  l.status,
		Items:   slices.Clone(l.items),
		Message: l.message,
	}
}

func (l *Loader) Subscribe(fn func()) func() {
	return l.hub.Subscribe(fn)
}

func (l *Loader) setLoading() {
	l.mu.Lock()
	l.status = StatusLoading
	l.message = ""
	l.mu.Unlock()

	l.hub.Notify()
}

func (l *Loader) setReady(items []domain.CatalogItem) {
	l.mu.Lock()
	l.status = StatusReady
	l.items = slices.Clone(items)
	l.message = ""
	l.mu.Unlock()

	l.hub.Notify()
}

func (l *Loader) setError(message string) {
	l.mu.Lock()
	l.status = StatusError
	l.message = message
	l.mu.Unlock()

	l.hub.Notify()
}
