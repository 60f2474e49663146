package submit_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/cartflow/internal/cart"
	"github.com/nikolayk812/cartflow/internal/domain"
	"github.com/nikolayk812/cartflow/internal/submit"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/text/currency"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeOrders struct {
	mu     sync.Mutex
	orders []domain.Order

	err error

	// When set, SubmitOrder signals started and waits for release.
	started chan struct{}
	release chan struct{}
}

func (f *fakeOrders) SubmitOrder(_ context.Context, order domain.Order) error {
	if f.started != nil {
		f.started <- struct{}{}
		<-f.release
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}

	f.orders = append(f.orders, order)
	return nil
}

func (f *fakeOrders) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.orders)
}

type fakeSession struct {
	identity domain.Identity
}

func (f fakeSession) CurrentUser(_ context.Context) (domain.Identity, bool) {
	if f.identity.ID == "" {
		return domain.Identity{}, false
	}

	return f.identity, true
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func catalogItem(id int64, amount string) domain.CatalogItem {
	return domain.CatalogItem{
		ID:   id,
		Name: "item",
		Price: domain.Money{
			Amount:   decimal.RequireFromString(amount),
			Currency: currency.EUR,
		},
	}
}

func TestSubmit_Success(t *testing.T) {
	store := cart.NewStore()
	orders := &fakeOrders{}
	sub := submit.NewSubmitter(store, orders, fakeSession{identity: domain.Identity{ID: "u1"}}, discardLogger())

	item := catalogItem(1, "5.00")
	store.Add(item)
	store.Add(item)

	sub.Submit(t.Context())

	require.Equal(t, 1, orders.calls())
	order := orders.orders[0]

	assert.NotEqual(t, uuid.Nil, order.ID)
	assert.Equal(t, "u1", order.UserID)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.False(t, order.SubmittedAt.IsZero())
	assert.True(t, order.Total.Amount.Equal(decimal.RequireFromString("10.00")),
		"got total %s", order.Total.Amount)

	require.Len(t, order.Items, 1)
	assert.Equal(t, item.ID, order.Items[0].ItemID)
	assert.EqualValues(t, 2, order.Items[0].Quantity)

	// Cart is cleared, a notice is up, and the machine is idle again.
	assert.Zero(t, store.Len())
	snap := sub.Snapshot()
	assert.Equal(t, domain.SubmissionIdle, snap.State)
	assert.NotEmpty(t, snap.Notice)
	assert.Empty(t, snap.Err)

	sub.DismissNotice()
	assert.Empty(t, sub.Snapshot().Notice)
}

func TestSubmit_TwoSuccessiveAttempts_DistinctOrderIDs(t *testing.T) {
	store := cart.NewStore()
	orders := &fakeOrders{}
	sub := submit.NewSubmitter(store, orders, fakeSession{identity: domain.Identity{ID: "u1"}}, discardLogger())

	store.Add(catalogItem(1, "5.00"))
	sub.Submit(t.Context())

	store.Add(catalogItem(2, "3.00"))
	sub.Submit(t.Context())

	require.Equal(t, 2, orders.calls())
	assert.NotEqual(t, orders.orders[0].ID, orders.orders[1].ID)

	sub.DismissNotice()
}

func TestSubmit_GuardedNoOps(t *testing.T) {
	tests := []struct {
		name    string
		userID  string
		prefill bool
	}{
		{
			name:    "empty cart",
			userID:  "u1",
			prefill: false,
		},
		{
			name:    "no authenticated user",
			userID:  "",
			prefill: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := cart.NewStore()
			orders := &fakeOrders{}
			sub := submit.NewSubmitter(store, orders, fakeSession{identity: domain.Identity{ID: tt.userID}}, discardLogger())

			wantLen := 0
			if tt.prefill {
				store.Add(catalogItem(1, "5.00"))
				wantLen = 1
			}

			sub.Submit(t.Context())

			assert.Zero(t, orders.calls(), "no persistence call")
			assert.Equal(t, wantLen, store.Len(), "cart untouched")

			snap := sub.Snapshot()
			assert.Equal(t, domain.SubmissionIdle, snap.State)
			assert.Empty(t, snap.Err)
			assert.Empty(t, snap.Notice)
		})
	}
}

func TestSubmit_Failure_KeepsCartAndRecovers(t *testing.T) {
	store := cart.NewStore()
	orders := &fakeOrders{err: errors.New("network error")}
	sub := submit.NewSubmitter(store, orders, fakeSession{identity: domain.Identity{ID: "u1"}}, discardLogger())

	store.Add(catalogItem(1, "5.00"))

	sub.Submit(t.Context())

	assert.Equal(t, 1, store.Len(), "items are not lost")
	snap := sub.Snapshot()
	assert.Equal(t, domain.SubmissionIdle, snap.State)
	assert.Equal(t, "network error", snap.Err)
	assert.Empty(t, snap.Notice)

	// A second submit is accepted and may succeed.
	orders.mu.Lock()
	orders.err = nil
	orders.mu.Unlock()

	sub.Submit(t.Context())

	require.Equal(t, 1, orders.calls())
	assert.Zero(t, store.Len())
	assert.Empty(t, sub.Snapshot().Err, "error slot cleared by the accepted attempt")

	sub.DismissNotice()
}

type emptyError struct{}

func (emptyError) Error() string { return "" }

func TestSubmit_Failure_GenericMessageFallback(t *testing.T) {
	store := cart.NewStore()
	orders := &fakeOrders{err: emptyError{}}
	sub := submit.NewSubmitter(store, orders, fakeSession{identity: domain.Identity{ID: "u1"}}, discardLogger())

	store.Add(catalogItem(1, "5.00"))

	sub.Submit(t.Context())

	assert.Equal(t, submit.GenericSubmitMessage, sub.Snapshot().Err)
}

func TestSubmit_SingleFlight(t *testing.T) {
	store := cart.NewStore()
	orders := &fakeOrders{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	sub := submit.NewSubmitter(store, orders, fakeSession{identity: domain.Identity{ID: "u1"}}, discardLogger())

	store.Add(catalogItem(1, "5.00"))

	done := make(chan struct{})
	go func() {
		defer close(done)
		sub.Submit(context.Background())
	}()

	// First submit is parked inside the persistence call.
	<-orders.started
	assert.Equal(t, domain.SubmissionSubmitting, sub.State())

	// Second submit while the first is unresolved: rejected without blocking.
	sub.Submit(t.Context())

	close(orders.release)
	<-done

	assert.Equal(t, 1, orders.calls(), "exactly one persistence call")
	assert.Equal(t, domain.SubmissionIdle, sub.State())

	sub.DismissNotice()
}

func TestSubmit_NoticeAutoDismiss(t *testing.T) {
	store := cart.NewStore()
	orders := &fakeOrders{}
	sub := submit.NewSubmitter(store, orders,
		fakeSession{identity: domain.Identity{ID: "u1"}}, discardLogger(),
		submit.WithNoticeTTL(20*time.Millisecond))

	store.Add(catalogItem(1, "5.00"))
	sub.Submit(t.Context())

	require.NotEmpty(t, sub.Snapshot().Notice)

	assert.Eventually(t, func() bool {
		return sub.Snapshot().Notice == ""
	}, time.Second, 5*time.Millisecond)
}

func TestSubmit_SubscribersObserveTransitions(t *testing.T) {
	store := cart.NewStore()
	orders := &fakeOrders{}
	sub := submit.NewSubmitter(store, orders, fakeSession{identity: domain.Identity{ID: "u1"}}, discardLogger())

	var mu sync.Mutex
	var states []domain.SubmissionState
	cancel := sub.Subscribe(func() {
		mu.Lock()
		defer mu.Unlock()
		states = append(states, sub.State())
	})
	defer cancel()

	store.Add(catalogItem(1, "5.00"))
	sub.Submit(t.Context())
	sub.DismissNotice()

	mu.Lock()
	defer mu.Unlock()

	require.NotEmpty(t, states)
	assert.Equal(t, domain.SubmissionSubmitting, states[0], "first notification fires on idle -> submitting")
	assert.Equal(t, domain.SubmissionIdle, states[len(states)-1])
}
