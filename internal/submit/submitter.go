// Package submit turns the current cart into an immutable order record and
// hands it to the persistence collaborator under a single-flight guard.
package submit

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/cartflow/internal/cart"
	"github.com/nikolayk812/cartflow/internal/domain"
	"github.com/nikolayk812/cartflow/internal/observe"
	"github.com/nikolayk812/cartflow/internal/port"
)

// DefaultNoticeTTL is how long a success notice stays up before it is
// dismissed automatically.
const DefaultNoticeTTL = 6 * time.Second

// GenericSubmitMessage is the fallback when the collaborator's failure
// carries no message of its own.
const GenericSubmitMessage = "order submission failed"

const successNotice = "order placed"

type Snapshot struct {
	State  domain.SubmissionState
	Err    string
	Notice string
}

// Submitter owns the idle/submitting state machine. A submit issued while
// another is in flight is rejected, so at most one order construction exists
// per cart session at a time.
type Submitter struct {
	cart      *cart.Store
	orders    port.OrderRepository
	session   port.SessionProvider
	logger    *slog.Logger
	hub       *observe.Hub
	noticeTTL time.Duration

	state atomic.Int32

	mu          sync.Mutex
	errMsg      string
	notice      string
	noticeTimer *time.Timer
}

type Option func(*Submitter)

func WithNoticeTTL(ttl time.Duration) Option {
	return func(s *Submitter) {
		s.noticeTTL = ttl
	}
}

func NewSubmitter(store *cart.Store, orders port.OrderRepository, session port.SessionProvider, logger *slog.Logger, opts ...Option) *Submitter {
	s := &Submitter{
		cart:      store,
		orders:    orders,
		session:   session,
		logger:    logger,
		hub:       observe.NewHub(),
		noticeTTL: DefaultNoticeTTL,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Submit runs the submission workflow. Unmet preconditions (absent identity,
// empty cart, a submission already in flight) make it return immediately
// without touching any state. Outcomes are published through Snapshot, not
// returned: success clears the cart and raises a transient notice, failure
// records the collaborator's message and leaves the cart untouched. Either
// way the state machine returns to idle.
func (s *Submitter) Submit(ctx context.Context) {
	user, ok := s.session.CurrentUser(ctx)
	if !ok {
		return
	}

	lines := s.cart.Lines()
	if len(lines) == 0 {
		return
	}

	if !s.state.CompareAndSwap(int32(domain.SubmissionIdle), int32(domain.SubmissionSubmitting)) {
		return
	}
	s.clearErr()
	s.hub.Notify()

	order := domain.Order{
		ID:          uuid.New(),
		UserID:      user.ID,
		Items:       lines,
		Total:       domain.CartTotal(lines),
		Status:      domain.OrderStatusPending,
		SubmittedAt: time.Now().UTC(),
	}

	if err := s.orders.SubmitOrder(ctx, order); err != nil {
		s.logger.Error("order submission failed",
			"order_id", order.ID,
			"user_id", order.UserID,
			"error", err)

		msg := err.Error()
		if msg == "" {
			msg = GenericSubmitMessage
		}
		s.finishFailure(msg)
		return
	}

	s.cart.Clear()
	s.finishSuccess()
}

// State reads the submission state machine.
func (s *Submitter) State() domain.SubmissionState {
	return domain.SubmissionState(s.state.Load())
}

func (s *Submitter) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		State:  s.State(),
		Err:    s.errMsg,
		Notice: s.notice,
	}
}

// DismissNotice drops the success notice before its TTL elapses.
func (s *Submitter) DismissNotice() {
	s.mu.Lock()
	if s.notice == "" {
		s.mu.Unlock()
		return
	}
	s.notice = ""
	if s.noticeTimer != nil {
		s.noticeTimer.Stop()
		s.noticeTimer = nil
	}
	s.mu.Unlock()

	s.hub.Notify()
}

func (s *Submitter) Subscribe(fn func()) func() {
	return s.hub.Subscribe(fn)
}

func (s *Submitter) clearErr() {
	s.mu.Lock()
	s.errMsg = ""
	s.mu.Unlock()
}

func (s *Submitter) finishSuccess() {
	s.mu.Lock()
	s.notice = successNotice
	if s.noticeTimer != nil {
		s.noticeTimer.Stop()
	}
	s.noticeTimer = time.AfterFunc(s.noticeTTL, s.DismissNotice)
	s.mu.Unlock()

	s.state.Store(int32(domain.SubmissionIdle))
	s.hub.Notify()
}

func (s *Submitter) finishFailure(msg string) {
	s.mu.Lock()
	s.errMsg = msg
	s.mu.Unlock()

	s.state.Store(int32(domain.SubmissionIdle))
	s.hub.Notify()
}
