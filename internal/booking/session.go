package booking

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/nekogravitycat/court-booking-widget/internal/availability"
)

// SessionConfig holds the collaborators of one widget session.
type SessionConfig struct {
	ID         string
	Controller *Controller
	Provider   availability.Provider
	Submitter  Submitter
	Logger     *zap.Logger
	Metrics    *availability.Metrics
}

// Session runs one Controller on a single event loop goroutine.
// Availability fetches run on their own goroutines and post their result back
// as events, so the controller never sees two events at once.
type Session struct {
	id        string
	ctrl      *Controller
	provider  availability.Provider
	submitter Submitter
	logger    *zap.Logger
	metrics   *availability.Metrics

	events    chan func()
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once

	ctx    context.Context // cancelled on Close, aborts in-flight fetches
	cancel context.CancelFunc

	lastUsed atomic.Int64 // unix nanos, stamped by Registry
	cookie   atomic.Value // string, the end user's Cookie header

	// owned by the loop goroutine
	inflight int
	waiters  []chan struct{}
}

func NewSession(cfg SessionConfig) *Session {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())

	s := &Session{
		id:        cfg.ID,
		ctrl:      cfg.Controller,
		provider:  cfg.Provider,
		submitter: cfg.Submitter,
		logger:    logger.With(zap.String("session_id", cfg.ID)),
		metrics:   cfg.Metrics,
		events:    make(chan func()),
		quit:      make(chan struct{}),
		done:      make(chan struct{}),
		ctx:       ctx,
		cancel:    cancel,
	}
	go s.loop()
	return s
}

func (s *Session) ID() string {
	return s.id
}

// SetCookie records the end user's Cookie header. Later fetches and
// submissions send it to the booking server.
func (s *Session) SetCookie(cookie string) {
	if cookie != "" {
		s.cookie.Store(cookie)
	}
}

func (s *Session) withCookie(ctx context.Context) context.Context {
	c, _ := s.cookie.Load().(string)
	return availability.WithCookie(ctx, c)
}

func (s *Session) touch(t time.Time) {
	s.lastUsed.Store(t.UnixNano())
}

func (s *Session) lastUsedAt() time.Time {
	return time.Unix(0, s.lastUsed.Load())
}

func (s *Session) loop() {
	defer close(s.done)
	for {
		select {
		case ev := <-s.events:
			ev()
		case <-s.quit:
			return
		}
	}
}

// do runs fn on the loop and waits until it has run.
func (s *Session) do(fn func()) error {
	ran := make(chan struct{})
	select {
	case s.events <- func() { fn(); close(ran) }:
	case <-s.quit:
		return ErrSessionClosed
	}
	select {
	case <-ran:
		return nil
	case <-s.quit:
		return ErrSessionClosed
	}
}

// post queues fn on the loop without waiting. Dropped once the session is closed.
func (s *Session) post(fn func()) {
	select {
	case s.events <- fn:
	case <-s.quit:
	}
}

// startFetch must run on the loop.
func (s *Session) startFetch(t Ticket) {
	s.inflight++
	ctx := s.withCookie(s.ctx)
	go func() {
		resp, err := s.provider.Fetch(ctx, t.Date)
		s.post(func() { s.finishFetch(t, resp, err) })
	}()
}

func (s *Session) finishFetch(t Ticket, resp *availability.Response, err error) {
	s.inflight--

	var applied bool
	if err != nil {
		applied = s.ctrl.OnAvailabilityFailed(t, err)
	} else {
		applied = s.ctrl.OnAvailabilityLoaded(t, resp)
	}
	if !applied {
		s.metrics.ObserveStale()
		s.logger.Debug("discarding stale availability", zap.String("date", t.Date), zap.Uint64("seq", t.Seq))
	}

	if s.inflight == 0 {
		for _, w := range s.waiters {
			close(w)
		}
		s.waiters = nil
	}
}

// View returns the current render model.
func (s *Session) View() (View, error) {
	var v View
	err := s.do(func() { v = s.ctrl.View() })
	return v, err
}

// ChangeMonth moves the visible month by delta.
func (s *Session) ChangeMonth(delta int) (View, error) {
	var v View
	err := s.do(func() {
		s.ctrl.ChangeMonth(delta)
		v = s.ctrl.View()
	})
	return v, err
}

// SelectDate picks a date and starts fetching its availability in the background.
// The returned view is in the loading state; the bool is false when the date was ignored.
func (s *Session) SelectDate(date string) (View, bool, error) {
	var (
		v  View
		ok bool
	)
	err := s.do(func() {
		var t Ticket
		t, ok = s.ctrl.SelectDate(date)
		if ok {
			s.startFetch(t)
		}
		v = s.ctrl.View()
	})
	return v, ok, err
}

// SelectSlot picks one available cell of the loaded table.
func (s *Session) SelectSlot(id availability.ResourceID, start, end string) (View, bool, error) {
	var (
		v  View
		ok bool
	)
	err := s.do(func() {
		ok = s.ctrl.SelectSlot(id, start, end)
		v = s.ctrl.View()
	})
	return v, ok, err
}

// Confirm hands the selected slot to the submitter and records the outcome in the view.
// Submission failures are reported through the view's message, not as an error.
func (s *Session) Confirm(ctx context.Context) (View, error) {
	var (
		p  Payload
		ok bool
	)
	if err := s.do(func() { p, ok = s.ctrl.Payload() }); err != nil {
		return View{}, err
	}
	if !ok {
		return View{}, ErrNoSlotSelected
	}

	ctx = s.withCookie(ctx)
	submitErr := s.submitter.Submit(ctx, p)
	if submitErr != nil {
		s.logger.Warn("reservation rejected", zap.String("date", p.Fecha), zap.Error(submitErr))
	} else if inv, isInv := s.provider.(availability.Invalidator); isInv {
		if err := inv.Invalidate(ctx, p.Fecha); err != nil {
			s.logger.Warn("availability invalidation failed", zap.String("date", p.Fecha), zap.Error(err))
		}
	}

	var v View
	err := s.do(func() {
		if t, refetch := s.ctrl.OnSubmitted(p, submitErr); refetch {
			s.startFetch(t)
		}
		v = s.ctrl.View()
	})
	return v, err
}

// Flush waits until every fetch started so far has been applied or discarded.
func (s *Session) Flush(ctx context.Context) error {
	ch := make(chan struct{})
	err := s.do(func() {
		if s.inflight == 0 {
			close(ch)
			return
		}
		s.waiters = append(s.waiters, ch)
	})
	if err != nil {
		return err
	}

	select {
	case <-ch:
		return nil
	case <-s.quit:
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the loop and aborts in-flight fetches. It is safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		close(s.quit)
		<-s.done
	})
}
