package booking

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/court-booking-widget/internal/availability"
)

// gatedProvider answers each date only once its gate is opened.
type gatedProvider struct {
	mu          sync.Mutex
	gates       map[string]chan struct{}
	responses   map[string]*availability.Response
	errs        map[string]error
	calls       []string
	cookies     []string
	invalidated []string
}

func newGatedProvider() *gatedProvider {
	return &gatedProvider{
		gates:     make(map[string]chan struct{}),
		responses: make(map[string]*availability.Response),
		errs:      make(map[string]error),
	}
}

func (p *gatedProvider) gate(date string) chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	g, ok := p.gates[date]
	if !ok {
		g = make(chan struct{})
		p.gates[date] = g
	}
	return g
}

func (p *gatedProvider) open(date string) { close(p.gate(date)) }

func (p *gatedProvider) Fetch(ctx context.Context, date string) (*availability.Response, error) {
	p.mu.Lock()
	p.calls = append(p.calls, date)
	p.cookies = append(p.cookies, availability.CookieFrom(ctx))
	p.mu.Unlock()

	select {
	case <-p.gate(date):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.responses[date], p.errs[date]
}

func (p *gatedProvider) Invalidate(ctx context.Context, date string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.invalidated = append(p.invalidated, date)
	return nil
}

type stubSubmitter struct {
	mu       sync.Mutex
	payloads []Payload
	cookies  []string
	err      error
}

func (s *stubSubmitter) Submit(ctx context.Context, p Payload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payloads = append(s.payloads, p)
	s.cookies = append(s.cookies, availability.CookieFrom(ctx))
	return s.err
}

func newTestSession(t *testing.T, provider availability.Provider, submitter Submitter) *Session {
	t.Helper()
	s := NewSession(SessionConfig{
		ID:         "test",
		Controller: newTestController(),
		Provider:   provider,
		Submitter:  submitter,
	})
	t.Cleanup(s.Close)
	return s
}

func flush(t *testing.T, s *Session) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Flush(ctx))
}

func TestSessionLoadsAvailability(t *testing.T) {
	provider := newGatedProvider()
	provider.responses["2099-01-01"] = oneCourtResponse()
	s := newTestSession(t, provider, &stubSubmitter{})

	v, ok, err := s.SelectDate("2099-01-01")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, v.Loading)

	provider.open("2099-01-01")
	flush(t, s)

	v, err = s.View()
	require.NoError(t, err)
	assert.False(t, v.Loading)
	assert.Len(t, v.Rows, 9)
}

func TestSessionMonthNavigationWhileFetching(t *testing.T) {
	provider := newGatedProvider()
	s := newTestSession(t, provider, &stubSubmitter{})

	_, _, err := s.SelectDate("2099-01-01")
	require.NoError(t, err)

	// The fetch is blocked, yet navigation answers immediately.
	v, err := s.ChangeMonth(1)
	require.NoError(t, err)
	assert.Equal(t, time.November, v.Month)
	assert.True(t, v.Loading)
}

func TestSessionDiscardsStaleResponse(t *testing.T) {
	provider := newGatedProvider()
	provider.responses["2099-01-01"] = oneCourtResponse()
	provider.responses["2099-01-02"] = &availability.Response{
		Resources: []availability.Resource{{ID: "2", Name: "Cancha 2"}},
	}
	reg := prometheus.NewRegistry()
	s := NewSession(SessionConfig{
		ID:         "stale",
		Controller: newTestController(),
		Provider:   provider,
		Submitter:  &stubSubmitter{},
		Metrics:    availability.NewMetrics(reg),
	})
	t.Cleanup(s.Close)

	_, _, _ = s.SelectDate("2099-01-01")
	_, _, _ = s.SelectDate("2099-01-02")

	// The newer answer is applied while the older fetch is still blocked.
	provider.open("2099-01-02")
	require.Eventually(t, func() bool {
		v, err := s.View()
		return err == nil && !v.Loading
	}, 2*time.Second, 5*time.Millisecond)

	// Only then does the stale answer arrive.
	provider.open("2099-01-01")
	flush(t, s)

	v, err := s.View()
	require.NoError(t, err)
	assert.Equal(t, "2099-01-02", v.Selection.Date)
	require.Len(t, v.Resources, 1)
	assert.Equal(t, availability.ResourceID("2"), v.Resources[0].ID)
	assert.Equal(t, availability.ResourceID("2"), v.Rows[0].Cells[0].ResourceID)

	expected := `
# HELP booking_widget_availability_stale_total Availability answers discarded because a newer date was selected
# TYPE booking_widget_availability_stale_total counter
booking_widget_availability_stale_total 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "booking_widget_availability_stale_total"))
}

func TestSessionSurfacesFetchError(t *testing.T) {
	provider := newGatedProvider()
	provider.errs["2099-01-01"] = availability.ErrNetwork
	s := newTestSession(t, provider, &stubSubmitter{})

	_, _, _ = s.SelectDate("2099-01-01")
	provider.open("2099-01-01")
	flush(t, s)

	v, err := s.View()
	require.NoError(t, err)
	require.NotNil(t, v.Message)
	assert.Equal(t, availability.MsgConnection, v.Message.Text)
}

func TestSessionConfirm(t *testing.T) {
	provider := newGatedProvider()
	provider.responses["2099-01-01"] = oneCourtResponse()
	provider.open("2099-01-01")
	submitter := &stubSubmitter{}
	s := newTestSession(t, provider, submitter)

	_, err := s.Confirm(context.Background())
	assert.ErrorIs(t, err, ErrNoSlotSelected)

	_, _, _ = s.SelectDate("2099-01-01")
	flush(t, s)
	_, ok, err := s.SelectSlot("1", "15:00", "16:00")
	require.NoError(t, err)
	require.True(t, ok)

	v, err := s.Confirm(context.Background())
	require.NoError(t, err)
	require.NotNil(t, v.Message)
	assert.Equal(t, MsgBooked, v.Message.Text)
	assert.Equal(t, []Payload{{Fecha: "2099-01-01", Cancha: "1", HoraInicio: "15:00", HoraFin: "16:00"}}, submitter.payloads)
	assert.Equal(t, []string{"2099-01-01"}, provider.invalidated)

	// The date is fetched again after booking.
	flush(t, s)
	assert.Equal(t, []string{"2099-01-01", "2099-01-01"}, provider.calls)
}

func TestSessionForwardsCookie(t *testing.T) {
	provider := newGatedProvider()
	provider.responses["2099-01-01"] = oneCourtResponse()
	provider.open("2099-01-01")
	submitter := &stubSubmitter{}
	s := newTestSession(t, provider, submitter)

	s.SetCookie("session=abc")
	s.SetCookie("") // an empty header keeps the known cookie

	_, _, _ = s.SelectDate("2099-01-01")
	flush(t, s)
	_, _, _ = s.SelectSlot("1", "15:00", "16:00")
	_, err := s.Confirm(context.Background())
	require.NoError(t, err)
	flush(t, s)

	provider.mu.Lock()
	defer provider.mu.Unlock()
	assert.Equal(t, []string{"session=abc", "session=abc"}, provider.cookies)
	assert.Equal(t, []string{"session=abc"}, submitter.cookies)
}

func TestSessionConfirmFailureKeepsSelection(t *testing.T) {
	provider := newGatedProvider()
	provider.responses["2099-01-01"] = oneCourtResponse()
	provider.open("2099-01-01")
	s := newTestSession(t, provider, &stubSubmitter{err: ErrUnauthorized})

	_, _, _ = s.SelectDate("2099-01-01")
	flush(t, s)
	_, _, _ = s.SelectSlot("1", "15:00", "16:00")

	v, err := s.Confirm(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateSlotSelected, v.State)
	assert.Equal(t, MsgUnauthorized, v.Message.Text)
	assert.Empty(t, provider.invalidated)
}

func TestSessionClose(t *testing.T) {
	provider := newGatedProvider()
	s := NewSession(SessionConfig{ID: "x", Controller: newTestController(), Provider: provider})

	_, _, err := s.SelectDate("2099-01-01")
	require.NoError(t, err)

	s.Close()
	s.Close()

	_, err = s.View()
	assert.True(t, errors.Is(err, ErrSessionClosed))
	assert.ErrorIs(t, s.Flush(context.Background()), ErrSessionClosed)
}
