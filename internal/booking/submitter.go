package booking

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/nekogravitycat/court-booking-widget/internal/availability"
	"github.com/nekogravitycat/court-booking-widget/internal/pkg/apperror"
)

// Submitter hands a reservation to the booking server.
type Submitter interface {
	Submit(ctx context.Context, p Payload) error
}

// FormSubmitter posts the reservation form to {base}/reservar_turno.
// The server answers with a redirect whose target tells the outcome,
// so redirects are inspected instead of followed.
type FormSubmitter struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func NewFormSubmitter(baseURL string, client *http.Client, logger *zap.Logger) *FormSubmitter {
	c := &http.Client{}
	if client != nil {
		copied := *client
		c = &copied
	}
	c.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &FormSubmitter{
		baseURL: baseURL,
		client:  c,
		logger:  logger,
	}
}

func (s *FormSubmitter) Submit(ctx context.Context, p Payload) error {
	endpoint, err := url.JoinPath(s.baseURL, "reservar_turno")
	if err != nil {
		return fmt.Errorf("build reservation url failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(p.Values().Encode()))
	if err != nil {
		return fmt.Errorf("build reservation request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	availability.SetCookieHeader(ctx, req)

	res, err := s.client.Do(req)
	if err != nil {
		return apperror.Wrap(err, http.StatusBadGateway, availability.MsgConnection)
	}
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, 1<<16))

	switch {
	case res.StatusCode >= 300 && res.StatusCode < 400:
		return redirectOutcome(res)
	case res.StatusCode >= 200 && res.StatusCode < 300:
		return nil
	default:
		s.logger.Warn("reservation failed", zap.Int("status", res.StatusCode))
		return apperror.New(res.StatusCode, MsgSubmitFailed)
	}
}

func redirectOutcome(res *http.Response) error {
	loc, err := res.Location()
	if err != nil {
		return ErrRejected
	}
	switch path.Base(loc.Path) {
	case "mis_turnos":
		return nil
	case "iniciar_sesion_usuario":
		return ErrUnauthorized
	default:
		return ErrRejected
	}
}
