package availability

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/nekogravitycat/court-booking-widget/internal/calendar"
)

const maxBodyBytes = 1 << 20

// HTTPConfig configures an HTTPProvider.
type HTTPConfig struct {
	BaseURL string        // booking server root, e.g. https://canchas.example.com
	Timeout time.Duration // per request; ignored when Client is set
	RPS     float64       // outgoing requests per second; <= 0 disables throttling
	Client  *http.Client
	Logger  *zap.Logger
	Metrics *Metrics
}

// HTTPProvider reads availability from GET {base}/api/turnos_disponibles/{date}.
type HTTPProvider struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger
	metrics *Metrics
}

func NewHTTPProvider(cfg HTTPConfig) *HTTPProvider {
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &HTTPProvider{
		baseURL: cfg.BaseURL,
		client:  client,
		logger:  logger,
		metrics: cfg.Metrics,
	}
	if cfg.RPS > 0 {
		burst := int(cfg.RPS)
		if burst < 1 {
			burst = 1
		}
		p.limiter = rate.NewLimiter(rate.Limit(cfg.RPS), burst)
	}
	return p
}

func (p *HTTPProvider) Fetch(ctx context.Context, date string) (*Response, error) {
	if _, err := calendar.ParseDate(date); err != nil {
		return nil, ErrInvalidDate
	}

	start := time.Now()
	resp, err := p.fetch(ctx, date)
	p.metrics.ObserveFetch(KindOf(err), time.Since(start))
	if err != nil {
		p.logger.Warn("availability fetch failed",
			zap.String("date", date),
			zap.String("kind", string(KindOf(err))),
			zap.Error(err),
		)
		return nil, err
	}
	return resp, nil
}

func (p *HTTPProvider) fetch(ctx context.Context, date string) (*Response, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, networkError(err)
		}
	}

	endpoint, err := url.JoinPath(p.baseURL, "api", "turnos_disponibles", date)
	if err != nil {
		return nil, fmt.Errorf("build availability url failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build availability request failed: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	SetCookieHeader(ctx, req)

	res, err := p.client.Do(req)
	if err != nil {
		return nil, networkError(err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return nil, networkError(err)
	}

	if res.StatusCode != http.StatusOK {
		var payload struct {
			Error string `json:"error"`
		}
		// An error answer we cannot read is reported like a broken connection.
		if err := json.Unmarshal(body, &payload); err != nil {
			return nil, networkError(fmt.Errorf("decode error body (status %d): %w", res.StatusCode, err))
		}
		return nil, serverError(res.StatusCode, payload.Error)
	}

	var out Response
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, networkError(fmt.Errorf("decode availability: %w", err))
	}
	return &out, nil
}
