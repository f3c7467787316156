package app

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/nekogravitycat/court-booking-widget/internal/api"
	"github.com/nekogravitycat/court-booking-widget/internal/availability"
	availabilityHttp "github.com/nekogravitycat/court-booking-widget/internal/availability/http"
	"github.com/nekogravitycat/court-booking-widget/internal/booking"
	bookingHttp "github.com/nekogravitycat/court-booking-widget/internal/booking/http"
	calendarHttp "github.com/nekogravitycat/court-booking-widget/internal/calendar/http"
	"github.com/nekogravitycat/court-booking-widget/internal/slot"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string

	BookingAPIURL       string
	AvailabilityTimeout time.Duration
	AvailabilityRPS     float64
	HTTPClient          *http.Client // optional, shared by the provider and the submitter

	SessionIdleTTL time.Duration // 0 keeps sessions until deleted

	Hours    slot.Hours
	Location *time.Location
	Now      func() time.Time

	Redis    *redis.Client // nil disables the availability cache
	CacheTTL time.Duration

	Logger   *zap.Logger
	Registry *prometheus.Registry // nil uses the prometheus default registry
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router   *gin.Engine
	Sessions *booking.Registry
	Provider availability.Provider

	stopJanitor context.CancelFunc
	janitorDone chan struct{}
}

// Close stops the session janitor and closes every live session.
func (c *Container) Close() {
	c.stopJanitor()
	<-c.janitorDone
	c.Sessions.Close()
}

// upstreamClient returns the client used to reach the booking server.
// Without an explicit client every call is bounded by the availability timeout.
func upstreamClient(cfg Config) *http.Client {
	if cfg.HTTPClient != nil {
		return cfg.HTTPClient
	}
	return &http.Client{Timeout: cfg.AvailabilityTimeout}
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if cfg.Registry != nil {
		registerer = cfg.Registry
		gatherer = cfg.Registry
	}
	metrics := availability.NewMetrics(registerer)
	client := upstreamClient(cfg)

	// Availability Module
	var provider availability.Provider = availability.NewHTTPProvider(availability.HTTPConfig{
		BaseURL: cfg.BookingAPIURL,
		Timeout: cfg.AvailabilityTimeout,
		RPS:     cfg.AvailabilityRPS,
		Client:  client,
		Logger:  logger.Named("availability"),
		Metrics: metrics,
	})
	if cfg.Redis != nil {
		provider = availability.NewCachedProvider(provider, cfg.Redis, cfg.CacheTTL, logger.Named("availability_cache"), metrics)
	}

	// Booking Module
	hours := cfg.Hours
	if hours == (slot.Hours{}) {
		hours = slot.DefaultHours
	}

	submitter := booking.NewFormSubmitter(cfg.BookingAPIURL, client, logger.Named("submitter"))
	sessions := booking.NewRegistry(func(id string) *booking.Session {
		ctrl := booking.NewController(booking.Options{
			Hours:    hours,
			Now:      cfg.Now,
			Location: cfg.Location,
		})
		return booking.NewSession(booking.SessionConfig{
			ID:         id,
			Controller: ctrl,
			Provider:   provider,
			Submitter:  submitter,
			Logger:     logger.Named("session"),
			Metrics:    metrics,
		})
	}, booking.RegistryOptions{
		IdleTTL: cfg.SessionIdleTTL,
		Logger:  logger.Named("sessions"),
	})

	// Session janitor, stopped by Container.Close
	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	janitorDone := make(chan struct{})
	go func() {
		defer close(janitorDone)
		sessions.Run(janitorCtx)
	}()

	// API Router Config
	routerParams := api.Config{
		IsProduction:        cfg.IsProduction,
		ProdOrigins:         cfg.ProdOrigins,
		Logger:              logger.Named("http"),
		Gatherer:            gatherer,
		SessionHandler:      bookingHttp.NewHandler(sessions, cfg.AvailabilityTimeout*2),
		CalendarHandler:     calendarHttp.NewHandler(cfg.Now, cfg.Location),
		AvailabilityHandler: availabilityHttp.NewHandler(provider, hours),
	}

	// Router
	router := api.NewRouter(routerParams)

	return &Container{
		Router:      router,
		Sessions:    sessions,
		Provider:    provider,
		stopJanitor: stopJanitor,
		janitorDone: janitorDone,
	}
}
