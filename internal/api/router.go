package api

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	availabilityHttp "github.com/nekogravitycat/court-booking-widget/internal/availability/http"
	bookingHttp "github.com/nekogravitycat/court-booking-widget/internal/booking/http"
	calendarHttp "github.com/nekogravitycat/court-booking-widget/internal/calendar/http"
	"github.com/nekogravitycat/court-booking-widget/internal/pkg/logger"
)

// Config holds the handlers and settings needed to build the router.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	Logger       *zap.Logger
	Gatherer     prometheus.Gatherer

	SessionHandler      *bookingHttp.Handler
	CalendarHandler     *calendarHttp.Handler
	AvailabilityHandler *availabilityHttp.Handler
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Recovery) and registering routes for various modules.
func NewRouter(cfg Config) *gin.Engine {
	r := gin.New()

	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	// Global Middleware:
	// - RequestID: Tags each request so widget logs can be correlated.
	// - Logger: Structured request log line.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(RequestID(), logger.GinMiddleware(log), gin.Recovery())

	// Configure CORS (Cross-Origin Resource Sharing).
	// Rendering layers run in the browser on other origins.
	config := cors.DefaultConfig()
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		config.AllowOrigins = strings.Split(cfg.ProdOrigins, ",")
		// The booking server session cookie is forwarded upstream.
		config.AllowCredentials = true
	} else {
		config.AllowAllOrigins = true
	}
	config.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", requestIDHeader}
	config.ExposeHeaders = []string{requestIDHeader}
	r.Use(cors.New(config))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		bookingHttp.RegisterRoutes(v1, cfg.SessionHandler)
		calendarHttp.RegisterRoutes(v1, cfg.CalendarHandler)
		availabilityHttp.RegisterRoutes(v1, cfg.AvailabilityHandler)
	}

	return r
}
