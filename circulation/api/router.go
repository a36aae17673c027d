package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/stanleyamo/library-management-system/circulation"
	"github.com/stanleyamo/library-management-system/circulation/shell"
)

// ErrNilService is returned when NewRouter is given no Service.
var ErrNilService = errors.New("service must not be nil")

const (
	logMsgRequestCompleted = "http request completed"
	logMsgRequestFailed    = "http request failed"

	logAttrMethod     = "method"
	logAttrPath       = "path"
	logAttrStatus     = "status"
	logAttrDurationMS = "duration_ms"
	logAttrError      = "error"
)

const corsMaxAge = 12 * time.Hour

type routerConfig struct {
	allowedOrigins []string
	rateLimit      rate.Limit
	rateBurst      int
	logger         shell.ContextualLogger
}

// Option configures the router.
type Option func(*routerConfig)

// WithAllowedOrigins enables CORS for the given origins. "*" allows every origin.
func WithAllowedOrigins(origins ...string) Option {
	return func(c *routerConfig) {
		c.allowedOrigins = append(c.allowedOrigins, origins...)
	}
}

// WithRateLimit limits each client IP to r requests per second with the given burst.
// A zero rate disables limiting.
func WithRateLimit(r rate.Limit, burst int) Option {
	return func(c *routerConfig) {
		c.rateLimit = r
		c.rateBurst = burst
	}
}

// WithLogger logs every request and every unexpected error.
func WithLogger(logger shell.ContextualLogger) Option {
	return func(c *routerConfig) {
		c.logger = logger
	}
}

type handlers struct {
	service *circulation.Service
	logger  shell.ContextualLogger
}

// NewRouter builds the gin engine serving the circulation API.
func NewRouter(service *circulation.Service, opts ...Option) (*gin.Engine, error) {
	if service == nil {
		return nil, ErrNilService
	}

	cfg := routerConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	h := &handlers{service: service, logger: cfg.logger}

	r := gin.New()
	r.Use(gin.Recovery())

	if cfg.logger != nil {
		r.Use(h.accessLog())
	}

	if len(cfg.allowedOrigins) > 0 {
		r.Use(cors.New(corsConfig(cfg.allowedOrigins)))
	}

	r.NoRoute(func(c *gin.Context) {
		renderError(c, http.StatusNotFound, "NotFound", "route not found")
	})

	// Health check stays outside the rate limit.
	r.GET("/healthz", h.health)

	apiGroup := r.Group("/api")
	if cfg.rateLimit > 0 {
		apiGroup.Use(NewClientRateLimiter(cfg.rateLimit, max(cfg.rateBurst, 1)).Middleware())
	}

	identity := requireActor()

	books := apiGroup.Group("/books")
	{
		books.GET("", h.listBooks)
		books.GET("/:id", h.getBook)
		books.GET("/:id/availability", h.checkAvailability)
		books.POST("", identity, h.createBook)
		books.PATCH("/:id", identity, h.updateBook)
		books.DELETE("/:id", identity, h.deleteBook)
	}

	transactions := apiGroup.Group("/transactions", identity)
	{
		transactions.GET("", h.listTransactions)
		transactions.GET("/overdue", h.overdueLoans)
		transactions.POST("", h.borrowBook)
		transactions.POST("/:id/return", h.returnBook)
		transactions.POST("/:id/renew", h.renewLoan)
	}

	fines := apiGroup.Group("/fines", identity)
	{
		fines.GET("", h.listFines)
		fines.GET("/summary", h.fineSummary)
		fines.POST("/:id/pay", h.payFine)
		fines.POST("/:id/waive", h.waiveFine)
	}

	return r, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", HeaderUserID, HeaderUserRole},
		AllowCredentials: false,
		MaxAge:           corsMaxAge,
	}

	for _, origin := range origins {
		if origin == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}

	cfg.AllowOrigins = origins

	return cfg
}

func (h *handlers) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		h.logger.InfoContext(c.Request.Context(), logMsgRequestCompleted,
			logAttrMethod, c.Request.Method,
			logAttrPath, c.FullPath(),
			logAttrStatus, c.Writer.Status(),
			logAttrDurationMS, float64(time.Since(start).Microseconds())/1000,
		)
	}
}

func (h *handlers) health(c *gin.Context) {
	render(c, http.StatusOK, map[string]any{
		"success": true,
		"status":  "ok",
		"date":    h.service.Today(),
	})
}

// pathID parses the :id path parameter.
func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		renderBadRequest(c, "invalid id %q", c.Param("id"))
		return uuid.Nil, false
	}

	return id, true
}
