package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"moneymanager/internal/cache"
	"moneymanager/internal/core"
	"moneymanager/internal/log"
	"moneymanager/internal/middleware/ratelimit"
	"moneymanager/internal/middleware/security"
	"moneymanager/internal/middleware/trace"
	"moneymanager/internal/services"
)

// AccountService is the account surface the handlers need.
type AccountService interface {
	CreateAccount(ctx context.Context, name string, initialBalance core.Money, accountType core.AccountType) (core.Account, error)
	GetAccount(ctx context.Context, name string) (core.Account, error)
	ListAccounts(ctx context.Context) ([]core.Account, error)
	DeleteAccount(ctx context.Context, id int64) error
}

// TransactionService is the transaction surface the handlers need.
type TransactionService interface {
	CreateTransaction(ctx context.Context, in core.TransactionInput) (core.Transaction, error)
	UpdateTransaction(ctx context.Context, id int64, in core.TransactionInput) (core.Transaction, error)
	DeleteTransaction(ctx context.Context, id int64) error
	GetTransaction(ctx context.Context, id int64) (core.Transaction, error)
	ListTransactions(ctx context.Context) ([]core.Transaction, error)
	ListByDateRange(ctx context.Context, r services.DateRange) ([]core.Transaction, error)
	ListByType(ctx context.Context, t core.TransactionType, r *services.DateRange) ([]core.Transaction, error)
	ListByDivision(ctx context.Context, d core.Division, r *services.DateRange) ([]core.Transaction, error)
	ListByCategory(ctx context.Context, category string, r *services.DateRange) ([]core.Transaction, error)
	Categories(ctx context.Context, t core.TransactionType) ([]string, error)
	Dashboard(ctx context.Context, r services.DateRange) (core.DashboardSummary, error)
}

type Config struct {
	Addr              string
	CORSAllowedOrigin string
	RateLimitRPM      int
}

type Option func(*Server)

// WithReadinessCheck sets the check behind /readyz.
func WithReadinessCheck(check func(context.Context) error) Option {
	return func(s *Server) { s.ready = check }
}

// WithCacheStats exposes a cache's counters on /metrics.
func WithCacheStats(stats func() cache.Stats) Option {
	return func(s *Server) { s.cacheStats = stats }
}

func WithLogger(logger *log.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

type Server struct {
	http.Server
	accounts     AccountService
	transactions TransactionService

	logger     *log.Logger
	ready      func(context.Context) error
	cacheStats func() cache.Stats

	limiter  *ratelimit.Limiter
	detector *security.Detector
	tracer   *trace.Middleware

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
// Every route is served both at the root and under /api.
func NewServer(cfg Config, accounts AccountService, transactions TransactionService, opts ...Option) *Server {
	s := &Server{
		Server: http.Server{
			Addr: cfg.Addr,
		},
		accounts:     accounts,
		transactions: transactions,
		detector:     security.NewDetector(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.New(log.DefaultConfig())
	}
	s.logger = s.logger.WithComponent(log.ComponentHTTP)

	s.limiter = ratelimit.NewLimiter(ratelimit.Config{
		RequestsPerMinute: cfg.RateLimitRPM,
		Methods:           ratelimit.MutatingMethods,
	})
	s.tracer = trace.NewMiddleware(s.logger, s.detector.ExtractClientIP)

	mux := http.NewServeMux()
	for _, prefix := range []string{"", "/api"} {
		s.routes(mux, prefix)
	}
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	headersCfg := security.DefaultHeadersConfig()
	headersCfg.AllowedOrigin = cfg.CORSAllowedOrigin
	headers := security.NewHeadersMiddleware(headersCfg)
	limit := s.limiter.Middleware(s.detector.ExtractClientIP, s.onRateLimit)

	s.Handler = s.tracer.Middleware(
		s.detector.Middleware(
			headers.Middleware(
				limit(mux))))
	return s
}

func (s *Server) routes(mux *http.ServeMux, prefix string) {
	handle := func(method, path string, h http.HandlerFunc) {
		mux.HandleFunc(method+" "+prefix+path, h)
	}

	handle(http.MethodPost, "/accounts", s.handleCreateAccount)
	handle(http.MethodGet, "/accounts", s.handleListAccounts)
	handle(http.MethodGet, "/accounts/{accountName}", s.handleGetAccount)
	handle(http.MethodDelete, "/accounts/{id}", s.handleDeleteAccount)

	handle(http.MethodPost, "/transactions", s.handleCreateTransaction)
	handle(http.MethodGet, "/transactions", s.handleListTransactions)
	handle(http.MethodGet, "/transactions/{id}", s.handleGetTransaction)
	handle(http.MethodPut, "/transactions/{id}", s.handleUpdateTransaction)
	handle(http.MethodDelete, "/transactions/{id}", s.handleDeleteTransaction)
	handle(http.MethodGet, "/transactions/date-range", s.handleListByDateRange)
	handle(http.MethodGet, "/transactions/type/{type}", s.handleListByType)
	handle(http.MethodGet, "/transactions/division/{division}", s.handleListByDivision)
	handle(http.MethodGet, "/transactions/category/{category}", s.handleListByCategory)
	handle(http.MethodGet, "/transactions/categories", s.handleCategories)
	handle(http.MethodGet, "/transactions/dashboard", s.handleDashboard)
}

func (s *Server) onRateLimit(w http.ResponseWriter, r *http.Request) {
	log.FromContext(r.Context()).WithComponent(log.ComponentRateLimit).WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldClientIP, s.detector.ExtractClientIP(r),
		log.FieldMethod, r.Method,
		log.FieldPath, r.URL.Path)
	ErrorResponse(http.StatusTooManyRequests, KindRateLimited, "rate limit exceeded, retry later", nil).Write(w)
}

// Shutdown stops the rate limiter cleanup and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// ApplyTimeouts sets the server timeouts used in production.
func (s *Server) ApplyTimeouts() {
	s.ReadHeaderTimeout = 5 * time.Second
	s.ReadTimeout = 15 * time.Second
	s.WriteTimeout = 30 * time.Second
	s.IdleTimeout = 60 * time.Second
}
