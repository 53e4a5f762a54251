package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"fintrack/internal/auth"
	"fintrack/internal/log"
	"fintrack/internal/middleware/ratelimit"
	"fintrack/internal/middleware/security"
	"fintrack/internal/middleware/trace"
	"fintrack/internal/services"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services are the application services the handlers delegate to.
type Services struct {
	Auth         *services.AuthService
	Transactions *services.TransactionService
	Categories   *services.CategoryService
	Budgets      *services.BudgetService
	Summary      *services.SummaryService
}

type Options struct {
	Addr           string
	CORSOrigins    []string
	RateLimit      int // requests per minute per client IP
	ReadTimeout    time.Duration
	RequestTimeout time.Duration
}

// Server wraps http.Server with the application's middleware and handlers.
type Server struct {
	http.Server

	svc      Services
	issuer   *auth.Issuer
	pinger   Pinger
	logger   *log.Logger
	limiter  *ratelimit.Limiter
	detector *security.Detector
	tracer   *trace.Middleware

	requestTimeout time.Duration
	startedAt      time.Time
	now            func() time.Time
	shutdownOnce   sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(opts Options, svc Services, issuer *auth.Issuer, pinger Pinger, logger *log.Logger) *Server {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = 15 * time.Second
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	s := &Server{
		svc:            svc,
		issuer:         issuer,
		pinger:         pinger,
		logger:         logger,
		limiter:        ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimit}),
		detector:       security.NewDetector(),
		requestTimeout: opts.RequestTimeout,
		startedAt:      time.Now(),
		now:            time.Now,
	}
	s.tracer = trace.NewMiddleware(logger, s.detector.ExtractClientIP)

	mux := http.NewServeMux()
	s.routes(mux)

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           s.chain(mux, opts),
		ReadTimeout:       opts.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      opts.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.Handle("POST /api/auth/register", s.public(s.handleRegister))
	mux.Handle("POST /api/auth/login", s.public(s.handleLogin))

	mux.Handle("GET /api/auth/user", s.protected(s.handleGetUser))
	mux.Handle("PUT /api/auth/user", s.protected(s.handleUpdateUser))
	mux.Handle("PUT /api/auth/password", s.protected(s.handleChangePassword))

	mux.Handle("GET /api/transactions", s.protected(s.handleListTransactions))
	mux.Handle("POST /api/transactions", s.protected(s.handleCreateTransaction))
	mux.Handle("PUT /api/transactions/{id}", s.protected(s.handleUpdateTransaction))
	mux.Handle("DELETE /api/transactions/{id}", s.protected(s.handleDeleteTransaction))

	mux.Handle("GET /api/categories", s.protected(s.handleListCategories))
	mux.Handle("POST /api/categories", s.protected(s.handleCreateCategory))

	mux.Handle("GET /api/budgets", s.protected(s.handleListBudgets))
	mux.Handle("POST /api/budgets", s.protected(s.handleCreateBudget))
	mux.Handle("GET /api/budgets/overview", s.protected(s.handleBudgetOverview))
	mux.Handle("PUT /api/budgets/{id}", s.protected(s.handleUpdateBudget))
	mux.Handle("DELETE /api/budgets/{id}", s.protected(s.handleDeleteBudget))

	mux.Handle("GET /api/stats/summary", s.protectedAs(log.ComponentSummary, s.handleStatsSummary))
	mux.Handle("GET /api/stats/categories", s.protectedAs(log.ComponentSummary, s.handleStatsCategories))
	mux.Handle("GET /api/stats/monthly", s.protectedAs(log.ComponentSummary, s.handleStatsMonthly))
	mux.Handle("GET /api/dashboard", s.protectedAs(log.ComponentSummary, s.handleDashboard))

	mux.Handle("GET /api/export/csv", s.protectedAs(log.ComponentExport, s.handleExportCSV))
	mux.Handle("GET /api/export/xlsx", s.protectedAs(log.ComponentExport, s.handleExportXLSX))

	mux.Handle("/api/", s.public(func(w http.ResponseWriter, r *http.Request) {
		NotFoundError("Not found").Write(w)
	}))
}

// chain wraps the mux, outermost first: tracing, request logger, security
// headers, CORS, rate limiting, probe detection.
func (s *Server) chain(mux http.Handler, opts Options) http.Handler {
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	cors := security.NewCORS(opts.CORSOrigins)

	var h http.Handler = mux
	h = s.withProbeDetection(h)
	h = s.limiter.Middleware(s.detector.ExtractClientIP)(h)
	h = cors.Middleware(h)
	h = headers.Middleware(h)
	h = trace.LoggerMiddleware(s.logger)(h)
	h = s.tracer.Middleware(h)
	return h
}

// public applies the per-request timeout and disables caching of API responses.
func (s *Server) public(h http.HandlerFunc) http.Handler {
	return security.NoStore(s.withTimeout(h))
}

// protected is public plus the bearer-token gate.
func (s *Server) protected(h http.HandlerFunc) http.Handler {
	return security.NoStore(auth.Middleware(s.issuer)(s.withTimeout(h)))
}

// protectedAs is protected with the request logger re-tagged as component.
func (s *Server) protectedAs(component string, h http.HandlerFunc) http.Handler {
	return log.ComponentMiddleware(component)(s.protected(h))
}

func (s *Server) withTimeout(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
		defer cancel()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) withProbeDetection(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.detector.DetectSuspiciousRequest(r) {
			log.FromContext(r.Context()).WithComponent(log.ComponentSecurity).WarnContext(r.Context(),
				"Suspicious request",
				log.FieldClientIP, s.detector.ExtractClientIP(r),
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path,
				log.FieldUserAgent, r.Header.Get("User-Agent"))
		}
		next.ServeHTTP(w, r)
	})
}

// Shutdown stops background workers and gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

// Metrics is a point-in-time view of the middleware counters.
type Metrics struct {
	Requests  trace.Metrics
	RateLimit ratelimit.Metrics
	Detection security.DetectionMetrics
	Uptime    time.Duration
}

func (s *Server) Metrics() Metrics {
	return Metrics{
		Requests:  s.tracer.GetMetrics(),
		RateLimit: s.limiter.GetMetrics(),
		Detection: s.detector.GetMetrics(),
		Uptime:    s.now().Sub(s.startedAt),
	}
}
