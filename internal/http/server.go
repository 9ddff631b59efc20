// Package http exposes the dashboard API over JSON. Handlers stay thin:
// window resolution, filtering and aggregation live in the core and
// services packages; this layer does auth, decoding, caching and status
// codes.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"saldo/internal/auth"
	"saldo/internal/billing"
	"saldo/internal/cache"
	"saldo/internal/importer"
	"saldo/internal/middleware/ratelimit"
	"saldo/internal/middleware/trace"
	"saldo/internal/services"
	"saldo/internal/storage"
)

// Store is everything the API needs from persistence. Satisfied by
// *storage.SQLiteRepository.
type Store interface {
	services.TransactionStore
	services.GoalStore
	GetAccount(ctx context.Context, ownerKey string) (*storage.Account, error)
	ListAccounts(ctx context.Context) ([]storage.Account, error)
	UpsertAccount(ctx context.Context, a storage.Account) error
}

// Deps carries the collaborators the server wires together.
type Deps struct {
	Verifier   *auth.Verifier
	Store      Store
	Dashboards *services.DashboardService
	Reports    *services.ReportService
	Plan       billing.Plan
	Rules      *importer.RuleSet // optional OFX categorization rules
	CacheTTL   time.Duration
}

type Server struct {
	http.Server

	verifier   *auth.Verifier
	store      Store
	dashboards *services.DashboardService
	reports    *services.ReportService
	plan       billing.Plan
	rules      *importer.RuleSet

	limiter *ratelimit.Limiter
	tracer  *trace.Middleware

	dashboardCache *cache.LRUCache[dashboardResponse]
	cacheManager   *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// server.
func NewServer(addr string, deps Deps) *Server {
	mux := http.NewServeMux()

	ttl := deps.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		verifier:       deps.Verifier,
		store:          deps.Store,
		dashboards:     deps.Dashboards,
		reports:        deps.Reports,
		plan:           deps.Plan,
		rules:          deps.Rules,
		limiter:        ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		tracer:         trace.NewMiddleware(extractClientIP),
		dashboardCache: cache.NewLRUCache[dashboardResponse](200, ttl),
		cacheManager:   cache.NewManager(),
	}

	s.cacheManager.Register(s.dashboardCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /api/dashboard", s.withSubscription(s.handleDashboard))

	mux.HandleFunc("GET /api/transactions", s.withSubscription(s.handleListTransactions))
	mux.HandleFunc("POST /api/transactions", s.withSubscription(s.handleCreateTransaction))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.withSubscription(s.handleDeleteTransaction))

	mux.HandleFunc("GET /api/goals", s.withSubscription(s.handleGetGoal))
	mux.HandleFunc("PUT /api/goals", s.withSubscription(s.handleSaveGoal))

	mux.HandleFunc("GET /api/reports/export", s.withSubscription(s.handleExportReport))
	mux.HandleFunc("POST /api/reports/share", s.withSubscription(s.handleShareReport))

	mux.HandleFunc("POST /api/import/ofx", s.withSubscription(s.handleImportOFX))

	mux.HandleFunc("GET /api/subscription", s.withAuth(s.handleSubscription))
	mux.HandleFunc("GET /api/admin/accounts", s.withAdmin(s.handleListAccounts))

	// Mutations go through the per-client limiter; reads stay unthrottled.
	limited := s.limiter.Middleware(extractClientIP, nil)
	s.Server.Handler = s.tracer.Middleware(s.withSecurityHeaders(onMutation(limited, mux)))

	return s
}

// onMutation applies the wrapper only to state-changing methods.
func onMutation(wrap func(http.Handler) http.Handler, next http.Handler) http.Handler {
	wrapped := wrap(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodDelete:
			wrapped.ServeHTTP(w, r)
		default:
			next.ServeHTTP(w, r)
		}
	})
}

func (s *Server) withSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// Shutdown stops background routines and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		s.cacheManager.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
