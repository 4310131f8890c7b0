package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"fintrack/internal/auth"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/middleware/ratelimit"
	"fintrack/internal/middleware/security"
	"fintrack/internal/middleware/trace"
	"fintrack/internal/services"
	"fintrack/internal/store"
)

const sessionCookieName = "fintrack_session"

type contextKey string

const userContextKey contextKey = "user"

// Server is the JSON API front of the application. It embeds
// http.Server so callers can ListenAndServe and Shutdown it directly.
type Server struct {
	http.Server

	repo     store.Repository
	authSvc  *services.AuthService
	txSvc    *services.TransactionService
	sessions *auth.Sessions

	authLimiter  *ratelimit.Limiter
	tracer       *trace.Middleware
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// server.
func NewServer(addr string, repo store.Repository, authSvc *services.AuthService, txSvc *services.TransactionService, sessions *auth.Sessions) *Server {
	mux := http.NewServeMux()

	s := &Server{
		repo:     repo,
		authSvc:  authSvc,
		txSvc:    txSvc,
		sessions: sessions,
		authLimiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: 10,
			CleanupInterval:   5 * time.Minute,
		}),
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	// Credential endpoints get a tighter per-IP limit than the rest of
	// the API.
	limited := s.authLimiter.Middleware(extractClientIP, nil)
	mux.Handle("POST /api/register", limited(http.HandlerFunc(s.handleRegister)))
	mux.Handle("POST /api/login", limited(http.HandlerFunc(s.handleLogin)))
	mux.HandleFunc("POST /api/logout", s.handleLogout)

	mux.Handle("GET /api/me", s.requireAuth(s.handleMe))

	mux.Handle("POST /api/accounts", s.requireAuth(s.handleCreateAccount))
	mux.Handle("GET /api/accounts", s.requireAuth(s.handleListAccounts))
	mux.Handle("GET /api/accounts/{id}", s.requireAuth(s.handleGetAccount))
	mux.Handle("PUT /api/accounts/{id}/balance", s.requireAuth(s.handleUpdateAccountBalance))

	mux.Handle("POST /api/categories", s.requireAuth(s.handleCreateCategory))
	mux.Handle("GET /api/categories", s.requireAuth(s.handleListCategories))

	mux.Handle("POST /api/transactions", s.requireAuth(s.handleCreateTransaction))
	mux.Handle("GET /api/transactions", s.requireAuth(s.handleTransactionFeed))
	mux.Handle("GET /api/transactions/recent", s.requireAuth(s.handleRecentTransactions))

	mux.Handle("POST /api/budgets", s.requireAuth(s.handleCreateBudget))
	mux.Handle("GET /api/budgets", s.requireAuth(s.handleListBudgets))
	mux.Handle("GET /api/budgets/progress", s.requireAuth(s.handleBudgetProgress))

	mux.Handle("GET /api/summary", s.requireAuth(s.handleSummary))

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	s.tracer = trace.NewMiddleware(extractClientIP)
	handler := headers.Middleware(s.tracer.Middleware(mux))

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

// Shutdown gracefully shuts down the server and its cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.authLimiter != nil {
			s.authLimiter.Stop()
		}
		if s.tracer != nil {
			metrics := s.tracer.GetMetrics()
			slog.InfoContext(ctx, "HTTP server stopping",
				"total_requests", metrics.TotalRequests,
				"avg_response_us", metrics.AverageResponseTime)
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// requireAuth resolves the session cookie to a user and stores it in
// the request context. Requests without a valid session get a 401.
func (s *Server) requireAuth(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		session, ok := s.sessions.Validate(cookie.Value)
		if !ok {
			writeError(w, http.StatusUnauthorized, "session expired or invalid")
			return
		}

		user, err := s.repo.GetUser(r.Context(), session.UserID)
		if err != nil {
			slog.WarnContext(r.Context(), "Session points at missing user", log.FieldUserID, session.UserID)
			writeError(w, http.StatusUnauthorized, "session expired or invalid")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next(w, r.WithContext(ctx))
	})
}

// currentUser returns the user requireAuth stored in the context.
func currentUser(r *http.Request) core.User {
	user, _ := r.Context().Value(userContextKey).(core.User)
	return user
}

// extractClientIP prefers proxy headers over the socket address.
func extractClientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
