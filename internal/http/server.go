package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"moneebunny/internal/middleware/ratelimit"
	"moneebunny/internal/middleware/security"
	"moneebunny/internal/middleware/trace"
)

// NewRouter wires the full API surface. Auth endpoints are rate
// limited per client IP; everything else sits behind the bearer-token
// middleware.
func NewRouter(h *Handlers, auth *Auth, limiter *ratelimit.Limiter) http.Handler {
	r := chi.NewRouter()

	detector := security.NewDetector()
	tracer := trace.NewMiddleware(h.logger, detector.ExtractClientIP)

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(tracer.Middleware)
	r.Use(detector.Middleware(h.logger))
	r.Use(security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, apiResponse{Success: true, Message: "ok"})
		})

		r.Route("/auth", func(r chi.Router) {
			r.Use(limiter.Middleware(detector.ExtractClientIP, func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Retry-After", "60")
				writeError(w, http.StatusTooManyRequests, "too many requests")
			}))
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
			r.Post("/logout", h.Logout)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/users/{id}", h.GetUser)
			r.Put("/users/{id}", h.UpdateUser)

			r.Get("/transactions", h.ListTransactions)
			r.Post("/transactions", h.CreateTransaction)
			r.Get("/transactions/{id}", h.GetTransaction)
			r.Put("/transactions/{id}", h.UpdateTransaction)
			r.Delete("/transactions/{id}", h.DeleteTransaction)

			r.Get("/budgets", h.ListBudgets)
			r.Post("/budgets", h.CreateBudget)
			r.Get("/budgets/{id}", h.GetBudget)
			r.Put("/budgets/{id}", h.UpdateBudget)
			r.Delete("/budgets/{id}", h.DeleteBudget)

			r.Get("/reports/daily", h.DailyReport)
			r.Get("/reports/monthly", h.MonthlyReport)
			r.Get("/reports/budgets", h.BudgetReports)
		})
	})

	return r
}

// Server wraps http.Server with the timeouts and shutdown behavior the
// binaries expect.
type Server struct {
	srv    *http.Server
	logger *slog.Logger
}

func NewServer(addr string, handler http.Handler, logger *slog.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:           addr,
			Handler:        handler,
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   10 * time.Second,
			IdleTimeout:    60 * time.Second,
			MaxHeaderBytes: 1 << 16, // 64KB
		},
		logger: logger,
	}
}

// Run serves until ctx is cancelled, then drains connections.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("HTTP server stopped")
	return <-errCh
}
