package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mscarey/AuthoritySpoke-sub000/internal/auth"
	"github.com/mscarey/AuthoritySpoke-sub000/internal/storage"
)

// ServerConfig holds the server's collaborators
type ServerConfig struct {
	AuthService    auth.Service
	Provisions     storage.ProvisionRepository
	Logger         *slog.Logger
	AllowedOrigins []string
	// MaxExplanations caps the explanations listed by an exhaustive comparison.
	MaxExplanations int
	// MaxScanPairs caps the pairs compared by one casebook scan.
	MaxScanPairs int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type Server struct {
	router          *chi.Mux
	authService     auth.Service
	provisions      storage.ProvisionRepository
	logger          *slog.Logger
	maxExplanations int
	maxScanPairs    int
	readTimeout     time.Duration
	writeTimeout    time.Duration
}

func NewServer(config ServerConfig) *Server {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.MaxExplanations <= 0 {
		config.MaxExplanations = 50
	}
	if len(config.AllowedOrigins) == 0 {
		config.AllowedOrigins = []string{"http://localhost:*", "https://*"}
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(requestLogger(config.Logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	s := &Server{
		router:          r,
		authService:     config.AuthService,
		provisions:      config.Provisions,
		logger:          config.Logger,
		maxExplanations: config.MaxExplanations,
		maxScanPairs:    config.MaxScanPairs,
		readTimeout:     config.ReadTimeout,
		writeTimeout:    config.WriteTimeout,
	}
	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	// Health check
	s.router.Get("/health", s.handleHealth)

	authHandlers := auth.NewHandlers(s.authService)

	// API v1
	s.router.Route("/api/v1", func(r chi.Router) {
		// Auth routes (public)
		r.Post("/auth/register", authHandlers.Register)
		r.Post("/auth/token", authHandlers.Token)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(s.authService))

			r.Get("/auth/me", authHandlers.Me)
			r.Get("/provisions", s.handleGetProvisions)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireScope(auth.ScopeCompare))
				r.Post("/factors/compare", s.handleCompareFactors)
				r.Post("/holdings/compare", s.handleCompareHoldings)
				r.Post("/holdings/scan", s.handleScanHoldings)
			})

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireScope(auth.ScopeCombine))
				r.Post("/holdings/add", s.handleAddHoldings)
				r.Post("/holdings/union", s.handleUnionHoldings)
			})
		})
	})
}

// ServeHTTP lets the server be mounted or tested as a plain handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run serves on addr until ctx is cancelled, then drains open requests.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.readTimeout,
		WriteTimeout: s.writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Helper to send JSON responses
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
