package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"igresolve/pkg/config"
	"igresolve/pkg/instagram"
	"igresolve/pkg/logger"
	"igresolve/pkg/resolver"
)

// ContentResolver resolves a content URL into direct media URLs
type ContentResolver interface {
	Resolve(ctx context.Context, rawURL string, hint instagram.ContentKind) (*resolver.Result, error)
}

// Server is the HTTP boundary of the resolution gateway
type Server struct {
	router    chi.Router
	http      *http.Server
	resolver  ContentResolver
	streamer  *http.Client
	keepAlive *keepAlivePinger
	cfg       *config.ServerConfig
	logger    logger.Logger
}

// New builds a Server with its routes mounted. The stream client is separate
// from the resolver's outbound clients because media downloads run far longer
// than page fetches.
func New(cfg *config.ServerConfig, res ContentResolver, log logger.Logger) *Server {
	if log == nil {
		log = logger.GetLogger()
	}

	s := &Server{
		resolver: res,
		streamer: &http.Client{Timeout: 5 * time.Minute},
		cfg:      cfg,
		logger:   log,
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/resolve", s.handleResolve)
		r.Get("/media", s.handleMedia)
		r.Get("/health", s.handleHealth)
	})
	r.Get("/", s.handleHealth)

	s.router = r
	s.http = &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if cfg.KeepAliveEnabled {
		s.keepAlive = newKeepAlivePinger(cfg.KeepAliveSchedule, cfg.KeepAliveURL, log)
	}

	return s
}

// Handler exposes the mounted router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the HTTP server until the context is cancelled, then shuts down
// gracefully
func (s *Server) Start(ctx context.Context) error {
	if s.keepAlive != nil {
		s.keepAlive.Start()
		defer s.keepAlive.Stop()
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.InfoWithFields("server listening", map[string]interface{}{
			"addr": s.cfg.ListenAddr,
		})
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.logger.Info("shutting down server")
	return s.http.Shutdown(shutdownCtx)
}

// requestLogger logs each request after it completes
func requestLogger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.LogRequest(r.Method, r.URL.Path, ww.Status(),
				float64(time.Since(start).Microseconds())/1000.0)
		})
	}
}
