// Package server renders the carousel in browsers. Every browser connects
// over a websocket, receives the view model and the incremental changes the
// controller makes to it, and reports navigation, presence hints and media
// playback back to the controller. A small REST API mirrors the controls.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/llehouerou/carousel/internal/carousel"
	"github.com/llehouerou/carousel/internal/media"
	"github.com/llehouerou/carousel/internal/slide"
)

const shutdownTimeout = 10 * time.Second

// ErrShutdown marks a Run error raised while stopping the server.
var ErrShutdown = errors.New("graceful shutdown")

// Controller is the part of carousel.Controller the server drives.
type Controller interface {
	Next() error
	Prev() error
	Navigate(index int) error
	TogglePause() error
	Key(k carousel.Key, inView bool) error
	Hint(h carousel.Hint) error
	MediaEvent(index int, ev media.Event) error
	EmbedReady(index int) error
	EmbedState(index, code int) error
	Snapshot() carousel.State
	Subscribe() *carousel.Subscription
	Slides() []slide.Descriptor
	Interval() time.Duration
}

// Config holds server configuration.
type Config struct {
	Listen         string
	MediaDir       string   // served under /media/ when set
	AllowedOrigins []string // CORS origins for /api, empty allows any
	Title          string
}

// Server serves the page, the websocket and the REST API.
type Server struct {
	cfg        Config
	ctrl       Controller
	remote     *Remote
	log        *slog.Logger
	router     chi.Router
	httpServer *http.Server
}

// New creates a server. remote must be the surface ctrl renders to.
func New(cfg Config, ctrl Controller, remote *Remote, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		cfg:    cfg,
		ctrl:   ctrl,
		remote: remote,
		log:    log,
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/", s.handlePage)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(staticFS)))
	if s.cfg.MediaDir != "" {
		r.Handle("/media/*", http.StripPrefix("/media/", http.FileServer(http.Dir(s.cfg.MediaDir))))
	}
	r.Get("/ws", s.handleWebSocket)

	corsOpts := cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}
	if len(corsOpts.AllowedOrigins) == 0 {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(corsOpts))
		s.registerAPI(r)
	})

	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Run forwards controller state to the browsers and serves HTTP until ctx
// is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	go s.forward(ctx, s.ctrl.Subscribe())

	s.httpServer = &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server: listening", "addr", s.cfg.Listen)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("server: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.log.Warn("server: graceful shutdown failed", "error", err)
		_ = s.httpServer.Close()
		return fmt.Errorf("%w: %w", ErrShutdown, err)
	}
	s.log.Info("server: stopped")
	return nil
}

// forward pushes every published controller state to the browsers.
func (s *Server) forward(ctx context.Context, sub *carousel.Subscription) {
	s.remote.SetState(s.ctrl.Snapshot(), "")
	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.Done:
			return
		case e := <-sub.StateChanged:
			s.remote.SetState(e.State, suspendedText(e.Suspended))
		}
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Debug("server: request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
