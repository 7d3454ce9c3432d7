// Package api serves the attendance core over JSON HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/username/attendance-report/internal/approval"
	"github.com/username/attendance-report/internal/calendar"
	"github.com/username/attendance-report/internal/entry"
	"github.com/username/attendance-report/internal/report"
)

const (
	maxBodyBytes    = 1 << 20
	shutdownTimeout = 10 * time.Second
)

// Deps are the services exposed by the API
type Deps struct {
	Reports   *report.Aggregator
	Calendar  *calendar.Service
	Entries   *entry.Service
	Approvals *approval.Service
	Authority *approval.Authority
}

// Server is the HTTP front of the attendance services
type Server struct {
	deps   Deps
	logger *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer creates a new API server
func NewServer(deps Deps, logger *zap.Logger) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		deps:   deps,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Routes builds the router
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestSize(maxBodyBytes))

	r.Route("/api", func(r chi.Router) {
		r.Get("/reports/{employee}/{yearMonth}", s.handleMonthlyReport)
		r.Get("/daily/{date}", s.handleDailySummary)

		r.Post("/entries", s.handleSubmitEntries)
		r.Delete("/entries/{name}/{date}/{title}", s.handleDeleteEntry)

		r.Post("/approvals", s.handleSetApproval)

		r.Route("/calendar", func(r chi.Router) {
			r.Get("/classify/{date}", s.handleClassify)
			r.Get("/holidays/{year}", s.handleHolidays)
			r.Get("/overrides", s.handleListOverrides)
			r.Get("/overrides/{date}", s.handleGetOverride)
			r.Put("/overrides/{date}", s.handlePutOverride)
			r.Delete("/overrides/{date}", s.handleDeleteOverride)
		})
	})

	return r
}

// requestLogger logs one line per request with zap
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.Info("HTTP request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}

// Run serves on addr until Stop is called or SIGINT/SIGTERM arrives, then
// shuts down gracefully.
func (s *Server) Run(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("API server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Setup signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil

	case sig := <-sigChan:
		s.logger.Info("Received signal, shutting down",
			zap.String("signal", sig.String()))

	case <-s.ctx.Done():
		s.logger.Info("Server stop requested")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	s.logger.Info("API server stopped")
	return nil
}

// Stop asks a running server to shut down
func (s *Server) Stop() {
	s.cancel()
}
