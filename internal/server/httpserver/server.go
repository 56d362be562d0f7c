// Package httpserver exposes the sync server over HTTP.
//
// Clients push updates with GET /sync/{id}?diary=<base64 update>, the same
// URL form the diary client builds, so plain access logs double as a backup.
package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/sleepdiary/internal/analysis"
	"github.com/dmitrijs2005/sleepdiary/internal/logging"
	"github.com/dmitrijs2005/sleepdiary/internal/models"
)

// DiaryService is the business logic the handlers call.
type DiaryService interface {
	Create(ctx context.Context) (string, error)
	Receive(ctx context.Context, id string, payloads []string) (int, error)
	Snapshot(ctx context.Context, id string) (*models.Diary, error)
	Analysis(ctx context.Context, id string) (analysis.Report, error)
}

type HTTPServer struct {
	address         string
	publicURL       string
	shutdownTimeout time.Duration
	diaries         DiaryService
	logger          logging.Logger
	now             func() time.Time
}

func NewHTTPServer(address, publicURL string, shutdownTimeout time.Duration, l logging.Logger, ds DiaryService) *HTTPServer {
	return &HTTPServer{
		address:         address,
		publicURL:       publicURL,
		shutdownTimeout: shutdownTimeout,
		diaries:         ds,
		logger:          l.With("module", "http_server"),
		now:             time.Now,
	}
}

// Handler returns the routed handler wrapped in request logging.
func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /diaries", s.createDiary)
	mux.HandleFunc("GET /sync/{id}", s.sync)
	mux.HandleFunc("GET /diaries/{id}", s.getDiary)
	mux.HandleFunc("GET /diaries/{id}/analysis", s.getAnalysis)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return s.withRequestLog(mux)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.serve(ctx, listen)
}

func (s *HTTPServer) serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	stopped := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
		defer cancel()
		stopped <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-stopped
}
