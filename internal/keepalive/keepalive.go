// Package keepalive hosts the incidental HTTP surface: a liveness text
// endpoint, Prometheus metrics, and a periodic self-ping that keeps a
// free-tier host from idling the process out.
package keepalive

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"log/slog"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"refbot/core/logger"
	"refbot/core/metrics"
)

// DefaultPingInterval matches the idle window of free-tier hosts.
const DefaultPingInterval = 14 * time.Minute

// Server serves the liveness endpoints and runs the self-ping loop.
type Server struct {
	addr         string
	publicURL    string
	pingInterval time.Duration
	client       *http.Client
}

// New constructs the liveness shim. publicURL may be empty, which
// disables the self-ping loop (local polling runs do not need it).
func New(addr, publicURL string, pingInterval time.Duration) *Server {
	if pingInterval <= 0 {
		pingInterval = DefaultPingInterval
	}
	return &Server{
		addr:         addr,
		publicURL:    publicURL,
		pingInterval: pingInterval,
		client:       &http.Client{Timeout: 10 * time.Second},
	}
}

// Handler builds the HTTP mux for the liveness surface.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, "Bot is running!")
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// Run serves the endpoints and pings the public URL until ctx is done.
// Ping failures are logged and swallowed; they never affect the bot.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.Handler()}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "keepalive", "listen", slog.String("listen", s.addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	if s.publicURL != "" {
		go s.pingLoop(ctx)
	}

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		return err
	}
}

func (s *Server) pingLoop(ctx context.Context) {
	ticker := time.NewTicker(s.pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.ping(ctx)
		}
	}
}

func (s *Server) ping(ctx context.Context) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.publicURL, nil)
	if err != nil {
		logger.Warn(ctx, "keepalive", "ping",
			slog.String("status", "fail"),
			slog.String("err", err.Error()),
		)
		metrics.KeepAlivePings.WithLabelValues("fail").Inc()
		return
	}
	resp, err := s.client.Do(req)
	if err != nil {
		logger.Warn(ctx, "keepalive", "ping",
			slog.String("status", "fail"),
			slog.String("err", err.Error()),
		)
		metrics.KeepAlivePings.WithLabelValues("fail").Inc()
		return
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	logger.Debug(ctx, "keepalive", "ping",
		slog.String("status", "ok"),
		slog.Int("http_code", resp.StatusCode),
	)
	metrics.KeepAlivePings.WithLabelValues("ok").Inc()
}
