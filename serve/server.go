// Package serve は学習済みモデルを HTTP API として公開します。
package serve

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/YuminosukeSato/hpml/pkg/errors"
	"github.com/YuminosukeSato/hpml/pkg/log"
	"github.com/YuminosukeSato/hpml/scoring"
)

// DefaultAddr は待ち受けアドレスの既定値
const DefaultAddr = ":8000"

// maxBodyBytes は /predict のリクエスト本文の上限
const maxBodyBytes = 1 << 20

// Config はサーバーの設定です。
type Config struct {
	Addr   string
	Scorer *scoring.Scorer
	Logger log.Logger
}

// Server は起動時に読み込んだ Scorer で予測を返します。
type Server struct {
	addr   string
	scorer *scoring.Scorer
	logger log.Logger
}

// NewServer は Server を作成します。
func NewServer(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Logger == nil {
		cfg.Logger = log.GetLoggerWithName("serve")
	}
	return &Server{addr: cfg.Addr, scorer: cfg.Scorer, logger: cfg.Logger}
}

// Handler はルーティング済みの http.Handler を返します。
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		s.requestLogger,
		middleware.Recoverer,
	)
	r.Get("/health", s.handleHealth)
	r.Get("/model-info", s.handleModelInfo)
	r.Post("/predict", s.handlePredict)
	return r
}

// Serve はサーバーを起動し、ctx がキャンセルされるまで待ちます。
func (s *Server) Serve(ctx context.Context) error {
	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("Starting model server", "addr", s.addr, log.ModelVersionKey, s.scorer.Metadata().ModelVersion)

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return errors.Wrap(err, "server error")
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("Shutting down model server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"request_id", middleware.GetReqID(r.Context()),
			log.DurationMsKey, time.Since(start).Milliseconds(),
		)
	})
}
