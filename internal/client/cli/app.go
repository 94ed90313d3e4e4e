package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/dmitrijs2005/crowdops/internal/client/config"
	"github.com/dmitrijs2005/crowdops/internal/client/session"
	"github.com/dmitrijs2005/crowdops/internal/cryptox"
	"github.com/dmitrijs2005/crowdops/internal/logging"
	"github.com/dmitrijs2005/crowdops/internal/metrics"
	"github.com/dmitrijs2005/crowdops/internal/storage"
	"github.com/dmitrijs2005/crowdops/internal/storage/factory"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type App struct {
	config     *config.Config
	store      *session.Store
	storage    storage.Storage
	logger     logging.Logger
	reader     *bufio.Reader
	out        io.Writer
	now        func() time.Time
	httpClient *http.Client
	metricsSrv *http.Server
	sync       func() error
}

// NewApp opens the configured storage backend and builds the session store
// on top of it.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	zl, err := logging.Build(logging.Options{
		Backend:    c.LogBackend,
		Level:      c.LogLevel,
		FilePath:   c.LogFile,
		MaxSizeMB:  10,
		MaxBackups: 3,
		MaxAgeDays: 7,
	})
	if err != nil {
		return nil, err
	}

	alg, err := cryptox.ParseAlgorithm(c.Algorithm)
	if err != nil {
		return nil, err
	}
	cipher, err := cryptox.NewCipher(c.Secret, cryptox.WithAlgorithm(alg), cryptox.WithKeyCaching(c.CacheKey))
	if err != nil {
		return nil, err
	}

	st, err := factory.Open(ctx, c.StorageOptions())
	if err != nil {
		zl.Error(ctx, "error opening storage", "backend", c.StorageBackend, "err", err)
		return nil, err
	}

	reg := prometheus.NewRegistry()
	store := session.New(st, cipher,
		session.WithLogger(zl),
		session.WithMetrics(metrics.NewPrometheus(reg)),
	)

	a := newApp(store, zl, bufio.NewReader(os.Stdin), os.Stdout)
	a.config = c
	a.storage = st
	if s, ok := zl.(interface{ Sync() error }); ok {
		a.sync = s.Sync
	}

	if c.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		a.metricsSrv = &http.Server{Addr: c.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	}

	return a, nil
}

func newApp(store *session.Store, logger logging.Logger, r *bufio.Reader, out io.Writer) *App {
	return &App{
		store:      store,
		logger:     logger,
		reader:     r,
		out:        out,
		now:        time.Now,
		httpClient: newAPIClient(store),
	}
}

// Run serves metrics if configured, runs the REPL until the user exits or
// ctx is cancelled, then releases the storage backend.
func (a *App) Run(ctx context.Context) error {
	if a.metricsSrv != nil {
		go a.serveMetrics(ctx)
		defer a.stopMetrics()
	}

	a.Root(ctx)

	var err error
	if a.storage != nil {
		err = a.storage.Close()
	}
	if a.sync != nil {
		_ = a.sync()
	}
	return err
}

func (a *App) serveMetrics(ctx context.Context) {
	a.logger.Info(ctx, "serving metrics", "addr", a.metricsSrv.Addr)
	if err := a.metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		a.logger.Error(ctx, "metrics listener stopped", "err", err)
	}
}

func (a *App) stopMetrics() {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_ = a.metricsSrv.Shutdown(ctx)
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	_, ok := a.store.RetrieveToken(ctx)
	return ok
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
