package di

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/LeJamon/goMarketd/internal/config"
	"github.com/LeJamon/goMarketd/internal/core/ledger"
	"github.com/LeJamon/goMarketd/internal/core/query"
	"github.com/LeJamon/goMarketd/internal/core/tx"
	"github.com/LeJamon/goMarketd/internal/core/tx/admin"
	_ "github.com/LeJamon/goMarketd/internal/core/tx/all"
	"github.com/LeJamon/goMarketd/internal/metrics"
	"github.com/LeJamon/goMarketd/internal/payout"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// shutdownTimeout bounds the graceful HTTP shutdown
const shutdownTimeout = 10 * time.Second

// App is a running marketd node.
type App struct {
	container *Container
	provider  *Provider
	config    *config.Config
	log       *zap.Logger
}

// NewApp registers every service for cfg. Nothing is opened until Start.
func NewApp(ctx context.Context, cfg *config.Config, log *zap.Logger, version string) *App {
	if log == nil {
		log = zap.NewNop()
	}
	c := New()
	p := NewProvider(ctx, c, cfg, log, version)
	p.RegisterAll()
	return &App{container: c, provider: p, config: cfg, log: log}
}

// Container exposes the service container, mainly for tests and tools.
func (a *App) Container() *Container {
	return a.container
}

// Start builds the engine and everything behind it, installs the
// configured owner on a fresh ledger and re-queues payouts left pending
// by a previous run.
func (a *App) Start(ctx context.Context) error {
	engine, err := a.provider.Engine()
	if err != nil {
		return err
	}
	if err := a.bootstrapOwner(engine); err != nil {
		return err
	}

	l, err := Resolve[*ledger.Ledger](a.container, ServiceLedger)
	if err != nil {
		return err
	}
	m, err := Resolve[*metrics.Metrics](a.container, ServiceMetrics)
	if err != nil {
		return err
	}
	m.RegisterGauge("marketd_entry_cache_hits", "Ledger entry cache hits since start.", func() float64 {
		hits, _ := l.Cache().Stats()
		return float64(hits)
	})
	m.RegisterGauge("marketd_entry_cache_misses", "Ledger entry cache misses since start.", func() float64 {
		_, misses := l.Cache().Stats()
		return float64(misses)
	})

	d, err := Resolve[*payout.Dispatcher](a.container, ServiceDispatcher)
	if err != nil {
		return err
	}
	n, err := d.Resume(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		a.log.Info("resumed pending payouts", zap.Int("count", n))
	}
	return nil
}

func (a *App) bootstrapOwner(engine *tx.Engine) error {
	owner := a.config.Market.Owner
	if owner == "" {
		return nil
	}
	current, err := query.New(engine.View()).Owner()
	if err != nil {
		return err
	}
	if current != "" {
		if current != owner {
			a.log.Info("ledger already owned", zap.String("owner", current))
		}
		return nil
	}

	res := engine.Apply(admin.NewInit(owner, owner))
	switch res.Result {
	case tx.TesSUCCESS:
		a.log.Info("contract initialized", zap.String("owner", owner))
	case tx.TecALREADY_EXISTS:
		// Ownership was renounced earlier; Init never runs twice.
	default:
		return fmt.Errorf("init contract: %s", res.Result)
	}
	return nil
}

// Run starts the node and serves HTTP until ctx is cancelled, then shuts
// everything down.
func (a *App) Run(ctx context.Context) error {
	if err := a.Start(ctx); err != nil {
		_ = a.Close()
		return err
	}

	handler, err := Resolve[http.Handler](a.container, ServiceHTTPHandler)
	if err != nil {
		_ = a.Close()
		return err
	}
	sc := a.config.Server
	srv := &http.Server{
		Addr:         sc.Addr,
		Handler:      handler,
		ReadTimeout:  sc.ReadTimeout,
		WriteTimeout: sc.WriteTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.log.Info("listening",
			zap.String("addr", sc.Addr),
			zap.Bool("websocket", sc.WebSocket),
			zap.Bool("metrics", sc.Metrics),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		a.log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	if cerr := a.Close(); cerr != nil {
		a.log.Error("close failed", zap.Error(cerr))
		if err == nil {
			err = cerr
		}
	}
	return err
}

// Close releases every service that was built.
func (a *App) Close() error {
	return a.container.Close()
}
