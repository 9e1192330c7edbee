package di

import (
	"context"
	"net/http"
	"time"

	"github.com/LeJamon/goMarketd/internal/config"
	"github.com/LeJamon/goMarketd/internal/core/ledger"
	"github.com/LeJamon/goMarketd/internal/core/tx"
	"github.com/LeJamon/goMarketd/internal/events"
	"github.com/LeJamon/goMarketd/internal/metrics"
	"github.com/LeJamon/goMarketd/internal/payout"
	"github.com/LeJamon/goMarketd/internal/rpc"
	"github.com/LeJamon/goMarketd/internal/rpc/rpc_types"
	"github.com/LeJamon/goMarketd/internal/storage/database"
	"github.com/LeJamon/goMarketd/internal/storage/database/backends"
	"github.com/LeJamon/goMarketd/internal/storage/relationaldb"
	"go.uber.org/zap"
)

// Database names opened under the storage root
const (
	stateDB  = "state"
	eventsDB = "events"
)

// Provider configures and registers services in the container.
type Provider struct {
	ctx       context.Context
	container *Container
	config    *config.Config
	log       *zap.Logger
	version   string
	started   time.Time
}

// NewProvider creates a new service provider. ctx bounds background work
// started by the services, such as payout workers.
func NewProvider(ctx context.Context, container *Container, cfg *config.Config, log *zap.Logger, version string) *Provider {
	if log == nil {
		log = zap.NewNop()
	}
	return &Provider{
		ctx:       ctx,
		container: container,
		config:    cfg,
		log:       log,
		version:   version,
		started:   time.Now(),
	}
}

// RegisterAll registers all services.
func (p *Provider) RegisterAll() {
	p.container.Register(ServiceConfig, p.config)
	p.container.Register(ServiceLogger, p.log)

	p.registerStorageBuilders()
	p.registerEventBuilders()
	p.registerPayoutBuilders()
	p.registerLedgerBuilders()
	p.registerRPCBuilders()
}

// registerStorageBuilders registers the key-value store, the ledger on top
// of it, and the payout journal.
func (p *Provider) registerStorageBuilders() {
	p.container.RegisterBuilder(ServiceStorage, func(c *Container) (interface{}, error) {
		db := p.config.Database
		mgr, err := backends.NewManager(db.Backend, db.Path, db.CacheSize)
		if err != nil {
			return nil, err
		}
		c.OnClose(ServiceStorage, mgr.Close)
		p.log.Info("storage opened", zap.String("backend", db.Backend), zap.String("path", db.Path))
		return mgr, nil
	})

	p.container.RegisterBuilder(ServiceLedger, func(c *Container) (interface{}, error) {
		mgr, err := Resolve[database.Manager](c, ServiceStorage)
		if err != nil {
			return nil, err
		}
		db, err := mgr.OpenDB(stateDB)
		if err != nil {
			return nil, err
		}
		return ledger.New(db, p.config.Database.EntryCache)
	})

	p.container.RegisterBuilder(ServiceJournal, func(c *Container) (interface{}, error) {
		jc := p.config.Journal
		if jc.Driver == "none" {
			return nil, nil
		}
		cfg := relationaldb.NewConfig()
		cfg.Driver = jc.Driver
		cfg.DSN = jc.DSN
		if jc.MaxOpenConns > 0 {
			cfg.MaxOpenConns = jc.MaxOpenConns
			if cfg.MaxIdleConns > cfg.MaxOpenConns {
				cfg.MaxIdleConns = cfg.MaxOpenConns
			}
		}
		j, err := relationaldb.Open(p.ctx, cfg)
		if err != nil {
			return nil, err
		}
		c.OnClose(ServiceJournal, j.Close)
		return relationaldb.PayoutRepository(j), nil
	})
}

// registerEventBuilders registers the event log and its mirrors.
func (p *Provider) registerEventBuilders() {
	p.container.RegisterBuilder(ServiceMetrics, func(c *Container) (interface{}, error) {
		return metrics.New(), nil
	})

	p.container.RegisterBuilder(ServiceEventHub, func(c *Container) (interface{}, error) {
		if !p.config.Server.WebSocket {
			return nil, nil
		}
		hub := events.NewHub(p.config.Server.SendQueueLimit, p.log.Named("ws"))
		c.OnClose(ServiceEventHub, func() error { hub.Close(); return nil })
		return hub, nil
	})

	p.container.RegisterBuilder(ServiceEventNATS, func(c *Container) (interface{}, error) {
		ec := p.config.Events
		if ec.NATSURL == "" {
			return nil, nil
		}
		m, err := events.ConnectNATS(p.ctx, events.NATSConfig{
			URL:            ec.NATSURL,
			Stream:         ec.Stream,
			Subject:        ec.Subject,
			ConnectionName: ec.ConnName,
			MaxReconnects:  -1,
			ReconnectWait:  2 * time.Second,
		}, p.log.Named("nats"))
		if err != nil {
			return nil, err
		}
		c.OnClose(ServiceEventNATS, func() error { m.Close(); return nil })
		return m, nil
	})

	p.container.RegisterBuilder(ServiceEventLog, func(c *Container) (interface{}, error) {
		var primary events.Sink = events.NewMemorySink()
		if p.config.Events.Persist {
			mgr, err := Resolve[database.Manager](c, ServiceStorage)
			if err != nil {
				return nil, err
			}
			db, err := mgr.OpenDB(eventsDB)
			if err != nil {
				return nil, err
			}
			store, err := events.NewStoreSink(db)
			if err != nil {
				return nil, err
			}
			primary = store
		}

		fanout := events.NewFanout(primary, p.log.Named("events"))
		m, err := Resolve[*metrics.Metrics](c, ServiceMetrics)
		if err != nil {
			return nil, err
		}
		fanout.AddMirror(m)

		hub, err := Resolve[*events.Hub](c, ServiceEventHub)
		if err != nil {
			return nil, err
		}
		if hub != nil {
			fanout.AddMirror(hub)
			m.RegisterGauge(metrics.WebsocketClientsName, "Connected websocket event subscribers.",
				func() float64 { return float64(hub.Clients()) })
		}

		nm, err := Resolve[*events.NATSMirror](c, ServiceEventNATS)
		if err != nil {
			return nil, err
		}
		if nm != nil {
			fanout.AddMirror(nm)
		}
		return events.Sink(fanout), nil
	})
}

// registerPayoutBuilders registers the payer and the dispatcher that
// executes payment instructions.
func (p *Provider) registerPayoutBuilders() {
	p.container.RegisterBuilder(ServicePayer, func(c *Container) (interface{}, error) {
		pc := p.config.Payout
		if pc.WebhookURL != "" {
			return payout.Payer(payout.NewWebhookPayer(pc.WebhookURL, pc.WebhookTimeout)), nil
		}
		return payout.Payer(payout.NewJournalPayer(p.log.Named("payout"))), nil
	})

	p.container.RegisterBuilder(ServiceDispatcher, func(c *Container) (interface{}, error) {
		payer, err := Resolve[payout.Payer](c, ServicePayer)
		if err != nil {
			return nil, err
		}
		journal, err := Resolve[relationaldb.PayoutRepository](c, ServiceJournal)
		if err != nil {
			return nil, err
		}
		m, err := Resolve[*metrics.Metrics](c, ServiceMetrics)
		if err != nil {
			return nil, err
		}
		pc := p.config.Payout
		d := payout.NewDispatcher(p.ctx, payer, journal, payout.Config{
			Workers:         pc.Workers,
			QueueSize:       pc.QueueSize,
			InitialInterval: pc.InitialInterval,
			MaxInterval:     pc.MaxInterval,
			MaxElapsedTime:  pc.MaxElapsedTime,
		}, payout.WithObserver(m), payout.WithLogger(p.log.Named("payout")))
		c.OnClose(ServiceDispatcher, func() error { d.Stop(); return nil })
		return d, nil
	})
}

// registerLedgerBuilders registers the transaction engine.
func (p *Provider) registerLedgerBuilders() {
	p.container.RegisterBuilder(ServiceTxEngine, func(c *Container) (interface{}, error) {
		l, err := Resolve[*ledger.Ledger](c, ServiceLedger)
		if err != nil {
			return nil, err
		}
		sink, err := Resolve[events.Sink](c, ServiceEventLog)
		if err != nil {
			return nil, err
		}
		d, err := Resolve[*payout.Dispatcher](c, ServiceDispatcher)
		if err != nil {
			return nil, err
		}
		m, err := Resolve[*metrics.Metrics](c, ServiceMetrics)
		if err != nil {
			return nil, err
		}

		fee, err := p.config.Market.BidFeeValue()
		if err != nil {
			return nil, err
		}
		cfg := tx.DefaultEngineConfig()
		cfg.BidFee = *fee
		cfg.Cooldown = p.config.Market.Cooldown

		return tx.NewEngine(l, cfg,
			tx.WithEventSink(sink),
			tx.WithPaymentHandler(d),
			tx.WithObserver(m),
			tx.WithLogger(p.log.Named("engine")),
		), nil
	})
}

// registerRPCBuilders registers the RPC server and the HTTP mux around it.
func (p *Provider) registerRPCBuilders() {
	p.container.RegisterBuilder(ServiceRPCServer, func(c *Container) (interface{}, error) {
		engine, err := Resolve[*tx.Engine](c, ServiceTxEngine)
		if err != nil {
			return nil, err
		}
		sink, err := Resolve[events.Sink](c, ServiceEventLog)
		if err != nil {
			return nil, err
		}
		journal, err := Resolve[relationaldb.PayoutRepository](c, ServiceJournal)
		if err != nil {
			return nil, err
		}
		services := &rpc_types.ServiceContainer{
			Engine:    engine,
			Events:    sink,
			Payouts:   journal,
			Version:   p.version,
			StartTime: p.started,
		}
		timeout := p.config.Server.WriteTimeout
		return rpc.NewServer(services, timeout, p.log.Named("rpc")), nil
	})

	p.container.RegisterBuilder(ServiceHTTPHandler, func(c *Container) (interface{}, error) {
		server, err := Resolve[*rpc.Server](c, ServiceRPCServer)
		if err != nil {
			return nil, err
		}
		var ws, metricsHandler http.Handler
		hub, err := Resolve[*events.Hub](c, ServiceEventHub)
		if err != nil {
			return nil, err
		}
		if hub != nil {
			ws = hub
		}
		if p.config.Server.Metrics {
			m, err := Resolve[*metrics.Metrics](c, ServiceMetrics)
			if err != nil {
				return nil, err
			}
			metricsHandler = m.Handler()
		}
		return server.Handler(ws, metricsHandler), nil
	})
}

// GetConfig returns the configuration from the container.
func (p *Provider) GetConfig() *config.Config {
	return p.config
}

// Engine builds or returns the transaction engine.
func (p *Provider) Engine() (*tx.Engine, error) {
	return Resolve[*tx.Engine](p.container, ServiceTxEngine)
}
