package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/LeJamon/goMarketd/internal/core/tx"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"
)

// JetStream is the part of jetstream.JetStream the mirror uses.
//
//go:generate mockgen -source=nats.go -destination=mock_jetstream_test.go -package=events -mock_names=JetStream=MockJetStream
type JetStream interface {
	Publish(ctx context.Context, subject string, data []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

// NATSConfig holds the configuration for the NATS JetStream mirror
type NATSConfig struct {
	URL            string
	Stream         string
	Subject        string
	ConnectionName string
	MaxReconnects  int
	ReconnectWait  time.Duration
	PublishTimeout time.Duration
}

// NATSMirror publishes every appended event to JetStream under
// <subject>.<event type>. Payloads are the JSON event records.
type NATSMirror struct {
	nc      *nats.Conn
	js      JetStream
	subject string
	timeout time.Duration
	log     *zap.Logger
}

// ConnectNATS connects to NATS and makes sure the stream exists.
func ConnectNATS(ctx context.Context, cfg NATSConfig, log *zap.Logger) (*NATSMirror, error) {
	if log == nil {
		log = zap.NewNop()
	}
	opts := []nats.Option{
		nats.Name(cfg.ConnectionName),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				log.Warn("disconnected from NATS", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("reconnected to NATS", zap.String("url", nc.ConnectedUrl()))
		}),
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}
	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     cfg.Stream,
		Subjects: []string{cfg.Subject + ".>"},
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("create stream %s: %w", cfg.Stream, err)
	}

	m := NewNATSMirror(js, cfg.Subject, cfg.PublishTimeout, log)
	m.nc = nc
	return m, nil
}

// NewNATSMirror wraps an existing JetStream context.
func NewNATSMirror(js JetStream, subject string, timeout time.Duration, log *zap.Logger) *NATSMirror {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &NATSMirror{js: js, subject: subject, timeout: timeout, log: log}
}

// Append implements tx.EventSink.
func (m *NATSMirror) Append(events []tx.Event) error {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	for _, e := range events {
		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("marshal event: %w", err)
		}
		subject := m.subject + "." + e.Type
		if _, err := m.js.Publish(ctx, subject, data); err != nil {
			return fmt.Errorf("publish %s: %w", subject, err)
		}
		m.log.Debug("published event", zap.String("subject", subject))
	}
	return nil
}

// Close closes the NATS connection, if the mirror owns one.
func (m *NATSMirror) Close() {
	if m.nc != nil {
		m.nc.Close()
	}
}
