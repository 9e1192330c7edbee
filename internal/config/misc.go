package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/holiman/uint256"
)

// MarketConfig represents the [market] section
type MarketConfig struct {
	// Owner is installed with an Init transaction on first start
	Owner    string        `toml:"owner" mapstructure:"owner"`
	BidFee   string        `toml:"bid_fee" mapstructure:"bid_fee"` // decimal, charged on every bid
	Cooldown time.Duration `toml:"cooldown" mapstructure:"cooldown"`
}

// BidFeeValue parses BidFee.
func (m *MarketConfig) BidFeeValue() (*uint256.Int, error) {
	fee, err := uint256.FromDecimal(m.BidFee)
	if err != nil {
		return nil, fmt.Errorf("invalid bid_fee %q: %w", m.BidFee, err)
	}
	return fee, nil
}

// Validate performs validation on the market configuration
func (m *MarketConfig) Validate() error {
	if _, err := m.BidFeeValue(); err != nil {
		return err
	}
	if m.Cooldown < 0 {
		return fmt.Errorf("cooldown must be non-negative, got %s", m.Cooldown)
	}
	return nil
}

// PayoutConfig represents the [payout] section
type PayoutConfig struct {
	Workers         int           `toml:"workers" mapstructure:"workers"`
	QueueSize       int           `toml:"queue_size" mapstructure:"queue_size"`
	InitialInterval time.Duration `toml:"initial_interval" mapstructure:"initial_interval"`
	MaxInterval     time.Duration `toml:"max_interval" mapstructure:"max_interval"`
	MaxElapsedTime  time.Duration `toml:"max_elapsed_time" mapstructure:"max_elapsed_time"`
	// WebhookURL receives every payout as a JSON POST; empty only journals them
	WebhookURL     string        `toml:"webhook_url" mapstructure:"webhook_url"`
	WebhookTimeout time.Duration `toml:"webhook_timeout" mapstructure:"webhook_timeout"`
}

// Validate performs validation on the payout configuration
func (p *PayoutConfig) Validate() error {
	if p.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", p.Workers)
	}
	if p.QueueSize < 0 {
		return fmt.Errorf("queue_size must be non-negative, got %d", p.QueueSize)
	}
	if p.InitialInterval <= 0 || p.MaxInterval < p.InitialInterval {
		return fmt.Errorf("need 0 < initial_interval <= max_interval")
	}
	if p.WebhookURL != "" {
		u, err := url.Parse(p.WebhookURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Errorf("webhook_url must be an http(s) URL, got %q", p.WebhookURL)
		}
	}
	return nil
}

// EventsConfig represents the [events] section
type EventsConfig struct {
	// Persist keeps the event log in the ledger database; otherwise it lives in memory
	Persist  bool   `toml:"persist" mapstructure:"persist"`
	NATSURL  string `toml:"nats_url" mapstructure:"nats_url"`
	Stream   string `toml:"stream" mapstructure:"stream"`
	Subject  string `toml:"subject" mapstructure:"subject"`
	ConnName string `toml:"connection_name" mapstructure:"connection_name"`
}

// Validate performs validation on the events configuration
func (e *EventsConfig) Validate() error {
	if e.NATSURL != "" && (e.Stream == "" || e.Subject == "") {
		return fmt.Errorf("stream and subject are required when nats_url is set")
	}
	return nil
}

// LogConfig represents the [log] section
type LogConfig struct {
	Debug  bool   `toml:"debug" mapstructure:"debug"`
	Level  string `toml:"level" mapstructure:"level"`
	Format string `toml:"format" mapstructure:"format"`
}
