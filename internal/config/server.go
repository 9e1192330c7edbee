package config

import (
	"fmt"
	"net"
	"time"
)

// ServerConfig represents the [server] section: the JSON-RPC, websocket and
// metrics listener
type ServerConfig struct {
	Addr           string        `toml:"addr" mapstructure:"addr"`                         // host:port of the HTTP listener
	ReadTimeout    time.Duration `toml:"read_timeout" mapstructure:"read_timeout"`         // HTTP read timeout
	WriteTimeout   time.Duration `toml:"write_timeout" mapstructure:"write_timeout"`       // HTTP write timeout
	Metrics        bool          `toml:"metrics" mapstructure:"metrics"`                   // serve /metrics
	WebSocket      bool          `toml:"websocket" mapstructure:"websocket"`               // serve /ws
	SendQueueLimit int           `toml:"send_queue_limit" mapstructure:"send_queue_limit"` // per websocket client
}

// Validate performs validation on the server configuration
func (s *ServerConfig) Validate() error {
	if s.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	if _, _, err := net.SplitHostPort(s.Addr); err != nil {
		return fmt.Errorf("invalid addr %q: %w", s.Addr, err)
	}
	if s.ReadTimeout < 0 || s.WriteTimeout < 0 {
		return fmt.Errorf("timeouts must be non-negative")
	}
	if s.SendQueueLimit <= 0 {
		return fmt.Errorf("send_queue_limit must be positive, got %d", s.SendQueueLimit)
	}
	return nil
}
