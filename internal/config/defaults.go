package config

import (
	"time"

	"github.com/spf13/viper"
)

// setDefaults sets all default values
func setDefaults(v *viper.Viper) {
	// Server
	v.SetDefault("server.addr", "127.0.0.1:5005")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.metrics", true)
	v.SetDefault("server.websocket", true)
	v.SetDefault("server.send_queue_limit", 256)

	// Database
	v.SetDefault("database.backend", "pebble")
	v.SetDefault("database.path", "./data")
	v.SetDefault("database.cache_size", 64<<20)
	v.SetDefault("database.entry_cache", 4096)

	// Journal
	v.SetDefault("journal.driver", "sqlite")
	v.SetDefault("journal.dsn", "file:./data/payouts.db?_pragma=journal_mode(WAL)")
	v.SetDefault("journal.max_open_conns", 4)

	// Market
	v.SetDefault("market.owner", "")
	v.SetDefault("market.bid_fee", "1000")
	v.SetDefault("market.cooldown", 30*time.Second)

	// Payout
	v.SetDefault("payout.workers", 4)
	v.SetDefault("payout.queue_size", 1024)
	v.SetDefault("payout.initial_interval", 500*time.Millisecond)
	v.SetDefault("payout.max_interval", 30*time.Second)
	v.SetDefault("payout.max_elapsed_time", 5*time.Minute)
	v.SetDefault("payout.webhook_url", "")
	v.SetDefault("payout.webhook_timeout", 10*time.Second)

	// Events
	v.SetDefault("events.persist", true)
	v.SetDefault("events.nats_url", "")
	v.SetDefault("events.stream", "MARKETD_EVENTS")
	v.SetDefault("events.subject", "marketd.events")
	v.SetDefault("events.connection_name", "marketd")

	// Log
	v.SetDefault("log.debug", false)
	v.SetDefault("log.level", "")
	v.SetDefault("log.format", "")
}
