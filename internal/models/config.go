package models

import "time"

type Config struct {
	Database DatabaseConfig
	Notify   NotifyConfig
	Service  ServiceConfig
}

type DatabaseConfig struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

// NotifyConfig controls the Kafka large-transfer notification producer.
// Notifications are disabled entirely when Enabled is false.
type NotifyConfig struct {
	Enabled   bool
	Brokers   []string
	Topic     string
	Threshold string // decimal string, e.g. "1000"
}

type ServiceConfig struct {
	// PlatformsFile optionally overrides the built-in platform registry.
	PlatformsFile string
	// Debug exposes raw internal error text in API envelopes.
	Debug bool
}
