// Package castconfig loads a Client's dial configuration from flags and
// environment variables: flags set the defaults and matching environment
// variables override them. Values left unset keep the fixed defaults below;
// nothing is auto-detected.
package castconfig

import (
	"flag"
	"os"
	"strconv"
	"time"

	"github.com/sebas/gocast/internal/castchannel"
	"github.com/sebas/gocast/internal/castproto"
)

// DefaultPort is the TLS port every Cast receiver listens on (spec §6).
const DefaultPort = 8009

// Config is the flag/env-loadable surface feeding a castchannel.Config.
type Config struct {
	Port              int
	LogLevel          string
	UserAgent         string
	RequestTimeout    time.Duration
	HeartbeatInterval time.Duration
	HeartbeatTimeout  time.Duration
	DecodeStrict      bool
}

// Load parses command-line flags then applies environment overrides, in
// that precedence order.
func Load() *Config {
	cfg := &Config{
		Port:              DefaultPort,
		LogLevel:          "info",
		UserAgent:         "gocast",
		RequestTimeout:    30 * time.Second,
		HeartbeatInterval: 5 * time.Second,
		HeartbeatTimeout:  30 * time.Second,
	}

	flag.IntVar(&cfg.Port, "cast-port", cfg.Port, "Cast receiver TLS port")
	flag.StringVar(&cfg.LogLevel, "loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flag.StringVar(&cfg.UserAgent, "cast-user-agent", cfg.UserAgent, "User agent advertised on CONNECT")
	flag.DurationVar(&cfg.RequestTimeout, "cast-request-timeout", cfg.RequestTimeout, "Default per-request deadline")
	flag.DurationVar(&cfg.HeartbeatInterval, "cast-heartbeat-interval", cfg.HeartbeatInterval, "PING cadence when idle")
	flag.DurationVar(&cfg.HeartbeatTimeout, "cast-heartbeat-timeout", cfg.HeartbeatTimeout, "Silence tolerated before the transport is declared dead")
	flag.BoolVar(&cfg.DecodeStrict, "cast-decode-strict", cfg.DecodeStrict, "Reject MEDIA_STATUS payloads missing a status field instead of the lenient fallback")

	if !flag.Parsed() {
		flag.Parse()
	}

	if v := os.Getenv("CAST_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Port = p
		}
	}
	if v := os.Getenv("CAST_LOGLEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("CAST_USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}
	if v := os.Getenv("CAST_REQUEST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RequestTimeout = d
		}
	}
	if v := os.Getenv("CAST_HEARTBEAT_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.HeartbeatInterval = d
		}
	}
	if v := os.Getenv("CAST_HEARTBEAT_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.HeartbeatTimeout = d
		}
	}
	if v := os.Getenv("CAST_DECODE_STRICT"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.DecodeStrict = b
		}
	}

	return cfg
}

// ChannelConfig converts the loaded Config into the castchannel.Config the
// channel constructor expects.
func (c *Config) ChannelConfig() castchannel.Config {
	return castchannel.Config{
		HeartbeatInterval: c.HeartbeatInterval,
		HeartbeatTimeout:  c.HeartbeatTimeout,
		RequestTimeout:    c.RequestTimeout,
		UserAgent:         c.UserAgent,
		ConnType:          castproto.ConnTypeStrong,
		DecodeStrict:      c.DecodeStrict,
		EventQueueSize:    64,
	}
}
