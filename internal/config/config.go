// Package config loads the exporter configuration file once at startup,
// applies defaults, and hands the rest of the process an immutable value.
package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

// Defaults applied when the config file omits a key.
const (
	DefaultVpncmd         = "vpncmd"
	DefaultServer         = "localhost"
	DefaultListen         = ":9411"
	DefaultSleep          = 500 * time.Millisecond
	DefaultCommandTimeout = 30 * time.Second
)

// Hub identifies one Virtual Hub to monitor.
type Hub struct {
	Name     string `mapstructure:"name"`
	Password string `mapstructure:"password"`
}

// Config is the full exporter configuration. It is not mutated after Load.
type Config struct {
	// Vpncmd is the path to the vpncmd binary.
	Vpncmd string `mapstructure:"vpncmd"`
	// Server is the SoftEther server address passed to vpncmd.
	Server string `mapstructure:"server"`
	// AdminPassword is the server administrator password; when empty the
	// per-hub password is used instead.
	AdminPassword string `mapstructure:"adminpassword"`
	// Listen is the HTTP listen address. A value starting with ":" binds
	// all interfaces.
	Listen string `mapstructure:"listen"`
	// Sleep is the pacing delay applied after each served request. It is a
	// throttling knob, not part of the scrape contract; 0 disables it.
	Sleep time.Duration `mapstructure:"-"`
	// RefreshInterval, when positive, moves collection to a background
	// loop on this cadence; scrapes then only read the latest values.
	// When 0 every scrape triggers a synchronous refresh.
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	// CommandTimeout bounds each vpncmd invocation.
	CommandTimeout time.Duration `mapstructure:"command_timeout"`
	// Hubs lists the Virtual Hubs to monitor, in query order.
	Hubs []Hub `mapstructure:"hubs"`
}

// Load reads the configuration file at path, fills defaults and validates.
// Any error here is fatal for the process: the exporter never starts with
// a partial configuration.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetDefault("vpncmd", DefaultVpncmd)
	v.SetDefault("server", DefaultServer)
	v.SetDefault("adminpassword", "")
	v.SetDefault("listen", DefaultListen)
	v.SetDefault("command_timeout", DefaultCommandTimeout)
	v.SetDefault("refresh_interval", time.Duration(0))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	sleep, err := parseSleep(v.GetString("sleep"))
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Sleep = sleep

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Vpncmd == "" {
		return fmt.Errorf("vpncmd must not be empty")
	}
	if c.Server == "" {
		return fmt.Errorf("server must not be empty")
	}
	if c.Listen == "" {
		return fmt.Errorf("listen must not be empty")
	}
	if c.CommandTimeout < 0 {
		return fmt.Errorf("command_timeout must not be negative")
	}
	if c.RefreshInterval < 0 {
		return fmt.Errorf("refresh_interval must not be negative")
	}
	return nil
}

// parseSleep accepts either a duration string ("2s") or, for compatibility
// with older config files, a bare number of milliseconds ("500").
func parseSleep(raw string) (time.Duration, error) {
	if raw == "" {
		return DefaultSleep, nil
	}
	if ms, err := strconv.Atoi(raw); err == nil {
		if ms < 0 {
			return 0, fmt.Errorf("sleep must not be negative: %d", ms)
		}
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("sleep: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("sleep must not be negative: %s", d)
	}
	return d, nil
}

// NormalizeListen expands a port-only listen address (":9411") to bind all
// interfaces explicitly.
func NormalizeListen(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "0.0.0.0" + addr
	}
	return addr
}
