// /internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"mellium.im/xmpp/jid"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using system environment variables")
	}
}

var (
	ErrNoConfig    = errors.New("valid config file not found")
	ErrNoRooms     = errors.New("no rooms specified")
	ErrNoLocalPart = errors.New("jid must have a local part")
	ErrNoPassword  = errors.New("password is not set")
	ErrChainIndex  = errors.New("chain indices must be non-negative")
	ErrBadSendRate = errors.New("send_rate must be positive")
)

const (
	DefaultFileName = "ash.toml"
	SystemPath      = "/etc/ash/ash.toml"
)

type Config struct {
	JID       string                   `mapstructure:"jid"`
	Password  string                   `mapstructure:"password"`
	DB        string                   `mapstructure:"db"`
	Nick      string                   `mapstructure:"nick"`
	Host      string                   `mapstructure:"host"`
	Resource  string                   `mapstructure:"resource"`
	JokesFile string                   `mapstructure:"jokes_file"`
	SendRate  float64                  `mapstructure:"send_rate"`
	LogLevel  string                   `mapstructure:"log_level"`
	LogFile   string                   `mapstructure:"log_file"`
	Triggers  map[string]TriggerConfig `mapstructure:"triggers"`
	Rooms     []RoomConfig             `mapstructure:"rooms"`

	// Path is the file the config was read from.
	Path string `mapstructure:"-"`
}

// RoomConfig is one [[rooms]] entry.
type RoomConfig struct {
	Room         string `mapstructure:"room"`
	Nick         string `mapstructure:"nick"`
	ChainIndices []int  `mapstructure:"chain_indices"`
}

// TriggerConfig overrides one ambient category. Unset keys keep the built-in value.
type TriggerConfig struct {
	Match              *string  `mapstructure:"match"`
	MinIntervalSeconds *int     `mapstructure:"min_interval"`
	Probability        *float64 `mapstructure:"probability"`
}

// MinInterval converts the configured seconds, if any.
func (t TriggerConfig) MinInterval() *time.Duration {
	if t.MinIntervalSeconds == nil {
		return nil
	}
	d := time.Duration(*t.MinIntervalSeconds) * time.Second
	return &d
}

type envOverrides struct {
	JID      string `env:"ASH_JID"`
	Password string `env:"ASH_PASSWORD"`
	DB       string `env:"ASH_DB"`
	Nick     string `env:"ASH_NICK"`
	Host     string `env:"ASH_HOST"`
	LogLevel string `env:"ASH_LOG_LEVEL"`
}

// Candidates lists the files Discover tries, in order.
func Candidates() []string {
	var paths []string
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, DefaultFileName))
	}
	return append(paths, SystemPath)
}

// Discover loads the first candidate config file that exists.
func Discover() (*Config, error) {
	for _, p := range Candidates() {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		return Load(p)
	}
	return nil, ErrNoConfig
}

// Load reads a TOML config file, applies environment overrides and validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	v.SetDefault("db", "ash.db")
	v.SetDefault("resource", "ash")
	v.SetDefault("send_rate", 1.0)
	v.SetDefault("log_level", "info")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNoConfig, path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	cfg.Path = path

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&c.JID, o.JID)
	set(&c.Password, o.Password)
	set(&c.DB, o.DB)
	set(&c.Nick, o.Nick)
	set(&c.Host, o.Host)
	set(&c.LogLevel, o.LogLevel)
	return nil
}

// Validate checks everything that can be checked without touching the network.
func (c *Config) Validate() error {
	account, err := jid.Parse(c.JID)
	if err != nil {
		return fmt.Errorf("account jid %q: %w", c.JID, err)
	}
	if account.Localpart() == "" {
		return fmt.Errorf("account jid %q: %w", c.JID, ErrNoLocalPart)
	}
	if c.Password == "" {
		return ErrNoPassword
	}
	if c.SendRate <= 0 {
		return ErrBadSendRate
	}
	if len(c.Rooms) == 0 {
		return ErrNoRooms
	}
	for _, r := range c.Rooms {
		addr, err := jid.Parse(r.Room)
		if err != nil {
			return fmt.Errorf("room %q: %w", r.Room, err)
		}
		if addr.Localpart() == "" {
			return fmt.Errorf("room %q: %w", r.Room, ErrNoLocalPart)
		}
		for _, idx := range r.ChainIndices {
			if idx < 0 {
				return fmt.Errorf("room %q: %w", r.Room, ErrChainIndex)
			}
		}
	}
	for name, t := range c.Triggers {
		if t.MinIntervalSeconds != nil && *t.MinIntervalSeconds < 0 {
			return fmt.Errorf("trigger %q: min_interval must be non-negative", name)
		}
		if t.Probability != nil && (*t.Probability < 0 || *t.Probability > 1) {
			return fmt.Errorf("trigger %q: probability must be within [0,1]", name)
		}
	}
	return nil
}

// AccountHost is the host:port to dial, defaulting to the account domain on 5222.
func (c *Config) AccountHost() string {
	if c.Host != "" {
		return c.Host
	}
	account, err := jid.Parse(c.JID)
	if err != nil {
		return ""
	}
	return account.Domainpart() + ":5222"
}

// AccountLocal returns the local part of the bot account, or "".
func (c *Config) AccountLocal() string {
	account, err := jid.Parse(c.JID)
	if err != nil {
		return ""
	}
	return account.Localpart()
}
