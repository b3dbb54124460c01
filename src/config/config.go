// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package config loads the dnsunblock configuration from a YAML file and
// DNSUNBLOCK_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/H0llyW00dzZ/dnsunblock/src/probe"
	"github.com/H0llyW00dzZ/dnsunblock/src/unblock"
)

// Root extraction modes.
const (
	RootsStatic       = "static"
	RootsPublicSuffix = "publicsuffix"
)

// Environment variables that override file values.
const (
	EnvAccessToken  = "DNSUNBLOCK_ACCESS_TOKEN"
	EnvRefreshToken = "DNSUNBLOCK_REFRESH_TOKEN"
	EnvServerID     = "DNSUNBLOCK_SERVER_ID"
	EnvBaseURL      = "DNSUNBLOCK_BASE_URL"
	EnvLogLevel     = "DNSUNBLOCK_LOG_LEVEL"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid configuration")

// Config is the full configuration.
type Config struct {
	API         API         `yaml:"api"`
	ServerID    string      `yaml:"server_id"`
	Query       Query       `yaml:"query"`
	Roots       Roots       `yaml:"roots"`
	Credentials Credentials `yaml:"credentials"`
	Devices     Devices     `yaml:"devices"`
	Probe       Probe       `yaml:"probe"`
	Log         Log         `yaml:"log"`
	Serve       Serve       `yaml:"serve"`
}

// API configures the provider client.
type API struct {
	BaseURL      string        `yaml:"base_url"`
	Timeout      time.Duration `yaml:"timeout"`
	AccessToken  string        `yaml:"access_token"`
	RefreshToken string        `yaml:"refresh_token"`
}

// Query sets the defaults of the blocked-domain listing.
type Query struct {
	Window time.Duration `yaml:"window"`
	Limit  int           `yaml:"limit"`
}

// Roots selects the root domain extractor.
type Roots struct {
	Mode             string   `yaml:"mode"`
	CompoundSuffixes []string `yaml:"compound_suffixes"`
}

// Credentials configures durable token storage. An empty Path keeps
// tokens in memory only.
type Credentials struct {
	Path string `yaml:"path"`
}

// Devices configures the device-name cache.
type Devices struct {
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// Probe configures post-unblock DNS verification.
type Probe struct {
	// Servers are resolver addresses. "personal" expands to the DNS-over-TLS
	// endpoint of ServerID.
	Servers []string      `yaml:"servers"`
	Timeout time.Duration `yaml:"timeout"`
}

// Log configures the logger.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Serve configures the local HTTP API. A non-empty Token is required as a
// bearer token on every /api route.
type Serve struct {
	Addr  string `yaml:"addr"`
	Token string `yaml:"token"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		API: API{
			BaseURL: "https://api.adguard-dns.io",
			Timeout: 30 * time.Second,
		},
		Query:   Query{Window: 24 * time.Hour, Limit: 500},
		Roots:   Roots{Mode: RootsStatic},
		Devices: Devices{CacheTTL: 6 * time.Hour},
		Probe:   Probe{Servers: []string{"personal"}, Timeout: 5 * time.Second},
		Log:     Log{Level: "info", Format: "text"},
		Serve:   Serve{Addr: "127.0.0.1:8080"},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/dnsunblock/config.yaml, or the
// platform equivalent.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(dir, "dnsunblock", "config.yaml")
}

// Load reads path on top of [Default] and applies environment overrides.
// A missing file is not an error when optional is true.
func Load(path string, optional bool) (Config, error) {
	c := Default()

	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &c); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && optional:
	default:
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	c.ApplyEnv(os.Getenv)
	return c, nil
}

// ApplyEnv overrides fields from the DNSUNBLOCK_* variables returned by
// getenv. Empty values are ignored.
func (c *Config) ApplyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&c.API.AccessToken, EnvAccessToken)
	set(&c.API.RefreshToken, EnvRefreshToken)
	set(&c.ServerID, EnvServerID)
	set(&c.API.BaseURL, EnvBaseURL)
	set(&c.Log.Level, EnvLogLevel)
}

// Validate reports every invalid field at once. A missing server id is
// not checked here; operations that need it report it themselves.
func (c Config) Validate() error {
	var errs []error
	if c.API.BaseURL == "" {
		errs = append(errs, errors.New("api.base_url is empty"))
	}
	if c.API.Timeout < 0 {
		errs = append(errs, errors.New("api.timeout is negative"))
	}
	if c.Query.Window <= 0 {
		errs = append(errs, errors.New("query.window must be positive"))
	}
	if c.Query.Limit <= 0 {
		errs = append(errs, errors.New("query.limit must be positive"))
	}
	switch c.Roots.Mode {
	case "", RootsStatic, RootsPublicSuffix:
	default:
		errs = append(errs, fmt.Errorf("roots.mode %q is not %q or %q", c.Roots.Mode, RootsStatic, RootsPublicSuffix))
	}
	for _, s := range c.Roots.CompoundSuffixes {
		if strings.Count(strings.Trim(s, "."), ".") != 1 {
			errs = append(errs, fmt.Errorf("roots.compound_suffixes: %q must have exactly two labels", s))
		}
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format %q is not text or json", c.Log.Format))
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
}

// Analyzer builds the analyzer selected by the roots section.
func (c Config) Analyzer() *unblock.Analyzer {
	switch {
	case c.Roots.Mode == RootsPublicSuffix:
		return unblock.NewAnalyzer(unblock.WithRootExtractor(unblock.PublicSuffixExtractor{}))
	case len(c.Roots.CompoundSuffixes) > 0:
		return unblock.NewAnalyzer(unblock.WithCompoundSuffixes(c.Roots.CompoundSuffixes...))
	default:
		return unblock.NewAnalyzer()
	}
}

// Resolvers expands probe.servers into probe resolvers.
func (c Config) Resolvers() []probe.Resolver {
	out := make([]probe.Resolver, 0, len(c.Probe.Servers))
	for _, s := range c.Probe.Servers {
		s = strings.TrimSpace(s)
		switch {
		case s == "personal":
			if c.ServerID != "" {
				out = append(out, probe.PersonalResolver(c.ServerID))
			}
		case strings.HasPrefix(s, "tls://"):
			out = append(out, probe.Resolver{Address: strings.TrimPrefix(s, "tls://"), Net: "tcp-tls"})
		case strings.HasPrefix(s, "tcp://"):
			out = append(out, probe.Resolver{Address: strings.TrimPrefix(s, "tcp://"), Net: "tcp"})
		case s != "":
			out = append(out, probe.Resolver{Address: strings.TrimPrefix(s, "udp://")})
		}
	}
	if len(out) == 0 {
		return append(out, probe.DefaultResolvers...)
	}
	return out
}

// Logger builds a logger from the log section, writing to w.
func (c Config) Logger(w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	if lvl, err := logrus.ParseLevel(c.Log.Level); err == nil {
		l.SetLevel(lvl)
	}
	if c.Log.Format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return l
}
