package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Load assembles the configuration from defaults, an optional YAML file, and
// the environment, in that order of precedence (environment wins). Passing an
// empty path skips the file layer.
func Load(path string) (Config, error) {
	cfg := GetDefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overlays the environment variables the original deployment
// surface documents onto cfg. Unset variables leave the existing value.
func applyEnv(cfg *Config) {
	if v := os.Getenv("ANSIBLE_BASE_URL"); v != "" {
		cfg.Controller.BaseURL = v
	}
	if v := os.Getenv("ANSIBLE_TOKEN"); v != "" {
		cfg.Controller.Token = v
	}
	if v, ok := os.LookupEnv("AAP_VERSION"); ok {
		cfg.Controller.Version = v
	}
	if v := os.Getenv("AAP_CACHE_TTL"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			cfg.Controller.CacheTTL = time.Duration(secs) * time.Second
		}
	}
	if v := os.Getenv("AAP_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Controller.PageSize = n
		}
	}
	if v := os.Getenv("MCP_TRANSPORT"); v != "" {
		cfg.Server.Transport = v
	}
	if v := os.Getenv("MCP_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("MCP_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Server.Port = n
		}
	}
}

// Validate checks that the configuration is usable. The controller URL and
// token are mandatory; everything else has a default.
func (c Config) Validate() error {
	if c.Controller.BaseURL == "" {
		return fmt.Errorf("controller base URL is required (set ANSIBLE_BASE_URL)")
	}
	if c.Controller.Token == "" {
		return fmt.Errorf("controller token is required (set ANSIBLE_TOKEN)")
	}
	switch c.Server.Transport {
	case MCPTransportStdio, MCPTransportSSE, MCPTransportStreamableHTTP:
	default:
		return fmt.Errorf("unknown transport %q (expected stdio, sse or streamable-http)", c.Server.Transport)
	}
	if c.Controller.PageSize <= 0 {
		return fmt.Errorf("page size must be positive, got %d", c.Controller.PageSize)
	}
	if c.Controller.CacheTTL <= 0 {
		return fmt.Errorf("cache TTL must be positive, got %s", c.Controller.CacheTTL)
	}
	return nil
}
