package config

import "time"

const (
	// DefaultCacheTTL is how long a fetched template collection stays fresh.
	DefaultCacheTTL = 300 * time.Second

	// DefaultPageSize is the page_size query parameter used when draining
	// the paginated job template listing.
	DefaultPageSize = 200

	// DefaultHost is the bind address for the HTTP-based transports.
	DefaultHost = "localhost"

	// DefaultPort is the port for the HTTP-based transports.
	DefaultPort = 8200
)

// GetDefaultConfig returns the default configuration for aapmcp.
// The controller base URL and token have no defaults; validation rejects a
// configuration without them.
func GetDefaultConfig() Config {
	return Config{
		Controller: ControllerConfig{
			CacheTTL: DefaultCacheTTL,
			PageSize: DefaultPageSize,
		},
		Server: ServerConfig{
			Transport: MCPTransportStdio,
			Host:      DefaultHost,
			Port:      DefaultPort,
		},
	}
}
