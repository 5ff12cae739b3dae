package config

import "time"

const (
	// MCPTransportStreamableHTTP is the streamable HTTP transport.
	MCPTransportStreamableHTTP = "streamable-http"
	// MCPTransportSSE is the Server-Sent Events transport.
	MCPTransportSSE = "sse"
	// MCPTransportStdio is the standard I/O transport.
	MCPTransportStdio = "stdio"
)

// ControllerConfig defines how the automation controller is reached.
type ControllerConfig struct {
	BaseURL string `yaml:"baseURL,omitempty"` // Controller base URL (ANSIBLE_BASE_URL)
	Token   string `yaml:"token,omitempty"`   // Pre-issued bearer token (ANSIBLE_TOKEN)
	// Version selects the API path prefix. The literal "2.4" selects the
	// legacy /api prefix; every other value, including empty, selects
	// /api/controller.
	Version  string        `yaml:"version,omitempty"`
	CacheTTL time.Duration `yaml:"cacheTTL,omitempty"` // Template cache TTL (default: 300s)
	PageSize int           `yaml:"pageSize,omitempty"` // Pagination page size (default: 200)
}

// ServerConfig defines the MCP server endpoint.
type ServerConfig struct {
	Transport string `yaml:"transport,omitempty"` // Transport to use (default: stdio)
	Host      string `yaml:"host,omitempty"`      // Host to bind to for HTTP transports (default: localhost)
	Port      int    `yaml:"port,omitempty"`      // Port for HTTP transports (default: 8200)
}

// Config is the top-level configuration structure for aapmcp.
type Config struct {
	Controller ControllerConfig `yaml:"controller"`
	Server     ServerConfig     `yaml:"server"`
}
