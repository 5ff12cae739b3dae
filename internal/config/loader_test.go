package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("ANSIBLE_BASE_URL", "https://controller.example.com")
	t.Setenv("ANSIBLE_TOKEN", "test-token")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "https://controller.example.com", cfg.Controller.BaseURL)
	assert.Equal(t, "test-token", cfg.Controller.Token)
	assert.Equal(t, 300*time.Second, cfg.Controller.CacheTTL)
	assert.Equal(t, 200, cfg.Controller.PageSize)
	assert.Equal(t, MCPTransportStdio, cfg.Server.Transport)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8200, cfg.Server.Port)
}

func TestLoad_MissingBaseURL(t *testing.T) {
	t.Setenv("ANSIBLE_BASE_URL", "")
	t.Setenv("ANSIBLE_TOKEN", "test-token")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ANSIBLE_BASE_URL")
}

func TestLoad_MissingToken(t *testing.T) {
	t.Setenv("ANSIBLE_BASE_URL", "https://controller.example.com")
	t.Setenv("ANSIBLE_TOKEN", "")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ANSIBLE_TOKEN")
}

func TestLoad_EnvOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("AAP_VERSION", "2.4")
	t.Setenv("AAP_CACHE_TTL", "60")
	t.Setenv("AAP_PAGE_SIZE", "50")
	t.Setenv("MCP_TRANSPORT", "sse")
	t.Setenv("MCP_HOST", "0.0.0.0")
	t.Setenv("MCP_PORT", "9000")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "2.4", cfg.Controller.Version)
	assert.Equal(t, 60*time.Second, cfg.Controller.CacheTTL)
	assert.Equal(t, 50, cfg.Controller.PageSize)
	assert.Equal(t, MCPTransportSSE, cfg.Server.Transport)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 9000, cfg.Server.Port)
}

func TestLoad_FileOverlaidByEnv(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("MCP_PORT", "9100")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
controller:
  version: "2.4"
  pageSize: 25
server:
  transport: streamable-http
  port: 8300
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	// File values apply where the environment is silent.
	assert.Equal(t, "2.4", cfg.Controller.Version)
	assert.Equal(t, 25, cfg.Controller.PageSize)
	assert.Equal(t, MCPTransportStreamableHTTP, cfg.Server.Transport)
	// Environment wins over the file.
	assert.Equal(t, 9100, cfg.Server.Port)
}

func TestLoad_InvalidTransport(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("MCP_TRANSPORT", "websocket")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown transport")
}

func TestLoad_MissingFile(t *testing.T) {
	setRequiredEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
