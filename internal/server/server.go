package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"aapmcp/internal/cache"
	"aapmcp/internal/config"
	"aapmcp/internal/jobs"
	"aapmcp/pkg/logging"

	mcpserver "github.com/mark3labs/mcp-go/server"
)

// ServerName identifies this server in the MCP handshake.
const ServerName = "aap-job-template-server"

// Server exposes the automation controller's job templates over MCP. The
// tool set is assembled once, when Start runs: the static tools plus one
// synthesized launch_* tool per cached template. Registration never happens
// again for the process lifetime.
type Server struct {
	cfg     config.ServerConfig
	cache   *cache.TemplateCache
	invoker *jobs.Invoker
	version string

	server *mcpserver.MCPServer

	// Transport-specific servers
	sseServer            *mcpserver.SSEServer
	streamableHTTPServer *mcpserver.StreamableHTTPServer
	stdioServer          *mcpserver.StdioServer

	// Lifecycle management
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	mu         sync.RWMutex

	toolCount int
}

// New creates the MCP server around an already-constructed cache and
// invoker.
func New(cfg config.ServerConfig, templateCache *cache.TemplateCache, invoker *jobs.Invoker, version string) *Server {
	return &Server{
		cfg:     cfg,
		cache:   templateCache,
		invoker: invoker,
		version: version,
	}
}

// Start registers the tool set and starts the configured transport. The
// caller is expected to have populated the cache first; if it is cold, only
// the static tools are registered and the dynamic ones are skipped.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.server != nil {
		s.mu.Unlock()
		return fmt.Errorf("server already started")
	}

	s.ctx, s.cancelFunc = context.WithCancel(ctx)

	s.server = mcpserver.NewMCPServer(
		ServerName,
		s.version,
		mcpserver.WithToolCapabilities(false), // tool set is frozen; no listChanged events
	)

	tools := s.staticTools()

	if s.cache.Populated() {
		templates, err := s.cache.GetTemplates(s.ctx)
		if err == nil {
			dynamic := s.synthesizeTemplateTools(templates)
			tools = append(tools, dynamic...)
			logging.Info("Server", "Synthesized %d launch tools from %d templates", len(dynamic), len(templates))
		} else {
			logging.Error("Server", err, "Failed to read template cache; dynamic tools unavailable")
		}
	} else {
		logging.Warn("Server", "Template cache is cold; serving static tools only")
	}

	s.server.AddTools(tools...)
	s.toolCount = len(tools)
	logging.Info("Server", "Registered %d MCP tools", s.toolCount)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	switch s.cfg.Transport {
	case config.MCPTransportSSE:
		logging.Info("Server", "Starting MCP server with SSE transport on %s", addr)
		baseURL := fmt.Sprintf("http://%s", addr)
		s.sseServer = mcpserver.NewSSEServer(
			s.server,
			mcpserver.WithBaseURL(baseURL),
			mcpserver.WithSSEEndpoint("/sse"),
			mcpserver.WithMessageEndpoint("/message"),
			mcpserver.WithKeepAlive(true),
			mcpserver.WithKeepAliveInterval(30*time.Second),
		)
		sseServer := s.sseServer
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			if err := sseServer.Start(addr); err != nil && err != http.ErrServerClosed {
				logging.Error("Server", err, "SSE server error")
			}
		}()

	case config.MCPTransportStreamableHTTP:
		logging.Info("Server", "Starting MCP server with streamable-http transport on %s", addr)
		s.streamableHTTPServer = mcpserver.NewStreamableHTTPServer(s.server)
		streamableServer := s.streamableHTTPServer
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			if err := streamableServer.Start(addr); err != nil && err != http.ErrServerClosed {
				logging.Error("Server", err, "Streamable HTTP server error")
			}
		}()

	case config.MCPTransportStdio:
		fallthrough
	default:
		logging.Info("Server", "Starting MCP server with stdio transport")
		s.stdioServer = mcpserver.NewStdioServer(s.server)
		stdioServer := s.stdioServer
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			if err := stdioServer.Listen(s.ctx, os.Stdin, os.Stdout); err != nil && s.ctx.Err() == nil {
				logging.Error("Server", err, "Stdio server error")
			}
		}()
	}

	s.mu.Unlock()
	return nil
}

// Stop shuts down the transport and waits for background routines. Jobs
// already launched keep running on the controller.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.server == nil {
		s.mu.Unlock()
		return fmt.Errorf("server not started")
	}

	logging.Info("Server", "Stopping MCP server")

	cancelFunc := s.cancelFunc
	sseServer := s.sseServer
	streamableServer := s.streamableHTTPServer
	s.mu.Unlock()

	if cancelFunc != nil {
		cancelFunc()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if sseServer != nil {
		if err := sseServer.Shutdown(shutdownCtx); err != nil {
			logging.Error("Server", err, "Error shutting down SSE server")
		}
	}
	if streamableServer != nil {
		if err := streamableServer.Shutdown(shutdownCtx); err != nil {
			logging.Error("Server", err, "Error shutting down streamable HTTP server")
		}
	}
	// The stdio server stops on context cancellation, no explicit shutdown.

	s.wg.Wait()

	s.mu.Lock()
	s.server = nil
	s.sseServer = nil
	s.streamableHTTPServer = nil
	s.stdioServer = nil
	s.mu.Unlock()

	return nil
}

// ToolCount reports how many tools were registered at startup.
func (s *Server) ToolCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.toolCount
}
