package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"aapmcp/internal/app"

	"github.com/spf13/cobra"
)

// serveDebug enables verbose logging across the application.
var serveDebug bool

// serveConfigPath points at an optional YAML configuration file. Environment
// variables always override file values.
var serveConfigPath string

// serveCmd starts the MCP server. This is the main command of aapmcp.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server exposing job templates as tools",
	Long: `Starts the aapmcp server. At startup the job template collection is
fetched from the controller and one launch_* tool is synthesized per
template; the tool set is then frozen until the process restarts.

Configuration comes from the environment (ANSIBLE_BASE_URL, ANSIBLE_TOKEN,
AAP_VERSION, AAP_CACHE_TTL, AAP_PAGE_SIZE, MCP_TRANSPORT, MCP_HOST,
MCP_PORT), optionally layered over a YAML file given with --config.

Transports:
  stdio (default)   protocol stream on stdin/stdout, logs on stderr
  sse               Server-Sent Events endpoint on MCP_HOST:MCP_PORT
  streamable-http   streamable HTTP endpoint on MCP_HOST:MCP_PORT`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

// runServe is the main entry point for the serve command.
func runServe(cmd *cobra.Command, args []string) error {
	application, err := app.NewApplication(app.Options{
		Debug:      serveDebug,
		ConfigPath: serveConfigPath,
		Version:    GetVersion(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return application.Run(ctx)
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable debug logging")
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to an optional YAML configuration file")
}
