package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the aapmcp application.
// It is the entry point when the application is called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "aapmcp",
	Short: "Expose Ansible Automation Platform job templates as MCP tools",
	Long: `aapmcp connects an MCP host (Claude Desktop, Cursor, any MCP client)
to an Ansible Automation Platform controller. Every job template on the
controller becomes an individually invocable launch_* tool, alongside
generic tools for listing templates and polling job status and logs.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors
	// that are handled by the application.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command.
// This function is called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// This function is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "aapmcp version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
