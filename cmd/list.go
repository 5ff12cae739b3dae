package cmd

import (
	"fmt"
	"io"
	"os"

	"aapmcp/internal/cache"
	"aapmcp/internal/config"
	"aapmcp/internal/controller"
	"aapmcp/internal/server"
	"aapmcp/pkg/logging"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var listConfigPath string

// listCmd is a one-shot command: fetch the template collection and print it
// as a table. Useful to verify credentials and to see which tool name each
// template will get, without starting a server.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the controller's job templates and their tool names",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	// The table goes to stdout; keep logs out of the way.
	logging.Init(logging.LevelWarn, os.Stderr)

	cfg, err := config.Load(listConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	client := controller.NewClient(
		cfg.Controller.BaseURL,
		cfg.Controller.Token,
		cfg.Controller.Version,
		controller.WithPageSize(cfg.Controller.PageSize),
	)

	templates, err := cache.New(client).GetTemplates(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to fetch job templates: %w", err)
	}

	renderTemplateTable(cmd.OutOrStdout(), templates)
	return nil
}

// renderTemplateTable prints the template collection with standard styling.
func renderTemplateTable(out io.Writer, templates []controller.JobTemplate) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleRounded)

	t.AppendHeader(table.Row{"ID", "Name", "Tool Name", "Survey", "Description"})
	for _, tmpl := range templates {
		survey := ""
		if tmpl.Survey != nil && len(tmpl.Survey.Spec) > 0 {
			survey = fmt.Sprintf("%d questions", len(tmpl.Survey.Spec))
		}
		t.AppendRow(table.Row{
			tmpl.ID,
			tmpl.Name,
			server.SynthesizeToolName(tmpl.Name),
			survey,
			tmpl.Description,
		})
	}
	t.Render()
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&listConfigPath, "config", "", "Path to an optional YAML configuration file")
}
