package server

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"aapmcp/internal/controller"
	"aapmcp/pkg/logging"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// ToolNamePrefix is prepended to every synthesized template tool name.
const ToolNamePrefix = "launch_"

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// SynthesizeToolName derives an MCP tool name from a template display name:
// lowercase, every run of non-alphanumeric characters collapsed to a single
// underscore, prefixed with "launch_". The derivation is a pure function of
// the display name, so the same template always yields the same tool.
func SynthesizeToolName(displayName string) string {
	name := strings.ToLower(displayName)
	name = nonAlphanumeric.ReplaceAllString(name, "_")
	name = strings.Trim(name, "_")
	return ToolNamePrefix + name
}

// synthesizeTemplateTools converts the cached template collection into one
// ServerTool per template. If two templates normalize to the same tool name,
// the earlier one in fetch order wins and the later one is skipped with a
// warning; given a deterministic fetch order the outcome is deterministic.
func (s *Server) synthesizeTemplateTools(templates []controller.JobTemplate) []mcpserver.ServerTool {
	var tools []mcpserver.ServerTool
	seen := make(map[string]controller.JobTemplate, len(templates))

	for _, tmpl := range templates {
		toolName := SynthesizeToolName(tmpl.Name)

		if earlier, exists := seen[toolName]; exists {
			logging.Warn("Server", "Skipping template %q (%d): tool name %q already taken by template %q (%d)",
				tmpl.Name, tmpl.ID, toolName, earlier.Name, earlier.ID)
			continue
		}
		seen[toolName] = tmpl

		tools = append(tools, mcpserver.ServerTool{
			Tool: mcp.Tool{
				Name:        toolName,
				Description: buildToolDescription(tmpl),
				InputSchema: mcp.ToolInputSchema{
					Type: "object",
					Properties: map[string]interface{}{
						"extra_vars": map[string]interface{}{
							"type":        "string",
							"description": "Optional JSON object string of extra variables to pass to the job",
						},
					},
				},
			},
			Handler: s.createTemplateHandler(tmpl.ID, tmpl.Name),
		})
	}

	return tools
}

// buildToolDescription assembles the human-readable documentation for one
// synthesized tool. The survey question list is embedded so a caller can
// discover the expected parameters without a separate lookup.
func buildToolDescription(tmpl controller.JobTemplate) string {
	description := tmpl.Description
	if description == "" {
		description = fmt.Sprintf("Launch job template: %s", tmpl.Name)
	}

	parts := []string{description, fmt.Sprintf("Template ID: %d", tmpl.ID)}

	if tmpl.Survey != nil && len(tmpl.Survey.Spec) > 0 {
		parts = append(parts, fmt.Sprintf("\nSurvey Questions (%d available):", len(tmpl.Survey.Spec)))
		for _, q := range tmpl.Survey.Spec {
			line := fmt.Sprintf("  - %s: %s (%s)", q.Variable, q.QuestionName, q.Type)
			if q.Required {
				line += " (required)"
			}
			if q.Default != nil && q.Default != "" {
				line += fmt.Sprintf(" [default: %v]", q.Default)
			}
			if len(q.Choices) > 0 {
				line += fmt.Sprintf(" [choices: %s]", strings.Join(q.Choices, ", "))
			}
			parts = append(parts, line)
		}
		parts = append(parts, "\nInclude survey answers in the extra_vars JSON string.")
	} else {
		parts = append(parts, "\nNo survey questions defined for this template.")
	}

	return strings.Join(parts, "\n")
}

// createTemplateHandler binds a synthesized tool to its template ID. The
// binding is fixed for the process lifetime; template changes on the
// controller are invisible to it until restart.
func (s *Server) createTemplateHandler(templateID int, templateName string) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		rawVars := stringArg(requestArgs(req), "extra_vars")

		result, err := s.invoker.Launch(ctx, templateID, rawVars)
		if err != nil {
			logging.Error("Server", err, "Failed to launch job template %d (%s)", templateID, templateName)
			return toolError(err), nil
		}
		return toolResult(map[string]interface{}{
			"job_id":        result.JobID,
			"status":        result.Status,
			"template_id":   templateID,
			"template_name": templateName,
			"url":           result.URL,
			"job_type":      result.JobType,
		}), nil
	}
}
