package server

import (
	"context"
	"encoding/json"
	"fmt"

	"aapmcp/internal/controller"
	"aapmcp/internal/extravars"
	"aapmcp/pkg/logging"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Static tool names. These exist regardless of what the controller holds;
// the synthesized launch_* tools come and go with the template collection.
const (
	ListJobTemplatesToolName    = "list_job_templates"
	LaunchJobTemplateToolName   = "launch_job_template"
	GetJobStatusToolName        = "get_job_status"
	GetJobLogsToolName          = "get_job_logs"
	RefreshJobTemplatesToolName = "refresh_job_templates"
)

// templateListResult is the list_job_templates payload. Partial is set when
// the cached collection came from an incomplete pagination drain; the caller
// decides whether partial data is acceptable.
type templateListResult struct {
	Count     int               `json:"count"`
	Partial   bool              `json:"partial,omitempty"`
	Warning   string            `json:"warning,omitempty"`
	Templates []templateSummary `json:"templates"`
}

// templateSummary is the per-template entry of the list_job_templates
// result.
type templateSummary struct {
	ID                   int              `json:"id"`
	Name                 string           `json:"name"`
	Description          string           `json:"description"`
	SurveyEnabled        bool             `json:"survey_enabled"`
	AskVariablesOnLaunch bool             `json:"ask_variables_on_launch"`
	Variables            string           `json:"variables,omitempty"`
	SurveyQuestions      []surveyQuestion `json:"survey_questions"`
	HasSurvey            bool             `json:"has_survey"`
	MCPToolName          string           `json:"mcp_tool_name"`
}

type surveyQuestion struct {
	Variable     string      `json:"variable"`
	QuestionName string      `json:"question_name"`
	Type         string      `json:"type"`
	Required     bool        `json:"required"`
	Default      interface{} `json:"default,omitempty"`
	Choices      []string    `json:"choices,omitempty"`
}

// staticTools declares the fixed tool set.
func (s *Server) staticTools() []mcpserver.ServerTool {
	return []mcpserver.ServerTool{
		{
			Tool: mcp.Tool{
				Name: ListJobTemplatesToolName,
				Description: "List all available Ansible job templates. Each template is also exposed as a " +
					"dedicated launch_* tool for direct launching; the listing includes the tool name and " +
					"the survey questions each template expects.",
				InputSchema: mcp.ToolInputSchema{Type: "object", Properties: map[string]interface{}{}},
			},
			Handler: s.handleListJobTemplates,
		},
		{
			Tool: mcp.Tool{
				Name: LaunchJobTemplateToolName,
				Description: "Launch an Ansible job template by ID with an optional JSON object string of " +
					"extra variables. Returns the new job ID immediately; the job runs on the controller.",
				InputSchema: mcp.ToolInputSchema{
					Type: "object",
					Properties: map[string]interface{}{
						"template_id": map[string]interface{}{
							"type":        "integer",
							"description": "The ID of the job template to launch",
						},
						"extra_vars": map[string]interface{}{
							"type":        "string",
							"description": "Optional JSON object string of extra variables to pass to the job",
						},
					},
					Required: []string{"template_id"},
				},
			},
			Handler: s.handleLaunchJobTemplate,
		},
		{
			Tool: mcp.Tool{
				Name:        GetJobStatusToolName,
				Description: "Get the status of a running or completed Ansible job.",
				InputSchema: mcp.ToolInputSchema{
					Type: "object",
					Properties: map[string]interface{}{
						"job_id": map[string]interface{}{
							"type":        "integer",
							"description": "The ID of the job to check",
						},
					},
					Required: []string{"job_id"},
				},
			},
			Handler: s.handleGetJobStatus,
		},
		{
			Tool: mcp.Tool{
				Name:        GetJobLogsToolName,
				Description: "Get the stdout log of an Ansible job together with the job's name, status and line count.",
				InputSchema: mcp.ToolInputSchema{
					Type: "object",
					Properties: map[string]interface{}{
						"job_id": map[string]interface{}{
							"type":        "integer",
							"description": "The ID of the job to retrieve logs for",
						},
					},
					Required: []string{"job_id"},
				},
			},
			Handler: s.handleGetJobLogs,
		},
		{
			Tool: mcp.Tool{
				Name: RefreshJobTemplatesToolName,
				Description: "Force refresh the job template cache. Dynamic launch_* tools are frozen at " +
					"startup; restart the server to get tools for templates added since.",
				InputSchema: mcp.ToolInputSchema{Type: "object", Properties: map[string]interface{}{}},
			},
			Handler: s.handleRefreshJobTemplates,
		},
	}
}

func (s *Server) handleListJobTemplates(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	templates, err := s.cache.GetTemplates(ctx)
	if err != nil {
		return toolError(err), nil
	}

	summaries := make([]templateSummary, 0, len(templates))
	for _, tmpl := range templates {
		summaries = append(summaries, summarizeTemplate(tmpl))
	}

	result := templateListResult{
		Count:     len(summaries),
		Partial:   s.cache.Partial(),
		Templates: summaries,
	}
	if result.Partial {
		result.Warning = "template listing is incomplete: a pagination request failed during the last refresh"
	}
	return toolResult(result), nil
}

func (s *Server) handleLaunchJobTemplate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := requestArgs(req)

	templateID, ok := intArg(args, "template_id")
	if !ok {
		return mcp.NewToolResultError("template_id is required and must be an integer"), nil
	}

	result, err := s.invoker.Launch(ctx, templateID, stringArg(args, "extra_vars"))
	if err != nil {
		logging.Error("Server", err, "Failed to launch job template %d", templateID)
		return toolError(err), nil
	}
	return toolResult(result), nil
}

func (s *Server) handleGetJobStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jobID, ok := intArg(requestArgs(req), "job_id")
	if !ok {
		return mcp.NewToolResultError("job_id is required and must be an integer"), nil
	}

	result, err := s.invoker.Status(ctx, jobID)
	if err != nil {
		return toolError(err), nil
	}
	return toolResult(result), nil
}

func (s *Server) handleGetJobLogs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jobID, ok := intArg(requestArgs(req), "job_id")
	if !ok {
		return mcp.NewToolResultError("job_id is required and must be an integer"), nil
	}

	result, err := s.invoker.Logs(ctx, jobID)
	if err != nil {
		return toolError(err), nil
	}
	return toolResult(result), nil
}

func (s *Server) handleRefreshJobTemplates(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	templates, err := s.cache.Refresh(ctx)
	if err != nil {
		return toolError(err), nil
	}

	return toolResult(map[string]interface{}{
		"message": fmt.Sprintf("Successfully refreshed %d job templates. "+
			"Note: to get tools for new templates, restart the server.", len(templates)),
	}), nil
}

func summarizeTemplate(tmpl controller.JobTemplate) templateSummary {
	summary := templateSummary{
		ID:                   tmpl.ID,
		Name:                 tmpl.Name,
		Description:          tmpl.Description,
		SurveyEnabled:        tmpl.SurveyEnabled,
		AskVariablesOnLaunch: tmpl.AskVariablesOnLaunch,
		Variables:            tmpl.ExtraVars,
		SurveyQuestions:      []surveyQuestion{},
		MCPToolName:          SynthesizeToolName(tmpl.Name),
	}

	if tmpl.Survey != nil {
		for _, q := range tmpl.Survey.Spec {
			summary.SurveyQuestions = append(summary.SurveyQuestions, surveyQuestion{
				Variable:     q.Variable,
				QuestionName: q.QuestionName,
				Type:         q.Type,
				Required:     q.Required,
				Default:      q.Default,
				Choices:      q.Choices,
			})
		}
	}
	summary.HasSurvey = len(summary.SurveyQuestions) > 0
	return summary
}

// requestArgs extracts the argument map from an MCP request.
func requestArgs(req mcp.CallToolRequest) map[string]interface{} {
	if req.Params.Arguments == nil {
		return map[string]interface{}{}
	}
	if args, ok := req.Params.Arguments.(map[string]interface{}); ok {
		return args
	}
	return map[string]interface{}{}
}

// intArg reads an integer argument; JSON numbers arrive as float64.
func intArg(args map[string]interface{}, name string) (int, bool) {
	switch v := args[name].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n), true
		}
	}
	return 0, false
}

func stringArg(args map[string]interface{}, name string) string {
	if v, ok := args[name].(string); ok {
		return v
	}
	return ""
}

// toolResult marshals a result value to JSON text content.
func toolResult(v interface{}) *mcp.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err))
	}
	return mcp.NewToolResultText(string(data))
}

// toolError converts an internal error into an MCP error result. Validation
// and not-found errors are the caller's to fix; everything else is phrased
// as an execution failure.
func toolError(err error) *mcp.CallToolResult {
	switch {
	case extravars.IsValidation(err):
		return mcp.NewToolResultError(err.Error())
	case controller.IsNotFound(err):
		return mcp.NewToolResultError(err.Error())
	case controller.IsAuthorization(err):
		return mcp.NewToolResultError(fmt.Sprintf("authorization failed: %v", err))
	case controller.IsConnectivity(err):
		return mcp.NewToolResultError(fmt.Sprintf("controller unreachable: %v", err))
	default:
		return mcp.NewToolResultError(fmt.Sprintf("tool execution failed: %v", err))
	}
}
