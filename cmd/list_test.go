package cmd

import (
	"bytes"
	"testing"

	"aapmcp/internal/controller"

	"github.com/stretchr/testify/assert"
)

func TestRenderTemplateTable(t *testing.T) {
	templates := []controller.JobTemplate{
		{ID: 1, Name: "Deploy Production App", Description: "deploys the app"},
		{
			ID:   2,
			Name: "Restart Service",
			Survey: &controller.SurveySpec{
				Spec: []controller.SurveyQuestion{{Variable: "svc", Type: "text"}},
			},
		},
	}

	var out bytes.Buffer
	renderTemplateTable(&out, templates)

	rendered := out.String()
	assert.Contains(t, rendered, "Deploy Production App")
	assert.Contains(t, rendered, "launch_deploy_production_app")
	assert.Contains(t, rendered, "launch_restart_service")
	assert.Contains(t, rendered, "1 questions")
	assert.Contains(t, rendered, "deploys the app")
}

func TestRenderTemplateTable_Empty(t *testing.T) {
	var out bytes.Buffer
	renderTemplateTable(&out, nil)

	assert.Contains(t, out.String(), "NAME")
}
