package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	SetVersion("1.2.3")
	defer SetVersion("")

	cmd := newVersionCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "aapmcp version 1.2.3\n", out.String())
}

func TestGetVersion(t *testing.T) {
	SetVersion("9.9.9")
	defer SetVersion("")

	assert.Equal(t, "9.9.9", GetVersion())
}
