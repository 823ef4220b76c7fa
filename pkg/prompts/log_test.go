package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helmcode/log-analyzer/pkg/llm"
)

func TestBuildLogPrompt(t *testing.T) {
	logText := "2024-01-01T10:00:00Z ERROR db timeout\n2024-01-01T10:01:00Z WARN retrying\n"
	msgs := BuildLogPrompt(logText)

	require.Len(t, msgs, 2)
	assert.Equal(t, llm.RoleSystem, msgs[0].Role)
	assert.Equal(t, llm.RoleUser, msgs[1].Role)

	for _, want := range []string{
		"distinct error types",
		"count occurrences",
		"earliest and latest timestamps",
		"one or two example messages",
		"low/medium/high",
		"remediation",
		"'errors' (array)",
		"'summary' (string)",
		"'recommendations' (array)",
	} {
		assert.Contains(t, msgs[0].Content, want)
	}

	assert.True(t, strings.HasPrefix(msgs[1].Content, "Analyze the following log. Output JSON only."))
	assert.True(t, strings.HasSuffix(msgs[1].Content, "LOG:\n"+logText))
}

func TestBuildLogPrompt_NoTruncation(t *testing.T) {
	big := strings.Repeat("2024-01-01 ERROR something failed badly\n", 50000)
	msgs := BuildLogPrompt(big)
	assert.Contains(t, msgs[1].Content, big)
}

func TestBuildLogPrompt_Deterministic(t *testing.T) {
	assert.Equal(t, BuildLogPrompt("x"), BuildLogPrompt("x"))
}
