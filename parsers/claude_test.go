package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schmitthub/agentstreamfmt/events"
)

func TestClaudeDetectAndParseMessage(t *testing.T) {
	p := NewClaudeParser()
	line := `{"type":"message","role":"user","content":"Hello"}`
	assert.True(t, p.Detect(line))

	got, err := p.Parse(line)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, events.Msg{Role: events.RoleUser, Text: "Hello"}, got[0])
}

func TestClaudeMessageWithThinkingAndTextContentBlocks(t *testing.T) {
	p := NewClaudeParser()
	line := `{"type":"message","role":"assistant","content":[{"type":"thinking","thinking":"weighing options"},{"type":"text","text":"done"}]}`
	got, err := p.Parse(line)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, events.Msg{Role: events.RoleAssistant, Text: "(thinking) weighing options\ndone"}, got[0])
}

func TestClaudeToolLifecycleWithInferredExitCode(t *testing.T) {
	p := NewClaudeParser()

	start, err := p.Parse(`{"type":"tool_use","name":"grep","tool_use_id":"t1","text":"{\"pattern\":\"foo\"}"}`)
	require.NoError(t, err)
	require.Len(t, start, 1)
	tool := start[0].(events.Tool)
	assert.Equal(t, "grep", tool.Name)
	assert.Equal(t, events.PhaseStart, tool.Phase)

	result, err := p.Parse(`{"type":"tool_result","tool_use_id":"t1","content":"match found","is_error":false}`)
	require.NoError(t, err)
	require.Len(t, result, 2)

	stdout := result[0].(events.Tool)
	assert.Equal(t, "grep", stdout.Name)
	assert.Equal(t, events.PhaseStdout, stdout.Phase)
	assert.Equal(t, "match found", stdout.Text)

	end := result[1].(events.Tool)
	assert.Equal(t, events.PhaseEnd, end.Phase)
	require.NotNil(t, end.ExitCode)
	assert.Equal(t, 0, *end.ExitCode)
}

func TestClaudeToolResultWithoutExitInfoLeavesLifecycleOpen(t *testing.T) {
	p := NewClaudeParser()
	_, _ = p.Parse(`{"type":"tool_use","name":"ls","tool_use_id":"t2"}`)
	result, err := p.Parse(`{"type":"tool_result","tool_use_id":"t2","content":"a b c"}`)
	require.NoError(t, err)
	require.Len(t, result, 1)
}

func TestClaudeUsageEvent(t *testing.T) {
	p := NewClaudeParser()
	got, err := p.Parse(`{"type":"usage","delta_usd":0.0042}`)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, events.Cost{DeltaUSD: 0.0042}, got[0])
}

func TestClaudeZeroUsageYieldsNoEvents(t *testing.T) {
	p := NewClaudeParser()
	got, err := p.Parse(`{"type":"usage","input_tokens":0,"output_tokens":0}`)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestClaudeErrorEvent(t *testing.T) {
	p := NewClaudeParser()
	got, err := p.Parse(`{"type":"error","message":"boom"}`)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, events.Error{Message: "boom"}, got[0])
}

func TestClaudeUnknownTypeBecomesDebug(t *testing.T) {
	p := NewClaudeParser()
	got, err := p.Parse(`{"type":"ping","nonce":1}`)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, events.TagDebug, got[0].Tag())
}

func TestClaudeNonJSONRaisesParseErrorAndDetectFalse(t *testing.T) {
	p := NewClaudeParser()
	assert.False(t, p.Detect("not json at all"))

	_, err := p.Parse("not json at all")
	require.Error(t, err)
	var pe *events.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "claude", pe.Vendor)
}

func TestClaudeImplementsDescribable(t *testing.T) {
	p := NewClaudeParser()
	var d Describable = p
	assert.Equal(t, "1.0.0", d.Version())
	assert.Contains(t, d.SupportedSourceVersions(), "stream-json-flat-v1")
	assert.NotEmpty(t, d.Doc())
}

func TestClaudeDetectNeverPanics(t *testing.T) {
	p := NewClaudeParser()
	assert.NotPanics(t, func() {
		p.Detect("")
		p.Detect(`{`)
		p.Detect(`{"type":123}`)
	})
}
