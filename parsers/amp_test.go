package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schmitthub/agentstreamfmt/events"
)

func TestAmpToolLifecycleScenarioS4(t *testing.T) {
	p := NewAmpParser()

	start, err := p.Parse(`{"phase":"start","task":"build"}`)
	require.NoError(t, err)
	require.Len(t, start, 1)
	assert.Equal(t, events.Tool{Name: "build", Phase: events.PhaseStart}, start[0])

	output, err := p.Parse(`{"phase":"output","task":"build","type":"stdout","content":"hello"}`)
	require.NoError(t, err)
	require.Len(t, output, 1)
	assert.Equal(t, events.Tool{Name: "build", Phase: events.PhaseStdout, Text: "hello"}, output[0])

	end, err := p.Parse(`{"phase":"end","task":"build","exitCode":0}`)
	require.NoError(t, err)
	require.Len(t, end, 1)
	tool := end[0].(events.Tool)
	assert.Equal(t, "build", tool.Name)
	assert.Equal(t, events.PhaseEnd, tool.Phase)
	require.NotNil(t, tool.ExitCode)
	assert.Equal(t, 0, *tool.ExitCode)
}

func TestAmpDetectRequiresPhaseField(t *testing.T) {
	p := NewAmpParser()
	assert.True(t, p.Detect(`{"phase":"start","task":"x"}`))
	assert.False(t, p.Detect(`{"type":"message"}`))
	assert.False(t, p.Detect("not json"))
}

func TestAmpOtherPhaseBecomesDebug(t *testing.T) {
	p := NewAmpParser()
	got, err := p.Parse(`{"phase":"pause","task":"build"}`)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, events.TagDebug, got[0].Tag())
}

func TestAmpNonJSONRaisesParseError(t *testing.T) {
	p := NewAmpParser()
	_, err := p.Parse("not json")
	require.Error(t, err)
	var pe *events.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "amp", pe.Vendor)
}

func TestAmpStatusInfersExitCodeWhenNoExplicitExitCode(t *testing.T) {
	p := NewAmpParser()
	got, err := p.Parse(`{"phase":"end","task":"build","status":"failed"}`)
	require.NoError(t, err)
	require.Len(t, got, 1)
	tool := got[0].(events.Tool)
	require.NotNil(t, tool.ExitCode)
	assert.Equal(t, 1, *tool.ExitCode)
}
