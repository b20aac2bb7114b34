package render

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schmitthub/agentstreamfmt/events"
)

func TestS1JSONCompactOutputIsTheDefault(t *testing.T) {
	r := NewJSONRenderer(Options{Format: FormatJSON})
	out := r.Render(events.Msg{Role: events.RoleUser, Text: "Hello"})
	require.True(t, strings.HasSuffix(out, "\n"))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out)), &decoded))
	assert.Equal(t, "msg", decoded["t"])
	assert.Equal(t, "user", decoded["role"])
	assert.Equal(t, "Hello", decoded["text"])
}

func TestJSONPrettyModeIndents(t *testing.T) {
	r := NewJSONRenderer(Options{Format: FormatJSON, PrettyMode: true})
	out := r.Render(events.Msg{Role: events.RoleUser, Text: "Hello"})
	assert.Contains(t, out, "\n  ") // pretty.Pretty indents with two spaces
}

func TestJSONFilteringSuppressesHiddenTags(t *testing.T) {
	r := NewJSONRenderer(Options{Format: FormatJSON, HideDebug: true})
	out := r.Render(events.Debug{Raw: map[string]any{"x": 1}})
	assert.Empty(t, out)
}

func TestJSONShowTimestampsAttachesField(t *testing.T) {
	r := NewJSONRenderer(Options{Format: FormatJSON, ShowTimestamps: true})
	out := r.Render(events.Msg{Role: events.RoleUser, Text: "hi"})
	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out)), &decoded))
	assert.Contains(t, decoded, "timestamp")
}

func TestS6JSONFlushEmitsInterruptedToolAsErrorEvent(t *testing.T) {
	r := NewJSONRenderer(Options{Format: FormatJSON})
	r.Render(events.Tool{Name: "t", Phase: events.PhaseStart})
	r.Render(events.Msg{Role: events.RoleUser, Text: "x"})

	flushed := r.Flush()
	require.NotEmpty(t, flushed)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(flushed)), &decoded))
	assert.Equal(t, "error", decoded["t"])
	assert.Contains(t, decoded["message"], "t")
}

func TestJSONRoundTripsEveryVariant(t *testing.T) {
	r := NewJSONRenderer(Options{Format: FormatJSON})
	exitCode := 1
	inputs := []events.Event{
		events.Msg{Role: events.RoleAssistant, Text: "hi"},
		events.Tool{Name: "grep", Phase: events.PhaseEnd, ExitCode: &exitCode},
		events.Cost{DeltaUSD: 0.25},
		events.Error{Message: "oops"},
		events.Debug{Raw: map[string]any{"k": "v"}},
	}
	for _, in := range inputs {
		out := r.Render(in)
		decoded, err := events.Decode([]byte(strings.TrimSpace(out)))
		require.NoError(t, err)
		assert.Equal(t, in.Tag(), decoded.Tag())
	}
}
