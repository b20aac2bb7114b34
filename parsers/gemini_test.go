package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schmitthub/agentstreamfmt/events"
)

func TestGeminiDetectAlwaysTrue(t *testing.T) {
	p := NewGeminiParser()
	assert.True(t, p.Detect(""))
	assert.True(t, p.Detect("garbage {{{"))
	assert.True(t, p.Detect(`{"type":"assistant","content":"hi"}`))
}

func TestGeminiParsesRecognizedMessage(t *testing.T) {
	p := NewGeminiParser()
	got, err := p.Parse(`{"type":"assistant","content":"hi there"}`)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, events.Msg{Role: events.RoleAssistant, Text: "hi there"}, got[0])
}

func TestGeminiAdoptsMalformedJSONAsFreeText(t *testing.T) {
	p := NewGeminiParser()
	got, err := p.Parse("not json at all")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, events.Msg{Role: events.RoleAssistant, Text: "not json at all"}, got[0])
}

func TestGeminiParseNeverFailsForAnyInput(t *testing.T) {
	p := NewGeminiParser()
	for _, line := range []string{"", "{{{", `{"type":"metadata","cost":1.5}`, `{"type":"weird"}`, "plain text"} {
		_, err := p.Parse(line)
		assert.NoError(t, err)
	}
}

func TestGeminiMetadataCost(t *testing.T) {
	p := NewGeminiParser()
	got, err := p.Parse(`{"type":"metadata","cost":2.5}`)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, events.Cost{DeltaUSD: 2.5}, got[0])
}

func TestGeminiUnrecognizedShapeBecomesDebug(t *testing.T) {
	p := NewGeminiParser()
	got, err := p.Parse(`{"foo":"bar"}`)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, events.TagDebug, got[0].Tag())
}
