package parsers

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schmitthub/agentstreamfmt/events"
)

// panicParser is used to confirm a Detect panic is swallowed and detection
// continues with the next parser, per spec 4.B.1.
type panicParser struct{ vendor string }

func (p *panicParser) Vendor() string          { return p.vendor }
func (p *panicParser) Detect(line string) bool { panic("boom") }
func (p *panicParser) Parse(line string) ([]events.Event, error) {
	return nil, nil
}

func TestRegisterRejectsReservedAndInvalid(t *testing.T) {
	r := NewRegistry()
	assert.ErrorIs(t, r.Register(NewClaudeParser(), math.NaN()), ErrInvalidPriority)
	assert.ErrorIs(t, r.Register(nil, 1), ErrInvalidParser)
	assert.ErrorIs(t, r.Register(&panicParser{vendor: AutoVendor}, 1), ErrReservedVendor)
}

func TestDetectSwallowsPanicAndContinues(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&panicParser{vendor: "flaky"}, 200))
	require.NoError(t, r.Register(NewGeminiParser(), 10))

	d, ok := r.DetectVendor("anything")
	require.True(t, ok)
	assert.Equal(t, "gemini", d.Vendor)
}

func TestRegisterReplacesSameVendor(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(NewClaudeParser(), 1))
	require.NoError(t, r.Register(NewClaudeParser(), 50))

	d, ok := r.DetectVendor(`{"type":"message","role":"user","content":"hi"}`)
	require.True(t, ok)
	assert.Equal(t, "claude", d.Vendor)
}

func TestPriorityOrderingDescending(t *testing.T) {
	r := NewDefaultRegistry()
	d, ok := r.DetectVendor(`{"phase":"start","task":"build"}`)
	require.True(t, ok)
	assert.Equal(t, "amp", d.Vendor)

	d, ok = r.DetectVendor(`{"type":"message","role":"user","content":"hi"}`)
	require.True(t, ok)
	assert.Equal(t, "claude", d.Vendor)

	d, ok = r.DetectVendor(`not json at all`)
	require.True(t, ok)
	assert.Equal(t, "gemini", d.Vendor)
}

func TestUnregisterRemovesAndIsNoopIfAbsent(t *testing.T) {
	r := NewDefaultRegistry()
	r.Unregister("claude")
	_, err := r.Get("claude")
	assert.ErrorIs(t, err, ErrUnknownVendor)
	r.Unregister("claude") // no panic, no-op
}

func TestSelectExplicitVendorUnknown(t *testing.T) {
	r := NewDefaultRegistry()
	_, err := r.Select("nonexistent", "", false)
	assert.ErrorIs(t, err, ErrUnknownVendor)
}

func TestSelectAutoRequiresSampleLine(t *testing.T) {
	r := NewDefaultRegistry()
	_, err := r.Select(AutoVendor, "", false)
	assert.ErrorIs(t, err, ErrNoSampleLine)
}

func TestSelectAutoUnclassifiable(t *testing.T) {
	r := NewRegistry() // no parsers at all
	_, err := r.Select(AutoVendor, "anything", true)
	assert.ErrorIs(t, err, ErrVendorMismatch)
}

func TestDetectVendorMultiLinePicksMostDetections(t *testing.T) {
	r := NewDefaultRegistry()
	lines := []string{
		`{"phase":"start","task":"x"}`,
		`{"phase":"output","task":"x","type":"stdout","content":"y"}`,
		`{"phase":"end","task":"x"}`,
		`not json`,
	}
	// Gemini's Detect accepts every line (4 detections), ahead of Amp (3)
	// and Claude (1, the line carrying "type"), so Gemini has the most.
	d, ok := r.DetectVendorMultiLine(lines)
	require.True(t, ok)
	assert.Equal(t, "gemini", d.Vendor)
}

func TestDetectVendorWithConfidenceFallsBackToOneForNonScoringParsers(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(NewAmpParser(), 80))
	d, ok := r.DetectVendorWithConfidence(`{"phase":"start","task":"build"}`)
	require.True(t, ok)
	assert.Equal(t, 1.0, d.Confidence)
}

func TestDetectVendorWithConfidenceUsesGeminiScoring(t *testing.T) {
	r := NewDefaultRegistry()
	d, ok := r.DetectVendorWithConfidence(`garbage`)
	require.True(t, ok)
	assert.Equal(t, "gemini", d.Vendor)
	assert.Less(t, d.Confidence, 0.5)
}
