package events_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schmitthub/agentstreamfmt/events"
)

func TestParseErrorTruncatesLine(t *testing.T) {
	long := strings.Repeat("x", 500)
	perr := events.NewParseError("bad json", "claude", long, nil, events.ErrorContext{})

	assert.LessOrEqual(t, len(perr.Line), 203) // 200 + "..."
	assert.True(t, strings.HasSuffix(perr.Line, "..."))
}

func TestParseErrorDefaultsVendorToUnknown(t *testing.T) {
	perr := events.NewParseError("bad json", "", "x", nil, events.ErrorContext{})
	assert.Equal(t, "unknown", perr.Vendor)
}

func TestParseErrorUnwrap(t *testing.T) {
	cause := errors.New("underlying")
	perr := events.NewParseError("bad json", "claude", "x", cause, events.ErrorContext{})
	assert.ErrorIs(t, perr, cause)
}

func TestParseErrorJSONShape(t *testing.T) {
	line := 7
	perr := events.NewParseError("invalid JSON", "claude", "{bad", nil, events.ErrorContext{LineNumber: &line})

	data, err := json.Marshal(perr)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, "ParseError", m["name"])
	assert.Equal(t, "claude", m["vendor"])
	ctx, ok := m["context"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(7), ctx["lineNumber"])
}
