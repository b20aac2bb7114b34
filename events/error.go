package events

import (
	"encoding/json"
	"fmt"
)

// maxDisplayLineLength bounds how much of an offending line a ParseError
// keeps for display, per spec section 3.5 ("the offending line (truncated
// for display)").
const maxDisplayLineLength = 200

// ErrorContext carries the structured location/expectation data attached
// to a ParseError, per spec section 3.5 and the wire shape in section 6.4.
type ErrorContext struct {
	LineNumber        *int   `json:"lineNumber,omitempty"`
	CharacterPosition *int   `json:"characterPosition,omitempty"`
	ExpectedFormat    string `json:"expectedFormat,omitempty"`
}

// ParseError is the structured failure a vendor parser raises from Parse,
// or that the streaming coordinator wraps a parser's error into. It
// serializes to the wire shape in spec section 6.4 for structured logging.
type ParseError struct {
	MessageText string
	Vendor      string
	Line        string
	Cause       error
	Context     ErrorContext
}

// NewParseError constructs a ParseError, truncating line for display and
// defaulting vendor to "unknown" when empty.
func NewParseError(message, vendor, line string, cause error, ctx ErrorContext) *ParseError {
	if vendor == "" {
		vendor = "unknown"
	}
	return &ParseError{
		MessageText: message,
		Vendor:      vendor,
		Line:        truncateLine(line),
		Cause:       cause,
		Context:     ctx,
	}
}

func truncateLine(line string) string {
	runes := []rune(line)
	if len(runes) <= maxDisplayLineLength {
		return line
	}
	return string(runes[:maxDisplayLineLength]) + "..."
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (vendor=%s, line=%q)", e.MessageText, e.Cause, e.Vendor, e.Line)
	}
	return fmt.Sprintf("%s (vendor=%s, line=%q)", e.MessageText, e.Vendor, e.Line)
}

// Unwrap exposes the underlying cause for errors.Is/errors.As.
func (e *ParseError) Unwrap() error { return e.Cause }

// wireParseError mirrors spec section 6.4's JSON shape.
type wireParseError struct {
	Name    string       `json:"name"`
	Message string       `json:"message"`
	Vendor  string       `json:"vendor"`
	Context ErrorContext `json:"context"`
}

// MarshalJSON renders e per the ParseError wire shape in spec section 6.4.
func (e *ParseError) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireParseError{
		Name:    "ParseError",
		Message: e.Error(),
		Vendor:  e.Vendor,
		Context: e.Context,
	})
}
