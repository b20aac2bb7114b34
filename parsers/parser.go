// Package parsers classifies and decodes one line of vendor-specific JSON
// into the normalized events.Event model, and maintains the priority-ordered
// registry that picks a vendor for a stream (spec section 4.B).
package parsers

import (
	"errors"
	"fmt"

	"github.com/schmitthub/agentstreamfmt/events"
)

// AutoVendor is the reserved pseudo-vendor identifier that selects
// auto-detection; it can never be registered as a real parser's vendor.
const AutoVendor = "auto"

// Parser decodes lines belonging to one vendor's wire format.
type Parser interface {
	// Vendor returns the stable, lowercase identifier this parser handles.
	Vendor() string

	// Detect is a fast, pure predicate: does line look like this vendor's
	// format? It must never panic; any internal failure is equivalent to
	// returning false.
	Detect(line string) bool

	// Parse decodes one line into zero or more normalized events. A line
	// that is structurally valid but semantically unrecognized is mapped
	// to a single debug event rather than dropped, unless the vendor's
	// native semantics treat free text as first-class (Gemini).
	Parse(line string) ([]events.Event, error)
}

// Describable is an optional capability a Parser may implement to expose
// richer metadata than the mandatory Parser contract requires (spec
// section 3.2's "optional metadata"). Minimal third-party parsers are not
// required to implement it; callers that want this information type-assert
// for it, mirroring the teacher's small-mandatory-interface-plus-optional-
// capability pattern.
type Describable interface {
	// Version reports this parser's own version, independent of the
	// source protocol version it decodes.
	Version() string

	// SupportedSourceVersions lists the upstream wire-format versions
	// this parser is known to decode correctly.
	SupportedSourceVersions() []string

	// Doc returns a short human-readable description of the vendor
	// format this parser decodes.
	Doc() string
}

// ConfidenceScorer is an optional capability a Parser may implement to
// participate in detectVendorWithConfidence. Parsers that don't implement
// it are still eligible for confidence-scored detection via a fallback
// confidence of 1.0 when Detect succeeds; a parser whose Detect fails is
// skipped.
type ConfidenceScorer interface {
	// Confidence returns a score in [0,1] and a short human-readable
	// reason. Only meaningful when Detect(line) is true; scoring is
	// advisory, not part of the hard contract beyond monotonicity.
	Confidence(line string) (score float64, reason string)
}

var (
	// ErrUnknownVendor is returned by Get/select/unregister-adjacent
	// lookups when the named vendor has no registered parser.
	ErrUnknownVendor = errors.New("parsers: unknown vendor")

	// ErrVendorMismatch is returned by select when auto-detection cannot
	// classify the sample line against any registered parser.
	ErrVendorMismatch = errors.New("parsers: could not detect vendor")

	// ErrReservedVendor is returned by register when the caller attempts
	// to register the reserved "auto" identifier.
	ErrReservedVendor = errors.New("parsers: \"auto\" is a reserved vendor identifier")

	// ErrInvalidParser is returned by register for a nil parser or a
	// parser reporting an empty/whitespace-only vendor identifier.
	ErrInvalidParser = errors.New("parsers: invalid parser")

	// ErrInvalidPriority is returned by register when priority is NaN or
	// +/-Inf.
	ErrInvalidPriority = errors.New("parsers: priority must be finite")

	// ErrNoSampleLine is returned by select under auto-detection when no
	// sample line was supplied.
	ErrNoSampleLine = errors.New("parsers: auto-detection requires a sample line")
)

// Detection pairs a resolved parser with the vendor name it was registered
// under, for callers that want to report which vendor bound.
type Detection struct {
	Parser Parser
	Vendor string
}

// ConfidentDetection is the result of detectVendorWithConfidence.
type ConfidentDetection struct {
	Parser     Parser
	Vendor     string
	Confidence float64
	Reason     string
}

func wrapVendor(err error, vendor string) error {
	return fmt.Errorf("%w: %q", err, vendor)
}
