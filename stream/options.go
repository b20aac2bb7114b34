// Package stream drives a lineread.Reader through a parsers.Registry,
// producing a lazy, pull-based sequence of normalized events — Component C
// of the pipeline (spec section 4.C).
package stream

import (
	"github.com/schmitthub/agentstreamfmt/lineread"
	"github.com/schmitthub/agentstreamfmt/parsers"
)

// DefaultMaxConsecutiveErrors bounds back-to-back recoverable failures
// before the coordinator gives up, per spec section 4.C.
const DefaultMaxConsecutiveErrors = 100

// Options configures a Coordinator.
type Options struct {
	// Vendor is an explicit registered vendor identifier, or
	// parsers.AutoVendor to auto-detect from the stream's own content.
	Vendor string

	// ContinueOnError controls whether a recoverable failure (a parse
	// error, or a failed auto-detection attempt while still unbound)
	// surfaces as an `error` event and continues, or terminates the
	// stream immediately. The spec's documented default is true; because
	// Go's zero bool defaults to false, callers that want the spec
	// default should construct Options via NewOptions rather than a bare
	// literal.
	ContinueOnError bool

	// EmitDebugEvents, when true, injects a synthetic debug event
	// announcing the bound vendor on the first successful parse, and a
	// summary debug event at end of stream.
	EmitDebugEvents bool

	// MaxConsecutiveErrors bounds back-to-back recoverable failures.
	// Non-positive values fall back to DefaultMaxConsecutiveErrors.
	MaxConsecutiveErrors int

	// LineReaderOptions configures the underlying lineread.Reader.
	LineReaderOptions lineread.Options
}

// NewOptions returns Options for vendor with the spec's documented
// defaults: ContinueOnError true, EmitDebugEvents false,
// MaxConsecutiveErrors 100.
func NewOptions(vendor string) Options {
	return Options{
		Vendor:               vendor,
		ContinueOnError:      true,
		MaxConsecutiveErrors: DefaultMaxConsecutiveErrors,
	}
}

func (o Options) withDefaults() Options {
	if o.MaxConsecutiveErrors <= 0 {
		o.MaxConsecutiveErrors = DefaultMaxConsecutiveErrors
	}
	if o.Vendor == "" {
		o.Vendor = parsers.AutoVendor
	}
	return o
}
