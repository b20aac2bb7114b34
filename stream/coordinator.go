package stream

import (
	"context"
	"fmt"
	"io"
	"iter"

	"github.com/google/uuid"

	"github.com/schmitthub/agentstreamfmt/events"
	"github.com/schmitthub/agentstreamfmt/internal/textutil"
	"github.com/schmitthub/agentstreamfmt/lineread"
	"github.com/schmitthub/agentstreamfmt/parsers"
)

// maxDebugLineLength bounds how much of an offending line a diagnostic
// debug event embeds, per spec section 4.C.2.e ("truncated line (≤200
// chars)").
const maxDebugLineLength = 200

// Coordinator drives a lineread.Reader through a parsers.Registry and
// yields normalized events, one stream at a time (spec section 4.C).
type Coordinator struct {
	registry *parsers.Registry
	opts     Options
}

// New returns a Coordinator that resolves vendors against registry using
// opts.
func New(registry *parsers.Registry, opts Options) *Coordinator {
	return &Coordinator{registry: registry, opts: opts.withDefaults()}
}

// Events returns a lazy sequence of (event, error) pairs decoded from
// source. A non-nil error is always the last pair yielded, and marks a
// fatal condition (detection failure, a propagated parse error under
// ContinueOnError=false, or consecutive-error budget exhaustion) — it is
// distinct from the normal end of stream, which yields no further pairs
// and no error at all.
//
// Consuming code that stops ranging early (a `break`) triggers the same
// cleanup as a fatal error or a normal end of stream: the underlying
// lineread.Reader, and through it the source, is released within one
// suspension step.
func (c *Coordinator) Events(ctx context.Context, source io.Reader) iter.Seq2[events.Event, error] {
	return func(yield func(events.Event, error) bool) {
		// Explicit-vendor existence does not depend on stream content, so
		// it is validated once, up front, rather than per line.
		var bound parsers.Parser
		var boundVendor string
		if c.opts.Vendor != parsers.AutoVendor {
			p, err := c.registry.Get(c.opts.Vendor)
			if err != nil {
				yield(nil, err)
				return
			}
			bound = p
			boundVendor = c.opts.Vendor
		}

		reader := lineread.New(source, c.opts.LineReaderOptions)

		// One synthetic identifier per Events() call, surfaced in the debug
		// events below so a caller aggregating logs across many coordinator
		// runs can tell them apart without supplying its own ID.
		runID := uuid.New().String()

		var (
			totalLines        int
			successfulLines   int
			errorLines        int
			consecutiveErrors int
			vendorAnnounced   bool
			sawAnyLine        bool
		)

		emitRecoverable := func(errEvent events.Event, debugEvent events.Event, hasDebug bool, cause error) (stop bool, fatal error) {
			errorLines++
			if !yield(errEvent, nil) {
				return true, nil
			}
			if c.opts.EmitDebugEvents && hasDebug {
				if !yield(debugEvent, nil) {
					return true, nil
				}
			}
			if !c.opts.ContinueOnError {
				return true, cause
			}
			consecutiveErrors++
			if consecutiveErrors >= c.opts.MaxConsecutiveErrors {
				return true, fatalConsecutiveErrors(consecutiveErrors, successfulLines, totalLines)
			}
			return false, nil
		}

		// Ranging over reader.Lines (rather than calling Next directly) makes
		// every early return below release the reader and its source.
		for line, err := range reader.Lines(ctx) {
			if err != nil {
				yield(nil, err)
				return
			}
			sawAnyLine = true
			totalLines++

			if bound == nil {
				d, ok := c.registry.DetectVendor(line.Text)
				if !ok {
					stop, fatal := emitRecoverable(
						events.Error{Message: fmt.Sprintf("Line %d: could not detect vendor", line.Number)},
						events.Debug{Raw: map[string]any{
							"line":  textutil.Truncate(line.Text, maxDebugLineLength),
							"cause": "no registered parser matched this line",
						}},
						true,
						fatalUnclassifiable(line.Number),
					)
					if stop {
						if fatal != nil {
							yield(nil, fatal)
						}
						return
					}
					continue
				}
				bound = d.Parser
				boundVendor = d.Vendor
			}

			evs, perr := bound.Parse(line.Text)
			if perr != nil {
				// Per spec section 4.C step 2.e, the parse-error object
				// itself (not just the derived error event's message) is
				// enriched with the current line number, unless the parser
				// already set one.
				if pe, ok := perr.(*events.ParseError); ok && pe.Context.LineNumber == nil {
					ln := line.Number
					pe.Context.LineNumber = &ln
				}

				stop, fatal := emitRecoverable(
					events.Error{Message: fmt.Sprintf("Line %d: %s", line.Number, perr.Error())},
					events.Debug{Raw: map[string]any{
						"line":  textutil.Truncate(line.Text, maxDebugLineLength),
						"cause": perr.Error(),
					}},
					true,
					perr,
				)
				if stop {
					if fatal != nil {
						yield(nil, fatal)
					}
					return
				}
				continue
			}

			consecutiveErrors = 0
			successfulLines++

			if c.opts.EmitDebugEvents && !vendorAnnounced {
				vendorAnnounced = true
				if !yield(events.Debug{Raw: map[string]any{"vendorDetected": boundVendor, "runID": runID}}, nil) {
					return
				}
			}

			for _, e := range evs {
				if !yield(e, nil) {
					return
				}
			}
		}

		if c.opts.EmitDebugEvents && sawAnyLine {
			successRate := 0.0
			if totalLines > 0 {
				successRate = float64(successfulLines) / float64(totalLines)
			}
			yield(events.Debug{Raw: map[string]any{
				"runID":           runID,
				"totalLines":      totalLines,
				"successfulLines": successfulLines,
				"errorLines":      errorLines,
				"successRate":     successRate,
			}}, nil)
		}
	}
}
