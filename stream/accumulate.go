package stream

import (
	"context"
	"io"
	"strings"

	"github.com/schmitthub/agentstreamfmt/events"
)

// Accumulated collects assistant text and tool-invocation counts across an
// entire stream, for callers that want a post-hoc summary rather than an
// event-by-event view. Grounded on the teacher's TextAccumulator/
// NewTextAccumulator convenience pair in internal/loop/stream.go.
type Accumulated struct {
	texts      []string
	toolStarts int
	totalCost  float64
	errors     []string
}

// Text returns all accumulated assistant message text, joined by newlines.
func (a *Accumulated) Text() string { return strings.Join(a.texts, "\n") }

// ToolStartCount returns the number of tool/start events observed.
func (a *Accumulated) ToolStartCount() int { return a.toolStarts }

// TotalCostUSD returns the sum of every cost event's DeltaUSD.
func (a *Accumulated) TotalCostUSD() float64 { return a.totalCost }

// Errors returns every error event's message, in emission order.
func (a *Accumulated) Errors() []string { return a.errors }

// Accumulate drains c.Events(ctx, source) fully and returns a summary. It
// stops at the first fatal error, returning the partial accumulation
// alongside that error.
func Accumulate(ctx context.Context, c *Coordinator, source io.Reader) (*Accumulated, error) {
	acc := &Accumulated{}
	for ev, err := range c.Events(ctx, source) {
		if err != nil {
			return acc, err
		}
		switch e := ev.(type) {
		case events.Msg:
			if e.Role == events.RoleAssistant {
				acc.texts = append(acc.texts, e.Text)
			}
		case events.Tool:
			if e.Phase == events.PhaseStart {
				acc.toolStarts++
			}
		case events.Cost:
			acc.totalCost += e.DeltaUSD
		case events.Error:
			acc.errors = append(acc.errors, e.Message)
		}
	}
	return acc, nil
}
