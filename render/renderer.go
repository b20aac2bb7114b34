package render

import (
	"time"

	"github.com/schmitthub/agentstreamfmt/events"
)

// Renderer turns normalized events into formatted output fragments, per
// spec section 4.D.
type Renderer interface {
	// Render renders one event, possibly returning "" (e.g. when filtered
	// by Options).
	Render(e events.Event) string

	// RenderBatch renders each event in evs and concatenates the results.
	RenderBatch(evs []events.Event) string

	// Flush emits any pending closures at end of stream — warnings for
	// tools that never reached tool/end.
	Flush() string
}

// Context is the per-renderer mutable state described in spec section
// 3.4: an active tool map, a message counter, and a render-start
// timestamp for relative timing. It is local to one renderer instance;
// renderers are not shareable across streams.
type Context struct {
	StartedAt    time.Time
	MessageCount int

	tools *toolTracker
}

func newContext(collapseTools bool) *Context {
	return &Context{
		StartedAt: time.Now(),
		tools:     newToolTracker(collapseTools),
	}
}

func renderBatchVia(r Renderer, evs []events.Event) string {
	var b []byte
	for _, e := range evs {
		b = append(b, r.Render(e)...)
	}
	return string(b)
}
