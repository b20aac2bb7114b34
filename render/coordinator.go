package render

import (
	"context"
	"io"
	"iter"

	"github.com/schmitthub/agentstreamfmt/events"
	"github.com/schmitthub/agentstreamfmt/stream"
)

// Coordinator combines a streaming coordinator with a Renderer — the
// "render coordinator" / streamFormat of spec section 4.D.6.
type Coordinator struct {
	stream   *stream.Coordinator
	renderer Renderer
	filter   map[events.Tag]bool // nil: no filtering, every tag passes
}

// NewCoordinator returns a render coordinator driving renderer from sc's
// event stream. When tags is non-empty, only events whose tag appears in
// it are rendered; all others are dropped before reaching the renderer.
func NewCoordinator(sc *stream.Coordinator, renderer Renderer, tags ...events.Tag) *Coordinator {
	var filter map[events.Tag]bool
	if len(tags) > 0 {
		filter = make(map[events.Tag]bool, len(tags))
		for _, t := range tags {
			filter[t] = true
		}
	}
	return &Coordinator{stream: sc, renderer: renderer, filter: filter}
}

// Format yields the renderer's output chunks in order, followed by its
// flush output at end of stream. On a fatal error from the underlying
// stream, the renderer is flushed (yielding any pending closures) before
// the error is propagated as the final pair, per spec section 4.D.6.
func (c *Coordinator) Format(ctx context.Context, source io.Reader) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for ev, err := range c.stream.Events(ctx, source) {
			if err != nil {
				if flushed := c.renderer.Flush(); flushed != "" {
					if !yield(flushed, nil) {
						return
					}
				}
				yield("", err)
				return
			}

			if c.filter != nil && !c.filter[ev.Tag()] {
				continue
			}

			chunk := c.renderer.Render(ev)
			if chunk == "" {
				continue
			}
			if !yield(chunk, nil) {
				return
			}
		}

		if flushed := c.renderer.Flush(); flushed != "" {
			yield(flushed, nil)
		}
	}
}
