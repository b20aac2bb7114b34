package render

import (
	"encoding/json"

	"github.com/tidwall/pretty"

	"github.com/schmitthub/agentstreamfmt/events"
)

// JSONRenderer re-serializes normalized events to their wire shape (spec
// section 6.2), either as newline-delimited compact JSON or pretty-printed
// with blank-line separators, per spec section 4.D.5. Tool-lifecycle
// tracking is maintained purely so Flush behaves consistently with the
// other renderers; individual events are otherwise emitted verbatim, with
// no narrative formatting.
type JSONRenderer struct {
	opts Options
	ctx  *Context
}

// NewJSONRenderer returns a renderer that serializes events to JSON per
// opts.PrettyMode.
func NewJSONRenderer(opts Options) *JSONRenderer {
	return &JSONRenderer{opts: opts, ctx: newContext(opts.CollapseTools)}
}

func (r *JSONRenderer) Render(e events.Event) string {
	if r.opts.hidden(string(e.Tag())) {
		return ""
	}
	r.trackLifecycle(e)

	encoded, err := events.Encode(e)
	if err != nil {
		return ""
	}
	encoded = r.withTimestamp(encoded)
	return r.format(encoded)
}

// trackLifecycle drives the shared toolTracker from tool events so Flush
// can report interrupted tools consistently with the other renderers; it
// has no effect on what Render emits for the triggering event itself.
func (r *JSONRenderer) trackLifecycle(e events.Event) {
	tool, ok := e.(events.Tool)
	if !ok {
		return
	}
	switch tool.Phase {
	case events.PhaseStart:
		r.ctx.tools.onStart(tool.Name)
	case events.PhaseEnd:
		r.ctx.tools.onEnd(tool.Name)
	}
}

func (r *JSONRenderer) withTimestamp(encoded []byte) []byte {
	if !r.opts.ShowTimestamps {
		return encoded
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(encoded, &obj); err != nil {
		return encoded
	}
	ts, err := json.Marshal(nowISO8601())
	if err != nil {
		return encoded
	}
	obj["timestamp"] = ts
	out, err := json.Marshal(obj)
	if err != nil {
		return encoded
	}
	return out
}

func (r *JSONRenderer) format(encoded []byte) string {
	if r.opts.PrettyMode {
		return string(pretty.Pretty(encoded)) + "\n"
	}
	return string(encoded) + "\n"
}

func (r *JSONRenderer) RenderBatch(evs []events.Event) string { return renderBatchVia(r, evs) }

// Flush emits one error event per tool that never reached tool/end, in
// the same wire shape as any other error, keeping JSON output consistent
// with the other renderers' flush behavior (scenario S6).
func (r *JSONRenderer) Flush() string {
	var out string
	for _, st := range r.ctx.tools.flush() {
		out += r.Render(events.Error{Message: "tool " + st.Name + " was interrupted (never completed)"})
	}
	return out
}
