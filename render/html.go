package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/schmitthub/agentstreamfmt/events"
	"github.com/schmitthub/agentstreamfmt/internal/textutil"
)

// HTMLRenderer produces semantic HTML fragments with the CSS class hooks
// listed in spec section 4.D.4. It emits fragments only; wrapping into a
// full document (DOCTYPE, head, style) is left to the surrounding
// application, per spec.
//
// HTML entity-escaping uses the standard library's html.EscapeString: the
// need here is a single escape function applied to plain strings, not a
// templating engine, and nothing in the example pack brings a dedicated
// HTML-escaping library for that narrower job.
type HTMLRenderer struct {
	opts Options
	ctx  *Context
}

// NewHTMLRenderer returns a renderer that emits HTML fragments per opts.
func NewHTMLRenderer(opts Options) *HTMLRenderer {
	return &HTMLRenderer{opts: opts, ctx: newContext(opts.CollapseTools)}
}

func (r *HTMLRenderer) Code(content string) string   { return "<code>" + html.EscapeString(content) + "</code>" }
func (r *HTMLRenderer) Bold(content string) string   { return "<strong>" + content + "</strong>" }
func (r *HTMLRenderer) Italic(content string) string { return "<em>" + content + "</em>" }

func (r *HTMLRenderer) Render(e events.Event) string {
	if r.opts.hidden(string(e.Tag())) {
		return ""
	}

	var out string
	switch ev := e.(type) {
	case events.Msg:
		out = r.renderMsg(ev)
	case events.Tool:
		out = r.renderTool(ev)
	case events.Cost:
		out = fmt.Sprintf(`<div class="cost-info">$%s</div>`, formatCost(ev.DeltaUSD))
	case events.Error:
		out = fmt.Sprintf(`<div class="error-message">%s</div>`, html.EscapeString(ev.Message))
	case events.Debug:
		out = fmt.Sprintf(`<pre class="debug-info">%s</pre>`, html.EscapeString(textutil.SafeStringify(ev.Raw)))
	default:
		out = fmt.Sprintf(`<div class="unknown-event">%s</div>`, html.EscapeString(string(e.Tag())))
	}
	if out == "" {
		return ""
	}
	return r.withTimestamp(out)
}

func (r *HTMLRenderer) renderMsg(ev events.Msg) string {
	r.ctx.MessageCount++
	text := textutil.EscapeEsc(ev.Text)
	text = html.EscapeString(text)
	text = ApplyMarkdown(text, r)
	text = strings.ReplaceAll(text, "\n", "<br>")
	return fmt.Sprintf(`<div class="message message-%s">%s</div>`, html.EscapeString(string(ev.Role)), text)
}

func (r *HTMLRenderer) renderTool(ev events.Tool) string {
	escapedName := html.EscapeString(ev.Name)

	switch ev.Phase {
	case events.PhaseStart:
		r.ctx.tools.onStart(ev.Name)
		summary := ""
		if s := paramSummary(ev.Name, ev.Text); s != "" {
			summary = fmt.Sprintf(` title="%s"`, html.EscapeString(s))
		}
		return fmt.Sprintf(`<div class="tool-execution" data-tool="%s"><span class="tool-start"%s>%s</span></div>`,
			escapedName, summary, escapedName)

	case events.PhaseStdout, events.PhaseStderr:
		st, existed := r.ctx.tools.onOutput(ev.Name)
		text := html.EscapeString(textutil.EscapeEsc(ev.Text))
		if existed && st.Collapsed {
			st.Append(text)
			return ""
		}
		class := "tool-output tool-stdout"
		if ev.Phase == events.PhaseStderr {
			class = "tool-output tool-stderr"
		}
		return fmt.Sprintf(`<div class="%s" data-tool="%s">%s</div>`, class, escapedName, text)

	case events.PhaseEnd:
		st, duration, existed := r.ctx.tools.onEnd(ev.Name)
		status := "success"
		if ev.ExitCode != nil && *ev.ExitCode != 0 {
			status = "error"
		}
		durationMS := int64(0)
		if existed {
			durationMS = duration.Milliseconds()
		}
		summary := ""
		if existed && st.Collapsed {
			text, n := st.Summary()
			if n > 0 {
				summary = fmt.Sprintf(`<div class="tool-output">%s</div>`, html.EscapeString(textutil.Truncate(text, 100)))
			}
		}
		return fmt.Sprintf(`<div class="tool-end %s" data-tool="%s">completed %dms</div>%s`,
			status, escapedName, durationMS, summary)

	default:
		return ""
	}
}

func (r *HTMLRenderer) withTimestamp(fragment string) string {
	if !r.opts.ShowTimestamps {
		return fragment
	}
	return fmt.Sprintf(`<span class="timestamp">%s</span>%s`, html.EscapeString(nowISO8601()), fragment)
}

func (r *HTMLRenderer) RenderBatch(evs []events.Event) string { return renderBatchVia(r, evs) }

// Flush emits a tool-interrupted warning for each tool that never reached
// tool/end, per scenario S6.
func (r *HTMLRenderer) Flush() string {
	var b strings.Builder
	for _, st := range r.ctx.tools.flush() {
		b.WriteString(fmt.Sprintf(`<div class="tool-interrupted" data-tool="%s">tool %s was interrupted</div>`,
			html.EscapeString(st.Name), html.EscapeString(st.Name)))
	}
	return b.String()
}
