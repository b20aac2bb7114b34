package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/schmitthub/agentstreamfmt/events"
	"github.com/schmitthub/agentstreamfmt/internal/textutil"
)

// Color palette mirrors the teacher's internal/tui/styles.go palette,
// narrowed to the roles this renderer needs.
var (
	colorUser      = lipgloss.Color("#7D56F4")
	colorAssistant = lipgloss.Color("#04B575")
	colorSystem    = lipgloss.Color("#6C6C6C")
	colorTool      = lipgloss.Color("#AD58B4")
	colorSuccess   = lipgloss.Color("#04B575")
	colorError     = lipgloss.Color("#FF5F87")
	colorCost      = lipgloss.Color("#87CEEB")
	colorMuted     = lipgloss.Color("#626262")
	colorCode      = lipgloss.Color("#FFCC00")
)

// ANSIRenderer produces color-escaped terminal text.
type ANSIRenderer struct {
	opts Options
	ctx  *Context

	userStyle      lipgloss.Style
	assistantStyle lipgloss.Style
	systemStyle    lipgloss.Style
	toolStyle      lipgloss.Style
	successStyle   lipgloss.Style
	errorStyle     lipgloss.Style
	costStyle      lipgloss.Style
	mutedStyle     lipgloss.Style
	boldStyle      lipgloss.Style
	italicStyle    lipgloss.Style
	codeStyle      lipgloss.Style
}

// NewANSIRenderer returns a renderer for terminal output. When
// opts.ColorDisabled is set, every style renders as plain text.
func NewANSIRenderer(opts Options) *ANSIRenderer {
	r := &ANSIRenderer{opts: opts, ctx: newContext(opts.CollapseTools)}
	if opts.ColorDisabled {
		plain := lipgloss.NewStyle()
		r.userStyle, r.assistantStyle, r.systemStyle = plain, plain, plain
		r.toolStyle, r.successStyle, r.errorStyle = plain, plain, plain
		r.costStyle, r.mutedStyle = plain, plain
		r.boldStyle = plain
		r.italicStyle = plain
		r.codeStyle = plain
		return r
	}
	r.userStyle = lipgloss.NewStyle().Foreground(colorUser)
	r.assistantStyle = lipgloss.NewStyle().Foreground(colorAssistant)
	r.systemStyle = lipgloss.NewStyle().Foreground(colorSystem)
	r.toolStyle = lipgloss.NewStyle().Foreground(colorTool)
	r.successStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	r.errorStyle = lipgloss.NewStyle().Foreground(colorError)
	r.costStyle = lipgloss.NewStyle().Foreground(colorCost)
	r.mutedStyle = lipgloss.NewStyle().Foreground(colorMuted)
	r.boldStyle = lipgloss.NewStyle().Bold(true)
	r.italicStyle = lipgloss.NewStyle().Italic(true)
	r.codeStyle = lipgloss.NewStyle().Foreground(colorCode)
	return r
}

func (r *ANSIRenderer) roleStyle(role events.Role) lipgloss.Style {
	switch role {
	case events.RoleUser:
		return r.userStyle
	case events.RoleSystem:
		return r.systemStyle
	default:
		return r.assistantStyle
	}
}

func (r *ANSIRenderer) roleIcon(role events.Role) string {
	switch role {
	case events.RoleUser:
		return "👤"
	case events.RoleSystem:
		return "⚙️"
	default:
		return "💬"
	}
}

func (r *ANSIRenderer) Code(content string) string   { return r.codeStyle.Render(content) }
func (r *ANSIRenderer) Bold(content string) string   { return r.boldStyle.Render(content) }
func (r *ANSIRenderer) Italic(content string) string { return r.italicStyle.Render(content) }

func (r *ANSIRenderer) Render(e events.Event) string {
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
		out = r.renderCost(ev)
	case events.Error:
		out = r.errorStyle.Render("✗ " + ev.Message)
	case events.Debug:
		out = r.mutedStyle.Render(textutil.SafeStringify(ev.Raw))
	default:
		return ""
	}
	if out == "" {
		return ""
	}
	return r.withTimestamp(out) + "\n"
}

func (r *ANSIRenderer) renderMsg(ev events.Msg) string {
	r.ctx.MessageCount++
	text := textutil.EscapeEsc(ev.Text)
	text = ApplyMarkdown(text, r)
	style := r.roleStyle(ev.Role)
	return fmt.Sprintf("%s %s %s", r.roleIcon(ev.Role), style.Render(string(ev.Role)+":"), text)
}

func (r *ANSIRenderer) renderTool(ev events.Tool) string {
	switch ev.Phase {
	case events.PhaseStart:
		r.ctx.tools.onStart(ev.Name)
		line := "🔧 " + r.toolStyle.Render(ev.Name)
		if summary := paramSummary(ev.Name, ev.Text); summary != "" {
			line += " " + r.mutedStyle.Render(summary)
		}
		return line

	case events.PhaseStdout, events.PhaseStderr:
		st, existed := r.ctx.tools.onOutput(ev.Name)
		text := textutil.EscapeEsc(ev.Text)
		if existed && st.Collapsed {
			st.Append(text)
			return ""
		}
		prefix := "  │ "
		if ev.Phase == events.PhaseStderr {
			return r.errorStyle.Render(prefix + text)
		}
		return prefix + text

	case events.PhaseEnd:
		st, duration, existed := r.ctx.tools.onEnd(ev.Name)
		icon, style := "✅", r.successStyle
		if ev.ExitCode != nil && *ev.ExitCode != 0 {
			icon, style = "❌", r.errorStyle
		}
		durationMS := int64(0)
		if existed {
			durationMS = duration.Milliseconds()
		}
		line := fmt.Sprintf("%s %s completed %dms", icon, style.Render(ev.Name), durationMS)
		if existed && st.Collapsed {
			summary, n := st.Summary()
			if n > 0 {
				line += fmt.Sprintf(" (%s)", textutil.Truncate(summary, 100))
			}
		}
		return line

	default:
		return ""
	}
}

func (r *ANSIRenderer) renderCost(ev events.Cost) string {
	return r.costStyle.Render("💰 $" + formatCost(ev.DeltaUSD))
}

func (r *ANSIRenderer) withTimestamp(line string) string {
	if !r.opts.ShowTimestamps {
		return line
	}
	return fmt.Sprintf("[%s] %s", nowISO8601(), line)
}

func (r *ANSIRenderer) RenderBatch(evs []events.Event) string { return renderBatchVia(r, evs) }

// Flush emits a warning for each tool that never reached tool/end, per
// spec section 4.D.2 and scenario S6.
func (r *ANSIRenderer) Flush() string {
	var b strings.Builder
	for _, st := range r.ctx.tools.flush() {
		b.WriteString(r.errorStyle.Render(fmt.Sprintf("⚠ tool %q was interrupted (never completed)", st.Name)))
		b.WriteByte('\n')
	}
	return b.String()
}
