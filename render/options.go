// Package render turns a normalized event stream into formatted output —
// ANSI-colored terminal text, HTML fragments, or re-serialized JSON —
// Component D of the pipeline (spec section 4.D).
package render

// Format selects the concrete renderer.
type Format string

const (
	FormatANSI Format = "ansi"
	FormatHTML Format = "html"
	FormatJSON Format = "json"
)

// Options configures any Renderer, per spec section 4.D.1.
type Options struct {
	Format Format

	// CollapseTools, when true, accumulates tool stdout/stderr and
	// summarizes it at tool/end rather than streaming it inline.
	CollapseTools bool

	HideTools bool
	HideCost  bool
	HideDebug bool

	// ShowTimestamps prefixes/attaches a timestamp to each rendered
	// event, in renderer-specific formatting.
	ShowTimestamps bool

	// PrettyMode is read only by the JSON renderer: setting it selects
	// indented pretty-printing instead of the default
	// newline-delimited compact output (spec section 4.D.5's "compact
	// (default)"). Left unset (false), every renderer's zero-value
	// Options therefore already matches the spec's documented default.
	PrettyMode bool

	// ColorDisabled, meaningful only to the ANSI renderer, disables
	// color escapes entirely (for non-TTY sinks).
	ColorDisabled bool
}

func (o Options) hidden(tag string) bool {
	switch tag {
	case "tool":
		return o.HideTools
	case "cost":
		return o.HideCost
	case "debug":
		return o.HideDebug
	default:
		return false
	}
}
