package parsers

import (
	"encoding/json"

	"github.com/tidwall/gjson"

	"github.com/schmitthub/agentstreamfmt/events"
)

// AmpParser decodes Amp's phase-keyed tool-lifecycle JSON records.
type AmpParser struct{}

// NewAmpParser returns a ready-to-use Amp parser. It is stateless: unlike
// Claude's tool_result, Amp's output/end records already carry the task
// name, so no id-to-name tracking is needed across lines.
func NewAmpParser() *AmpParser { return &AmpParser{} }

func (p *AmpParser) Vendor() string { return "amp" }

var ampHints = []string{`"phase"`, `"task"`}

func (p *AmpParser) Detect(line string) bool {
	if !hasAnySubstring(line, ampHints) {
		return false
	}
	if !gjson.Valid(line) {
		return false
	}
	return gjson.Get(line, "phase").Exists()
}

type ampRecord struct {
	Phase string `json:"phase"`
	Task  string `json:"task"`

	Type    string `json:"type"`
	Content string `json:"content"`

	ExitCode *int   `json:"exitCode"`
	Status   string `json:"status"`
}

func (p *AmpParser) Parse(line string) ([]events.Event, error) {
	var rec ampRecord
	if err := json.Unmarshal([]byte(line), &rec); err != nil {
		return nil, events.NewParseError("invalid JSON", p.Vendor(), line, err, events.ErrorContext{
			ExpectedFormat: `JSON object with a "phase" discriminator`,
		})
	}

	switch rec.Phase {
	case "start":
		return []events.Event{events.Tool{Name: rec.Task, Phase: events.PhaseStart}}, nil

	case "output":
		var phase events.Phase
		switch rec.Type {
		case "stdout":
			phase = events.PhaseStdout
		case "stderr":
			phase = events.PhaseStderr
		default:
			return []events.Event{events.Debug{Raw: rawToAny(line)}}, nil
		}
		return []events.Event{events.Tool{Name: rec.Task, Phase: phase, Text: rec.Content}}, nil

	case "end":
		tool := events.Tool{Name: rec.Task, Phase: events.PhaseEnd}
		if rec.ExitCode != nil {
			tool.ExitCode = rec.ExitCode
		} else if rec.Status != "" {
			code := ampStatusExitCode(rec.Status)
			tool.ExitCode = &code
		}
		return []events.Event{tool}, nil

	default:
		return []events.Event{events.Debug{Raw: rawToAny(line)}}, nil
	}
}

// ampStatusExitCode infers a plausible exit code from Amp's textual status
// field when no numeric exitCode is present, the same kind of inference
// spec 4.B.3 allows for Claude's tool_result.
func ampStatusExitCode(status string) int {
	switch status {
	case "ok", "success", "completed":
		return 0
	default:
		return 1
	}
}
