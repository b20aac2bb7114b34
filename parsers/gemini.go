package parsers

import (
	"encoding/json"

	"github.com/tidwall/gjson"

	"github.com/schmitthub/agentstreamfmt/events"
)

// GeminiParser implements the spec's "everything is a message" vendor:
// recognized JSON shapes decode normally, and anything else — non-JSON
// lines, empty strings, malformed JSON — becomes a free-text assistant
// message rather than an error. Because of this, GeminiParser.Detect
// always returns true; under auto-detection it is registered at the
// lowest priority so the other vendors get first refusal, and it silently
// "adopts" whatever they don't recognize. This is intentional per spec
// section 9 and must not be papered over with stricter detection.
type GeminiParser struct{}

// NewGeminiParser returns a ready-to-use Gemini parser. It is stateless.
func NewGeminiParser() *GeminiParser { return &GeminiParser{} }

func (p *GeminiParser) Vendor() string { return "gemini" }

func (p *GeminiParser) Detect(line string) bool { return true }

// Confidence reports a low score for the free-text fallback path and a
// higher one for recognized JSON shapes, per spec 9's note that this
// scoring is advisory only.
func (p *GeminiParser) Confidence(line string) (float64, string) {
	if !gjson.Valid(line) {
		return 0.1, "not valid JSON; adopted as free text"
	}
	t := gjson.Get(line, "type")
	switch t.String() {
	case "user", "assistant":
		return 0.9, "recognized message type"
	case "metadata":
		return 0.8, "recognized metadata type"
	default:
		return 0.3, "valid JSON but unrecognized shape"
	}
}

type geminiRecord struct {
	Type    string `json:"type"`
	Content string `json:"content"`

	Usage json.RawMessage `json:"usage"`
	Cost  *float64        `json:"cost"`
}

func (p *GeminiParser) Parse(line string) ([]events.Event, error) {
	if !gjson.Valid(line) {
		return []events.Event{events.Msg{Role: events.RoleAssistant, Text: line}}, nil
	}

	var rec geminiRecord
	if err := json.Unmarshal([]byte(line), &rec); err != nil {
		return []events.Event{events.Msg{Role: events.RoleAssistant, Text: line}}, nil
	}

	switch rec.Type {
	case "user", "assistant":
		return []events.Event{events.Msg{Role: events.Role(rec.Type), Text: rec.Content}}, nil

	case "metadata":
		if rec.Cost == nil && len(rec.Usage) == 0 {
			return []events.Event{events.Debug{Raw: rawToAny(line)}}, nil
		}
		delta := 0.0
		if rec.Cost != nil {
			delta = *rec.Cost
		}
		return []events.Event{events.Cost{DeltaUSD: delta}}, nil

	default:
		return []events.Event{events.Debug{Raw: rawToAny(line)}}, nil
	}
}
