package parsers

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/tidwall/gjson"

	"github.com/schmitthub/agentstreamfmt/events"
)

// ClaudeParser decodes Claude's stream-json records, modeled after the
// Anthropic stream-json AssistantEvent/ContentBlock shapes this module's
// teacher already parsed for its own loop runner, generalized to the
// flatter envelope spec section 4.B.3 describes: classification by a
// single top-level "type" discriminator rather than a nested message
// object.
type ClaudeParser struct {
	mu      sync.Mutex
	toolUse map[string]string // tool_use_id -> tool name, for tool_result lookup
}

// NewClaudeParser returns a ready-to-use Claude parser. Each parser
// instance carries the tool_use_id -> name state needed to attribute a
// later tool_result to its originating tool_use, so one instance should be
// used for exactly one stream (the coordinator's vendor-stickiness policy
// guarantees this).
func NewClaudeParser() *ClaudeParser {
	return &ClaudeParser{toolUse: make(map[string]string)}
}

func (p *ClaudeParser) Vendor() string { return "claude" }

// Version reports this parser's own version, per the optional Describable
// capability (parsers.Describable).
func (p *ClaudeParser) Version() string { return "1.0.0" }

// SupportedSourceVersions lists the stream-json envelope shapes this
// parser decodes: the flat, single-discriminator record spec section
// 4.B.3 describes, plus the richer array-of-content-blocks message shape
// (messageText) some upstream emitters still send.
func (p *ClaudeParser) SupportedSourceVersions() []string {
	return []string{"stream-json-flat-v1", "stream-json-content-blocks-v1"}
}

// Doc describes the vendor format this parser decodes.
func (p *ClaudeParser) Doc() string {
	return "Decodes Claude's line-delimited stream-json records: message, " +
		"tool_use/tool_result, usage, and error, keyed by a top-level " +
		"\"type\" discriminator."
}

// claudeTypeHint are the substrings a Detect pre-check looks for before
// attempting a full JSON parse, per spec 4.B.3's "cheap substring
// heuristics" guidance.
var claudeTypeHint = []string{`"type"`}

func (p *ClaudeParser) Detect(line string) bool {
	if !hasAnySubstring(line, claudeTypeHint) {
		return false
	}
	t := gjson.Get(line, "type")
	if !t.Exists() {
		return false
	}
	switch t.String() {
	case "message", "tool_use", "tool_result", "usage", "error":
		return true
	default:
		// Any other recognized-but-unknown type is still a Claude JSON
		// object structurally (it has the discriminator field); Detect
		// only needs to confirm this looks like Claude's shape.
		return gjson.Valid(line)
	}
}

type claudeRecord struct {
	Type    string          `json:"type"`
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`

	Name string `json:"name"`
	Text string `json:"text"`

	ToolUseID string `json:"tool_use_id"`
	ExitCode  *int   `json:"exit_code"`

	InputTokens  *int     `json:"input_tokens"`
	OutputTokens *int     `json:"output_tokens"`
	DeltaUSD     *float64 `json:"delta_usd"`

	Message string `json:"message"`

	IsError *bool `json:"is_error"`
}

func (p *ClaudeParser) Parse(line string) ([]events.Event, error) {
	var rec claudeRecord
	if err := json.Unmarshal([]byte(line), &rec); err != nil {
		return nil, events.NewParseError("invalid JSON", p.Vendor(), line, err, events.ErrorContext{
			ExpectedFormat: "JSON object with a \"type\" discriminator",
		})
	}

	switch rec.Type {
	case "message":
		text, err := messageText(rec.Content)
		if err != nil {
			return []events.Event{events.Debug{Raw: rawToAny(line)}}, nil
		}
		role := events.Role(rec.Role)
		switch role {
		case events.RoleUser, events.RoleAssistant, events.RoleSystem:
		default:
			return []events.Event{events.Debug{Raw: rawToAny(line)}}, nil
		}
		return []events.Event{events.Msg{Role: role, Text: text}}, nil

	case "tool_use":
		p.mu.Lock()
		if rec.ToolUseID != "" {
			p.toolUse[rec.ToolUseID] = rec.Name
		}
		p.mu.Unlock()
		return []events.Event{events.Tool{Name: rec.Name, Phase: events.PhaseStart, Text: rec.Text}}, nil

	case "tool_result":
		name := p.lookupToolName(rec.ToolUseID)
		text, err := stringOrRaw(rec.Content)
		if err != nil {
			text = string(rec.Content)
		}
		out := []events.Event{events.Tool{Name: name, Phase: events.PhaseStdout, Text: text}}
		if code, ok := inferExitCode(rec.ExitCode, rec.IsError); ok {
			out = append(out, events.Tool{Name: name, Phase: events.PhaseEnd, ExitCode: &code})
		}
		return out, nil

	case "usage":
		delta := 0.0
		hasDelta := false
		if rec.DeltaUSD != nil {
			delta = *rec.DeltaUSD
			hasDelta = true
		}
		tokens := 0
		if rec.InputTokens != nil {
			tokens += *rec.InputTokens
		}
		if rec.OutputTokens != nil {
			tokens += *rec.OutputTokens
		}
		if !hasDelta && tokens == 0 {
			return nil, nil
		}
		return []events.Event{events.Cost{DeltaUSD: delta}}, nil

	case "error":
		msg := rec.Message
		if msg == "" {
			msg = rec.Text
		}
		return []events.Event{events.Error{Message: msg}}, nil

	default:
		return []events.Event{events.Debug{Raw: rawToAny(line)}}, nil
	}
}

func (p *ClaudeParser) lookupToolName(id string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if id == "" {
		return ""
	}
	return p.toolUse[id]
}

// inferExitCode decides whether a tool/end should follow a tool_result,
// per spec 4.B.3 ("followed by a tool/end if an exit_code is present or
// can be inferred"). An explicit exit_code always wins; absent that, an
// explicit is_error boolean is inferred to 1 (error) or 0 (success).
// Absent both, the lifecycle is left open (tolerating partial lifecycles).
func inferExitCode(exitCode *int, isError *bool) (int, bool) {
	if exitCode != nil {
		return *exitCode, true
	}
	if isError != nil {
		if *isError {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// stringOrRaw interprets a json.RawMessage as a bare JSON string if
// possible, otherwise stringifies the underlying value for transport.
func stringOrRaw(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	return "", fmt.Errorf("content is not a JSON string")
}

// contentBlock is one entry of the richer, array-shaped content some
// upstream Claude emitters still send instead of spec 4.B.3's flat string
// (extended-thinking traces are only ever sent this way). Text carries
// type "text", Thinking carries type "thinking".
type contentBlock struct {
	Type     string `json:"type"`
	Text     string `json:"text"`
	Thinking string `json:"thinking"`
}

// messageText accepts either a message's content shape: the flat string
// spec 4.B.3 describes, or an array of content blocks. Thinking blocks are
// folded in rather than dropped, each prefixed "(thinking) " so a reader
// can tell the trace apart from the model's spoken reply; this enriches
// the flat-string case without contradicting it, since most messages carry
// only one shape or the other.
func messageText(raw json.RawMessage) (string, error) {
	if s, err := stringOrRaw(raw); err == nil {
		return s, nil
	}

	var blocks []contentBlock
	if err := json.Unmarshal(raw, &blocks); err != nil {
		return "", fmt.Errorf("content is neither a string nor a content-block array")
	}

	var parts []string
	for _, b := range blocks {
		switch b.Type {
		case "thinking":
			if b.Thinking != "" {
				parts = append(parts, "(thinking) "+b.Thinking)
			}
		case "text":
			parts = append(parts, b.Text)
		}
	}
	return strings.Join(parts, "\n"), nil
}

func rawToAny(line string) any {
	var v any
	if err := json.Unmarshal([]byte(line), &v); err != nil {
		return line
	}
	return v
}

func hasAnySubstring(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
