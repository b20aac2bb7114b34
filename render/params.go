package render

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/schmitthub/agentstreamfmt/internal/textutil"
)

// specialTools is the non-normative convenience list of tool names that
// receive a custom one-line parameter summary, per spec section 4.D.3.
// Per spec section 9's open question 1, the exact summary rules are
// vendor-specific UX and may drift; this list and its summaries are a
// reasonable default, not a hard contract.
var specialTools = map[string]func(map[string]any) string{
	"Read":         fileSummary,
	"Write":        fileSummary,
	"Edit":         fileSummary,
	"MultiEdit":    fileSummary,
	"NotebookRead": fileSummary,
	"Bash": func(in map[string]any) string {
		return fieldSummary(in, "command", 60)
	},
	"Glob": func(in map[string]any) string {
		return fieldSummary(in, "pattern", 60)
	},
	"Grep": func(in map[string]any) string {
		return fieldSummary(in, "pattern", 60)
	},
	"LS": func(in map[string]any) string {
		return fieldSummary(in, "path", 60)
	},
	"WebFetch": func(in map[string]any) string {
		return fieldSummary(in, "url", 80)
	},
	"WebSearch": func(in map[string]any) string {
		return fieldSummary(in, "query", 60)
	},
	"Task": func(in map[string]any) string {
		return fieldSummary(in, "description", 60)
	},
	"TodoWrite": func(in map[string]any) string {
		items, _ := in["todos"].([]any)
		return fmt.Sprintf("%d item(s)", len(items))
	},
}

func fileSummary(in map[string]any) string {
	return fieldSummary(in, "file_path", 80)
}

func fieldSummary(in map[string]any, key string, width int) string {
	v, ok := in[key]
	if !ok {
		return ""
	}
	return textutil.Truncate(fmt.Sprintf("%v", v), width)
}

// paramSummary extracts a one-line parameter summary from a tool/start
// event's JSON-encoded Text field. Unknown tools fall back to the first
// input key/value pair, truncated; malformed or empty input yields "".
func paramSummary(toolName, inputJSON string) string {
	if inputJSON == "" {
		return ""
	}
	var input map[string]any
	if err := json.Unmarshal([]byte(inputJSON), &input); err != nil {
		return ""
	}

	if fn, ok := specialTools[toolName]; ok {
		return fn(input)
	}
	return firstKeyValueSummary(input)
}

func firstKeyValueSummary(input map[string]any) string {
	if len(input) == 0 {
		return ""
	}
	keys := make([]string, 0, len(input))
	for k := range input {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	k := keys[0]
	return textutil.Truncate(fmt.Sprintf("%s=%v", k, input[k]), 60)
}

// formatCost renders a cost delta per spec 4.D.4: non-finite inputs
// normalize to 0.0000; negative values keep their leading minus.
func formatCost(deltaUSD float64) string {
	if math.IsNaN(deltaUSD) || math.IsInf(deltaUSD, 0) {
		deltaUSD = 0
	}
	return fmt.Sprintf("%.4f", deltaUSD)
}
