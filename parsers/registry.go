package parsers

import (
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/schmitthub/agentstreamfmt/internal/logger"
)

// entry pairs a registered parser with its priority and insertion sequence,
// the latter used only to break priority ties stably.
type entry struct {
	parser   Parser
	vendor   string
	priority float64
	seq      int
}

// Registry is the priority-ordered collection of vendor parsers used for
// detection and explicit selection (spec section 4.B.1). The zero value is
// not usable; construct with NewRegistry or NewDefaultRegistry.
//
// Mutations (register/unregister) are serialized with a mutex. Rather than
// a heap, the registry keeps a slice re-sorted on every mutation: mutations
// are rare, lookups are frequent and want a stable, debuggable order.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
	sorted  []*entry
	nextSeq int
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

// NewDefaultRegistry returns a registry pre-populated with the three core
// vendor parsers at their spec-defined priorities: Claude 100, Amp 80,
// Gemini 10.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	// Errors are impossible here: priorities are finite literals and the
	// vendor names are non-empty non-"auto" constants.
	_ = r.Register(NewClaudeParser(), 100)
	_ = r.Register(NewAmpParser(), 80)
	_ = r.Register(NewGeminiParser(), 10)
	return r
}

// Register adds parser under priority, replacing any prior entry with the
// same vendor identifier (spec: "re-registering the same identifier
// replaces the prior entry").
func (r *Registry) Register(parser Parser, priority float64) error {
	if parser == nil {
		return ErrInvalidParser
	}
	vendor := strings.TrimSpace(parser.Vendor())
	if vendor == "" {
		return ErrInvalidParser
	}
	if vendor == AutoVendor {
		return ErrReservedVendor
	}
	if math.IsNaN(priority) || math.IsInf(priority, 0) {
		return ErrInvalidPriority
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	e := &entry{parser: parser, vendor: vendor, priority: priority, seq: r.nextSeq}
	r.nextSeq++
	r.entries[vendor] = e
	r.rebuild()
	logger.Debug().Str("vendor", vendor).Float64("priority", priority).Msg("parser registered")
	return nil
}

// Unregister removes vendor's parser. No-op if absent.
func (r *Registry) Unregister(vendor string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[vendor]; !ok {
		return
	}
	delete(r.entries, vendor)
	r.rebuild()
	logger.Debug().Str("vendor", vendor).Msg("parser unregistered")
}

// rebuild recomputes the sorted order: descending priority, then ascending
// insertion sequence as a stable tie-break. Caller must hold r.mu.
func (r *Registry) rebuild() {
	sorted := make([]*entry, 0, len(r.entries))
	for _, e := range r.entries {
		sorted = append(sorted, e)
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].priority != sorted[j].priority {
			return sorted[i].priority > sorted[j].priority
		}
		return sorted[i].seq < sorted[j].seq
	})
	r.sorted = sorted
}

// Get returns the parser registered under vendor, or ErrUnknownVendor.
func (r *Registry) Get(vendor string) (Parser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[vendor]
	if !ok {
		return nil, wrapVendor(ErrUnknownVendor, vendor)
	}
	return e.parser, nil
}

// snapshot returns the current priority-ordered entries without holding
// the lock across caller-supplied parser calls (Detect/Parse may be slow
// or, despite the contract, misbehave).
func (r *Registry) snapshot() []*entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entry, len(r.sorted))
	copy(out, r.sorted)
	return out
}

// DetectVendor tries each registered parser in priority order and returns
// the first match. A panic or any misbehavior from a parser's Detect is
// swallowed and logged at debug; detection continues with the next parser.
func (r *Registry) DetectVendor(line string) (Detection, bool) {
	for _, e := range r.snapshot() {
		if safeDetect(e.parser, line) {
			return Detection{Parser: e.parser, Vendor: e.vendor}, true
		}
	}
	return Detection{}, false
}

func safeDetect(p Parser, line string) (matched bool) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Debug().Interface("panic", rec).Str("vendor", p.Vendor()).Msg("parser Detect panicked; treated as false")
			matched = false
		}
	}()
	return p.Detect(line)
}

// DetectVendorMultiLine analyzes up to the first maxLines of lines (or all
// of them if fewer) and returns the parser with the most positive
// detections. Ties are broken by priority, then insertion order.
func (r *Registry) DetectVendorMultiLine(lines []string) (Detection, bool) {
	const maxLines = 10
	sample := lines
	if len(sample) > maxLines {
		sample = sample[:maxLines]
	}

	entries := r.snapshot()
	counts := make(map[string]int, len(entries))
	for _, line := range sample {
		for _, e := range entries {
			if safeDetect(e.parser, line) {
				counts[e.vendor]++
			}
		}
	}

	var best *entry
	bestCount := 0
	for _, e := range entries {
		c := counts[e.vendor]
		if c <= 0 {
			continue
		}
		if best == nil || c > bestCount {
			best = e
			bestCount = c
		}
		// entries is already priority/seq ordered, so the first entry
		// reaching a given count wins ties automatically.
	}
	if best == nil {
		return Detection{}, false
	}
	return Detection{Parser: best.parser, Vendor: best.vendor}, true
}

// DetectVendorWithConfidence resolves the first matching parser (by
// priority order, same as DetectVendor) and asks it — or a default
// fallback — for a confidence score.
func (r *Registry) DetectVendorWithConfidence(line string) (ConfidentDetection, bool) {
	for _, e := range r.snapshot() {
		if !safeDetect(e.parser, line) {
			continue
		}
		var score float64
		var reason string
		if scorer, ok := e.parser.(ConfidenceScorer); ok {
			score, reason = safeConfidence(scorer, line)
		} else {
			score, reason = 1.0, "detect matched; parser does not implement confidence scoring"
		}
		return ConfidentDetection{
			Parser:     e.parser,
			Vendor:     e.vendor,
			Confidence: score,
			Reason:     reason,
		}, true
	}
	return ConfidentDetection{}, false
}

func safeConfidence(s ConfidenceScorer, line string) (score float64, reason string) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Debug().Interface("panic", rec).Msg("parser Confidence panicked; treated as zero")
			score, reason = 0, "confidence scoring panicked"
		}
	}()
	return s.Confidence(line)
}

// Select resolves an explicit vendor, or — when vendor is AutoVendor —
// auto-detects against sampleLine. sampleLine is required for auto
// detection; its absence or unclassifiability is an error naming the
// failure.
func (r *Registry) Select(vendor string, sampleLine string, haveSampleLine bool) (Detection, error) {
	if vendor != AutoVendor {
		p, err := r.Get(vendor)
		if err != nil {
			return Detection{}, err
		}
		return Detection{Parser: p, Vendor: vendor}, nil
	}

	if !haveSampleLine {
		return Detection{}, ErrNoSampleLine
	}
	d, ok := r.DetectVendor(sampleLine)
	if !ok {
		return Detection{}, ErrVendorMismatch
	}
	return d, nil
}
