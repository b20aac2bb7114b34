package render

import (
	"strings"
	"time"
)

// ToolState is the per-tool bookkeeping a renderer keeps alive between
// tool/start and tool/end, per spec section 4.D.2.
type ToolState struct {
	Name      string
	Started   time.Time
	Collapsed bool

	buffer    strings.Builder
	lineCount int
}

// Append records one line of output for a collapsed tool's eventual
// tail summary.
func (s *ToolState) Append(text string) {
	if s.buffer.Len() > 0 {
		s.buffer.WriteByte('\n')
	}
	s.buffer.WriteString(text)
	s.lineCount++
}

// Summary returns the accumulated collapsed output and the number of
// lines it represents.
func (s *ToolState) Summary() (string, int) {
	return s.buffer.String(), s.lineCount
}

// toolTracker is the shared tool-lifecycle state machine spec section
// 4.D.2 says is "duplicated across ANSI and HTML in the source" and
// should be factored into one helper. Each concrete renderer drives it
// with onStart/onOutput/onEnd/flush and renders the tool states those
// hooks return in its own output format.
type toolTracker struct {
	states        map[string]*ToolState
	order         []string // insertion order, for deterministic flush
	collapseTools bool
	now           func() time.Time
}

func newToolTracker(collapseTools bool) *toolTracker {
	return &toolTracker{
		states:        make(map[string]*ToolState),
		collapseTools: collapseTools,
		now:           time.Now,
	}
}

// onStart registers new tool state for name, per spec 4.D.2's "record a
// ToolState keyed by name, capturing start time, empty output buffer, and
// the current collapsed flag." A repeated start for the same name (no
// matching end yet) replaces the prior state, since the state machine
// tracks one live instance per name.
func (t *toolTracker) onStart(name string) *ToolState {
	if _, exists := t.states[name]; !exists {
		t.order = append(t.order, name)
	}
	st := &ToolState{Name: name, Started: t.now(), Collapsed: t.collapseTools}
	t.states[name] = st
	return st
}

// onOutput returns the live ToolState for name (nil, false if none is
// tracked — e.g. output arrived with no matching start, which per spec
// 4.D.2 MUST NOT crash the renderer).
func (t *toolTracker) onOutput(name string) (*ToolState, bool) {
	st, ok := t.states[name]
	return st, ok
}

// onEnd removes and returns the live ToolState for name along with its
// elapsed duration. ok is false when no start was tracked.
func (t *toolTracker) onEnd(name string) (st *ToolState, duration time.Duration, ok bool) {
	st, ok = t.states[name]
	if !ok {
		return nil, 0, false
	}
	duration = t.now().Sub(st.Started)
	delete(t.states, name)
	t.removeFromOrder(name)
	return st, duration, true
}

// flush drains every tool that never reached tool/end, in start order, for
// the caller to render as interrupted/still-running warnings (spec
// 4.D.2's flush obligation; scenario S6).
func (t *toolTracker) flush() []*ToolState {
	if len(t.order) == 0 {
		return nil
	}
	out := make([]*ToolState, 0, len(t.order))
	for _, name := range t.order {
		if st, ok := t.states[name]; ok {
			out = append(out, st)
		}
	}
	t.states = make(map[string]*ToolState)
	t.order = nil
	return out
}

func (t *toolTracker) removeFromOrder(name string) {
	for i, n := range t.order {
		if n == name {
			t.order = append(t.order[:i], t.order[i+1:]...)
			return
		}
	}
}
