package events

import (
	"encoding/json"
	"fmt"
	"math"
)

// wireEnvelope is the on-the-wire shape shared by every event variant.
// Field names are case-sensitive and fixed by the external JSON contract;
// omitempty keeps variant-specific fields out of events that don't carry
// them.
type wireEnvelope struct {
	T        Tag             `json:"t"`
	Role     Role            `json:"role,omitempty"`
	Text     string          `json:"text,omitempty"`
	Name     string          `json:"name,omitempty"`
	Phase    Phase           `json:"phase,omitempty"`
	ExitCode *int            `json:"exitCode,omitempty"`
	DeltaUSD *float64        `json:"deltaUsd,omitempty"`
	Message  string          `json:"message,omitempty"`
	Raw      json.RawMessage `json:"raw,omitempty"`
}

// MarshalJSON renders m per the msg wire shape in spec section 6.2.
func (m Msg) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireEnvelope{T: TagMsg, Role: m.Role, Text: m.Text})
}

// MarshalJSON renders t per the tool wire shape in spec section 6.2.
func (t Tool) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireEnvelope{
		T:        TagTool,
		Name:     t.Name,
		Phase:    t.Phase,
		Text:     t.Text,
		ExitCode: t.ExitCode,
	})
}

// MarshalJSON renders c per the cost wire shape. NaN and infinite values
// have no JSON representation; encoding/json.Marshal would otherwise
// return an UnsupportedValueError, so they are coerced to 0 here — callers
// that need the raw float should read Cost.DeltaUSD directly instead of
// round-tripping through JSON.
func (c Cost) MarshalJSON() ([]byte, error) {
	delta := c.DeltaUSD
	if math.IsNaN(delta) || math.IsInf(delta, 0) {
		delta = 0
	}
	return json.Marshal(wireEnvelope{T: TagCost, DeltaUSD: &delta})
}

// MarshalJSON renders e per the error wire shape.
func (e Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireEnvelope{T: TagError, Message: e.Message})
}

// MarshalJSON renders d per the debug wire shape. Raw is re-encoded
// verbatim; a value that cannot be encoded (e.g. a channel placed there by
// a caller constructing Debug by hand rather than via a parser) is
// substituted with a string describing the failure so Marshal itself never
// fails.
func (d Debug) MarshalJSON() ([]byte, error) {
	raw, err := json.Marshal(d.Raw)
	if err != nil {
		raw, _ = json.Marshal(fmt.Sprintf("<unencodable debug.raw: %s>", err))
	}
	return json.Marshal(wireEnvelope{T: TagDebug, Raw: raw})
}

// Encode marshals e to its wire form, one JSON object with no trailing
// newline.
func Encode(e Event) ([]byte, error) {
	return json.Marshal(e)
}

// Decode parses a single wire-form JSON object back into an Event. It is
// permissive: unknown fields are ignored, and a missing exitCode/deltaUsd
// simply leaves the corresponding field at its zero value.
func Decode(data []byte) (Event, error) {
	var env wireEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}

	switch env.T {
	case TagMsg:
		return Msg{Role: env.Role, Text: env.Text}, nil
	case TagTool:
		return Tool{Name: env.Name, Phase: env.Phase, Text: env.Text, ExitCode: env.ExitCode}, nil
	case TagCost:
		var delta float64
		if env.DeltaUSD != nil {
			delta = *env.DeltaUSD
		}
		return Cost{DeltaUSD: delta}, nil
	case TagError:
		return Error{Message: env.Message}, nil
	case TagDebug:
		var raw any
		if len(env.Raw) > 0 {
			if err := json.Unmarshal(env.Raw, &raw); err != nil {
				return nil, fmt.Errorf("decode debug.raw: %w", err)
			}
		}
		return Debug{Raw: raw}, nil
	default:
		return nil, fmt.Errorf("decode event: unknown tag %q", env.T)
	}
}
