package events

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCostNonFiniteValuesRoundTripToZero(t *testing.T) {
	for _, delta := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		data, err := Encode(Cost{DeltaUSD: delta})
		require.NoError(t, err)
		decoded, err := Decode(data)
		require.NoError(t, err)
		assert.Equal(t, Cost{DeltaUSD: 0}, decoded)
	}
}

// TestMsgRoundTripsThroughWire covers spec section 8's property that
// Encode/Decode is a round trip for every constructible event: for any
// role/text pair, decoding an encoded Msg reproduces it exactly.
func TestMsgRoundTripsThroughWire(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("Msg survives Encode/Decode", prop.ForAll(
		func(role, text string) bool {
			m := Msg{Role: Role(role), Text: text}
			data, err := Encode(m)
			if err != nil {
				return false
			}
			decoded, err := Decode(data)
			if err != nil {
				return false
			}
			got, ok := decoded.(Msg)
			return ok && got == m
		},
		gen.AlphaString(),
		gen.AnyString(),
	))

	properties.TestingRun(t)
}

// TestCostEncodeNeverFailsAndNormalizesNonFinite covers the invariant that
// Cost.MarshalJSON never errors for any float64 input, and separately pins
// down NaN/+Inf/-Inf as always round-tripping to 0.
func TestCostEncodeNeverFailsAndNormalizesNonFinite(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("Cost always encodes and finite values round-trip", prop.ForAll(
		func(delta float64) bool {
			c := Cost{DeltaUSD: delta}
			data, err := Encode(c)
			if err != nil {
				return false
			}
			decoded, err := Decode(data)
			if err != nil {
				return false
			}
			got, ok := decoded.(Cost)
			if !ok {
				return false
			}
			if math.IsNaN(delta) || math.IsInf(delta, 0) {
				return got.DeltaUSD == 0
			}
			return got.DeltaUSD == delta
		},
		gen.Float64(),
	))

	properties.TestingRun(t)
}

// TestEveryEventTagIsOneOfTheFiveKnownTags covers invariant 1: every
// constructed Event reports a Tag() drawn from the five-variant enum, for
// any combination of constructor inputs.
func TestEveryEventTagIsOneOfTheFiveKnownTags(t *testing.T) {
	known := map[Tag]bool{TagMsg: true, TagTool: true, TagCost: true, TagError: true, TagDebug: true}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("Msg/Tool/Cost/Error/Debug tags are always known", prop.ForAll(
		func(s string, f float64) bool {
			events := []Event{
				Msg{Role: Role(s), Text: s},
				Tool{Name: s, Phase: Phase(s), Text: s},
				Cost{DeltaUSD: f},
				Error{Message: s},
				Debug{Raw: s},
			}
			for _, e := range events {
				if !known[e.Tag()] {
					return false
				}
			}
			return true
		},
		gen.AnyString(),
		gen.Float64(),
	))

	properties.TestingRun(t)
}
