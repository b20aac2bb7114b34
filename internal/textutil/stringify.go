package textutil

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/pretty"
)

// SafeStringify renders an arbitrary value (typically an events.Debug.Raw
// payload) as pretty-printed JSON for terminal/HTML display. encoding/json
// cannot decode a cyclic structure from JSON input, so the "[Circular]"
// guard the source renderer needs does not apply here; this still recovers
// from a panic during marshaling (e.g. a caller constructing Debug by hand
// with an unencodable Go value such as a channel or func) so a pathological
// payload can never crash a render call.
func SafeStringify(v any) (s string) {
	defer func() {
		if r := recover(); r != nil {
			s = fmt.Sprintf("[error stringifying value: %v]", r)
		}
	}()

	compact, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("[error stringifying value: %s]", err)
	}
	return string(pretty.Pretty(compact))
}
