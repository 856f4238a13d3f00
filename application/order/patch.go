package order

import (
	"bytes"
	"encoding/json"

	"storefront/domain/order"
)

// DecodePatch turns a raw JSON object into an order.Patch.
//
// A status that is not a JSON string is kept as its raw text so the
// workflow rejects it as an unknown status. A null cancel_reason counts as
// present and empty. Any other non-string cancel_reason is malformed.
func DecodePatch(raw map[string]json.RawMessage) order.Patch {
	var patch order.Patch
	for key, value := range raw {
		switch key {
		case "status":
			var s string
			if err := json.Unmarshal(value, &s); err != nil || isNull(value) {
				s = string(bytes.TrimSpace(value))
			}
			patch.Status = &s
		case "cancel_reason":
			var s string
			if isNull(value) {
				patch.CancelReason = &s
				continue
			}
			if err := json.Unmarshal(value, &s); err != nil {
				patch.MalformedKeys = append(patch.MalformedKeys, key)
				continue
			}
			patch.CancelReason = &s
		default:
			patch.UnknownKeys = append(patch.UnknownKeys, key)
		}
	}
	return patch
}

func isNull(value json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(value), []byte("null"))
}
