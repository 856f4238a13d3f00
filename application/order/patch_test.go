package order

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, body string) map[string]json.RawMessage {
	t.Helper()
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(body), &raw))
	return raw
}

func TestDecodePatch(t *testing.T) {
	t.Run("status and reason", func(t *testing.T) {
		p := DecodePatch(decode(t, `{"status":"cancelled","cancel_reason":"no stock"}`))
		require.NotNil(t, p.Status)
		require.NotNil(t, p.CancelReason)
		assert.Equal(t, "cancelled", *p.Status)
		assert.Equal(t, "no stock", *p.CancelReason)
		assert.Empty(t, p.UnknownKeys)
		assert.Empty(t, p.MalformedKeys)
	})

	t.Run("absent keys stay nil", func(t *testing.T) {
		p := DecodePatch(decode(t, `{}`))
		assert.Nil(t, p.Status)
		assert.Nil(t, p.CancelReason)
	})

	t.Run("unknown keys collected", func(t *testing.T) {
		p := DecodePatch(decode(t, `{"status":"completed","owner":"x","total_price":1}`))
		assert.ElementsMatch(t, []string{"owner", "total_price"}, p.UnknownKeys)
	})

	t.Run("non-string status kept as raw text", func(t *testing.T) {
		p := DecodePatch(decode(t, `{"status":5}`))
		require.NotNil(t, p.Status)
		assert.Equal(t, "5", *p.Status)

		p = DecodePatch(decode(t, `{"status":null}`))
		require.NotNil(t, p.Status)
		assert.Equal(t, "null", *p.Status)
	})

	t.Run("null reason is present and empty", func(t *testing.T) {
		p := DecodePatch(decode(t, `{"cancel_reason":null}`))
		require.NotNil(t, p.CancelReason)
		assert.Equal(t, "", *p.CancelReason)
	})

	t.Run("non-string reason is malformed", func(t *testing.T) {
		p := DecodePatch(decode(t, `{"cancel_reason":["a"]}`))
		assert.Nil(t, p.CancelReason)
		assert.Equal(t, []string{"cancel_reason"}, p.MalformedKeys)
	})
	t.Log("✓ patch bodies decode into workflow input")
}
