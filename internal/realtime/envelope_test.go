package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEnvelope(t *testing.T) {
	env, err := decodeEnvelope([]byte(`{"event":"see","data":{"a":1}}`))
	require.NoError(t, err)
	assert.Equal(t, "see", env.Event)
	assert.JSONEq(t, `{"a":1}`, string(env.Data))

	_, err = decodeEnvelope([]byte(`{"data":1}`))
	assert.Error(t, err)

	_, err = decodeEnvelope([]byte(`[1,2]`))
	assert.Error(t, err)
}

func TestEncodeEventNilDataIsNull(t *testing.T) {
	out, err := encodeEvent("replay", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"replay","data":null}`, string(out))

	out, err = encodeEvent("see", rawOrNull(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"see","data":null}`, string(out))
}

func TestFlexStringAcceptsScalars(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want flexString
	}{
		{"string", `"u1"`, "u1"},
		{"escaped string", `"a\"b"`, `a"b`},
		{"integer", `42`, "42"},
		{"float", `1.5`, "1.5"},
		{"bool", `true`, "true"},
		{"null", `null`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f flexString
			require.NoError(t, json.Unmarshal([]byte(tt.in), &f))
			assert.Equal(t, tt.want, f)
		})
	}
}

func TestFlexStringRejectsObjects(t *testing.T) {
	var p sendMessagePayload
	err := json.Unmarshal([]byte(`{"sender":{"id":1}}`), &p)
	assert.Error(t, err)
}
