package realtime

import (
	"bytes"
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var nullData = jsoniter.RawMessage("null")

// Envelope is one socket frame: {"event": "...", "data": ...}.
type Envelope struct {
	Event string              `json:"event"`
	Data  jsoniter.RawMessage `json:"data,omitempty"`
}

type outbound struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

func decodeEnvelope(raw []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, fmt.Errorf("invalid envelope: %w", err)
	}
	if env.Event == "" {
		return Envelope{}, fmt.Errorf("invalid envelope: missing event name")
	}
	return env, nil
}

// encodeEvent renders an outbound frame; nil data is sent as JSON null.
func encodeEvent(event string, data interface{}) ([]byte, error) {
	if raw, ok := data.(jsoniter.RawMessage); ok && len(bytes.TrimSpace(raw)) == 0 {
		data = nullData
	}
	return json.Marshal(outbound{Event: event, Data: data})
}

// flexString accepts a JSON string, number or bool and keeps its text form.
// Clients send ids and timestamps in either shape.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	switch b[0] {
	case '{', '[':
		return fmt.Errorf("expected scalar, got %s", string(b))
	}
	*f = flexString(b)
	return nil
}

type sendMessagePayload struct {
	Sender   flexString   `json:"sender"`
	Riciver  flexString   `json:"riciver"`
	Message  string       `json:"message"`
	Realtime flexString   `json:"realtime"`
	MediaURL string       `json:"mediaUrl"`
	Call     *callPayload `json:"call"`
}

type callPayload struct {
	Type     flexString `json:"type"`
	Duration flexString `json:"duration"`
}

type sendReplayPayload struct {
	ChatID flexString `json:"chatId"`
	Replay string     `json:"replay"`
	Image  string     `json:"image"`
}
