package events

import (
	"encoding/json"
	"time"
)

// Event is the envelope pushed to the UI over SSE. The viewer reacts to
// dataset_loaded by refetching /jobs and /filters.
type Event struct {
	Type      string          `json:"type"`
	Version   int             `json:"v"`
	At        time.Time       `json:"at"`
	RequestID string          `json:"request_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

const (
	TypePing          = "ping"
	TypeDatasetLoaded = "dataset_loaded"
)

func New(reqID, typ string, data any) Event {
	var raw json.RawMessage
	if data != nil {
		b, _ := json.Marshal(data)
		raw = b
	}
	return Event{
		Type:      typ,
		Version:   1,
		At:        time.Now().UTC(),
		RequestID: reqID,
		Data:      raw,
	}
}

// Encode renders the SSE data payload.
func (e Event) Encode() string {
	b, _ := json.Marshal(e)
	return string(b)
}
