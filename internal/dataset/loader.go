package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"jobview-engine/internal/record"
)

// Parse decodes a dataset file: a JSON array of posting objects. The top
// level is strict — anything that is not well-formed JSON or not an array is
// an error and the caller must leave its current record set alone. Elements
// are lenient: fields that are missing, empty, or the wrong shape degrade to
// the record defaults, never to an error.
func Parse(data []byte) ([]record.JobRecord, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil, fmt.Errorf("dataset is not a JSON array: %w", err)
	}
	// A bare `null` decodes into a nil slice without error; it is not an
	// array and must not wipe the current set.
	if elems == nil {
		return nil, errors.New("dataset is not a JSON array: top-level value is null")
	}

	out := make([]record.JobRecord, 0, len(elems))
	for _, e := range elems {
		var raw record.Raw
		// Element-level decode errors are absorbed: whatever fields did
		// decode are kept, the rest default.
		_ = json.Unmarshal(e, &raw)
		out = append(out, record.Normalize(raw))
	}
	return out, nil
}

// LoadFile reads and parses an on-disk dataset.
func LoadFile(path string) ([]record.JobRecord, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	return Parse(b)
}
