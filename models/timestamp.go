package models

import (
	"encoding/json"
	"strings"
	"time"
)

// Time written by the back-office. Decoding never fails: values that aren't an RFC 3339 string,
// a date ("2006-01-02") or Unix milliseconds decode to the zero time.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	t.Time = time.Time{}

	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return nil
	}

	switch v := v.(type) {
	case string:
		s := strings.TrimSpace(v)
		for _, layout := range timestampLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				t.Time = parsed
				return nil
			}
		}
	case float64:
		t.Time = time.UnixMilli(int64(v)).UTC()
	}

	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time)
}
