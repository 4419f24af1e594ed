package models

import (
	"encoding/json"
	"time"
)

// Accepted ISO-8601 layouts, with and without timezone designator.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Timestamp wraps time.Time with lenient ISO-8601 JSON decoding. A value that
// fails to parse surfaces as a ValidationError instead of a bare time error.
type Timestamp struct {
	time.Time
}

// ParseTimestamp parses ISO-8601 text; zone-less values are taken as UTC.
func ParseTimestamp(value string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, &ValidationError{Field: "timestamp", Reason: "expected ISO 8601 format (YYYY-MM-DDTHH:MM:SSZ)"}
}

// UnmarshalJSON implements json.Unmarshaler.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return &ValidationError{Field: "timestamp", Reason: "expected string value"}
	}
	parsed, err := ParseTimestamp(raw)
	if err != nil {
		return err
	}
	ts.Time = parsed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(ts.UTC().Format(time.RFC3339Nano))
}
