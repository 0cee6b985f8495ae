package dto

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Timestamp accepts the createdAt shapes found in stored and exported listings:
// epoch milliseconds, an RFC 3339 string, or Mongo extended JSON
// ({"$date": ...} holding either of those or {"$numberLong": "..."}).
// Anything else decodes as absent rather than failing the whole document.
type Timestamp struct {
	Time  time.Time
	Valid bool
}

var timestampLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	*t = Timestamp{}
	if at, ok := decodeTimestamp(bytes.TrimSpace(data)); ok {
		*t = Timestamp{Time: at.UTC(), Valid: true}
	}
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if !t.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time)
}

func decodeTimestamp(data []byte) (time.Time, bool) {
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return time.Time{}, false
	}
	switch data[0] {
	case '"':
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return time.Time{}, false
		}
		return parseTimestampString(raw)
	case '{':
		var ext struct {
			Date       json.RawMessage `json:"$date"`
			NumberLong string          `json:"$numberLong"`
		}
		if err := json.Unmarshal(data, &ext); err != nil {
			return time.Time{}, false
		}
		if ext.NumberLong != "" {
			return parseTimestampString(ext.NumberLong)
		}
		return decodeTimestamp(bytes.TrimSpace(ext.Date))
	}
	var ms float64
	if err := json.Unmarshal(data, &ms); err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(ms)), true
}

func parseTimestampString(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.UnixMilli(ms), true
	}
	for _, layout := range timestampLayouts {
		if at, err := time.Parse(layout, raw); err == nil {
			return at, true
		}
	}
	return time.Time{}, false
}
