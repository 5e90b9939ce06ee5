// Package board defines the wire-level data model for the confession board:
// messages and song confessions as they arrive from the remote API, plus the
// normalization rules for identifiers and timestamps.
//
// The API is loose about both: ids arrive as JSON strings or numbers
// depending on the endpoint, and timestamps arrive as epoch milliseconds,
// epoch seconds, or date strings. Everything downstream (de-duplication,
// removal, rendering) works on the canonical forms produced here.
package board

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Kind identifies which board an item belongs to.
type Kind string

const (
	// KindMessage is a plain confession message.
	KindMessage Kind = "message"

	// KindSongfess is a song confession.
	KindSongfess Kind = "songfess"
)

// TimeLayout is the canonical ISO-8601 form all timestamps normalize to.
// Epoch input and date-string input for the same instant produce the same
// string, so normalized timestamps are directly comparable.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Item is one board entry as received from the API.
//
// Only the id and the creation timestamp are interpreted; every other field
// is carried through in Fields untouched so the reconciliation layer stays
// agnostic of the payload shape.
type Item struct {
	// ID is the normalized (canonical string) identifier. The API sends
	// ids as either JSON strings or numbers; both forms of the same id
	// normalize to the same value.
	ID string

	// CreatedAt is the normalized creation timestamp, nil when the field
	// is absent or unparseable. Rendering shows a placeholder for nil,
	// never a raw invalid value.
	CreatedAt *string

	// Fields holds the raw payload, keyed by field name.
	Fields map[string]json.RawMessage
}

// timeFields are the payload keys treated as points in time, in lookup order.
var timeFields = []string{"created_at", "updated_at", "timestamp", "ts"}

// UnmarshalJSON decodes an item, extracting and normalizing the id and
// creation timestamp while keeping the rest of the payload raw.
func (it *Item) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	it.Fields = fields
	it.ID = ""
	it.CreatedAt = nil

	if raw, ok := fields["id"]; ok {
		it.ID = normalizeRawID(raw)
	}
	for _, key := range timeFields {
		if raw, ok := fields[key]; ok {
			it.CreatedAt = normalizeRawTime(raw)
			break
		}
	}
	return nil
}

// MarshalJSON re-emits the raw payload unchanged.
func (it Item) MarshalJSON() ([]byte, error) {
	return json.Marshal(it.Fields)
}

// Str returns the named payload field as a string, or "" when absent.
// Non-string scalars come back in their literal JSON form.
func (it Item) Str(key string) string {
	raw, ok := it.Fields[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

// NormalizeID converts an identifier of any wire form (string, JSON number,
// integer) to its canonical string form. String "1" and number 1 compare
// equal after normalization.
func NormalizeID(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case json.Number:
		return id.String()
	case float64:
		if id == float64(int64(id)) {
			return strconv.FormatInt(int64(id), 10)
		}
		return strconv.FormatFloat(id, 'f', -1, 64)
	case int:
		return strconv.Itoa(id)
	case int64:
		return strconv.FormatInt(id, 10)
	default:
		return ""
	}
}

// normalizeRawID canonicalizes a raw JSON id value.
func normalizeRawID(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return strings.TrimSpace(string(raw))
}

// NormalizeTime converts any value plausibly representing a point in time to
// the canonical ISO-8601 string. Numeric input is interpreted as epoch
// milliseconds when large enough to be one, epoch seconds otherwise.
// Unparseable input yields nil, the explicit "unknown" marker.
func NormalizeTime(v any) *string {
	switch t := v.(type) {
	case string:
		return normalizeTimeString(t)
	case float64:
		return normalizeEpoch(int64(t))
	case int64:
		return normalizeEpoch(t)
	case int:
		return normalizeEpoch(int64(t))
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return normalizeEpoch(n)
		}
		return normalizeTimeString(t.String())
	case time.Time:
		s := t.UTC().Format(TimeLayout)
		return &s
	default:
		return nil
	}
}

// normalizeRawTime canonicalizes a raw JSON timestamp value.
func normalizeRawTime(raw json.RawMessage) *string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return normalizeTimeString(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return NormalizeTime(n)
	}
	return nil
}

// epochMillisFloor: values at or above this are epoch milliseconds, below it
// epoch seconds. The crossover (~Sep 2001 in ms, ~33658 AD in s) is far from
// any timestamp this system produces.
const epochMillisFloor = 1e12

func normalizeEpoch(n int64) *string {
	if n <= 0 {
		return nil
	}
	var t time.Time
	if n >= epochMillisFloor {
		t = time.UnixMilli(n)
	} else {
		t = time.Unix(n, 0)
	}
	s := t.UTC().Format(TimeLayout)
	return &s
}

// timeStringLayouts are the date-string forms the API has been seen to emit.
var timeStringLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func normalizeTimeString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	// Epoch value arriving as a string.
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return normalizeEpoch(n)
	}
	for _, layout := range timeStringLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			out := t.UTC().Format(TimeLayout)
			return &out
		}
	}
	return nil
}
