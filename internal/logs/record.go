package logs

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"ytwhisper/internal/logging"
)

// Record is one decoded JSON log line.
type Record struct {
	Time      time.Time
	Level     string
	Message   string
	Component string
	ItemID    string
	Stage     string
	RunID     string
	Fields    map[string]any
}

var reservedKeys = map[string]bool{
	"ts": true, "level": true, "msg": true, "source": true,
	logging.FieldComponent: true, logging.FieldItemID: true,
	logging.FieldStage: true, logging.FieldCorrelationID: true,
}

// ParseRecord decodes a line written by the JSON log handler. Lines that are
// not JSON objects report ok=false.
func ParseRecord(line string) (Record, bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "{") {
		return Record{}, false
	}
	var raw map[string]any
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return Record{}, false
	}
	rec := Record{
		Level:     strings.ToUpper(stringField(raw, "level")),
		Message:   stringField(raw, "msg"),
		Component: stringField(raw, logging.FieldComponent),
		ItemID:    stringField(raw, logging.FieldItemID),
		Stage:     stringField(raw, logging.FieldStage),
		RunID:     stringField(raw, logging.FieldCorrelationID),
	}
	if ts, err := time.Parse(time.RFC3339, stringField(raw, "ts")); err == nil {
		rec.Time = ts
	}
	for key, value := range raw {
		if reservedKeys[key] {
			continue
		}
		if rec.Fields == nil {
			rec.Fields = make(map[string]any)
		}
		rec.Fields[key] = value
	}
	return rec, true
}

// String renders the record on one line in local time.
func (r Record) String() string {
	var b strings.Builder
	if !r.Time.IsZero() {
		b.WriteString(r.Time.Local().Format("2006-01-02 15:04:05"))
		b.WriteByte(' ')
	}
	b.WriteString(r.Level)
	if r.Component != "" {
		fmt.Fprintf(&b, " [%s]", r.Component)
	}
	if r.ItemID != "" {
		b.WriteString(" " + r.ItemID)
	}
	if r.Stage != "" {
		fmt.Fprintf(&b, " (%s)", r.Stage)
	}
	b.WriteString(" – ")
	b.WriteString(r.Message)

	keys := make([]string, 0, len(r.Fields))
	for key := range r.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(&b, " %s=%v", key, r.Fields[key])
	}
	return b.String()
}

func stringField(raw map[string]any, key string) string {
	if v, ok := raw[key].(string); ok {
		return v
	}
	return ""
}
