package normalize

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/gyeh/clinicprep/internal/model"
)

// ParseVitals parses either a flat JSON object or semicolon-separated
// key:value pairs. It never fails; unparseable input yields empty Vitals.
func ParseVitals(raw string) model.Vitals {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return model.Vitals{}
	}
	if v, ok := parseVitalsJSON(raw); ok {
		return v
	}
	out := model.Vitals{}
	for _, seg := range strings.Split(raw, ";") {
		seg = strings.TrimSpace(seg)
		k, v, ok := strings.Cut(seg, ":")
		if !ok {
			continue
		}
		out.Set(strings.TrimSpace(k), strings.TrimSpace(v))
	}
	return out
}

// parseVitalsJSON decodes a JSON object keeping key order. String values are
// taken verbatim; any other value is kept as its compact JSON text.
func parseVitalsJSON(raw string) (model.Vitals, bool) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return nil, false
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, false
	}
	out := model.Vitals{}
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return nil, false
		}
		key, ok := kt.(string)
		if !ok {
			return nil, false
		}
		var val json.RawMessage
		if err := dec.Decode(&val); err != nil {
			return nil, false
		}
		out.Set(key, stringifyJSON(val))
	}
	if _, err := dec.Token(); err != nil {
		return nil, false
	}
	// Trailing data means this was not a single JSON document.
	if dec.InputOffset() != int64(len(raw)) {
		return nil, false
	}
	return out, true
}

func stringifyJSON(val json.RawMessage) string {
	if len(val) > 0 && val[0] == '"' {
		var s string
		if err := json.Unmarshal(val, &s); err == nil {
			return s
		}
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, val); err != nil {
		return string(val)
	}
	return buf.String()
}
