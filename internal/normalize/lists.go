package normalize

import "strings"

// SplitList turns a semicolon-delimited field into trimmed, non-empty items.
// An empty field yields an empty (non-nil) slice.
func SplitList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}
	}
	if !strings.Contains(raw, ";") {
		return []string{raw}
	}
	parts := strings.Split(raw, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
