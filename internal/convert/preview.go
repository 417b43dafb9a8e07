package convert

import (
	"fmt"
	"io"
	"strings"

	"github.com/gyeh/clinicprep/internal/model"
)

const previewChars = 400

// Preview prints examples for human review: id, truncated instruction with
// line breaks shown as " | ", and the gold response or <EMPTY>.
func Preview(w io.Writer, examples []*model.Example) {
	fmt.Fprintln(w, "=== SAMPLE EXAMPLES FOR HUMAN REVIEW ===")
	fmt.Fprintln(w)
	for _, ex := range examples {
		fmt.Fprintln(w, "ID:", ex.ID)
		fmt.Fprintln(w, "Instruction:", strings.ReplaceAll(truncate(ex.Instruction, previewChars), "\n", " | "))
		resp := "<EMPTY>"
		if ex.Response != "" {
			resp = truncate(ex.Response, previewChars)
		}
		fmt.Fprintln(w, "Response (gold):", resp)
		fmt.Fprintln(w, strings.Repeat("-", 80))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Please review the sample examples. Ensure PHI is removed and instructions are clear.")
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
