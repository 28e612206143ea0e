package patch

import (
	"github.com/pmezard/go-difflib/difflib"
)

// DiffContext is the number of unchanged lines shown around each hunk
const DiffContext = 3

// UnifiedDiff renders a unified line diff between before and after.
// It returns "" when the two are identical.
func UnifiedDiff(from, to string, before, after []string) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        terminate(before),
		B:        terminate(after),
		FromFile: from,
		ToFile:   to,
		Context:  DiffContext,
		Eol:      "\n",
	})
}

// terminate appends a newline to each line; difflib expects lines that
// carry their own terminator.
func terminate(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l + "\n"
	}
	return out
}
