package patch

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/teranos/crepr/errors"
)

// Change is the unit of patching: lines inserted at, or removed from,
// Offset (0-indexed into the original file's lines).
type Change struct {
	ClassName string   `json:"class"`
	Lines     []string `json:"lines"`
	Offset    int      `json:"offset"`
}

// ordered returns the indexes of changes sorted by descending offset.
// Equal offsets are ordered by descending registration index, so that
// inserting them one after another leaves them in registration order.
func ordered(changes []Change) []int {
	idx := make([]int, len(changes))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ca, cb := changes[idx[a]], changes[idx[b]]
		if ca.Offset != cb.Offset {
			return ca.Offset > cb.Offset
		}
		return idx[a] > idx[b]
	})
	return idx
}

// Insert splices every change into lines and returns the new line list.
// lines is not modified.
func Insert(lines []string, changes []Change) ([]string, error) {
	out := make([]string, len(lines))
	copy(out, lines)

	for _, i := range ordered(changes) {
		c := changes[i]
		if c.Offset < 0 || c.Offset > len(lines) {
			return nil, errors.AssertionFailedf("insert offset %d for class %s outside [0, %d]",
				c.Offset, c.ClassName, len(lines))
		}

		next := make([]string, 0, len(out)+len(c.Lines))
		next = append(next, out[:c.Offset]...)
		next = append(next, c.Lines...)
		next = append(next, out[c.Offset:]...)
		out = next
	}
	return out, nil
}

// Remove deletes every change's lines from lines and returns the new list.
// Each line is compared with the recorded text before it is deleted; a
// mismatch fails with ErrIntegrity and nothing is returned. lines is not
// modified.
func Remove(lines []string, changes []Change) ([]string, error) {
	order := ordered(changes)

	// Regions must fit the file and must not overlap
	upper := len(lines)
	for _, i := range order {
		c := changes[i]
		end := c.Offset + len(c.Lines)
		if c.Offset < 0 || end > len(lines) {
			return nil, errors.AssertionFailedf("remove range [%d, %d) for class %s outside [0, %d]",
				c.Offset, end, c.ClassName, len(lines))
		}
		if end > upper {
			return nil, errors.AssertionFailedf("remove range [%d, %d) for class %s overlaps another change",
				c.Offset, end, c.ClassName)
		}
		upper = c.Offset
	}

	out := make([]string, len(lines))
	copy(out, lines)

	for _, i := range order {
		c := changes[i]
		for j, want := range c.Lines {
			if got := out[c.Offset]; got != want {
				return nil, integrityError(c, c.Offset+j, want, got)
			}
			out = append(out[:c.Offset], out[c.Offset+1:]...)
		}
	}
	return out, nil
}

// integrityError describes a removal line that no longer matches.
// lineno is 0-indexed into the original lines.
func integrityError(c Change, lineno int, want, got string) error {
	err := errors.Wrapf(errors.ErrIntegrity, "class %s, line %d", c.ClassName, lineno+1)
	err = errors.WithDetail(err, fmt.Sprintf("expected: %q\nactual:   %q\nchange:   %s",
		want, got, InlineDiff(want, got)))
	return errors.WithHint(err, "the text differs from what was recorded for removal; "+
		"re-run with --diff to review the file before removing")
}

// InlineDiff renders a character-level diff of two lines:
// deleted runs as [-text-], inserted runs as {+text+}.
func InlineDiff(want, got string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(want, got, false))

	var sb strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			sb.WriteString("[-" + d.Text + "-]")
		case diffmatchpatch.DiffInsert:
			sb.WriteString("{+" + d.Text + "+}")
		case diffmatchpatch.DiffEqual:
			sb.WriteString(d.Text)
		}
	}
	return sb.String()
}
