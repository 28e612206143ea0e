package patch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnifiedDiff(t *testing.T) {
	before := []string{"a", "b", "c", "d"}
	after := []string{"a", "b", "c", "d", "", "e", ""}

	out, err := UnifiedDiff("m.py", "m.py", before, after)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	assert.Equal(t, "--- m.py", lines[0])
	assert.Equal(t, "+++ m.py", lines[1])
	assert.Equal(t, "@@ -2,3 +2,6 @@", lines[2])
	assert.Equal(t, []string{" b", " c", " d", "+", "+e", "+"}, lines[3:])
}

func TestUnifiedDiffIdentical(t *testing.T) {
	out, err := UnifiedDiff("m.py", "m.py", []string{"a"}, []string{"a"})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestUnifiedDiffRemoval(t *testing.T) {
	out, err := UnifiedDiff("m.py", "m.py", []string{"a", "b"}, []string{"a"})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(out, "-b\n"))
}
