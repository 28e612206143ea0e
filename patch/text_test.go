package patch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		lines []string
	}{
		{"empty", "", nil},
		{"single line no newline", "x = 1", []string{"x = 1"}},
		{"trailing newline", "a\nb\n", []string{"a", "b"}},
		{"no trailing newline", "a\nb", []string{"a", "b"}},
		{"blank lines", "a\n\n\nb\n", []string{"a", "", "", "b"}},
		{"crlf", "a\r\nb\r\n", []string{"a", "b"}},
		{"only newline", "\n", []string{""}},
		{"mixed endings", "a\r\nb\nc\r\n", []string{"a", "b", "c"}},
		{"mixed without final newline", "a\nb\r\nc", []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := Split([]byte(tt.src))
			assert.Equal(t, tt.lines, text.Lines)
			assert.Equal(t, tt.src, string(text.Bytes()))
		})
	}
}

func TestSplitLineEnding(t *testing.T) {
	assert.Equal(t, "\n", Split([]byte("a\nb\n")).EOL)
	assert.Equal(t, "\r\n", Split([]byte("a\r\nb\r\n")).EOL)
}

func TestWithLinesKeepsConventions(t *testing.T) {
	text := Split([]byte("a\r\nb\r\n"))
	next := text.WithLines([]string{"a", "x", "b"})
	assert.Equal(t, "a\r\nx\r\nb\r\n", string(next.Bytes()))
}

func TestSplitMixedEndings(t *testing.T) {
	text := Split([]byte("a\r\nb\nc\r\n"))
	assert.Equal(t, "\r\n", text.EOL, "the more common ending wins")
	assert.Equal(t, []string{"\r\n", "\n", "\r\n"}, text.Endings)

	assert.Nil(t, Split([]byte("a\nb\n")).Endings)
	assert.Nil(t, Split([]byte("a\r\nb\r\n")).Endings)
}

func TestWithLinesKeepsMixedEndings(t *testing.T) {
	src := "class A:\r\n    x = 1\n    y = 2\r\n\r\nz = 3\n"
	text := Split([]byte(src))
	require.NotNil(t, text.Endings)

	inserted := []string{"class A:", "    x = 1", "    y = 2", "    w = 4", "", "z = 3"}
	next := text.WithLines(inserted)
	assert.Equal(t, "class A:\r\n    x = 1\n    y = 2\r\n    w = 4\r\n\r\nz = 3\n", string(next.Bytes()))

	assert.Equal(t, src, string(next.WithLines(text.Lines).Bytes()),
		"removing the inserted line restores every original ending")
}

func TestEqual(t *testing.T) {
	a := Split([]byte("a\nb\n"))
	assert.True(t, a.Equal(Split([]byte("a\nb"))))
	assert.False(t, a.Equal(Split([]byte("a\nc\n"))))
	assert.False(t, a.Equal(Split([]byte("a\n"))))
}
