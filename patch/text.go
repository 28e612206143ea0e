// Package patch applies line-based changes to source text.
//
// A Change is computed once against a snapshot of the original lines and
// never recomputed. Insert and Remove walk changes from the highest offset
// to the lowest so that applying one change never shifts the offset of a
// change that has not been applied yet.
package patch

import (
	"bytes"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Text is a source file split into lines.
// Joining it back with Bytes reproduces the original byte-for-byte.
type Text struct {
	Lines []string
	// EOL is the line terminator used when joining ("\n" or "\r\n").
	// With mixed endings it is the more common one.
	EOL string
	// FinalNewline records whether the source ended with a line terminator
	FinalNewline bool
	// Endings holds the terminator of every line; nil when all lines use EOL
	Endings []string
}

// Split breaks src into lines. A trailing terminator does not produce an
// empty last line, matching how editors and Python's splitlines count lines.
func Split(src []byte) Text {
	t := Text{EOL: "\n"}
	if len(src) == 0 {
		return t
	}

	s := string(src)
	if strings.HasSuffix(s, "\n") {
		t.FinalNewline = true
		s = strings.TrimSuffix(s, "\n")
	}

	t.Lines = strings.Split(s, "\n")
	endings := make([]string, len(t.Lines))
	crlf := 0
	for i, line := range t.Lines {
		endings[i] = "\n"
		last := i == len(t.Lines)-1
		if strings.HasSuffix(line, "\r") && (!last || t.FinalNewline) {
			endings[i] = "\r\n"
			t.Lines[i] = strings.TrimSuffix(line, "\r")
		}
		if last && !t.FinalNewline {
			continue
		}
		if endings[i] == "\r\n" {
			crlf++
		}
	}

	terminated := len(t.Lines)
	if !t.FinalNewline {
		terminated--
	}
	if crlf > 0 && crlf*2 >= terminated {
		t.EOL = "\r\n"
	}
	if crlf > 0 && crlf < terminated {
		if !t.FinalNewline {
			endings[len(endings)-1] = t.EOL
		}
		t.Endings = endings
	}
	return t
}

// WithLines returns a copy of t carrying different lines but the same
// line ending conventions. With mixed endings, lines that survive unchanged
// keep their own terminator and new lines get EOL.
func (t Text) WithLines(lines []string) Text {
	out := Text{Lines: lines, EOL: t.EOL, FinalNewline: t.FinalNewline}
	if t.Endings == nil {
		return out
	}

	out.Endings = make([]string, len(lines))
	for i := range out.Endings {
		out.Endings[i] = t.EOL
	}
	for _, op := range difflib.NewMatcher(t.Lines, lines).GetOpCodes() {
		if op.Tag != 'e' {
			continue
		}
		for k := 0; k < op.I2-op.I1; k++ {
			out.Endings[op.J1+k] = t.Endings[op.I1+k]
		}
	}
	return out
}

// Bytes joins the lines back into file content.
func (t Text) Bytes() []byte {
	if len(t.Lines) == 0 {
		return nil
	}
	if t.Endings == nil {
		var buf bytes.Buffer
		buf.WriteString(strings.Join(t.Lines, t.EOL))
		if t.FinalNewline {
			buf.WriteString(t.EOL)
		}
		return buf.Bytes()
	}

	var buf bytes.Buffer
	for i, line := range t.Lines {
		buf.WriteString(line)
		if i < len(t.Lines)-1 || t.FinalNewline {
			buf.WriteString(t.Endings[i])
		}
	}
	return buf.Bytes()
}

// Equal reports whether two texts hold the same lines.
func (t Text) Equal(other Text) bool {
	if len(t.Lines) != len(other.Lines) {
		return false
	}
	for i := range t.Lines {
		if t.Lines[i] != other.Lines[i] {
			return false
		}
	}
	return true
}
