// Package reprgen decides which constructors can drive a generated
// __repr__ and renders the method's lines.
package reprgen

import (
	"strings"

	"github.com/teranos/crepr/pysrc"
)

// MethodName is the reserved name of the generated method
const MethodName = "__repr__"

// DefaultSplat is rendered for **kwargs when no token is configured
const DefaultSplat = "..."

const defaultUnit = "    "

// IsSynthesizable reports whether every non-receiver parameter can be
// rendered by name: positional-or-keyword, keyword-only or **kwargs.
// Positional-only and *args parameters disqualify the constructor.
func IsSynthesizable(params []pysrc.Param) bool {
	for _, p := range params {
		if p.Receiver {
			continue
		}
		switch p.Kind {
		case pysrc.PositionalOrKeyword, pysrc.KeywordOnly, pysrc.VarKeyword:
		default:
			return false
		}
	}
	return true
}

// Renderer produces the lines of a generated method
type Renderer struct {
	// Indent is the leading whitespace of the def line
	Indent string
	// Unit is one additional indentation level
	Unit string
	// Splat is rendered in place of the keys of **kwargs
	Splat string
}

// ForClass returns a renderer that indents like the class's constructor
func ForClass(cls *pysrc.Class, splat string) Renderer {
	r := Renderer{Splat: splat}
	ctor := cls.Method(pysrc.Constructor)
	if ctor == nil {
		return r
	}
	r.Indent = ctor.Indent
	if strings.HasPrefix(ctor.Indent, cls.Indent) && len(ctor.Indent) > len(cls.Indent) {
		r.Unit = ctor.Indent[len(cls.Indent):]
	}
	return r
}

// Render returns the generated method for className with the default
// indentation.
func Render(className string, params []pysrc.Param, splat string) []string {
	return Renderer{Splat: splat}.Render(className, params)
}

// Render returns the generated method for className. The output starts and
// ends with a blank line; the receiver is never rendered.
func (r Renderer) Render(className string, params []pysrc.Param) []string {
	unit := r.Unit
	if unit == "" {
		unit = defaultUnit
	}
	indent := r.Indent
	if indent == "" {
		indent = unit
	}
	splat := r.Splat
	if splat == "" {
		splat = DefaultSplat
	}
	body := indent + unit
	field := body + unit

	lines := []string{
		"",
		indent + "def " + MethodName + "(self) -> str:",
		body + `"""Create a string (c)representation for ` + className + `."""`,
	}

	var fields []string
	for _, p := range params {
		if p.Receiver {
			continue
		}
		if p.Kind == pysrc.VarKeyword {
			fields = append(fields, field+"f'**"+splat+",'")
			continue
		}
		fields = append(fields, field+"f'"+p.Name+"={self."+p.Name+"!r}, '")
	}

	if len(fields) == 0 {
		return append(lines,
			body+"return f'{self.__class__.__module__}.{self.__class__.__name__}()'",
			"")
	}

	lines = append(lines, body+"return (f'{self.__class__.__module__}.{self.__class__.__name__}('")
	lines = append(lines, fields...)
	return append(lines, body+"')')", "")
}

// splatMark stands in for the splat token when comparing rendered lines
const splatMark = "\x00"

// Generated reports whether lines are exactly the method Render would
// produce for className, without the framing blank lines. The **kwargs
// line matches whatever splat token it was rendered with.
func (r Renderer) Generated(className string, params []pysrc.Param, lines []string) bool {
	r.Splat = splatMark
	want := r.Render(className, params)
	want = want[1 : len(want)-1]
	if len(want) != len(lines) {
		return false
	}

	for i, line := range lines {
		if line == want[i] {
			continue
		}
		before, after, ok := strings.Cut(want[i], splatMark)
		if !ok || len(line) <= len(before)+len(after) ||
			!strings.HasPrefix(line, before) || !strings.HasSuffix(line, after) {
			return false
		}
	}
	return true
}
