// Package pysrc reads Python source files into the class and constructor
// metadata crepr needs, without executing them.
//
// Files are parsed with the tree-sitter Python grammar. Only classes defined
// at the top level of a file are reported; a name that is merely imported
// has no definition in the tree and therefore never shows up.
package pysrc

import (
	"strings"

	"github.com/teranos/crepr/patch"
)

// ParamKind mirrors the five kinds of Python parameters
type ParamKind int

const (
	PositionalOnly ParamKind = iota
	PositionalOrKeyword
	VarPositional
	KeywordOnly
	VarKeyword
)

func (k ParamKind) String() string {
	switch k {
	case PositionalOnly:
		return "positional-only"
	case PositionalOrKeyword:
		return "positional-or-keyword"
	case VarPositional:
		return "var-positional"
	case KeywordOnly:
		return "keyword-only"
	case VarKeyword:
		return "var-keyword"
	default:
		return "unknown"
	}
}

// MarshalText renders the kind by name in JSON output
func (k ParamKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Param is one declared parameter of a method
type Param struct {
	Name       string    `json:"name"`
	Kind       ParamKind `json:"kind"`
	Default    string    `json:"default,omitempty"`
	Annotation string    `json:"annotation,omitempty"`
	// Receiver marks the instance parameter (self)
	Receiver bool `json:"receiver,omitempty"`
}

// Method is a function defined directly in a class body
type Method struct {
	Name string
	// Line is the 0-indexed first line, the first decorator when decorated
	Line int
	// Lines is the exact source, from Line through the last statement
	Lines []string
	// Indent is the leading whitespace of the def (or decorator) line
	Indent string
	Params []Param
}

// Source joins the method's lines the way they appear in the file
func (m *Method) Source() string {
	if m == nil || len(m.Lines) == 0 {
		return ""
	}
	return strings.Join(m.Lines, "\n") + "\n"
}

// Class is a top-level class definition
type Class struct {
	Name string
	// Line is the 0-indexed line of the class statement (or its first decorator)
	Line int
	// Indent is the leading whitespace of the class line
	Indent string

	methods map[string]*Method
	// attrs holds names bound in the class body by anything other than def
	attrs map[string]bool
}

func newClass(name string, line int, indent string) *Class {
	return &Class{
		Name:    name,
		Line:    line,
		Indent:  indent,
		methods: make(map[string]*Method),
		attrs:   make(map[string]bool),
	}
}

// Method returns the directly-defined method name, or nil
func (c *Class) Method(name string) *Method {
	return c.methods[name]
}

// Defines reports whether name is bound directly in the class body,
// either by def or by assignment
func (c *Class) Defines(name string) bool {
	return c.methods[name] != nil || c.attrs[name]
}

// bindMethod records a def; a later binding of the same name wins
func (c *Class) bindMethod(m *Method) {
	c.methods[m.Name] = m
	delete(c.attrs, m.Name)
}

func (c *Class) bindAttr(name string) {
	c.attrs[name] = true
	delete(c.methods, name)
}

// Module is one parsed source file
type Module struct {
	Path   string
	Source []byte
	Text   patch.Text
	// Classes holds the top-level classes in source order
	Classes []*Class
}

// Class returns the top-level class called name, or nil
func (m *Module) Class(name string) *Class {
	for _, c := range m.Classes {
		if c.Name == name {
			return c
		}
	}
	return nil
}
