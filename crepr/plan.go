// Package crepr plans, previews and applies generated __repr__ methods for
// the classes of Python source files.
package crepr

import (
	"strings"

	"github.com/teranos/crepr/logger"
	"github.com/teranos/crepr/patch"
	"github.com/teranos/crepr/pysrc"
	"github.com/teranos/crepr/reprgen"
)

// Action is what a plan does to the file
type Action string

const (
	ActionAdd    Action = "add"
	ActionRemove Action = "remove"
)

// verb is used when listing changes: "__repr__ generated for class: X"
func (a Action) verb() string {
	if a == ActionRemove {
		return "removed"
	}
	return "generated"
}

// Options controls how methods are generated
type Options struct {
	// Splat is rendered for **kwargs
	Splat string
	// IgnoreExisting skips classes that already define __repr__
	IgnoreExisting bool
}

// Plan is the set of changes for one module, computed from one snapshot
type Plan struct {
	Module  *pysrc.Module
	Action  Action
	Changes []patch.Change
}

// Empty reports whether the plan has nothing to do
func (p *Plan) Empty() bool {
	return len(p.Changes) == 0
}

// Apply returns lines with the plan's changes applied
func (p *Plan) Apply(lines []string) ([]string, error) {
	if p.Action == ActionRemove {
		return patch.Remove(lines, p.Changes)
	}
	return patch.Insert(lines, p.Changes)
}

// target returns the constructor of cls when cls can carry a generated method
func target(cls *pysrc.Class) (params []pysrc.Param, line int, lines []string, ok bool) {
	params, line, lines = pysrc.Extract(cls)
	if line < 0 {
		return nil, -1, nil, false
	}
	if !reprgen.IsSynthesizable(params) {
		logger.Named("crepr").Debugw("Constructor cannot be rendered",
			logger.FieldClass, cls.Name,
			logger.FieldLine, line+1)
		return nil, -1, nil, false
	}
	return params, line, lines, true
}

// PlanAdd inserts a generated method after the constructor of every
// eligible class. Comment lines that close the constructor body stay with
// the constructor.
func PlanAdd(mod *pysrc.Module, opts Options) *Plan {
	log := logger.Named("crepr")
	plan := &Plan{Module: mod, Action: ActionAdd}

	for _, cls := range mod.Classes {
		params, line, lines, ok := target(cls)
		if !ok {
			continue
		}
		if opts.IgnoreExisting && cls.Defines(reprgen.MethodName) {
			continue
		}

		ctor := cls.Method(pysrc.Constructor)
		offset := line + len(lines)
		for offset < len(mod.Text.Lines) && isBodyComment(mod.Text.Lines[offset], ctor.Indent) {
			offset++
		}

		r := reprgen.ForClass(cls, opts.Splat)
		plan.Changes = append(plan.Changes, patch.Change{
			ClassName: cls.Name,
			Lines:     r.Render(cls.Name, params),
			Offset:    offset,
		})
		log.Debugw("Planned __repr__",
			logger.FieldClass, cls.Name,
			logger.FieldOffset, offset)
	}
	return plan
}

// PlanRemove deletes the directly-defined __repr__ of every eligible class.
//
// A method that is exactly what PlanAdd renders also loses the blank lines
// on either side of it, which are the framing PlanAdd inserted. Any other
// __repr__ claims the blank line above it, and the blank line below it only
// when another blank line or the end of the file follows.
func PlanRemove(mod *pysrc.Module) *Plan {
	log := logger.Named("crepr")
	plan := &Plan{Module: mod, Action: ActionRemove}
	text := mod.Text.Lines

	for _, cls := range mod.Classes {
		params, _, _, ok := target(cls)
		if !ok {
			continue
		}
		m := cls.Method(reprgen.MethodName)
		if m == nil {
			continue
		}
		generated := reprgen.ForClass(cls, "").Generated(cls.Name, params, m.Lines)

		start := m.Line
		lines := append([]string(nil), m.Lines...)
		if start > 0 && isBlank(text[start-1]) {
			start--
			lines = append([]string{text[start]}, lines...)
		}
		if end := m.Line + len(m.Lines); end < len(text) && isBlank(text[end]) &&
			(generated || end+1 == len(text) || isBlank(text[end+1])) {
			lines = append(lines, text[end])
		}

		plan.Changes = append(plan.Changes, patch.Change{
			ClassName: cls.Name,
			Lines:     lines,
			Offset:    start,
		})
		log.Debugw("Planned __repr__ removal",
			logger.FieldClass, cls.Name,
			logger.FieldOffset, start,
			"generated", generated)
	}
	return plan
}

// MissingClass is an eligible class without a __repr__
type MissingClass struct {
	File  string `json:"file"`
	Class string `json:"class"`
	// Line is 1-indexed
	Line int `json:"line"`
}

// Missing lists the eligible classes of mod that do not define __repr__
func Missing(mod *pysrc.Module) []MissingClass {
	var missing []MissingClass
	for _, cls := range mod.Classes {
		if _, _, _, ok := target(cls); !ok {
			continue
		}
		if cls.Defines(reprgen.MethodName) {
			continue
		}
		missing = append(missing, MissingClass{File: mod.Path, Class: cls.Name, Line: cls.Line + 1})
	}
	return missing
}

// isBodyComment reports whether line is a comment indented deeper than a
// method whose def line starts with indent
func isBodyComment(line, indent string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	return strings.HasPrefix(trimmed, "#") &&
		len(line)-len(trimmed) > len(indent) && strings.HasPrefix(line, indent)
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}
