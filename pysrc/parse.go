package pysrc

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/teranos/crepr/errors"
	"github.com/teranos/crepr/patch"
)

// parser holds the state for walking one syntax tree
type parser struct {
	path string
	src  []byte
	text patch.Text
}

func parse(ctx context.Context, path string, src []byte) (*Module, error) {
	// One tree-sitter parser per call; they are not safe for concurrent use
	tsParser := sitter.NewParser()
	tsParser.SetLanguage(python.GetLanguage())

	tree, err := tsParser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, errors.NewLoadError(errors.ErrSyntax, path, nil)
	}
	if root.HasError() {
		return nil, syntaxError(path, src, root)
	}

	p := &parser{path: path, src: src, text: patch.Split(src)}
	mod := &Module{
		Path:   path,
		Source: src,
		Text:   p.text,
	}
	p.module(root, mod)
	return mod, nil
}

// module collects top-level classes. Rebinding a class name later in the
// file, by a definition, an assignment or an import, replaces the earlier
// definition, as it would at import time.
func (p *parser) module(root *sitter.Node, mod *Module) {
	drop := func(name string) {
		for i, c := range mod.Classes {
			if c.Name == name {
				mod.Classes = append(mod.Classes[:i], mod.Classes[i+1:]...)
				return
			}
		}
	}

	for i := 0; i < int(root.NamedChildCount()); i++ {
		stmt := root.NamedChild(i)
		def, outer := unwrapDecorated(stmt)

		switch def.Type() {
		case "class_definition":
			cls := p.class(def, outer)
			if cls == nil {
				continue
			}
			drop(cls.Name)
			mod.Classes = append(mod.Classes, cls)
		case "function_definition":
			if name := def.ChildByFieldName("name"); name != nil {
				drop(name.Content(p.src))
			}
		case "expression_statement":
			for _, name := range assignedNames(def, p.src) {
				drop(name)
			}
		case "import_statement", "import_from_statement":
			for _, name := range importedNames(def, p.src) {
				drop(name)
			}
		}
	}
}

// importedNames lists the names an import statement binds in the module:
// the alias, the first component of "import a.b", or the imported name of
// "from m import x".
func importedNames(stmt *sitter.Node, src []byte) []string {
	var skip uint32 = ^uint32(0)
	if module := stmt.ChildByFieldName("module_name"); module != nil {
		skip = module.StartByte()
	}
	from := stmt.Type() == "import_from_statement"

	var names []string
	for i := 0; i < int(stmt.NamedChildCount()); i++ {
		c := stmt.NamedChild(i)
		if c.StartByte() == skip {
			continue
		}
		switch c.Type() {
		case "aliased_import":
			if alias := c.ChildByFieldName("alias"); alias != nil {
				names = append(names, alias.Content(src))
			}
		case "dotted_name":
			name := c.Content(src)
			if from {
				name = name[strings.LastIndex(name, ".")+1:]
			} else if head, _, ok := strings.Cut(name, "."); ok {
				name = head
			}
			names = append(names, strings.TrimSpace(name))
		}
	}
	return names
}

func (p *parser) class(def, outer *sitter.Node) *Class {
	nameNode := def.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	line := int(outer.StartPoint().Row)
	cls := newClass(nameNode.Content(p.src), line, p.indentOf(line))

	body := def.ChildByFieldName("body")
	if body == nil {
		return cls
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		stmt := body.NamedChild(i)
		member, memberOuter := unwrapDecorated(stmt)

		switch member.Type() {
		case "function_definition":
			if m := p.method(member, memberOuter); m != nil {
				cls.bindMethod(m)
			}
		case "class_definition":
			if name := member.ChildByFieldName("name"); name != nil {
				cls.bindAttr(name.Content(p.src))
			}
		case "expression_statement":
			for _, name := range assignedNames(member, p.src) {
				cls.bindAttr(name)
			}
		}
	}
	return cls
}

func (p *parser) method(def, outer *sitter.Node) *Method {
	nameNode := def.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}

	start := int(outer.StartPoint().Row)
	end := endRow(def)
	if end >= len(p.text.Lines) {
		end = len(p.text.Lines) - 1
	}
	if end < start {
		return nil
	}

	m := &Method{
		Name:   nameNode.Content(p.src),
		Line:   start,
		Lines:  append([]string(nil), p.text.Lines[start:end+1]...),
		Indent: p.indentOf(start),
	}
	if params := def.ChildByFieldName("parameters"); params != nil {
		m.Params = p.params(params, !isStatic(outer, p.src))
	}
	return m
}

func (p *parser) indentOf(line int) string {
	if line < 0 || line >= len(p.text.Lines) {
		return ""
	}
	l := p.text.Lines[line]
	return l[:len(l)-len(strings.TrimLeft(l, " \t"))]
}

// unwrapDecorated returns the definition inside a decorated_definition
// together with the node whose first line starts the statement.
func unwrapDecorated(stmt *sitter.Node) (def, outer *sitter.Node) {
	if stmt.Type() == "decorated_definition" {
		if inner := stmt.ChildByFieldName("definition"); inner != nil {
			return inner, stmt
		}
	}
	return stmt, stmt
}

func isStatic(outer *sitter.Node, src []byte) bool {
	if outer.Type() != "decorated_definition" {
		return false
	}
	for i := 0; i < int(outer.NamedChildCount()); i++ {
		c := outer.NamedChild(i)
		if c.Type() != "decorator" {
			continue
		}
		name := strings.TrimSpace(strings.TrimPrefix(c.Content(src), "@"))
		if name == "staticmethod" || name == "builtins.staticmethod" {
			return true
		}
	}
	return false
}

// assignedNames lists plain identifiers bound by an assignment statement,
// including every target of a chained assignment (a = b = value).
func assignedNames(stmt *sitter.Node, src []byte) []string {
	var names []string
	for i := 0; i < int(stmt.NamedChildCount()); i++ {
		node := stmt.NamedChild(i)
		for node != nil && node.Type() == "assignment" {
			if left := node.ChildByFieldName("left"); left != nil && left.Type() == "identifier" {
				names = append(names, left.Content(src))
			}
			node = node.ChildByFieldName("right")
		}
	}
	return names
}

// endRow is the 0-indexed row of the last token of node. Trailing comments
// are not part of it, even when the grammar folds them into the block.
func endRow(node *sitter.Node) int {
	last := node
	for {
		var next *sitter.Node
		for i := int(last.ChildCount()) - 1; i >= 0; i-- {
			c := last.Child(i)
			if c.Type() == "comment" || c.IsMissing() || c.StartByte() == c.EndByte() {
				continue
			}
			next = c
			break
		}
		if next == nil {
			break
		}
		last = next
	}

	end := last.EndPoint()
	row := int(end.Row)
	if end.Column == 0 && row > int(node.StartPoint().Row) {
		row--
	}
	return row
}

// syntaxError reports the first error or missing node in the tree
func syntaxError(path string, src []byte, root *sitter.Node) error {
	err := errors.NewLoadError(errors.ErrSyntax, path, nil)

	bad := firstError(root)
	if bad == nil {
		return err
	}
	line := int(bad.StartPoint().Row)
	text := ""
	if lines := patch.Split(src).Lines; line < len(lines) {
		text = strings.TrimSpace(lines[line])
	}
	return errors.WithDetailf(err, "line %d: %s", line+1, text)
}

func firstError(node *sitter.Node) *sitter.Node {
	if node.Type() == "ERROR" || node.IsMissing() {
		return node
	}
	if !node.HasError() {
		return nil
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		if bad := firstError(node.Child(i)); bad != nil {
			return bad
		}
	}
	return nil
}
