package pysrc

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// params reads a parameters node in declaration order and assigns kinds:
// everything before "/" is positional-only, everything after "*" or
// "*args" is keyword-only.
func (p *parser) params(node *sitter.Node, hasReceiver bool) []Param {
	var params []Param
	keywordOnly := false

	for i := 0; i < int(node.ChildCount()); i++ {
		c := node.Child(i)
		switch c.Type() {
		case "positional_separator", "/":
			for j := range params {
				params[j].Kind = PositionalOnly
			}
			continue
		case "keyword_separator", "*":
			keywordOnly = true
			continue
		}

		param, ok := p.param(c)
		if !ok {
			continue
		}
		switch param.Kind {
		case VarPositional:
			keywordOnly = true
		case PositionalOrKeyword:
			if keywordOnly {
				param.Kind = KeywordOnly
			}
		}
		params = append(params, param)
	}

	if hasReceiver && len(params) > 0 {
		if k := params[0].Kind; k == PositionalOrKeyword || k == PositionalOnly {
			params[0].Receiver = true
		}
	}
	return params
}

func (p *parser) param(node *sitter.Node) (Param, bool) {
	switch node.Type() {
	case "identifier":
		return Param{Name: node.Content(p.src), Kind: PositionalOrKeyword}, true

	case "list_splat_pattern", "dictionary_splat_pattern":
		if node.NamedChildCount() == 0 {
			return Param{}, false
		}
		kind := VarPositional
		if node.Type() == "dictionary_splat_pattern" {
			kind = VarKeyword
		}
		return Param{Name: node.NamedChild(0).Content(p.src), Kind: kind}, true

	case "typed_parameter":
		if node.NamedChildCount() == 0 {
			return Param{}, false
		}
		param, ok := p.param(node.NamedChild(0))
		if !ok {
			return Param{}, false
		}
		if t := node.ChildByFieldName("type"); t != nil {
			param.Annotation = t.Content(p.src)
		}
		return param, true

	case "default_parameter", "typed_default_parameter":
		name := node.ChildByFieldName("name")
		if name == nil {
			return Param{}, false
		}
		param := Param{Name: name.Content(p.src), Kind: PositionalOrKeyword}
		if t := node.ChildByFieldName("type"); t != nil {
			param.Annotation = t.Content(p.src)
		}
		if v := node.ChildByFieldName("value"); v != nil {
			param.Default = v.Content(p.src)
		}
		return param, true
	}
	return Param{}, false
}
