package pysrc

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teranos/crepr/errors"
)

const kwOnlySource = `"""Test class for kw only arguments."""

from typing import Self


class KwOnly:
    """The happy path class."""

    def __init__(self: Self, name: str, *, age: int) -> None:
        """Initialize the class."""
        self.name = name  # pragma: no cover
        self.age = age  # pragma: no cover
`

func parseString(t *testing.T, src string) *Module {
	t.Helper()
	mod, err := Parse(context.Background(), "mod.py", []byte(src))
	require.NoError(t, err)
	return mod
}

func TestParseKeywordOnlyConstructor(t *testing.T) {
	mod := parseString(t, kwOnlySource)
	require.Len(t, mod.Classes, 1)

	cls := mod.Classes[0]
	assert.Equal(t, "KwOnly", cls.Name)
	assert.Equal(t, 5, cls.Line)
	assert.Equal(t, "", cls.Indent)

	params, line, lines := Extract(cls)
	assert.Equal(t, 8, line)
	require.Len(t, lines, 4)
	assert.Equal(t, "    def __init__(self: Self, name: str, *, age: int) -> None:", lines[0])
	assert.Equal(t, "        self.age = age  # pragma: no cover", lines[3])

	assert.Equal(t, []Param{
		{Name: "self", Kind: PositionalOrKeyword, Annotation: "Self", Receiver: true},
		{Name: "name", Kind: PositionalOrKeyword, Annotation: "str"},
		{Name: "age", Kind: KeywordOnly, Annotation: "int"},
	}, params)
}

func TestParamKinds(t *testing.T) {
	tests := []struct {
		name   string
		sig    string
		expect []Param
	}{
		{
			name: "defaults and splats",
			sig:  "self, a, b=1, *args, c: int = 2, d, **kw",
			expect: []Param{
				{Name: "self", Kind: PositionalOrKeyword, Receiver: true},
				{Name: "a", Kind: PositionalOrKeyword},
				{Name: "b", Kind: PositionalOrKeyword, Default: "1"},
				{Name: "args", Kind: VarPositional},
				{Name: "c", Kind: KeywordOnly, Annotation: "int", Default: "2"},
				{Name: "d", Kind: KeywordOnly},
				{Name: "kw", Kind: VarKeyword},
			},
		},
		{
			name: "positional only",
			sig:  "self, a, /, b",
			expect: []Param{
				{Name: "self", Kind: PositionalOnly, Receiver: true},
				{Name: "a", Kind: PositionalOnly},
				{Name: "b", Kind: PositionalOrKeyword},
			},
		},
		{
			name: "typed splats",
			sig:  "self, x: int, *args: int, **kwargs: str",
			expect: []Param{
				{Name: "self", Kind: PositionalOrKeyword, Receiver: true},
				{Name: "x", Kind: PositionalOrKeyword, Annotation: "int"},
				{Name: "args", Kind: VarPositional, Annotation: "int"},
				{Name: "kwargs", Kind: VarKeyword, Annotation: "str"},
			},
		},
		{
			name:   "receiver only",
			sig:    "self",
			expect: []Param{{Name: "self", Kind: PositionalOrKeyword, Receiver: true}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := "class C:\n    def __init__(" + tt.sig + "):\n        pass\n"
			mod := parseString(t, src)
			require.Len(t, mod.Classes, 1)

			params, line, _ := Extract(mod.Classes[0])
			assert.Equal(t, 1, line)
			assert.Equal(t, tt.expect, params)
		})
	}
}

func TestStaticMethodHasNoReceiver(t *testing.T) {
	mod := parseString(t, "class C:\n    @staticmethod\n    def make(a, b):\n        return C()\n")
	m := mod.Classes[0].Method("make")
	require.NotNil(t, m)
	assert.Equal(t, 1, m.Line)
	assert.False(t, m.Params[0].Receiver)
}

func TestImportedClassesAreNotTargets(t *testing.T) {
	mod := parseString(t, "from collections import OrderedDict\nimport dataclasses\n\nx = OrderedDict()\n")
	assert.Empty(t, mod.Classes)
}

func TestNestedAndConditionalClassesAreNotTargets(t *testing.T) {
	src := `class Outer:
    class Inner:
        def __init__(self, a):
            self.a = a

    def __init__(self, b):
        self.b = b


if True:
    class Conditional:
        def __init__(self, c):
            self.c = c


def factory():
    class Local:
        pass
    return Local
`
	mod := parseString(t, src)
	require.Len(t, mod.Classes, 1)
	assert.Equal(t, "Outer", mod.Classes[0].Name)
	assert.True(t, mod.Classes[0].Defines("Inner"))
}

func TestDataclassHasNoConstructor(t *testing.T) {
	src := `import dataclasses


@dataclasses.dataclass(frozen=True)
class RegistryItem:
    """A registry item."""

    attr_name: str
    node_name: str
`
	mod := parseString(t, src)
	require.Len(t, mod.Classes, 1)

	cls := mod.Classes[0]
	assert.Equal(t, 3, cls.Line, "decorated class starts at its decorator")

	params, line, lines := Extract(cls)
	assert.Nil(t, params)
	assert.Equal(t, -1, line)
	assert.Nil(t, lines)
}

func TestLocateMethod(t *testing.T) {
	src := `class ExistingRepr:
    def __init__(self, name):
        self.name = name
        # trailing note

    # about repr
    @reprlib.recursive_repr()
    def __repr__(self):
        return (
            f"ExistingRepr(name={self.name!r})"
        )
    # end of class
`
	mod := parseString(t, src)
	cls := mod.Classes[0]

	_, line, lines := Extract(cls)
	assert.Equal(t, 1, line)
	assert.Len(t, lines, 2, "trailing comment is not part of the constructor")

	source, start := LocateMethod(cls, "__repr__")
	assert.Equal(t, 6, start)
	assert.Equal(t, strings.Join([]string{
		"    @reprlib.recursive_repr()",
		"    def __repr__(self):",
		"        return (",
		`            f"ExistingRepr(name={self.name!r})"`,
		"        )",
	}, "\n")+"\n", source)

	source, start = LocateMethod(cls, "__str__")
	assert.Equal(t, "", source)
	assert.Equal(t, -1, start)
}

func TestLaterBindingsShadowEarlierOnes(t *testing.T) {
	src := `class A:
    def __repr__(self):
        return "first"

    def __repr__(self):
        return "second"


class B:
    def __repr__(self):
        return "B"

    __repr__ = object.__repr__


class A:
    def __init__(self, x):
        self.x = x
`
	mod := parseString(t, src)
	require.Len(t, mod.Classes, 2)
	assert.Equal(t, "B", mod.Classes[0].Name)
	assert.Equal(t, "A", mod.Classes[1].Name)

	a := mod.Class("A")
	assert.Equal(t, 15, a.Line, "the second A replaces the first")
	assert.False(t, a.Defines("__repr__"))

	b := mod.Class("B")
	assert.True(t, b.Defines("__repr__"))
	assert.Nil(t, b.Method("__repr__"))
	source, line := LocateMethod(b, "__repr__")
	assert.Empty(t, source)
	assert.Equal(t, -1, line)
}

func TestImportsRebindClassNames(t *testing.T) {
	src := `class A:
    def __init__(self, x):
        self.x = x


class B:
    def __init__(self, y):
        self.y = y


class C:
    def __init__(self, z):
        self.z = z


class D:
    def __init__(self, w):
        self.w = w


class E:
    def __init__(self, v):
        self.v = v


from models import A
from .base import (Base, Other as B)
import C
import pkg.sub as D
import E.tools
`
	mod := parseString(t, src)
	assert.Empty(t, mod.Classes, "every class name is rebound by an import")
}

func TestImportsOfOtherNamesKeepClasses(t *testing.T) {
	src := "from models import Base\nimport os.path\n\n\nclass A(Base):\n    def __init__(self, x):\n        self.x = x\n\n\nfrom models import A as Base\n"
	mod := parseString(t, src)
	require.Len(t, mod.Classes, 1)
	assert.Equal(t, "A", mod.Classes[0].Name)
}

func TestMethodShadowingKeepsLastDefinition(t *testing.T) {
	src := "class A:\n    def f(self):\n        return 1\n\n    def f(self):\n        return 2\n"
	mod := parseString(t, src)
	m := mod.Classes[0].Method("f")
	require.NotNil(t, m)
	assert.Equal(t, 4, m.Line)
}

func TestSyntaxError(t *testing.T) {
	_, err := Parse(context.Background(), "broken.py",
		[]byte("class A:\n    def __init__(self, x:\n        pass\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrSyntax))
	assert.True(t, errors.IsLoadError(err))
	assert.Contains(t, err.Error(), "broken.py")
}

func TestCRLFSource(t *testing.T) {
	src := strings.ReplaceAll(kwOnlySource, "\n", "\r\n")
	mod := parseString(t, src)
	_, line, lines := Extract(mod.Classes[0])
	assert.Equal(t, 8, line)
	require.Len(t, lines, 4)
	assert.False(t, strings.HasSuffix(lines[0], "\r"))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "kw_only.py")
	require.NoError(t, os.WriteFile(good, []byte(kwOnlySource), 0o644))

	mod, err := Load(context.Background(), good)
	require.NoError(t, err)
	assert.Equal(t, good, mod.Path)
	assert.Equal(t, []byte(kwOnlySource), mod.Source)
	assert.Len(t, mod.Text.Lines, 12)
}

func TestLoadFailures(t *testing.T) {
	dir := t.TempDir()

	binary := filepath.Join(dir, "binary.py")
	require.NoError(t, os.WriteFile(binary, []byte{0xff, 0xfe, 0x00}, 0o644))
	text := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(text, []byte("class A: pass\n"), 0o644))
	pkg := filepath.Join(dir, "pkg.py")
	require.NoError(t, os.Mkdir(pkg, 0o755))

	tests := []struct {
		name string
		path string
		kind error
	}{
		{"missing", filepath.Join(dir, "missing.py"), errors.ErrFileNotFound},
		{"directory", pkg, errors.ErrNotImportable},
		{"not utf-8", binary, errors.ErrNotImportable},
		{"not python", text, errors.ErrNotImportable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mod, err := Load(context.Background(), tt.path)
			require.Error(t, err)
			assert.Nil(t, mod)
			assert.True(t, errors.Is(err, tt.kind))
			assert.True(t, errors.IsLoadError(err))
		})
	}
}
