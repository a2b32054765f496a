package pytree

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Build:
// - Parse a module and verify top-level statement lowering
// - Capture function names, parameters (all flavors), and line numbers
// - Capture class bodies including methods
// - Lower import and from-import statements with aliases
// - Lower assignments including chained and tuple targets
// - Keep unknown statement kinds as opaque nodes
// - Reject malformed source with a positioned SyntaxError
// - Enforce expression/interactive mode shape constraints
// - Stay deterministic across repeated invocations

func mustModule(t *testing.T, source string) *Module {
	t.Helper()
	tree, err := Build(source, ModeModule)
	require.NoError(t, err)
	mod, ok := tree.(*Module)
	require.True(t, ok, "module mode must produce a Module root")
	return mod
}

func TestBuild_TopLevelStatements(t *testing.T) {
	t.Parallel()

	source, err := os.ReadFile("../../testdata/python/simple.py")
	require.NoError(t, err)

	mod := mustModule(t, string(source))

	kinds := make([]string, 0, len(mod.Body))
	for _, stmt := range mod.Body {
		kinds = append(kinds, stmt.Kind())
	}
	assert.Equal(t, []string{
		"Expr", // module docstring
		"Import",
		"ImportFrom",
		"ImportFrom",
		"Assign",
		"FunctionDef",
		"ClassDef",
		"FunctionDef",
		"If",
	}, kinds)
}

func TestBuild_FunctionDef(t *testing.T) {
	t.Parallel()

	mod := mustModule(t, `def greet(name, excited=False, *rest, **extra):
    message = "hi " + name
    return message
`)
	require.Len(t, mod.Body, 1)

	def, ok := mod.Body[0].(*FunctionDef)
	require.True(t, ok)
	assert.Equal(t, "greet", def.Name)
	assert.Equal(t, 1, def.Pos.Line)
	assert.Equal(t, []string{"name", "excited", "rest", "extra"}, def.Params)
	require.Len(t, def.Body, 2)
	assert.Equal(t, "Assign", def.Body[0].Kind())
	assert.Equal(t, "Return", def.Body[1].Kind())
}

func TestBuild_DecoratedDef(t *testing.T) {
	t.Parallel()

	mod := mustModule(t, `@cached
def slow():
    pass
`)
	require.Len(t, mod.Body, 1)

	def, ok := mod.Body[0].(*FunctionDef)
	require.True(t, ok, "decorated functions lower to FunctionDef")
	assert.Equal(t, "slow", def.Name)
}

func TestBuild_ClassDef(t *testing.T) {
	t.Parallel()

	mod := mustModule(t, `class Point:
    unit = "m"

    def __init__(self, x):
        self.x = x

    def scale(self, factor):
        scaled = self.x * factor
        return scaled
`)
	require.Len(t, mod.Body, 1)

	cls, ok := mod.Body[0].(*ClassDef)
	require.True(t, ok)
	assert.Equal(t, "Point", cls.Name)
	assert.Equal(t, 1, cls.Pos.Line)
	require.Len(t, cls.Body, 3)
	assert.Equal(t, "Assign", cls.Body[0].Kind())
	assert.Equal(t, "FunctionDef", cls.Body[1].Kind())
	assert.Equal(t, "FunctionDef", cls.Body[2].Kind())
}

func TestBuild_Imports(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
		verify func(t *testing.T, stmt Stmt)
	}{
		{
			name:   "plain import with alias",
			source: "import os, sys as s\n",
			verify: func(t *testing.T, stmt Stmt) {
				imp, ok := stmt.(*Import)
				require.True(t, ok)
				assert.Equal(t, []string{"os", "sys"}, imp.Modules)
			},
		},
		{
			name:   "from import with alias",
			source: "from pkg.sub import a, b as c\n",
			verify: func(t *testing.T, stmt Stmt) {
				imp, ok := stmt.(*ImportFrom)
				require.True(t, ok)
				assert.Equal(t, "pkg.sub", imp.Module)
				assert.Equal(t, []string{"a", "b"}, imp.Names)
			},
		},
		{
			name:   "purely relative import",
			source: "from . import helpers\n",
			verify: func(t *testing.T, stmt Stmt) {
				imp, ok := stmt.(*ImportFrom)
				require.True(t, ok)
				assert.Equal(t, "", imp.Module)
				assert.Equal(t, []string{"helpers"}, imp.Names)
			},
		},
		{
			name:   "dotted relative import",
			source: "from .pkg import thing\n",
			verify: func(t *testing.T, stmt Stmt) {
				imp, ok := stmt.(*ImportFrom)
				require.True(t, ok)
				assert.Equal(t, "pkg", imp.Module)
				assert.Equal(t, []string{"thing"}, imp.Names)
			},
		},
		{
			name:   "wildcard import",
			source: "from pkg import *\n",
			verify: func(t *testing.T, stmt Stmt) {
				imp, ok := stmt.(*ImportFrom)
				require.True(t, ok)
				assert.Equal(t, "pkg", imp.Module)
				assert.Equal(t, []string{"*"}, imp.Names)
			},
		},
		{
			name:   "future import",
			source: "from __future__ import annotations\n",
			verify: func(t *testing.T, stmt Stmt) {
				imp, ok := stmt.(*ImportFrom)
				require.True(t, ok)
				assert.Equal(t, "__future__", imp.Module)
				assert.Equal(t, []string{"annotations"}, imp.Names)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			mod := mustModule(t, tt.source)
			require.Len(t, mod.Body, 1)
			tt.verify(t, mod.Body[0])
		})
	}
}

func TestBuild_Assignments(t *testing.T) {
	t.Parallel()

	mod := mustModule(t, `x = 1
x = y = 2
a, b = 3, 4
obj.attr = 5
items[0] = 6
n: int = 7
n += 1
`)
	require.Len(t, mod.Body, 7)

	simple := mod.Body[0].(*Assign)
	require.Len(t, simple.Targets, 1)
	name, ok := simple.Targets[0].(*Name)
	require.True(t, ok)
	assert.Equal(t, "x", name.ID)

	chained := mod.Body[1].(*Assign)
	require.Len(t, chained.Targets, 2)
	assert.Equal(t, "x", chained.Targets[0].(*Name).ID)
	assert.Equal(t, "y", chained.Targets[1].(*Name).ID)

	tuple := mod.Body[2].(*Assign)
	require.Len(t, tuple.Targets, 1)
	_, isName := tuple.Targets[0].(*Name)
	assert.False(t, isName, "tuple targets stay opaque")
	assert.Equal(t, "Tuple", tuple.Targets[0].Kind())

	attr := mod.Body[3].(*Assign)
	assert.Equal(t, "Attribute", attr.Targets[0].Kind())

	sub := mod.Body[4].(*Assign)
	assert.Equal(t, "Subscript", sub.Targets[0].Kind())

	assert.Equal(t, "AnnAssign", mod.Body[5].Kind())
	assert.Equal(t, "AugAssign", mod.Body[6].Kind())
}

func TestBuild_LineNumbersMonotonic(t *testing.T) {
	t.Parallel()

	mod := mustModule(t, `import os

def first():
    pass

def second():
    pass
`)
	last := 0
	for _, stmt := range mod.Body {
		line := stmt.Position().Line
		assert.GreaterOrEqual(t, line, 1)
		assert.GreaterOrEqual(t, line, last)
		last = line
	}
}

func TestBuild_SyntaxError(t *testing.T) {
	t.Parallel()

	tree, err := Build("def broken(:\n    pass\n", ModeModule)
	assert.Nil(t, tree)
	require.Error(t, err)

	var syntaxErr *SyntaxError
	require.True(t, errors.As(err, &syntaxErr))
	assert.GreaterOrEqual(t, syntaxErr.Line, 1)
	assert.GreaterOrEqual(t, syntaxErr.Column, 0)
}

func TestBuild_ExpressionMode(t *testing.T) {
	t.Parallel()

	tree, err := Build("1 + 2\n", ModeExpression)
	require.NoError(t, err)
	expr, ok := tree.(*Expression)
	require.True(t, ok)
	assert.Equal(t, "Expr", expr.Body.Kind())

	_, err = Build("x = 1\n", ModeExpression)
	var syntaxErr *SyntaxError
	require.True(t, errors.As(err, &syntaxErr), "assignment is not an expression")

	_, err = Build("1\n2\n", ModeExpression)
	require.True(t, errors.As(err, &syntaxErr), "two statements are not one expression")
}

func TestBuild_InteractiveMode(t *testing.T) {
	t.Parallel()

	tree, err := Build("x = 1\n", ModeInteractive)
	require.NoError(t, err)
	inter, ok := tree.(*Interactive)
	require.True(t, ok)
	require.Len(t, inter.Body, 1)
	assert.Equal(t, "Assign", inter.Body[0].Kind())

	_, err = Build("x = 1\ny = 2\n", ModeInteractive)
	var syntaxErr *SyntaxError
	require.True(t, errors.As(err, &syntaxErr))
}

func TestBuild_EmptySource(t *testing.T) {
	t.Parallel()

	mod := mustModule(t, "")
	assert.Empty(t, mod.Body)
}

func TestBuild_CommentsAreNotStatements(t *testing.T) {
	t.Parallel()

	mod := mustModule(t, "# just a comment\nx = 1\n# trailing\n")
	require.Len(t, mod.Body, 1)
	assert.Equal(t, "Assign", mod.Body[0].Kind())
}

func TestBuild_Deterministic(t *testing.T) {
	t.Parallel()

	source := "import os\n\ndef f(a):\n    x = a\n    return x\n"
	first, err := Build(source, ModeModule)
	require.NoError(t, err)
	second, err := Build(source, ModeModule)
	require.NoError(t, err)

	assert.Equal(t, Render(first, false), Render(second, false))
}
