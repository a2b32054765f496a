package symbols

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/semanta/internal/pytree"
)

// Test Plan for Extract:
// - Emit function, class, and import records in source order
// - Capture parameters verbatim and locals from direct assignments only
// - Skip tuple/attribute/subscript assignment targets silently
// - Keep duplicate local names from repeated assignment
// - Collect class methods from the direct class body only
// - Map import aliases back to original names
// - Ignore statements nested in compound statements
// - Return empty for non-module roots and symbol-free modules
// - Stay deterministic across repeated extraction

func extract(t *testing.T, source string) []Record {
	t.Helper()
	tree, err := pytree.Build(source, pytree.ModeModule)
	require.NoError(t, err)
	return Extract(tree)
}

func TestExtract_SourceOrder(t *testing.T) {
	t.Parallel()

	source, err := os.ReadFile("../../testdata/python/simple.py")
	require.NoError(t, err)

	records := extract(t, string(source))
	require.Len(t, records, 6)

	assert.Equal(t, "import", records[0].Kind())
	assert.Equal(t, "import_from", records[1].Kind())
	assert.Equal(t, "import_from", records[2].Kind())
	assert.Equal(t, "function", records[3].Kind())
	assert.Equal(t, "class", records[4].Kind())
	assert.Equal(t, "function", records[5].Kind())
}

func TestExtract_FunctionLocals(t *testing.T) {
	t.Parallel()

	records := extract(t, `def f():
    x = 1
    x, y = 2, 3
`)
	require.Len(t, records, 1)

	fn, ok := records[0].(FunctionSymbol)
	require.True(t, ok)
	assert.Equal(t, "f", fn.Name)
	// The tuple assignment's targets are skipped, not decomposed.
	assert.Equal(t, []string{"x"}, fn.LocalVars)
}

func TestExtract_DuplicateLocalsPreserved(t *testing.T) {
	t.Parallel()

	records := extract(t, `def f():
    x = 1
    x = 2
    y = x
`)
	fn := records[0].(FunctionSymbol)
	assert.Equal(t, []string{"x", "x", "y"}, fn.LocalVars)
}

func TestExtract_ChainedAssignmentTargets(t *testing.T) {
	t.Parallel()

	records := extract(t, `def f():
    a = b = 1
`)
	fn := records[0].(FunctionSymbol)
	assert.Equal(t, []string{"a", "b"}, fn.LocalVars)
}

func TestExtract_NonNameTargetsSkipped(t *testing.T) {
	t.Parallel()

	records := extract(t, `def f(self):
    self.x = 1
    items[0] = 2
    ok = True
`)
	fn := records[0].(FunctionSymbol)
	assert.Equal(t, []string{"self"}, fn.Params)
	assert.Equal(t, []string{"ok"}, fn.LocalVars)
}

func TestExtract_LocalsDirectBodyOnly(t *testing.T) {
	t.Parallel()

	records := extract(t, `def f(flag):
    x = 1
    if flag:
        hidden = 2
    for i in range(3):
        also_hidden = i
`)
	fn := records[0].(FunctionSymbol)
	assert.Equal(t, []string{"x"}, fn.LocalVars, "assignments inside nested blocks are not locals")
}

func TestExtract_ClassMethods(t *testing.T) {
	t.Parallel()

	records := extract(t, `class C:
    def a(): pass
    def b(n): return n
`)
	require.Len(t, records, 1)

	cls, ok := records[0].(ClassSymbol)
	require.True(t, ok)
	assert.Equal(t, "C", cls.Name)
	assert.Equal(t, 1, cls.Line)
	require.Len(t, cls.Methods, 2)
	assert.Equal(t, "a", cls.Methods[0].Name)
	assert.Empty(t, cls.Methods[0].Params)
	assert.Equal(t, "b", cls.Methods[1].Name)
	assert.Equal(t, []string{"n"}, cls.Methods[1].Params)
}

func TestExtract_ClassBodyDirectOnly(t *testing.T) {
	t.Parallel()

	records := extract(t, `class Outer:
    version = 1

    class Inner:
        def hidden(self): pass

    def visible(self):
        state = {}
`)
	require.Len(t, records, 1)

	cls := records[0].(ClassSymbol)
	require.Len(t, cls.Methods, 1, "nested class methods are not Outer's methods")
	assert.Equal(t, "visible", cls.Methods[0].Name)
	assert.Equal(t, []string{"state"}, cls.Methods[0].LocalVars)
}

func TestExtract_ImportAliases(t *testing.T) {
	t.Parallel()

	records := extract(t, "import os, sys as s\n")
	require.Len(t, records, 1)

	imp, ok := records[0].(ImportSymbol)
	require.True(t, ok)
	assert.Equal(t, []string{"os", "sys"}, imp.Modules)
}

func TestExtract_ImportFrom(t *testing.T) {
	t.Parallel()

	records := extract(t, "from pkg.sub import a, b as c\n")
	require.Len(t, records, 1)

	imp, ok := records[0].(ImportFromSymbol)
	require.True(t, ok)
	assert.Equal(t, "pkg.sub", imp.Module)
	assert.Equal(t, []string{"a", "b"}, imp.Names)
}

func TestExtract_NestedStatementsIgnored(t *testing.T) {
	t.Parallel()

	records := extract(t, `if True:
    import hidden

    def also_hidden():
        pass

x = 1
print(x)
`)
	assert.Empty(t, records, "only FunctionDef/ClassDef/Import records exist, and none are top-level")
}

func TestExtract_NonModuleRoot(t *testing.T) {
	t.Parallel()

	tree, err := pytree.Build("1 + 2\n", pytree.ModeExpression)
	require.NoError(t, err)
	assert.Empty(t, Extract(tree))

	tree, err = pytree.Build("def f(): pass\n", pytree.ModeInteractive)
	require.NoError(t, err)
	assert.Empty(t, Extract(tree), "interactive roots produce no records by policy")
}

func TestExtract_Deterministic(t *testing.T) {
	t.Parallel()

	source := `import os

def f(a, b):
    x = a
    x = b

class C:
    def m(self): pass
`
	first := extract(t, source)
	second := extract(t, source)
	assert.Equal(t, first, second)
}
