package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mvp-joe/semanta/internal/symbols"
)

// Test Plan for console formatting:
// - Functions render with params, locals, and line
// - Classes render their methods indented
// - Imports render in python-ish form
// - limitSources keeps the first n files in path order

func TestFormatRecord(t *testing.T) {
	t.Parallel()

	fn := symbols.FunctionSymbol{
		Name: "main", Line: 7,
		Params:    []string{"argv"},
		LocalVars: []string{"parser", "args"},
	}
	assert.Equal(t, "def main(argv) [locals: parser, args]  (line 7)", formatRecord(fn))

	bare := symbols.FunctionSymbol{Name: "noop", Line: 1}
	assert.Equal(t, "def noop()  (line 1)", formatRecord(bare))

	cls := symbols.ClassSymbol{
		Name: "App", Line: 3,
		Methods: []symbols.FunctionSymbol{{Name: "run", Line: 4, Params: []string{"self"}}},
	}
	out := formatRecord(cls)
	assert.Contains(t, out, "class App  (line 3)")
	assert.Contains(t, out, "def run(self)  (line 4)")

	imp := symbols.ImportSymbol{Modules: []string{"os", "sys"}}
	assert.Equal(t, "import os, sys", formatRecord(imp))

	impFrom := symbols.ImportFromSymbol{Module: "pkg.sub", Names: []string{"a", "b"}}
	assert.Equal(t, "from pkg.sub import a, b", formatRecord(impFrom))

	relative := symbols.ImportFromSymbol{Names: []string{"x"}}
	assert.Equal(t, "from . import x", formatRecord(relative))
}

func TestLimitSources(t *testing.T) {
	t.Parallel()

	sources := map[string]string{
		"c.py": "3",
		"a.py": "1",
		"b.py": "2",
	}

	limited := limitSources(sources, 2)
	assert.Len(t, limited, 2)
	assert.Contains(t, limited, "a.py")
	assert.Contains(t, limited, "b.py")

	assert.Equal(t, sources, limitSources(sources, 0))
	assert.Equal(t, sources, limitSources(sources, 10))
}
