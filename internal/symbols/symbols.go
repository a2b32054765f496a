// Package symbols turns a built syntax tree into a flat table of symbol
// records: top-level functions with their parameters and directly
// assigned locals, classes with their methods, and import statements.
package symbols

// Record is one extracted structural fact about a source file. The
// variant set is closed: FunctionSymbol, ClassSymbol, ImportSymbol,
// ImportFromSymbol.
type Record interface {
	// Kind returns the record's kind name for display and storage.
	Kind() string
	record()
}

// FunctionSymbol describes a top-level function or a class method.
// LocalVars lists names assigned directly in the function body, in
// source order, duplicates preserved.
type FunctionSymbol struct {
	Name      string   `json:"name"`
	Line      int      `json:"line"`
	Params    []string `json:"params"`
	LocalVars []string `json:"local_vars"`
}

// ClassSymbol describes a top-level class and the methods defined
// directly in its body.
type ClassSymbol struct {
	Name    string           `json:"name"`
	Line    int              `json:"line"`
	Methods []FunctionSymbol `json:"methods"`
}

// ImportSymbol describes one "import a, b" statement. Modules holds the
// original module names, never aliases.
type ImportSymbol struct {
	Modules []string `json:"modules"`
}

// ImportFromSymbol describes one "from m import a, b" statement. Module
// is empty for purely relative imports.
type ImportFromSymbol struct {
	Module string   `json:"module"`
	Names  []string `json:"names"`
}

func (FunctionSymbol) Kind() string   { return "function" }
func (FunctionSymbol) record()        {}
func (ClassSymbol) Kind() string      { return "class" }
func (ClassSymbol) record()           {}
func (ImportSymbol) Kind() string     { return "import" }
func (ImportSymbol) record()          {}
func (ImportFromSymbol) Kind() string { return "import_from" }
func (ImportFromSymbol) record()      {}
