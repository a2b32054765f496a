// Package pytree builds typed Python syntax trees from source text.
//
// The tree is a closed tagged-variant hierarchy: every statement kind the
// symbol extractor cares about has its own type, and everything else is
// lowered to Opaque so "unknown kind, skip it" is an explicit case rather
// than an accident of type dispatch.
package pytree

// Pos holds a node's source position. Line and EndLine are 1-based,
// Col and EndCol are 0-based byte columns.
type Pos struct {
	Line    int
	Col     int
	EndLine int
	EndCol  int
}

// Node is implemented by every syntax tree node.
type Node interface {
	// Kind returns the node's kind name (e.g. "FunctionDef", "Import").
	Kind() string
	Position() Pos
}

// Tree is a root node produced by Build. Exactly one of Module,
// Expression, or Interactive, depending on the parse mode.
type Tree interface {
	Node
	root()
}

// Stmt is a statement appearing in a Module, function, or class body.
type Stmt interface {
	Node
	stmt()
}

// Target is the left-hand side of an assignment. Simple names are
// represented by Name; tuple, attribute, and subscript targets are
// opaque and never decomposed.
type Target interface {
	Node
	target()
}

// Module is the root of a tree built in ModeModule. Body preserves
// source order.
type Module struct {
	Body []Stmt
	Pos  Pos
}

// Expression is the root of a tree built in ModeExpression. Body holds
// the single expression statement.
type Expression struct {
	Body Stmt
	Pos  Pos
}

// Interactive is the root of a tree built in ModeInteractive.
type Interactive struct {
	Body []Stmt
	Pos  Pos
}

// FunctionDef is a def statement. Params preserves declaration order and
// may contain duplicates; rejecting those is the interpreter's job, not
// ours.
type FunctionDef struct {
	Name   string
	Params []string
	Body   []Stmt
	Pos    Pos
}

// ClassDef is a class statement.
type ClassDef struct {
	Name string
	Body []Stmt
	Pos  Pos
}

// Import is a plain import statement. Modules holds one entry per
// imported module, original names as written, never the alias.
type Import struct {
	Modules []string
	Pos     Pos
}

// ImportFrom is a from-import statement. Module is empty for purely
// relative imports ("from . import x").
type ImportFrom struct {
	Module string
	Names  []string
	Pos    Pos
}

// Assign is an assignment statement. Chained assignments contribute one
// target per left-hand side.
type Assign struct {
	Targets []Target
	Pos     Pos
}

// Opaque is any statement kind the model does not decompose. It keeps
// only its kind name and position so dumps stay complete.
type Opaque struct {
	Name string
	Pos  Pos
}

// Name is a simple identifier target.
type Name struct {
	ID  string
	Pos Pos
}

// OpaqueTarget is a non-name assignment target (tuple, attribute,
// subscript). The extractor skips these silently.
type OpaqueTarget struct {
	Name string
	Pos  Pos
}

func (m *Module) Kind() string       { return "Module" }
func (m *Module) Position() Pos      { return m.Pos }
func (m *Module) root()              {}
func (e *Expression) Kind() string   { return "Expression" }
func (e *Expression) Position() Pos  { return e.Pos }
func (e *Expression) root()          {}
func (i *Interactive) Kind() string  { return "Interactive" }
func (i *Interactive) Position() Pos { return i.Pos }
func (i *Interactive) root()         {}

func (f *FunctionDef) Kind() string   { return "FunctionDef" }
func (f *FunctionDef) Position() Pos  { return f.Pos }
func (f *FunctionDef) stmt()          {}
func (c *ClassDef) Kind() string      { return "ClassDef" }
func (c *ClassDef) Position() Pos     { return c.Pos }
func (c *ClassDef) stmt()             {}
func (i *Import) Kind() string        { return "Import" }
func (i *Import) Position() Pos       { return i.Pos }
func (i *Import) stmt()               {}
func (i *ImportFrom) Kind() string    { return "ImportFrom" }
func (i *ImportFrom) Position() Pos   { return i.Pos }
func (i *ImportFrom) stmt()           {}
func (a *Assign) Kind() string        { return "Assign" }
func (a *Assign) Position() Pos       { return a.Pos }
func (a *Assign) stmt()               {}
func (o *Opaque) Kind() string        { return o.Name }
func (o *Opaque) Position() Pos       { return o.Pos }
func (o *Opaque) stmt()               {}
func (n *Name) Kind() string          { return "Name" }
func (n *Name) Position() Pos         { return n.Pos }
func (n *Name) target()               {}
func (t *OpaqueTarget) Kind() string  { return t.Name }
func (t *OpaqueTarget) Position() Pos { return t.Pos }
func (t *OpaqueTarget) target()       {}

// TopLevelKinds returns the kind names of the tree's top-level
// statements, in source order. Non-module roots yield nil.
func TopLevelKinds(tree Tree) []string {
	mod, ok := tree.(*Module)
	if ok {
		kinds := make([]string, 0, len(mod.Body))
		for _, s := range mod.Body {
			kinds = append(kinds, s.Kind())
		}
		return kinds
	}
	return nil
}
