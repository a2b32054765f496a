package pytree

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

// ParseMode selects the grammar root Build targets. It is a plain value
// passed per call; Build holds no mode state between calls.
type ParseMode int

const (
	// ModeModule parses a full module. This is the default.
	ModeModule ParseMode = iota
	// ModeExpression parses a single expression.
	ModeExpression
	// ModeInteractive parses a single interactive statement.
	ModeInteractive
)

func (m ParseMode) String() string {
	switch m {
	case ModeModule:
		return "module"
	case ModeExpression:
		return "expression"
	case ModeInteractive:
		return "interactive"
	}
	return fmt.Sprintf("ParseMode(%d)", int(m))
}

// SyntaxError reports malformed source text. Line is 1-based, Column is
// 0-based. It is scoped to one file; callers are expected to report it
// and continue with the rest of the batch.
type SyntaxError struct {
	Line   int
	Column int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at line %d, column %d: %s", e.Line, e.Column, e.Msg)
}

var pythonLanguage = sitter.NewLanguage(python.Language())

// Build parses Python source text into a typed syntax tree. It is purely
// functional over its input: no shared state, safe to call concurrently.
//
// The returned error is a *SyntaxError when the text violates the
// grammar or the mode's shape constraint. There is no partial-tree
// recovery; a source that fails to parse yields no tree at all.
func Build(source string, mode ParseMode) (Tree, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(pythonLanguage)

	src := []byte(source)
	cst := parser.Parse(src, nil)
	if cst == nil {
		return nil, &SyntaxError{Line: 1, Column: 0, Msg: "parser produced no tree"}
	}
	defer cst.Close()

	root := cst.RootNode()
	if root.HasError() {
		return nil, errorAt(root)
	}

	l := &lowerer{src: src}
	switch mode {
	case ModeExpression:
		return l.lowerExpression(root)
	case ModeInteractive:
		return l.lowerInteractive(root)
	default:
		return &Module{Body: l.lowerBody(root), Pos: position(root)}, nil
	}
}

// errorAt locates the first ERROR or MISSING node and reports its
// position. HasError on the root guarantees one exists.
func errorAt(root *sitter.Node) *SyntaxError {
	if node := findErrorNode(root); node != nil {
		msg := "invalid syntax"
		if node.IsMissing() {
			msg = fmt.Sprintf("missing %s", node.Kind())
		}
		return &SyntaxError{
			Line:   int(node.StartPosition().Row) + 1,
			Column: int(node.StartPosition().Column),
			Msg:    msg,
		}
	}
	return &SyntaxError{Line: 1, Column: 0, Msg: "invalid syntax"}
}

func findErrorNode(node *sitter.Node) *sitter.Node {
	if node.IsError() || node.IsMissing() {
		return node
	}
	if !node.HasError() {
		return nil
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		if found := findErrorNode(node.Child(i)); found != nil {
			return found
		}
	}
	return node
}

type lowerer struct {
	src []byte
}

func (l *lowerer) text(node *sitter.Node) string {
	return string(l.src[node.StartByte():node.EndByte()])
}

func position(node *sitter.Node) Pos {
	return Pos{
		Line:    int(node.StartPosition().Row) + 1,
		Col:     int(node.StartPosition().Column),
		EndLine: int(node.EndPosition().Row) + 1,
		EndCol:  int(node.EndPosition().Column),
	}
}

// statements returns the named, non-extra children of a module or block
// node. Comments are extras in the python grammar and are not
// statements.
func statements(node *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child.IsExtra() {
			continue
		}
		out = append(out, child)
	}
	return out
}

func (l *lowerer) lowerBody(node *sitter.Node) []Stmt {
	stmts := statements(node)
	body := make([]Stmt, 0, len(stmts))
	for _, child := range stmts {
		body = append(body, l.lowerStmt(child))
	}
	return body
}

func (l *lowerer) lowerExpression(root *sitter.Node) (Tree, error) {
	stmts := statements(root)
	if len(stmts) != 1 || stmts[0].Kind() != "expression_statement" {
		return nil, modeError(root, stmts, "expression mode requires a single expression")
	}
	stmt := l.lowerStmt(stmts[0])
	if stmt.Kind() != "Expr" {
		pos := stmts[0].StartPosition()
		return nil, &SyntaxError{
			Line:   int(pos.Row) + 1,
			Column: int(pos.Column),
			Msg:    "expression mode requires a single expression",
		}
	}
	return &Expression{Body: stmt, Pos: position(root)}, nil
}

func (l *lowerer) lowerInteractive(root *sitter.Node) (Tree, error) {
	stmts := statements(root)
	if len(stmts) != 1 {
		return nil, modeError(root, stmts, "interactive mode requires a single statement")
	}
	return &Interactive{Body: []Stmt{l.lowerStmt(stmts[0])}, Pos: position(root)}, nil
}

func modeError(root *sitter.Node, stmts []*sitter.Node, msg string) *SyntaxError {
	at := root
	if len(stmts) > 1 {
		at = stmts[1]
	} else if len(stmts) == 1 {
		at = stmts[0]
	}
	return &SyntaxError{
		Line:   int(at.StartPosition().Row) + 1,
		Column: int(at.StartPosition().Column),
		Msg:    msg,
	}
}

func (l *lowerer) lowerStmt(node *sitter.Node) Stmt {
	switch node.Kind() {
	case "decorated_definition":
		if def := node.ChildByFieldName("definition"); def != nil {
			return l.lowerStmt(def)
		}
	case "function_definition":
		return l.lowerFunctionDef(node)
	case "class_definition":
		return l.lowerClassDef(node)
	case "import_statement":
		return l.lowerImport(node)
	case "import_from_statement":
		return l.lowerImportFrom(node)
	case "future_import_statement":
		return l.lowerFutureImport(node)
	case "expression_statement":
		return l.lowerExpressionStmt(node)
	}
	return &Opaque{Name: statementKindName(node.Kind()), Pos: position(node)}
}

func (l *lowerer) lowerFunctionDef(node *sitter.Node) Stmt {
	def := &FunctionDef{Pos: position(node)}
	if name := node.ChildByFieldName("name"); name != nil {
		def.Name = l.text(name)
	}
	def.Params = l.lowerParams(node.ChildByFieldName("parameters"))
	if body := node.ChildByFieldName("body"); body != nil {
		def.Body = l.lowerBody(body)
	}
	return def
}

// lowerParams captures parameter names in declaration order. All
// parameter flavors contribute their bare name; the "/" and "*"
// separators contribute nothing.
func (l *lowerer) lowerParams(params *sitter.Node) []string {
	if params == nil {
		return nil
	}
	var names []string
	for i := uint(0); i < params.NamedChildCount(); i++ {
		child := params.NamedChild(i)
		switch child.Kind() {
		case "positional_separator", "keyword_separator":
			continue
		case "identifier":
			names = append(names, l.text(child))
			continue
		}
		if name := child.ChildByFieldName("name"); name != nil {
			names = append(names, l.text(name))
			continue
		}
		if id := firstIdentifier(child); id != nil {
			names = append(names, l.text(id))
		}
	}
	return names
}

func firstIdentifier(node *sitter.Node) *sitter.Node {
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child.Kind() == "identifier" {
			return child
		}
	}
	return nil
}

func (l *lowerer) lowerClassDef(node *sitter.Node) Stmt {
	def := &ClassDef{Pos: position(node)}
	if name := node.ChildByFieldName("name"); name != nil {
		def.Name = l.text(name)
	}
	if body := node.ChildByFieldName("body"); body != nil {
		def.Body = l.lowerBody(body)
	}
	return def
}

// lowerImport collects module names from "import a, b as c". Aliased
// imports contribute the original dotted name, never the alias.
func (l *lowerer) lowerImport(node *sitter.Node) Stmt {
	imp := &Import{Pos: position(node)}
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		switch child.Kind() {
		case "dotted_name":
			imp.Modules = append(imp.Modules, l.text(child))
		case "aliased_import":
			if name := child.ChildByFieldName("name"); name != nil {
				imp.Modules = append(imp.Modules, l.text(name))
			}
		}
	}
	return imp
}

// lowerImportFrom handles "from pkg.sub import a, b as c". A purely
// relative import ("from . import x") yields an empty module; a dotted
// relative import ("from .pkg import x") yields the dotted part.
func (l *lowerer) lowerImportFrom(node *sitter.Node) Stmt {
	imp := &ImportFrom{Pos: position(node)}
	module := node.ChildByFieldName("module_name")
	if module != nil {
		switch module.Kind() {
		case "dotted_name":
			imp.Module = l.text(module)
		case "relative_import":
			if dotted := firstChildOfKind(module, "dotted_name"); dotted != nil {
				imp.Module = l.text(dotted)
			}
		}
	}
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if module != nil && child.Id() == module.Id() {
			continue
		}
		switch child.Kind() {
		case "dotted_name", "identifier":
			imp.Names = append(imp.Names, l.text(child))
		case "aliased_import":
			if name := child.ChildByFieldName("name"); name != nil {
				imp.Names = append(imp.Names, l.text(name))
			}
		case "wildcard_import":
			imp.Names = append(imp.Names, "*")
		}
	}
	return imp
}

func (l *lowerer) lowerFutureImport(node *sitter.Node) Stmt {
	imp := &ImportFrom{Module: "__future__", Pos: position(node)}
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		switch child.Kind() {
		case "dotted_name", "identifier":
			imp.Names = append(imp.Names, l.text(child))
		case "aliased_import":
			if name := child.ChildByFieldName("name"); name != nil {
				imp.Names = append(imp.Names, l.text(name))
			}
		}
	}
	return imp
}

func firstChildOfKind(node *sitter.Node, kind string) *sitter.Node {
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child.Kind() == kind {
			return child
		}
	}
	return nil
}

// lowerExpressionStmt distinguishes plain assignments from everything
// else an expression statement can wrap. Annotated and augmented
// assignments are different statement kinds in the Python grammar and
// stay opaque.
func (l *lowerer) lowerExpressionStmt(node *sitter.Node) Stmt {
	if node.NamedChildCount() == 1 {
		inner := node.NamedChild(0)
		switch inner.Kind() {
		case "assignment":
			if inner.ChildByFieldName("type") != nil {
				return &Opaque{Name: "AnnAssign", Pos: position(node)}
			}
			return l.lowerAssign(node, inner)
		case "augmented_assignment":
			return &Opaque{Name: "AugAssign", Pos: position(node)}
		}
	}
	return &Opaque{Name: "Expr", Pos: position(node)}
}

// lowerAssign flattens chained assignments ("x = y = 1") into one
// Assign with a target per left-hand side, in source order.
func (l *lowerer) lowerAssign(stmt, assign *sitter.Node) Stmt {
	out := &Assign{Pos: position(stmt)}
	for assign != nil && assign.Kind() == "assignment" {
		if left := assign.ChildByFieldName("left"); left != nil {
			out.Targets = append(out.Targets, l.lowerTarget(left))
		}
		assign = assign.ChildByFieldName("right")
	}
	return out
}

func (l *lowerer) lowerTarget(node *sitter.Node) Target {
	if node.Kind() == "identifier" {
		return &Name{ID: l.text(node), Pos: position(node)}
	}
	return &OpaqueTarget{Name: targetKindName(node.Kind()), Pos: position(node)}
}

// statementKindName maps grammar kinds to the conventional statement
// names the dump and kind listings use. Unmapped kinds pass through
// unchanged so nothing is hidden.
func statementKindName(kind string) string {
	switch kind {
	case "expression_statement":
		return "Expr"
	case "if_statement":
		return "If"
	case "for_statement":
		return "For"
	case "while_statement":
		return "While"
	case "try_statement":
		return "Try"
	case "with_statement":
		return "With"
	case "match_statement":
		return "Match"
	case "return_statement":
		return "Return"
	case "raise_statement":
		return "Raise"
	case "assert_statement":
		return "Assert"
	case "pass_statement":
		return "Pass"
	case "break_statement":
		return "Break"
	case "continue_statement":
		return "Continue"
	case "delete_statement":
		return "Delete"
	case "global_statement":
		return "Global"
	case "nonlocal_statement":
		return "Nonlocal"
	}
	return kind
}

func targetKindName(kind string) string {
	switch kind {
	case "pattern_list", "tuple_pattern":
		return "Tuple"
	case "list_pattern":
		return "List"
	case "attribute":
		return "Attribute"
	case "subscript":
		return "Subscript"
	}
	return kind
}
