package symbols

import (
	"github.com/mvp-joe/semanta/internal/pytree"
)

// Extract walks a built tree and produces symbol records in source
// order. Only the direct statements of the module body are inspected;
// statements nested inside conditionals, loops, or other compound
// statements are deliberately not visited, which keeps the walk linear
// in the number of top-level statements.
//
// A tree whose root is not a Module (expression or interactive mode)
// yields an empty slice. Extract never fails.
func Extract(tree pytree.Tree) []Record {
	mod, ok := tree.(*pytree.Module)
	if !ok || mod.Body == nil {
		return nil
	}

	var records []Record
	for _, stmt := range mod.Body {
		switch node := stmt.(type) {
		case *pytree.FunctionDef:
			records = append(records, extractFunction(node))
		case *pytree.ClassDef:
			records = append(records, extractClass(node))
		case *pytree.Import:
			records = append(records, ImportSymbol{Modules: node.Modules})
		case *pytree.ImportFrom:
			records = append(records, ImportFromSymbol{Module: node.Module, Names: node.Names})
		}
	}
	return records
}

// extractFunction captures the function's parameters verbatim and scans
// its direct body for assignments. Only simple name targets count as
// locals; tuple, attribute, and subscript targets are skipped silently.
// Repeated assignment to the same name is collected each time.
func extractFunction(def *pytree.FunctionDef) FunctionSymbol {
	sym := FunctionSymbol{
		Name:   def.Name,
		Line:   def.Pos.Line,
		Params: def.Params,
	}
	for _, stmt := range def.Body {
		assign, ok := stmt.(*pytree.Assign)
		if !ok {
			continue
		}
		for _, target := range assign.Targets {
			if name, ok := target.(*pytree.Name); ok {
				sym.LocalVars = append(sym.LocalVars, name.ID)
			}
		}
	}
	return sym
}

// extractClass scans the direct class body for function definitions and
// applies the function rule to each. Nested classes and any other
// statements in the body produce no symbols.
func extractClass(def *pytree.ClassDef) ClassSymbol {
	sym := ClassSymbol{
		Name: def.Name,
		Line: def.Pos.Line,
	}
	for _, stmt := range def.Body {
		if method, ok := stmt.(*pytree.FunctionDef); ok {
			sym.Methods = append(sym.Methods, extractFunction(method))
		}
	}
	return sym
}
