package pytree

import (
	"fmt"
	"strings"
)

const renderIndent = "    "

// Render produces a deterministic textual dump of a tree for
// diagnostics. The verbose form labels every field and includes
// position metadata; the simplified form drops labels and positions but
// keeps every structural value symbol extraction depends on. Render is
// total over trees produced by Build.
func Render(tree Tree, simplified bool) string {
	r := renderer{simplified: simplified}
	var b strings.Builder
	r.node(&b, tree, 0)
	return b.String()
}

type renderer struct {
	simplified bool
}

type field struct {
	label string
	value any // string, []string, Stmt, []Stmt, or []Target
}

func (r renderer) node(b *strings.Builder, n Node, depth int) {
	switch v := n.(type) {
	case *Module:
		r.write(b, "Module", depth, v.Pos, field{"body", v.Body})
	case *Expression:
		r.write(b, "Expression", depth, v.Pos, field{"body", v.Body})
	case *Interactive:
		r.write(b, "Interactive", depth, v.Pos, field{"body", v.Body})
	case *FunctionDef:
		r.write(b, "FunctionDef", depth, v.Pos,
			field{"name", v.Name},
			field{"params", v.Params},
			field{"body", v.Body})
	case *ClassDef:
		r.write(b, "ClassDef", depth, v.Pos,
			field{"name", v.Name},
			field{"body", v.Body})
	case *Import:
		r.write(b, "Import", depth, v.Pos, field{"modules", v.Modules})
	case *ImportFrom:
		r.write(b, "ImportFrom", depth, v.Pos,
			field{"module", v.Module},
			field{"names", v.Names})
	case *Assign:
		r.write(b, "Assign", depth, v.Pos, field{"targets", v.Targets})
	case *Opaque:
		r.write(b, v.Name, depth, v.Pos)
	case *Name:
		r.write(b, "Name", depth, v.Pos, field{"id", v.ID})
	case *OpaqueTarget:
		r.write(b, v.Name, depth, v.Pos)
	default:
		fmt.Fprintf(b, "%T", n)
	}
}

func (r renderer) write(b *strings.Builder, kind string, depth int, pos Pos, fields ...field) {
	b.WriteString(kind)
	b.WriteString("(")
	wrote := false
	for _, f := range fields {
		// Empty containers carry no structural information, so the
		// compact form leaves them out entirely.
		if r.simplified && emptyValue(f.value) {
			continue
		}
		if wrote {
			b.WriteString(",")
		}
		b.WriteString("\n")
		b.WriteString(strings.Repeat(renderIndent, depth+1))
		if !r.simplified {
			b.WriteString(f.label)
			b.WriteString("=")
		}
		r.value(b, f.value, depth+1)
		wrote = true
	}
	if !r.simplified {
		if wrote {
			b.WriteString(",")
		}
		b.WriteString("\n")
		b.WriteString(strings.Repeat(renderIndent, depth+1))
		fmt.Fprintf(b, "line=%d, col=%d, end_line=%d, end_col=%d",
			pos.Line, pos.Col, pos.EndLine, pos.EndCol)
	}
	b.WriteString(")")
}

func emptyValue(v any) bool {
	switch val := v.(type) {
	case []string:
		return len(val) == 0
	case []Stmt:
		return len(val) == 0
	case []Target:
		return len(val) == 0
	}
	return false
}

func (r renderer) value(b *strings.Builder, v any, depth int) {
	switch val := v.(type) {
	case string:
		fmt.Fprintf(b, "%q", val)
	case []string:
		b.WriteString("[")
		for i, s := range val {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(b, "%q", s)
		}
		b.WriteString("]")
	case Stmt:
		r.node(b, val, depth)
	case []Stmt:
		r.nodeList(b, len(val), depth, func(i int) Node { return val[i] })
	case []Target:
		r.nodeList(b, len(val), depth, func(i int) Node { return val[i] })
	default:
		fmt.Fprintf(b, "%v", val)
	}
}

func (r renderer) nodeList(b *strings.Builder, n int, depth int, at func(int) Node) {
	if n == 0 {
		b.WriteString("[]")
		return
	}
	b.WriteString("[")
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString("\n")
		b.WriteString(strings.Repeat(renderIndent, depth+1))
		r.node(b, at(i), depth+1)
	}
	b.WriteString("]")
}
