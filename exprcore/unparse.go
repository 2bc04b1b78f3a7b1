package exprcore

import (
	"fmt"
	"strings"
)

// unparseDeep reproduces deterministic source text for a deep node (spec
// §4.10, mirroring exmex's unparse_raw): children are joined by their
// binary operator representations in storage order; a nested expression
// child is parenthesized unless it carries its own unary prefix (which
// already supplies its own grouping via the prefix's own parens); the
// node's own unary prefix wraps the whole body as repr(repr(...body...)).
func unparseDeep[T any](e *deepExpr[T]) string {
	parts := make([]string, len(e.nodes))
	for i, n := range e.nodes {
		switch n.kind {
		case nkLiteral:
			parts[i] = formatLiteral(n.lit)
		case nkVar:
			parts[i] = "{" + n.varName + "}"
		case nkExpr:
			if n.expr.unary.len() == 0 {
				parts[i] = "(" + unparseDeep(n.expr) + ")"
			} else {
				parts[i] = unparseDeep(n.expr)
			}
		}
	}

	body := parts[0]
	for i, b := range e.bins {
		body += b.repr + parts[i+1]
	}

	if e.unary.len() == 0 {
		return body
	}
	var prefix strings.Builder
	for _, r := range e.unary.reprs {
		prefix.WriteString(r)
		prefix.WriteByte('(')
	}
	return prefix.String() + body + strings.Repeat(")", e.unary.len())
}

func formatLiteral[T any](v T) string {
	return fmt.Sprintf("%v", v)
}
