package exprcore

import (
	"strings"

	"axion/exprcore/operator"
)

// ToOwned returns a copy of f whose variable names no longer alias the
// source text Parse was called with (spec.md §3's ownership requirement
// that both an owned and a borrowed representation "must exist and be
// inter-convertible" — exmex's FlatEx/OwnedFlatEx split, grounded on
// original_source's src/expression/deep.rs and flat.rs, which parameterize
// both types over a source-string lifetime).
//
// Go has no borrow checker, but the underlying memory-retention problem
// exmex's split guards against is real here too: a Var token's name is a
// substring of the text argument Parse received (token.Tokenize slices
// rest[:j] directly out of it), and that substring shares its backing
// array with the full original string. A Flat returned by Parse is
// therefore "borrowed" in truth, not just in name — as long as any varName
// inside its cached deep tree survives, Go's GC cannot reclaim the
// (possibly much larger) source buffer it was sliced from. ToOwned walks
// the cached tree and replaces every variable name with strings.Clone,
// detaching it from that backing array, so a Flat can safely outlive its
// source text (e.g. held in a long-running REPL's history) without
// pinning the buffer it was parsed from.
//
// The flattened evaluation body never needs this: flatNode carries only a
// variable index, never a name, so Evaluate never aliases source text
// regardless of which form Parse produced. ToOwned only rewrites the deep
// cache that Unparse and Partial read from, and is a no-op once
// CompactMemory has already dropped that cache.
func (f *Flat[T]) ToOwned() *Flat[T] {
	if f.deep == nil {
		return f
	}
	return &Flat[T]{body: f.body, nVars: f.nVars, deep: f.deep.ownedClone()}
}

// ownedClone is deepClone plus strings.Clone on every variable name, so the
// result shares no backing array with whatever string the names were
// originally sliced from.
func (e *deepExpr[T]) ownedClone() *deepExpr[T] {
	nodes := make([]deepNode[T], len(e.nodes))
	for i, n := range e.nodes {
		nodes[i] = n
		switch n.kind {
		case nkVar:
			nodes[i].varName = strings.Clone(n.varName)
		case nkExpr:
			nodes[i].expr = n.expr.ownedClone()
		}
	}
	bins := append([]binRef[T](nil), e.bins...)
	varNames := make([]string, len(e.varNames))
	for i, v := range e.varNames {
		varNames[i] = strings.Clone(v)
	}
	unary := unaryChain[T]{
		reprs: append([]string(nil), e.unary.reprs...),
		ops:   append([]operator.UnaryOp[T](nil), e.unary.ops...),
	}
	return &deepExpr[T]{nodes: nodes, bins: bins, unary: unary, varNames: varNames}
}
