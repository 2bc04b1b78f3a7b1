package exprcore

import (
	"sort"

	"axion/exprcore/exerr"
	"axion/exprcore/operator"
)

// deepNodeKind tags the three shapes a deep child can take (spec §3):
// a literal value, a variable reference, or a boxed nested expression.
type deepNodeKind int

const (
	nkLiteral deepNodeKind = iota
	nkVar
	nkExpr
)

type deepNode[T any] struct {
	kind    deepNodeKind
	lit     T
	varIdx  int
	varName string
	expr    *deepExpr[T]
}

// binRef pairs a binary operator with the textual representation it was
// parsed from, so the unparser can reproduce it verbatim.
type binRef[T any] struct {
	repr string
	op   operator.BinOp[T]
}

// unaryChain is the ordered composition of unary functions applied to a
// node's reduced value, outermost first in storage order (spec §3).
type unaryChain[T any] struct {
	reprs []string
	ops   []operator.UnaryOp[T]
}

func (u unaryChain[T]) len() int { return len(u.ops) }

// apply evaluates the composition: storage is outermost-first, so
// application runs innermost first (the last-gathered op) up to the
// outermost (index 0) last.
func (u unaryChain[T]) apply(v T) T {
	for i := len(u.ops) - 1; i >= 0; i-- {
		v = u.ops[i].Apply(v)
	}
	return v
}

// withOuter returns a new chain with an additional function wrapped
// around the outside of the existing composition.
func (u unaryChain[T]) withOuter(repr string, fn func(T) T) unaryChain[T] {
	reprs := make([]string, 0, len(u.reprs)+1)
	reprs = append(reprs, repr)
	reprs = append(reprs, u.reprs...)
	ops := make([]operator.UnaryOp[T], 0, len(u.ops)+1)
	ops = append(ops, operator.UnaryOp[T]{Apply: fn})
	ops = append(ops, u.ops...)
	return unaryChain[T]{reprs: reprs, ops: ops}
}

// deepExpr is a node comprising an ordered sequence of children, a parallel
// sequence of binary operators between consecutive children, a unary
// prefix applied to the reduced value, and the sorted, deduplicated set
// of variable names referenced transitively (spec §3).
type deepExpr[T any] struct {
	nodes    []deepNode[T]
	bins     []binRef[T]
	unary    unaryChain[T]
	varNames []string
}

// newDeepExpr builds a deepExpr, checks the children/binops invariant,
// computes the transitively-referenced sorted variable list, and runs the
// simplifier (lifting + constant folding, spec §4.5) before returning.
//
// Variable indices inside Var nodes are assigned once, globally, by the
// top-level builder's first pass over the whole token stream (spec §4.4
// "resolved against the outer expression's lexicographically sorted
// variable list"); every deepExpr constructed afterwards — however deeply
// nested — reuses those same indices. Consequently this constructor never
// needs to rewrite a Var index to match its own local varNames position:
// it only needs to compute that local list for bookkeeping (VariableCount
// on a standalone subexpression, and exposing the declared variable list
// on the result the caller sees).
func newDeepExpr[T any](nodes []deepNode[T], bins []binRef[T], unary unaryChain[T]) (*deepExpr[T], error) {
	if len(nodes) != len(bins)+1 {
		return nil, exerr.New("mismatch between %d child nodes and %d binary operators", len(nodes), len(bins))
	}
	var found []string
	seen := map[string]bool{}
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			found = append(found, name)
		}
	}
	for _, n := range nodes {
		switch n.kind {
		case nkVar:
			add(n.varName)
		case nkExpr:
			for _, v := range n.expr.varNames {
				add(v)
			}
		}
	}
	sort.Strings(found)

	e := &deepExpr[T]{nodes: nodes, bins: bins, unary: unary, varNames: found}
	compileDeep(e)
	return e, nil
}

// deepClone returns a structurally independent copy so that building a
// new expression from an existing subtree (e.g. during differentiation)
// never mutates the source.
func (e *deepExpr[T]) deepClone() *deepExpr[T] {
	nodes := make([]deepNode[T], len(e.nodes))
	for i, n := range e.nodes {
		nodes[i] = n
		if n.kind == nkExpr {
			nodes[i].expr = n.expr.deepClone()
		}
	}
	bins := append([]binRef[T](nil), e.bins...)
	varNames := append([]string(nil), e.varNames...)
	unary := unaryChain[T]{
		reprs: append([]string(nil), e.unary.reprs...),
		ops:   append([]operator.UnaryOp[T](nil), e.unary.ops...),
	}
	return &deepExpr[T]{nodes: nodes, bins: bins, unary: unary, varNames: varNames}
}

// litExpr wraps a single literal value as a standalone deep expression.
func litExpr[T any](v T) *deepExpr[T] {
	e, _ := newDeepExpr([]deepNode[T]{{kind: nkLiteral, lit: v}}, nil, unaryChain[T]{})
	return e
}

// varExpr wraps a single variable reference as a standalone deep
// expression, reusing the caller's already-resolved global index.
func varExpr[T any](idx int, name string) *deepExpr[T] {
	e, _ := newDeepExpr([]deepNode[T]{{kind: nkVar, varIdx: idx, varName: name}}, nil, unaryChain[T]{})
	return e
}

// zeroExpr and oneExpr build the literal 0/1 subexpressions the
// differentiator needs for the sum/product/quotient/power rules.
func zeroExpr[T operator.Float]() *deepExpr[T] { return litExpr[T](0) }
func oneExpr[T operator.Float]() *deepExpr[T]  { return litExpr[T](1) }

// newBinaryExpr wraps two existing subexpressions as the two children of
// a fresh node joined by a single binary operator. Both children already
// carry globally-consistent variable indices (see newDeepExpr's doc
// comment), so no index-rewriting union step is needed here.
func newBinaryExpr[T any](repr string, l, r *deepExpr[T], op operator.BinOp[T]) *deepExpr[T] {
	nodes := []deepNode[T]{
		{kind: nkExpr, expr: l},
		{kind: nkExpr, expr: r},
	}
	e, _ := newDeepExpr(nodes, []binRef[T]{{repr: repr, op: op}}, unaryChain[T]{})
	return e
}

// wrapUnary returns a new expression equal to applying (repr, fn) on the
// outside of e's existing composition.
func wrapUnary[T any](e *deepExpr[T], repr string, fn func(T) T) *deepExpr[T] {
	clone := e.deepClone()
	clone.unary = clone.unary.withOuter(repr, fn)
	compileDeep(clone)
	return clone
}

// NVars reports the number of distinct variables transitively referenced
// by this subexpression.
func (e *deepExpr[T]) NVars() int { return len(e.varNames) }
