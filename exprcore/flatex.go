package exprcore

import (
	"axion/exprcore/exerr"
	"axion/exprcore/operator"
	"axion/exprcore/token"
)

// flatNodeKind tags the three shapes a flat child can take (spec §4.7): a
// literal, a variable-index reference, or a compound node carrying its
// own recursively-flattened body and unary prefix.
type flatNodeKind int

const (
	fnLiteral flatNodeKind = iota
	fnVar
	fnSub
)

type flatNode[T any] struct {
	kind   flatNodeKind
	lit    T
	varIdx int
	sub    *flatBody[T]
}

// flatBody is the flattened parallel-array representation of one deep
// node: a node sequence, a parallel binary-operator sequence, a
// precomputed priority permutation (spec §4.6 reused at flatten time per
// §4.7), and the unary prefix carried over from the deep node it replaces.
type flatBody[T any] struct {
	nodes []flatNode[T]
	bins  []binRef[T]
	prio  []int
	unary unaryChain[T]
}

func flattenBody[T any](e *deepExpr[T]) *flatBody[T] {
	nodes := make([]flatNode[T], len(e.nodes))
	for i, n := range e.nodes {
		switch n.kind {
		case nkLiteral:
			nodes[i] = flatNode[T]{kind: fnLiteral, lit: n.lit}
		case nkVar:
			nodes[i] = flatNode[T]{kind: fnVar, varIdx: n.varIdx}
		case nkExpr:
			nodes[i] = flatNode[T]{kind: fnSub, sub: flattenBody(n.expr)}
		}
	}
	bins := append([]binRef[T](nil), e.bins...)
	prio := prioritizedIndices(len(bins),
		func(i int) int { return bins[i].op.Priority },
		func(i int) bool { return bins[i].op.IsCommutative },
		func(i int) bool { return nodes[i].kind == fnLiteral && nodes[i+1].kind == fnLiteral },
	)
	return &flatBody[T]{nodes: nodes, bins: bins, prio: prio, unary: e.unary}
}

// eval performs the priority-ordered left-to-right reduction from spec
// §4.8: operands are evaluated once into a parallel slot array, then
// consumed in priority order, skipping already-consumed neighbors.
func (b *flatBody[T]) eval(vars []T) (T, error) {
	var zero T
	vals := make([]T, len(b.nodes))
	for i, n := range b.nodes {
		switch n.kind {
		case fnLiteral:
			vals[i] = n.lit
		case fnVar:
			if n.varIdx < 0 || n.varIdx >= len(vars) {
				return zero, exerr.New("variable index %d out of range for %d bindings", n.varIdx, len(vars))
			}
			vals[i] = vars[n.varIdx]
		case fnSub:
			v, err := n.sub.eval(vars)
			if err != nil {
				return zero, err
			}
			vals[i] = v
		}
	}

	consumed := make([]bool, len(vals))
	for _, binIdx := range b.prio {
		lhs := binIdx
		for lhs >= 0 && consumed[lhs] {
			lhs--
		}
		rhs := binIdx + 1
		for rhs < len(vals) && consumed[rhs] {
			rhs++
		}
		vals[lhs] = b.bins[binIdx].op.Apply(vals[lhs], vals[rhs])
		consumed[rhs] = true
	}
	return b.unary.apply(vals[0]), nil
}

// Flat is the public expression handle returned by Parse (spec §6). It
// evaluates via the flattened array representation but retains an
// optional cached deep tree to support Unparse and Partial until
// CompactMemory discards it.
type Flat[T any] struct {
	body  *flatBody[T]
	nVars int
	deep  *deepExpr[T]
}

func flatten[T any](e *deepExpr[T]) *Flat[T] {
	return &Flat[T]{body: flattenBody(e), nVars: len(e.varNames), deep: e}
}

// VariableCount reports the number of distinct variables this expression
// was declared over; Evaluate requires exactly this many bindings.
func (f *Flat[T]) VariableCount() int { return f.nVars }

// VarNames returns the declared variable list in the lexicographic order
// Evaluate's bindings slice must follow.
func (f *Flat[T]) VarNames() []string {
	if f.deep == nil {
		return nil
	}
	out := make([]string, len(f.deep.varNames))
	copy(out, f.deep.varNames)
	return out
}

// Evaluate reduces the expression against a binding for each declared
// variable, in declared order.
func (f *Flat[T]) Evaluate(bindings []T) (T, error) {
	var zero T
	if len(bindings) != f.nVars {
		return zero, exerr.New("expected %d variable bindings, got %d", f.nVars, len(bindings))
	}
	return f.body.eval(bindings)
}

// DebugTree exposes the cached deep tree for structural dumping (e.g. via
// go-spew) without making deepExpr's fields part of the public API. Returns
// nil after CompactMemory.
func (f *Flat[T]) DebugTree() any {
	if f.deep == nil {
		return nil
	}
	return f.deep
}

// CompactMemory drops the cached deep tree, shrinking memory at the cost
// of making Unparse and Partial unavailable afterward (spec §4.7's
// reduce_memory/CompactMemory).
func (f *Flat[T]) CompactMemory() { f.deep = nil }

// Unparse reproduces deterministic, re-parseable source text for this
// expression (spec §4.10). Fails if CompactMemory already ran.
func (f *Flat[T]) Unparse() (string, error) {
	if f.deep == nil {
		return "", exerr.New("unparse unavailable: deep expression cache was dropped by CompactMemory")
	}
	return unparseDeep(f.deep), nil
}

// Partial differentiates f with respect to the variable at varIdx (in
// declared-variable order) using the fixed default rule set from spec
// §4.9. Fails if CompactMemory already ran, or if the expression uses an
// operator representation outside the fixed differentiable set.
//
// This is a package-level function rather than a method because Go
// methods cannot carry type parameters of their own: differentiation
// needs T to satisfy operator.Float (so chain-rule derivatives can call
// math.*), while Parse/Evaluate/Unparse stay usable for any T.
func Partial[T operator.Float](f *Flat[T], varIdx int) (*Flat[T], error) {
	if f.deep == nil {
		return nil, exerr.New("differentiation unavailable: deep expression cache was dropped by CompactMemory")
	}
	d, err := derivePartial(f.deep, varIdx)
	if err != nil {
		return nil, err
	}
	// The derivative keeps the source's declared variable list, so its Var
	// indices stay valid and it takes the same bindings as f.
	d.varNames = append([]string(nil), f.deep.varNames...)
	return flatten(d), nil
}

// Parse tokenizes, validates, builds, simplifies, and flattens text
// against the given operator table and literal matcher/parser (spec §6's
// external Parse contract).
func Parse[T any](text string, ops operator.Table[T], matchLiteral operator.LiteralMatcher, parseLiteral operator.LiteralParser[T]) (*Flat[T], error) {
	toks, err := token.Tokenize(text, ops, matchLiteral)
	if err != nil {
		return nil, err
	}
	if err := token.CheckStructure(toks, ops); err != nil {
		return nil, err
	}
	varNames := collectVarNames(toks)
	deep, consumed, err := buildExpr(toks, ops, parseLiteral, varNames, unaryChain[T]{})
	if err != nil {
		return nil, err
	}
	if consumed != len(toks) {
		return nil, exerr.At(toks[consumed].Text, "unexpected token after expression")
	}
	return flatten(deep), nil
}
