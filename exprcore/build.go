package exprcore

import (
	"sort"

	"axion/exprcore/exerr"
	"axion/exprcore/operator"
	"axion/exprcore/token"
)

// collectVarNames makes the single first pass over the whole token stream
// that resolves every Var node's index against one shared, lexicographically
// sorted list (spec §4.4) — computed once, reused at every nesting depth.
func collectVarNames(toks []token.Token) []string {
	seen := map[string]bool{}
	var names []string
	for _, t := range toks {
		if t.Kind == token.Var && !seen[t.Text] {
			seen[t.Text] = true
			names = append(names, t.Text)
		}
	}
	sort.Strings(names)
	return names
}

func findVarIndex(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}

// buildExpr is the recursive-descent core (spec §4.4, mirroring exmex's
// make_expression): it walks toks from the start, accumulating children
// and binary operators, recursing into parens, and gathering unary
// prefixes via processUnary, until it runs out of tokens or hits a
// closing paren. It reports how many tokens it consumed so the caller
// (itself, for nested parens) can resume scanning afterward.
func buildExpr[T any](toks []token.Token, ops operator.Table[T], parseLiteral operator.LiteralParser[T], varNames []string, incomingUnary unaryChain[T]) (*deepExpr[T], int, error) {
	var nodes []deepNode[T]
	var bins []binRef[T]
	idx := 0

	for idx < len(toks) {
		t := toks[idx]
		switch t.Kind {
		case token.Op:
			op := ops[t.OpIndex]
			if op.IsConst {
				nodes = append(nodes, deepNode[T]{kind: nkLiteral, lit: op.ConstVal})
				idx++
				continue
			}
			var prev *token.Token
			if idx > 0 {
				p := toks[idx-1]
				prev = &p
			}
			if token.IsBinaryPosition(op, prev, ops) {
				bins = append(bins, binRef[T]{repr: op.Repr, op: *op.Bin})
				idx++
				continue
			}
			node, consumed, err := processUnary(toks, idx, ops, parseLiteral, varNames)
			if err != nil {
				return nil, 0, err
			}
			nodes = append(nodes, node)
			idx += consumed

		case token.Literal:
			v, err := parseLiteral(t.Text)
			if err != nil {
				return nil, 0, exerr.At(t.Text, "literal failed to parse")
			}
			nodes = append(nodes, deepNode[T]{kind: nkLiteral, lit: v})
			idx++

		case token.Var:
			nodes = append(nodes, deepNode[T]{kind: nkVar, varIdx: findVarIndex(varNames, t.Text), varName: t.Text})
			idx++

		case token.ParenOpen:
			sub, consumed, err := buildExpr(toks[idx+1:], ops, parseLiteral, varNames, unaryChain[T]{})
			if err != nil {
				return nil, 0, err
			}
			nodes = append(nodes, deepNode[T]{kind: nkExpr, expr: sub})
			idx += consumed + 1

		case token.ParenClose:
			idx++
			goto done
		}
	}
done:
	e, err := newDeepExpr(nodes, bins, incomingUnary)
	if err != nil {
		return nil, 0, err
	}
	return e, idx, nil
}

// processUnary gathers the greedy run of consecutive unary-capable
// operators starting at idx (outermost first, per spec §3), then builds
// whatever follows — a parenthesized subexpression, a bare variable, or a
// literal — with that chain attached (spec §4.3, mirroring exmex's
// process_unary).
func processUnary[T any](toks []token.Token, idx int, ops operator.Table[T], parseLiteral operator.LiteralParser[T], varNames []string) (deepNode[T], int, error) {
	var reprs []string
	var fns []operator.UnaryOp[T]
	j := idx
	for j < len(toks) {
		t := toks[j]
		if t.Kind != token.Op {
			break
		}
		op := ops[t.OpIndex]
		if op.IsConst || !op.HasUnary() {
			break
		}
		reprs = append(reprs, op.Repr)
		fns = append(fns, *op.Unary)
		j++
	}
	n := j - idx
	if n == 0 {
		return deepNode[T]{}, 0, exerr.At(toks[idx].Text, "expected a unary operator here")
	}
	if j >= len(toks) {
		return deepNode[T]{}, 0, exerr.At(toks[idx].Text, "unary operator has no operand")
	}
	chain := unaryChain[T]{reprs: reprs, ops: fns}

	switch toks[j].Kind {
	case token.ParenOpen:
		sub, consumed, err := buildExpr(toks[j+1:], ops, parseLiteral, varNames, chain)
		if err != nil {
			return deepNode[T]{}, 0, err
		}
		return deepNode[T]{kind: nkExpr, expr: sub}, consumed + n + 1, nil

	case token.Var:
		e, _ := newDeepExpr([]deepNode[T]{{kind: nkVar, varIdx: findVarIndex(varNames, toks[j].Text), varName: toks[j].Text}}, nil, chain)
		return deepNode[T]{kind: nkExpr, expr: e}, n + 1, nil

	case token.Literal:
		v, err := parseLiteral(toks[j].Text)
		if err != nil {
			return deepNode[T]{}, 0, exerr.At(toks[j].Text, "literal failed to parse")
		}
		return deepNode[T]{kind: nkLiteral, lit: chain.apply(v)}, n + 1, nil

	case token.Op:
		// A constant operator (e.g. PI) behaves as an operand here.
		op := ops[toks[j].OpIndex]
		if op.IsConst {
			return deepNode[T]{kind: nkLiteral, lit: chain.apply(op.ConstVal)}, n + 1, nil
		}
		return deepNode[T]{}, 0, exerr.At(toks[j].Text, "unary operator cannot apply to another operator")

	default:
		return deepNode[T]{}, 0, exerr.At(toks[j].Text, "unary operator has no valid operand")
	}
}
