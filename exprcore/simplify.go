package exprcore

import "sort"

// prioritizedIndices implements the sort from spec §4.6: effective
// priority is priority(i)*10, boosted by +5 when the operator is
// commutative and both its neighbors are foldable literals at this point
// in the computation. Ties keep input order (stable sort). Shared between
// the deep-tree folder (§4.5) and the flattener's precomputed permutation
// (§4.7), exactly as exmex's single prioritized_indices routine is
// reused across compile and flatten.
func prioritizedIndices(n int, priority func(i int) int, commutative func(i int) bool, bothLiteral func(i int) bool) []int {
	idx := make([]int, n)
	eff := make([]int, n)
	for i := 0; i < n; i++ {
		idx[i] = i
		p := priority(i) * 10
		if commutative(i) && bothLiteral(i) {
			p += 5
		}
		eff[i] = p
	}
	sort.SliceStable(idx, func(a, b int) bool { return eff[idx[a]] > eff[idx[b]] })
	return idx
}

// compileDeep runs the simplifier in place: lift single-child wrappers,
// then fold adjacent literal pairs in priority order, then (if the whole
// node collapsed to a single literal) absorb the unary prefix into it
// (spec §4.5, mirroring exmex's DeepEx::compile).
func compileDeep[T any](e *deepExpr[T]) {
	liftNodes(e)
	foldConstants(e)
	if len(e.nodes) == 1 && e.nodes[0].kind == nkLiteral && e.unary.len() > 0 {
		e.nodes[0].lit = e.unary.apply(e.nodes[0].lit)
		e.unary = unaryChain[T]{}
	}
}

// liftNodes removes redundant wrapping: a child that is itself a
// single-node, no-unary expression is replaced by that single node
// directly, and if the whole expression reduces to a single no-unary
// child wrapping a nested expression, that child's contents are hoisted
// up to replace it entirely (spec §4.5, mirroring exmex's lift_nodes).
func liftNodes[T any](e *deepExpr[T]) {
	if len(e.nodes) == 1 && e.unary.len() == 0 && e.nodes[0].kind == nkExpr {
		inner := e.nodes[0].expr
		*e = *inner
		return
	}
	for i := range e.nodes {
		if e.nodes[i].kind != nkExpr {
			continue
		}
		inner := e.nodes[i].expr
		if len(inner.nodes) != 1 || inner.unary.len() != 0 {
			continue
		}
		switch inner.nodes[0].kind {
		case nkLiteral:
			e.nodes[i] = deepNode[T]{kind: nkLiteral, lit: inner.nodes[0].lit}
		case nkVar:
			e.nodes[i] = deepNode[T]{kind: nkVar, varIdx: inner.nodes[0].varIdx, varName: inner.nodes[0].varName}
		case nkExpr:
			deeper := inner.nodes[0].expr
			liftNodes(deeper)
			if len(deeper.nodes) == 1 && deeper.unary.len() == 0 {
				e.nodes[i] = deepNode[T]{kind: nkExpr, expr: deeper}
			}
		}
	}
}

// foldConstants folds adjacent literal-literal pairs in priority order,
// tracking which node positions have "declined" (been skipped because a
// neighbor wasn't foldable) so a later, lower-priority fold never reaches
// across a position that an earlier, higher-priority fold already passed
// over (spec §4.5).
func foldConstants[T any](e *deepExpr[T]) {
	if len(e.bins) == 0 {
		return
	}
	prio := prioritizedIndices(len(e.bins),
		func(i int) int { return e.bins[i].op.Priority },
		func(i int) bool { return e.bins[i].op.IsCommutative },
		func(i int) bool { return e.nodes[i].kind == nkLiteral && e.nodes[i+1].kind == nkLiteral },
	)

	numInds := append([]int(nil), prio...)
	declined := make([]bool, len(e.nodes))
	used := make([]bool, len(e.bins))

	for i, binIdx := range prio {
		numIdx := numInds[i]
		if numIdx < 0 || numIdx+1 >= len(e.nodes) {
			continue
		}
		n1 := e.nodes[numIdx]
		n2 := e.nodes[numIdx+1]
		if n1.kind == nkLiteral && n2.kind == nkLiteral && !declined[numIdx] && !declined[numIdx+1] {
			result := e.bins[binIdx].op.Apply(n1.lit, n2.lit)
			e.nodes[numIdx] = deepNode[T]{kind: nkLiteral, lit: result}
			e.nodes = append(e.nodes[:numIdx+1], e.nodes[numIdx+2:]...)
			declined = append(declined[:numIdx+1], declined[numIdx+2:]...)
			used[binIdx] = true
			for j := range numInds {
				if numInds[j] > numIdx {
					numInds[j]--
				}
			}
		} else {
			declined[numIdx] = true
			declined[numIdx+1] = true
		}
	}

	if !anyTrue(used) {
		return
	}
	newBins := make([]binRef[T], 0, len(e.bins))
	for i, b := range e.bins {
		if !used[i] {
			newBins = append(newBins, b)
		}
	}
	e.bins = newBins
}

func anyTrue(bs []bool) bool {
	for _, b := range bs {
		if b {
			return true
		}
	}
	return false
}
