package exprcore

import (
	"math"

	"axion/exprcore/exerr"
	"axion/exprcore/operator"
)

// derivePartial is the external entry point for spec §4.9: it walks the
// deep tree once, returning the partial derivative with respect to the
// variable at varIdx. Differentiation recognizes operators purely by
// their textual representation against the fixed default set below — an
// expression parsed with a custom operator factory that assigns
// different representations to the same concept simply isn't
// differentiable, and errors naming the unrecognized representation.
func derivePartial[T operator.Float](e *deepExpr[T], varIdx int) (*deepExpr[T], error) {
	if varIdx < 0 || varIdx >= len(e.varNames) {
		return nil, exerr.New("variable index %d out of range for %d declared variables", varIdx, len(e.varNames))
	}
	_, deriv, err := differentiateNode(e, varIdx)
	if err != nil {
		return nil, err
	}
	return deriv, nil
}

// differentiateNode returns both the (value, derivative) pair for e: the
// value is needed alongside the derivative by the product/quotient/power
// and chain rules at every enclosing level, exactly mirroring the
// reduction eval() itself performs, just carried out symbolically and in
// parallel for two expressions instead of one.
func differentiateNode[T operator.Float](e *deepExpr[T], varIdx int) (*deepExpr[T], *deepExpr[T], error) {
	n := len(e.nodes)
	values := make([]*deepExpr[T], n)
	derivs := make([]*deepExpr[T], n)

	for i, nd := range e.nodes {
		switch nd.kind {
		case nkLiteral:
			values[i] = litExpr(nd.lit)
			derivs[i] = zeroExpr[T]()
		case nkVar:
			values[i] = varExpr[T](nd.varIdx, nd.varName)
			if nd.varIdx == varIdx {
				derivs[i] = oneExpr[T]()
			} else {
				derivs[i] = zeroExpr[T]()
			}
		case nkExpr:
			v, d, err := differentiateNode(nd.expr, varIdx)
			if err != nil {
				return nil, nil, err
			}
			values[i] = v
			derivs[i] = d
		}
	}

	if len(e.bins) > 0 {
		prio := prioritizedIndices(len(e.bins),
			func(i int) int { return e.bins[i].op.Priority },
			func(i int) bool { return e.bins[i].op.IsCommutative },
			func(i int) bool { return e.nodes[i].kind == nkLiteral && e.nodes[i+1].kind == nkLiteral },
		)
		consumed := make([]bool, n)
		for _, binIdx := range prio {
			lhs := binIdx
			for lhs >= 0 && consumed[lhs] {
				lhs--
			}
			rhs := binIdx + 1
			for rhs < n && consumed[rhs] {
				rhs++
			}
			newVal, newDeriv, err := diffBinRule(e.bins[binIdx].repr, values[lhs], derivs[lhs], values[rhs], derivs[rhs])
			if err != nil {
				return nil, nil, err
			}
			values[lhs] = newVal
			derivs[lhs] = newDeriv
			consumed[rhs] = true
		}
	}

	value := values[0]
	deriv := derivs[0]
	for i := e.unary.len() - 1; i >= 0; i-- {
		nv, nd, err := diffUnaryRule(e.unary.reprs[i], value, deriv)
		if err != nil {
			return nil, nil, err
		}
		value, deriv = nv, nd
	}
	return value, deriv, nil
}

// --- construction helpers for the fixed default binary/unary set ---

func addOp[T operator.Float]() operator.BinOp[T] {
	return operator.BinOp[T]{Apply: func(a, b T) T { return a + b }, Priority: 1, IsCommutative: true}
}
func subOp[T operator.Float]() operator.BinOp[T] {
	return operator.BinOp[T]{Apply: func(a, b T) T { return a - b }, Priority: 1, IsCommutative: false}
}
func mulOp[T operator.Float]() operator.BinOp[T] {
	return operator.BinOp[T]{Apply: func(a, b T) T { return a * b }, Priority: 2, IsCommutative: true}
}
func divOp[T operator.Float]() operator.BinOp[T] {
	return operator.BinOp[T]{Apply: func(a, b T) T { return a / b }, Priority: 2, IsCommutative: false}
}
func powOp[T operator.Float]() operator.BinOp[T] {
	return operator.BinOp[T]{
		Apply:         func(a, b T) T { return T(math.Pow(float64(a), float64(b))) },
		Priority:      4,
		IsCommutative: false,
	}
}

func add[T operator.Float](l, r *deepExpr[T]) *deepExpr[T] { return newBinaryExpr("+", l, r, addOp[T]()) }
func sub[T operator.Float](l, r *deepExpr[T]) *deepExpr[T] { return newBinaryExpr("-", l, r, subOp[T]()) }
func mul[T operator.Float](l, r *deepExpr[T]) *deepExpr[T] { return newBinaryExpr("*", l, r, mulOp[T]()) }
func div[T operator.Float](l, r *deepExpr[T]) *deepExpr[T] { return newBinaryExpr("/", l, r, divOp[T]()) }
func pow[T operator.Float](l, r *deepExpr[T]) *deepExpr[T] { return newBinaryExpr("^", l, r, powOp[T]()) }

func neg[T operator.Float](v *deepExpr[T]) *deepExpr[T] {
	return wrapUnary(v, "-", func(x T) T { return -x })
}
func sinExpr[T operator.Float](v *deepExpr[T]) *deepExpr[T] {
	return wrapUnary(v, "sin", func(x T) T { return T(math.Sin(float64(x))) })
}
func cosExpr[T operator.Float](v *deepExpr[T]) *deepExpr[T] {
	return wrapUnary(v, "cos", func(x T) T { return T(math.Cos(float64(x))) })
}
func sqrtExpr[T operator.Float](v *deepExpr[T]) *deepExpr[T] {
	return wrapUnary(v, "sqrt", func(x T) T { return T(math.Sqrt(float64(x))) })
}
func logExpr[T operator.Float](v *deepExpr[T]) *deepExpr[T] {
	return wrapUnary(v, "log", func(x T) T { return T(math.Log(float64(x))) })
}

// diffBinRule applies the sum/diff/product/quotient/power rule named by
// repr, building both the reduced value and its derivative.
func diffBinRule[T operator.Float](repr string, vL, dL, vR, dR *deepExpr[T]) (*deepExpr[T], *deepExpr[T], error) {
	switch repr {
	case "+":
		return add(vL, vR), add(dL, dR), nil
	case "-":
		return sub(vL, vR), sub(dL, dR), nil
	case "*":
		return mul(vL, vR), add(mul(dL, vR), mul(vL, dR)), nil
	case "/":
		value := div(vL, vR)
		deriv := div(sub(mul(dL, vR), mul(vL, dR)), mul(vR, vR))
		return value, deriv, nil
	case "^":
		value := pow(vL, vR)
		uPowVm1 := pow(vL, sub(vR, oneExpr[T]()))
		term1 := mul(mul(vR, uPowVm1), dL)
		term2 := mul(mul(value, logExpr(vL)), dR)
		return value, add(term1, term2), nil
	default:
		return nil, nil, exerr.At(repr, "differentiation does not recognize this binary operator")
	}
}

// diffUnaryRule applies the chain rule for the named unary operator from
// the fixed default set (spec §4.9). value/deriv are the pre-image pair
// (v, v'); it returns (g(v), g'(v)*v').
func diffUnaryRule[T operator.Float](repr string, value, deriv *deepExpr[T]) (*deepExpr[T], *deepExpr[T], error) {
	one := oneExpr[T]
	switch repr {
	case "-":
		return neg(value), neg(deriv), nil
	case "sin":
		return sinExpr(value), mul(cosExpr(value), deriv), nil
	case "cos":
		return cosExpr(value), mul(neg(sinExpr(value)), deriv), nil
	case "tan":
		c := cosExpr(value)
		return wrapUnary(value, "tan", func(x T) T { return T(math.Tan(float64(x))) }),
			mul(div(one(), mul(c, c)), deriv), nil
	case "sinh":
		sh := func(x T) T { return T(math.Sinh(float64(x))) }
		ch := func(x T) T { return T(math.Cosh(float64(x))) }
		return wrapUnary(value, "sinh", sh), mul(wrapUnary(value, "cosh", ch), deriv), nil
	case "cosh":
		sh := func(x T) T { return T(math.Sinh(float64(x))) }
		ch := func(x T) T { return T(math.Cosh(float64(x))) }
		return wrapUnary(value, "cosh", ch), mul(wrapUnary(value, "sinh", sh), deriv), nil
	case "tanh":
		th := func(x T) T { return T(math.Tanh(float64(x))) }
		tanhV := wrapUnary(value, "tanh", th)
		return tanhV, mul(sub(one(), mul(tanhV, tanhV)), deriv), nil
	case "asin":
		as := func(x T) T { return T(math.Asin(float64(x))) }
		denom := sqrtExpr(sub(one(), mul(value, value)))
		return wrapUnary(value, "asin", as), mul(div(one(), denom), deriv), nil
	case "acos":
		ac := func(x T) T { return T(math.Acos(float64(x))) }
		denom := sqrtExpr(sub(one(), mul(value, value)))
		return wrapUnary(value, "acos", ac), mul(neg(div(one(), denom)), deriv), nil
	case "atan":
		at := func(x T) T { return T(math.Atan(float64(x))) }
		return wrapUnary(value, "atan", at), mul(div(one(), add(one(), mul(value, value))), deriv), nil
	case "exp":
		ex := func(x T) T { return T(math.Exp(float64(x))) }
		newVal := wrapUnary(value, "exp", ex)
		return newVal, mul(newVal, deriv), nil
	case "log":
		return logExpr(value), mul(div(one(), value), deriv), nil
	case "log2":
		l2 := func(x T) T { return T(math.Log2(float64(x))) }
		ln2 := litExpr[T](T(math.Ln2))
		return wrapUnary(value, "log2", l2), mul(div(one(), mul(value, ln2)), deriv), nil
	case "sqrt":
		newVal := sqrtExpr(value)
		two := litExpr[T](2)
		return newVal, mul(div(one(), mul(two, newVal)), deriv), nil
	case "signum":
		sg := func(x T) T { return T(sign(float64(x))) }
		return wrapUnary(value, "signum", sg), zeroExpr[T](), nil
	case "abs":
		ab := func(x T) T { return T(math.Abs(float64(x))) }
		sg := func(x T) T { return T(sign(float64(x))) }
		return wrapUnary(value, "abs", ab), mul(wrapUnary(value, "signum", sg), deriv), nil
	case "floor":
		return wrapUnary(value, "floor", func(x T) T { return T(math.Floor(float64(x))) }), zeroExpr[T](), nil
	case "ceil":
		return wrapUnary(value, "ceil", func(x T) T { return T(math.Ceil(float64(x))) }), zeroExpr[T](), nil
	case "fract":
		// Unlike floor/ceil/trunc/round, fract(x) = x - trunc(x) is locally
		// linear with slope 1 between integers, so its derivative away from
		// integer boundaries is deriv itself, not zero.
		fr := func(x T) T { f := float64(x); return T(f - math.Trunc(f)) }
		return wrapUnary(value, "fract", fr), deriv, nil
	case "trunc":
		return wrapUnary(value, "trunc", func(x T) T { return T(math.Trunc(float64(x))) }), zeroExpr[T](), nil
	case "round":
		return wrapUnary(value, "round", func(x T) T { return T(math.Round(float64(x))) }), zeroExpr[T](), nil
	case "cbrt":
		newVal := wrapUnary(value, "cbrt", func(x T) T { return T(math.Cbrt(float64(x))) })
		three := litExpr[T](3)
		return newVal, mul(div(one(), mul(three, mul(newVal, newVal))), deriv), nil
	default:
		return nil, nil, exerr.At(repr, "differentiation does not recognize this unary operator")
	}
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
