// Package floatops is the default operator factory and literal
// matcher/parser for float32/float64 scalars (spec §6's "operator factory
// contract" applied concretely). It supplies the exact binary/unary set
// the differentiator recognizes by representation (exprcore's derive.go), so
// expressions built from this factory are always differentiable.
package floatops

import (
	"math"
	"strconv"
	"strings"

	"axion/exprcore/operator"
)

// Factory returns the default operator table: `^ * / + -` binary,
// `sin cos tan asin acos atan sinh cosh tanh exp log log2 sqrt abs signum
// floor ceil fract trunc round cbrt` unary, plus the `-` operator
// overloaded as both binary subtraction and unary negation, and the `PI`
// and `E` named constants (spec §6).
func Factory[T operator.Float]() operator.Table[T] {
	f64 := func(fn func(float64) float64) func(T) T {
		return func(x T) T { return T(fn(float64(x))) }
	}
	return operator.Table[T]{
		operator.MakeBinUnary("-",
			operator.BinOp[T]{Apply: func(a, b T) T { return a - b }, Priority: 1, IsCommutative: false},
			func(x T) T { return -x },
		),
		operator.MakeBin("+", operator.BinOp[T]{Apply: func(a, b T) T { return a + b }, Priority: 1, IsCommutative: true}),
		operator.MakeBin("*", operator.BinOp[T]{Apply: func(a, b T) T { return a * b }, Priority: 2, IsCommutative: true}),
		operator.MakeBin("/", operator.BinOp[T]{Apply: func(a, b T) T { return a / b }, Priority: 2, IsCommutative: false}),
		operator.MakeBin("^", operator.BinOp[T]{
			Apply:         func(a, b T) T { return T(math.Pow(float64(a), float64(b))) },
			Priority:      4,
			IsCommutative: false,
		}),

		operator.MakeUnary("asin", f64(math.Asin)),
		operator.MakeUnary("acos", f64(math.Acos)),
		operator.MakeUnary("atan", f64(math.Atan)),
		operator.MakeUnary("sinh", f64(math.Sinh)),
		operator.MakeUnary("cosh", f64(math.Cosh)),
		operator.MakeUnary("tanh", f64(math.Tanh)),
		operator.MakeUnary("sin", f64(math.Sin)),
		operator.MakeUnary("cos", f64(math.Cos)),
		operator.MakeUnary("tan", f64(math.Tan)),
		operator.MakeUnary("exp", f64(math.Exp)),
		operator.MakeUnary("log2", f64(math.Log2)),
		operator.MakeUnary("log", f64(math.Log)),
		operator.MakeUnary("sqrt", f64(math.Sqrt)),
		operator.MakeUnary("signum", f64(sign)),
		operator.MakeUnary("abs", f64(math.Abs)),
		operator.MakeUnary("floor", f64(math.Floor)),
		operator.MakeUnary("ceil", f64(math.Ceil)),
		operator.MakeUnary("fract", f64(fract)),
		operator.MakeUnary("trunc", f64(math.Trunc)),
		operator.MakeUnary("round", f64(math.Round)),
		operator.MakeUnary("cbrt", f64(math.Cbrt)),

		operator.MakeConstant[T]("PI", T(math.Pi)),
		operator.MakeConstant[T]("π", T(math.Pi)),
		operator.MakeConstant[T]("E", T(math.E)),
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

func fract(x float64) float64 { return x - math.Trunc(x) }

// MatchLiteral accepts the decimal-number grammar from spec §4.1:
// an optional leading digit run, an optional `.` followed by a digit run,
// requiring at least one digit overall.
func MatchLiteral(input string) (int, bool) {
	i := 0
	digitsBefore := 0
	for i < len(input) && isDigit(input[i]) {
		i++
		digitsBefore++
	}
	if i < len(input) && input[i] == '.' {
		j := i + 1
		digitsAfter := 0
		for j < len(input) && isDigit(input[j]) {
			j++
			digitsAfter++
		}
		if digitsAfter > 0 {
			return j, true
		}
		if digitsBefore > 0 {
			return i, true
		}
		return 0, false
	}
	if digitsBefore > 0 {
		return i, true
	}
	return 0, false
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// ParseLiteral parses the byte span MatchLiteral accepted into T.
func ParseLiteral[T operator.Float](text string) (T, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, err
	}
	return T(v), nil
}
