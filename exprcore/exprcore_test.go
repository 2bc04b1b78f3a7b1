package exprcore

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"axion/floatops"
)

func parseFloat(t *testing.T, text string) *Flat[float64] {
	t.Helper()
	e, err := Parse(text, floatops.Factory[float64](), floatops.MatchLiteral, floatops.ParseLiteral[float64])
	assert.NoError(t, err)
	return e
}

func TestEvaluate_Arithmetic(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"precedence", "2+3*4", 14},
		{"parens", "(2+3)*4", 20},
		{"power", "2^3+1", 9},
		{"triple negation", "---1", -1},
		{"double negation", "--1", 1},
		{"unary then binary", "-2+3", 1},
		{"function call", "sin(0)", 0},
		{"constant", "PI*0", 0},
		{"nested parens lift", "(((2+3)))", 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := parseFloat(t, tt.input)
			got, err := e.Evaluate(nil)
			assert.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestEvaluate_Variables(t *testing.T) {
	e := parseFloat(t, "x^2+y^2")
	assert.Equal(t, []string{"x", "y"}, e.VarNames())
	got, err := e.Evaluate([]float64{3, 2})
	assert.NoError(t, err)
	assert.InDelta(t, 13.0, got, 1e-9)
}

func TestEvaluate_WrongBindingCount(t *testing.T) {
	e := parseFloat(t, "x+1")
	_, err := e.Evaluate(nil)
	assert.Error(t, err)
	_, err = e.Evaluate([]float64{1, 2})
	assert.Error(t, err)
}

func TestUnparse_RoundTrip(t *testing.T) {
	e := parseFloat(t, "2*(x+3)")
	text, err := e.Unparse()
	assert.NoError(t, err)

	reparsed, err := Parse(text, floatops.Factory[float64](), floatops.MatchLiteral, floatops.ParseLiteral[float64])
	assert.NoError(t, err)

	got, err := reparsed.Evaluate([]float64{4})
	assert.NoError(t, err)
	want, err := e.Evaluate([]float64{4})
	assert.NoError(t, err)
	assert.InDelta(t, want, got, 1e-9)
}

func TestConstantFolding_Collapses(t *testing.T) {
	e := parseFloat(t, "2+3")
	text, err := e.Unparse()
	assert.NoError(t, err)
	assert.Equal(t, "5", text)
}

func TestCompactMemory_DisablesUnparseAndPartial(t *testing.T) {
	e := parseFloat(t, "x+1")
	e.CompactMemory()

	_, err := e.Unparse()
	assert.Error(t, err)

	_, err = Partial(e, 0)
	assert.Error(t, err)

	got, err := e.Evaluate([]float64{4})
	assert.NoError(t, err)
	assert.InDelta(t, 5.0, got, 1e-9)
}

func TestPartial_Polynomial(t *testing.T) {
	e := parseFloat(t, "x^2+y^2")
	dx, err := Partial(e, 0)
	assert.NoError(t, err)
	got, err := dx.Evaluate([]float64{3, 2})
	assert.NoError(t, err)
	assert.InDelta(t, 6.0, got, 1e-9) // d/dx(x^2+y^2) = 2x = 6 at x=3

	dy, err := Partial(e, 1)
	assert.NoError(t, err)
	got, err = dy.Evaluate([]float64{3, 2})
	assert.NoError(t, err)
	assert.InDelta(t, 4.0, got, 1e-9) // d/dy = 2y = 4 at y=2
}

func TestPartial_ProductRule(t *testing.T) {
	e := parseFloat(t, "x*y")
	dx, err := Partial(e, 0)
	assert.NoError(t, err)
	got, err := dx.Evaluate([]float64{3, 5})
	assert.NoError(t, err)
	assert.InDelta(t, 5.0, got, 1e-9) // d/dx(x*y) = y
}

func TestPartial_QuotientRule(t *testing.T) {
	e := parseFloat(t, "x/y")
	dx, err := Partial(e, 0)
	assert.NoError(t, err)
	got, err := dx.Evaluate([]float64{3, 2})
	assert.NoError(t, err)
	assert.InDelta(t, 0.5, got, 1e-9) // d/dx(x/y) = 1/y

	dy, err := Partial(e, 1)
	assert.NoError(t, err)
	got, err = dy.Evaluate([]float64{3, 2})
	assert.NoError(t, err)
	assert.InDelta(t, -0.75, got, 1e-9) // d/dy(x/y) = -x/y^2 = -3/4
}

func TestPartial_ChainRule(t *testing.T) {
	e := parseFloat(t, "sin(x)")
	dx, err := Partial(e, 0)
	assert.NoError(t, err)
	got, err := dx.Evaluate([]float64{0})
	assert.NoError(t, err)
	assert.InDelta(t, 1.0, got, 1e-9) // d/dx sin(x) = cos(x), cos(0) = 1
}

func TestPartial_UnrelatedVariableIsZero(t *testing.T) {
	// x only appears with a zero coefficient so that it is declared (index
	// 0); the y term is unrelated to x.
	e := parseFloat(t, "0*x+y+1")
	dx, err := Partial(e, 0)
	assert.NoError(t, err)
	got, err := dx.Evaluate([]float64{10, 20})
	assert.NoError(t, err)
	assert.InDelta(t, 0.0, got, 1e-9)
}

// centralDiff approximates f'(x) with the symmetric difference quotient.
func centralDiff(f func(float64) float64, x, h float64) float64 {
	return (f(x+h) - f(x-h)) / (2 * h)
}

// TestPartial_FiniteDifferenceAgreement checks every named unary function in
// the default floatops table (unary minus is not in the list) against
// numerical differentiation (spec §8's
// finite-difference agreement property), composed with a linear inner
// expression so the chain rule through build/simplify/flatten is exercised
// too, not just the bare closed-form unary rule. Each operator gets a sample
// point chosen to stay inside its domain and away from points of
// non-differentiability (integer boundaries for floor/ceil/trunc/round/
// fract, zero for signum/abs, the unit circle's edge for asin/acos).
func TestPartial_FiniteDifferenceAgreement(t *testing.T) {
	tests := []struct {
		op    string
		inner string
		x     float64
	}{
		{"sin", "2*x+1", 1.3},
		{"cos", "2*x+1", 1.3},
		{"tan", "2*x+1", 1.3},
		{"sinh", "2*x+1", 1.3},
		{"cosh", "2*x+1", 1.3},
		{"tanh", "2*x+1", 1.3},
		{"atan", "2*x+1", 1.3},
		{"exp", "2*x+1", 1.3},
		{"log", "2*x+1", 1.3},
		{"log2", "2*x+1", 1.3},
		{"sqrt", "2*x+1", 1.3},
		{"cbrt", "2*x+1", 1.3},
		{"asin", "0.3*x", 1.3},
		{"acos", "0.3*x", 1.3},
		{"abs", "x-1", 1.3},
		{"fract", "2*x+1", 1.3},
		{"floor", "2*x+1", 1.3},
		{"ceil", "2*x+1", 1.3},
		{"trunc", "2*x+1", 1.3},
		{"round", "2*x+1", 1.3},
		{"signum", "x-1", 1.3},
	}

	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			e := parseFloat(t, tt.op+"("+tt.inner+")")
			dx, err := Partial(e, 0)
			assert.NoError(t, err)

			analytic, err := dx.Evaluate([]float64{tt.x})
			assert.NoError(t, err)

			f := func(x float64) float64 {
				v, err := e.Evaluate([]float64{x})
				assert.NoError(t, err)
				return v
			}
			numeric := centralDiff(f, tt.x, 1e-5)

			assert.InDelta(t, numeric, analytic, 1e-3, "operator %s: closed-form derivative disagrees with central difference", tt.op)
		})
	}
}

func TestPartial_OutOfRangeVariable(t *testing.T) {
	e := parseFloat(t, "x+1")
	_, err := Partial(e, 5)
	assert.Error(t, err)
}

func TestParse_StructuralErrors(t *testing.T) {
	tests := []string{"2 3", "(1+2", "1+2)", "", "2+"}
	for _, in := range tests {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(in, floatops.Factory[float64](), floatops.MatchLiteral, floatops.ParseLiteral[float64])
			assert.Error(t, err)
		})
	}
}

func TestPrioritizedIndices_CommutativeBonus(t *testing.T) {
	// two equal-priority ops; the commutative one with literal neighbors
	// should sort first despite being declared second.
	idx := prioritizedIndices(2,
		func(i int) int { return 1 },
		func(i int) bool { return i == 1 },
		func(i int) bool { return i == 1 },
	)
	assert.Equal(t, []int{1, 0}, idx)
}

func TestVarNames_StableAcrossEquivalentRewrites(t *testing.T) {
	a := parseFloat(t, "x+y*2")
	b := parseFloat(t, "(y*2)+x")
	if diff := cmp.Diff(a.VarNames(), b.VarNames()); diff != "" {
		t.Errorf("variable lists diverged for structurally equivalent input (-a +b):\n%s", diff)
	}
}

func TestLiftNodes_CollapsesSingleChildWrapping(t *testing.T) {
	inner := litExpr(7.0)
	outer := &deepExpr[float64]{nodes: []deepNode[float64]{{kind: nkExpr, expr: inner}}}
	liftNodes(outer)
	assert.Equal(t, 1, len(outer.nodes))
	assert.Equal(t, nkLiteral, outer.nodes[0].kind)
	assert.Equal(t, 7.0, outer.nodes[0].lit)
}
