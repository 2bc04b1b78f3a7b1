package token

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"axion/exprcore/operator"
)

func testOps() operator.Table[float64] {
	return operator.Table[float64]{
		operator.MakeBinUnary("-",
			operator.BinOp[float64]{Apply: func(a, b float64) float64 { return a - b }, Priority: 1},
			func(a float64) float64 { return -a },
		),
		operator.MakeBin("+", operator.BinOp[float64]{Apply: func(a, b float64) float64 { return a + b }, Priority: 1, IsCommutative: true}),
		operator.MakeBin("*", operator.BinOp[float64]{Apply: func(a, b float64) float64 { return a * b }, Priority: 2, IsCommutative: true}),
		operator.MakeUnary("sin", func(a float64) float64 { return a }),
		operator.MakeConstant[float64]("PI", 3.14159),
	}
}

func matchDigits(input string) (int, bool) {
	i := 0
	for i < len(input) && input[i] >= '0' && input[i] <= '9' {
		i++
	}
	return i, i > 0
}

func TestTokenize(t *testing.T) {
	ops := testOps()
	tests := []struct {
		name  string
		input string
		kinds []Kind
	}{
		{"simple sum", "2+3", []Kind{Literal, Op, Literal}},
		{"variable", "x*2", []Kind{Var, Op, Literal}},
		{"braced variable", "{my var}+1", []Kind{Var, Op, Literal}},
		{"parens", "(1+2)", []Kind{ParenOpen, Literal, Op, Literal, ParenClose}},
		{"greek variable", "α+β", []Kind{Var, Op, Var}},
		{"unary function", "sin 4", []Kind{Op, Literal}},
		{"bare identifier absorbs function name", "sin4", []Kind{Var}},
		{"constant", "PI*2", []Kind{Op, Op, Literal}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := Tokenize(tt.input, ops, matchDigits)
			assert.NoError(t, err)
			kinds := make([]Kind, len(toks))
			for i, tok := range toks {
				kinds[i] = tok.Kind
			}
			assert.Equal(t, tt.kinds, kinds)
		})
	}
}

func TestTokenize_UnrecognizedChar(t *testing.T) {
	_, err := Tokenize("2 $ 3", testOps(), matchDigits)
	assert.Error(t, err)
}

func TestTokenize_UnterminatedBrace(t *testing.T) {
	_, err := Tokenize("{abc", testOps(), matchDigits)
	assert.Error(t, err)
}

func TestCheckStructure_Balance(t *testing.T) {
	ops := testOps()
	toks, err := Tokenize("(1+2", ops, matchDigits)
	assert.NoError(t, err)
	assert.Error(t, CheckStructure(toks, ops))

	toks, err = Tokenize("1+2)", ops, matchDigits)
	assert.NoError(t, err)
	assert.Error(t, CheckStructure(toks, ops))
}

func TestCheckStructure_AdjacentOperands(t *testing.T) {
	ops := testOps()
	toks, err := Tokenize("2 3", ops, matchDigits)
	assert.NoError(t, err)
	assert.Error(t, CheckStructure(toks, ops))
}

func TestCheckStructure_ConstantIsOperand(t *testing.T) {
	ops := testOps()
	toks, err := Tokenize("PI*2", ops, matchDigits)
	assert.NoError(t, err)
	assert.NoError(t, CheckStructure(toks, ops))

	toks, err = Tokenize("2*PI", ops, matchDigits)
	assert.NoError(t, err)
	assert.NoError(t, CheckStructure(toks, ops))
}

func TestCheckStructure_ValidExpressions(t *testing.T) {
	ops := testOps()
	for _, in := range []string{"1+2*3", "sin 4", "-5", "(1+2)*3", "x+y"} {
		toks, err := Tokenize(in, ops, matchDigits)
		assert.NoError(t, err)
		assert.NoError(t, CheckStructure(toks, ops))
	}
}

func TestIsBinaryPosition(t *testing.T) {
	ops := testOps()
	minusIdx, _, _ := ops.FindByRepr("-")
	minus := ops[minusIdx]

	assert.False(t, IsBinaryPosition(minus, nil, ops))

	litPrev := Token{Kind: Literal, Text: "5"}
	assert.True(t, IsBinaryPosition(minus, &litPrev, ops))

	opPrev := Token{Kind: Op, Text: "+"}
	assert.False(t, IsBinaryPosition(minus, &opPrev, ops))

	constIdx, _, _ := ops.FindByRepr("PI")
	_ = constIdx
	constPrev := Token{Kind: Op, Text: "PI", OpIndex: constIdx}
	assert.True(t, IsBinaryPosition(minus, &constPrev, ops))
}
