package operator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindByRepr_LongestMatchWins(t *testing.T) {
	table := Table[float64]{
		MakeBin("*", BinOp[float64]{Apply: func(a, b float64) float64 { return a * b }}),
		MakeBin("**", BinOp[float64]{Apply: func(a, b float64) float64 { return a * b }}),
	}

	idx, n, ok := table.FindByRepr("**2")
	assert.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.Equal(t, 2, n)

	idx, n, ok = table.FindByRepr("*2")
	assert.True(t, ok)
	assert.Equal(t, 0, idx)
	assert.Equal(t, 1, n)
}

func TestFindByRepr_NoMatch(t *testing.T) {
	table := Table[float64]{MakeBin("+", BinOp[float64]{})}
	_, _, ok := table.FindByRepr("-5")
	assert.False(t, ok)
}

func TestMakeBinUnary(t *testing.T) {
	op := MakeBinUnary("-",
		BinOp[float64]{Apply: func(a, b float64) float64 { return a - b }, Priority: 1},
		func(a float64) float64 { return -a },
	)
	assert.True(t, op.HasBin())
	assert.True(t, op.HasUnary())
	assert.Equal(t, 3.0, op.Bin.Apply(5, 2))
	assert.Equal(t, -5.0, op.Unary.Apply(5))
}

func TestMakeConstant(t *testing.T) {
	op := MakeConstant("PI", 3.14159)
	assert.True(t, op.IsConst)
	assert.False(t, op.HasBin())
	assert.False(t, op.HasUnary())
	assert.Equal(t, 3.14159, op.ConstVal)
}
