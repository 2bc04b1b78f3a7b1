package bitops

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"axion/exprcore"
)

func TestEvaluate_BitwiseComplementOfOr(t *testing.T) {
	e, err := exprcore.Parse("!(a|b)", Factory(), MatchLiteral, ParseLiteral)
	assert.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, e.VarNames())

	got, err := e.Evaluate([]uint32{0, 1})
	assert.NoError(t, err)
	assert.Equal(t, uint32(math.MaxUint32-1), got)
}

func TestEvaluate_PrecedenceAndAssoc(t *testing.T) {
	e, err := exprcore.Parse("1|2&3", Factory(), MatchLiteral, ParseLiteral)
	assert.NoError(t, err)
	got, err := e.Evaluate(nil)
	assert.NoError(t, err)
	assert.Equal(t, uint32(1|(2&3)), got)
}

func TestMatchLiteral(t *testing.T) {
	n, ok := MatchLiteral("42x")
	assert.True(t, ok)
	assert.Equal(t, 2, n)

	_, ok = MatchLiteral("x42")
	assert.False(t, ok)
}

func TestParseLiteral(t *testing.T) {
	v, err := ParseLiteral("100")
	assert.NoError(t, err)
	assert.Equal(t, uint32(100), v)

	_, err = ParseLiteral("not-a-number")
	assert.Error(t, err)
}
