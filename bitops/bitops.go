// Package bitops is a user-supplied operator factory over unsigned
// 32-bit integers, demonstrating that exprcore is generic over any
// scalar "value" type, not just floats (spec §6, §9's "value" capability
// tier; the worked `!(a|b)` scenario from spec §8).
package bitops

import (
	"strconv"

	"axion/exprcore/operator"
)

// Factory returns a bitwise operator table: `|` `&` `^` binary, `!`
// unary complement. Unlike floatops, this table has no differentiable
// operators — bitops values have no meaningful derivative, and
// exprcore.Partial, which requires a float scalar type, cannot be called
// on expressions built from this factory.
func Factory() operator.Table[uint32] {
	return operator.Table[uint32]{
		operator.MakeBin("|", operator.BinOp[uint32]{Apply: func(a, b uint32) uint32 { return a | b }, Priority: 1, IsCommutative: true}),
		operator.MakeBin("^", operator.BinOp[uint32]{Apply: func(a, b uint32) uint32 { return a ^ b }, Priority: 2, IsCommutative: true}),
		operator.MakeBin("&", operator.BinOp[uint32]{Apply: func(a, b uint32) uint32 { return a & b }, Priority: 3, IsCommutative: true}),
		operator.MakeUnary("!", func(x uint32) uint32 { return ^x }),
	}
}

// MatchLiteral accepts a run of decimal digits.
func MatchLiteral(input string) (int, bool) {
	i := 0
	for i < len(input) && input[i] >= '0' && input[i] <= '9' {
		i++
	}
	return i, i > 0
}

// ParseLiteral parses an unsigned decimal literal into uint32.
func ParseLiteral(text string) (uint32, error) {
	v, err := strconv.ParseUint(text, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}
