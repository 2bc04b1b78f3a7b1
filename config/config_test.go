package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"axion/exprcore/operator"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "operators.yaml")
	assert.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoad_ParsesOperators(t *testing.T) {
	path := writeTempConfig(t, `
operators:
  - repr: "mod"
    kind: "mod"
    priority: 2
    commutative: false
  - repr: "max"
    kind: "max"
    priority: 1
    commutative: true
`)
	f, err := Load(path)
	assert.NoError(t, err)
	assert.Len(t, f.Operators, 2)
	assert.Equal(t, "mod", f.Operators[0].Repr)
	assert.Equal(t, 2, f.Operators[0].Priority)
	assert.True(t, f.Operators[1].Commutative)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/operators.yaml")
	assert.Error(t, err)
}

func TestMergeFloat_UnknownKind(t *testing.T) {
	f := &File{Operators: []OperatorEntry{{Repr: "wat", Kind: "nope", Priority: 1}}}
	_, err := MergeFloat(operator.Table[float64]{}, f)
	assert.Error(t, err)
}

func TestMergeFloat_AddsUsableOperators(t *testing.T) {
	f := &File{Operators: []OperatorEntry{
		{Repr: "mod", Kind: "mod", Priority: 2},
		{Repr: "max", Kind: "max", Priority: 1, Commutative: true},
		{Repr: "min", Kind: "min", Priority: 1, Commutative: true},
		{Repr: "avg", Kind: "avg", Priority: 1, Commutative: true},
	}}
	table, err := MergeFloat(operator.Table[float64]{}, f)
	assert.NoError(t, err)
	assert.Len(t, table, 4)

	idx, _, ok := table.FindByRepr("mod")
	assert.True(t, ok)
	assert.Equal(t, 5.0, table[idx].Bin.Apply(17, 12))

	idx, _, ok = table.FindByRepr("max")
	assert.True(t, ok)
	assert.Equal(t, 9.0, table[idx].Bin.Apply(3, 9))

	idx, _, ok = table.FindByRepr("min")
	assert.True(t, ok)
	assert.Equal(t, 3.0, table[idx].Bin.Apply(3, 9))

	idx, _, ok = table.FindByRepr("avg")
	assert.True(t, ok)
	assert.Equal(t, 6.0, table[idx].Bin.Apply(4, 8))
}

func TestMergeFloat_NilFileIsNoop(t *testing.T) {
	base := operator.Table[float64]{operator.MakeBin("+", operator.BinOp[float64]{})}
	out, err := MergeFloat(base, nil)
	assert.NoError(t, err)
	assert.Equal(t, base, out)
}
