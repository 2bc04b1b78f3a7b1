// Package config loads a YAML-described set of extra operators and
// merges them into a base float operator table at startup (spec.md's
// ambient configuration layer — see SPEC_FULL.md §3), in the same spirit
// as the teacher's own constants.Load JSON-file pattern but shaped around
// operators instead of named constants.
package config

import (
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"axion/exprcore/exerr"
	"axion/exprcore/operator"
)

// OperatorEntry describes one user-defined operator in operators.yaml.
// Kind selects a fixed, known implementation (YAML cannot encode a Go
// function) from the registry in floatBinImpl.
type OperatorEntry struct {
	Repr        string `yaml:"repr"`
	Kind        string `yaml:"kind"`
	Priority    int    `yaml:"priority"`
	Commutative bool   `yaml:"commutative"`
}

// File is the top-level shape of operators.yaml.
type File struct {
	Operators []OperatorEntry `yaml:"operators"`
}

// Load reads and parses a YAML operator-configuration file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, exerr.Wrap(err, "reading operator config %q", path)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, exerr.Wrap(err, "parsing operator config %q", path)
	}
	return &f, nil
}

// MergeFloat appends the file's operators onto a base float operator
// table, in file order, after the base table's own entries (so a
// caller's extra operators never shadow the built-ins by table-scan
// order, only by distinct Repr).
func MergeFloat[T operator.Float](base operator.Table[T], f *File) (operator.Table[T], error) {
	if f == nil {
		return base, nil
	}
	table := append(operator.Table[T]{}, base...)
	for _, e := range f.Operators {
		fn, ok := floatBinImpl[T](e.Kind)
		if !ok {
			return nil, exerr.At(e.Kind, "unknown operator kind in operator config")
		}
		table = append(table, operator.MakeBin(e.Repr, operator.BinOp[T]{
			Apply:         fn,
			Priority:      e.Priority,
			IsCommutative: e.Commutative,
		}))
	}
	return table, nil
}

// floatBinImpl is the fixed registry of binary operator kinds a YAML
// config entry may select. It is intentionally small: operators.yaml
// configures priority/commutativity/representation for operators this
// binary already knows how to compute, not arbitrary user code.
func floatBinImpl[T operator.Float](kind string) (func(a, b T) T, bool) {
	switch kind {
	case "mod":
		return func(a, b T) T { return T(math.Mod(float64(a), float64(b))) }, true
	case "max":
		return func(a, b T) T {
			if a > b {
				return a
			}
			return b
		}, true
	case "min":
		return func(a, b T) T {
			if a < b {
				return a
			}
			return b
		}, true
	case "avg":
		return func(a, b T) T { return (a + b) / 2 }, true
	default:
		return nil, false
	}
}
