// Package constants loads a JSON table of named scalar constants (e.g.
// physical constants an operator table doesn't already define) and merges
// them into a float operator table as const operators (spec §4.1),
// alongside config's YAML-driven extra binary operators.
package constants

import (
	"encoding/json"
	"os"

	"axion/exprcore/exerr"
	"axion/exprcore/operator"
)

// Table maps a constant's name to its value.
type Table map[string]float64

// Load reads and parses a JSON constants file.
func Load(file string) (Table, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, exerr.Wrap(err, "reading constants file %q", file)
	}
	var t Table
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, exerr.Wrap(err, "parsing constants file %q", file)
	}
	return t, nil
}

// MergeFloat appends the table's entries onto a base float operator
// table as named constant operators.
func MergeFloat[T operator.Float](base operator.Table[T], t Table) operator.Table[T] {
	out := append(operator.Table[T]{}, base...)
	for name, v := range t {
		out = append(out, operator.MakeConstant[T](name, T(v)))
	}
	return out
}
