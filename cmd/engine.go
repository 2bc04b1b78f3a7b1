package cmd

import (
	"fmt"
	"regexp"
	"strings"

	"axion/config"
	"axion/constants"
	"axion/exprcore"
	"axion/exprcore/operator"
	"axion/floatops"
)

// engineOps is the live float operator table: the default factory,
// optionally widened at startup by an operators.yaml config file and a
// constants.json constants file (SPEC_FULL.md §3).
var engineOps = buildEngineOps()

func buildEngineOps() operator.Table[float64] {
	ops := floatops.Factory[float64]()

	if f, err := config.Load("operators.yaml"); err == nil {
		if merged, err := config.MergeFloat(ops, f); err == nil {
			ops = merged
		} else {
			fmt.Printf(colorYellow+"Warning: ignoring operators.yaml: %v\n"+colorReset, err)
		}
	}

	if tbl, err := constants.Load("constants.json"); err == nil {
		ops = constants.MergeFloat(ops, tbl)
	}

	return ops
}

// vars holds REPL-assigned variable bindings (e.g. `x = 5`).
var vars = map[string]float64{}

var assignmentPattern = regexp.MustCompile(`^([A-Za-zα-ωΑ-Ω_][A-Za-zα-ωΑ-Ω_0-9]*)\s*=\s*(.+)$`)

// parseAssignment reports whether input is a `name = expr` assignment,
// splitting it into the variable name and the right-hand expression text.
func parseAssignment(input string) (name, expr string, ok bool) {
	m := assignmentPattern.FindStringSubmatch(input)
	if m == nil {
		return "", "", false
	}
	if strings.Contains(m[2], "=") {
		return "", "", false
	}
	return m[1], m[2], true
}

// evaluateText parses and evaluates an expression string against the
// live engine operator table and the current REPL variable bindings,
// returning the result alongside the parsed expression's canonical
// unparsed form for history logging.
func evaluateText(text string) (result float64, unparsed string, tree *exprcore.Flat[float64], err error) {
	expr, err := exprcore.Parse(text, engineOps, floatops.MatchLiteral, floatops.ParseLiteral[float64])
	if err != nil {
		return 0, "", nil, err
	}
	names := expr.VarNames()
	bindings := make([]float64, len(names))
	for i, name := range names {
		v, ok := vars[name]
		if !ok {
			return 0, "", nil, fmt.Errorf("undefined variable %q", name)
		}
		bindings[i] = v
	}
	result, err = expr.Evaluate(bindings)
	if err != nil {
		return 0, "", nil, err
	}
	unparsed, _ = expr.Unparse()
	return result, unparsed, expr, nil
}
