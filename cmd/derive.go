package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"axion/exprcore"
	"axion/floatops"
)

var deriveAt string

var deriveCmd = &cobra.Command{
	Use:   "derive <expression> <variable>",
	Short: "Print the symbolic partial derivative of an expression with respect to a variable",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		expr, err := exprcore.Parse(args[0], engineOps, floatops.MatchLiteral, floatops.ParseLiteral[float64])
		if err != nil {
			return err
		}
		names := expr.VarNames()
		idx := -1
		for i, n := range names {
			if n == args[1] {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("%q is not a variable of %q", args[1], args[0])
		}

		deriv, err := exprcore.Partial(expr, idx)
		if err != nil {
			return err
		}
		unparsed, err := deriv.Unparse()
		if err != nil {
			return err
		}
		fmt.Println(unparsed)

		if deriveAt != "" {
			fields := strings.Split(deriveAt, ",")
			if len(fields) != len(names) {
				return fmt.Errorf("--at needs %d comma-separated bindings (%s), got %d", len(names), strings.Join(names, ","), len(fields))
			}
			bindings := make([]float64, len(fields))
			for i, f := range fields {
				v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
				if err != nil {
					return fmt.Errorf("invalid binding %q", f)
				}
				bindings[i] = v
			}
			result, err := deriv.Evaluate(bindings)
			if err != nil {
				return err
			}
			fmt.Println(formatResult(result))
		}
		return nil
	},
}

func init() {
	deriveCmd.Flags().StringVar(&deriveAt, "at", "", "comma-separated bindings in declared variable order, to also evaluate the derivative numerically")
}
