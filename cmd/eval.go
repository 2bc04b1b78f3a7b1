package cmd

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"axion/history"
)

var evalCmd = &cobra.Command{
	Use:   "eval <expression>",
	Short: "Evaluate a single expression non-interactively",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, unparsed, tree, err := evaluateText(args[0])
		if err != nil {
			return err
		}
		if debugFlag && tree != nil {
			spew.Dump(tree.DebugTree())
		}
		fmt.Println(formatResult(result))
		if err := history.AddHistory(args[0], unparsed, result); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), colorYellow+"Warning: Failed to save to history: %v\n"+colorReset, err)
		}
		return nil
	},
}
