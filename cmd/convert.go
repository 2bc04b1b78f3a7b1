package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"axion/units"
)

var convertCmd = &cobra.Command{
	Use:   "convert <value> <from> <to>",
	Short: "Convert a value between compatible units",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid number %q", args[0])
		}
		result, err := units.Convert(value, args[1], args[2])
		if err != nil {
			return err
		}
		fmt.Println(formatResult(result))
		return nil
	},
}
