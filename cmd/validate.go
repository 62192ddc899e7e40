package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateIn inputFlags

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a table against a schema contract",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, res, err := validateIn.open(cmd, args[0], "")
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		printUpload(out, args[0], res)
		fmt.Fprintf(out, "✓ Matches contract '%s' (required: %d columns)\n", s.Contract.Name, len(s.Contract.Required))
		printKinds(out, res.Columns, res.Kinds)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateIn.bind(validateCmd)
}
