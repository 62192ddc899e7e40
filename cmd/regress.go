package cmd

import (
	"github.com/spf13/cobra"
)

var regressIn inputFlags

var regressCmd = &cobra.Command{
	Use:   "regress <file> <feature>",
	Short: "Fit the score against one numeric column (least squares)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := regressIn.open(cmd, args[0], "")
		if err != nil {
			return err
		}
		r, err := s.Regress(args[1])
		if err != nil {
			return err
		}
		printRegression(cmd.OutOrStdout(), r)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(regressCmd)
	regressIn.bind(regressCmd)
}
