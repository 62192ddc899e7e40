package cmd

import (
	"fmt"

	"github.com/KaramelBytes/paxsat-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	cleanIn     inputFlags
	cleanOutput string
)

var cleanCmd = &cobra.Command{
	Use:   "clean <file>",
	Short: "Drop rows with missing required values or out-of-range scores",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := cleanIn.open(cmd, args[0], "")
		if err != nil {
			return err
		}
		c, st, hit, err := s.Clean()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		printCleanStats(out, st, hit)
		if cleanOutput != "" {
			if err := utils.WriteExport(cleanOutput, c.WriteCSV); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(out, "✓ Wrote cleaned table to %s\n", cleanOutput)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanIn.bind(cleanCmd)
	cleanCmd.Flags().StringVarP(&cleanOutput, "output", "o", "", "optional path to write the cleaned table (CSV)")
}
