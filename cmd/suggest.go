package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/KaramelBytes/paxsat-cli/internal/loader"
	"github.com/KaramelBytes/paxsat-cli/internal/schema"
	"github.com/spf13/cobra"
)

var (
	suggestFormat string
	suggestLimit  int
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <file>",
	Short: "Suggest which columns look like a score or a grouping key",
	Long: `Suggest inspects a table without any contract and ranks candidate score and
key columns. It never changes a contract; use the names with --score-col
or report --key.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var f loader.Format
		if suggestFormat != "" {
			var err error
			if f, err = loader.ParseFormat(suggestFormat); err != nil {
				return err
			}
		}
		t, _, err := loader.LoadFile(args[0], f)
		if err != nil {
			return err
		}
		conf, err := settings()
		if err != nil {
			return err
		}
		opt := schema.SuggestOptions{ScoreMin: conf.MinScore, ScoreMax: conf.MaxScore, Limit: suggestLimit}
		got := schema.SuggestColumns(t, opt)
		out := cmd.OutOrStdout()
		if len(got) == 0 {
			fmt.Fprintln(out, "⚠ No candidate columns found")
			return nil
		}
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "role\tcolumn\tconfidence\treason")
		for _, s := range got {
			fmt.Fprintf(tw, "%s\t%s\t%.2f\t%s\n", s.Role, s.Column, s.Confidence, s.Reason)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(suggestCmd)
	suggestCmd.Flags().StringVar(&suggestFormat, "format", "", "input format: csv | tsv | xlsx (inferred from extension if omitted)")
	suggestCmd.Flags().IntVar(&suggestLimit, "limit", 3, "suggestions per role (0 = all)")
}
