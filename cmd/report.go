package cmd

import (
	"fmt"
	"io"

	"github.com/KaramelBytes/paxsat-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	reportIn        inputFlags
	reportKey       string
	reportMeasure   string
	reportOutput    string
	reportPrecision int
)

var reportCmd = &cobra.Command{
	Use:   "report <file>",
	Short: "Summarize a numeric measure per group (mean, count, std)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if reportKey == "" {
			return fmt.Errorf("--key is required (e.g. --key flight_id)")
		}
		s, _, err := reportIn.open(cmd, args[0], "")
		if err != nil {
			return err
		}
		measure := reportMeasure
		if measure == "" {
			measure = s.CleanOptions.ScoreColumn
		}
		conf, err := settings()
		if err != nil {
			return err
		}
		precision := conf.ReportPrecision
		if cmd.Flags().Changed("precision") {
			precision = reportPrecision
		}

		rep, err := s.Report(reportKey, measure)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if reportOutput == "" {
			printReport(out, rep, precision)
			return nil
		}
		if err := utils.WriteExport(reportOutput, func(w io.Writer) error { return rep.WriteCSV(w, precision) }); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Fprintf(out, "✓ Wrote %d groups to %s\n", len(rep.Rows), reportOutput)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportIn.bind(reportCmd)
	reportCmd.Flags().StringVar(&reportKey, "key", "", "column to group by")
	reportCmd.Flags().StringVar(&reportMeasure, "measure", "", "numeric column to summarize (default: the score column)")
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "optional path to write the report (CSV)")
	reportCmd.Flags().IntVar(&reportPrecision, "precision", 4, "decimals written for mean and std")
}
