package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/KaramelBytes/paxsat-cli/internal/analysis"
	"github.com/KaramelBytes/paxsat-cli/internal/schema"
	"github.com/spf13/cobra"
)

var (
	surveyIn      inputFlags
	surveyService string
	surveyGroup   string
)

var surveyCmd = &cobra.Command{
	Use:   "survey <file>",
	Short: "Summarize a passenger survey: satisfaction, key metrics, service ratings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, res, err := surveyIn.open(cmd, args[0], schema.Survey)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		printUpload(out, args[0], res)

		if surveyService == "" {
			o, err := s.Survey()
			if err != nil {
				return err
			}
			printOverview(out, o)
			return nil
		}

		v, err := s.Validated()
		if err != nil {
			return err
		}
		if surveyGroup == "" {
			h, err := analysis.RatingDistribution(v, surveyService)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "[%s]\n", h.Service)
			for _, b := range h.Bins {
				fmt.Fprintf(out, "  %g: %d\n", b.Rating, b.Count)
			}
			if h.Skipped > 0 {
				fmt.Fprintf(out, "⚠ %d rows skipped (missing or non-numeric)\n", h.Skipped)
			}
			return nil
		}

		g, err := analysis.RatingByGroup(v, surveyService, surveyGroup)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "[%s BY %s]\n", g.Service, g.Group)
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "  group\tn\tmin\tq1\tmedian\tq3\tmax")
		for _, f := range g.Groups {
			fmt.Fprintf(tw, "  %s\t%d\t%g\t%g\t%g\t%g\t%g\n", f.Group, f.Count, f.Min, f.Q1, f.Median, f.Q3, f.Max)
		}
		tw.Flush()
		if g.Skipped > 0 {
			fmt.Fprintf(out, "⚠ %d rows skipped (missing or non-numeric)\n", g.Skipped)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(surveyCmd)
	surveyIn.bind(surveyCmd)
	surveyCmd.Flags().StringVar(&surveyService, "service", "", "service rating column to break down (e.g. 'Inflight wifi service')")
	surveyCmd.Flags().StringVar(&surveyGroup, "group", "", "with --service: group column for a five-number summary ('Customer Type' or 'Class')")
}
