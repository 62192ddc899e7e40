package cmd

import (
	"fmt"

	"github.com/KaramelBytes/paxsat-cli/internal/analysis"
	"github.com/KaramelBytes/paxsat-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	clusterIn       inputFlags
	clusterFeatures []string
	clusterK        int
	clusterSeed     int64
	clusterMaxIter  int
	clusterOutput   string
)

var clusterCmd = &cobra.Command{
	Use:   "cluster <file>",
	Short: "Group rows with k-means over two or more numeric columns",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := clusterIn.open(cmd, args[0], "")
		if err != nil {
			return err
		}
		opt, err := clusterOptions(cmd, clusterFeatures)
		if err != nil {
			return err
		}
		a, hit, err := s.Cluster(opt)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		printCluster(out, a, hit)
		if clusterOutput != "" {
			if err := utils.WriteExport(clusterOutput, a.WriteCSV); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(out, "✓ Wrote cluster labels to %s\n", clusterOutput)
		}
		return nil
	},
}

// clusterOptions resolves k, seed and iterations from flags over config.
func clusterOptions(cmd *cobra.Command, features []string) (analysis.ClusterOptions, error) {
	conf, err := settings()
	if err != nil {
		return analysis.ClusterOptions{}, err
	}
	opt := analysis.ClusterOptions{Features: features, K: conf.ClusterK, Seed: conf.ClusterSeed, MaxIter: conf.ClusterMaxIter}
	f := cmd.Flags()
	if f.Changed("k") {
		opt.K = clusterK
	}
	if f.Changed("seed") {
		opt.Seed = clusterSeed
	}
	if f.Changed("max-iter") {
		opt.MaxIter = clusterMaxIter
	}
	return opt, nil
}

func init() {
	rootCmd.AddCommand(clusterCmd)
	clusterIn.bind(clusterCmd)
	clusterCmd.Flags().StringSliceVarP(&clusterFeatures, "features", "f", nil, "comma-separated numeric columns to cluster on (at least 2)")
	clusterCmd.Flags().IntVarP(&clusterK, "k", "k", 3, "number of clusters (2-10)")
	clusterCmd.Flags().Int64Var(&clusterSeed, "seed", 42, "random seed for centroid initialization")
	clusterCmd.Flags().IntVar(&clusterMaxIter, "max-iter", 300, "iteration cap")
	clusterCmd.Flags().StringVarP(&clusterOutput, "output", "o", "", "optional path to write row labels (CSV)")
}
