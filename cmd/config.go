package cmd

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/paxsat-cli/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set paxsat configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := settings()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "schema: %s\n", c.Schema)
		fmt.Fprintf(out, "score_column: %s\n", c.ScoreColumn)
		fmt.Fprintf(out, "min_score: %g\n", c.MinScore)
		fmt.Fprintf(out, "max_score: %g\n", c.MaxScore)
		fmt.Fprintf(out, "cluster_k: %d\n", c.ClusterK)
		fmt.Fprintf(out, "cluster_seed: %d\n", c.ClusterSeed)
		fmt.Fprintf(out, "cluster_max_iter: %d\n", c.ClusterMaxIter)
		fmt.Fprintf(out, "report_precision: %d\n", c.ReportPrecision)
		if c.ContractsFile != "" {
			fmt.Fprintf(out, "contracts_file: %s\n", c.ContractsFile)
		}
		fmt.Fprintf(out, "log_level: %s\n", c.LogLevel)
		if c.Delimiter != "" {
			fmt.Fprintf(out, "delimiter: %q\n", c.Delimiter)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		next := *cfg
		switch key {
		case "schema":
			next.Schema = val
		case "score_column":
			next.ScoreColumn = val
		case "min_score", "max_score":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return fmt.Errorf("invalid float for %s: %w", key, err)
			}
			if key == "min_score" {
				next.MinScore = f
			} else {
				next.MaxScore = f
			}
		case "cluster_k":
			i, err := strconv.Atoi(val)
			if err != nil || i < 2 || i > 10 {
				return fmt.Errorf("invalid int for cluster_k: %v (use 2-10)", val)
			}
			next.ClusterK = i
		case "cluster_seed":
			i, err := strconv.ParseInt(val, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid int for cluster_seed: %w", err)
			}
			next.ClusterSeed = i
		case "cluster_max_iter":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid int for cluster_max_iter: %v", val)
			}
			next.ClusterMaxIter = i
		case "report_precision":
			i, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid int for report_precision: %w", err)
			}
			next.ReportPrecision = i
		case "contracts_file":
			next.ContractsFile = val
		case "log_level":
			next.LogLevel = strings.ToLower(val)
		case "delimiter":
			if val == "tab" {
				val = "\t"
			}
			next.Delimiter = val
		default:
			return fmt.Errorf("unknown key: %s (keys: %s)", key, strings.Join(cfgpkg.Keys, ", "))
		}
		if err := next.Check(); err != nil {
			return err
		}
		if err := cfgpkg.Save(&next, cfgFile); err != nil {
			return err
		}
		cfg = &next
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
