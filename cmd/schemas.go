package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

var schemasCmd = &cobra.Command{
	Use:   "schemas",
	Short: "List the schema contracts and their required columns",
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := settings()
		if err != nil {
			return err
		}
		reg, err := registry(conf)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, name := range reg.Names() {
			c, _ := reg.Get(name)
			marker := " "
			if name == conf.Schema {
				marker = "*"
			}
			fmt.Fprintf(out, "%s %s: %s\n", marker, name, strings.Join(c.Required, ", "))
			cols := make([]string, 0, len(c.Domains))
			for col := range c.Domains {
				cols = append(cols, col)
			}
			sort.Strings(cols)
			for _, col := range cols {
				d := c.Domains[col]
				line := fmt.Sprintf("    %s: %s", col, d.Kind)
				if d.Bounded() {
					line += " " + d.Bounds()
				}
				fmt.Fprintln(out, line)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schemasCmd)
}
