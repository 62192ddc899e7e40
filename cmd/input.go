package cmd

import (
	"fmt"
	"log/slog"

	"github.com/KaramelBytes/paxsat-cli/internal/analysis"
	cfgpkg "github.com/KaramelBytes/paxsat-cli/internal/config"
	"github.com/KaramelBytes/paxsat-cli/internal/loader"
	"github.com/KaramelBytes/paxsat-cli/internal/logging"
	"github.com/KaramelBytes/paxsat-cli/internal/schema"
	"github.com/KaramelBytes/paxsat-cli/internal/session"
	"github.com/spf13/cobra"
)

// inputFlags are the table and contract flags shared by the data commands.
type inputFlags struct {
	schema    string
	format    string
	delimiter string
	scoreCol  string
	minScore  float64
	maxScore  float64
}

func (in *inputFlags) bind(c *cobra.Command) {
	c.Flags().StringVar(&in.schema, "schema", "", "schema contract: flight | survey | a name from contracts_file")
	c.Flags().StringVar(&in.format, "format", "", "input format: csv | tsv | xlsx (inferred from extension if omitted)")
	c.Flags().StringVar(&in.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' (overrides config)")
	c.Flags().StringVar(&in.scoreCol, "score-col", "", "score column (overrides config)")
	c.Flags().Float64Var(&in.minScore, "min-score", 0, "lowest valid score (overrides config)")
	c.Flags().Float64Var(&in.maxScore, "max-score", 0, "highest valid score (overrides config)")
}

// settings returns the loaded config, or loads it when the command runs
// without Execute (as in tests).
func settings() (*cfgpkg.Global, error) {
	if cfg != nil {
		return cfg, nil
	}
	return cfgpkg.Load(cfgFile)
}

// registry returns the built-in contracts merged with contracts_file.
func registry(c *cfgpkg.Global) (*schema.Registry, error) {
	r := schema.NewRegistry()
	if c.ContractsFile != "" {
		if err := r.LoadInto(c.ContractsFile); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// newSession builds an empty session from flags and config.
func (in *inputFlags) newSession(c *cobra.Command, defaultSchema string) (*session.Session, error) {
	conf, err := settings()
	if err != nil {
		return nil, err
	}
	name := defaultSchema
	if name == "" {
		name = conf.Schema
	}
	if in.schema != "" {
		name = in.schema
	}
	reg, err := registry(conf)
	if err != nil {
		return nil, err
	}
	contract, err := reg.Get(name)
	if err != nil {
		return nil, err
	}

	opt := analysis.CleanOptions{ScoreColumn: conf.ScoreColumn, Min: conf.MinScore, Max: conf.MaxScore}
	f := c.Flags()
	if in.scoreCol != "" {
		opt.ScoreColumn = in.scoreCol
	}
	// Configured ranges narrow to the contract; flags are checked as given.
	opt = opt.Within(contract)
	if f.Changed("min-score") {
		opt.Min = in.minScore
	}
	if f.Changed("max-score") {
		opt.Max = in.maxScore
	}

	s := session.New(contract, opt, logging.Component(logger, "cli"))
	s.Delimiter = conf.DelimiterRune()
	if in.delimiter != "" {
		d, err := parseDelimiter(in.delimiter)
		if err != nil {
			return nil, err
		}
		s.Delimiter = d
	}
	return s, nil
}

// formatFlag returns the --format value, or "" to infer from the extension.
func (in *inputFlags) formatFlag() (loader.Format, error) {
	if in.format == "" {
		return "", nil
	}
	return loader.ParseFormat(in.format)
}

// open builds a session from flags and config and uploads path into it.
func (in *inputFlags) open(c *cobra.Command, path, defaultSchema string) (*session.Session, *session.UploadResult, error) {
	s, err := in.newSession(c, defaultSchema)
	if err != nil {
		return nil, nil, err
	}
	format, err := in.formatFlag()
	if err != nil {
		return nil, nil, err
	}
	res, err := s.UploadFile(path, format)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("uploaded", slog.String("path", path), slog.String("contract", s.Contract.Name), slog.Int("rows", res.Rows))
	return s, res, nil
}

func parseDelimiter(s string) (rune, error) {
	switch s {
	case ",":
		return ',', nil
	case "\t", "tab":
		return '\t', nil
	case ";":
		return ';', nil
	case "|":
		return '|', nil
	}
	return 0, fmt.Errorf("unsupported --delimiter: %s (use ',' | ';' | '|' | 'tab')", s)
}
