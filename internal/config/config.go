package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	Schema      string  `mapstructure:"schema" yaml:"schema"`
	ScoreColumn string  `mapstructure:"score_column" yaml:"score_column"`
	MinScore    float64 `mapstructure:"min_score" yaml:"min_score"`
	MaxScore    float64 `mapstructure:"max_score" yaml:"max_score"`

	// Clustering
	ClusterK       int   `mapstructure:"cluster_k" yaml:"cluster_k"`
	ClusterSeed    int64 `mapstructure:"cluster_seed" yaml:"cluster_seed"`
	ClusterMaxIter int   `mapstructure:"cluster_max_iter" yaml:"cluster_max_iter"`

	ReportPrecision int `mapstructure:"report_precision" yaml:"report_precision"`
	// Extra schema contracts (YAML or TOML) merged over the built-in ones.
	ContractsFile string `mapstructure:"contracts_file" yaml:"contracts_file"`
	LogLevel      string `mapstructure:"log_level" yaml:"log_level"`
	// Single-character delimiter override for CSV/TSV input.
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
}

// Keys lists every configuration key accepted by `config set`.
var Keys = []string{
	"schema", "score_column", "min_score", "max_score",
	"cluster_k", "cluster_seed", "cluster_max_iter",
	"report_precision", "contracts_file", "log_level", "delimiter",
}

// Dir returns ~/.paxsat.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".paxsat"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.paxsat/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("PAXSAT")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("schema", "flight")
	v.SetDefault("score_column", "satisfaction_score")
	v.SetDefault("min_score", 1.0)
	v.SetDefault("max_score", 5.0)
	v.SetDefault("cluster_k", 3)
	v.SetDefault("cluster_seed", 42)
	v.SetDefault("cluster_max_iter", 300)
	v.SetDefault("report_precision", 4)
	v.SetDefault("contracts_file", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("delimiter", "")

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Check(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Check rejects values no command could run with.
func (c *Global) Check() error {
	if c.MinScore > c.MaxScore {
		return fmt.Errorf("config: min_score %g exceeds max_score %g", c.MinScore, c.MaxScore)
	}
	if c.ReportPrecision < 0 || c.ReportPrecision > 12 {
		return fmt.Errorf("config: report_precision must be within [0, 12], got %d", c.ReportPrecision)
	}
	if len([]rune(c.Delimiter)) > 1 {
		return fmt.Errorf("config: delimiter must be a single character, got %q", c.Delimiter)
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log_level must be debug, info, warn or error, got %q", c.LogLevel)
	}
	return nil
}

// DelimiterRune returns the delimiter override, or 0 when unset.
func (c *Global) DelimiterRune() rune {
	for _, r := range c.Delimiter {
		return r
	}
	return 0
}
