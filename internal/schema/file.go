package schema

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// contractFile is the on-disk layout of user-declared contracts.
type contractFile struct {
	Contracts []Contract `yaml:"contracts" toml:"contracts"`
}

// LoadContracts reads contracts from a YAML (.yaml, .yml) or TOML (.toml)
// file. Each contract is checked before it is returned.
func LoadContracts(path string) ([]Contract, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read contracts: %w", err)
	}
	var f contractFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("parse contracts %s: %w", filepath.Base(path), err)
		}
	case ".toml":
		md, err := toml.Decode(string(b), &f)
		if err != nil {
			return nil, fmt.Errorf("parse contracts %s: %w", filepath.Base(path), err)
		}
		if undec := md.Undecoded(); len(undec) > 0 {
			return nil, fmt.Errorf("parse contracts %s: unknown keys %v", filepath.Base(path), undec)
		}
	default:
		return nil, fmt.Errorf("contracts file must be .yaml, .yml or .toml: %s", filepath.Base(path))
	}
	for _, c := range f.Contracts {
		if err := c.Check(); err != nil {
			return nil, fmt.Errorf("contracts %s: %w", filepath.Base(path), err)
		}
	}
	return f.Contracts, nil
}

// LoadInto reads a contracts file and registers every contract in r.
func (r *Registry) LoadInto(path string) error {
	cs, err := LoadContracts(path)
	if err != nil {
		return err
	}
	for _, c := range cs {
		if err := r.Add(c); err != nil {
			return err
		}
	}
	return nil
}
