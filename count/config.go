package count

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/gnoswap-labs/dracula/internal/langs"
	"github.com/gnoswap-labs/dracula/internal/tree"
	tt "github.com/gnoswap-labs/dracula/internal/types"
)

// DefaultConfigFile is the configuration looked up in the working directory
// when no path is given.
const DefaultConfigFile = ".dracula.yaml"

var ErrUnknownConfigFormat = errors.New("unknown configuration format")

// Config represents the overall configuration of a counting run.
type Config struct {
	Name string  `yaml:"name" toml:"name"`
	Mode tt.Mode `yaml:"mode" toml:"mode"`
	// IgnorePaths are globs or path prefixes excluded from every walk.
	IgnorePaths []string `yaml:"ignore-paths,omitempty" toml:"ignore-paths,omitempty"`
	// Extensions maps a file extension to a registered language name.
	Extensions map[string]string `yaml:"extensions,omitempty" toml:"extensions,omitempty"`
	// Languages are custom language tables registered before Extensions
	// is applied.
	Languages []langs.TableRecord `yaml:"languages,omitempty" toml:"languages,omitempty"`
	// Grammars routes a language name to a tree-sitter grammar name for
	// the tree classifier.
	Grammars map[string]string `yaml:"grammars,omitempty" toml:"grammars,omitempty"`
	// KindTables replace the built-in opaque-kind table of a grammar.
	KindTables map[string]*tree.KindTable `yaml:"kind-tables,omitempty" toml:"kind-tables,omitempty"`
	Cache      CacheConfig                `yaml:"cache,omitempty" toml:"cache,omitempty"`

	path string
}

type CacheConfig struct {
	Dir    string `yaml:"dir,omitempty" toml:"dir,omitempty"`
	MaxAge string `yaml:"max-age,omitempty" toml:"max-age,omitempty"`
}

// Path is the file the configuration was read from, empty for defaults.
func (c Config) Path() string { return c.path }

func (c CacheConfig) maxAge() (time.Duration, error) {
	if c.MaxAge == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.MaxAge)
	if err != nil {
		return 0, fmt.Errorf("invalid cache max-age %q: %w", c.MaxAge, err)
	}
	return d, nil
}

// DefaultConfig is the configuration used without a configuration file.
func DefaultConfig() Config {
	return Config{
		Name:        "dracula",
		Mode:        tt.ModeNative,
		IgnorePaths: []string{"vendor"},
	}
}

// LoadConfig reads the configuration at path. An empty path loads
// DefaultConfigFile when it exists and the defaults otherwise.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		if _, err := os.Stat(DefaultConfigFile); err != nil {
			return DefaultConfig(), nil
		}
		path = DefaultConfigFile
	}
	return parseConfigurationFile(path)
}

func parseConfigurationFile(configurationPath string) (Config, error) {
	config := DefaultConfig()

	// Read the configuration file
	f, err := os.Open(configurationPath)
	if err != nil {
		return config, err
	}
	defer f.Close()

	// Parse the configuration file
	switch strings.ToLower(filepath.Ext(configurationPath)) {
	case ".yaml", ".yml":
		decoder := yaml.NewDecoder(f)
		decoder.KnownFields(true)
		err = decoder.Decode(&config)
	case ".toml":
		_, err = toml.NewDecoder(f).Decode(&config)
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownConfigFormat, configurationPath)
	}
	if err != nil {
		return config, fmt.Errorf("error parsing %s: %w", configurationPath, err)
	}

	config.path = configurationPath
	return config, nil
}

// Registry builds the language registry described by the configuration.
func (c Config) Registry() (*langs.Registry, error) {
	reg := langs.NewRegistry()
	if err := langs.RegisterTables(reg, c.Languages); err != nil {
		return nil, err
	}
	for ext, name := range c.Extensions {
		if err := reg.MapExtension(ext, name); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// trees resolves the grammar routing and kind table overrides.
func (c Config) trees() (map[string]tree.Grammar, map[tree.Grammar]*tree.KindTable, error) {
	grammars := make(map[string]tree.Grammar, len(c.Grammars))
	for lang, name := range c.Grammars {
		g, err := tree.ParseGrammar(name)
		if err != nil {
			return nil, nil, fmt.Errorf("grammar for %s: %w", lang, err)
		}
		grammars[lang] = g
	}

	tables := make(map[tree.Grammar]*tree.KindTable, len(c.KindTables))
	for name, table := range c.KindTables {
		g, err := tree.ParseGrammar(name)
		if err != nil {
			return nil, nil, fmt.Errorf("kind table: %w", err)
		}
		if table == nil {
			return nil, nil, fmt.Errorf("kind table for %s is empty", name)
		}
		tables[g] = table
	}
	return grammars, tables, nil
}

// WriteDefaultConfig writes the default configuration as YAML to path.
func WriteDefaultConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("configuration file already exists: %s", path)
	}

	config := DefaultConfig()
	config.Cache = CacheConfig{Dir: ".dracula-cache", MaxAge: "24h"}

	data, err := yaml.Marshal(&config)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
