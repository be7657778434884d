package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/muhammadmuzzammil1998/jsonc"
	"gopkg.in/yaml.v3"

	"specweaver/internal/registry"
)

// CurrentVersion is the only configuration version understood.
const CurrentVersion = "1"

// ErrUnknownFormat is returned for a configuration file with an unsupported extension.
var ErrUnknownFormat = errors.New("unknown configuration format")

// Config controls discovery, extraction and validation for one run.
type Config struct {
	// Version of the configuration schema.
	Version string `yaml:"version,omitempty" toml:"version,omitempty" json:"version,omitempty"`

	// DefaultPackage is the package of classes declared outside any namespace.
	DefaultPackage string `yaml:"default_package,omitempty" toml:"default_package,omitempty" json:"default_package,omitempty"`

	// ExternalPrefixes mark qualified names owned by other systems (e.g. "java.").
	ExternalPrefixes []string `yaml:"external_prefixes,omitempty" toml:"external_prefixes,omitempty" json:"external_prefixes,omitempty"`

	// ExternalTypes lists individual names treated as external dependencies.
	ExternalTypes []string `yaml:"external_types,omitempty" toml:"external_types,omitempty" json:"external_types,omitempty"`

	// Include and Exclude are doublestar patterns relative to the scan root.
	Include []string `yaml:"include,omitempty" toml:"include,omitempty" json:"include,omitempty"`
	Exclude []string `yaml:"exclude,omitempty" toml:"exclude,omitempty" json:"exclude,omitempty"`

	// DiagramLanguages are the fenced block info strings that hold diagrams.
	DiagramLanguages []string `yaml:"diagram_languages,omitempty" toml:"diagram_languages,omitempty" json:"diagram_languages,omitempty"`

	// Jobs bounds parallel extraction; 0 means one job per CPU.
	Jobs int `yaml:"jobs,omitempty" toml:"jobs,omitempty" json:"jobs,omitempty"`

	// FailOnUnresolved turns unresolved references into a failing run.
	FailOnUnresolved bool `yaml:"fail_on_unresolved,omitempty" toml:"fail_on_unresolved,omitempty" json:"fail_on_unresolved,omitempty"`
}

// Format is a configuration file syntax.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)

	return cfg
}

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json", ".jsonc":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// LoadFile loads, validates and completes a configuration file.
func LoadFile(path string) (*Config, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Parse decodes data in the given format, validates it against the
// configuration schema and applies defaults.
func Parse(data []byte, format Format) (*Config, error) {
	if format == FormatJSON {
		data = jsonc.ToJSON(data)
	}

	var doc map[string]any
	if err := decode(data, format, &doc); err != nil {
		return nil, err
	}

	if doc == nil {
		doc = map[string]any{}
	}

	if err := validateDocument(doc); err != nil {
		return nil, err
	}

	var cfg Config
	if err := decode(data, format, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func decode(data []byte, format Format, out any) error {
	var err error

	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, out)
	case FormatTOML:
		err = toml.Unmarshal(data, out)
	case FormatJSON:
		if len(strings.TrimSpace(string(data))) == 0 {
			return nil
		}

		err = json.Unmarshal(data, out)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	if err != nil {
		return fmt.Errorf("failed to parse %s config: %w", format, err)
	}

	return nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(cfg *Config) {
	if cfg.Version == "" {
		cfg.Version = CurrentVersion
	}

	if len(cfg.Include) == 0 {
		cfg.Include = []string{"**/*.md"}
	}

	if len(cfg.DiagramLanguages) == 0 {
		cfg.DiagramLanguages = []string{"mermaid"}
	}
}

// Validate checks the semantic constraints the schema cannot express.
func (c *Config) Validate() error {
	var errs []error

	if c.DefaultPackage != "" && !registry.ValidFQN(c.DefaultPackage) {
		errs = append(errs, fmt.Errorf("default_package %q is not a valid qualified name", c.DefaultPackage))
	}

	for _, p := range append(append([]string{}, c.Include...), c.Exclude...) {
		if !doublestar.ValidatePattern(p) {
			errs = append(errs, fmt.Errorf("invalid glob pattern %q", p))
		}
	}

	if c.Jobs < 0 {
		errs = append(errs, fmt.Errorf("jobs must not be negative, got %d", c.Jobs))
	}

	return errors.Join(errs...)
}

// Marshal serializes the configuration as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}
