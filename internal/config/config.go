package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Defaults shared by the CLI flags and NewConfig.
const (
	DefaultIndent       = 2
	DefaultRootName     = "root"
	DefaultNestedField  = "request_body"
	maxIndent           = 16
	configPathEnvVar    = "JSONKIT_CONFIG"
	disableDotenvEnvVar = "JSONKIT_NO_DOTENV"
)

// Config represents the complete configuration for jsonkit
type Config struct {
	Format  FormatConfig  `yaml:"format"`
	Repair  RepairConfig  `yaml:"repair"`
	XML     XMLConfig     `yaml:"xml"`
	Extract ExtractConfig `yaml:"extract"`
	Dev     DevConfig     `yaml:"dev"`
}

// FormatConfig controls pretty-printing
type FormatConfig struct {
	Indent int `yaml:"indent"`
}

// RepairConfig controls the repair pipeline
type RepairConfig struct {
	// Deep hands input the builtin pipeline cannot fix to kaptinlin/jsonrepair.
	Deep bool `yaml:"deep"`
}

// XMLConfig controls XML conversion
type XMLConfig struct {
	RootName         string `yaml:"root_name"`
	SingularizeItems bool   `yaml:"singularize_items"`
}

// ExtractConfig controls nested JSON extraction
type ExtractConfig struct {
	Field string `yaml:"field"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug bool `yaml:"debug"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Format: FormatConfig{
			Indent: DefaultIndent,
		},
		Repair: RepairConfig{
			Deep: false,
		},
		XML: XMLConfig{
			RootName:         DefaultRootName,
			SingularizeItems: true,
		},
		Extract: ExtractConfig{
			Field: DefaultNestedField,
		},
		Dev: DevConfig{
			Debug: false,
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := NewConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values that would produce broken output
func (c *Config) Validate() error {
	if c.Format.Indent < 0 || c.Format.Indent > maxIndent {
		return fmt.Errorf("format.indent must be between 0 and %d, got %d", maxIndent, c.Format.Indent)
	}
	if strings.TrimSpace(c.XML.RootName) == "" {
		return fmt.Errorf("xml.root_name must not be empty")
	}
	if strings.TrimSpace(c.Extract.Field) == "" {
		return fmt.Errorf("extract.field must not be empty")
	}
	return nil
}

// IndentString returns the indentation unit used when pretty-printing
func (c *Config) IndentString() string {
	return strings.Repeat(" ", c.Format.Indent)
}

// FindConfigFile searches for a config file in current directory and parents.
// JSONKIT_CONFIG, when set, wins over the search.
func FindConfigFile() string {
	if path := strings.TrimSpace(os.Getenv(configPathEnvVar)); path != "" {
		return path
	}

	configNames := []string{".jsonkit.yml", ".jsonkit.yaml", "jsonkit.yml", "jsonkit.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}

// Overrides carries CLI flag values. Zero values mean "not set on the command line".
type Overrides struct {
	Indent   *int
	RootName string
	Field    string
	Deep     bool
	Debug    bool
}

// LoadConfigWithCLI loads config with CLI argument precedence
func LoadConfigWithCLI(configPath string, o Overrides) (*Config, error) {
	cfg := NewConfig()

	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	if o.Indent != nil {
		cfg.Format.Indent = *o.Indent
	}
	if o.RootName != "" {
		cfg.XML.RootName = o.RootName
	}
	if o.Field != "" {
		cfg.Extract.Field = o.Field
	}
	// Boolean flags can only switch features on
	if o.Deep {
		cfg.Repair.Deep = true
	}
	if o.Debug {
		cfg.Dev.Debug = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
