package guidebook

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
)

// Config holds the book-level configuration loaded from book.yaml, book.yml
// or book.json in the book root.
type Config struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Author      string `yaml:"author"`

	// Plugins toggles optional page features. A bare name enables the
	// plugin, a "-name" entry disables a default-enabled one.
	Plugins []string `yaml:"plugins"`

	// Styles maps a target name to a custom stylesheet path relative to
	// the book root. Only the "website" target is used for HTML builds.
	Styles map[string]string `yaml:"styles"`

	// Variables are substituted for {{ book.key }} references in documents.
	Variables map[string]any `yaml:"variables"`

	Hardbreaks        bool `yaml:"hardbreaks"`
	FetchRemoteImages bool `yaml:"fetchRemoteImages"`

	// ExternalizeSVG moves inline SVG elements in built pages out to
	// assets/svg/ files; InlineSVG replaces linked .svg images with their
	// file content. Icon SVGs using currentColor are exempt from both.
	ExternalizeSVG bool `yaml:"externalizeSvg"`
	InlineSVG      bool `yaml:"inlineSvg"`

	// Ignores lists glob patterns for asset files excluded from copying.
	Ignores []string `yaml:"ignores"`
}

// configFileNames are tried in order inside the book root.
var configFileNames = []string{"book.yaml", "book.yml", "book.json"}

// defaultEnabledPlugins are active without being listed in the config.
var defaultEnabledPlugins = map[string]bool{
	"highlight": true,
	"search":    true,
	"glossary":  true,
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig reads the book configuration from bookDir. A missing config
// file yields DefaultConfig; a present but unparseable one is an error.
// JSON configs are handled by the same decoder since JSON is a YAML subset.
// Decoding is lenient: unknown keys from older configs are ignored.
func LoadConfig(bookDir string) (*Config, error) {
	for _, name := range configFileNames {
		path := filepath.Join(bookDir, name)
		data, err := os.ReadFile(path) // #nosec G304 -- path is under the user's book dir
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("reading config file: %w", err)
		}

		cfg := DefaultConfig()
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, name, err)
		}
		return cfg, nil
	}
	return DefaultConfig(), nil
}

// IsPluginEnabled reports whether the named plugin is active, honoring
// "-name" disable entries and the default-enabled set.
func (c *Config) IsPluginEnabled(name string) bool {
	for _, p := range c.Plugins {
		p = strings.TrimSpace(p)
		if p == "-"+name {
			return false
		}
		if p == name {
			return true
		}
	}
	return defaultEnabledPlugins[name]
}

// WebsiteStyle returns the custom stylesheet path for HTML builds, or ""
// when the theme default applies.
func (c *Config) WebsiteStyle() string {
	return c.Styles["website"]
}

// Variable returns the string form of a config variable, or "" when unset.
func (c *Config) Variable(key string) (string, bool) {
	v, ok := c.Variables[key]
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%v", v), true
}
