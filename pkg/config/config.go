package config

import (
	"fmt"

	"github.com/clexproject/clex/pkg/cli"
	"github.com/clexproject/clex/pkg/token"
)

type Feature int

const (
	// FeatDecodeEscapes controls string literal escape handling. Enabled
	// (the default), standard escapes like \n, \t and \" are decoded into
	// their semantic characters and unknown escapes yield the escaped
	// character itself. Disabled, the backslash and the following
	// character are preserved verbatim in the token text.
	FeatDecodeEscapes Feature = iota
	FeatLineComments
	FeatPreprocessor
	FeatCount
)

type Info struct {
	Name        string
	Enabled     bool
	Description string
}

type Config struct {
	Features   map[Feature]Info
	FeatureMap map[string]Feature
	Dialect    string
	Keywords   token.KeywordSet
}

func NewConfig() *Config {
	cfg := &Config{
		Features:   make(map[Feature]Info),
		FeatureMap: make(map[string]Feature),
		Dialect:    "c89",
		Keywords:   token.DefaultKeywords(),
	}

	features := map[Feature]Info{
		FeatDecodeEscapes: {"decode-escapes", true, "Decode standard '\\' escape sequences inside string literals."},
		FeatLineComments:  {"line-comments", true, "Recognize '//' line comments."},
		FeatPreprocessor:  {"preprocessor", true, "Skip '#' preprocessor lines without interpretation."},
	}

	cfg.Features = features
	for ft, info := range features {
		cfg.FeatureMap[info.Name] = ft
	}
	return cfg
}

func (c *Config) SetFeature(ft Feature, enabled bool) {
	if info, ok := c.Features[ft]; ok {
		info.Enabled = enabled
		c.Features[ft] = info
	}
}

func (c *Config) IsFeatureEnabled(ft Feature) bool { return c.Features[ft].Enabled }

// ApplyDialect selects the keyword table for a language dialect. The
// scanner itself is dialect-agnostic; only the keyword set changes.
func (c *Config) ApplyDialect(name string) error {
	switch name {
	case "c89":
		c.Keywords = token.DefaultKeywords()
	case "c99":
		c.Keywords = token.C99Keywords()
	default:
		return fmt.Errorf("unsupported dialect '%s'. Supported: 'c89', 'c99'", name)
	}
	c.Dialect = name
	return nil
}

// SetupFlagGroups registers the -F<feature>/-Fno-<feature> flag pairs on
// fs and returns the entries so the caller can apply them after parsing.
func (c *Config) SetupFlagGroups(fs *cli.FlagSet) []cli.FlagGroupEntry {
	featureFlags := make([]cli.FlagGroupEntry, FeatCount)
	for i := Feature(0); i < FeatCount; i++ {
		info := c.Features[i]
		featureFlags[i] = cli.FlagGroupEntry{
			Name:     info.Name,
			Prefix:   "F",
			Usage:    info.Description,
			Enabled:  new(bool),
			Disabled: new(bool),
		}
	}
	fs.AddFlagGroup("Features", "Toggle individual lexer features.", "feature", "Available features:", featureFlags)
	return featureFlags
}

// ApplyFlagGroups folds parsed -F flags back into the feature registry.
func (c *Config) ApplyFlagGroups(featureFlags []cli.FlagGroupEntry) {
	for i, entry := range featureFlags {
		if entry.Enabled != nil && *entry.Enabled {
			c.SetFeature(Feature(i), true)
		}
		if entry.Disabled != nil && *entry.Disabled {
			c.SetFeature(Feature(i), false)
		}
	}
}
