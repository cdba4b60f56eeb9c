package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clexproject/clex/pkg/cli"
	"github.com/clexproject/clex/pkg/config"
	"github.com/clexproject/clex/pkg/token"
)

func TestDefaults(t *testing.T) {
	cfg := config.NewConfig()

	assert.Equal(t, "c89", cfg.Dialect)
	assert.True(t, cfg.IsFeatureEnabled(config.FeatDecodeEscapes))
	assert.True(t, cfg.IsFeatureEnabled(config.FeatLineComments))
	assert.True(t, cfg.IsFeatureEnabled(config.FeatPreprocessor))
	assert.Equal(t, token.If, cfg.Keywords["if"])
}

func TestSetFeature(t *testing.T) {
	cfg := config.NewConfig()

	cfg.SetFeature(config.FeatDecodeEscapes, false)
	assert.False(t, cfg.IsFeatureEnabled(config.FeatDecodeEscapes))
	cfg.SetFeature(config.FeatDecodeEscapes, true)
	assert.True(t, cfg.IsFeatureEnabled(config.FeatDecodeEscapes))
}

func TestFeatureMapCoversAllFeatures(t *testing.T) {
	cfg := config.NewConfig()

	require.Len(t, cfg.FeatureMap, int(config.FeatCount))
	ft, ok := cfg.FeatureMap["decode-escapes"]
	require.True(t, ok)
	assert.Equal(t, config.FeatDecodeEscapes, ft)
}

func TestApplyDialect(t *testing.T) {
	cfg := config.NewConfig()

	require.NoError(t, cfg.ApplyDialect("c99"))
	assert.Equal(t, "c99", cfg.Dialect)
	assert.Equal(t, token.Inline, cfg.Keywords["inline"])

	require.NoError(t, cfg.ApplyDialect("c89"))
	_, ok := cfg.Keywords["inline"]
	assert.False(t, ok)

	assert.Error(t, cfg.ApplyDialect("c23"))
	assert.Equal(t, "c89", cfg.Dialect, "dialect unchanged after a rejected name")
}

func TestFlagGroupsToggleFeatures(t *testing.T) {
	cfg := config.NewConfig()
	fs := cli.NewFlagSet("test")
	featureFlags := cfg.SetupFlagGroups(fs)

	require.NoError(t, fs.Parse([]string{"-Fno-decode-escapes", "-Fpreprocessor"}))
	cfg.ApplyFlagGroups(featureFlags)

	assert.False(t, cfg.IsFeatureEnabled(config.FeatDecodeEscapes))
	assert.True(t, cfg.IsFeatureEnabled(config.FeatPreprocessor))
	assert.True(t, cfg.IsFeatureEnabled(config.FeatLineComments), "untouched features keep their defaults")
}
