package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
)

// Load reads a match configuration from a YAML/TOML/JSON file (format
// inferred from its extension) layered over DefaultMatch, validates the
// result, and returns it. A stateless viper.New() instance is used per
// call rather than the package-level global, since a host process may
// load more than one match configuration in its lifetime (e.g. a
// lobby server handling concurrent matches).
func Load(path string) (Match, error) {
	m := DefaultMatch()

	vp := viper.New()
	vp.SetConfigFile(path)
	vp.AddConfigPath(filepath.Dir(path))
	if err := vp.ReadInConfig(); err != nil {
		return Match{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := vp.Unmarshal(&m); err != nil {
		return Match{}, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}

	if err := m.Validate(); err != nil {
		return Match{}, err
	}
	return m, nil
}

// LoadFromEnv overlays environment variables (prefixed VOIDMARCH_, e.g.
// VOIDMARCH_TICKRATE) onto DefaultMatch, for headless/CI invocations that
// would rather not ship a config file.
func LoadFromEnv() (Match, error) {
	m := DefaultMatch()

	vp := viper.New()
	vp.SetEnvPrefix("voidmarch")
	for _, key := range []string{
		"mapWidth", "mapHeight", "tickRate", "isMultiplayer", "playerId",
		"aiEnabled", "aiDifficulty", "commandDelayTicks", "checksumInterval",
	} {
		_ = vp.BindEnv(key)
	}
	if err := vp.Unmarshal(&m); err != nil {
		return Match{}, fmt.Errorf("config: unmarshal env: %w", err)
	}

	if err := m.Validate(); err != nil {
		return Match{}, err
	}
	return m, nil
}
