package main

import "github.com/voidmarch/simcore/config"

// loadConfig resolves match configuration for a given blueprint. A config
// file or environment overlay is expected to name its own map dimensions
// (config.Match has "no sane default map size" per its own doc comment); when
// neither is present, fallbackWidth/fallbackHeight (the blueprint's canvas
// size) stand in so voidmarchd is runnable with no config at all.
func loadConfig(path string, fallbackWidth, fallbackHeight int) (config.Match, error) {
	if path != "" {
		return config.Load(path)
	}
	if envCfg, err := config.LoadFromEnv(); err == nil {
		return envCfg, nil
	}
	cfg := config.DefaultMatch()
	cfg.MapWidth, cfg.MapHeight = fallbackWidth, fallbackHeight
	return cfg, cfg.Validate()
}
