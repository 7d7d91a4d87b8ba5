// Package config loads and validates the match configuration surface
// (spec.md §6): the recognized options a host passes before a match
// starts, any subset of which may come from a YAML/TOML/env source via
// viper, with the rest falling back to DefaultMatch's production-safe
// defaults.
package config

import "fmt"

// Difficulty enumerates the AI pacing/aggression tiers spec.md §6 names.
type Difficulty string

const (
	DifficultyEasy     Difficulty = "easy"
	DifficultyMedium   Difficulty = "medium"
	DifficultyHard     Difficulty = "hard"
	DifficultyVeryHard Difficulty = "very_hard"
	DifficultyInsane   Difficulty = "insane"
)

var validDifficulties = map[Difficulty]bool{
	DifficultyEasy: true, DifficultyMedium: true, DifficultyHard: true,
	DifficultyVeryHard: true, DifficultyInsane: true,
}

// Match holds the full configuration surface of one simulated match.
type Match struct {
	MapWidth            int        `mapstructure:"mapWidth" yaml:"mapWidth"`
	MapHeight           int        `mapstructure:"mapHeight" yaml:"mapHeight"`
	TickRate            int        `mapstructure:"tickRate" yaml:"tickRate"`
	IsMultiplayer       bool       `mapstructure:"isMultiplayer" yaml:"isMultiplayer"`
	PlayerID            uint8      `mapstructure:"playerId" yaml:"playerId"`
	AIEnabled           bool       `mapstructure:"aiEnabled" yaml:"aiEnabled"`
	AIDifficulty        Difficulty `mapstructure:"aiDifficulty" yaml:"aiDifficulty"`
	CommandDelayTicks   uint64     `mapstructure:"commandDelayTicks" yaml:"commandDelayTicks"`
	ChecksumInterval    uint64     `mapstructure:"checksumInterval" yaml:"checksumInterval"`
}

// DefaultMatch returns production-safe defaults (spec.md §6's stated
// defaults for tickRate/commandDelayTicks/checksumInterval; everything
// else must be supplied explicitly by the host since there's no sane
// default map size or player identity).
func DefaultMatch() Match {
	return Match{
		TickRate:          20,
		IsMultiplayer:     false,
		AIEnabled:         false,
		AIDifficulty:      DifficultyMedium,
		CommandDelayTicks: 4,
		ChecksumInterval:  5,
	}
}

// Validate checks the constraints spec.md §6 implies but a bare struct
// literal can't enforce: a non-positive tick rate or map dimension, or an
// unrecognized difficulty, produces a silently-wrong match rather than a
// loud rejection at load time.
func (m Match) Validate() error {
	if m.MapWidth <= 0 || m.MapHeight <= 0 {
		return fmt.Errorf("config: map dimensions must be positive, got %dx%d", m.MapWidth, m.MapHeight)
	}
	if m.TickRate <= 0 {
		return fmt.Errorf("config: tickRate must be positive, got %d", m.TickRate)
	}
	if m.AIEnabled && !validDifficulties[m.AIDifficulty] {
		return fmt.Errorf("config: unrecognized aiDifficulty %q", m.AIDifficulty)
	}
	if m.IsMultiplayer && m.ChecksumInterval == 0 {
		return fmt.Errorf("config: checksumInterval must be positive in multiplayer matches")
	}
	return nil
}
