package config

import "testing"

func TestDefaultMatch_FailsValidationWithoutMapSize(t *testing.T) {
	m := DefaultMatch()
	if err := m.Validate(); err == nil {
		t.Fatal("expected validation error for zero-size map")
	}
}

func TestValidate_AcceptsCompleteConfig(t *testing.T) {
	m := DefaultMatch()
	m.MapWidth, m.MapHeight = 128, 128
	m.PlayerID = 1
	if err := m.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_RejectsUnknownDifficultyWhenAIEnabled(t *testing.T) {
	m := DefaultMatch()
	m.MapWidth, m.MapHeight = 64, 64
	m.AIEnabled = true
	m.AIDifficulty = "expert"
	if err := m.Validate(); err == nil {
		t.Fatal("expected validation error for unknown difficulty")
	}
}

func TestValidate_IgnoresDifficultyWhenAIDisabled(t *testing.T) {
	m := DefaultMatch()
	m.MapWidth, m.MapHeight = 64, 64
	m.AIEnabled = false
	m.AIDifficulty = "not-a-real-difficulty"
	if err := m.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_RequiresChecksumIntervalInMultiplayer(t *testing.T) {
	m := DefaultMatch()
	m.MapWidth, m.MapHeight = 64, 64
	m.IsMultiplayer = true
	m.ChecksumInterval = 0
	if err := m.Validate(); err == nil {
		t.Fatal("expected validation error for zero checksum interval in multiplayer")
	}
}
