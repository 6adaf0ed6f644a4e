package machines

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "machine.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
}

func TestLoadConfig_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
game:
  targetCount: 9
  gameDuration: 45s
  winThreshold: 0.5
  targets:
    - id: rat
      sprite: rat.png
      score: 5
    - id: cat
      sprite: cat.png
      score: -20
      friendly: true
rewards:
  minAmount: 2
  maxAmount: 4
  table:
    rolls: 2
    entries:
      - id: token
        weight: 1
location:
  zone: boardwalk
  x: 12.5
  y: -3
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if cfg.Game.TargetCount != 9 {
		t.Errorf("TargetCount = %d, want 9", cfg.Game.TargetCount)
	}
	if cfg.Game.GameDuration != 45*time.Second {
		t.Errorf("GameDuration = %v, want 45s", cfg.Game.GameDuration)
	}
	if len(cfg.Game.Targets) != 2 || !cfg.Game.Targets[1].Friendly {
		t.Errorf("Targets = %+v, want rat and friendly cat", cfg.Game.Targets)
	}
	if cfg.Rewards.MaxAmount != 4 || cfg.Rewards.Table.Rolls != 2 || len(cfg.Rewards.Table.Entries) != 1 {
		t.Errorf("Rewards = %+v, want the file's table", cfg.Rewards)
	}
	if cfg.Location.Zone != "boardwalk" || cfg.Location.X != 12.5 {
		t.Errorf("Location = %+v, want boardwalk", cfg.Location)
	}

	// untouched keys keep their defaults
	def := DefaultConfig()
	if cfg.Game.StartingTargetFrequency != def.Game.StartingTargetFrequency {
		t.Errorf("StartingTargetFrequency = %v, want default %v",
			cfg.Game.StartingTargetFrequency, def.Game.StartingTargetFrequency)
	}
	if cfg.Game.Sounds.Win != def.Game.Sounds.Win {
		t.Errorf("Sounds.Win = %q, want default %q", cfg.Game.Sounds.Win, def.Game.Sounds.Win)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := writeConfig(t, `
game:
  targetCount: 0
`)
	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("LoadConfig() should reject targetCount 0")
	}
	if !strings.Contains(err.Error(), "game") {
		t.Errorf("error %q should name the game section", err)
	}
}

func TestLoadConfig_BadRewards(t *testing.T) {
	path := writeConfig(t, `
rewards:
  minAmount: 5
  maxAmount: 1
`)
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("LoadConfig() should reject min > max")
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file should fail")
	}
	if _, err := LoadConfig(writeConfig(t, "game: [")); err == nil {
		t.Error("malformed YAML should fail")
	}
}
