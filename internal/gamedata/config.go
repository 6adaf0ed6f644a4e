package gamedata

import (
	"fmt"
	"time"

	"whackarcade/internal/targets"
)

// Sounds are the sound cues a machine plays. Playback happens on the client.
type Sounds struct {
	NewGame  string  `yaml:"newGame,omitempty"`
	Bonk     string  `yaml:"bonk,omitempty"`
	Win      string  `yaml:"win,omitempty"`
	GameOver string  `yaml:"gameOver,omitempty"`
	Volume   float64 `yaml:"volume"` // dB
}

// Config is the static tuning of a whack game. Sessions hold a pointer to it
// and never modify it.
type Config struct {
	TargetCount  int           `yaml:"targetCount"`
	GameDuration time.Duration `yaml:"gameDuration"`

	// Seconds between spawn waves and seconds a target stays up.
	StartingTargetFrequency float64 `yaml:"startingTargetFrequency"`
	MinTargetFrequency      float64 `yaml:"minTargetFrequency"`
	StartingTargetDuration  float64 `yaml:"startingTargetDuration"`
	MinTargetDuration       float64 `yaml:"minTargetDuration"`

	FriendChanceIncreaseStart float64 `yaml:"friendChanceIncreaseStart"`
	FriendChanceIncreaseEnd   float64 `yaml:"friendChanceIncreaseEnd"`
	FriendChanceTarget        float64 `yaml:"friendChanceTarget"`
	MinFriendChance           float64 `yaml:"minFriendChance"`
	MaxFriendChance           float64 `yaml:"maxFriendChance"`

	// Every SpawnCountThreshold points of difficulty add one to the wave size.
	SpawnCountThreshold float64 `yaml:"spawnCountThreshold"`
	MaxTargetSpawns     int     `yaml:"maxTargetSpawns"`

	StartingDifficulty float64 `yaml:"startingDifficulty"`
	DifficultyRate     float64 `yaml:"difficultyRate"` // per second
	DifficultyCurveEnd float64 `yaml:"difficultyCurveEnd"`

	WinThreshold float64 `yaml:"winThreshold"`

	Sounds  Sounds               `yaml:"sounds"`
	Targets []targets.Definition `yaml:"targets"`
}

func DefaultConfig() Config {
	return Config{
		TargetCount:  6,
		GameDuration: 90 * time.Second,

		StartingTargetFrequency: 4.0,
		MinTargetFrequency:      0.8,
		StartingTargetDuration:  3.0,
		MinTargetDuration:       1.0,

		FriendChanceIncreaseStart: 20,
		FriendChanceIncreaseEnd:   90,
		FriendChanceTarget:        0.3,
		MinFriendChance:           0,
		MaxFriendChance:           0.4,

		SpawnCountThreshold: 18,
		MaxTargetSpawns:     5,

		StartingDifficulty: 0,
		DifficultyRate:     1.0,
		DifficultyCurveEnd: 90,

		WinThreshold: 0.65,

		Sounds: Sounds{
			NewGame:  "arcade/newgame.ogg",
			Bonk:     "arcade/bonk.ogg",
			Win:      "arcade/win.ogg",
			GameOver: "arcade/gameover.ogg",
			Volume:   -4,
		},
		Targets: []targets.Definition{
			{ID: "mole", Sprite: "whack/mole.png", HitSprite: "whack/mole_hit.png", Score: 10},
			{ID: "golden_mole", Sprite: "whack/golden_mole.png", HitSprite: "whack/golden_mole_hit.png", BonkSound: "whack/ding.ogg", Score: 25},
			{ID: "bunny", Sprite: "whack/bunny.png", HitSprite: "whack/bunny_hit.png", BonkSound: "whack/squeak.ogg", Score: -15, Friendly: true},
		},
	}
}

// Validate rejects configurations that cannot run a game. Degenerate but
// playable values (zero-width friend ramp, zero curve end) are left to the
// difficulty model's guards.
func (c *Config) Validate() error {
	if c.TargetCount < 1 {
		return fmt.Errorf("targetCount must be >= 1, got %d", c.TargetCount)
	}
	if c.GameDuration <= 0 {
		return fmt.Errorf("gameDuration must be positive, got %s", c.GameDuration)
	}
	if c.MinTargetFrequency <= 0 {
		return fmt.Errorf("minTargetFrequency must be positive, got %g", c.MinTargetFrequency)
	}
	if c.MinTargetDuration <= 0 {
		return fmt.Errorf("minTargetDuration must be positive, got %g", c.MinTargetDuration)
	}
	if c.MaxTargetSpawns < 1 {
		return fmt.Errorf("maxTargetSpawns must be >= 1, got %d", c.MaxTargetSpawns)
	}
	if c.MinFriendChance < 0 || c.MaxFriendChance > 1 || c.MinFriendChance > c.MaxFriendChance {
		return fmt.Errorf("friend chance bounds must satisfy 0 <= min <= max <= 1, got [%g, %g]", c.MinFriendChance, c.MaxFriendChance)
	}
	if c.WinThreshold < 0 || c.WinThreshold > 1 {
		return fmt.Errorf("winThreshold must be between 0 and 1, got %g", c.WinThreshold)
	}
	if err := targets.Validate(c.Targets); err != nil {
		return fmt.Errorf("invalid targets: %w", err)
	}
	return nil
}
