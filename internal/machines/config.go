package machines

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"whackarcade/internal/arcade"
	"whackarcade/internal/gamedata"
)

// MachineConfig is everything one cabinet needs: game tuning, prize stock
// and where it stands.
type MachineConfig struct {
	Game     gamedata.Config     `yaml:"game"`
	Rewards  arcade.RewardConfig `yaml:"rewards"`
	Location arcade.Location     `yaml:"location"`
}

func DefaultConfig() MachineConfig {
	return MachineConfig{
		Game: gamedata.DefaultConfig(),
		Rewards: arcade.RewardConfig{
			MinAmount: 1,
			MaxAmount: 3,
			Table: arcade.WeightedTable{
				Rolls: 1,
				Entries: []arcade.RewardEntry{
					{ID: "ticket", Weight: 8, Min: 1, Max: 3},
					{ID: "plush", Weight: 2, Min: 1, Max: 1},
				},
			},
		},
		Location: arcade.Location{Zone: "arcade"},
	}
}

func (c *MachineConfig) Validate() error {
	if err := c.Game.Validate(); err != nil {
		return fmt.Errorf("game: %w", err)
	}
	if err := c.Rewards.Validate(); err != nil {
		return fmt.Errorf("rewards: %w", err)
	}
	return nil
}

// LoadConfig reads a YAML machine file. Keys it leaves out keep their defaults.
func LoadConfig(path string) (*MachineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading machine config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing machine config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid machine config %s: %w", path, err)
	}
	return &cfg, nil
}
