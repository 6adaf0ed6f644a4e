package targets

// Definition is one kind of target that can pop out of a slot. Definitions
// come from the machine configuration and are never mutated by a game.
type Definition struct {
	ID        string `yaml:"id" json:"id"`
	Sprite    string `yaml:"sprite" json:"sprite"`
	HitSprite string `yaml:"hitSprite,omitempty" json:"hitSprite,omitempty"`
	BonkSound string `yaml:"bonkSound,omitempty" json:"bonkSound,omitempty"`
	Score     int    `yaml:"score" json:"score"`
	Friendly  bool   `yaml:"friendly,omitempty" json:"friendly"`
}
