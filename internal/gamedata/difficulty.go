package gamedata

import (
	"math"
	"time"
)

// Params are the pacing values derived from a difficulty level.
type Params struct {
	Frequency    time.Duration // between spawn waves
	Duration     time.Duration // a target stays up this long
	MaxWaveSize  int
	FriendChance float64
}

// ParamsAt computes the pacing for difficulty d. It has no state of its own.
func ParamsAt(cfg *Config, d float64) Params {
	// Frequency and duration fall linearly until DifficultyCurveEnd, then sit
	// on their minimums.
	scale := 0.0
	if cfg.DifficultyCurveEnd > 0 {
		scale = clamp(d/cfg.DifficultyCurveEnd, 0, 1)
	} else if d > 0 {
		scale = 1
	}
	inverse := 1 - scale

	bonus := 0.0
	if cfg.SpawnCountThreshold > 0 {
		bonus = math.Floor(d / cfg.SpawnCountThreshold)
	}
	maxSpawns := max(cfg.MaxTargetSpawns, 1)
	waveSize := int(clamp(1+bonus, 1, float64(maxSpawns)))

	// Friend chance ramps from 0 at FriendChanceIncreaseStart to
	// FriendChanceTarget at FriendChanceIncreaseEnd.
	ramp := 0.0
	if span := cfg.FriendChanceIncreaseEnd - cfg.FriendChanceIncreaseStart; span != 0 {
		ramp = math.Max(0, d-cfg.FriendChanceIncreaseStart) / span * cfg.FriendChanceTarget
	}

	return Params{
		Frequency:    seconds(math.Max(cfg.MinTargetFrequency, cfg.StartingTargetFrequency*inverse)),
		Duration:     seconds(math.Max(cfg.MinTargetDuration, cfg.StartingTargetDuration*inverse)),
		MaxWaveSize:  waveSize,
		FriendChance: clamp(ramp, cfg.MinFriendChance, cfg.MaxFriendChance),
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
