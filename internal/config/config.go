package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config is the process level configuration, read from the environment.
// Machine tuning lives in the YAML file named by MachineConfig.
type Config struct {
	Port            string
	DatabaseURL     string
	MachineConfig   string
	TickRate        int // simulation ticks per second
	MachineCount    int // machines created at boot
	ShutdownTimeout time.Duration
}

const (
	defaultTickRate        = 30
	defaultShutdownTimeout = 5 * time.Second
)

func Load() Config {
	cfg := Config{
		Port:            envString("PORT", "8080"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		MachineConfig:   os.Getenv("MACHINE_CONFIG"),
		TickRate:        envInt("TICK_RATE", defaultTickRate),
		MachineCount:    envInt("MACHINE_COUNT", 1),
		ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}
	if cfg.TickRate <= 0 {
		log.Printf("[Config] TICK_RATE %d out of range, using %d\n", cfg.TickRate, defaultTickRate)
		cfg.TickRate = defaultTickRate
	}
	cfg.MachineCount = max(cfg.MachineCount, 0)
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}
	return cfg
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return "0.0.0.0:" + c.Port
}

func envString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[Config] Ignoring %s=%q: %v\n", key, v, err)
		return fallback
	}
	return i
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("[Config] Ignoring %s=%q: %v\n", key, v, err)
		return fallback
	}
	return d
}
