package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	Name        string      `toml:"name"`
	MetricsAddr string      `toml:"metrics_addr"`
	Frame       FrameConfig `toml:"frame"`
	Pool        PoolConfig  `toml:"pool"`
}

type FrameConfig struct {
	MaxPayloadBytes  uint32 `toml:"max_payload_bytes"`
	Compress         bool   `toml:"compress"`
	CompressMinBytes int    `toml:"compress_min_bytes"`
}

type PoolConfig struct {
	Workers    int `toml:"workers"`
	QueueDepth int `toml:"queue_depth"`
}

func Default() Config {
	return Config{
		Name: "devrpcd",
		Frame: FrameConfig{
			MaxPayloadBytes:  1 * 1024 * 1024,
			CompressMinBytes: 512,
		},
		Pool: PoolConfig{
			Workers:    4,
			QueueDepth: 64,
		},
	}
}

// Load reads a toml config from path, filling unset fields with defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	applyDefaults(&cfg)
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	def := Default()
	if strings.TrimSpace(cfg.Name) == "" {
		cfg.Name = def.Name
	}
	if cfg.Frame.MaxPayloadBytes == 0 {
		cfg.Frame.MaxPayloadBytes = def.Frame.MaxPayloadBytes
	}
	if cfg.Frame.CompressMinBytes == 0 {
		cfg.Frame.CompressMinBytes = def.Frame.CompressMinBytes
	}
	if cfg.Pool.Workers == 0 {
		cfg.Pool.Workers = def.Pool.Workers
	}
	if cfg.Pool.QueueDepth == 0 {
		cfg.Pool.QueueDepth = def.Pool.QueueDepth
	}
}

func Validate(cfg Config) error {
	if strings.TrimSpace(cfg.Name) == "" {
		return fmt.Errorf("config missing name")
	}
	if cfg.Pool.Workers < 0 {
		return fmt.Errorf("config pool workers must not be negative")
	}
	if cfg.Pool.QueueDepth < 0 {
		return fmt.Errorf("config pool queue_depth must not be negative")
	}
	if cfg.Frame.CompressMinBytes < 0 {
		return fmt.Errorf("config frame compress_min_bytes must not be negative")
	}
	return nil
}
