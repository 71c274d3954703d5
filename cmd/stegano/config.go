package main

import (
	"fmt"
	"os"

	stegano "github.com/yyyoichi/stegano_zero"
	"github.com/yyyoichi/stegano_zero/internal/imageio"
	"github.com/yyyoichi/stegano_zero/payload"
	"gopkg.in/yaml.v3"
)

const (
	framingTerminated = "terminated"
	framingRaw        = "raw"
	framingGolay      = "golay"
)

// Config holds defaults that command line flags may override.
type Config struct {
	// terminated, raw or golay
	Framing  string `yaml:"framing"`
	Seed     int64  `yaml:"seed"`
	Opaque   bool   `yaml:"opaque"`
	Output   string `yaml:"output"`
	CacheDir string `yaml:"cache_dir"`
}

func defaultConfig() Config {
	return Config{
		Framing:  framingTerminated,
		Seed:     payload.DefaultShuffleSeed,
		Output:   imageio.DefaultOutput,
		CacheDir: imageio.DefaultCacheDir,
	}
}

func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch c.Framing {
	case framingTerminated, framingRaw, framingGolay:
		return nil
	default:
		return fmt.Errorf("unknown framing %q (want %s, %s or %s)", c.Framing, framingTerminated, framingRaw, framingGolay)
	}
}

func (c Config) embedPayload(msg []byte) (stegano.EmbedPayload, error) {
	switch c.Framing {
	case framingRaw:
		return payload.New(msg, payload.WithoutECC())
	case framingGolay:
		return payload.New(msg, payload.WithGolay(c.Seed))
	default:
		return stegano.NewTerminated(msg), nil
	}
}

func (c Config) extractPayload() stegano.ExtractPayload {
	switch c.Framing {
	case framingRaw:
		return payload.NewReader(payload.WithoutECC())
	case framingGolay:
		return payload.NewReader(payload.WithGolay(c.Seed))
	default:
		return stegano.NewTerminatedReader()
	}
}

func (c Config) options() []stegano.Option {
	var opts []stegano.Option
	if c.Opaque {
		opts = append(opts, stegano.WithOpaqueOutput())
	}
	return opts
}
