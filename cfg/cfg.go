package cfg

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"kokorotts/internal/app/api"
	"kokorotts/internal/app/processor"
	"kokorotts/pkg/artifacts"
	"kokorotts/pkg/s3client"
	"kokorotts/pkg/synth"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Api api.Config `yaml:"api"`

	Kokoro    synth.KokoroConfig `yaml:"kokoro"`
	Processor processor.Config   `yaml:"processor"`

	Artifacts artifacts.Config `yaml:"artifacts"`
	S3        s3client.Config  `yaml:"s3" envPrefix:"S3_"`

	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`
}

func Default() *Config {
	return &Config{
		Api: api.Config{
			Host:    "0.0.0.0",
			Port:    5000,
			Timeout: 5 * time.Minute,
		},
		Kokoro: synth.KokoroConfig{
			URL:         "http://127.0.0.1:8880",
			LangCode:    "a",
			Speed:       1,
			Timeout:     3 * time.Minute,
			InitTimeout: 5 * time.Minute,
		},
		Processor: processor.Config{
			DefaultVoice: processor.DefaultVoice,
		},
		Artifacts: artifacts.Config{
			Backend:         artifacts.BackendFS,
			TempDir:         "/app/temp",
			TTL:             artifacts.DefaultTTL,
			ReclaimInterval: artifacts.DefaultReclaimInterval,
		},
		LogLevel: "info",
	}
}

// Load reads the yaml file on top of defaults, then applies environment
// overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("can't open %s file: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("can't unmarshal %s file: %w", path, err)
			}
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Artifacts.Backend {
	case artifacts.BackendFS, artifacts.BackendS3:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Artifacts.Backend)
	}

	if c.Artifacts.TempDir == "" {
		return errors.New("artifacts temp_dir is empty")
	}

	if c.Artifacts.Backend == artifacts.BackendS3 && c.S3.Bucket == "" {
		return errors.New("s3 bucket is required for the s3 backend")
	}

	if c.Kokoro.URL == "" {
		return errors.New("kokoro url is empty")
	}

	if c.Artifacts.TTL <= 0 || c.Artifacts.ReclaimInterval <= 0 {
		return errors.New("artifact ttl and reclaim interval must be positive")
	}

	return nil
}
