package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

// Duration lets yaml configs use "30m" style values; plain integers are
// taken as nanoseconds.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("parse duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}
	var n int64
	if err := value.Decode(&n); err != nil {
		return err
	}
	*d = Duration(n)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	URL      string `yaml:"url"`
	MaxConns int32  `yaml:"max_conns"`
}

type RedisConfig struct {
	URL      string   `yaml:"url"`
	Password string   `yaml:"password"`
	DB       int      `yaml:"db"`
	TTL      Duration `yaml:"ttl"`
}

type AdminConfig struct {
	Port   int    `yaml:"port"`
	APIKey string `yaml:"api_key"`
}

// AnalysisConfig tunes the classification pipeline. Thresholds are
// inclusive upper bounds in whole days; Interval drives the periodic
// worker in serve mode; Transactional makes inactive-log writes
// all-or-nothing.
type AnalysisConfig struct {
	ActiveDays    int      `yaml:"active_days"`
	DormantDays   int      `yaml:"dormant_days"`
	Interval      Duration `yaml:"interval"`
	Transactional bool     `yaml:"transactional"`
}

type Config struct {
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Admin    AdminConfig    `yaml:"admin"`
	Analysis AnalysisConfig `yaml:"analysis"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// defaults
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Database.MaxConns <= 0 {
		cfg.Database.MaxConns = 10
	}
	cfg.Redis.TTL = normalizeTTL(cfg.Redis.TTL)
	if cfg.Analysis.ActiveDays <= 0 {
		cfg.Analysis.ActiveDays = 7
	}
	if cfg.Analysis.DormantDays <= 0 {
		cfg.Analysis.DormantDays = 30
	}
	if cfg.Analysis.Interval <= 0 {
		cfg.Analysis.Interval = Duration(time.Hour)
	}
	if cfg.Admin.Port <= 0 {
		cfg.Admin.Port = 8081
	}

	// Minimal validation
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Analysis.DormantDays < cfg.Analysis.ActiveDays {
		return nil, errors.New("analysis.dormant_days must be >= analysis.active_days")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func normalizeTTL(d Duration) Duration {
	if d <= 0 {
		return Duration(time.Hour)
	}
	return d
}
