package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Upbit struct {
		BaseURL        string        `yaml:"base_url"`
		RequestTimeout time.Duration `yaml:"request_timeout"`
	} `yaml:"upbit"`
	Binance struct {
		BaseURL        string        `yaml:"base_url"`
		RequestTimeout time.Duration `yaml:"request_timeout"`
	} `yaml:"binance"`
	Throttle struct {
		MinInterval time.Duration `yaml:"min_interval"`
		MaxRetries  int           `yaml:"max_retries"`
		BackoffBase time.Duration `yaml:"backoff_base"`
	} `yaml:"throttle"`
	Analysis struct {
		LookbackMonths int           `yaml:"lookback_months"`
		MaxAssets      int           `yaml:"max_assets"`
		AssetCooldown  time.Duration `yaml:"asset_cooldown"`
	} `yaml:"analysis"`
	Scheduler struct {
		ReportInterval   time.Duration `yaml:"report_interval"`
		CalendarInterval time.Duration `yaml:"calendar_interval"`
		SnapshotTTL      time.Duration `yaml:"snapshot_ttl"`
	} `yaml:"scheduler"`
	Catalog struct {
		VolumeSnapshotPath string `yaml:"volume_snapshot_path"`
	} `yaml:"catalog"`
	Snapshot struct {
		Dir string `yaml:"dir"`
	} `yaml:"snapshot"`
	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Kafka struct {
		Brokers  []string `yaml:"brokers"`
		Topic    string   `yaml:"topic"`
		LogTopic string   `yaml:"log_topic"`
	} `yaml:"kafka"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"log"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("UPBIT_BASE_URL"); v != "" {
		c.Upbit.BaseURL = v
	}
	if v := os.Getenv("BINANCE_BASE_URL"); v != "" {
		c.Binance.BaseURL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		host, port := splitHostPort(v)
		c.Redis.Host = host
		if port > 0 {
			c.Redis.Port = port
		}
		c.Redis.Enabled = true
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("SNAPSHOT_DIR"); v != "" {
		c.Snapshot.Dir = v
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Throttle.MinInterval <= 0 {
		c.Throttle.MinInterval = 350 * time.Millisecond
	}
	if c.Throttle.MaxRetries <= 0 {
		c.Throttle.MaxRetries = 3
	}
	if c.Throttle.BackoffBase <= 0 {
		c.Throttle.BackoffBase = time.Second
	}
	if c.Scheduler.ReportInterval <= 0 {
		c.Scheduler.ReportInterval = 3 * time.Hour
	}
	if c.Scheduler.CalendarInterval <= 0 {
		c.Scheduler.CalendarInterval = 3 * time.Hour
	}
	if c.Analysis.LookbackMonths <= 0 {
		c.Analysis.LookbackMonths = 6
	}
	if c.Analysis.MaxAssets <= 0 {
		c.Analysis.MaxAssets = 30
	}
	if c.Analysis.AssetCooldown <= 0 {
		c.Analysis.AssetCooldown = 200 * time.Millisecond
	}
	if c.Snapshot.Dir == "" {
		c.Snapshot.Dir = "data/snapshots"
	}
	if c.Kafka.LogTopic == "" {
		c.Kafka.LogTopic = "listingpulse.logs"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Upbit.BaseURL == "" {
		return fmt.Errorf("upbit.base_url is required")
	}
	if c.Binance.BaseURL == "" {
		return fmt.Errorf("binance.base_url is required")
	}
	if c.Redis.Enabled && c.Redis.Host == "" {
		return fmt.Errorf("redis.host is required when redis is enabled")
	}
	return nil
}

func splitHostPort(addr string) (string, int) {
	i := strings.LastIndex(addr, ":")
	if i < 0 {
		return addr, 0
	}
	var port int
	_, _ = fmt.Sscanf(addr[i+1:], "%d", &port)
	return addr[:i], port
}
