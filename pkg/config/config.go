package config

import (
	"fmt"
	"os"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

// ColumnConfig describes one column of the served dataset. Column order in
// the list is the physical row order; the first column is the axis key.
type ColumnConfig struct {
	ID           string `yaml:"id"`
	Kind         string `yaml:"kind" default:"number"`
	MissingOp    string `yaml:"missing_op"`
	MissingValue string `yaml:"missing_value"`
}

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"json"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"log"`
	Axis struct {
		Columns []ColumnConfig `yaml:"columns"`
	} `yaml:"axis"`
	Backend struct {
		Type string `yaml:"type" default:"static"` // static, http, clickhouse

		// static backend: rows loaded once at startup from a JSON file of
		// real projections.
		RowsFile string `yaml:"rows_file"`

		// http backend
		BaseURL string        `yaml:"base_url"`
		Dataset string        `yaml:"dataset"`
		Timeout time.Duration `yaml:"timeout" default:"30s"`

		// fetch dispatch
		FetchTimeout time.Duration `yaml:"fetch_timeout" default:"30s"`
		RateLimit    int           `yaml:"rate_limit" default:"10"`
	} `yaml:"backend"`
	ClickHouse struct {
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port" default:"9000"`
		Database         string        `yaml:"database" default:"default"`
		User             string        `yaml:"user" default:"default"`
		Password         string        `yaml:"password"`
		Table            string        `yaml:"table"`
		UseHTTP          bool          `yaml:"use_http"`
		DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout      time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout     time.Duration `yaml:"write_timeout" default:"10s"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
	Cache struct {
		Type   string        `yaml:"type" default:"none"` // none, memory, redis
		TTL    time.Duration `yaml:"ttl" default:"5m"`
		Prefix string        `yaml:"prefix" default:"graphaxis"`
		Redis  struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Stream struct {
		Enabled        bool          `yaml:"enabled"`
		URL            string        `yaml:"url"`
		Dataset        string        `yaml:"dataset"`
		ReconnectDelay time.Duration `yaml:"reconnect_delay" default:"3s"`
		PingInterval   time.Duration `yaml:"ping_interval" default:"20s"`
		MaxRPS         int           `yaml:"max_rps" default:"200"`
		BatchSize      int           `yaml:"batch_size" default:"256"`
		FlushInterval  time.Duration `yaml:"flush_interval" default:"250ms"`
	} `yaml:"stream"`
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
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("default config: %w", err)
	}

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

	if v := os.Getenv("BACKEND"); v != "" {
		c.Backend.Type = v
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
	if v := os.Getenv("CLICKHOUSE_PASSWORD"); v != "" {
		c.ClickHouse.Password = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
	}
	if v := os.Getenv("STREAM_URL"); v != "" {
		c.Stream.URL = v
	}

	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if len(c.Axis.Columns) == 0 {
		return fmt.Errorf("axis.columns cannot be empty")
	}
	for i, col := range c.Axis.Columns {
		if col.ID == "" {
			return fmt.Errorf("axis.columns[%d].id is required", i)
		}
		if col.Kind != "number" && col.Kind != "datetime" {
			return fmt.Errorf("axis.columns[%d].kind must be 'number' or 'datetime', got '%s'", i, col.Kind)
		}
	}
	switch c.Backend.Type {
	case "static":
		if c.Backend.RowsFile == "" {
			return fmt.Errorf("backend.rows_file is required for static backend")
		}
	case "http":
		if c.Backend.BaseURL == "" {
			return fmt.Errorf("backend.base_url is required for http backend")
		}
	case "clickhouse":
		if c.ClickHouse.Host == "" {
			return fmt.Errorf("clickhouse.host is required for clickhouse backend")
		}
		if c.ClickHouse.Table == "" {
			return fmt.Errorf("clickhouse.table is required for clickhouse backend")
		}
	default:
		return fmt.Errorf("backend.type must be 'static', 'http' or 'clickhouse', got '%s'", c.Backend.Type)
	}
	switch c.Cache.Type {
	case "none", "memory":
	case "redis":
		if c.Cache.Redis.Addr == "" {
			return fmt.Errorf("cache.redis.addr is required for redis cache")
		}
	default:
		return fmt.Errorf("cache.type must be 'none', 'memory' or 'redis', got '%s'", c.Cache.Type)
	}
	if c.Stream.Enabled && c.Stream.URL == "" {
		return fmt.Errorf("stream.url is required when stream is enabled")
	}
	return nil
}
