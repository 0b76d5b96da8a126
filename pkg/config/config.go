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
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Archive struct {
		Backend      string        `yaml:"backend"` // "kafka" or "clickhouse"
		BatchSize    int           `yaml:"batch_size"`
		BatchTimeout time.Duration `yaml:"batch_timeout"`
	} `yaml:"archive"`
	Kafka struct {
		Brokers       []string `yaml:"brokers"`
		SnapshotTopic string   `yaml:"snapshot_topic"`
		RequiredAcks  int      `yaml:"required_acks"`
		Compression   string   `yaml:"compression"`
		Producer      struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			Linger       time.Duration `yaml:"linger"`
			BatchBytes   int           `yaml:"batch_bytes"`
			BatchSize    int           `yaml:"batch_size"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
		Consumer struct {
			Topic      string        `yaml:"topic"`
			GroupID    string        `yaml:"group_id"`
			Workers    int           `yaml:"workers"`
			BufferSize int           `yaml:"buffer_size"`
			RetryMax   int           `yaml:"retry_max"`
			BackoffMin time.Duration `yaml:"backoff_min"`
			BackoffMax time.Duration `yaml:"backoff_max"`
			DLQTopic   string        `yaml:"dlq_topic"`
			MinBytes   int           `yaml:"min_bytes"`
			MaxBytes   int           `yaml:"max_bytes"`
		} `yaml:"consumer"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		WriteTimeout     time.Duration `yaml:"write_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
	Sheets struct {
		BaseURL         string        `yaml:"base_url"`
		APIKey          string        `yaml:"api_key"`
		SpreadsheetID   string        `yaml:"spreadsheet_id"`
		Pipelines       []string      `yaml:"pipelines"`
		Timeout         time.Duration `yaml:"timeout"`
		RefreshInterval time.Duration `yaml:"refresh_interval"`
		HistoryDays     int           `yaml:"history_days"`          // basic fetch window
		HistoryDaysLong int           `yaml:"history_days_advanced"` // advanced models need more history
		RateLimit       struct {
			RequestsPerMinute int `yaml:"requests_per_minute"`
			Burst             int `yaml:"burst"`
		} `yaml:"rate_limit"`
	} `yaml:"sheets"`
	Forecast struct {
		Periods      int       `yaml:"periods"`
		Window       int       `yaml:"window"`
		Alpha        float64   `yaml:"alpha"`
		SeasonLength int       `yaml:"season_length"`
		Confidence   float64   `yaml:"confidence"`
		Weights      []float64 `yaml:"weights"`
		CacheTTL     struct {
			Trend    time.Duration `yaml:"trend"`
			Forecast time.Duration `yaml:"forecast"`
			Scenario time.Duration `yaml:"scenario"`
		} `yaml:"cache_ttl"`
		Redis struct {
			Enabled  bool   `yaml:"enabled"`
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"forecast"`
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

	if v := os.Getenv("SHEETS_API_KEY"); v != "" {
		c.Sheets.APIKey = v
	}
	if v := os.Getenv("SHEETS_SPREADSHEET_ID"); v != "" {
		c.Sheets.SpreadsheetID = v
	}
	if v := os.Getenv("PIPELINES"); v != "" {
		c.Sheets.Pipelines = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_SNAPSHOT_TOPIC"); v != "" {
		c.Kafka.SnapshotTopic = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Forecast.Redis.Addr = v
	}

	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Sheets.BaseURL == "" {
		return fmt.Errorf("sheets.base_url is required")
	}
	if c.Sheets.SpreadsheetID == "" {
		return fmt.Errorf("sheets.spreadsheet_id is required")
	}
	if len(c.Sheets.Pipelines) == 0 {
		return fmt.Errorf("sheets.pipelines cannot be empty")
	}
	if c.Forecast.Alpha < 0 || c.Forecast.Alpha > 1 {
		return fmt.Errorf("forecast.alpha must be in [0, 1], got %v", c.Forecast.Alpha)
	}
	if c.Sheets.HistoryDays == 0 {
		c.Sheets.HistoryDays = 90
	}
	if c.Sheets.HistoryDaysLong == 0 {
		c.Sheets.HistoryDaysLong = 180
	}
	return nil
}
