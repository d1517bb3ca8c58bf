package config

import (
	"fmt"
	"os"
	"strconv"
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
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		PoolSize int    `yaml:"pool_size"`
	} `yaml:"redis"`
	ClickHouse struct {
		Enabled          bool          `yaml:"enabled"`
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
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		AlertTopic   string   `yaml:"alert_topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			Linger       time.Duration `yaml:"linger"`
			BatchBytes   int           `yaml:"batch_bytes"`
			BatchSize    int           `yaml:"batch_size"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
	} `yaml:"kafka"`
	Providers struct {
		Timeout      time.Duration `yaml:"timeout"`
		RateCapacity float64       `yaml:"rate_capacity"`
		RateRefill   float64       `yaml:"rate_refill_per_sec"`
		Binance      struct {
			Enabled      bool          `yaml:"enabled"`
			BaseURL      string        `yaml:"base_url"`
			WebSocketURL string        `yaml:"websocket_url"`
			UseStream    bool          `yaml:"use_stream"`
			Symbols      []string      `yaml:"symbols"`
			PingInterval time.Duration `yaml:"ping_interval"`
		} `yaml:"binance"`
		Coinbase struct {
			Enabled bool   `yaml:"enabled"`
			BaseURL string `yaml:"base_url"`
		} `yaml:"coinbase"`
		Kraken struct {
			Enabled bool   `yaml:"enabled"`
			BaseURL string `yaml:"base_url"`
		} `yaml:"kraken"`
	} `yaml:"providers"`
	Validation ValidationConfig `yaml:"validation"`
}

// ValidationConfig holds every tunable of the consensus engine. The exact
// values are deployment configuration, not derived constants.
type ValidationConfig struct {
	Enabled bool `yaml:"enabled"`
	Domains struct {
		Market  bool `yaml:"market"`
		Social  bool `yaml:"social"`
		OnChain bool `yaml:"onchain"`
		News    bool `yaml:"news"`
	} `yaml:"domains"`
	Timeout     time.Duration `yaml:"timeout"`
	MinQuorum   int           `yaml:"min_quorum"`
	SourceFloor int           `yaml:"source_floor"`
	QuoteMaxAge time.Duration `yaml:"quote_max_age"`

	SmoothingAlpha float64       `yaml:"smoothing_alpha"`
	DecayWindow    time.Duration `yaml:"decay_window"`
	NeutralWeight  float64       `yaml:"neutral_weight"`
	MinWeight      float64       `yaml:"min_weight"`
	MaxWeight      float64       `yaml:"max_weight"`
	WeightCacheTTL time.Duration `yaml:"weight_cache_ttl"`

	PriceWarnPct       float64 `yaml:"price_warn_pct"`
	PriceCriticalPct   float64 `yaml:"price_critical_pct"`
	VolumeWarnPct      float64 `yaml:"volume_warn_pct"`
	VolumeCriticalPct  float64 `yaml:"volume_critical_pct"`
	ArbitrageMinSpread float64 `yaml:"arbitrage_min_spread_pct"`
	MeanMedianSanity   float64 `yaml:"mean_median_sanity_pct"`

	LowConfidenceThreshold int `yaml:"low_confidence_threshold"`
	SingleSourceCeiling    int `yaml:"single_source_ceiling"`
	WarningPenalty         int `yaml:"warning_penalty"`
	CriticalPenalty        int `yaml:"critical_penalty"`
	TrustBonusMax          int `yaml:"trust_bonus_max"`
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

	if v := os.Getenv("REDIS_ADDR"); v != "" {
		host, port, ok := strings.Cut(v, ":")
		c.Redis.Host = host
		if ok {
			if p, err := strconv.Atoi(port); err == nil {
				c.Redis.Port = p
			}
		}
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
	if v := os.Getenv("CLICKHOUSE_PASSWORD"); v != "" {
		c.ClickHouse.Password = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_ALERT_TOPIC"); v != "" {
		c.Kafka.AlertTopic = v
	}
	if v := os.Getenv("VALIDATION_ENABLED"); v != "" {
		c.Validation.Enabled = v == "true" || v == "1"
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	v := &c.Validation
	if v.Timeout <= 0 {
		v.Timeout = 5 * time.Second
	}
	if v.MinQuorum <= 0 {
		v.MinQuorum = 2
	}
	if v.SourceFloor <= 0 {
		v.SourceFloor = 1
	}
	if v.QuoteMaxAge <= 0 {
		v.QuoteMaxAge = 5 * time.Minute
	}
	if v.SmoothingAlpha <= 0 {
		v.SmoothingAlpha = 0.1
	}
	if v.DecayWindow <= 0 {
		v.DecayWindow = 7 * 24 * time.Hour
	}
	if v.NeutralWeight <= 0 {
		v.NeutralWeight = 0.5
	}
	if v.MinWeight <= 0 {
		v.MinWeight = 0.05
	}
	if v.MaxWeight <= 0 {
		v.MaxWeight = 0.95
	}
	if v.PriceWarnPct <= 0 {
		v.PriceWarnPct = 0.015
	}
	if v.PriceCriticalPct <= 0 {
		v.PriceCriticalPct = 0.05
	}
	if v.VolumeWarnPct <= 0 {
		v.VolumeWarnPct = 0.10
	}
	if v.VolumeCriticalPct <= 0 {
		v.VolumeCriticalPct = 0.25
	}
	if v.ArbitrageMinSpread <= 0 {
		v.ArbitrageMinSpread = 0.02
	}
	if v.MeanMedianSanity <= 0 {
		v.MeanMedianSanity = 0.02
	}
	if v.LowConfidenceThreshold <= 0 {
		v.LowConfidenceThreshold = 60
	}
	if v.SingleSourceCeiling <= 0 {
		v.SingleSourceCeiling = 50
	}
	if v.WarningPenalty <= 0 {
		v.WarningPenalty = 10
	}
	if v.CriticalPenalty <= 0 {
		v.CriticalPenalty = 25
	}
	if v.TrustBonusMax <= 0 {
		v.TrustBonusMax = 10
	}
	if v.WeightCacheTTL <= 0 {
		v.WeightCacheTTL = 30 * time.Second
	}
	if c.Providers.Timeout <= 0 {
		c.Providers.Timeout = 3 * time.Second
	}
	if c.Providers.RateCapacity <= 0 {
		c.Providers.RateCapacity = 10
	}
	if c.Providers.RateRefill <= 0 {
		c.Providers.RateRefill = 5
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	v := c.Validation
	if v.MinWeight >= v.MaxWeight {
		return fmt.Errorf("validation.min_weight must be below max_weight")
	}
	if v.NeutralWeight < v.MinWeight || v.NeutralWeight > v.MaxWeight {
		return fmt.Errorf("validation.neutral_weight must lie within [min_weight, max_weight]")
	}
	if v.SmoothingAlpha <= 0 || v.SmoothingAlpha >= 1 {
		return fmt.Errorf("validation.smoothing_alpha must be in (0,1)")
	}
	if v.PriceWarnPct >= v.PriceCriticalPct {
		return fmt.Errorf("validation.price_warn_pct must be below price_critical_pct")
	}
	if v.VolumeWarnPct >= v.VolumeCriticalPct {
		return fmt.Errorf("validation.volume_warn_pct must be below volume_critical_pct")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	if c.Kafka.Enabled && c.Kafka.AlertTopic == "" {
		return fmt.Errorf("kafka.alert_topic is required when kafka is enabled")
	}
	if c.ClickHouse.Enabled && c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required when clickhouse is enabled")
	}
	return nil
}
