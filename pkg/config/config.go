// Package config loads and validates application configuration from YAML files
// with environment-variable overrides. It provides typed structs for the
// retrieval core, the corpus collaborators and every backing service
// (Postgres, Redis, Kafka, metrics).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Postgres  PostgresConfig  `yaml:"postgres"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Redis     RedisConfig     `yaml:"redis"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Corpus    CorpusConfig    `yaml:"corpus"`
	Store     StoreConfig     `yaml:"store"`
	Analytics AnalyticsConfig `yaml:"analytics"`
	RateLimit RateLimitConfig `yaml:"rateLimit"`
	Logging   LoggingConfig   `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
	MaxResults      int           `yaml:"maxResults"`
}

// PostgresConfig holds PostgreSQL connection parameters.
type PostgresConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	Database        string        `yaml:"database"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	SSLMode         string        `yaml:"sslMode"`
	MaxOpenConns    int           `yaml:"maxOpenConns"`
	MaxIdleConns    int           `yaml:"maxIdleConns"`
	ConnMaxLifetime time.Duration `yaml:"connMaxLifetime"`
}

// DSN returns a lib/pq-compatible data source name.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

// KafkaConfig holds Kafka broker and topic settings.
type KafkaConfig struct {
	Brokers []string    `yaml:"brokers"`
	Topics  KafkaTopics `yaml:"topics"`
}

// KafkaTopics maps logical topic names to their Kafka topic strings.
type KafkaTopics struct {
	SearchEvents string `yaml:"searchEvents"`
}

// RedisConfig holds Redis connection and caching parameters.
type RedisConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	PoolSize int           `yaml:"poolSize"`
	CacheTTL time.Duration `yaml:"cacheTTL"`
}

// RetrievalConfig selects the retrieval model and its parameters.
type RetrievalConfig struct {
	Model     string          `yaml:"model"`
	OutputK   int             `yaml:"outputK"`
	Stemmer   string          `yaml:"stemmer"`
	Signature SignatureConfig `yaml:"signature"`
}

// SignatureConfig controls the superimposed-signature model: Width is the
// signature length F in bits and BitsPerTerm is D.
type SignatureConfig struct {
	Width       int    `yaml:"width"`
	BitsPerTerm int    `yaml:"bitsPerTerm"`
	Match       string `yaml:"match"`
}

// CorpusConfig points at the raw inputs used to build a collection.
type CorpusConfig struct {
	RawDataPath      string `yaml:"rawDataPath"`
	SkipLines        int    `yaml:"skipLines"`
	StopwordListPath string `yaml:"stopwordListPath"`
	GroundTruthPath  string `yaml:"groundTruthPath"`
	CrouchThreshold  int    `yaml:"crouchThreshold"`
}

// StoreConfig selects where the collection and stopword list are persisted.
type StoreConfig struct {
	Backend        string `yaml:"backend"`
	CollectionPath string `yaml:"collectionPath"`
	StopwordPath   string `yaml:"stopwordPath"`
	SQLitePath     string `yaml:"sqlitePath"`
}

// AnalyticsConfig controls publishing of search events to Kafka.
type AnalyticsConfig struct {
	Enabled    bool `yaml:"enabled"`
	BufferSize int  `yaml:"bufferSize"`
}

// RateLimitConfig controls the per-client token bucket of the HTTP API.
// A non-positive RequestsPerSecond disables limiting.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requestsPerSecond"`
	Burst             int     `yaml:"burst"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the Prometheus metrics server.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

// Load reads a YAML config file (if provided) and applies environment-variable
// overrides. It returns a Config populated with sensible defaults for any
// missing values.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the retrieval core cannot work with.
func (c *Config) Validate() error {
	if c.Retrieval.OutputK <= 0 {
		return fmt.Errorf("retrieval.outputK must be positive, got %d", c.Retrieval.OutputK)
	}
	if c.Retrieval.Signature.Width <= 0 {
		return fmt.Errorf("retrieval.signature.width must be positive, got %d", c.Retrieval.Signature.Width)
	}
	if c.Retrieval.Signature.BitsPerTerm <= 0 {
		return fmt.Errorf("retrieval.signature.bitsPerTerm must be positive, got %d", c.Retrieval.Signature.BitsPerTerm)
	}
	switch c.Retrieval.Signature.Match {
	case "and", "or":
	default:
		return fmt.Errorf("retrieval.signature.match must be \"and\" or \"or\", got %q", c.Retrieval.Signature.Match)
	}
	switch c.Store.Backend {
	case "json", "postgres", "sqlite":
	default:
		return fmt.Errorf("store.backend must be json, postgres or sqlite, got %q", c.Store.Backend)
	}
	return nil
}

// defaultConfig returns a Config with defaults suitable for local use.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			MaxResults:      100,
		},
		Postgres: PostgresConfig{
			Host:            "localhost",
			Port:            5432,
			Database:        "retrieval",
			User:            "retrieval",
			Password:        "localdev",
			SSLMode:         "disable",
			MaxOpenConns:    10,
			MaxIdleConns:    2,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Kafka: KafkaConfig{
			Brokers: []string{"localhost:9092"},
			Topics: KafkaTopics{
				SearchEvents: "search-events",
			},
		},
		Redis: RedisConfig{
			Enabled:  false,
			Addr:     "localhost:6379",
			PoolSize: 10,
			CacheTTL: 60 * time.Second,
		},
		Retrieval: RetrievalConfig{
			Model:   "inverted",
			OutputK: 5,
			Stemmer: "porter",
			Signature: SignatureConfig{
				Width:       64,
				BitsPerTerm: 4,
				Match:       "and",
			},
		},
		Corpus: CorpusConfig{
			RawDataPath:      "raw_data/aesopa10.txt",
			SkipLines:        307,
			StopwordListPath: "raw_data/englishST.txt",
			GroundTruthPath:  "raw_data/ground_truth.txt",
			CrouchThreshold:  50,
		},
		Store: StoreConfig{
			Backend:        "json",
			CollectionPath: "data/my_collection.json",
			StopwordPath:   "data/stopwords.json",
			SQLitePath:     "data/collection.db",
		},
		Analytics: AnalyticsConfig{
			Enabled:    false,
			BufferSize: 10000,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 50,
			Burst:             100,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Port:    9090,
		},
	}
}

// applyEnvOverrides reads IR_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("IR_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("IR_RETRIEVAL_MODEL"); v != "" {
		cfg.Retrieval.Model = v
	}
	if v := os.Getenv("IR_RETRIEVAL_OUTPUT_K"); v != "" {
		if k, err := strconv.Atoi(v); err == nil {
			cfg.Retrieval.OutputK = k
		}
	}
	if v := os.Getenv("IR_RETRIEVAL_STEMMER"); v != "" {
		cfg.Retrieval.Stemmer = v
	}
	if v := os.Getenv("IR_STORE_BACKEND"); v != "" {
		cfg.Store.Backend = v
	}
	if v := os.Getenv("IR_POSTGRES_HOST"); v != "" {
		cfg.Postgres.Host = v
	}
	if v := os.Getenv("IR_POSTGRES_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.Port = port
		}
	}
	if v := os.Getenv("IR_POSTGRES_DATABASE"); v != "" {
		cfg.Postgres.Database = v
	}
	if v := os.Getenv("IR_POSTGRES_USER"); v != "" {
		cfg.Postgres.User = v
	}
	if v := os.Getenv("IR_POSTGRES_PASSWORD"); v != "" {
		cfg.Postgres.Password = v
	}
	if v := os.Getenv("IR_KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("IR_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
		cfg.Redis.Enabled = true
	}
	if v := os.Getenv("IR_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("IR_ANALYTICS_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Analytics.Enabled = enabled
		}
	}
	if v := os.Getenv("IR_RATE_LIMIT_RPS"); v != "" {
		if rps, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.RateLimit.RequestsPerSecond = rps
		}
	}
	if v := os.Getenv("IR_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("IR_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}
