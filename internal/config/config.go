package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server         ServerConfig         `mapstructure:"server"`
	Database       DatabaseConfig       `mapstructure:"database"`
	Redis          RedisConfig          `mapstructure:"redis"`
	Kafka          KafkaConfig          `mapstructure:"kafka"`
	Gemini         GeminiConfig         `mapstructure:"gemini"`
	Logging        LoggingConfig        `mapstructure:"logging"`
	Recommendation RecommendationConfig `mapstructure:"recommendation"`
	Embedding      EmbeddingConfig      `mapstructure:"embedding"`
	Security       SecurityConfig       `mapstructure:"security"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	URL            string        `mapstructure:"url"`
	MaxConnections int           `mapstructure:"max_connections"`
	MaxIdleTime    time.Duration `mapstructure:"max_idle_time"`
	MaxLifetime    time.Duration `mapstructure:"max_lifetime"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

type RedisConfig struct {
	Warm RedisInstanceConfig `mapstructure:"warm"`
	Cold RedisInstanceConfig `mapstructure:"cold"`
}

type RedisInstanceConfig struct {
	URL        string        `mapstructure:"url"`
	MaxRetries int           `mapstructure:"max_retries"`
	PoolSize   int           `mapstructure:"pool_size"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type KafkaConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topics  struct {
		InteractionEvents string `mapstructure:"interaction_events"`
	} `mapstructure:"topics"`
}

type GeminiConfig struct {
	APIKey         string        `mapstructure:"api_key"`
	BaseURL        string        `mapstructure:"base_url"`
	GenerateModel  string        `mapstructure:"generate_model"`
	EmbeddingModel string        `mapstructure:"embedding_model"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// RecommendationConfig holds the fusion weights and limits for the hybrid
// ranking pipeline. The three strategy weights are fixed per deployment and
// are not required to sum to 1.
type RecommendationConfig struct {
	EmotionWeight    float64       `mapstructure:"emotion_weight"`
	SemanticWeight   float64       `mapstructure:"semantic_weight"`
	PopularityWeight float64       `mapstructure:"popularity_weight"`
	PreferenceBonus  float64       `mapstructure:"preference_bonus"`
	HistoryLimit     int           `mapstructure:"history_limit"`
	DefaultLimit     int           `mapstructure:"default_limit"`
	CacheTTL         time.Duration `mapstructure:"cache_ttl"`
}

type EmbeddingConfig struct {
	Dimensions  int           `mapstructure:"dimensions"`
	WorkerCount int           `mapstructure:"worker_count"`
	CachePrefix string        `mapstructure:"cache_prefix"`
	CacheTTL    time.Duration `mapstructure:"cache_ttl"`
}

type SecurityConfig struct {
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
}

func Load() (*Config, error) {
	viper.SetConfigName("app")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	setDefaults()

	// Environment variable overrides
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		// Config file is optional, continue with env vars and defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "development")

	// Database defaults
	viper.SetDefault("database.url", "postgres://localhost:5432/moodmart")
	viper.SetDefault("database.max_connections", 25)
	viper.SetDefault("database.max_idle_time", "15m")
	viper.SetDefault("database.max_lifetime", "1h")
	viper.SetDefault("database.connect_timeout", "10s")

	// Redis defaults
	viper.SetDefault("redis.warm.url", "localhost:6379")
	viper.SetDefault("redis.warm.max_retries", 3)
	viper.SetDefault("redis.warm.pool_size", 10)
	viper.SetDefault("redis.warm.timeout", "5s")
	viper.SetDefault("redis.cold.url", "localhost:6379")
	viper.SetDefault("redis.cold.max_retries", 3)
	viper.SetDefault("redis.cold.pool_size", 5)
	viper.SetDefault("redis.cold.timeout", "10s")

	// Kafka defaults
	viper.SetDefault("kafka.enabled", false)
	viper.SetDefault("kafka.brokers", []string{"localhost:9092"})
	viper.SetDefault("kafka.topics.interaction_events", "interaction-events")

	// Gemini defaults
	viper.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com/v1beta")
	viper.SetDefault("gemini.generate_model", "gemini-2.0-flash")
	viper.SetDefault("gemini.embedding_model", "text-embedding-004")
	viper.SetDefault("gemini.timeout", "15s")

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")

	// Recommendation defaults
	viper.SetDefault("recommendation.emotion_weight", 0.3)
	viper.SetDefault("recommendation.semantic_weight", 0.4)
	viper.SetDefault("recommendation.popularity_weight", 0.3)
	viper.SetDefault("recommendation.preference_bonus", 1.2)
	viper.SetDefault("recommendation.history_limit", 20)
	viper.SetDefault("recommendation.default_limit", 10)
	viper.SetDefault("recommendation.cache_ttl", "15m")

	// Embedding defaults
	viper.SetDefault("embedding.dimensions", 384)
	viper.SetDefault("embedding.worker_count", 4)
	viper.SetDefault("embedding.cache_prefix", "embed:text")
	viper.SetDefault("embedding.cache_ttl", "24h")

	// Security defaults
	viper.SetDefault("security.cors.allowed_origins", []string{"*"})
	viper.SetDefault("security.cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	viper.SetDefault("security.cors.allowed_headers", []string{"*"})
}
