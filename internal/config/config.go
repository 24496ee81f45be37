package config

import (
	"time"
)

type Config struct {
	Gateway        GatewayConfig
	Server         ServerConfig
	Database       DatabaseConfig
	Broker         BrokerConfig
	Logging        LoggingConfig
	CircuitBreaker CircuitBreakerConfig
	RateLimit      RateLimitConfig
}

type GatewayConfig struct {
	// Identifier is the merchant account name registered at the
	// payment provider.
	Identifier string `mapstructure:"identifier"`

	// SecretKey is the skin secret used to sign and verify fields.
	// With the SHA256 algorithm the key must be hex-encoded.
	SecretKey string `mapstructure:"secret_key"`

	// ActionURL is the hosted payment page the signed form posts to.
	// The platform (test or live) is derived from its host.
	ActionURL string `mapstructure:"action_url"`

	HMACAlgorithm string `mapstructure:"hmac_algorithm"`
	SkinCode      string `mapstructure:"skin_code"`

	// IPAddressHeader names the HTTP header carrying the original
	// client address behind the proxy layer.
	IPAddressHeader string `mapstructure:"ip_address_header"`

	// AllowedMethods restricts payment methods when the order does
	// not carry its own restriction.
	AllowedMethods []string `mapstructure:"allowed_methods"`
}

type ServerConfig struct {
	Port                int           `mapstructure:"port"`
	ReadTimeoutSeconds  time.Duration `mapstructure:"read_timeout_seconds"`
	WriteTimeoutSeconds time.Duration `mapstructure:"write_timeout_seconds"`
}

type DatabaseConfig struct {
	Postgres      PostgresConfig
	Redis         RedisConfig
	RunMigrations bool `mapstructure:"run_migrations"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Password        string `mapstructure:"password"`
	DB              int    `mapstructure:"db"`
	ClaimTTLSeconds int    `mapstructure:"claim_ttl_seconds"`
}

type BrokerConfig struct {
	Kafka KafkaConfig `mapstructure:"kafka"`
}

type KafkaConfig struct {
	Brokers            []string    `mapstructure:"brokers"`
	PaymentEventsTopic string      `mapstructure:"payment_events_topic"`
	Retry              RetryConfig `mapstructure:"retry"`
}

type RetryConfig struct {
	MaxAttempts     int           `mapstructure:"max_attempts"`
	InitialInterval time.Duration `mapstructure:"initial_interval"`
	MaxInterval     time.Duration `mapstructure:"max_interval"`
	Multiplier      float64       `mapstructure:"multiplier"`
	MaxElapsedTime  time.Duration `mapstructure:"max_elapsed_time"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type CircuitBreakerConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	MaxRequests  uint32        `mapstructure:"max_requests"`
	Interval     time.Duration `mapstructure:"interval"`
	Timeout      time.Duration `mapstructure:"timeout"`
	FailureRatio float64       `mapstructure:"failure_ratio"`
	MinRequests  uint32        `mapstructure:"min_requests"`
}

type RateLimitConfig struct {
	Enabled         bool    `mapstructure:"enabled"`
	RPS             float64 `mapstructure:"rps"`
	Burst           int     `mapstructure:"burst"`
	CleanupInterval int     `mapstructure:"cleanup_interval"`
	MaxAge          int     `mapstructure:"max_age"`
}

func Load(configFile string) (*Config, error) {
	return LoadConfig(configFile)
}
