package config

import (
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

func ValidateStatic(cfg *Config) error {
	var errors []error

	if err := validateGateway(cfg.Gateway); err != nil {
		errors = append(errors, err)
	}

	if err := validateServer(cfg.Server); err != nil {
		errors = append(errors, err)
	}

	if err := validateDatabase(cfg.Database); err != nil {
		errors = append(errors, err)
	}

	if err := validateBroker(cfg.Broker); err != nil {
		errors = append(errors, err)
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %v", errors)
	}

	return nil
}

func validateGateway(cfg GatewayConfig) error {
	if cfg.Identifier == "" {
		return &ValidationError{
			Field:   "gateway.identifier",
			Message: "merchant account identifier is required",
		}
	}

	if cfg.SecretKey == "" {
		return &ValidationError{
			Field:   "gateway.secret_key",
			Message: "skin secret key is required",
		}
	}

	if cfg.ActionURL == "" {
		return &ValidationError{
			Field:   "gateway.action_url",
			Message: "payment page action URL is required",
		}
	}

	parsed, err := url.Parse(cfg.ActionURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return &ValidationError{
			Field:   "gateway.action_url",
			Message: fmt.Sprintf("invalid URL: %s", cfg.ActionURL),
		}
	}

	switch strings.ToUpper(cfg.HMACAlgorithm) {
	case "SHA1":
	case "SHA256":
		if _, err := hex.DecodeString(cfg.SecretKey); err != nil {
			return &ValidationError{
				Field:   "gateway.secret_key",
				Message: "secret key must be hex-encoded when using SHA256",
			}
		}
	default:
		return &ValidationError{
			Field:   "gateway.hmac_algorithm",
			Message: fmt.Sprintf("unknown algorithm: %s (supported: SHA1, SHA256)", cfg.HMACAlgorithm),
		}
	}

	return nil
}

func validateServer(cfg ServerConfig) error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return &ValidationError{
			Field:   "server.port",
			Message: fmt.Sprintf("port must be between 1 and 65535, got %d", cfg.Port),
		}
	}

	if cfg.ReadTimeoutSeconds <= 0 {
		return &ValidationError{
			Field:   "server.read_timeout_seconds",
			Message: "read timeout must be positive",
		}
	}

	if cfg.WriteTimeoutSeconds <= 0 {
		return &ValidationError{
			Field:   "server.write_timeout_seconds",
			Message: "write timeout must be positive",
		}
	}

	return nil
}

func validateDatabase(cfg DatabaseConfig) error {
	if cfg.Postgres.Host == "" {
		return &ValidationError{
			Field:   "database.postgres.host",
			Message: "postgres host is required, the audit trail has no fallback store",
		}
	}

	if cfg.Postgres.Port < 1 || cfg.Postgres.Port > 65535 {
		return &ValidationError{
			Field:   "database.postgres.port",
			Message: fmt.Sprintf("port must be between 1 and 65535, got %d", cfg.Postgres.Port),
		}
	}

	if cfg.Postgres.DBName == "" {
		return &ValidationError{
			Field:   "database.postgres.dbname",
			Message: "database name is required",
		}
	}

	return nil
}

func validateBroker(cfg BrokerConfig) error {
	// The broker is optional, payment events are only published when
	// brokers are configured.
	if len(cfg.Kafka.Brokers) == 0 {
		return nil
	}

	for i, broker := range cfg.Kafka.Brokers {
		if broker == "" {
			return &ValidationError{
				Field:   fmt.Sprintf("broker.kafka.brokers[%d]", i),
				Message: "broker address cannot be empty",
			}
		}
	}

	if cfg.Kafka.PaymentEventsTopic == "" {
		return &ValidationError{
			Field:   "broker.kafka.payment_events_topic",
			Message: "topic is required when brokers are configured",
		}
	}

	return nil
}
