package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	GRPC     GRPCConfig     `yaml:"grpc"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Auth     AuthConfig     `yaml:"auth"`
	Wizard   WizardConfig   `yaml:"wizard"`
	Payment  PaymentConfig  `yaml:"payment"`
	Worker   WorkerConfig   `yaml:"worker"`
	Log      LogConfig      `yaml:"log"`
}

type HTTPConfig struct {
	Address    string `yaml:"address" envconfig:"CLAIMS_HTTP_ADDRESS"`
	SwaggerDir string `yaml:"swagger_dir" envconfig:"CLAIMS_HTTP_SWAGGER_DIR"`
}

type GRPCConfig struct {
	Address string `yaml:"address" envconfig:"CLAIMS_GRPC_ADDRESS"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host" envconfig:"CLAIMS_DATABASE_HOST"`
	Port     int    `yaml:"port" envconfig:"CLAIMS_DATABASE_PORT"`
	User     string `yaml:"user" envconfig:"CLAIMS_DATABASE_USER"`
	Password string `yaml:"password" envconfig:"CLAIMS_DATABASE_PASSWORD"`
	Name     string `yaml:"name" envconfig:"CLAIMS_DATABASE_NAME"`
	SSLMode  string `yaml:"ssl_mode" envconfig:"CLAIMS_DATABASE_SSL_MODE"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr" envconfig:"CLAIMS_REDIS_ADDR"`
	Password string `yaml:"password" envconfig:"CLAIMS_REDIS_PASSWORD"`
	DB       int    `yaml:"db" envconfig:"CLAIMS_REDIS_DB"`
}

type KafkaConfig struct {
	Brokers          []string `yaml:"brokers" envconfig:"CLAIMS_KAFKA_BROKERS"`
	ClaimEventsTopic string   `yaml:"claim_events_topic" envconfig:"CLAIMS_KAFKA_CLAIM_EVENTS_TOPIC"`
	GroupID          string   `yaml:"group_id" envconfig:"CLAIMS_KAFKA_GROUP_ID"`
}

type AuthConfig struct {
	JWTSecret       string `yaml:"jwt_secret" envconfig:"CLAIMS_AUTH_JWT_SECRET"`
	Issuer          string `yaml:"issuer" envconfig:"CLAIMS_AUTH_ISSUER"`
	TokenTTLMinutes int    `yaml:"token_ttl_minutes" envconfig:"CLAIMS_AUTH_TOKEN_TTL_MINUTES"`
}

type WizardConfig struct {
	DraftTTLMinutes       int `yaml:"draft_ttl_minutes" envconfig:"CLAIMS_WIZARD_DRAFT_TTL_MINUTES"`
	ClaimsCacheTTLSeconds int `yaml:"claims_cache_ttl_seconds" envconfig:"CLAIMS_WIZARD_CLAIMS_CACHE_TTL_SECONDS"`
}

type PaymentConfig struct {
	// CardPepper keys the card number digest. Changing it breaks matching against stored digests.
	CardPepper string `yaml:"card_pepper" envconfig:"CLAIMS_PAYMENT_CARD_PEPPER"`
}

type WorkerConfig struct {
	IncompleteSweepMinutes int `yaml:"incomplete_sweep_minutes" envconfig:"CLAIMS_WORKER_INCOMPLETE_SWEEP_MINUTES"`
	IncompleteGraceMinutes int `yaml:"incomplete_grace_minutes" envconfig:"CLAIMS_WORKER_INCOMPLETE_GRACE_MINUTES"`
}

type LogConfig struct {
	Level string `yaml:"level" envconfig:"CLAIMS_LOG_LEVEL"`
}

func (c WizardConfig) DraftTTL() time.Duration {
	return time.Duration(c.DraftTTLMinutes) * time.Minute
}

func (c WizardConfig) ClaimsCacheTTL() time.Duration {
	return time.Duration(c.ClaimsCacheTTLSeconds) * time.Second
}

func (c AuthConfig) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLMinutes) * time.Minute
}

func (c WorkerConfig) SweepInterval() time.Duration {
	return time.Duration(c.IncompleteSweepMinutes) * time.Minute
}

func (c WorkerConfig) Grace() time.Duration {
	return time.Duration(c.IncompleteGraceMinutes) * time.Minute
}

// LoadConfig reads the YAML file at path and then applies CLAIMS_* environment overrides.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	if c.GRPC.Address == "" {
		c.GRPC.Address = ":9090"
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Kafka.ClaimEventsTopic == "" {
		c.Kafka.ClaimEventsTopic = "claim-events"
	}
	if c.Kafka.GroupID == "" {
		c.Kafka.GroupID = "claims-audit"
	}
	if c.Auth.TokenTTLMinutes == 0 {
		c.Auth.TokenTTLMinutes = 60
	}
	if c.Wizard.DraftTTLMinutes == 0 {
		c.Wizard.DraftTTLMinutes = 60
	}
	if c.Wizard.ClaimsCacheTTLSeconds == 0 {
		c.Wizard.ClaimsCacheTTLSeconds = 30
	}
	if c.Worker.IncompleteSweepMinutes == 0 {
		c.Worker.IncompleteSweepMinutes = 5
	}
	if c.Worker.IncompleteGraceMinutes == 0 {
		c.Worker.IncompleteGraceMinutes = 15
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func (c *Config) Validate() error {
	var errs []error
	if c.Payment.CardPepper == "" {
		errs = append(errs, errors.New("payment.card_pepper is required"))
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("auth.jwt_secret is required"))
	}
	if c.Database.Host == "" || c.Database.Name == "" {
		errs = append(errs, errors.New("database.host and database.name are required"))
	}
	if len(c.Kafka.Brokers) == 0 {
		errs = append(errs, errors.New("kafka.brokers is required"))
	}
	return errors.Join(errs...)
}
