package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Transport names accepted in the transport setting.
const (
	TransportSQS   = "sqs"
	TransportKafka = "kafka"
	TransportHTTP  = "http"
)

// LocalStack defaults used when nothing else is configured.
const (
	DefaultQueueURL    = "http://sqs.eu-central-1.localhost.localstack.cloud:4566/000000000000/defect-ticket-ingestion"
	DefaultEndpoint    = "http://localhost:4566"
	DefaultRegion      = "us-east-1"
	DefaultAccessKey   = "test"
	DefaultSecretKey   = "test"
	DefaultHTTPTimeout = 10 * time.Second
	DefaultLogLevel    = "warn"
)

// Config holds queue connection settings.
type Config struct {
	Transport string      `yaml:"transport" mapstructure:"transport" validate:"required,oneof=sqs kafka http"`
	SQS       SQSConfig   `yaml:"sqs"       mapstructure:"sqs"`
	Kafka     KafkaConfig `yaml:"kafka"     mapstructure:"kafka"`
	HTTP      HTTPConfig  `yaml:"http"      mapstructure:"http"`
	Log       LogConfig   `yaml:"log"       mapstructure:"log"`
}

// SQSConfig points at an SQS queue, optionally behind a local endpoint such as LocalStack.
type SQSConfig struct {
	QueueURL        string `yaml:"queue_url"         mapstructure:"queue_url"         validate:"required,url"`
	Endpoint        string `yaml:"endpoint"          mapstructure:"endpoint"          validate:"omitempty,url"`
	Region          string `yaml:"region"            mapstructure:"region"            validate:"required"`
	AccessKeyID     string `yaml:"access_key_id"     mapstructure:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key" mapstructure:"secret_access_key" validate:"required_with=AccessKeyID"`
}

// KafkaConfig points at a Kafka (or Redpanda) topic.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers" mapstructure:"brokers" validate:"required,min=1,dive,hostname_port"`
	Topic   string   `yaml:"topic"   mapstructure:"topic"   validate:"required"`
}

// HTTPConfig points at the batch ingestion REST API.
type HTTPConfig struct {
	URL     string        `yaml:"url"     mapstructure:"url"     validate:"required,url"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`
}

// LogConfig configures the diagnostic logger.
type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
}

var validate = validator.New()

// DefaultPath returns the default config file path (~/.batchsend.yaml).
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".batchsend.yaml"
	}
	return filepath.Join(home, ".batchsend.yaml")
}

// Load reads config from the YAML file and applies env var overrides.
// A .env file in the working directory is loaded first.
// configPath may be empty to use the default path.
func Load(configPath string) (Config, error) {
	_ = godotenv.Load()

	v := viper.New()

	if configPath == "" {
		configPath = DefaultPath()
	}

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.SetDefault("transport", TransportSQS)
	v.SetDefault("sqs.queue_url", DefaultQueueURL)
	v.SetDefault("sqs.endpoint", DefaultEndpoint)
	v.SetDefault("sqs.region", DefaultRegion)
	v.SetDefault("sqs.access_key_id", DefaultAccessKey)
	v.SetDefault("sqs.secret_access_key", DefaultSecretKey)
	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "")
	v.SetDefault("http.url", "")
	v.SetDefault("http.timeout", DefaultHTTPTimeout)
	v.SetDefault("log.level", DefaultLogLevel)

	// Env var overrides
	v.BindEnv("transport", "BATCHSEND_TRANSPORT")
	v.BindEnv("sqs.queue_url", "BATCHSEND_QUEUE_URL")
	v.BindEnv("sqs.endpoint", "AWS_ENDPOINT_URL")
	v.BindEnv("sqs.region", "AWS_REGION")
	v.BindEnv("sqs.access_key_id", "AWS_ACCESS_KEY_ID")
	v.BindEnv("sqs.secret_access_key", "AWS_SECRET_ACCESS_KEY")
	v.BindEnv("kafka.brokers", "KAFKA_BROKERS")
	v.BindEnv("kafka.topic", "KAFKA_TOPIC")
	v.BindEnv("http.url", "BATCHSEND_API_URL")
	v.BindEnv("http.timeout", "BATCHSEND_HTTP_TIMEOUT")
	v.BindEnv("log.level", "BATCHSEND_LOG_LEVEL")

	// A missing file is fine, env vars and defaults still apply.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Validate checks the fields required by the selected transport.
func (c Config) Validate() error {
	if err := validate.Var(c.Transport, "required,oneof=sqs kafka http"); err != nil {
		return fmt.Errorf("transport must be one of sqs, kafka, http (got %q)", c.Transport)
	}
	if err := validate.Struct(c.Log); err != nil {
		return fmt.Errorf("log level: %w", err)
	}

	switch c.Transport {
	case TransportSQS:
		if err := validate.Struct(c.SQS); err != nil {
			return fmt.Errorf("sqs settings (set in config file or BATCHSEND_QUEUE_URL / AWS_* env vars): %w", err)
		}
	case TransportKafka:
		if err := validate.Struct(c.Kafka); err != nil {
			return fmt.Errorf("kafka settings (set in config file or KAFKA_BROKERS / KAFKA_TOPIC env vars): %w", err)
		}
	case TransportHTTP:
		if err := validate.Struct(c.HTTP); err != nil {
			return fmt.Errorf("http settings (set in config file or BATCHSEND_API_URL env var): %w", err)
		}
	}
	return nil
}

// Save writes the config to the given path (or default path if empty).
func Save(cfg Config, configPath string) error {
	if configPath == "" {
		configPath = DefaultPath()
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
