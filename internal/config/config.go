package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Datastore kinds accepted by DATA_SOURCE.
const (
	DataSourceMongo    = "mongodb"
	DataSourcePostgres = "postgres"
)

// Config holds every runtime setting of the application.
type Config struct {
	ServerPort     string        `env:"SERVER_PORT"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`
	PageSize       int           `env:"PAGE_SIZE" envDefault:"4"`
	MaxUploadBytes int64         `env:"MAX_UPLOAD_BYTES" envDefault:"10485760"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Datastore selection
	DataSource    string `env:"DATA_SOURCE" envDefault:"mongodb"`
	MongoURI      string `env:"MONGO_URI"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"movies"`
	DatabaseURL   string `env:"DATABASE_URL"`

	// JWT verification
	JWTSecret   string `env:"JWT_SECRET,required"`
	JWTAudience string `env:"JWT_AUDIENCE"`
	JWTIssuer   string `env:"JWT_ISSUER"`

	// Media host (S3 compatible)
	MediaEndpoint        string `env:"MEDIA_ENDPOINT,required"`
	MediaAccessKeyID     string `env:"MEDIA_ACCESS_KEY_ID,required"`
	MediaSecretAccessKey string `env:"MEDIA_SECRET_ACCESS_KEY,required"`
	MediaUseSSL          bool   `env:"MEDIA_USE_SSL"`
	MediaBucketName      string `env:"MEDIA_BUCKET_NAME,required"`
	MediaRegion          string `env:"MEDIA_REGION" envDefault:"us-east-1"`
	MediaPublicURL       string `env:"MEDIA_PUBLIC_URL"`

	RabbitMQ struct {
		RabbitMQURL       string `env:"RABBITMQ_URL"`
		RabbitMQQueueName string `env:"RABBITMQ_QUEUE_NAME" envDefault:"image_cleanup_queue"`
	}
}

// LoadConfig reads the configuration from the environment. A .env file in
// the working directory is loaded first when present.
func LoadConfig() (*Config, error) {
	if _, err := os.Stat(".env"); !os.IsNotExist(err) {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("load .env file: %w", err)
		}
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse config from environment: %w", err)
	}

	if cfg.ServerPort == "" {
		cfg.ServerPort = "4001"
	}
	if cfg.MediaPublicURL == "" {
		cfg.MediaPublicURL = cfg.MediaEndpointURL()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints env tags cannot express.
func (c *Config) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"JWT_SECRET", c.JWTSecret},
		{"MEDIA_ENDPOINT", c.MediaEndpoint},
		{"MEDIA_ACCESS_KEY_ID", c.MediaAccessKeyID},
		{"MEDIA_SECRET_ACCESS_KEY", c.MediaSecretAccessKey},
		{"MEDIA_BUCKET_NAME", c.MediaBucketName},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%s must not be empty", r.name)
		}
	}

	switch c.DataSource {
	case DataSourceMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required when DATA_SOURCE=%s", DataSourceMongo)
		}
	case DataSourcePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when DATA_SOURCE=%s", DataSourcePostgres)
		}
	default:
		return fmt.Errorf("DATA_SOURCE must be %q or %q, got %q", DataSourceMongo, DataSourcePostgres, c.DataSource)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("PAGE_SIZE must be positive")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	return nil
}

// MediaEndpointURL returns the media endpoint with its scheme.
func (c *Config) MediaEndpointURL() string {
	if c.MediaUseSSL {
		return "https://" + c.MediaEndpoint
	}
	return "http://" + c.MediaEndpoint
}
