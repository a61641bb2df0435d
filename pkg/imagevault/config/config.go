// Package config loads the process-wide server configuration from the
// environment and wires the concrete repository, blob store, and notifier
// implementations together. The configuration is read once at startup and
// immutable afterwards.
package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/imagevault/imagevault/pkg/imagevault"
	"github.com/imagevault/imagevault/pkg/imagevault/notify/awsmq"
	notifymemory "github.com/imagevault/imagevault/pkg/imagevault/notify/memory"
	memoryrepo "github.com/imagevault/imagevault/pkg/imagevault/repo/memory"
	postgresrepo "github.com/imagevault/imagevault/pkg/imagevault/repo/postgres"
	memorystorage "github.com/imagevault/imagevault/pkg/imagevault/storage/memory"
	s3storage "github.com/imagevault/imagevault/pkg/imagevault/storage/s3"
)

// ServerConfig represents server configuration for the imagevault service
type ServerConfig struct {
	Port        string `env:"PORT" env-default:"8080"`
	Environment string `env:"ENVIRONMENT" env-default:"development"`

	// BaseURL is the public base URL embedded in notification download links
	BaseURL string `env:"BASE_URL"`

	RepositoryType string `env:"REPOSITORY_TYPE" env-default:"memory"` // memory, postgres
	StorageType    string `env:"STORAGE_TYPE" env-default:"memory"`    // memory, s3
	NotifierType   string `env:"NOTIFIER_TYPE" env-default:"memory"`   // memory, aws, none

	DB     DbConfig
	S3     S3Config
	Notify NotifyConfig
	Relay  RelayConfig

	// BatchNotifierFunction names the compute function invoked by the
	// trigger endpoint; empty disables the endpoint.
	BatchNotifierFunction string `env:"BATCH_NOTIFIER_FUNCTION"`
}

// DbConfig holds Postgres connection settings
type DbConfig struct {
	Host     string `env:"IMAGES_PG_HOST" env-default:"localhost"`
	Port     uint16 `env:"IMAGES_PG_PORT" env-default:"5432"`
	Name     string `env:"IMAGES_PG_NAME" env-default:"imagevault"`
	User     string `env:"IMAGES_PG_USER" env-default:"imagevault"`
	Password string `env:"IMAGES_PG_PASSWORD" env-default:"pwd"`
}

// S3Config holds object-store settings
type S3Config struct {
	Region          string `env:"AWS_S3_REGION" env-default:"us-east-1"`
	Bucket          string `env:"AWS_S3_BUCKET"`
	AccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
	Endpoint        string `env:"AWS_S3_ENDPOINT"`
	UsePathStyle    bool   `env:"AWS_S3_USE_PATH_STYLE" env-default:"false"`
	CreateBucket    bool   `env:"AWS_S3_CREATE_BUCKET" env-default:"false"`
}

// NotifyConfig holds queue and topic settings
type NotifyConfig struct {
	Region          string `env:"AWS_NOTIFY_REGION" env-default:"us-east-1"`
	QueueURL        string `env:"AWS_SQS_QUEUE_URL"`
	TopicARN        string `env:"AWS_SNS_TOPIC_ARN"`
	AccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
	Endpoint        string `env:"AWS_NOTIFY_ENDPOINT"`
	DelaySeconds    int32  `env:"AWS_SQS_DELAY_SECONDS" env-default:"5"`
}

// RelayConfig holds notification-relay loop settings
type RelayConfig struct {
	Enabled   bool          `env:"RELAY_ENABLED" env-default:"true"`
	Interval  time.Duration `env:"RELAY_INTERVAL" env-default:"3s"`
	BatchSize int           `env:"RELAY_BATCH_SIZE" env-default:"10"`
	WaitTime  time.Duration `env:"RELAY_WAIT_TIME" env-default:"10s"`
}

// DatabaseURL renders the Postgres connection string
func (c DbConfig) DatabaseURL() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   c.Name,
	}
	return u.String()
}

// Load reads the server configuration from the environment and validates it
func Load() (*ServerConfig, error) {
	var cfg ServerConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	switch c.RepositoryType {
	case "memory", "postgres":
	default:
		return errors.New("repository_type must be 'memory' or 'postgres'")
	}

	switch c.StorageType {
	case "memory":
	case "s3":
		if c.S3.Bucket == "" {
			return errors.New("bucket is required when using s3 storage")
		}
	default:
		return errors.New("storage_type must be 'memory' or 's3'")
	}

	switch c.NotifierType {
	case "memory", "none":
	case "aws":
		if c.Notify.QueueURL == "" {
			return errors.New("queue URL is required when using aws notifier")
		}
		if c.Notify.TopicARN == "" {
			return errors.New("topic ARN is required when using aws notifier")
		}
	default:
		return errors.New("notifier_type must be 'memory', 'aws' or 'none'")
	}

	return nil
}

// Runtime bundles the wired components built from a ServerConfig.
type Runtime struct {
	Service       imagevault.Service
	Notifier      imagevault.Notifier
	Subscriptions *imagevault.SubscriptionManager
	Relay         *imagevault.Relay
}

// Build wires repository, blob store, notifier, service, subscription
// manager, and relay per the configuration. With NotifierType "none" the
// returned Runtime carries no Notifier, Subscriptions, or Relay.
func (c *ServerConfig) Build(ctx context.Context) (*Runtime, error) {
	repo, err := c.buildRepository(ctx)
	if err != nil {
		return nil, err
	}

	store, err := c.buildBlobStore()
	if err != nil {
		return nil, err
	}

	notifier, err := c.buildNotifier()
	if err != nil {
		return nil, err
	}

	options := []imagevault.Option{
		imagevault.WithRepository(repo),
		imagevault.WithBlobStore(store),
		imagevault.WithBaseURL(c.BaseURL),
	}
	if notifier != nil {
		options = append(options, imagevault.WithNotifier(notifier))
	}

	svc, err := imagevault.New(options...)
	if err != nil {
		return nil, fmt.Errorf("failed to build service: %w", err)
	}

	rt := &Runtime{Service: svc, Notifier: notifier}
	if notifier != nil {
		rt.Subscriptions = imagevault.NewSubscriptionManager(notifier)
		if c.Relay.Enabled {
			rt.Relay = imagevault.NewRelay(notifier,
				imagevault.WithInterval(c.Relay.Interval),
				imagevault.WithBatchSize(c.Relay.BatchSize),
				imagevault.WithWaitTime(c.Relay.WaitTime),
			)
		}
	}

	return rt, nil
}

func (c *ServerConfig) buildRepository(ctx context.Context) (imagevault.Repository, error) {
	switch c.RepositoryType {
	case "postgres":
		pool, err := pgxpool.New(ctx, c.DB.DatabaseURL())
		if err != nil {
			return nil, fmt.Errorf("failed to create connection pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		repo := postgresrepo.NewWithPool(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("failed to bootstrap schema: %w", err)
		}
		return repo, nil
	default:
		return memoryrepo.New(), nil
	}
}

func (c *ServerConfig) buildBlobStore() (imagevault.BlobStore, error) {
	switch c.StorageType {
	case "s3":
		return s3storage.New(s3storage.Config{
			Region:                 c.S3.Region,
			Bucket:                 c.S3.Bucket,
			AccessKeyID:            c.S3.AccessKeyID,
			SecretAccessKey:        c.S3.SecretAccessKey,
			Endpoint:               c.S3.Endpoint,
			UsePathStyle:           c.S3.UsePathStyle,
			CreateBucketIfNotExist: c.S3.CreateBucket,
		})
	default:
		return memorystorage.New(), nil
	}
}

func (c *ServerConfig) buildNotifier() (imagevault.Notifier, error) {
	switch c.NotifierType {
	case "aws":
		return awsmq.New(awsmq.Config{
			Region:          c.Notify.Region,
			QueueURL:        c.Notify.QueueURL,
			TopicARN:        c.Notify.TopicARN,
			AccessKeyID:     c.Notify.AccessKeyID,
			SecretAccessKey: c.Notify.SecretAccessKey,
			Endpoint:        c.Notify.Endpoint,
			DelaySeconds:    c.Notify.DelaySeconds,
		})
	case "none":
		return nil, nil
	default:
		return notifymemory.New(), nil
	}
}
