package config_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imagevault/imagevault/pkg/imagevault/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "memory", cfg.RepositoryType)
	assert.Equal(t, "memory", cfg.StorageType)
	assert.Equal(t, "memory", cfg.NotifierType)
	assert.True(t, cfg.Relay.Enabled)
	assert.Equal(t, 3*time.Second, cfg.Relay.Interval)
	assert.Equal(t, 10, cfg.Relay.BatchSize)
	assert.Equal(t, 10*time.Second, cfg.Relay.WaitTime)
	assert.Equal(t, int32(5), cfg.Notify.DelaySeconds)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("REPOSITORY_TYPE", "memory")
	t.Setenv("STORAGE_TYPE", "s3")
	t.Setenv("AWS_S3_BUCKET", "images")
	t.Setenv("RELAY_INTERVAL", "5s")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "s3", cfg.StorageType)
	assert.Equal(t, "images", cfg.S3.Bucket)
	assert.Equal(t, 5*time.Second, cfg.Relay.Interval)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.ServerConfig)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *config.ServerConfig) {},
		},
		{
			name:    "unknown repository type",
			mutate:  func(c *config.ServerConfig) { c.RepositoryType = "oracle" },
			wantErr: "repository_type",
		},
		{
			name:    "unknown storage type",
			mutate:  func(c *config.ServerConfig) { c.StorageType = "tape" },
			wantErr: "storage_type",
		},
		{
			name:    "s3 storage requires a bucket",
			mutate:  func(c *config.ServerConfig) { c.StorageType = "s3" },
			wantErr: "bucket",
		},
		{
			name:    "aws notifier requires queue URL",
			mutate: func(c *config.ServerConfig) {
				c.NotifierType = "aws"
				c.Notify.TopicARN = "arn:aws:sns:us-east-1:123456789012:topic"
			},
			wantErr: "queue URL",
		},
		{
			name: "aws notifier requires topic ARN",
			mutate: func(c *config.ServerConfig) {
				c.NotifierType = "aws"
				c.Notify.QueueURL = "https://sqs.us-east-1.amazonaws.com/123456789012/queue"
			},
			wantErr: "topic ARN",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.Load()
			require.NoError(t, err)
			tt.mutate(cfg)

			err = cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestBuildMemoryRuntime(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	runtime, err := cfg.Build(context.Background())
	require.NoError(t, err)

	assert.NotNil(t, runtime.Service)
	assert.NotNil(t, runtime.Notifier)
	assert.NotNil(t, runtime.Subscriptions)
	assert.NotNil(t, runtime.Relay)
}

func TestBuildWithoutNotifier(t *testing.T) {
	t.Setenv("NOTIFIER_TYPE", "none")

	cfg, err := config.Load()
	require.NoError(t, err)

	runtime, err := cfg.Build(context.Background())
	require.NoError(t, err)

	assert.NotNil(t, runtime.Service)
	assert.Nil(t, runtime.Notifier)
	assert.Nil(t, runtime.Subscriptions)
	assert.Nil(t, runtime.Relay)
}
