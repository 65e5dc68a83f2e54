package config

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/mitchellh/mapstructure"

	"dataroom/internal/logger"
	"dataroom/pkg/blob"
	blobFs "dataroom/pkg/blob/fs"
	blobS3 "dataroom/pkg/blob/s3"
	"dataroom/pkg/dataroom"
	badgerstore "dataroom/pkg/dataroom/badger"
	memorystore "dataroom/pkg/dataroom/memory"
)

// CreateStore creates the entity store selected by the configuration,
// including its blob store when payloads are external.
//
// The factory uses the Type field to determine which store implementation to
// create, then decodes the type-specific configuration from the corresponding
// map and passes it to the store's constructor.
//
// Supported types:
//   - "badger": persistent BadgerDB store (pkg/dataroom/badger)
//   - "memory": ephemeral in-memory store (pkg/dataroom/memory)
func CreateStore(ctx context.Context, cfg *Config) (dataroom.Store, error) {
	switch cfg.Store.Type {
	case "badger":
		blobs, err := CreateBlobStore(ctx, &cfg.Blobs)
		if err != nil {
			return nil, err
		}
		return createBadgerStore(ctx, cfg.Store.Badger, blobs)
	case "memory":
		return memorystore.NewStore(), nil
	default:
		return nil, fmt.Errorf("unknown store type: %q", cfg.Store.Type)
	}
}

// CreateBlobStore creates the external blob store selected by the
// configuration. It returns nil for the "embedded" type: embedded payloads
// live inside the entity store and need no separate backend.
func CreateBlobStore(ctx context.Context, cfg *BlobConfig) (blob.Store, error) {
	switch cfg.Type {
	case "embedded":
		return nil, nil
	case "filesystem":
		return createFilesystemBlobStore(ctx, cfg.Filesystem)
	case "s3":
		return createS3BlobStore(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown blob store type: %q", cfg.Type)
	}
}

// createBadgerStore creates the persistent BadgerDB entity store.
func createBadgerStore(ctx context.Context, options map[string]any, blobs blob.Store) (dataroom.Store, error) {
	var storeCfg badgerstore.Config
	if err := mapstructure.Decode(options, &storeCfg); err != nil {
		return nil, fmt.Errorf("failed to decode badger store config: %w", err)
	}

	if storeCfg.DBPath == "" {
		return nil, fmt.Errorf("badger store: db_path is required")
	}
	storeCfg.Blobs = blobs

	store, err := badgerstore.NewStore(ctx, storeCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create badger store: %w", err)
	}
	return store, nil
}

// createFilesystemBlobStore creates a filesystem-backed blob store.
func createFilesystemBlobStore(ctx context.Context, options map[string]any) (blob.Store, error) {
	type FilesystemBlobConfig struct {
		Path string `mapstructure:"path"`
	}

	var storeCfg FilesystemBlobConfig
	if err := mapstructure.Decode(options, &storeCfg); err != nil {
		return nil, fmt.Errorf("failed to decode filesystem blob store config: %w", err)
	}

	if storeCfg.Path == "" {
		return nil, fmt.Errorf("filesystem blob store: path is required")
	}

	store, err := blobFs.NewStore(ctx, storeCfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to create filesystem blob store: %w", err)
	}
	return store, nil
}

// createS3BlobStore creates an S3-backed blob store.
func createS3BlobStore(ctx context.Context, options map[string]any) (blob.Store, error) {
	type S3BlobConfig struct {
		Region          string `mapstructure:"region"`
		Bucket          string `mapstructure:"bucket"`
		KeyPrefix       string `mapstructure:"key_prefix"`
		Endpoint        string `mapstructure:"endpoint"`
		AccessKeyID     string `mapstructure:"access_key_id"`
		SecretAccessKey string `mapstructure:"secret_access_key"`
		MaxRetries      int    `mapstructure:"max_retries"`
	}

	var storeCfg S3BlobConfig
	if err := mapstructure.Decode(options, &storeCfg); err != nil {
		return nil, fmt.Errorf("failed to decode S3 blob store config: %w", err)
	}

	if storeCfg.Bucket == "" {
		return nil, fmt.Errorf("S3 blob store: bucket is required")
	}
	if storeCfg.Region == "" {
		return nil, fmt.Errorf("S3 blob store: region is required")
	}

	var configOptions []func(*awsConfig.LoadOptions) error
	configOptions = append(configOptions, awsConfig.WithRegion(storeCfg.Region))

	// Custom endpoint support for MinIO, Localstack, etc.
	if storeCfg.Endpoint != "" {
		//nolint:staticcheck // TODO: migrate to BaseEndpoint when AWS SDK v2 stabilizes the new API
		customResolver := aws.EndpointResolverWithOptionsFunc(
			func(service, region string, options ...interface{}) (aws.Endpoint, error) {
				//nolint:staticcheck // TODO: migrate to BaseEndpoint when AWS SDK v2 stabilizes the new API
				return aws.Endpoint{
					URL:               storeCfg.Endpoint,
					HostnameImmutable: true,
					Source:            aws.EndpointSourceCustom,
				}, nil
			},
		)
		//nolint:staticcheck // TODO: migrate to BaseEndpoint when AWS SDK v2 stabilizes the new API
		configOptions = append(configOptions, awsConfig.WithEndpointResolverWithOptions(customResolver))
	}

	// Static credentials if provided, otherwise the default credential chain
	if storeCfg.AccessKeyID != "" && storeCfg.SecretAccessKey != "" {
		credProvider := credentials.NewStaticCredentialsProvider(
			storeCfg.AccessKeyID,
			storeCfg.SecretAccessKey,
			"",
		)
		configOptions = append(configOptions, awsConfig.WithCredentialsProvider(credProvider))
	}

	maxRetries := storeCfg.MaxRetries
	if maxRetries == 0 {
		maxRetries = 10
	}
	configOptions = append(configOptions, awsConfig.WithRetryer(func() aws.Retryer {
		return retry.NewStandard(func(o *retry.StandardOptions) {
			o.MaxAttempts = maxRetries
		})
	}))

	awsCfg, err := awsConfig.LoadDefaultConfig(ctx, configOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		// Path-style addressing for S3-compatible endpoints
		if storeCfg.Endpoint != "" {
			o.UsePathStyle = true
		}
	})

	store, err := blobS3.NewStore(ctx, blobS3.Config{
		Client:    client,
		Bucket:    storeCfg.Bucket,
		KeyPrefix: storeCfg.KeyPrefix,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 blob store: %w", err)
	}

	logger.Info("S3 blob store initialized: bucket=%s, region=%s, prefix=%s",
		storeCfg.Bucket, storeCfg.Region, storeCfg.KeyPrefix)

	return store, nil
}
