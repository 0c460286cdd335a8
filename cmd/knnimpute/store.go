package main

import (
	"context"
	"fmt"
	"path/filepath"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/hupe1980/knnimpute/blobstore"
	minioblob "github.com/hupe1980/knnimpute/blobstore/minio"
	s3blob "github.com/hupe1980/knnimpute/blobstore/s3"
	"github.com/hupe1980/knnimpute/internal/config"
)

// openStore resolves a location to a store and the blob name inside it.
func openStore(ctx context.Context, uri string, cfg config.Config) (blobstore.BlobStore, string, error) {
	loc, err := blobstore.ParseURI(uri)
	if err != nil {
		return nil, "", err
	}

	switch loc.Scheme {
	case "file":
		return blobstore.NewLocalStore(filepath.Dir(loc.Key)), filepath.Base(loc.Key), nil
	case "s3":
		var optFns []func(*awsconfig.LoadOptions) error
		if cfg.S3.Region != "" {
			optFns = append(optFns, awsconfig.WithRegion(cfg.S3.Region))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, optFns...)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load AWS config: %w", err)
		}
		return s3blob.NewStore(awss3.NewFromConfig(awsCfg), loc.Bucket, ""), loc.Key, nil
	case "minio":
		client, err := minio.New(cfg.MinIO.Endpoint, &minio.Options{
			Creds:  minioCredentials(cfg.MinIO),
			Secure: cfg.MinIO.Secure,
		})
		if err != nil {
			return nil, "", fmt.Errorf("failed to create MinIO client: %w", err)
		}
		return minioblob.NewStore(client, loc.Bucket, ""), loc.Key, nil
	default:
		return nil, "", fmt.Errorf("unsupported scheme %q", loc.Scheme)
	}
}

func minioCredentials(c config.MinIOConfig) *credentials.Credentials {
	if c.AccessKey != "" {
		return credentials.NewStaticV4(c.AccessKey, c.SecretKey, "")
	}
	return credentials.NewEnvMinio()
}
