package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/jhoicas/invoicing-api/internal/application/usecase"
	"github.com/jhoicas/invoicing-api/pkg/config"
)

// S3Storage guarda los archivos en un bucket S3 compatible (AWS, R2, MinIO).
// S3 no tiene directorios: MakeDir no hace nada.
type S3Storage struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

var _ usecase.FileStorage = (*S3Storage)(nil)

// NewS3Storage crea el cliente con credenciales estáticas y endpoint opcional.
func NewS3Storage(ctx context.Context, cfg config.StorageConfig) (*S3Storage, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("storage: bucket requerido")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, errors.New("storage: credenciales S3 requeridas")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("storage: aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return &S3Storage{client: client, bucket: cfg.Bucket, publicURL: s3PublicURL(cfg, region)}, nil
}

// s3PublicURL base pública de los objetos: STORAGE_PUBLIC_URL si es absoluta, si no la del endpoint.
func s3PublicURL(cfg config.StorageConfig, region string) string {
	if strings.HasPrefix(cfg.PublicBaseURL, "http://") || strings.HasPrefix(cfg.PublicBaseURL, "https://") {
		return cfg.PublicBaseURL
	}
	if cfg.Endpoint != "" {
		return joinURL(cfg.Endpoint, cfg.Bucket)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, region)
}

func (s *S3Storage) Exists(ctx context.Context, key string) (bool, error) {
	k, err := cleanKey(key)
	if err != nil {
		return false, err
	}
	_, err = s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(k),
	})
	if err != nil {
		var notFound *types.NotFound
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &notFound) || errors.As(err, &noSuchKey) {
			return false, nil
		}
		return false, fmt.Errorf("storage: head %s: %w", k, err)
	}
	return true, nil
}

func (s *S3Storage) MakeDir(context.Context, string) error { return nil }

func (s *S3Storage) Put(ctx context.Context, key string, content []byte, contentType string) error {
	k, err := cleanKey(key)
	if err != nil {
		return err
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(k),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("storage: put %s: %w", k, err)
	}
	return nil
}

func (s *S3Storage) Delete(ctx context.Context, key string) error {
	k, err := cleanKey(key)
	if err != nil {
		return err
	}
	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(k),
	})
	if err != nil {
		return fmt.Errorf("storage: delete %s: %w", k, err)
	}
	return nil
}

func (s *S3Storage) URL(key string) string {
	return joinURL(s.publicURL, key)
}
