package media

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

type S3Config struct {
	Endpoint  string // base endpoint, also works with MinIO
	PublicURL string // public base URL the bucket is served from
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	Prefix    string // key prefix, e.g. "yotube"
}

type S3Uploader struct {
	client    *s3.Client
	bucket    string
	prefix    string
	publicURL string
}

func NewS3Uploader(ctx context.Context, cfg S3Config) (*S3Uploader, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("error loading s3 config. Err: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	publicURL := cfg.PublicURL
	if publicURL == "" {
		publicURL = strings.TrimSuffix(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}

	return &S3Uploader{
		client:    client,
		bucket:    cfg.Bucket,
		prefix:    cfg.Prefix,
		publicURL: strings.TrimSuffix(publicURL, "/"),
	}, nil
}

func (u *S3Uploader) Upload(ctx context.Context, r io.Reader, filename string, contentType string) (Object, error) {
	key := u.objectKey(filename)

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return Object{}, fmt.Errorf("error uploading object %q. Err: %w", key, err)
	}

	return Object{
		URL:    u.publicURL + "/" + key,
		FileID: key,
	}, nil
}

func (u *S3Uploader) Delete(ctx context.Context, fileID string) error {
	if fileID == "" {
		return nil
	}

	_, err := u.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(fileID),
	})
	if err != nil {
		return fmt.Errorf("error deleting object %q. Err: %w", fileID, err)
	}
	return nil
}

// objectKey builds a unique storage key keeping the original extension
func (u *S3Uploader) objectKey(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	key := uuid.NewString() + ext
	if u.prefix != "" {
		key = u.prefix + "/" + key
	}
	return key
}
