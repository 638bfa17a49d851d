package s3client

import (
	"context"
	"errors"
	"io"
	"sync"

	minio "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type Config struct {
	Endpoint        string `yaml:"endpoint" env:"ENDPOINT"`
	AccessKeyID     string `yaml:"access_key_id" env:"ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"secret_access_key" env:"SECRET_ACCESS_KEY"`
	UseSSL          bool   `yaml:"use_ssl" env:"USE_SSL"`
	Bucket          string `yaml:"bucket" env:"BUCKET"`
}

type Client struct {
	cfg            *Config
	minio          *minio.Client
	ensuredBuckets sync.Map
}

func New(cfg *Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("s3 endpoint is not configured")
	}

	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}

	c := &Client{
		cfg:   cfg,
		minio: mc,
	}

	return c, nil
}

// IsNotFound reports whether err means the object or bucket does not exist.
func IsNotFound(err error) bool {
	var resp minio.ErrorResponse
	if !errors.As(err, &resp) {
		return false
	}

	switch resp.Code {
	case "NoSuchKey", "NoSuchBucket":
		return true
	}

	return false
}

func (c *Client) EnsureBucket(ctx context.Context, bucket string) error {
	if _, ok := c.ensuredBuckets.Load(bucket); ok {
		return nil
	}

	exists, err := c.minio.BucketExists(ctx, bucket)
	if err != nil {
		return err
	}
	if !exists {
		if err := c.minio.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return err
		}
	}
	c.ensuredBuckets.Store(bucket, struct{}{})
	return nil
}

func (c *Client) PutObject(ctx context.Context, bucket string, objectName string, reader io.Reader, size int64, contentType string) error {
	if err := c.EnsureBucket(ctx, bucket); err != nil {
		return err
	}
	_, err := c.minio.PutObject(ctx, bucket, objectName, reader, size, minio.PutObjectOptions{ContentType: contentType})
	return err
}

// GetObject stats the object before returning it, minio defers missing key errors to the first read otherwise.
func (c *Client) GetObject(ctx context.Context, bucket string, objectName string) (io.ReadCloser, error) {
	obj, err := c.minio.GetObject(ctx, bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}

	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		return nil, err
	}

	return obj, nil
}

func (c *Client) RemoveObject(ctx context.Context, bucket string, objectName string) error {
	if _, err := c.minio.StatObject(ctx, bucket, objectName, minio.StatObjectOptions{}); err != nil {
		return err
	}

	return c.minio.RemoveObject(ctx, bucket, objectName, minio.RemoveObjectOptions{})
}
