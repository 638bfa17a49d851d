package artifacts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"kokorotts/pkg/s3client"
)

type objectClient interface {
	PutObject(ctx context.Context, bucket string, objectName string, reader io.Reader, size int64, contentType string) error
	GetObject(ctx context.Context, bucket string, objectName string) (io.ReadCloser, error)
	RemoveObject(ctx context.Context, bucket string, objectName string) error
}

// S3Store keeps artifacts as objects in one bucket. Encoding happens in a
// local scratch file first, the object becomes visible only once the upload completes.
type S3Store struct {
	client     objectClient
	bucket     string
	scratchDir string
}

func NewS3Store(client *s3client.Client, bucket, scratchDir string) (*S3Store, error) {
	return newS3Store(client, bucket, scratchDir)
}

func newS3Store(client objectClient, bucket, scratchDir string) (*S3Store, error) {
	if bucket == "" {
		return nil, errors.New("empty s3 bucket")
	}

	if scratchDir != "" {
		if err := os.MkdirAll(scratchDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create scratch dir: %w", err)
		}
	}

	return &S3Store{
		client:     client,
		bucket:     bucket,
		scratchDir: scratchDir,
	}, nil
}

func (s *S3Store) Put(ctx context.Context, name string, encode EncodeFunc) (Location, int64, error) {
	f, err := os.CreateTemp(s.scratchDir, name+".*"+tmpSuffix)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create scratch file: %w", err)
	}
	defer func() {
		_ = f.Close()
		_ = os.Remove(f.Name())
	}()

	if err := encode(f); err != nil {
		return "", 0, err
	}

	size, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return "", 0, fmt.Errorf("failed to measure scratch file: %w", err)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", 0, fmt.Errorf("failed to rewind scratch file: %w", err)
	}

	if err := s.client.PutObject(ctx, s.bucket, name, f, size, ContentType); err != nil {
		return "", 0, fmt.Errorf("failed to upload object: %w", err)
	}

	return Location(name), size, nil
}

func (s *S3Store) Open(ctx context.Context, loc Location) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, string(loc))
	if err != nil {
		if s3client.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, loc)
		}

		return nil, err
	}

	return obj, nil
}

func (s *S3Store) Delete(ctx context.Context, loc Location) error {
	if err := s.client.RemoveObject(ctx, s.bucket, string(loc)); err != nil {
		if s3client.IsNotFound(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, loc)
		}

		return err
	}

	return nil
}
