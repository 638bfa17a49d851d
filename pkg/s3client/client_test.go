package s3client_test

import (
	"errors"
	"fmt"
	"testing"

	"kokorotts/pkg/s3client"

	minio "github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
)

func TestIsNotFound(t *testing.T) {
	assert := assert.New(t)

	assert.True(s3client.IsNotFound(minio.ErrorResponse{Code: "NoSuchKey"}))
	assert.True(s3client.IsNotFound(minio.ErrorResponse{Code: "NoSuchBucket"}))
	assert.False(s3client.IsNotFound(minio.ErrorResponse{Code: "AccessDenied"}))
	assert.False(s3client.IsNotFound(errors.New("NoSuchKey")))
	assert.False(s3client.IsNotFound(nil))

	assert.True(s3client.IsNotFound(fmt.Errorf("get: %w", minio.ErrorResponse{Code: "NoSuchKey"})))
}

func TestNewRequiresEndpoint(t *testing.T) {
	_, err := s3client.New(&s3client.Config{})
	assert.Error(t, err)

	c, err := s3client.New(&s3client.Config{Endpoint: "localhost:9000", Bucket: "tts"})
	assert.NoError(t, err)
	assert.NotNil(t, c)
}
