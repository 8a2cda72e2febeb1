package receipt

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type S3API interface {
	manager.UploadAPIClient
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type S3Store struct {
	Client   S3API
	Uploader *manager.Uploader
	Bucket   string
	Prefix   string
}

func NewS3Store(client S3API, bucket, prefix string) *S3Store {
	return &S3Store{
		Client:   client,
		Uploader: manager.NewUploader(client),
		Bucket:   bucket,
		Prefix:   strings.Trim(prefix, "/"),
	}
}

// NewS3StoreFromEnv uses the default AWS credential chain.
func NewS3StoreFromEnv(ctx context.Context, bucket, prefix string) (*S3Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewS3Store(s3.NewFromConfig(cfg), bucket, prefix), nil
}

func (s *S3Store) key(name string) string {
	if s.Prefix == "" {
		return name
	}
	return path.Join(s.Prefix, name)
}

func (s *S3Store) location(key string) string {
	return "s3://" + s.Bucket + "/" + key
}

func (s *S3Store) keyFrom(location string) (string, error) {
	prefix := "s3://" + s.Bucket + "/"
	if !strings.HasPrefix(location, prefix) {
		return "", fmt.Errorf("location %q is not in bucket %s", location, s.Bucket)
	}
	return strings.TrimPrefix(location, prefix), nil
}

func (s *S3Store) Save(ctx context.Context, name string, data []byte) (string, error) {
	key := s.key(name)
	_, err := s.Uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/pdf"),
	})
	if err != nil {
		return "", fmt.Errorf("upload receipt: %w", err)
	}
	return s.location(key), nil
}

func (s *S3Store) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	key, err := s.keyFrom(location)
	if err != nil {
		return nil, err
	}
	out, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get receipt: %w", err)
	}
	return out.Body, nil
}

func (s *S3Store) Delete(ctx context.Context, location string) error {
	key, err := s.keyFrom(location)
	if err != nil {
		return err
	}
	_, err = s.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	})
	return err
}
