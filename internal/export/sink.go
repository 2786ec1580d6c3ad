// Package export renders shopping lists to CSV and stores them in S3 or a
// local directory.
package export

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dukerupert/mealwise/internal/config"
)

// Sink stores an exported document and returns where it ended up.
type Sink interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Name() string
}

// NewSink builds the sink selected by cfg.
func NewSink(cfg config.ExportConfig) (Sink, error) {
	switch cfg.Sink {
	case config.SinkS3:
		return NewS3Sink(newS3Client(cfg), cfg.S3Bucket, cfg.S3Prefix), nil
	case config.SinkFile, "":
		return NewFileSink(cfg.Dir), nil
	}
	return nil, fmt.Errorf("unknown export sink %q", cfg.Sink)
}

// s3Client is an interface for testability.
type s3Client interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

func newS3Client(cfg config.ExportConfig) *s3.Client {
	opts := s3.Options{
		Region:       cfg.S3Region,
		UsePathStyle: cfg.S3Endpoint != "",
	}
	if cfg.S3AccessKey != "" {
		opts.Credentials = credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")
	}
	if cfg.S3Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.S3Endpoint)
	}
	return s3.New(opts)
}

type S3Sink struct {
	client s3Client
	bucket string
	prefix string
}

func NewS3Sink(client s3Client, bucket, prefix string) *S3Sink {
	return &S3Sink{client: client, bucket: bucket, prefix: prefix}
}

func (s *S3Sink) Name() string { return config.SinkS3 }

func (s *S3Sink) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	objectKey := path.Join(s.prefix, key)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(objectKey),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("put s3 object %s: %w", objectKey, err)
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, objectKey), nil
}

type FileSink struct {
	dir string
}

func NewFileSink(dir string) *FileSink {
	return &FileSink{dir: dir}
}

func (s *FileSink) Name() string { return config.SinkFile }

func (s *FileSink) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	dst := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	tmp := dst + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("rename export: %w", err)
	}

	abs, err := filepath.Abs(dst)
	if err != nil {
		abs = dst
	}
	return "file://" + filepath.ToSlash(abs), nil
}
