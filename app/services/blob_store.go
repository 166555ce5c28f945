package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/amirphl/helper-registry/utils"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// BlobStore persists uploaded helper files and returns an opaque reference
type BlobStore interface {
	Save(ctx context.Context, category, filename, contentType string, size int64, body io.Reader) (string, error)
}

// objectKey builds <category>/<YYYY-MM-DD>/<uuid><ext>
func objectKey(category, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	dateDir := utils.UTCNowFormat("2006-01-02")
	return path.Join(category, dateDir, uuid.New().String()+ext)
}

// LocalBlobStore writes files under a base directory.
// References are the object key under publicPrefix, the path the files are
// served from; the directory itself never leaks into a reference.
type LocalBlobStore struct {
	baseDir      string
	publicPrefix string
}

// NewLocalBlobStore creates a disk backed blob store
func NewLocalBlobStore(baseDir, publicPrefix string) *LocalBlobStore {
	return &LocalBlobStore{baseDir: baseDir, publicPrefix: strings.TrimRight(publicPrefix, "/")}
}

func (s *LocalBlobStore) Save(ctx context.Context, category, filename, _ string, _ int64, body io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key := objectKey(category, filename)
	fullPath := filepath.Join(s.baseDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", err
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, body); err != nil {
		_ = os.Remove(fullPath)
		return "", err
	}

	return s.publicPrefix + "/" + key, nil
}

// S3BlobStore uploads files to an S3 compatible bucket
type S3BlobStore struct {
	client        *s3.Client
	bucket        string
	prefix        string
	publicBaseURL string
}

// S3BlobStoreOptions configures NewS3BlobStore
type S3BlobStoreOptions struct {
	Bucket        string
	Region        string
	Prefix        string
	Endpoint      string
	PublicBaseURL string
}

// NewS3BlobStore creates an S3 blob store using the default AWS credential chain
func NewS3BlobStore(ctx context.Context, opts S3BlobStoreOptions) (*S3BlobStore, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(opts.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3BlobStore{
		client:        client,
		bucket:        opts.Bucket,
		prefix:        strings.Trim(opts.Prefix, "/"),
		publicBaseURL: strings.TrimRight(opts.PublicBaseURL, "/"),
	}, nil
}

func (s *S3BlobStore) Save(ctx context.Context, category, filename, contentType string, size int64, body io.Reader) (string, error) {
	key := objectKey(category, filename)
	if s.prefix != "" {
		key = s.prefix + "/" + key
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if size > 0 {
		input.ContentLength = aws.Int64(size)
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("failed to upload %s to s3: %w", key, err)
	}

	if s.publicBaseURL != "" {
		return s.publicBaseURL + "/" + key, nil
	}
	return "s3://" + s.bucket + "/" + key, nil
}
