// Package publish uploads run artifacts to S3.
package publish

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// S3Client interface for S3 operations (allows mocking in tests)
type S3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Publisher uploads artifact files under <prefix>/<run_id>/.
type Publisher struct {
	s3     S3Client
	bucket string
	prefix string
	log    zerolog.Logger
}

// New returns a Publisher. bucket must be non-empty.
func New(client S3Client, bucket, prefix string, log zerolog.Logger) (*Publisher, error) {
	if client == nil || strings.TrimSpace(bucket) == "" {
		return nil, fmt.Errorf("publish: s3 client and bucket are required")
	}
	return &Publisher{
		s3:     client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		log:    log,
	}, nil
}

// NewS3Client builds an S3 client from the default AWS credential chain.
func NewS3Client(ctx context.Context, region string) (*s3.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return s3.NewFromConfig(cfg), nil
}

// Key returns the object key for a local artifact file.
func (p *Publisher) Key(runID, file string) string {
	return path.Join(p.prefix, runID, filepath.Base(file))
}

// Upload puts each file and returns the keys written, in input order.
func (p *Publisher) Upload(ctx context.Context, runID string, files []string) ([]string, error) {
	keys := make([]string, 0, len(files))
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return keys, fmt.Errorf("publish: read %s: %w", file, err)
		}
		key := p.Key(runID, file)
		_, err = p.s3.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(p.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(data),
			ContentType: aws.String(contentType(file)),
			Metadata: map[string]string{
				"run_id": runID,
				"source": "clinicprep",
			},
		})
		if err != nil {
			return keys, fmt.Errorf("publish: s3 upload %s failed: %w", key, err)
		}
		p.log.Info().
			Str("bucket", p.bucket).
			Str("key", key).
			Int("bytes", len(data)).
			Msg("artifact published")
		keys = append(keys, key)
	}
	return keys, nil
}

func contentType(file string) string {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".jsonl":
		return "application/x-ndjson"
	case ".json":
		return "application/json"
	default:
		return "application/octet-stream"
	}
}
