package ingest

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/hyperjump/kondate/internal/models"
)

// S3API is the subset of the S3 client used to fetch corpus objects.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source fetches corpus files from S3.
type S3Source struct {
	client S3API
	parser *Parser
}

// NewS3Source returns a source reading objects through client.
func NewS3Source(client S3API, parser *Parser) *S3Source {
	if parser == nil {
		parser = NewParser()
	}
	return &S3Source{client: client, parser: parser}
}

// IsS3URI reports whether uri has the s3:// scheme.
func IsS3URI(uri string) bool {
	return strings.HasPrefix(uri, "s3://")
}

// ParseS3URI splits s3://bucket/key into bucket and key.
func ParseS3URI(uri string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(uri, "s3://")
	if !ok {
		return "", "", fmt.Errorf("not an s3 URI: %q", uri)
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("s3 URI needs a bucket and a key: %q", uri)
	}
	return bucket, key, nil
}

// Fetch downloads the object at uri and parses it by the key's extension.
func (s *S3Source) Fetch(ctx context.Context, uri string) ([]*models.FoodInput, error) {
	bucket, key, err := ParseS3URI(uri)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get corpus object from S3: %w", err)
	}
	defer resp.Body.Close()
	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus object: %w", err)
	}
	return s.parser.Parse(content, strings.ToLower(path.Ext(key)))
}
