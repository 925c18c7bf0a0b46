package storage

import (
	a "bitwise74/files-manager/aws"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

const minMultipartSize = 12 << 20

type s3API interface {
	manager.UploadAPIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3 keeps content as objects of one bucket. References are object keys.
type S3 struct {
	api    s3API
	bucket *string
	prefix string
}

func NewS3(c *a.S3Client, prefix string) *S3 {
	return &S3{
		api:    c.C,
		bucket: c.Bucket,
		prefix: strings.Trim(prefix, "/"),
	}
}

func (s *S3) Root() string {
	return s.prefix
}

// MkdirAll is a no-op, object stores have no directories
func (s *S3) MkdirAll(context.Context, string) error {
	return nil
}

func (s *S3) WriteFile(ctx context.Context, ref string, data []byte) error {
	input := &s3.PutObjectInput{
		Bucket:        s.bucket,
		Key:           aws.String(ref),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	}

	var err error
	if len(data) > minMultipartSize {
		uploader := manager.NewUploader(s.api, func(u *manager.Uploader) {
			u.Concurrency = 5
			u.PartSize = 6 << 20
		})
		_, err = uploader.Upload(ctx, input)
	} else {
		_, err = s.api.PutObject(ctx, input)
	}
	if err != nil {
		return fmt.Errorf("failed to upload %s to s3, %w", ref, err)
	}

	return nil
}

func (s *S3) ReadFile(ctx context.Context, ref string) ([]byte, error) {
	out, err := s.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: s.bucket,
		Key:    aws.String(ref),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, ErrNotFound
		}

		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NotFound" {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("failed to fetch %s from s3, %w", ref, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s from s3, %w", ref, err)
	}

	return data, nil
}
