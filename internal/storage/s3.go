package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"submission_service/internal/errdefs"
)

// S3Store keeps submission files in one bucket of an S3-compatible backend.
type S3Store struct {
	client *s3.Client
	bucket *string
}

func NewS3Store(ctx context.Context, client *s3.Client, bucket string) (*S3Store, error) {
	s := &S3Store{client: client, bucket: aws.String(bucket)}
	if err := s.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("%w: create bucket %s: %v", errdefs.ErrIO, bucket, err)
	}
	return s, nil
}

func (s *S3Store) ensureBucket(ctx context.Context) error {
	_, err := s.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: s.bucket})
	if err != nil {
		var respErr *awshttp.ResponseError
		if errors.As(err, &respErr) && respErr.HTTPStatusCode() == 409 {
			return nil
		}
	}
	return err
}

func (s *S3Store) Put(ctx context.Context, desiredName, contentType string, content io.Reader) (string, error) {
	if desiredName == "" {
		return "", fmt.Errorf("%w: empty file name", errdefs.ErrValidation)
	}

	// PutObject does not rewind the body, so buffer once and retry from the
	// buffer when the name is taken.
	data, err := io.ReadAll(content)
	if err != nil {
		return "", fmt.Errorf("%w: read upload: %v", errdefs.ErrIO, err)
	}

	for attempt := 0; attempt < maxPutAttempts; attempt++ {
		name := desiredName
		switch {
		case attempt == 1:
			name = timestampName(desiredName, time.Now().Format(timestampLayout))
		case attempt > 1:
			name = timestampName(desiredName, strconv.FormatInt(time.Now().UnixNano(), 10))
		}

		_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      s.bucket,
			Key:         aws.String(name),
			Body:        bytes.NewReader(data),
			ContentType: aws.String(contentType),
			// Conditional write: fails with 412 when the key already exists,
			// which closes the check-then-write race on the backend side.
			IfNoneMatch: aws.String("*"),
		})
		if err == nil {
			return name, nil
		}

		var respErr *awshttp.ResponseError
		if errors.As(err, &respErr) && respErr.HTTPStatusCode() == 412 {
			continue
		}
		return "", fmt.Errorf("%w: put %s: %v", errdefs.ErrIO, name, err)
	}

	return "", fmt.Errorf("%w: no free name derived from %s", errdefs.ErrIO, desiredName)
}

func (s *S3Store) Get(ctx context.Context, name string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: s.bucket,
		Key:    aws.String(name),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, fmt.Errorf("%w: file %s", errdefs.ErrNotFound, name)
		}
		return nil, fmt.Errorf("%w: get %s: %v", errdefs.ErrIO, name, err)
	}
	defer func() { _ = out.Body.Close() }()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", errdefs.ErrIO, name, err)
	}
	return data, nil
}

func (s *S3Store) Delete(ctx context.Context, name string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: s.bucket,
		Key:    aws.String(name),
	})
	if err != nil {
		return fmt.Errorf("%w: delete %s: %v", errdefs.ErrIO, name, err)
	}
	return nil
}
