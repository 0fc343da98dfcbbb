package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"image-service/internal/config"
	apperrors "image-service/pkg/errors"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

const (
	emptyAWSSessionToken         = ""
	errFailedCreateAWSSessionFmt = "failed to create AWS session: %w"
	errFailedHeadObjectFmt       = "failed to head object: %w"
	errFailedGetObjectFmt        = "failed to get object: %w"
	errFailedReadObjectBodyFmt   = "failed to read object body: %w"
	errFailedPutObjectFmt        = "failed to put object: %w"
	errFailedDeleteObjectFmt     = "failed to delete object: %w"
)

// Store is the S3-backed blob store. One bucket holds originals and
// thumbnails; keys carry the same layout the disk store uses as paths.
type Store struct {
	svc    *s3.S3
	bucket string
}

func New(cfg *config.AWSConfig, bucket string) (*Store, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			emptyAWSSessionToken,
		),
	})
	if err != nil {
		return nil, fmt.Errorf(errFailedCreateAWSSessionFmt, err)
	}

	return &Store{svc: s3.New(sess), bucket: bucket}, nil
}

func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.svc.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf(errFailedHeadObjectFmt, err)
	}
	return true, nil
}

func (s *Store) Read(ctx context.Context, key string) ([]byte, error) {
	out, err := s.svc.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NotFound(key)
		}
		return nil, fmt.Errorf(errFailedGetObjectFmt, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf(errFailedReadObjectBodyFmt, err)
	}
	return data, nil
}

func (s *Store) Write(ctx context.Context, key string, data []byte) error {
	_, err := s.svc.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf(errFailedPutObjectFmt, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.svc.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf(errFailedDeleteObjectFmt, err)
	}
	return nil
}

func isNotFound(err error) bool {
	var aerr awserr.Error
	if errors.As(err, &aerr) {
		code := aerr.Code()
		return code == s3.ErrCodeNoSuchKey || code == "NotFound"
	}
	return false
}
