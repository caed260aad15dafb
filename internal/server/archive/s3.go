// Package archive mirrors login attempts into S3-compatible object storage so
// the audit trail survives independently of the database.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/authservice/internal/server/models"
	"github.com/google/uuid"
)

// Options configure the S3 connection.
type Options struct {
	Bucket       string
	Region       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
}

// objectPutter is the part of *s3.Client the sink uses.
type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

var loadDefaultAWSConfig = config.LoadDefaultConfig

// S3Sink writes each attempt as one JSON object.
type S3Sink struct {
	client objectPutter
	bucket string
	newID  func() string
}

func NewS3Sink(ctx context.Context, o Options) (*S3Sink, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(o.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(o.AccessKey, o.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(so *s3.Options) {
		if o.BaseEndpoint != "" {
			so.BaseEndpoint = aws.String(o.BaseEndpoint)
			// MinIO and most self-hosted S3 servers need path-style addressing.
			so.UsePathStyle = true
		}
	})

	return newS3Sink(client, o.Bucket), nil
}

func newS3Sink(client objectPutter, bucket string) *S3Sink {
	return &S3Sink{client: client, bucket: bucket, newID: uuid.NewString}
}

func (s *S3Sink) Name() string { return "s3_archive" }

func (s *S3Sink) Write(ctx context.Context, attempt *models.LoginAttempt) error {
	body, err := json.Marshal(attempt)
	if err != nil {
		return err
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.objectKey(attempt)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("s3 put: %w", err)
	}
	return nil
}

// objectKey lays attempts out by UTC day and login so a single login's
// history can be listed with one prefix query.
func (s *S3Sink) objectKey(a *models.LoginAttempt) string {
	at := a.OccurredAt.UTC()
	return fmt.Sprintf("login-attempts/%04d/%02d/%02d/%s/%d-%s.json",
		at.Year(), at.Month(), at.Day(),
		url.PathEscape(a.LoginNormalized),
		at.UnixNano(), s.newID())
}
