package archive

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/authservice/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	in   *s3.PutObjectInput
	body []byte
	err  error
}

func (f *fakePutter) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	b, _ := io.ReadAll(in.Body)
	f.body = b
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestS3Sink_WritesJSONObject(t *testing.T) {
	p := &fakePutter{}
	s := newS3Sink(p, "audit")
	s.newID = func() string { return "fixed" }

	at := time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)
	err := s.Write(context.Background(), &models.LoginAttempt{
		ID: 7, Login: "Jo Doe", LoginNormalized: "JO DOE", Success: true, RemoteIP: "10.1.1.1", OccurredAt: at,
	})
	require.NoError(t, err)

	assert.Equal(t, "audit", aws.ToString(p.in.Bucket))
	assert.Equal(t, "login-attempts/2024/03/09/JO%20DOE/1709978400000000000-fixed.json", aws.ToString(p.in.Key))
	assert.Equal(t, "application/json", aws.ToString(p.in.ContentType))

	var got models.LoginAttempt
	require.NoError(t, json.Unmarshal(p.body, &got))
	assert.Equal(t, "Jo Doe", got.Login)
	assert.True(t, got.Success)
	assert.Equal(t, "10.1.1.1", got.RemoteIP)
	assert.Empty(t, got.UserAgent)
}

func TestS3Sink_PutError(t *testing.T) {
	s := newS3Sink(&fakePutter{err: errors.New("bucket missing")}, "audit")

	err := s.Write(context.Background(), &models.LoginAttempt{Login: "a", LoginNormalized: "A"})
	assert.ErrorContains(t, err, "s3 put: bucket missing")
	assert.Equal(t, "s3_archive", s.Name())
}

func TestNewS3Sink_ConfigError(t *testing.T) {
	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no region")
	}

	_, err := NewS3Sink(context.Background(), Options{Bucket: "b"})
	assert.ErrorContains(t, err, "aws config: no region")
}

func TestNewS3Sink_BuildsClient(t *testing.T) {
	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })

	var lo awsconfig.LoadOptions
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		return aws.Config{Region: lo.Region}, nil
	}

	s, err := NewS3Sink(context.Background(), Options{
		Bucket: "b", Region: "us-east-1", BaseEndpoint: "http://127.0.0.1:9000", AccessKey: "k", SecretKey: "s",
	})
	require.NoError(t, err)
	assert.Equal(t, "us-east-1", lo.Region)
	assert.NotNil(t, lo.Credentials)
	assert.IsType(t, &s3.Client{}, s.client)
}
