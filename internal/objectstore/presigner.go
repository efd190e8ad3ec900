// Package objectstore wraps the S3 presigning flow: the service hands out
// short-lived PUT URLs and deterministic retrieval URLs; clients move the
// bytes themselves.
package objectstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	sc "github.com/HuongLanTo/miu-cloud-computing-final-project/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Indirections over the SDK entry points, swappable in tests.
var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
)

type Presigner struct {
	bucket       string
	region       string
	baseEndpoint string
	rootUser     string
	rootPassword string
	validity     time.Duration
}

func NewPresigner(cfg *sc.Config) *Presigner {
	return &Presigner{
		bucket:       cfg.S3Bucket,
		region:       cfg.S3Region,
		baseEndpoint: cfg.S3BaseEndpoint,
		rootUser:     cfg.S3RootUser,
		rootPassword: cfg.S3RootPassword,
		validity:     cfg.UploadURLValidityDuration,
	}
}

func (p *Presigner) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(p.region),
	}
	if p.rootUser != "" {
		// MinIO-style static credentials; the default chain otherwise.
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(p.rootUser, p.rootPassword, "")))
	}

	cfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if p.baseEndpoint != "" {
			o.BaseEndpoint = aws.String(p.baseEndpoint)
			o.UsePathStyle = true
		}
	})

	return newS3PresignClient(client), nil
}

// PresignPut returns a URL authorizing a single direct PUT of the named
// object, valid for the configured window.
func (p *Presigner) PresignPut(ctx context.Context, key string, contentType string) (string, error) {

	presignClient, err := p.getPresignClient(ctx)
	if err != nil {
		return "", err
	}

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(p.validity))

	if err != nil {
		return "", err
	}

	return req.URL, nil
}

// ObjectURL derives the public retrieval URL for a key without talking to
// the store: virtual-hosted AWS form by default, path-style under a custom
// base endpoint.
func (p *Presigner) ObjectURL(key string) string {
	if p.baseEndpoint == "" {
		return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", p.bucket, key)
	}
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(p.baseEndpoint, "/"), p.bucket, key)
}
