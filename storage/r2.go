package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dlsystem/blogbackend/config"
)

// R2Store writes content to a Cloudflare R2 bucket through the S3 API.
type R2Store struct {
	S3           *s3.Client
	Bucket       string
	PublicDomain string
}

func NewR2Store(ctx context.Context, cfg config.R2Config) (*R2Store, error) {
	if cfg.Bucket == "" || cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" || cfg.Endpoint == "" {
		return nil, fmt.Errorf("missing R2 env vars (R2_BUCKET, R2_ACCESS_KEY_ID, R2_SECRET_ACCESS_KEY, R2_ENDPOINT)")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("r2 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true // required for R2
	})

	return &R2Store{S3: client, Bucket: cfg.Bucket, PublicDomain: cfg.PublicDomain}, nil
}

func (s *R2Store) Put(ctx context.Context, objectName string, body io.Reader, contentType string) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := s.S3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.Bucket),
		Key:          aws.String(objectName),
		Body:         body,
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("no-cache"),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", objectName, err)
	}
	return s.publicURL(objectName), nil
}

func (s *R2Store) Delete(ctx context.Context, ref string) error {
	objectName, err := s.objectName(ref)
	if err != nil {
		return err
	}
	_, err = s.S3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(objectName),
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", objectName, err)
	}
	return nil
}

// publicURL returns the object name itself when no public domain is set.
func (s *R2Store) publicURL(objectName string) string {
	if s.PublicDomain == "" {
		return objectName
	}
	return fmt.Sprintf("%s/%s/%s", s.PublicDomain, s.Bucket, objectName)
}

func (s *R2Store) objectName(ref string) (string, error) {
	if s.PublicDomain != "" && strings.HasPrefix(ref, s.PublicDomain+"/"+s.Bucket+"/") {
		return strings.TrimPrefix(ref, s.PublicDomain+"/"+s.Bucket+"/"), nil
	}
	for _, prefix := range []string{"https://", "http://"} {
		if strings.HasPrefix(ref, prefix) {
			withoutScheme := strings.TrimPrefix(ref, prefix)
			slash := strings.Index(withoutScheme, "/")
			if slash == -1 {
				return "", fmt.Errorf("no object path in url")
			}
			return withoutScheme[slash+1:], nil
		}
	}
	if ref == "" {
		return "", ErrObjectNotFound
	}
	return ref, nil
}
