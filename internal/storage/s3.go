package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const defaultPresignTTL = 15 * time.Minute

// S3Service serves posters and catalog files from Amazon S3 (or compatible APIs).
type S3Service struct {
	client     *s3.Client
	presigner  *s3.PresignClient
	downloader *manager.Downloader
	ttl        time.Duration
}

func NewS3Service(client *s3.Client, presignTTL time.Duration) *S3Service {
	if presignTTL <= 0 {
		presignTTL = defaultPresignTTL
	}
	return &S3Service{
		client:     client,
		presigner:  s3.NewPresignClient(client),
		downloader: manager.NewDownloader(client),
		ttl:        presignTTL,
	}
}

// NewFromOptions loads the AWS configuration chain and builds an S3Service.
func NewFromOptions(ctx context.Context, opts Options) (*S3Service, error) {
	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(opts.Region),
	}
	if opts.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(opts.Profile))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3Service(client, opts.PresignTTL), nil
}

func (s *S3Service) PresignURL(ctx context.Context, location string) (string, error) {
	loc, err := ParseLocation(location)
	if err != nil {
		return "", err
	}
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(loc.Bucket),
		Key:    aws.String(loc.Key),
	}, s3.WithPresignExpires(s.ttl))
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", loc, err)
	}
	return req.URL, nil
}

func (s *S3Service) Download(ctx context.Context, location string) ([]byte, error) {
	loc, err := ParseLocation(location)
	if err != nil {
		return nil, err
	}
	buf := manager.NewWriteAtBuffer(nil)
	if _, err := s.downloader.Download(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(loc.Bucket),
		Key:    aws.String(loc.Key),
	}); err != nil {
		return nil, fmt.Errorf("download %s: %w", loc, err)
	}
	return buf.Bytes(), nil
}

var _ Service = (*S3Service)(nil)
