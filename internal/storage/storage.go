package storage

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Location addresses an object as s3://bucket/key.
type Location struct {
	Bucket string
	Key    string
}

func (l Location) String() string {
	return fmt.Sprintf("s3://%s/%s", l.Bucket, l.Key)
}

// IsLocation reports whether s looks like an s3:// object location.
func IsLocation(s string) bool {
	return strings.HasPrefix(s, "s3://")
}

// ParseLocation splits an s3://bucket/key location.
func ParseLocation(location string) (Location, error) {
	if !IsLocation(location) {
		return Location{}, fmt.Errorf("invalid s3 location %q", location)
	}
	rest := strings.TrimPrefix(location, "s3://")
	parts := strings.SplitN(rest, "/", 2)
	if parts[0] == "" {
		return Location{}, fmt.Errorf("s3 bucket missing in %q", location)
	}
	if len(parts) == 1 || strings.Trim(parts[1], "/") == "" {
		return Location{}, fmt.Errorf("s3 key missing in %q", location)
	}
	return Location{Bucket: parts[0], Key: strings.TrimPrefix(parts[1], "/")}, nil
}

// Options configures the S3 client.
type Options struct {
	Region     string
	Endpoint   string
	Profile    string
	PresignTTL time.Duration
}

// Service reads catalog assets from remote object storage.
type Service interface {
	PresignURL(ctx context.Context, location string) (string, error)
	Download(ctx context.Context, location string) ([]byte, error)
}
