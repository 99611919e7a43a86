package storage

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func TestParseLocation(t *testing.T) {
	tests := []struct {
		in      string
		want    Location
		wantErr bool
	}{
		{in: "s3://posters/inception.jpg", want: Location{Bucket: "posters", Key: "inception.jpg"}},
		{in: "s3://posters/2010/inception.jpg", want: Location{Bucket: "posters", Key: "2010/inception.jpg"}},
		{in: "s3://posters//inception.jpg", want: Location{Bucket: "posters", Key: "inception.jpg"}},
		{in: "https://posters/inception.jpg", wantErr: true},
		{in: "s3:///inception.jpg", wantErr: true},
		{in: "s3://posters", wantErr: true},
		{in: "s3://posters/", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLocation(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLocation(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLocation(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}

	if s := (Location{Bucket: "b", Key: "k/x"}).String(); s != "s3://b/k/x" {
		t.Errorf("String() = %q", s)
	}
}

func TestPresignURL(t *testing.T) {
	client := s3.New(s3.Options{
		Region:       "us-east-1",
		BaseEndpoint: aws.String("http://localhost:9000"),
		UsePathStyle: true,
		Credentials: aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
			return aws.Credentials{AccessKeyID: "AKID", SecretAccessKey: "SECRET"}, nil
		}),
	})
	svc := NewS3Service(client, 10*time.Minute)

	signed, err := svc.PresignURL(context.Background(), "s3://posters/inception.jpg")
	if err != nil {
		t.Fatalf("PresignURL() error = %v", err)
	}
	u, err := url.Parse(signed)
	if err != nil {
		t.Fatalf("parse %q: %v", signed, err)
	}
	if u.Host != "localhost:9000" || u.Path != "/posters/inception.jpg" {
		t.Errorf("signed url = %s", signed)
	}
	if got := u.Query().Get("X-Amz-Expires"); got != "600" {
		t.Errorf("X-Amz-Expires = %q, want 600", got)
	}
	if !strings.Contains(u.Query().Get("X-Amz-Credential"), "AKID") {
		t.Errorf("credential missing from %s", signed)
	}

	if _, err := svc.PresignURL(context.Background(), "https://example.com/x.jpg"); err == nil {
		t.Error("PresignURL() accepted a non-s3 location")
	}
}
