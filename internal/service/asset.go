package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/recipegram/backend/config"
)

// s3API is the subset of the S3 client the asset store uses
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3AssetStore stores image binaries in S3. Objects are keyed
// "<folder>/<uuid>" with no file extension so that the key derived back from
// a stored URL during delete matches the stored object exactly.
type S3AssetStore struct {
	client s3API
	cfg    *config.S3Config
}

// NewS3AssetStore creates a new S3AssetStore instance
func NewS3AssetStore(cfg *config.S3Config) *S3AssetStore {
	return &S3AssetStore{
		client: cfg.Client,
		cfg:    cfg,
	}
}

// Upload decodes a base64 image data URL and stores it under the given folder
func (s *S3AssetStore) Upload(ctx context.Context, dataURL, folder string) (*AssetRef, error) {
	contentType, data, err := decodeImageDataURL(dataURL)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s/%s", folder, uuid.New().String())

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	url := s.cfg.ObjectURL(key)
	log.Printf("[AssetStore] Uploaded image to %s", url)

	return &AssetRef{URL: url, ID: key}, nil
}

// Destroy removes a stored object. Delete flows treat failures here as
// non-fatal; the record is the source of truth.
func (s *S3AssetStore) Destroy(ctx context.Context, id string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.BucketName),
		Key:    aws.String(id),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}
	return nil
}

// Hosts reports whether the URL points at this store's public host
func (s *S3AssetStore) Hosts(url string) bool {
	return strings.Contains(url, s.cfg.PublicHost)
}

// decodeImageDataURL splits "data:image/<fmt>;base64,<payload>" into its
// content type and decoded bytes
func decodeImageDataURL(dataURL string) (string, []byte, error) {
	if !strings.HasPrefix(dataURL, "data:image/") {
		return "", nil, fmt.Errorf("not an image data URL")
	}

	header, payload, ok := strings.Cut(dataURL, ",")
	if !ok {
		return "", nil, fmt.Errorf("malformed data URL: missing payload")
	}

	meta := strings.TrimPrefix(header, "data:")
	contentType, encoding, _ := strings.Cut(meta, ";")
	if encoding != "base64" {
		return "", nil, fmt.Errorf("malformed data URL: expected base64 encoding")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("malformed data URL: %w", err)
	}

	return contentType, data, nil
}

// DeriveAssetKey derives the storage key for an image URL during delete.
// It prefers the path segment after the "/<folder>/" marker, stripped of any
// query string and file extension, and falls back to the final path segment
// when the marker is absent. This is best-effort string parsing: unusual URL
// shapes may derive a key that matches nothing, which costs one orphaned
// object and never a failed delete.
func DeriveAssetKey(imageURL, folder string) string {
	marker := "/" + folder + "/"

	var id string
	if idx := strings.Index(imageURL, marker); idx >= 0 {
		id = imageURL[idx+len(marker):]
	} else {
		id = imageURL[strings.LastIndex(imageURL, "/")+1:]
	}

	id, _, _ = strings.Cut(id, "?")
	if dot := strings.LastIndex(id, "."); dot > strings.LastIndex(id, "/") && dot >= 0 {
		id = id[:dot]
	}

	return folder + "/" + id
}
