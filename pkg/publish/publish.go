// Package publish uploads compiled route manifests to S3.
//
// Each manifest is stored twice: under a content-addressed key derived
// from the SHA-256 of the encoded manifest, and under a stable alias
// key that always points at the latest version.
package publish

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/flatroutes-dev/flatroutes/internal/errors"
	"github.com/flatroutes-dev/flatroutes/pkg/flatroutes"
)

// AliasName is the stable object name for the latest manifest.
const AliasName = "manifest.json"

// ObjectPutter is the subset of the S3 client the store needs.
// *s3.Client satisfies it.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Result describes a completed publish.
type Result struct {
	// Key is the content-addressed object key.
	Key string `json:"key"`

	// AliasKey is the stable alias object key.
	AliasKey string `json:"aliasKey"`

	// Checksum is the hex SHA-256 of the manifest body.
	Checksum string `json:"checksum"`

	// Size is the manifest body size in bytes.
	Size int `json:"size"`
}

// Store publishes manifests to one bucket under a key prefix.
type Store struct {
	client ObjectPutter
	bucket string
	prefix string
}

// NewStore creates a manifest store.
func NewStore(client ObjectPutter, bucket, prefix string) *Store {
	return &Store{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

// Publish encodes the manifest and uploads it under both keys.
func (s *Store) Publish(ctx context.Context, manifest flatroutes.RouteManifest) (*Result, error) {
	if s.bucket == "" {
		return nil, errors.New("E141")
	}

	body, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, errors.New("E140").Wrap(err)
	}
	body = append(body, '\n')

	sum := sha256.Sum256(body)
	checksum := hex.EncodeToString(sum[:])

	result := &Result{
		Key:      path.Join(s.prefix, checksum[:16]+".json"),
		AliasKey: path.Join(s.prefix, AliasName),
		Checksum: checksum,
		Size:     len(body),
	}

	for _, key := range []string{result.Key, result.AliasKey} {
		_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(s.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(body),
			ContentType: aws.String("application/json"),
			Metadata: map[string]string{
				"manifest-checksum": checksum,
			},
		})
		if err != nil {
			return nil, errors.New("E140").
				WithDetail("Failed to upload " + key + " to bucket " + s.bucket).
				Wrap(err)
		}
	}

	return result, nil
}
