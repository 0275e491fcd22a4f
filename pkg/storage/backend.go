// Package storage fetches world and layout data from local disk, S3 or an
// embedded file system.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
)

// ErrReadOnly is returned by Put on stores that cannot be written.
var ErrReadOnly = errors.New("store is read-only")

// BlobStore defines the interface for abstract storage backends.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	List(ctx context.Context, prefix string) ([]string, error)
}

// Location is a parsed data URI.
type Location struct {
	// Bucket is set for s3:// URIs.
	Bucket string
	// Key is the object key, or the file path for local URIs.
	Key string
}

// IsS3 reports whether the location names an S3 object.
func (l Location) IsS3() bool { return l.Bucket != "" }

func (l Location) String() string {
	if l.IsS3() {
		return "s3://" + l.Bucket + "/" + l.Key
	}
	return l.Key
}

// ParseURI splits "s3://bucket/key" or a plain file path.
func ParseURI(uri string) (Location, error) {
	if uri == "" {
		return Location{}, errors.New("empty data uri")
	}
	if !strings.HasPrefix(uri, "s3://") {
		return Location{Key: uri}, nil
	}
	target := strings.TrimPrefix(uri, "s3://")
	bucket, key, _ := strings.Cut(target, "/")
	if bucket == "" || key == "" || strings.HasSuffix(key, "/") {
		return Location{}, fmt.Errorf("malformed s3 uri %q: want s3://bucket/key", uri)
	}
	return Location{Bucket: bucket, Key: key}, nil
}

// Open returns a store able to serve loc and the key to read from it.
// S3 clients are built from the default AWS shared configuration.
func Open(ctx context.Context, loc Location) (BlobStore, string, error) {
	if !loc.IsS3() {
		dir, file := path.Split(toSlash(loc.Key))
		if dir == "" {
			dir = "."
		}
		return NewLocalStore(dir), file, nil
	}
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load aws config: %w", err)
	}
	return NewS3Store(cfg, loc.Bucket), loc.Key, nil
}

// Fetch reads the object named by uri.
func Fetch(ctx context.Context, uri string) ([]byte, error) {
	loc, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}
	store, key, err := Open(ctx, loc)
	if err != nil {
		return nil, err
	}
	data, err := store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", loc, err)
	}
	return data, nil
}

func toSlash(p string) string { return strings.ReplaceAll(p, "\\", "/") }
