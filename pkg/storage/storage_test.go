package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseURI(t *testing.T) {
	tests := []struct {
		uri     string
		want    Location
		wantErr bool
	}{
		{uri: "world.yaml", want: Location{Key: "world.yaml"}},
		{uri: "/etc/keylogic/layouts.yaml", want: Location{Key: "/etc/keylogic/layouts.yaml"}},
		{uri: "s3://trackers/data/world.yaml", want: Location{Bucket: "trackers", Key: "data/world.yaml"}},
		{uri: "", wantErr: true},
		{uri: "s3://", wantErr: true},
		{uri: "s3://bucket", wantErr: true},
		{uri: "s3://bucket/", wantErr: true},
		{uri: "s3://bucket/dir/", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			got, err := ParseURI(tt.uri)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.uri, got.String())
		})
	}
}

func TestLocalStore(t *testing.T) {
	ctx := context.Background()
	s := NewLocalStore(t.TempDir())

	require.NoError(t, s.Put(ctx, "layouts/eastern.yaml", []byte("a")))
	require.NoError(t, s.Put(ctx, "layouts/desert.yaml", []byte("b")))
	require.NoError(t, s.Put(ctx, "world.yaml", []byte("c")))

	got, err := s.Get(ctx, "layouts/eastern.yaml")
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), got)

	keys, err := s.List(ctx, "layouts")
	require.NoError(t, err)
	assert.Equal(t, []string{"layouts/desert.yaml", "layouts/eastern.yaml"}, keys)

	keys, err = s.List(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, keys)

	_, err = s.Get(ctx, "nope.yaml")
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestFetchLocal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "world.yaml")
	require.NoError(t, os.WriteFile(path, []byte("edges: []"), 0o600))

	got, err := Fetch(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "edges: []", string(got))

	_, err = Fetch(context.Background(), filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFSStore(t *testing.T) {
	ctx := context.Background()
	s := NewFSStore(fstest.MapFS{
		"world.yaml":           {Data: []byte("w")},
		"layouts/eastern.yaml": {Data: []byte("e")},
		"layouts/tower.yaml":   {Data: []byte("t")},
	})

	got, err := s.Get(ctx, "./world.yaml")
	require.NoError(t, err)
	assert.Equal(t, []byte("w"), got)

	keys, err := s.List(ctx, "layouts/")
	require.NoError(t, err)
	assert.Equal(t, []string{"layouts/eastern.yaml", "layouts/tower.yaml"}, keys)

	assert.ErrorIs(t, s.Put(ctx, "x", nil), ErrReadOnly)
}

// fakeS3 keeps objects in memory and pages List results two at a time.
type fakeS3 struct {
	objects map[string][]byte
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	var keys []string
	for k := range f.objects {
		if strings.HasPrefix(k, aws.ToString(in.Prefix)) && k > aws.ToString(in.ContinuationToken) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	out := &s3.ListObjectsV2Output{}
	if len(keys) > 2 {
		keys = keys[:2]
		out.IsTruncated = aws.Bool(true)
		out.NextContinuationToken = aws.String(keys[1])
	}
	for _, k := range keys {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(k)})
	}
	return out, nil
}

func TestS3Store(t *testing.T) {
	ctx := context.Background()
	s := &S3Store{Client: &fakeS3{objects: map[string][]byte{}}, Bucket: "trackers"}

	for _, k := range []string{"data/a.yaml", "data/b.yaml", "data/c.yaml", "other.yaml"} {
		require.NoError(t, s.Put(ctx, k, []byte(k)))
	}

	got, err := s.Get(ctx, "data/b.yaml")
	require.NoError(t, err)
	assert.Equal(t, "data/b.yaml", string(got))

	keys, err := s.List(ctx, "data/")
	require.NoError(t, err)
	assert.Equal(t, []string{"data/a.yaml", "data/b.yaml", "data/c.yaml"}, keys)

	_, err = s.Get(ctx, "data/missing.yaml")
	var nsk *types.NoSuchKey
	assert.ErrorAs(t, err, &nsk)
	assert.Contains(t, err.Error(), "s3://trackers/data/missing.yaml")
}
