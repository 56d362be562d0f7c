package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/dmitrijs2005/sleepdiary/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStorage(t *testing.T) {
	ctx := context.Background()
	s := NewFileStorage(filepath.Join(t.TempDir(), "sub", "diary.txt"))

	_, err := s.Load(ctx)
	assert.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, s.Save(ctx, []byte(`Diary("")`)))
	b, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, `Diary("")`, string(b))
}

func TestMemoryStorage(t *testing.T) {
	ctx := context.Background()

	empty := NewMemoryStorage(nil)
	_, err := empty.Load(ctx)
	assert.ErrorIs(t, err, common.ErrNotFound)

	src := []byte("abc")
	s := NewMemoryStorage(src)
	src[0] = 'z'

	b, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(b))

	require.NoError(t, s.Save(ctx, []byte("def")))
	b, _ = s.Load(ctx)
	assert.Equal(t, "def", string(b))
	assert.Equal(t, 1, s.Saves())
}

type fakeObjects struct {
	objects map[string][]byte
	getErr  error
	putErr  error
}

func (f *fakeObjects) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	b, ok := f.objects[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(b))}, nil
}

func (f *fakeObjects) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[*in.Bucket+"/"+*in.Key] = b
	return &s3.PutObjectOutput{}, nil
}

func withFakeS3(t *testing.T, fake *fakeObjects) *string {
	t.Helper()
	var gotEndpoint string

	origLoad, origNew := loadDefaultAWSConfig, newS3ClientFromConfig
	loadDefaultAWSConfig = func(ctx context.Context, opts ...func(*config.LoadOptions) error) (aws.Config, error) {
		var lo config.LoadOptions
		for _, o := range opts {
			if err := o(&lo); err != nil {
				return aws.Config{}, err
			}
		}
		return aws.Config{Region: lo.Region, Credentials: lo.Credentials}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, endpoint string) objectAPI {
		gotEndpoint = endpoint
		return fake
	}
	t.Cleanup(func() { loadDefaultAWSConfig, newS3ClientFromConfig = origLoad, origNew })

	return &gotEndpoint
}

func TestS3Storage_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	fake := &fakeObjects{objects: map[string][]byte{}}
	endpoint := withFakeS3(t, fake)

	s, err := NewS3Storage(ctx, S3Config{
		AccessKey:    "admin",
		SecretKey:    "secret",
		Region:       "us-east-1",
		BaseEndpoint: "http://127.0.0.1:9000/",
		Bucket:       "diaries",
		Key:          "me/diary.txt",
	})
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:9000/", *endpoint)

	_, err = s.Load(ctx)
	assert.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, s.Save(ctx, []byte("payload")))
	assert.Equal(t, []byte("payload"), fake.objects["diaries/me/diary.txt"])

	b, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(b))
}

func TestS3Storage_Errors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	fake := &fakeObjects{objects: map[string][]byte{}, getErr: boom, putErr: boom}
	withFakeS3(t, fake)

	s, err := NewS3Storage(ctx, S3Config{Region: "us-east-1", Bucket: "b", Key: "k"})
	require.NoError(t, err)

	_, err = s.Load(ctx)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, common.ErrNotFound)

	assert.ErrorIs(t, s.Save(ctx, nil), boom)
}

func TestNewS3Storage_ConfigError(t *testing.T) {
	boom := errors.New("no config")
	orig := loadDefaultAWSConfig
	loadDefaultAWSConfig = func(context.Context, ...func(*config.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, boom
	}
	t.Cleanup(func() { loadDefaultAWSConfig = orig })

	_, err := NewS3Storage(context.Background(), S3Config{})
	assert.ErrorIs(t, err, boom)
}
