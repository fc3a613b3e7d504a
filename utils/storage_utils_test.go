package utils

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	s3iface.S3API
	input *s3.PutObjectInput
	err   error
}

func (f *fakeS3) PutObjectWithContext(_ aws.Context, in *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	f.input = in
	return &s3.PutObjectOutput{}, f.err
}

func TestUploaderUpload(t *testing.T) {
	fake := &fakeS3{}
	u := &Uploader{client: fake, bucket: "media", publicBaseURL: "https://cdn.example.com"}

	png := []byte("\x89PNG\r\n\x1a\n0000")
	url, err := u.Upload(context.Background(), png, "a1.png", "astrologers")
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.com/astrologers/a1.png", url)
	assert.Equal(t, "media", aws.StringValue(fake.input.Bucket))
	assert.Equal(t, "astrologers/a1.png", aws.StringValue(fake.input.Key))
	assert.Equal(t, "image/png", aws.StringValue(fake.input.ContentType))
}

func TestUploaderUploadError(t *testing.T) {
	u := &Uploader{client: &fakeS3{err: errors.New("denied")}, bucket: "media", publicBaseURL: "https://cdn"}
	_, err := u.Upload(context.Background(), []byte("x"), "f", "d")
	assert.Error(t, err)
}
