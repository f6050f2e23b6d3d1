package store

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSON(t *testing.T) {
	items, err := Decode(strings.NewReader(`[{"id":1,"score":2.5,"name":"a"},{"id":2,"ok":true}]`), FormatJSON)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, int64(1), items[0]["id"])
	assert.Equal(t, 2.5, items[0]["score"])
	assert.Equal(t, true, items[1]["ok"])
	assert.Equal(t, "1", items[0].ID("id"))
}

func TestDecodeCSV(t *testing.T) {
	input := "id,name,age,active\n1,alice,29,true\n2, bob,3.5,no\n"
	items, err := Decode(strings.NewReader(input), FormatCSV)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, Item{"id": int64(1), "name": "alice", "age": int64(29), "active": true}, items[0])
	assert.Equal(t, Item{"id": int64(2), "name": "bob", "age": 3.5, "active": "no"}, items[1])
}

func TestDecodeEmptyCSV(t *testing.T) {
	items, err := Decode(strings.NewReader(""), FormatCSV)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestDecodeUnsupported(t *testing.T) {
	_, err := Decode(strings.NewReader(""), "xml")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = FormatFromPath("data.parquet")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.JSON")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":"a"}]`), 0o644))

	items, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []Item{{"id": "a"}}, items)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{`), 0o644))
	_, err = LoadFile(bad)
	assert.ErrorContains(t, err, "bad.json")
}

type fakeGetter struct {
	body  string
	err   error
	input *s3.GetObjectInput
}

func (f *fakeGetter) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewBufferString(f.body))}, nil
}

func TestLoadS3(t *testing.T) {
	g := &fakeGetter{body: "id,name\n1,alice\n"}
	items, err := LoadS3(context.Background(), g, "bucket", "exports/people.csv")
	require.NoError(t, err)
	assert.Equal(t, "bucket", *g.input.Bucket)
	assert.Equal(t, "exports/people.csv", *g.input.Key)
	assert.Equal(t, []Item{{"id": int64(1), "name": "alice"}}, items)

	g = &fakeGetter{err: errors.New("access denied")}
	_, err = LoadS3(context.Background(), g, "bucket", "people.json")
	assert.ErrorContains(t, err, "s3://bucket/people.json")
}

func TestNewS3Client(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "")
	c := NewS3Client(S3ClientOptions{Region: "eu-west-1", Endpoint: "http://localhost:9000", PathStyle: true})
	o := c.Options()
	assert.Equal(t, "eu-west-1", o.Region)
	assert.True(t, o.UsePathStyle)
	require.NotNil(t, o.BaseEndpoint)
	assert.Equal(t, "http://localhost:9000", *o.BaseEndpoint)
}
