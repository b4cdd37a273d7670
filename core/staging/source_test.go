package staging

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"stage-merge/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestOpenLocal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.csv")
	require.NoError(t, os.WriteFile(path, []byte("id,name\n1,A\n"), 0o644))

	r, err := OpenLocal(path)
	require.NoError(t, err)
	defer r.Close()

	data, err := io.ReadAll(r)
	assert.NoError(t, err)
	assert.Equal(t, "id,name\n1,A\n", string(data))
}

func TestOpenLocal_Missing(t *testing.T) {
	_, err := OpenLocal(filepath.Join(t.TempDir(), "absent.csv"))
	assert.Error(t, err)
}

func TestOpenObject(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "imports").Return(true, nil)
	client.On("GetObject", mock.Anything, "imports", "parts.csv", minio.GetObjectOptions{}).
		Return(io.NopCloser(strings.NewReader("id,name\n1,A\n")), nil)

	r, err := OpenObject(context.Background(), client, "imports", "parts.csv")
	require.NoError(t, err)
	defer r.Close()

	data, err := io.ReadAll(r)
	assert.NoError(t, err)
	assert.Equal(t, "id,name\n1,A\n", string(data))
	client.AssertExpectations(t)
}

func TestOpenObject_BucketMissing(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "imports").Return(false, nil)

	_, err := OpenObject(context.Background(), client, "imports", "parts.csv")
	assert.ErrorContains(t, err, "does not exist")
	client.AssertNotCalled(t, "GetObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOpenObject_BucketCheckFails(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "imports").Return(false, errors.New("connection refused"))

	_, err := OpenObject(context.Background(), client, "imports", "parts.csv")
	assert.ErrorContains(t, err, "failed to check bucket")
}
