package staging

import (
	"context"
	"fmt"
	"io"
	"os"

	"stage-merge/core/storage"

	"github.com/minio/minio-go/v7"
)

// OpenLocal opens a delimited input file on the local filesystem.
func OpenLocal(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	return f, nil
}

// OpenObject fetches a delimited input file from object storage.
func OpenObject(ctx context.Context, client storage.Client, bucket, object string) (io.ReadCloser, error) {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", bucket, err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %s does not exist", bucket)
	}

	reader, err := client.GetObject(ctx, bucket, object, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", object, err)
	}
	return reader, nil
}
