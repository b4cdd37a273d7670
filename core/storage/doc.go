// Package storage provides the object-storage client used to fetch
// delimited input files from an S3-compatible bucket.
//
// The Client interface is intentionally narrow (exists/get/put) so tests
// can substitute the testify mock in mocks/. NewClient builds a Minio
// client with strict transport timeouts; the underlying connection is
// established lazily on first use.
package storage
