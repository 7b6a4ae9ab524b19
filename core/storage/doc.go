// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client to provide a simplified interface for the
// operations the report archive needs: checking bucket existence, uploading
// report workbooks, streaming them back, and listing/removing archived
// objects. Both AWS S3 and self-hosted MinIO instances are supported.
//
// The Client interface abstracts the underlying provider, making storage
// interactions easy to mock in unit tests (see core/storage/mocks).
package storage
