// Copyright (c) 2026 DocSafe. All rights reserved.
// Author: dev@docsafe.app

// Package minio implements the PDF blob store on any S3-compatible backend.
//
// # Architecture
//
// This package belongs to the Infrastructure layer. The document service
// depends only on its exported methods; the internal [objectAPI] seam exists
// so tests can run without a live MinIO server.
package minio

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
)

// objectAPI is the narrow slice of *minio.Client this store actually uses.
// Keeping it internal allows full mocking in tests.
type objectAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

// clientAdapter adapts *minio.Client to [objectAPI]. The only divergence is
// GetObject, whose concrete *minio.Object return type is widened to
// io.ReadCloser so tests can substitute a plain buffer.
type clientAdapter struct{ client *minio.Client }

func (a clientAdapter) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	return a.client.BucketExists(ctx, bucketName)
}

func (a clientAdapter) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	return a.client.MakeBucket(ctx, bucketName, opts)
}

func (a clientAdapter) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	return a.client.PutObject(ctx, bucketName, objectName, reader, objectSize, opts)
}

func (a clientAdapter) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	return a.client.GetObject(ctx, bucketName, objectName, opts)
}

func (a clientAdapter) RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error {
	return a.client.RemoveObject(ctx, bucketName, objectName, opts)
}

// Store is the S3-backed blob store for uploaded PDFs.
//
// Object keys are opaque to this package; the document service owns the
// key scheme.
type Store struct {
	api    objectAPI
	bucket string
}

// NewStore wraps a configured *minio.Client and ensures the bucket exists.
//
// # Parameters
//   - ctx: Context for the bucket check.
//   - client: A connected MinIO / S3 client.
//   - bucket: The bucket holding every uploaded document.
func NewStore(ctx context.Context, client *minio.Client, bucket string) (*Store, error) {
	return newStoreWithAPI(ctx, clientAdapter{client: client}, bucket)
}

// newStoreWithAPI is the injectable constructor used by tests.
func newStoreWithAPI(ctx context.Context, api objectAPI, bucket string) (*Store, error) {
	store := &Store{api: api, bucket: bucket}

	if err := store.ensureBucket(ctx); err != nil {
		return nil, err
	}

	return store, nil
}

// ensureBucket creates the bucket if it does not exist yet.
func (s *Store) ensureBucket(ctx context.Context) error {
	exists, err := s.api.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("minio: bucket check failed: %w", err)
	}

	if !exists {
		if err := s.api.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("minio: bucket creation failed: %w", err)
		}
	}

	return nil
}

// Put streams an object into the bucket under the given key.
//
// # Parameters
//   - ctx: Context for the upload.
//   - key: Object key (owner-scoped, assigned by the document service).
//   - reader: The object bytes. Size must match exactly.
//   - size: Byte count, known up front from the multipart header.
//   - contentType: Stored as object metadata.
func (s *Store) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	_, err := s.api.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("minio: upload failed: %w", err)
	}
	return nil
}

// Get opens a streaming reader for the object under the given key.
//
// The caller owns the returned reader and must close it. A missing object
// surfaces on first Read, not here; minio defers the request.
func (s *Store) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	object, err := s.api.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("minio: download failed: %w", err)
	}
	return object, nil
}

// Delete removes the object under the given key.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.api.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("minio: delete failed: %w", err)
	}
	return nil
}
