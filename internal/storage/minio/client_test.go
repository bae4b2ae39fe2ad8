// Copyright (c) 2026 DocSafe. All rights reserved.
// Author: dev@docsafe.app

package minio

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeObjectAPI records calls and serves objects from memory.
type fakeObjectAPI struct {
	bucketExists bool
	madeBucket   bool
	objects      map[string][]byte
	contentTypes map[string]string
}

func newFakeObjectAPI(bucketExists bool) *fakeObjectAPI {
	return &fakeObjectAPI{
		bucketExists: bucketExists,
		objects:      make(map[string][]byte),
		contentTypes: make(map[string]string),
	}
}

func (f *fakeObjectAPI) BucketExists(_ context.Context, _ string) (bool, error) {
	return f.bucketExists, nil
}

func (f *fakeObjectAPI) MakeBucket(_ context.Context, _ string, _ minio.MakeBucketOptions) error {
	f.madeBucket = true
	f.bucketExists = true
	return nil
}

func (f *fakeObjectAPI) PutObject(_ context.Context, _, objectName string, reader io.Reader, _ int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	f.objects[objectName] = data
	f.contentTypes[objectName] = opts.ContentType
	return minio.UploadInfo{Key: objectName, Size: int64(len(data))}, nil
}

func (f *fakeObjectAPI) GetObject(_ context.Context, _, objectName string, _ minio.GetObjectOptions) (io.ReadCloser, error) {
	data, found := f.objects[objectName]
	if !found {
		return nil, minio.ErrorResponse{Code: "NoSuchKey"}
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeObjectAPI) RemoveObject(_ context.Context, _, objectName string, _ minio.RemoveObjectOptions) error {
	delete(f.objects, objectName)
	return nil
}

/*
TestStore_EnsuresBucket verifies that a missing bucket is created at startup.
*/
func TestStore_EnsuresBucket(t *testing.T) {
	ctx := context.Background()

	// 1. Existing bucket is left alone
	api := newFakeObjectAPI(true)
	_, err := newStoreWithAPI(ctx, api, "docsafe-uploads")
	require.NoError(t, err)
	assert.False(t, api.madeBucket)

	// 2. Missing bucket gets created
	api = newFakeObjectAPI(false)
	_, err = newStoreWithAPI(ctx, api, "docsafe-uploads")
	require.NoError(t, err)
	assert.True(t, api.madeBucket)
}

/*
TestStore_PutGet round-trips object bytes and content type.
*/
func TestStore_PutGet(t *testing.T) {
	ctx := context.Background()
	api := newFakeObjectAPI(true)
	store, err := newStoreWithAPI(ctx, api, "docsafe-uploads")
	require.NoError(t, err)

	payload := []byte("%PDF-1.7 fake content")
	err = store.Put(ctx, "42/abc_report.pdf", bytes.NewReader(payload), int64(len(payload)), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", api.contentTypes["42/abc_report.pdf"])

	reader, err := store.Get(ctx, "42/abc_report.pdf")
	require.NoError(t, err)
	defer reader.Close()

	roundTripped, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, payload, roundTripped)
}

/*
TestStore_Delete removes an object and makes later reads fail.
*/
func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	api := newFakeObjectAPI(true)
	store, err := newStoreWithAPI(ctx, api, "docsafe-uploads")
	require.NoError(t, err)

	require.NoError(t, store.Put(ctx, "k", bytes.NewReader([]byte("x")), 1, "application/pdf"))
	require.NoError(t, store.Delete(ctx, "k"))

	_, err = store.Get(ctx, "k")
	require.Error(t, err)
}
