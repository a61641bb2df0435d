package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/imagevault/imagevault/pkg/imagevault"
)

type object struct {
	data        []byte
	contentType string
	tags        map[string]string
	updatedAt   time.Time
}

// Backend is an in-memory implementation of the imagevault.BlobStore
// interface
type Backend struct {
	mu      sync.RWMutex
	objects map[string]object
}

// New creates a new in-memory storage backend
func New() *Backend {
	return &Backend{
		objects: make(map[string]object),
	}
}

func (b *Backend) Exists(ctx context.Context, key string) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	_, exists := b.objects[key]
	return exists, nil
}

func (b *Backend) Put(ctx context.Context, key string, reader io.Reader, contentType string, tags map[string]string) (imagevault.StoreResult, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return imagevault.StoreResult{StatusCode: http.StatusInternalServerError}, err
	}

	tagsCopy := make(map[string]string, len(tags))
	for k, v := range tags {
		tagsCopy[k] = v
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.objects[key] = object{
		data:        data,
		contentType: contentType,
		tags:        tagsCopy,
		updatedAt:   time.Now().UTC(),
	}

	return imagevault.StoreResult{
		StatusCode: http.StatusOK,
		Message:    fmt.Sprintf("%s has been uploaded successfully", key),
	}, nil
}

func (b *Backend) Delete(ctx context.Context, key string) (imagevault.StoreResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.objects[key]; !exists {
		return imagevault.StoreResult{
			StatusCode: http.StatusNotFound,
			Message:    fmt.Sprintf("%s not found", key),
		}, nil
	}

	delete(b.objects, key)
	return imagevault.StoreResult{
		StatusCode: http.StatusNoContent,
		Message:    fmt.Sprintf("%s has been deleted successfully", key),
	}, nil
}

func (b *Backend) Download(ctx context.Context, key string) (io.ReadCloser, string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	obj, exists := b.objects[key]
	if !exists {
		return nil, "", fmt.Errorf("%s: %w", key, imagevault.ErrObjectNotFound)
	}

	return io.NopCloser(bytes.NewReader(obj.data)), obj.contentType, nil
}

func (b *Backend) GetObjectMeta(ctx context.Context, key string) (*imagevault.ObjectMeta, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	obj, exists := b.objects[key]
	if !exists {
		return nil, fmt.Errorf("%s: %w", key, imagevault.ErrObjectNotFound)
	}

	tagsCopy := make(map[string]string, len(obj.tags))
	for k, v := range obj.tags {
		tagsCopy[k] = v
	}

	return &imagevault.ObjectMeta{
		Key:         key,
		Size:        int64(len(obj.data)),
		ContentType: obj.contentType,
		UpdatedAt:   obj.updatedAt,
		Metadata:    tagsCopy,
	}, nil
}

// ObjectURL returns "" because the in-memory backend does not expose
// dereferenceable URLs.
func (b *Backend) ObjectURL(key string) string {
	return ""
}
