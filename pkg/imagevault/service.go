package imagevault

import (
	"context"
	"io"
)

// UploadImageRequest contains parameters for uploading an image.
type UploadImageRequest struct {
	// Name is the key the image is stored and addressed under.
	Name string

	// FileName is the original client filename; the stored extension is
	// derived from it.
	FileName string

	// ContentType of the uploaded bytes.
	ContentType string

	// Reader supplies the image bytes.
	Reader io.Reader
}

// Service orchestrates the image lifecycle across the blob store, the
// metadata repository, and the notification queue.
type Service interface {
	// ListImages returns all metadata rows in repository order.
	ListImages(ctx context.Context) ([]*Image, error)

	// GetRandomImage returns a uniformly selected metadata row, or
	// ErrImageNotFound when no rows exist.
	GetRandomImage(ctx context.Context) (*Image, error)

	// UploadImage stores the bytes under req.Name, enqueues a change
	// notification, and inserts the metadata row. A name that already has a
	// stored object fails with ErrImageExists.
	UploadImage(ctx context.Context, req UploadImageRequest) (*Image, error)

	// DeleteImage removes the object and, only if the object delete reports
	// success, the metadata row.
	DeleteImage(ctx context.Context, name string) error

	// DownloadImage returns the object's byte stream and content type,
	// independent of whether a metadata row exists. The caller closes the
	// stream.
	DownloadImage(ctx context.Context, name string) (io.ReadCloser, string, error)
}
