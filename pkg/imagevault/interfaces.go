package imagevault

import (
	"context"
	"io"
	"time"
)

// BlobStore defines the interface for blob storage backends. It is the only
// layer permitted to depend on store client libraries; store-specific error
// types never cross this boundary.
type BlobStore interface {
	// Exists reports whether an object is stored under key. A "not found"
	// response from the backend yields (false, nil); any other backend
	// failure is returned as an error, never coerced to false.
	Exists(ctx context.Context, key string) (bool, error)

	// Put writes the object bytes under key with the given content type and
	// uploader-visible metadata tags.
	Put(ctx context.Context, key string, reader io.Reader, contentType string, tags map[string]string) (StoreResult, error)

	// Delete removes the object stored under key.
	Delete(ctx context.Context, key string) (StoreResult, error)

	// Download returns the object's byte stream and content type.
	Download(ctx context.Context, key string) (io.ReadCloser, string, error)

	// GetObjectMeta retrieves metadata for the object stored under key.
	GetObjectMeta(ctx context.Context, key string) (*ObjectMeta, error)

	// ObjectURL returns a dereferenceable URL for the object, or "" when the
	// backend does not expose one.
	ObjectURL(key string) string
}

// Repository defines the interface for image metadata persistence.
type Repository interface {
	ListImages(ctx context.Context) ([]*Image, error)

	// FindImagesByName returns all rows matching name. Name is intended to
	// be unique but is not enforced; callers act on the first match.
	FindImagesByName(ctx context.Context, name string) ([]*Image, error)

	// GetRandomImage returns a uniformly selected row, or ErrImageNotFound
	// when the table is empty.
	GetRandomImage(ctx context.Context) (*Image, error)

	CreateImage(ctx context.Context, image *Image) error
	DeleteImage(ctx context.Context, image *Image) error
}

// Notifier defines the interface for the notification queue and fan-out
// topic.
type Notifier interface {
	// Enqueue sends a message body to the durable queue.
	Enqueue(ctx context.Context, body string) error

	// ReceiveBatch long-polls the queue: it blocks up to wait and returns as
	// soon as at least one message is available, or with zero messages once
	// the wait elapses. At most maxMessages are returned.
	ReceiveBatch(ctx context.Context, maxMessages int, wait time.Duration) ([]QueueMessage, error)

	// Acknowledge removes a received message from the queue.
	Acknowledge(ctx context.Context, receiptHandle string) error

	// Publish fans a message body out to all topic subscribers.
	Publish(ctx context.Context, body string) error

	// Subscribe binds an endpoint to the topic.
	Subscribe(ctx context.Context, endpoint string) error

	// Unsubscribe removes the subscription whose endpoint matches. Unknown
	// endpoints are a no-op, not an error.
	Unsubscribe(ctx context.Context, endpoint string) error

	ListSubscriptions(ctx context.Context) ([]Subscription, error)
}

// Clock abstracts timer creation so background loops can be driven
// deterministically in tests.
type Clock interface {
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }
