package imagevault

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrImageNotFound indicates an image was not found
	ErrImageNotFound = errors.New("image not found")

	// ErrObjectNotFound indicates an object was not found in the blob store
	ErrObjectNotFound = errors.New("object not found")

	// ErrImageExists indicates the name is already occupied in the blob store
	ErrImageExists = errors.New("image already exists")

	// ErrStoreUnavailable indicates a blob-store backend failure
	ErrStoreUnavailable = errors.New("object store unavailable")

	// ErrMetadataUnavailable indicates a metadata-repository backend failure
	ErrMetadataUnavailable = errors.New("metadata store unavailable")

	// ErrQueueUnavailable indicates a queue or topic backend failure
	ErrQueueUnavailable = errors.New("notification queue unavailable")

	// ErrSubscriptionFailed indicates a subscribe or unsubscribe operation failed
	ErrSubscriptionFailed = errors.New("subscription operation failed")
)

// StorageError represents a backend failure in a blob-store operation.
// It matches ErrStoreUnavailable via errors.Is.
type StorageError struct {
	Backend string
	Key     string
	Op      string
	Err     error
}

func (e *StorageError) Error() string {
	if e.Backend != "" {
		return fmt.Sprintf("storage operation %s failed for key %s on backend %s: %v", e.Op, e.Key, e.Backend, e.Err)
	}
	return fmt.Sprintf("storage operation %s failed for key %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func (e *StorageError) Is(target error) bool {
	return target == ErrStoreUnavailable
}

// RepositoryError represents a backend failure in a metadata-repository
// operation. It matches ErrMetadataUnavailable via errors.Is.
type RepositoryError struct {
	Op  string
	Err error
}

func (e *RepositoryError) Error() string {
	return fmt.Sprintf("repository operation %s failed: %v", e.Op, e.Err)
}

func (e *RepositoryError) Unwrap() error {
	return e.Err
}

func (e *RepositoryError) Is(target error) bool {
	return target == ErrMetadataUnavailable
}

// NotifyError represents a backend failure in a queue or topic operation.
// It matches ErrQueueUnavailable via errors.Is.
type NotifyError struct {
	Op  string
	Err error
}

func (e *NotifyError) Error() string {
	return fmt.Sprintf("notify operation %s failed: %v", e.Op, e.Err)
}

func (e *NotifyError) Unwrap() error {
	return e.Err
}

func (e *NotifyError) Is(target error) bool {
	return target == ErrQueueUnavailable
}

// SubscriptionError represents a failed subscribe or unsubscribe for an
// endpoint. It matches ErrSubscriptionFailed via errors.Is.
type SubscriptionError struct {
	Endpoint string
	Op       string
	Err      error
}

func (e *SubscriptionError) Error() string {
	return fmt.Sprintf("subscription operation %s failed for endpoint %s: %v", e.Op, e.Endpoint, e.Err)
}

func (e *SubscriptionError) Unwrap() error {
	return e.Err
}

func (e *SubscriptionError) Is(target error) bool {
	return target == ErrSubscriptionFailed
}
