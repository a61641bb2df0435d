package imagevault

import (
	"time"

	"github.com/google/uuid"
)

// Image represents one stored binary object and its metadata row.
//
// Name is the natural key: the object-store key is derived from it. It is
// intended to be unique but no uniqueness constraint is enforced at the
// storage layer, so duplicate rows can occur and callers act on the first
// match.
type Image struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	SizeBytes int64     `json:"size_bytes"`
	Extension string    `json:"extension,omitempty"`
	URL       string    `json:"url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ObjectMeta contains metadata about an object held in a blob store.
type ObjectMeta struct {
	Key         string
	Size        int64
	ContentType string
	UpdatedAt   time.Time
	Metadata    map[string]string
}

// StoreResult is the outcome of a blob-store write or delete.
type StoreResult struct {
	StatusCode int
	Message    string
}

// OK reports whether the outcome carries a success status.
func (r StoreResult) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// QueueMessage is a message received from the notification queue. The
// ReceiptHandle acknowledges (removes) the message; until acknowledged the
// queue redelivers it after its visibility timeout.
type QueueMessage struct {
	Body          string
	ReceiptHandle string
}

// Subscription is a subscriber endpoint bound to the notification topic.
type Subscription struct {
	Endpoint string `json:"endpoint"`
	ARN      string `json:"arn,omitempty"`
}
