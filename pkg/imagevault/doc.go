// Package imagevault provides a reusable library for managing named binary
// images with pluggable metadata repositories, blob storage backends, and
// queue/topic notifiers.
//
// It exposes a single Service interface that orchestrates image upload,
// download, deletion, and metadata queries while keeping object-store state
// and metadata-store state consistent across partial failures. A companion
// Relay moves change notifications from a durable queue onto a fan-out topic
// in the background, and a SubscriptionManager handles email subscriptions to
// that topic. Implementations of repositories (memory, Postgres), blob stores
// (memory, S3), and notifiers (memory, SQS+SNS) are provided under
// subpackages.
//
// Consistency Model
//
// The stored object is the source of truth for existence; the metadata row is
// a secondary index over it. Upload and delete are not transactional across
// the two stores: an upload that stores the object but fails to insert the
// row leaves an orphaned object, and a delete never removes the row unless
// the object delete succeeded first. These windows are surfaced to callers
// rather than masked by automatic rollback.
package imagevault
