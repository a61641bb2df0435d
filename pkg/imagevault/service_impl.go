package imagevault

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// service implements the Service interface
type service struct {
	repository Repository
	store      BlobStore
	notifier   Notifier
	logger     *slog.Logger
	baseURL    string
	now        func() time.Time
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the metadata repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithBlobStore sets the blob storage backend for the service
func WithBlobStore(store BlobStore) Option {
	return func(s *service) {
		s.store = store
	}
}

// WithNotifier sets the notification queue gateway. Without one, uploads
// succeed but no change notifications are enqueued.
func WithNotifier(notifier Notifier) Option {
	return func(s *service) {
		s.notifier = notifier
	}
}

// WithLogger sets the logger for the service
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// WithBaseURL sets the public base URL used for the download link embedded
// in upload notification tags.
func WithBaseURL(baseURL string) Option {
	return func(s *service) {
		s.baseURL = baseURL
	}
}

// WithNow overrides the timestamp source. Intended for tests.
func WithNow(now func() time.Time) Option {
	return func(s *service) {
		s.now = now
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		logger: slog.Default(),
		now:    func() time.Time { return time.Now().UTC() },
	}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.store == nil {
		return nil, fmt.Errorf("blob store is required")
	}

	return s, nil
}

func (s *service) ListImages(ctx context.Context) ([]*Image, error) {
	images, err := s.repository.ListImages(ctx)
	if err != nil {
		return nil, &RepositoryError{Op: "list", Err: err}
	}
	return images, nil
}

func (s *service) GetRandomImage(ctx context.Context) (*Image, error) {
	image, err := s.repository.GetRandomImage(ctx)
	if err != nil {
		if errors.Is(err, ErrImageNotFound) {
			return nil, err
		}
		return nil, &RepositoryError{Op: "random", Err: err}
	}
	return image, nil
}

func (s *service) UploadImage(ctx context.Context, req UploadImageRequest) (*Image, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("image name is required")
	}

	// Check-then-act: the existence probe and the put are two separate
	// store calls. Concurrent uploads of the same name can both pass the
	// probe and race on the write; the store resolves that as last write
	// wins.
	exists, err := s.store.Exists(ctx, req.Name)
	if err != nil {
		return nil, &StorageError{Key: req.Name, Op: "exists", Err: err}
	}
	if exists {
		return nil, fmt.Errorf("image %q: %w", req.Name, ErrImageExists)
	}

	data, err := io.ReadAll(req.Reader)
	if err != nil {
		return nil, fmt.Errorf("read upload body: %w", err)
	}

	now := s.now()
	tags := s.uploadTags(req, int64(len(data)), now)

	result, err := s.store.Put(ctx, req.Name, bytes.NewReader(data), req.ContentType, tags)
	if err != nil {
		return nil, &StorageError{Key: req.Name, Op: "put", Err: err}
	}
	if !result.OK() {
		return nil, &StorageError{Key: req.Name, Op: "put",
			Err: fmt.Errorf("store returned status %d: %s", result.StatusCode, result.Message)}
	}

	// The object is durably stored at this point, so a failed enqueue is a
	// degraded success, not a hard failure.
	if s.notifier != nil {
		if err := s.notifier.Enqueue(ctx, BuildUploadMessage(tags)); err != nil {
			s.logger.Warn("failed to enqueue upload notification",
				"name", req.Name, "error", err)
		}
	}

	image := &Image{
		ID:        uuid.New(),
		Name:      req.Name,
		SizeBytes: int64(len(data)),
		Extension: filepath.Ext(req.FileName),
		URL:       s.store.ObjectURL(req.Name),
		CreatedAt: now,
		UpdatedAt: now,
	}

	// No rollback of the store write on insert failure: the orphaned object
	// is left for out-of-band reconciliation.
	if err := s.repository.CreateImage(ctx, image); err != nil {
		return nil, &RepositoryError{Op: "create", Err: err}
	}

	return image, nil
}

func (s *service) DeleteImage(ctx context.Context, name string) error {
	images, err := s.repository.FindImagesByName(ctx, name)
	if err != nil {
		return &RepositoryError{Op: "find", Err: err}
	}
	if len(images) == 0 {
		return fmt.Errorf("image %q: %w", name, ErrImageNotFound)
	}

	// Duplicate rows for one name are tolerated; only the first match is
	// acted upon.
	image := images[0]

	result, err := s.store.Delete(ctx, image.Name)
	if err != nil {
		return &StorageError{Key: image.Name, Op: "delete", Err: err}
	}
	if !result.OK() {
		// The row is removed only after the store confirms deletion.
		return &StorageError{Key: image.Name, Op: "delete",
			Err: fmt.Errorf("store returned status %d: %s", result.StatusCode, result.Message)}
	}

	if err := s.repository.DeleteImage(ctx, image); err != nil {
		return &RepositoryError{Op: "delete", Err: err}
	}

	return nil
}

func (s *service) DownloadImage(ctx context.Context, name string) (io.ReadCloser, string, error) {
	rc, contentType, err := s.store.Download(ctx, name)
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			return nil, "", fmt.Errorf("image %q: %w", name, ErrImageNotFound)
		}
		return nil, "", &StorageError{Key: name, Op: "download", Err: err}
	}
	return rc, contentType, nil
}

func (s *service) uploadTags(req UploadImageRequest, size int64, now time.Time) map[string]string {
	tags := map[string]string{
		"name":         req.Name,
		"size":         strconv.FormatInt(size, 10),
		"content-type": req.ContentType,
		"update-date":  now.Format(time.RFC3339),
	}
	if s.baseURL != "" {
		tags["link"] = fmt.Sprintf("%s/api/images/%s/download", s.baseURL, req.Name)
	}
	return tags
}
