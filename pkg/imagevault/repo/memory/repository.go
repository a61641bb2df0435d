package memory

import (
	"context"
	"math/rand/v2"
	"sync"

	"github.com/google/uuid"
	"github.com/imagevault/imagevault/pkg/imagevault"
)

// Repository implements imagevault.Repository using in-memory storage.
// Rows are kept in insertion order, which is the listing order.
type Repository struct {
	mu     sync.RWMutex
	images map[uuid.UUID]*imagevault.Image
	order  []uuid.UUID
}

// New creates a new in-memory repository
func New() imagevault.Repository {
	return &Repository{
		images: make(map[uuid.UUID]*imagevault.Image),
	}
}

func (r *Repository) ListImages(ctx context.Context) ([]*imagevault.Image, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	images := make([]*imagevault.Image, 0, len(r.order))
	for _, id := range r.order {
		imageCopy := *r.images[id]
		images = append(images, &imageCopy)
	}

	return images, nil
}

func (r *Repository) FindImagesByName(ctx context.Context, name string) ([]*imagevault.Image, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var images []*imagevault.Image
	for _, id := range r.order {
		if r.images[id].Name == name {
			imageCopy := *r.images[id]
			images = append(images, &imageCopy)
		}
	}

	return images, nil
}

func (r *Repository) GetRandomImage(ctx context.Context) (*imagevault.Image, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.order) == 0 {
		return nil, imagevault.ErrImageNotFound
	}

	id := r.order[rand.IntN(len(r.order))]
	imageCopy := *r.images[id]
	return &imageCopy, nil
}

func (r *Repository) CreateImage(ctx context.Context, image *imagevault.Image) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Copy to avoid external modifications
	imageCopy := *image
	if _, exists := r.images[image.ID]; !exists {
		r.order = append(r.order, image.ID)
	}
	r.images[image.ID] = &imageCopy

	return nil
}

func (r *Repository) DeleteImage(ctx context.Context, image *imagevault.Image) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.images[image.ID]; !exists {
		return imagevault.ErrImageNotFound
	}

	delete(r.images, image.ID)
	for i, id := range r.order {
		if id == image.ID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	return nil
}
