package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/imagevault/imagevault/pkg/imagevault"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements imagevault.Repository using PostgreSQL
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) *Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

// EnsureSchema creates the images table if it does not exist. Name carries
// no uniqueness constraint: duplicates are tolerated at the repository
// level, only an index for lookups.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS images (
			id         UUID PRIMARY KEY,
			name       TEXT NOT NULL,
			size_bytes BIGINT NOT NULL,
			extension  TEXT NOT NULL DEFAULT '',
			url        TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS images_name_idx ON images (name);`

	if _, err := r.db.Exec(ctx, ddl); err != nil {
		return r.handlePostgresError("ensure schema", err)
	}

	return nil
}

// Error handling helper
func (r *Repository) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("image already exists")
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - schema bootstrap required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}

	return fmt.Errorf("database error in %s: %w", operation, err)
}

func (r *Repository) ListImages(ctx context.Context) ([]*imagevault.Image, error) {
	query := `
		SELECT id, name, size_bytes, extension, url, created_at, updated_at
		FROM images
		ORDER BY created_at`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, r.handlePostgresError("list images", err)
	}
	defer rows.Close()

	return scanImages(rows)
}

func (r *Repository) FindImagesByName(ctx context.Context, name string) ([]*imagevault.Image, error) {
	query := `
		SELECT id, name, size_bytes, extension, url, created_at, updated_at
		FROM images
		WHERE name = $1
		ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, name)
	if err != nil {
		return nil, r.handlePostgresError("find images by name", err)
	}
	defer rows.Close()

	return scanImages(rows)
}

func (r *Repository) GetRandomImage(ctx context.Context) (*imagevault.Image, error) {
	query := `
		SELECT id, name, size_bytes, extension, url, created_at, updated_at
		FROM images
		ORDER BY random()
		LIMIT 1`

	var image imagevault.Image
	err := r.db.QueryRow(ctx, query).Scan(
		&image.ID, &image.Name, &image.SizeBytes, &image.Extension,
		&image.URL, &image.CreatedAt, &image.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, imagevault.ErrImageNotFound
		}
		return nil, r.handlePostgresError("get random image", err)
	}

	return &image, nil
}

func (r *Repository) CreateImage(ctx context.Context, image *imagevault.Image) error {
	query := `
		INSERT INTO images (id, name, size_bytes, extension, url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(ctx, query,
		image.ID, image.Name, image.SizeBytes, image.Extension,
		image.URL, image.CreatedAt, image.UpdatedAt)

	if err != nil {
		return r.handlePostgresError("create image", err)
	}

	return nil
}

func (r *Repository) DeleteImage(ctx context.Context, image *imagevault.Image) error {
	query := `DELETE FROM images WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, image.ID)
	if err != nil {
		return r.handlePostgresError("delete image", err)
	}
	if tag.RowsAffected() == 0 {
		return imagevault.ErrImageNotFound
	}

	return nil
}

func scanImages(rows pgx.Rows) ([]*imagevault.Image, error) {
	var images []*imagevault.Image
	for rows.Next() {
		var image imagevault.Image
		if err := rows.Scan(
			&image.ID, &image.Name, &image.SizeBytes, &image.Extension,
			&image.URL, &image.CreatedAt, &image.UpdatedAt); err != nil {
			return nil, err
		}
		images = append(images, &image)
	}

	return images, rows.Err()
}
