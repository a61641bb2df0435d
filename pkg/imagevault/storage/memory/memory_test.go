package memory_test

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imagevault/imagevault/pkg/imagevault"
	"github.com/imagevault/imagevault/pkg/imagevault/storage/memory"
)

func TestBackend(t *testing.T) {
	ctx := context.Background()

	t.Run("put then download roundtrip", func(t *testing.T) {
		backend := memory.New()

		result, err := backend.Put(ctx, "key", strings.NewReader("payload"), "image/png",
			map[string]string{"name": "key"})
		require.NoError(t, err)
		assert.True(t, result.OK())

		rc, contentType, err := backend.Download(ctx, "key")
		require.NoError(t, err)
		defer rc.Close()

		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "payload", string(data))
		assert.Equal(t, "image/png", contentType)
	})

	t.Run("exists distinguishes present from absent", func(t *testing.T) {
		backend := memory.New()

		exists, err := backend.Exists(ctx, "key")
		require.NoError(t, err)
		assert.False(t, exists)

		_, err = backend.Put(ctx, "key", strings.NewReader("payload"), "image/png", nil)
		require.NoError(t, err)

		exists, err = backend.Exists(ctx, "key")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("object meta carries size content type and tags", func(t *testing.T) {
		backend := memory.New()

		_, err := backend.Put(ctx, "key", strings.NewReader("payload"), "image/png",
			map[string]string{"name": "key", "size": "7"})
		require.NoError(t, err)

		meta, err := backend.GetObjectMeta(ctx, "key")
		require.NoError(t, err)
		assert.Equal(t, "key", meta.Key)
		assert.Equal(t, int64(7), meta.Size)
		assert.Equal(t, "image/png", meta.ContentType)
		assert.Equal(t, "key", meta.Metadata["name"])
		assert.False(t, meta.UpdatedAt.IsZero())
	})

	t.Run("meta and download of absent key fail with object not found", func(t *testing.T) {
		backend := memory.New()

		_, err := backend.GetObjectMeta(ctx, "missing")
		assert.ErrorIs(t, err, imagevault.ErrObjectNotFound)

		_, _, err = backend.Download(ctx, "missing")
		assert.ErrorIs(t, err, imagevault.ErrObjectNotFound)
	})

	t.Run("delete reports success status and removes the object", func(t *testing.T) {
		backend := memory.New()

		_, err := backend.Put(ctx, "key", strings.NewReader("payload"), "image/png", nil)
		require.NoError(t, err)

		result, err := backend.Delete(ctx, "key")
		require.NoError(t, err)
		assert.True(t, result.OK())
		assert.Equal(t, http.StatusNoContent, result.StatusCode)

		exists, err := backend.Exists(ctx, "key")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("delete of absent key reports not found status", func(t *testing.T) {
		backend := memory.New()

		result, err := backend.Delete(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, result.OK())
		assert.Equal(t, http.StatusNotFound, result.StatusCode)
	})

	t.Run("no object URL is exposed", func(t *testing.T) {
		backend := memory.New()
		assert.Empty(t, backend.ObjectURL("key"))
	})
}
