package imagevault_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/imagevault/imagevault/pkg/imagevault"
)

func TestBuildUploadMessage(t *testing.T) {
	t.Run("renders header and sorted tag lines", func(t *testing.T) {
		body := imagevault.BuildUploadMessage(map[string]string{
			"size":         "42",
			"name":         "sunset",
			"content-type": "image/png",
		})

		expected := "Image was uploaded\n\n" +
			"content-type:::image/png\n" +
			"name:::sunset\n" +
			"size:::42\n"
		assert.Equal(t, expected, body)
	})

	t.Run("no tags yields header only", func(t *testing.T) {
		body := imagevault.BuildUploadMessage(nil)
		assert.Equal(t, "Image was uploaded\n\n", body)
	})
}
