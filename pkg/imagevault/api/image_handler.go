package api

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/imagevault/imagevault/pkg/imagevault"
)

// maxUploadMemory bounds the multipart form memory buffer; larger uploads
// spill to temp files.
const maxUploadMemory = 32 << 20

// ImageResponse is the response body for image metadata
type ImageResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	SizeBytes int64     `json:"size_bytes"`
	Extension string    `json:"extension,omitempty"`
	URL       string    `json:"url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ImageHandler handles HTTP requests for images
type ImageHandler struct {
	service imagevault.Service
}

// NewImageHandler creates a new image handler
func NewImageHandler(service imagevault.Service) *ImageHandler {
	return &ImageHandler{service: service}
}

// Routes returns the routes for images
func (h *ImageHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListImages)
	r.Post("/", h.UploadImage)
	r.Get("/random", h.GetRandomImage)
	r.Get("/{imageName}/download", h.DownloadImage)
	r.Delete("/{imageName}", h.DeleteImage)

	return r
}

// ListImages returns metadata for all existing images
func (h *ImageHandler) ListImages(w http.ResponseWriter, r *http.Request) {
	images, err := h.service.ListImages(r.Context())
	if err != nil {
		slog.Error("Failed to list images", "error", err)
		writeError(w, r, err)
		return
	}

	resp := make([]ImageResponse, 0, len(images))
	for _, image := range images {
		resp = append(resp, toImageResponse(image))
	}

	render.JSON(w, r, resp)
}

// GetRandomImage returns metadata for a uniformly selected image
func (h *ImageHandler) GetRandomImage(w http.ResponseWriter, r *http.Request) {
	image, err := h.service.GetRandomImage(r.Context())
	if err != nil {
		slog.Error("Failed to get random image", "error", err)
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, toImageResponse(image))
}

// UploadImage uploads an image from a multipart form. The file is expected
// in the "image" field; "name" supplies the storage key and falls back to
// the uploaded filename.
func (h *ImageHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "image file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	name := r.FormValue("name")
	if name == "" {
		name = header.Filename
	}
	if name == "" {
		http.Error(w, "image name is required", http.StatusBadRequest)
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	image, err := h.service.UploadImage(r.Context(), imagevault.UploadImageRequest{
		Name:        name,
		FileName:    header.Filename,
		ContentType: contentType,
		Reader:      file,
	})
	if err != nil {
		slog.Error("Failed to upload image", "name", name, "error", err)
		writeError(w, r, err)
		return
	}

	slog.Info("Image uploaded", "name", image.Name, "size_bytes", image.SizeBytes)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, toImageResponse(image))
}

// DeleteImage deletes an image by name
func (h *ImageHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "imageName")

	if err := h.service.DeleteImage(r.Context(), name); err != nil {
		slog.Error("Failed to delete image", "name", name, "error", err)
		writeError(w, r, err)
		return
	}

	slog.Info("Image deleted", "name", name)
	w.WriteHeader(http.StatusNoContent)
}

// DownloadImage streams an image's bytes by name
func (h *ImageHandler) DownloadImage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "imageName")

	rc, contentType, err := h.service.DownloadImage(r.Context(), name)
	if err != nil {
		slog.Error("Failed to download image", "name", name, "error", err)
		writeError(w, r, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", contentType)
	if _, err := io.Copy(w, rc); err != nil {
		slog.Error("Failed to stream image", "name", name, "error", err)
	}
}

func toImageResponse(image *imagevault.Image) ImageResponse {
	return ImageResponse{
		ID:        image.ID.String(),
		Name:      image.Name,
		SizeBytes: image.SizeBytes,
		Extension: image.Extension,
		URL:       image.URL,
		CreatedAt: image.CreatedAt,
		UpdatedAt: image.UpdatedAt,
	}
}
