package handler

import (
	"errors"
	"net/http"

	"github.com/templui/datanexus/internal/ctxkeys"
	"github.com/templui/datanexus/internal/model"
	"github.com/templui/datanexus/internal/service"
)

// multipartOverhead leaves room for the form fields and part headers on top
// of the file itself.
const multipartOverhead = 1 << 20

type imageHandler struct {
	imageService   *service.ImageService
	uploadMaxBytes int64
}

func NewImageHandler(imageService *service.ImageService, uploadMaxBytes int64) *imageHandler {
	return &imageHandler{
		imageService:   imageService,
		uploadMaxBytes: uploadMaxBytes,
	}
}

type uploadResponse struct {
	Message string           `json:"message"`
	File    *model.ImageFile `json:"file"`
}

// List returns every category, or the files of one with ?category=.
func (h *imageHandler) List(w http.ResponseWriter, r *http.Request) {
	categoryID := r.URL.Query().Get("category")
	if categoryID != "" {
		listing, err := h.imageService.ListFiles(categoryID)
		if err != nil {
			handleError(w, r, err, "Failed to load images.")
			return
		}
		writeJSON(w, http.StatusOK, listing)
		return
	}

	categories, err := h.imageService.ListCategories()
	if err != nil {
		handleError(w, r, err, "Failed to load images.")
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *imageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.uploadMaxBytes+multipartOverhead)

	err := r.ParseMultipartForm(h.uploadMaxBytes)
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, http.StatusBadRequest, "File too large.")
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid upload payload.")
		return
	}

	categoryID := r.FormValue("category")
	if categoryID == "" {
		writeError(w, http.StatusBadRequest, "Category is required.")
		return
	}

	// unknown categories are reported before a missing file
	err = h.imageService.CheckCategory(categoryID)
	if err != nil {
		handleError(w, r, err, "Failed to upload image.")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Image file is required.")
		return
	}
	defer func() { _ = file.Close() }()

	if header.Size > h.uploadMaxBytes {
		writeError(w, http.StatusBadRequest, "File too large.")
		return
	}

	stored, err := h.imageService.Store(r.Context(), ctxkeys.Actor(r.Context()), categoryID, header.Filename, file)
	if err != nil {
		handleError(w, r, err, "Failed to upload image.")
		return
	}

	writeJSON(w, http.StatusCreated, uploadResponse{Message: "Image uploaded successfully.", File: stored})
}

func (h *imageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.imageService.Remove(r.Context(), ctxkeys.Actor(r.Context()), r.PathValue("category"), r.PathValue("filename"))
	if err != nil {
		handleError(w, r, err, "Failed to delete image.")
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Image deleted successfully."})
}
