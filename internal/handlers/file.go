package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/crucial707/fileserve/internal/filestore"
	"github.com/crucial707/fileserve/internal/metrics"
	"github.com/crucial707/fileserve/internal/models"
	"github.com/go-chi/chi/v5"
)

// ==========================
// FileHandler
// ==========================
type FileHandler struct {
	Store *filestore.Store
}

// ==========================
// Upload (multipart "file" field)
// ==========================
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			metrics.RecordUpload("rejected", 0)
			JSONStatusError(w, http.StatusRequestEntityTooLarge)
			return
		}
		metrics.RecordUpload("rejected", 0)
		JSONError(w, "multipart field 'file' is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	info, err := h.Store.Save(file, header.Filename)
	if err != nil {
		h.writeSaveError(w, err)
		return
	}

	metrics.RecordUpload("stored", info.Size)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(info)
}

func (h *FileHandler) writeSaveError(w http.ResponseWriter, err error) {
	var maxErr *http.MaxBytesError
	switch {
	case errors.Is(err, filestore.ErrBadName):
		metrics.RecordUpload("rejected", 0)
		JSONError(w, "invalid filename", http.StatusBadRequest)
	case errors.Is(err, filestore.ErrExtNotAllowed):
		metrics.RecordUpload("rejected", 0)
		JSONStatusError(w, http.StatusUnsupportedMediaType)
	case errors.Is(err, filestore.ErrTooLarge), errors.As(err, &maxErr):
		metrics.RecordUpload("rejected", 0)
		JSONStatusError(w, http.StatusRequestEntityTooLarge)
	case errors.Is(err, filestore.ErrExists):
		metrics.RecordUpload("rejected", 0)
		JSONStatusError(w, http.StatusConflict)
	default:
		metrics.RecordUpload("error", 0)
		slog.Error("store upload failed", "error", err)
		JSONStatusError(w, http.StatusInternalServerError)
	}
}

// ==========================
// List Files
// ==========================
func (h *FileHandler) ListFiles(w http.ResponseWriter, r *http.Request) {
	files, err := h.Store.List()
	if err != nil {
		slog.Error("list files failed", "error", err)
		JSONStatusError(w, http.StatusInternalServerError)
		return
	}
	if files == nil {
		files = []models.FileInfo{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(files)
}

// ==========================
// Download File
// ==========================
func (h *FileHandler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	f, info, err := h.Store.Open(name)
	if err != nil {
		if errors.Is(err, filestore.ErrNotFound) || errors.Is(err, filestore.ErrBadName) {
			JSONStatusError(w, http.StatusNotFound)
			return
		}
		slog.Error("open file failed", "error", err)
		JSONStatusError(w, http.StatusInternalServerError)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Disposition", `attachment; filename="`+info.Name+`"`)
	http.ServeContent(w, r, info.Name, info.Modified, f)
}

// ==========================
// Delete File
// ==========================
func (h *FileHandler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	if err := h.Store.Delete(name); err != nil {
		if errors.Is(err, filestore.ErrNotFound) || errors.Is(err, filestore.ErrBadName) {
			JSONStatusError(w, http.StatusNotFound)
			return
		}
		slog.Error("delete file failed", "error", err)
		JSONStatusError(w, http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
