package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/garnizeh/sitecms/internal/assets"
)

type CatalogHandler struct {
	catalog  *assets.Catalog
	maxBytes int64
}

func NewCatalogHandler(c *assets.Catalog, maxBytes int64) *CatalogHandler {
	return &CatalogHandler{catalog: c, maxBytes: maxBytes}
}

type catalogUploadRequest struct {
	Catalog  string `json:"catalog" validate:"required"`
	FileName string `json:"fileName"`
}

type catalogUploadResponse struct {
	Message     string    `json:"message"`
	LastUpdated time.Time `json:"lastUpdated"`
	FileName    string    `json:"fileName"`
}

// Upload replaces the current catalog with a base64 (or data URL) encoded PDF.
func (h *CatalogHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	}

	var req catalogUploadRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	meta, err := h.catalog.Upload(r.Context(), req.Catalog, req.FileName)
	if err != nil {
		if errors.Is(err, assets.ErrInvalidPayload) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeInternal(w, r, "Error saving catalog", err)
		return
	}

	writeJSON(w, catalogUploadResponse{
		Message:     "Catalog uploaded successfully",
		LastUpdated: meta.LastUpdated,
		FileName:    meta.FileName,
	}, http.StatusOK)
}

func (h *CatalogHandler) Status(w http.ResponseWriter, r *http.Request) {
	st, err := h.catalog.Status(r.Context())
	if err != nil {
		writeInternal(w, r, "Error reading catalog", err)
		return
	}
	writeJSON(w, st, http.StatusOK)
}

func (h *CatalogHandler) Download(w http.ResponseWriter, r *http.Request) {
	_, data, err := h.catalog.Open(r.Context())
	if err != nil {
		if errors.Is(err, assets.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Catalog not found")
			return
		}
		writeInternal(w, r, "Error reading catalog", err)
		return
	}

	w.Header().Set("Content-Type", assets.CatalogMIMEType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", h.catalog.DownloadName()))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		logger.Warn("catalog download interrupted", "err", err)
	}
}

func (h *CatalogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Delete(r.Context()); err != nil {
		if errors.Is(err, assets.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Catalog not found")
			return
		}
		writeInternal(w, r, "Error deleting catalog", err)
		return
	}
	writeJSON(w, messageResponse{Message: "Catalog deleted successfully"}, http.StatusOK)
}
