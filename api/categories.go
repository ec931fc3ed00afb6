package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/garnizeh/sitecms/pkg/models"
	"github.com/garnizeh/sitecms/pkg/repository"
)

type CategoriesHandler struct {
	repo repository.CategoryRepo
}

func NewCategoriesHandler(repo repository.CategoryRepo) *CategoriesHandler {
	return &CategoriesHandler{repo: repo}
}

type categoryInUseResponse struct {
	Message      string `json:"message"`
	InUse        bool   `json:"inUse"`
	CanReassign  bool   `json:"canReassign"`
	ProductCount int64  `json:"productCount"`
}

type categoryDeletedResponse struct {
	Message    string `json:"message"`
	Reassigned int64  `json:"reassigned"`
}

func (h *CategoriesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, present, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return
	}

	if present {
		c, err := h.repo.GetCategory(r.Context(), id)
		if err != nil {
			writeInternal(w, r, "Error fetching category", err)
			return
		}
		if c == nil {
			writeError(w, http.StatusNotFound, "Category not found")
			return
		}
		writeJSON(w, c, http.StatusOK)
		return
	}

	list, err := h.repo.ListCategories(r.Context())
	if err != nil {
		writeInternal(w, r, "Error fetching categories", err)
		return
	}
	writeJSON(w, list, http.StatusOK)
}

func (h *CategoriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var c models.Category
	if !decodeAndValidate(w, r, &c) {
		return
	}
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	c.ID = 0
	if _, err := h.repo.CreateCategory(r.Context(), &c); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			writeError(w, http.StatusConflict, "A category with this name already exists")
			return
		}
		writeInternal(w, r, "Error creating category", err)
		return
	}
	writeJSON(w, c, http.StatusCreated)
}

// Update renames or re-describes a category. Products referencing the old
// name follow the rename.
func (h *CategoriesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r)
	if !ok {
		return
	}

	var c models.Category
	if !decodeAndValidate(w, r, &c) {
		return
	}
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	c.ID = id

	if err := h.repo.UpdateCategory(r.Context(), &c); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusNotFound, "Category not found")
		case errors.Is(err, repository.ErrConflict):
			writeError(w, http.StatusConflict, "A category with this name already exists")
		default:
			writeInternal(w, r, "Error updating category", err)
		}
		return
	}

	updated, err := h.repo.GetCategory(r.Context(), id)
	if err != nil || updated == nil {
		writeInternal(w, r, "Error fetching category", err)
		return
	}
	writeJSON(w, updated, http.StatusOK)
}

// Delete removes a category. A category still used by products is only
// removed when ?reassignTo= names another existing category.
func (h *CategoriesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r)
	if !ok {
		return
	}
	reassignTo := strings.TrimSpace(r.URL.Query().Get("reassignTo"))

	reassigned, err := h.repo.DeleteCategory(r.Context(), id, reassignTo)
	if err != nil {
		var inUse *repository.CategoryInUseError
		switch {
		case errors.As(err, &inUse):
			writeJSON(w, categoryInUseResponse{
				Message:      fmt.Sprintf("Category is used by %d product(s). Reassign them to another category before deleting.", inUse.ProductCount),
				InUse:        true,
				CanReassign:  true,
				ProductCount: inUse.ProductCount,
			}, http.StatusBadRequest)
		case errors.Is(err, repository.ErrInvalidReassignment):
			writeError(w, http.StatusBadRequest, "Invalid reassignment target category")
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusNotFound, "Category not found")
		default:
			writeInternal(w, r, "Error deleting category", err)
		}
		return
	}

	msg := "Category deleted successfully"
	if reassigned > 0 {
		msg = fmt.Sprintf("Category deleted; %d product(s) moved to %q", reassigned, reassignTo)
	}
	writeJSON(w, categoryDeletedResponse{Message: msg, Reassigned: reassigned}, http.StatusOK)
}
