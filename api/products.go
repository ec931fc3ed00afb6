package api

import (
	"errors"
	"net/http"

	"github.com/garnizeh/sitecms/pkg/models"
	"github.com/garnizeh/sitecms/pkg/repository"
)

type ProductsHandler struct {
	repo repository.ProductRepo
}

func NewProductsHandler(repo repository.ProductRepo) *ProductsHandler {
	return &ProductsHandler{repo: repo}
}

// Get serves GET /api/products. With an id (path or ?id=) it returns one
// product, otherwise the list, optionally narrowed by ?category=.
func (h *ProductsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, present, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return
	}

	if present {
		p, err := h.repo.GetProduct(r.Context(), id)
		if err != nil {
			writeInternal(w, r, "Error fetching product", err)
			return
		}
		if p == nil {
			writeError(w, http.StatusNotFound, "Product not found")
			return
		}
		writeJSON(w, p, http.StatusOK)
		return
	}

	list, err := h.repo.ListProducts(r.Context(), models.ProductFilter{Category: r.URL.Query().Get("category")})
	if err != nil {
		writeInternal(w, r, "Error fetching products", err)
		return
	}
	writeJSON(w, list, http.StatusOK)
}

func (h *ProductsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var p models.Product
	if !decodeAndValidate(w, r, &p) {
		return
	}

	p.ID = 0
	if _, err := h.repo.CreateProduct(r.Context(), &p); err != nil {
		writeInternal(w, r, "Error creating product", err)
		return
	}
	writeJSON(w, p, http.StatusCreated)
}

func (h *ProductsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r)
	if !ok {
		return
	}

	var p models.Product
	if !decodeAndValidate(w, r, &p) {
		return
	}
	p.ID = id

	if err := h.repo.UpdateProduct(r.Context(), &p); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Product not found")
			return
		}
		writeInternal(w, r, "Error updating product", err)
		return
	}

	updated, err := h.repo.GetProduct(r.Context(), id)
	if err != nil || updated == nil {
		writeInternal(w, r, "Error fetching product", err)
		return
	}
	writeJSON(w, updated, http.StatusOK)
}

func (h *ProductsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r)
	if !ok {
		return
	}

	if err := h.repo.DeleteProduct(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Product not found")
			return
		}
		writeInternal(w, r, "Error deleting product", err)
		return
	}
	writeJSON(w, messageResponse{Message: "Product deleted successfully"}, http.StatusOK)
}
