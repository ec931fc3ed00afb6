package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/garnizeh/sitecms/pkg/models"
	"github.com/garnizeh/sitecms/pkg/repository"
)

type JobOpeningsHandler struct {
	repo repository.JobOpeningRepo
}

func NewJobOpeningsHandler(repo repository.JobOpeningRepo) *JobOpeningsHandler {
	return &JobOpeningsHandler{repo: repo}
}

// jobOpeningRequest mirrors models.JobOpening; Active defaults to true when omitted.
type jobOpeningRequest struct {
	Title       string `json:"title" validate:"required,notblank"`
	Department  string `json:"department"`
	Location    string `json:"location" validate:"required,notblank"`
	Type        string `json:"type" validate:"required,notblank"`
	Description string `json:"description" validate:"required,notblank"`
	Active      *bool  `json:"active"`
}

func (req jobOpeningRequest) model(id int64) models.JobOpening {
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	return models.JobOpening{
		ID:          id,
		Title:       req.Title,
		Department:  req.Department,
		Location:    req.Location,
		Type:        req.Type,
		Description: req.Description,
		Active:      active,
	}
}

// Get serves a single opening by id, or the list. ?active=true hides inactive openings.
func (h *JobOpeningsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, present, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return
	}

	if present {
		j, err := h.repo.GetJobOpening(r.Context(), id)
		if err != nil {
			writeInternal(w, r, "Error fetching job opening", err)
			return
		}
		if j == nil {
			writeError(w, http.StatusNotFound, "Job opening not found")
			return
		}
		writeJSON(w, j, http.StatusOK)
		return
	}

	var f models.JobOpeningFilter
	if v := r.URL.Query().Get("active"); v != "" {
		activeOnly, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid active filter")
			return
		}
		f.ActiveOnly = activeOnly
	}

	list, err := h.repo.ListJobOpenings(r.Context(), f)
	if err != nil {
		writeInternal(w, r, "Error fetching job openings", err)
		return
	}
	writeJSON(w, list, http.StatusOK)
}

func (h *JobOpeningsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req jobOpeningRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	j := req.model(0)
	if _, err := h.repo.CreateJobOpening(r.Context(), &j); err != nil {
		writeInternal(w, r, "Error creating job opening", err)
		return
	}
	writeJSON(w, j, http.StatusCreated)
}

func (h *JobOpeningsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r)
	if !ok {
		return
	}

	var req jobOpeningRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	j := req.model(id)
	if err := h.repo.UpdateJobOpening(r.Context(), &j); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Job opening not found")
			return
		}
		writeInternal(w, r, "Error updating job opening", err)
		return
	}

	updated, err := h.repo.GetJobOpening(r.Context(), id)
	if err != nil || updated == nil {
		writeInternal(w, r, "Error fetching job opening", err)
		return
	}
	writeJSON(w, updated, http.StatusOK)
}

func (h *JobOpeningsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r)
	if !ok {
		return
	}

	if err := h.repo.DeleteJobOpening(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Job opening not found")
			return
		}
		writeInternal(w, r, "Error deleting job opening", err)
		return
	}
	writeJSON(w, messageResponse{Message: "Job opening deleted successfully"}, http.StatusOK)
}
