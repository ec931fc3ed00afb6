package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/garnizeh/sitecms/pkg/repository"
)

type TranslationsHandler struct {
	repo repository.TranslationRepo
}

func NewTranslationsHandler(repo repository.TranslationRepo) *TranslationsHandler {
	return &TranslationsHandler{repo: repo}
}

type translationsPayload struct {
	Locale  string            `json:"locale" validate:"required,notblank"`
	Entries map[string]string `json:"entries" validate:"required,min=1"`
}

func (h *TranslationsHandler) Get(w http.ResponseWriter, r *http.Request) {
	locale := strings.TrimSpace(r.URL.Query().Get("locale"))
	if locale == "" {
		writeError(w, http.StatusBadRequest, "locale is required")
		return
	}

	rows, err := h.repo.ListTranslations(r.Context(), locale)
	if err != nil {
		writeInternal(w, r, "Error fetching translations", err)
		return
	}

	entries := make(map[string]string, len(rows))
	for _, t := range rows {
		entries[t.Key] = t.Value
	}
	writeJSON(w, translationsPayload{Locale: locale, Entries: entries}, http.StatusOK)
}

func (h *TranslationsHandler) Locales(w http.ResponseWriter, r *http.Request) {
	locales, err := h.repo.ListLocales(r.Context())
	if err != nil {
		writeInternal(w, r, "Error fetching locales", err)
		return
	}
	writeJSON(w, locales, http.StatusOK)
}

// Put upserts every entry of the payload for its locale.
func (h *TranslationsHandler) Put(w http.ResponseWriter, r *http.Request) {
	var req translationsPayload
	if !decodeAndValidate(w, r, &req) {
		return
	}
	req.Locale = strings.TrimSpace(req.Locale)
	for k := range req.Entries {
		if strings.TrimSpace(k) == "" {
			writeError(w, http.StatusBadRequest, "translation keys must not be empty")
			return
		}
	}

	if err := h.repo.UpsertTranslations(r.Context(), req.Locale, req.Entries); err != nil {
		writeInternal(w, r, "Error saving translations", err)
		return
	}
	writeJSON(w, messageResponse{Message: "Translations saved"}, http.StatusOK)
}

func (h *TranslationsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	locale, key := q.Get("locale"), q.Get("key")
	if locale == "" || key == "" {
		writeError(w, http.StatusBadRequest, "locale and key are required")
		return
	}

	if err := h.repo.DeleteTranslation(r.Context(), locale, key); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Translation not found")
			return
		}
		writeInternal(w, r, "Error deleting translation", err)
		return
	}
	writeJSON(w, messageResponse{Message: "Translation deleted"}, http.StatusOK)
}
