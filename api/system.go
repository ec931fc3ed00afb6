package api

import (
	"context"
	"fmt"
	"net/http"

	"log/slog"
)

// Initializer prepares the database; see internal/schema.
type Initializer interface {
	Initialize(ctx context.Context) error
	Initialized() bool
}

type SystemHandler struct {
	initializer Initializer
}

func NewSystemHandler(initializer Initializer) *SystemHandler {
	return &SystemHandler{initializer: initializer}
}

type initResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (h *SystemHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"ok","service":"sitecms","initialized":%t}`+"\n", h.initializer.Initialized())
}

func (h *SystemHandler) VersionHandler(version, buildTime string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"version":"%s","buildTime":"%s"}`, version, buildTime)
	}
}

// InitDB runs the database initializer on demand. Re-running it is safe.
func (h *SystemHandler) InitDB(w http.ResponseWriter, r *http.Request) {
	if err := h.initializer.Initialize(r.Context()); err != nil {
		logger.Error("database initialization failed", slog.Any("err", err))
		writeJSON(w, initResponse{Success: false, Message: "Database initialization failed"}, http.StatusInternalServerError)
		return
	}
	writeJSON(w, initResponse{Success: true, Message: "Database initialized successfully"}, http.StatusOK)
}
