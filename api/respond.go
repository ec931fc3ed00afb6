package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/gorilla/mux"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report json field names instead of Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

type messageResponse struct {
	Message string `json:"message"`
}

// ValidationError represents a field validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type validationResponse struct {
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors"`
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response", slog.Any("err", err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, messageResponse{Message: msg}, status)
}

// writeInternal logs err with detail and answers with a generic message.
func writeInternal(w http.ResponseWriter, r *http.Request, msg string, err error) {
	logger.Error(msg,
		slog.Any("err", err),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("request_id", r.Context().Value(CtxRequestID)),
	)
	writeError(w, http.StatusInternalServerError, msg)
}

// decodeAndValidate decodes a JSON request body into v and validates its struct tags.
// On failure it writes the 400 response and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}

	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return false
		}
		writeJSON(w, validationResponse{Message: "Validation failed", Errors: formatValidationErrors(verrs)}, http.StatusBadRequest)
		return false
	}

	return true
}

func formatValidationErrors(verrs validator.ValidationErrors) []ValidationError {
	out := make([]ValidationError, 0, len(verrs))
	for _, e := range verrs {
		out = append(out, ValidationError{Field: e.Field(), Message: validationMessage(e)})
	}
	return out
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required", "notblank":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " is too short"
	case "max":
		return e.Field() + " is too long"
	default:
		return e.Field() + " is invalid"
	}
}

// idParam reads the resource id from the {id} path variable or the ?id= query parameter.
// present is false when neither is set.
func idParam(r *http.Request) (id int64, present bool, err error) {
	raw, found := mux.Vars(r)["id"]
	if !found {
		raw = r.URL.Query().Get("id")
	}
	if raw == "" {
		return 0, false, nil
	}

	id, err = strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, true, errors.New("invalid id")
	}
	return id, true, nil
}

// requireID writes a 400 response when the request carries no valid id.
func requireID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, present, err := idParam(r)
	if !present {
		writeError(w, http.StatusBadRequest, "id is required")
		return 0, false
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return id, true
}
