package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"liveform/internal/model"
	"liveform/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps the error kinds of the core to HTTP statuses. All of
// them are client-facing rejections; anything unrecognized is a 500.
func writeServiceError(w http.ResponseWriter, err error) {
	var validationErr *model.ValidationError
	var notFoundErr *model.NotFoundError
	var stateErr *model.InvalidStateError

	switch {
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, validationErr.Error())
	case errors.As(err, &notFoundErr):
		writeError(w, http.StatusNotFound, notFoundErr.Error())
	case errors.As(err, &stateErr):
		writeError(w, http.StatusConflict, stateErr.Error())
	case errors.Is(err, model.ErrAliasTaken):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, model.ErrNotOwner):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
