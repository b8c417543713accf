package http

import (
	"encoding/json"
	"net/http"

	"loan-advisor/domain"
)

type errorBody struct {
	Kind    domain.ErrorKind `json:"kind"`
	Message string           `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the structured error taxonomy onto status codes. Bare
// errors count as validation failures; engines only fail on bad input.
func writeError(w http.ResponseWriter, err error) {
	kind := domain.KindOf(err)

	code := http.StatusBadRequest
	switch kind {
	case domain.KindNotFound:
		code = http.StatusNotFound
	case domain.KindExternal:
		code = http.StatusBadGateway
	}

	writeJSON(w, code, errorResponse{Error: errorBody{Kind: kind, Message: err.Error()}})
}

// writeBadRequest reports a malformed request body.
func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{
		Error: errorBody{Kind: domain.KindValidation, Message: message},
	})
}
