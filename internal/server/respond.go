package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"franchise-league/internal/constants"
	apperrors "franchise-league/internal/errors"

	"github.com/rs/zerolog"
)

type errorBody struct {
	Kind    apperrors.Kind    `json:"kind"`
	Message string            `json:"message"`
	Issues  []apperrors.Issue `json:"issues,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

// StatusFor maps an error kind to the HTTP status it is reported with.
func StatusFor(err error) int {
	switch apperrors.GetKind(err) {
	case apperrors.KindValidation, apperrors.KindInvalidRange, apperrors.KindEmptyInput:
		return http.StatusBadRequest
	case apperrors.KindSemanticIntegrity:
		return http.StatusUnprocessableEntity
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func errorPayload(err error) errorResponse {
	body := errorBody{Kind: apperrors.GetKind(err), Message: apperrors.Message(err)}
	var integrity *apperrors.SemanticIntegrityError
	if errors.As(err, &integrity) {
		body.Issues = integrity.Issues
	}
	if body.Kind == apperrors.KindInternal {
		body.Message = "internal error"
	}
	return errorResponse{Error: body}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	log := zerolog.Ctx(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	} else {
		log.Debug().Err(err).Int("status", status).Msg("request rejected")
	}
	writeJSON(w, status, errorPayload(err))
}

// decodeBody reads an optional JSON body into v. An empty body leaves v
// untouched.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, constants.MaxRequestBodyLen)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return apperrors.Validationf("Invalid request body: %v", err)
	}
	return nil
}
