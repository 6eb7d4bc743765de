package api

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/MichalMitros/pod-sync/internal/handler"
	"github.com/MichalMitros/pod-sync/internal/platform"
	"github.com/MichalMitros/pod-sync/internal/provider/registry"
	"github.com/MichalMitros/pod-sync/internal/taskqueue"
	"github.com/go-chi/chi/v5/middleware"
)

type errorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}

// respondErr writes err with status matching its kind. Unexpected errors are logged and hidden.
func (a *API) respondErr(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validationErr *platform.ValidationError
		rateLimitErr  *platform.RateLimitError
		authErr       *platform.AuthError
		providerErr   *platform.ProviderError
	)

	switch {
	case errors.As(err, &validationErr):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: validationErr.Error(), Fields: validationErr.Fields})
	case errors.Is(err, platform.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, handler.ErrInvalidSignature):
		respondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, taskqueue.ErrNotCancellable),
		errors.Is(err, taskqueue.ErrNotRetryable),
		errors.Is(err, registry.ErrRevoked):
		respondError(w, http.StatusConflict, err.Error())
	case errors.As(err, &rateLimitErr):
		w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(rateLimitErr.RetryAfter.Seconds()))))
		respondError(w, http.StatusServiceUnavailable, err.Error())
	case errors.As(err, &authErr), errors.As(err, &providerErr), platform.IsRetryable(err):
		respondError(w, http.StatusBadGateway, err.Error())
	default:
		a.log.Error().
			Err(err).
			Str("requestId", middleware.GetReqID(r.Context())).
			Str("path", r.URL.Path).
			Msg("request failed")
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}
