package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"hearthshare-backend/internal/domain"
	"hearthshare-backend/internal/logger"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			logger.Error("response encoding failed", "error", err)
		}
	}
}

// writeError maps error kinds to HTTP statuses. Unclassified errors surface
// as 503 with no detail so storage failures never leak.
func writeError(w http.ResponseWriter, err error) {
	kind := domain.KindOf(err)

	var status int
	switch kind {
	case domain.KindNotAuthenticated:
		status = http.StatusUnauthorized
	case domain.KindNotFound:
		status = http.StatusNotFound
	case domain.KindAlreadyExists, domain.KindCapacityExceeded, domain.KindConflict:
		status = http.StatusConflict
	case domain.KindInsufficientPermissions:
		status = http.StatusForbidden
	case domain.KindInsufficientBalance:
		status = http.StatusPaymentRequired
	case domain.KindValidationFailed:
		status = http.StatusBadRequest
	default:
		status = http.StatusServiceUnavailable
	}

	resp := errorResponse{Error: string(kind)}
	var de *domain.Error
	if errors.As(err, &de) && kind != domain.KindUnavailable {
		resp.Message = de.Message
	}
	if status >= 500 {
		logger.Error("request failed", "kind", kind, "error", err)
	}
	writeJSON(w, status, resp)
}

func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.E(domain.KindValidationFailed, "invalid request body")
	}
	return nil
}
