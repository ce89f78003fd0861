package common

import (
	"encoding/json"
	"errors"
	"net/http"

	"family-chores-go/internal/domain/identity"
	"family-chores-go/internal/store"
	"family-chores-go/pkg/logger"
)

// StoreUnavailableMessage is shown to users when the backing store cannot
// be reached.
const StoreUnavailableMessage = "storage is temporarily unavailable, please try again"

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	writeError(w, status, code, message)
}

func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	writeJSON(w, status, payload)
}

func DecodeJSON(r *http.Request, dst interface{}) error {
	return decodeJSON(r, dst)
}

// WriteFailure handles errors no domain case matched: a missing caller is
// 401, a store outage is 503 and anything else is 500.
func WriteFailure(w http.ResponseWriter, log logger.Logger, message string, err error, args ...any) {
	log = logger.OrNop(log)
	switch {
	case errors.Is(err, identity.ErrUnauthenticated):
		log.BusinessError(message, err, args...)
		writeError(w, http.StatusUnauthorized, "unauthenticated", "sign in required")
	case errors.Is(err, store.ErrUnavailable):
		log.InternalError(message, err, args...)
		writeError(w, http.StatusServiceUnavailable, "store_unavailable", StoreUnavailableMessage)
	default:
		log.InternalError(message, err, args...)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}
