package tasks

import (
	"encoding/json"
	"net/http"

	commonhandler "family-chores-go/internal/transport/httpserver/handler/common"
	"family-chores-go/internal/transport/httpserver/middleware"
)

func writeError(w http.ResponseWriter, status int, code, message string) {
	commonhandler.WriteError(w, status, code, message)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	commonhandler.WriteJSON(w, status, payload)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	return commonhandler.DecodeJSON(r, dst)
}

// userID is empty for anonymous requests; the services decide whether that
// is allowed.
func userID(r *http.Request) string {
	id, _ := middleware.UserIDFromContext(r.Context())
	return id
}

// nullableString tells an explicit null apart from an absent field.
type nullableString struct {
	Set   bool
	Value *string
}

func (n *nullableString) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	n.Value = &value
	return nil
}

// Cleared reports an explicit null or empty string.
func (n nullableString) Cleared() bool {
	return n.Set && (n.Value == nil || *n.Value == "")
}
