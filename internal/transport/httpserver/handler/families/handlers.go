package families

import (
	"net/http"

	familydomain "family-chores-go/internal/domain/family"
	commonhandler "family-chores-go/internal/transport/httpserver/handler/common"
	"family-chores-go/pkg/logger"
)

type Handlers struct {
	Families *familydomain.Service
	log      logger.Logger
}

func New(families *familydomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Families: families,
		log:      logger.OrNop(log),
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	commonhandler.WriteError(w, status, code, message)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	commonhandler.WriteJSON(w, status, payload)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	return commonhandler.DecodeJSON(r, dst)
}
