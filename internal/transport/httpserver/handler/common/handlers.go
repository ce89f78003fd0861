package common

import (
	userdomain "family-chores-go/internal/domain/user"
	"family-chores-go/pkg/logger"
)

type Handlers struct {
	Users *userdomain.Service
	log   logger.Logger
}

func New(users *userdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Users: users,
		log:   logger.OrNop(log),
	}
}
