package tasks

import (
	categoriesdomain "family-chores-go/internal/domain/categories"
	tasksdomain "family-chores-go/internal/domain/tasks"
	"family-chores-go/pkg/logger"
)

type Handlers struct {
	Tasks          *tasksdomain.Service
	Categories     *categoriesdomain.Service
	deadlineLayout string
	log            logger.Logger
}

func New(tasks *tasksdomain.Service, categories *categoriesdomain.Service, deadlineLayout string, log logger.Logger) *Handlers {
	return &Handlers{
		Tasks:          tasks,
		Categories:     categories,
		deadlineLayout: deadlineLayout,
		log:            logger.OrNop(log),
	}
}
