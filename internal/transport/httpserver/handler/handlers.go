package handler

import (
	"family-chores-go/internal/transport/httpserver/handler/categories"
	"family-chores-go/internal/transport/httpserver/handler/common"
	"family-chores-go/internal/transport/httpserver/handler/families"
	"family-chores-go/internal/transport/httpserver/handler/tasks"
)

type Handlers struct {
	Common     *common.Handlers
	Tasks      *tasks.Handlers
	Categories *categories.Handlers
	Families   *families.Handlers
}

func New(common *common.Handlers, tasks *tasks.Handlers, categories *categories.Handlers, families *families.Handlers) *Handlers {
	return &Handlers{
		Common:     common,
		Tasks:      tasks,
		Categories: categories,
		Families:   families,
	}
}
