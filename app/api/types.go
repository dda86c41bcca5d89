package api

import (
	"github.com/lysyi3m/mention-comb/app/config"
	"github.com/lysyi3m/mention-comb/app/state"
	"github.com/lysyi3m/mention-comb/app/tasks"
)

type Handler struct {
	store     *state.Store
	keywords  *config.Keywords
	scheduler tasks.TaskSchedulerInterface
}
