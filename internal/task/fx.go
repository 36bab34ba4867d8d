package task

import (
	"github.com/tassot/tassot/internal/task/repository"
	"github.com/tassot/tassot/internal/task/service"
	"go.uber.org/fx"
)

var Module = fx.Module("task.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
