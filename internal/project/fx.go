package project

import (
	"github.com/tassot/tassot/internal/project/repository"
	"github.com/tassot/tassot/internal/project/service"
	"go.uber.org/fx"
)

var Module = fx.Module("project.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
