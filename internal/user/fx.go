package user

import (
	"github.com/tassot/tassot/internal/user/repository"
	"github.com/tassot/tassot/internal/user/service"
	"go.uber.org/fx"
)

var Module = fx.Module("user.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
