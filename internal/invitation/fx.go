package invitation

import (
	"github.com/tassot/tassot/internal/invitation/repository"
	"github.com/tassot/tassot/internal/invitation/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invitation.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
