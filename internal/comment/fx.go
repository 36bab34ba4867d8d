package comment

import (
	"github.com/tassot/tassot/internal/comment/repository"
	"github.com/tassot/tassot/internal/comment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("comment.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
