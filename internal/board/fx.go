package board

import (
	"github.com/tassot/tassot/internal/board/repository"
	"github.com/tassot/tassot/internal/board/service"
	"go.uber.org/fx"
)

var Module = fx.Module("board.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
