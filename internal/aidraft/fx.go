package aidraft

import (
	"github.com/tassot/tassot/internal/aidraft/service"
	"go.uber.org/fx"
)

var Module = fx.Module("aidraft.service",
	fx.Provide(service.NewService),
)
