package activity

import (
	"context"

	"github.com/tassot/tassot/internal/activity/domain"
	"github.com/tassot/tassot/internal/activity/repository"
	"github.com/tassot/tassot/internal/activity/service"
	"go.uber.org/fx"
)

var Module = fx.Module("activity.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
	fx.Provide(func(s *service.Service) domain.Service { return s }),
	fx.Invoke(registerHooks),
)

func registerHooks(lc fx.Lifecycle, s *service.Service) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			_ = ctx
			s.Close()
			return nil
		},
	})
}
