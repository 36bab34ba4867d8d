package ai

import (
	"github.com/tassot/tassot/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("providers.ai",
	fx.Provide(NewFromConfig),
)

func NewFromConfig(cfg config.Config) Drafter {
	return NewHTTP(Config{
		BaseURL: cfg.AI.ProviderURL,
		APIKey:  cfg.AI.APIKey,
	})
}
