package identity

import (
	"github.com/tassot/tassot/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("identity",
	fx.Provide(NewFromConfig),
)

func NewFromConfig(cfg config.Config) Verifier {
	return NewHTTPVerifier(cfg.Identity.ProviderURL)
}
