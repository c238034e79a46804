package settings

import (
	"github.com/smallbiznis/returnly/internal/cache"
	"github.com/smallbiznis/returnly/internal/settings/service"
	"go.uber.org/fx"
)

var Module = fx.Module("settings.service",
	fx.Provide(cache.NewSettingsResolverCache),
	fx.Provide(service.NewService),
)
