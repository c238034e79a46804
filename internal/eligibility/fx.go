package eligibility

import (
	"github.com/smallbiznis/returnly/internal/eligibility/service"
	"go.uber.org/fx"
)

var Module = fx.Module("eligibility.service",
	fx.Provide(service.NewEvaluator),
	fx.Provide(service.NewAggregator),
)
