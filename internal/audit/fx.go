package audit

import (
	"github.com/smallbiznis/returnly/internal/audit/repository"
	"github.com/smallbiznis/returnly/internal/audit/service"
	"go.uber.org/fx"
)

// Module wires the audit trail behind settings changes and return submissions.
var Module = fx.Module("audit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
