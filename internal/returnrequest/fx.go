package returnrequest

import (
	"github.com/smallbiznis/returnly/internal/returnrequest/domain"
	"github.com/smallbiznis/returnly/internal/returnrequest/service"
	"github.com/smallbiznis/returnly/pkg/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("returnrequest.service",
	fx.Provide(repository.ProvideStore[domain.ReturnRequest]),
	fx.Provide(repository.ProvideStore[domain.ReturnRequestItem]),
	fx.Provide(repository.ProvideStore[domain.StatusHistoryEntry]),
	fx.Provide(NewRecordStore),
	fx.Provide(service.NewService),
)
