package lawyer

import (
	"github.com/praxisjuris/praxis/internal/lawyer/service"
	"go.uber.org/fx"
)

var Module = fx.Module("lawyer.service",
	fx.Provide(service.NewService),
	fx.Provide(service.NewRateResolver),
)
