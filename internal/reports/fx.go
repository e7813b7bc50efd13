package reports

import (
	"github.com/praxisjuris/praxis/internal/reports/service"
	"go.uber.org/fx"
)

var Module = fx.Module("reports.service",
	fx.Provide(service.NewService),
)
