package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

func provide() *Metrics {
	return New(prometheus.DefaultRegisterer)
}

// Module registers the billing instruments on the default registry.
var Module = fx.Module("observability.metrics",
	fx.Provide(provide),
)
