package main

import (
	"os"
	"strconv"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/praxisjuris/praxis/internal/client"
	"github.com/praxisjuris/praxis/internal/clock"
	"github.com/praxisjuris/praxis/internal/config"
	"github.com/praxisjuris/praxis/internal/contract"
	"github.com/praxisjuris/praxis/internal/invoice"
	"github.com/praxisjuris/praxis/internal/lawyer"
	"github.com/praxisjuris/praxis/internal/locks"
	"github.com/praxisjuris/praxis/internal/logger"
	"github.com/praxisjuris/praxis/internal/migration"
	"github.com/praxisjuris/praxis/internal/observability/metrics"
	"github.com/praxisjuris/praxis/internal/reports"
	"github.com/praxisjuris/praxis/internal/server"
	"github.com/praxisjuris/praxis/internal/task"
	"github.com/praxisjuris/praxis/internal/timeentry"
	"github.com/praxisjuris/praxis/pkg/db"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		metrics.Module,
		locks.Module,
		migration.Module,

		// Billing domains
		lawyer.Module,
		client.Module,
		task.Module,
		timeentry.Module,
		contract.Module,
		invoice.Module,
		reports.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() (*snowflake.Node, error) {
	nodeID := int64(1)
	if raw := os.Getenv("SNOWFLAKE_NODE_ID"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil {
			nodeID = parsed
		}
	}
	return snowflake.NewNode(nodeID)
}
