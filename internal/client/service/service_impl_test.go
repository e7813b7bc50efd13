package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	clientdomain "github.com/praxisjuris/praxis/internal/client/domain"
	"github.com/praxisjuris/praxis/internal/client/service"
	"github.com/praxisjuris/praxis/internal/config"
	taskdomain "github.com/praxisjuris/praxis/internal/task/domain"
	taskservice "github.com/praxisjuris/praxis/internal/task/service"
	tedomain "github.com/praxisjuris/praxis/internal/timeentry/domain"
	teservice "github.com/praxisjuris/praxis/internal/timeentry/service"
)

func setup(t *testing.T) (*gorm.DB, clientdomain.Service, taskdomain.Service, tedomain.Ledger, *snowflake.Node) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&clientdomain.Client{},
		&taskdomain.Task{},
		&tedomain.TimeEntry{},
	))

	genID, err := snowflake.NewNode(5)
	require.NoError(t, err)

	cfg := config.DefaultBillingConfig()
	cfg.Timezone = "UTC"
	holder := config.NewStaticBillingConfigHolder(cfg)

	ledger := teservice.NewService(teservice.ServiceParam{
		DB: db, Log: zap.NewNop(), GenID: genID, Billing: holder,
	})
	taskSvc := taskservice.NewService(taskservice.ServiceParam{
		DB: db, Log: zap.NewNop(), GenID: genID, Ledger: ledger,
	})
	clientSvc := service.NewService(service.ServiceParam{
		DB: db, Log: zap.NewNop(), GenID: genID, TaskSvc: taskSvc,
	})
	return db, clientSvc, taskSvc, ledger, genID
}

func TestCreate_RequiresName(t *testing.T) {
	_, svc, _, _, _ := setup(t)

	_, err := svc.Create(context.Background(), clientdomain.CreateRequest{Name: "  "})
	assert.ErrorIs(t, err, clientdomain.ErrInvalidName)
}

func TestDeactivate_CascadesTasksAndEntries(t *testing.T) {
	db, svc, taskSvc, ledger, genID := setup(t)
	ctx := context.Background()

	client, err := svc.Create(ctx, clientdomain.CreateRequest{
		Name: "Acme SAS", NIT: "900123456-7", City: "Bogotá", Permanent: true,
	})
	require.NoError(t, err)

	task, err := taskSvc.Create(ctx, taskdomain.CreateRequest{
		ClientID:     client.ID.String(),
		Title:        "litigio",
		BillingModel: taskdomain.BillingModelHourly,
	})
	require.NoError(t, err)

	start := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	_, err = ledger.Create(ctx, tedomain.CreateRequest{
		TaskID:    task.ID.String(),
		LawyerID:  genID.Generate().String(),
		StartTime: start,
		EndTime:   start.Add(time.Hour),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(ctx, client.ID.String()))

	var stored clientdomain.Client
	require.NoError(t, db.First(&stored, "id = ?", client.ID).Error)
	assert.False(t, stored.Active)

	var activeTasks int64
	require.NoError(t, db.Model(&taskdomain.Task{}).
		Where("client_id = ? AND active = ?", client.ID, true).
		Count(&activeTasks).Error)
	assert.Zero(t, activeTasks)

	var entries int64
	require.NoError(t, db.Model(&tedomain.TimeEntry{}).
		Where("task_id = ?", task.ID).
		Count(&entries).Error)
	assert.Zero(t, entries)

	// Inactive clients drop out of listings.
	got, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCreate_DuplicateName(t *testing.T) {
	_, svc, _, _, _ := setup(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, clientdomain.CreateRequest{Name: "Acme SAS"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, clientdomain.CreateRequest{Name: "Acme SAS"})
	assert.ErrorIs(t, err, clientdomain.ErrAlreadyExists)
}
