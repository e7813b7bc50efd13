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

	"github.com/praxisjuris/praxis/internal/config"
	taskdomain "github.com/praxisjuris/praxis/internal/task/domain"
	"github.com/praxisjuris/praxis/internal/task/service"
	tedomain "github.com/praxisjuris/praxis/internal/timeentry/domain"
	teservice "github.com/praxisjuris/praxis/internal/timeentry/service"
)

func setup(t *testing.T) (*gorm.DB, taskdomain.Service, tedomain.Ledger, *snowflake.Node) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&taskdomain.Task{}, &tedomain.TimeEntry{}))

	genID, err := snowflake.NewNode(4)
	require.NoError(t, err)

	cfg := config.DefaultBillingConfig()
	cfg.Timezone = "UTC"
	holder := config.NewStaticBillingConfigHolder(cfg)

	ledger := teservice.NewService(teservice.ServiceParam{
		DB:      db,
		Log:     zap.NewNop(),
		GenID:   genID,
		Billing: holder,
	})
	svc := service.NewService(service.ServiceParam{
		DB:     db,
		Log:    zap.NewNop(),
		GenID:  genID,
		Ledger: ledger,
	})
	return db, svc, ledger, genID
}

func TestCreate_ValidatesBillingModel(t *testing.T) {
	_, svc, _, genID := setup(t)
	ctx := context.Background()

	clientID := genID.Generate().String()

	task, err := svc.Create(ctx, taskdomain.CreateRequest{
		ClientID:     clientID,
		Title:        "demanda laboral",
		BillingModel: "Monthly_Subscription",
		Currency:     "cop",
	})
	require.NoError(t, err)
	assert.Equal(t, taskdomain.BillingModelMonthlySubscription, task.BillingModel)
	assert.Equal(t, "COP", task.Currency)

	_, err = svc.Create(ctx, taskdomain.CreateRequest{
		ClientID:     clientID,
		Title:        "otro",
		BillingModel: "retainer",
	})
	assert.ErrorIs(t, err, taskdomain.ErrUnknownBillingModel)

	_, err = svc.Create(ctx, taskdomain.CreateRequest{
		ClientID:          clientID,
		Title:             "otro",
		BillingModel:      taskdomain.BillingModelMonthlySubscription,
		MonthlyLimitHours: -1,
	})
	assert.ErrorIs(t, err, taskdomain.ErrInvalidLimit)
}

func TestDelete_CascadesTimeEntries(t *testing.T) {
	db, svc, ledger, genID := setup(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, taskdomain.CreateRequest{
		ClientID:     genID.Generate().String(),
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

	require.NoError(t, svc.Delete(ctx, task.ID.String()))

	var stored taskdomain.Task
	require.NoError(t, db.First(&stored, "id = ?", task.ID).Error)
	assert.False(t, stored.Active)

	var count int64
	require.NoError(t, db.Model(&tedomain.TimeEntry{}).Where("task_id = ?", task.ID).Count(&count).Error)
	assert.Zero(t, count)

	// Deactivated tasks drop out of listings.
	got, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDeactivateByClient(t *testing.T) {
	db, svc, _, genID := setup(t)
	ctx := context.Background()

	clientID := genID.Generate()
	other := genID.Generate()

	for _, title := range []string{"uno", "dos"} {
		_, err := svc.Create(ctx, taskdomain.CreateRequest{
			ClientID:     clientID.String(),
			Title:        title,
			BillingModel: taskdomain.BillingModelHourly,
		})
		require.NoError(t, err)
	}
	kept, err := svc.Create(ctx, taskdomain.CreateRequest{
		ClientID:     other.String(),
		Title:        "ajeno",
		BillingModel: taskdomain.BillingModelHourly,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeactivateByClient(ctx, clientID))

	var active int64
	require.NoError(t, db.Model(&taskdomain.Task{}).
		Where("client_id = ? AND active = ?", clientID, true).
		Count(&active).Error)
	assert.Zero(t, active)

	stored, err := svc.GetByID(ctx, kept.ID.String())
	require.NoError(t, err)
	assert.True(t, stored.Active)
}

func TestUpdate(t *testing.T) {
	_, svc, _, genID := setup(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, taskdomain.CreateRequest{
		ClientID:     genID.Generate().String(),
		Title:        "litigio",
		BillingModel: taskdomain.BillingModelFixedRate,
		FixedValue:   1000000,
	})
	require.NoError(t, err)

	newValue := 2000000.0
	updated, err := svc.Update(ctx, taskdomain.UpdateRequest{
		ID:         task.ID.String(),
		FixedValue: &newValue,
	})
	require.NoError(t, err)
	assert.InDelta(t, 2000000.0, updated.FixedValue, 1e-6)

	empty := "  "
	_, err = svc.Update(ctx, taskdomain.UpdateRequest{ID: task.ID.String(), Title: &empty})
	assert.ErrorIs(t, err, taskdomain.ErrInvalidTitle)
}
