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
	tedomain "github.com/praxisjuris/praxis/internal/timeentry/domain"
	"github.com/praxisjuris/praxis/internal/timeentry/service"
)

func setup(t *testing.T) (*gorm.DB, tedomain.Ledger, *snowflake.Node) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&tedomain.TimeEntry{}))

	genID, err := snowflake.NewNode(3)
	require.NoError(t, err)

	cfg := config.DefaultBillingConfig()
	cfg.Timezone = "UTC"

	svc := service.NewService(service.ServiceParam{
		DB:      db,
		Log:     zap.NewNop(),
		GenID:   genID,
		Billing: config.NewStaticBillingConfigHolder(cfg),
	})
	return db, svc, genID
}

func TestCreate_ComputesDuration(t *testing.T) {
	_, svc, genID := setup(t)
	ctx := context.Background()

	start := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	entry, err := svc.Create(ctx, tedomain.CreateRequest{
		TaskID:      genID.Generate().String(),
		LawyerID:    genID.Generate().String(),
		StartTime:   start,
		EndTime:     start.Add(90 * time.Minute),
		Description: "audiencia",
	})
	require.NoError(t, err)

	assert.InDelta(t, 1.5, entry.Duration, 1e-9)
	assert.Equal(t, tedomain.BilledStateUnbilled, entry.BilledState)
}

func TestCreate_RejectsInvertedInterval(t *testing.T) {
	_, svc, genID := setup(t)
	ctx := context.Background()

	start := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)

	_, err := svc.Create(ctx, tedomain.CreateRequest{
		TaskID:    genID.Generate().String(),
		LawyerID:  genID.Generate().String(),
		StartTime: start,
		EndTime:   start.Add(-time.Hour),
	})
	assert.ErrorIs(t, err, tedomain.ErrInvalidInterval)

	// Zero-length intervals are rejected too.
	_, err = svc.Create(ctx, tedomain.CreateRequest{
		TaskID:    genID.Generate().String(),
		LawyerID:  genID.Generate().String(),
		StartTime: start,
		EndTime:   start,
	})
	assert.ErrorIs(t, err, tedomain.ErrInvalidInterval)
}

func TestCreateByDuration(t *testing.T) {
	_, svc, genID := setup(t)
	ctx := context.Background()

	start := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	entry, err := svc.CreateByDuration(ctx, tedomain.CreateByDurationRequest{
		TaskID:    genID.Generate().String(),
		LawyerID:  genID.Generate().String(),
		StartTime: start,
		Hours:     2.5,
	})
	require.NoError(t, err)

	assert.InDelta(t, 2.5, entry.Duration, 1e-9)
	assert.Equal(t, start.Add(150*time.Minute), entry.EndTime.UTC())

	_, err = svc.CreateByDuration(ctx, tedomain.CreateByDurationRequest{
		TaskID:    genID.Generate().String(),
		LawyerID:  genID.Generate().String(),
		StartTime: start,
		Hours:     0,
	})
	assert.ErrorIs(t, err, tedomain.ErrInvalidDuration)
}

func TestUpdate_RecomputesDurationFromFinalInterval(t *testing.T) {
	_, svc, genID := setup(t)
	ctx := context.Background()

	start := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	entry, err := svc.Create(ctx, tedomain.CreateRequest{
		TaskID:    genID.Generate().String(),
		LawyerID:  genID.Generate().String(),
		StartTime: start,
		EndTime:   start.Add(2 * time.Hour),
	})
	require.NoError(t, err)

	// Moving only the end recomputes against the stored start.
	newEnd := start.Add(4 * time.Hour)
	updated, err := svc.Update(ctx, tedomain.UpdateRequest{
		ID:      entry.ID.String(),
		EndTime: &newEnd,
	})
	require.NoError(t, err)
	assert.InDelta(t, 4.0, updated.Duration, 1e-9)

	// An update that would invert the stored interval is rejected.
	badStart := start.Add(6 * time.Hour)
	_, err = svc.Update(ctx, tedomain.UpdateRequest{
		ID:        entry.ID.String(),
		StartTime: &badStart,
	})
	assert.ErrorIs(t, err, tedomain.ErrInvalidInterval)
}

func TestList_FiltersByTaskAndPeriod(t *testing.T) {
	_, svc, genID := setup(t)
	ctx := context.Background()

	taskID := genID.Generate().String()
	lawyerID := genID.Generate().String()

	mk := func(start time.Time) {
		_, err := svc.Create(ctx, tedomain.CreateRequest{
			TaskID:    taskID,
			LawyerID:  lawyerID,
			StartTime: start,
			EndTime:   start.Add(time.Hour),
		})
		require.NoError(t, err)
	}
	mk(time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC))
	mk(time.Date(2025, 3, 20, 9, 0, 0, 0, time.UTC))
	mk(time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC))

	got, err := svc.List(ctx, tedomain.ListRequest{
		TaskID:      taskID,
		PeriodStart: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	// Chronological order.
	assert.True(t, got[0].StartTime.Before(got[1].StartTime))
}

func TestDelete(t *testing.T) {
	_, svc, genID := setup(t)
	ctx := context.Background()

	start := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	entry, err := svc.Create(ctx, tedomain.CreateRequest{
		TaskID:    genID.Generate().String(),
		LawyerID:  genID.Generate().String(),
		StartTime: start,
		EndTime:   start.Add(time.Hour),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, entry.ID.String()))

	_, err = svc.GetByID(ctx, entry.ID.String())
	assert.ErrorIs(t, err, tedomain.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, entry.ID.String()), tedomain.ErrNotFound)
}

func TestDelete_RejectsBilledEntries(t *testing.T) {
	db, svc, genID := setup(t)
	ctx := context.Background()

	start := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	for _, state := range []tedomain.BilledState{
		tedomain.BilledStateBilled,
		tedomain.BilledStatePartiallyBilled,
	} {
		entry, err := svc.Create(ctx, tedomain.CreateRequest{
			TaskID:    genID.Generate().String(),
			LawyerID:  genID.Generate().String(),
			StartTime: start,
			EndTime:   start.Add(time.Hour),
		})
		require.NoError(t, err)

		require.NoError(t, db.Model(&tedomain.TimeEntry{}).
			Where("id = ?", entry.ID).
			Update("billed_state", state).Error)

		assert.ErrorIs(t, svc.Delete(ctx, entry.ID.String()), tedomain.ErrEntryBilled)

		var count int64
		require.NoError(t, db.Model(&tedomain.TimeEntry{}).
			Where("id = ?", entry.ID).
			Count(&count).Error)
		assert.EqualValues(t, 1, count)
	}
}

func TestCascadeDeleteByTask(t *testing.T) {
	db, svc, genID := setup(t)
	ctx := context.Background()

	taskID := genID.Generate()
	otherTask := genID.Generate()
	lawyerID := genID.Generate().String()

	for i := 0; i < 3; i++ {
		start := time.Date(2025, 3, 3+i, 9, 0, 0, 0, time.UTC)
		_, err := svc.Create(ctx, tedomain.CreateRequest{
			TaskID:    taskID.String(),
			LawyerID:  lawyerID,
			StartTime: start,
			EndTime:   start.Add(time.Hour),
		})
		require.NoError(t, err)
	}
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	_, err := svc.Create(ctx, tedomain.CreateRequest{
		TaskID:    otherTask.String(),
		LawyerID:  lawyerID,
		StartTime: start,
		EndTime:   start.Add(time.Hour),
	})
	require.NoError(t, err)

	require.NoError(t, svc.CascadeDeleteByTask(ctx, taskID))

	var count int64
	require.NoError(t, db.Model(&tedomain.TimeEntry{}).Where("task_id = ?", taskID).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&tedomain.TimeEntry{}).Where("task_id = ?", otherTask).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
