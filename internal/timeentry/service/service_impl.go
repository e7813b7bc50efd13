package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/praxisjuris/praxis/internal/config"
	timeentrydomain "github.com/praxisjuris/praxis/internal/timeentry/domain"
	"github.com/praxisjuris/praxis/pkg/db/option"
	"github.com/praxisjuris/praxis/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID     *snowflake.Node
	billing   *config.BillingConfigHolder
	entryRepo repository.Repository[timeentrydomain.TimeEntry]
}

type ServiceParam struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Billing *config.BillingConfigHolder
}

func NewService(p ServiceParam) timeentrydomain.Ledger {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("timeentry.service"),

		genID:     p.GenID,
		billing:   p.Billing,
		entryRepo: repository.ProvideStore[timeentrydomain.TimeEntry](p.DB),
	}
}

// normalize converts an instant into the practice's civil timezone. Callers
// parsing zone-naive input are expected to have read it in that zone already
// (domain.ParseTimestamp does), so conversion here never shifts civil time
// for naive input and correctly shifts it for zone-qualified input.
func (s *Service) normalize(t time.Time) time.Time {
	return t.In(s.billing.Get().Location())
}

func (s *Service) Create(ctx context.Context, req timeentrydomain.CreateRequest) (*timeentrydomain.TimeEntry, error) {
	taskID, err := snowflake.ParseString(req.TaskID)
	if err != nil {
		return nil, timeentrydomain.ErrInvalidTask
	}
	lawyerID, err := snowflake.ParseString(req.LawyerID)
	if err != nil {
		return nil, timeentrydomain.ErrInvalidLawyer
	}

	start := s.normalize(req.StartTime)
	end := s.normalize(req.EndTime)
	if !start.Before(end) {
		return nil, timeentrydomain.ErrInvalidInterval
	}

	entry := &timeentrydomain.TimeEntry{
		ID:          s.genID.Generate(),
		TaskID:      taskID,
		LawyerID:    lawyerID,
		StartTime:   start,
		EndTime:     end,
		Duration:    timeentrydomain.DurationHours(start, end),
		Description: req.Description,
		BilledState: timeentrydomain.BilledStateUnbilled,
	}
	if err := s.entryRepo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *Service) CreateByDuration(ctx context.Context, req timeentrydomain.CreateByDurationRequest) (*timeentrydomain.TimeEntry, error) {
	if req.Hours <= 0 {
		return nil, timeentrydomain.ErrInvalidDuration
	}
	end := req.StartTime.Add(time.Duration(req.Hours * float64(time.Hour)))
	return s.Create(ctx, timeentrydomain.CreateRequest{
		TaskID:      req.TaskID,
		LawyerID:    req.LawyerID,
		StartTime:   req.StartTime,
		EndTime:     end,
		Description: req.Description,
	})
}

func (s *Service) Update(ctx context.Context, req timeentrydomain.UpdateRequest) (*timeentrydomain.TimeEntry, error) {
	entry, err := s.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}

	if req.StartTime != nil || req.EndTime != nil {
		// Re-validate against the final interval, falling back to the
		// stored endpoint for whichever side was not supplied.
		start := entry.StartTime
		end := entry.EndTime
		if req.StartTime != nil {
			start = s.normalize(*req.StartTime)
			updates["start_time"] = start
		}
		if req.EndTime != nil {
			end = s.normalize(*req.EndTime)
			updates["end_time"] = end
		}
		if !start.Before(end) {
			return nil, timeentrydomain.ErrInvalidInterval
		}
		updates["duration"] = timeentrydomain.DurationHours(start, end)
	}

	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if len(updates) == 0 {
		return entry, nil
	}

	if err := s.entryRepo.Update(ctx, entry.ID.String(), updates); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, req.ID)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	entry, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	// Entries consumed by an issued invoice stay on the ledger; only the
	// task-deactivation cascade removes them.
	if entry.BilledState != timeentrydomain.BilledStateUnbilled {
		return timeentrydomain.ErrEntryBilled
	}
	return s.entryRepo.Delete(ctx, entry.ID.String())
}

func (s *Service) GetByID(ctx context.Context, id string) (*timeentrydomain.TimeEntry, error) {
	entryID, err := snowflake.ParseString(id)
	if err != nil {
		return nil, timeentrydomain.ErrInvalidID
	}
	entry, err := s.entryRepo.FindOne(ctx, &timeentrydomain.TimeEntry{ID: entryID})
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, timeentrydomain.ErrNotFound
	}
	return entry, nil
}

func (s *Service) List(ctx context.Context, req timeentrydomain.ListRequest) ([]*timeentrydomain.TimeEntry, error) {
	filter := &timeentrydomain.TimeEntry{}
	if req.TaskID != "" {
		taskID, err := snowflake.ParseString(req.TaskID)
		if err != nil {
			return nil, timeentrydomain.ErrInvalidTask
		}
		filter.TaskID = taskID
	}
	if req.LawyerID != "" {
		lawyerID, err := snowflake.ParseString(req.LawyerID)
		if err != nil {
			return nil, timeentrydomain.ErrInvalidLawyer
		}
		filter.LawyerID = lawyerID
	}

	return s.entryRepo.Find(ctx, filter,
		option.WithTimeRange("start_time", req.PeriodStart, req.PeriodEnd),
		option.WithSortBy(option.QuerySortBy{
			Allow:  map[string]bool{"start_time": true},
			SortBy: "start_time",
		}),
	)
}

func (s *Service) CascadeDeleteByTask(ctx context.Context, taskID snowflake.ID) error {
	return s.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Delete(&timeentrydomain.TimeEntry{}).Error
}
