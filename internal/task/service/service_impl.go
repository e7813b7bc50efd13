package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	taskdomain "github.com/praxisjuris/praxis/internal/task/domain"
	timeentrydomain "github.com/praxisjuris/praxis/internal/timeentry/domain"
	"github.com/praxisjuris/praxis/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID    *snowflake.Node
	taskRepo repository.Repository[taskdomain.Task]
	ledger   timeentrydomain.Ledger
}

type ServiceParam struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	GenID  *snowflake.Node
	Ledger timeentrydomain.Ledger
}

func NewService(p ServiceParam) taskdomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("task.service"),

		genID:    p.GenID,
		taskRepo: repository.ProvideStore[taskdomain.Task](p.DB),
		ledger:   p.Ledger,
	}
}

func (s *Service) Create(ctx context.Context, req taskdomain.CreateRequest) (*taskdomain.Task, error) {
	clientID, err := snowflake.ParseString(req.ClientID)
	if err != nil {
		return nil, taskdomain.ErrInvalidClient
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, taskdomain.ErrInvalidTitle
	}
	model, err := taskdomain.ParseBillingModel(string(req.BillingModel))
	if err != nil {
		return nil, err
	}
	if req.MonthlyLimitHours < 0 {
		return nil, taskdomain.ErrInvalidLimit
	}

	task := &taskdomain.Task{
		ID:                s.genID.Generate(),
		ClientID:          clientID,
		Title:             title,
		Area:              strings.TrimSpace(req.Area),
		BillingModel:      model,
		Currency:          strings.ToUpper(strings.TrimSpace(req.Currency)),
		FixedValue:        req.FixedValue,
		SubscriptionFee:   req.SubscriptionFee,
		MonthlyLimitHours: req.MonthlyLimitHours,
		Active:            true,
	}
	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *Service) List(ctx context.Context, clientID string) ([]*taskdomain.Task, error) {
	filter := &taskdomain.Task{Active: true}
	if clientID != "" {
		id, err := snowflake.ParseString(clientID)
		if err != nil {
			return nil, taskdomain.ErrInvalidClient
		}
		filter.ClientID = id
	}
	return s.taskRepo.Find(ctx, filter)
}

func (s *Service) GetByID(ctx context.Context, id string) (*taskdomain.Task, error) {
	taskID, err := snowflake.ParseString(id)
	if err != nil {
		return nil, taskdomain.ErrInvalidID
	}
	task, err := s.taskRepo.FindOne(ctx, &taskdomain.Task{ID: taskID})
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, taskdomain.ErrNotFound
	}
	return task, nil
}

func (s *Service) Update(ctx context.Context, req taskdomain.UpdateRequest) (*taskdomain.Task, error) {
	task, err := s.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, taskdomain.ErrInvalidTitle
		}
		updates["title"] = title
	}
	if req.Area != nil {
		updates["area"] = strings.TrimSpace(*req.Area)
	}
	if req.FixedValue != nil {
		updates["fixed_value"] = *req.FixedValue
	}
	if req.SubscriptionFee != nil {
		updates["subscription_fee"] = *req.SubscriptionFee
	}
	if req.MonthlyLimitHours != nil {
		if *req.MonthlyLimitHours < 0 {
			return nil, taskdomain.ErrInvalidLimit
		}
		updates["monthly_limit_hours"] = *req.MonthlyLimitHours
	}
	if len(updates) == 0 {
		return task, nil
	}

	if err := s.taskRepo.Update(ctx, task.ID.String(), updates); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, req.ID)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	task, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	// Entries of a removed task go with it; they are not re-validated
	// one by one.
	if err := s.ledger.CascadeDeleteByTask(ctx, task.ID); err != nil {
		return err
	}
	return s.taskRepo.Update(ctx, task.ID.String(), map[string]any{"active": false})
}

func (s *Service) DeactivateByClient(ctx context.Context, clientID snowflake.ID) error {
	tasks, err := s.taskRepo.Find(ctx, &taskdomain.Task{ClientID: clientID, Active: true})
	if err != nil {
		return err
	}
	for _, task := range tasks {
		if err := s.Delete(ctx, task.ID.String()); err != nil {
			return err
		}
	}
	return nil
}
