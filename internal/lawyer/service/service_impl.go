package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	lawyerdomain "github.com/praxisjuris/praxis/internal/lawyer/domain"
	"github.com/praxisjuris/praxis/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID      *snowflake.Node
	lawyerRepo repository.Repository[lawyerdomain.Lawyer]
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

func NewService(p ServiceParam) lawyerdomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("lawyer.service"),

		genID:      p.GenID,
		lawyerRepo: repository.ProvideStore[lawyerdomain.Lawyer](p.DB),
	}
}

func (s *Service) Create(ctx context.Context, req lawyerdomain.CreateRequest) (*lawyerdomain.Lawyer, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, lawyerdomain.ErrInvalidName
	}
	if req.HourlyRate < 0 {
		return nil, lawyerdomain.ErrInvalidRate
	}

	lawyer := &lawyerdomain.Lawyer{
		ID:          s.genID.Generate(),
		Name:        name,
		HourlyRate:  req.HourlyRate,
		CostPerHour: req.CostPerHour,
		Salary:      req.Salary,
		WeeklyHours: req.WeeklyHours,
		Active:      true,
	}
	if err := s.lawyerRepo.Create(ctx, lawyer); err != nil {
		return nil, err
	}
	return lawyer, nil
}

func (s *Service) List(ctx context.Context) ([]*lawyerdomain.Lawyer, error) {
	return s.lawyerRepo.Find(ctx, &lawyerdomain.Lawyer{Active: true})
}

func (s *Service) GetByID(ctx context.Context, id string) (*lawyerdomain.Lawyer, error) {
	lawyerID, err := snowflake.ParseString(id)
	if err != nil {
		return nil, lawyerdomain.ErrInvalidID
	}
	lawyer, err := s.lawyerRepo.FindOne(ctx, &lawyerdomain.Lawyer{ID: lawyerID})
	if err != nil {
		return nil, err
	}
	if lawyer == nil {
		return nil, lawyerdomain.ErrNotFound
	}
	return lawyer, nil
}

func (s *Service) Update(ctx context.Context, req lawyerdomain.UpdateRequest) (*lawyerdomain.Lawyer, error) {
	lawyer, err := s.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, lawyerdomain.ErrInvalidName
		}
		updates["name"] = name
	}
	if req.HourlyRate != nil {
		if *req.HourlyRate < 0 {
			return nil, lawyerdomain.ErrInvalidRate
		}
		updates["hourly_rate"] = *req.HourlyRate
	}
	if req.CostPerHour != nil {
		updates["cost_per_hour"] = *req.CostPerHour
	}
	if req.Salary != nil {
		updates["salary"] = *req.Salary
	}
	if req.WeeklyHours != nil {
		updates["weekly_hours"] = *req.WeeklyHours
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}
	if len(updates) == 0 {
		return lawyer, nil
	}

	if err := s.lawyerRepo.Update(ctx, lawyer.ID.String(), updates); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, req.ID)
}
