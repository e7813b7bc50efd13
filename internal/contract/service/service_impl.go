package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	clientdomain "github.com/praxisjuris/praxis/internal/client/domain"
	contractdomain "github.com/praxisjuris/praxis/internal/contract/domain"
	"github.com/praxisjuris/praxis/pkg/db/option"
	"github.com/praxisjuris/praxis/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID        *snowflake.Node
	contractRepo repository.Repository[contractdomain.Contract]
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

func NewService(p ServiceParam) contractdomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("contract.service"),

		genID:        p.GenID,
		contractRepo: repository.ProvideStore[contractdomain.Contract](p.DB),
	}
}

func (s *Service) Create(ctx context.Context, req contractdomain.CreateRequest) (*contractdomain.Contract, error) {
	clientID, err := snowflake.ParseString(req.ClientID)
	if err != nil {
		return nil, clientdomain.ErrInvalidID
	}
	if req.TotalValue <= 0 {
		return nil, contractdomain.ErrInvalidValue
	}

	contract := &contractdomain.Contract{
		ID:          s.genID.Generate(),
		ClientID:    clientID,
		Description: strings.TrimSpace(req.Description),
		TotalValue:  req.TotalValue,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Active:      true,
	}
	if err := s.contractRepo.Create(ctx, contract); err != nil {
		return nil, err
	}
	return contract, nil
}

func (s *Service) ListByClient(ctx context.Context, clientID string) ([]*contractdomain.Contract, error) {
	id, err := snowflake.ParseString(clientID)
	if err != nil {
		return nil, clientdomain.ErrInvalidID
	}
	return s.contractRepo.Find(ctx, &contractdomain.Contract{ClientID: id},
		option.WithSortBy(option.QuerySortBy{
			Allow:  map[string]bool{"created_at": true},
			SortBy: "created_at",
			Order:  "desc",
		}),
	)
}

func (s *Service) GetByID(ctx context.Context, id string) (*contractdomain.Contract, error) {
	contractID, err := snowflake.ParseString(id)
	if err != nil {
		return nil, contractdomain.ErrInvalidID
	}
	contract, err := s.contractRepo.FindOne(ctx, &contractdomain.Contract{ID: contractID})
	if err != nil {
		return nil, err
	}
	if contract == nil {
		return nil, contractdomain.ErrNotFound
	}
	return contract, nil
}

func (s *Service) Update(ctx context.Context, req contractdomain.UpdateRequest) (*contractdomain.Contract, error) {
	contract, err := s.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.Description != nil {
		updates["description"] = strings.TrimSpace(*req.Description)
	}
	if req.TotalValue != nil {
		if *req.TotalValue <= 0 {
			return nil, contractdomain.ErrInvalidValue
		}
		updates["total_value"] = *req.TotalValue
	}
	if req.EndDate != nil {
		updates["end_date"] = *req.EndDate
	}
	if len(updates) == 0 {
		return contract, nil
	}

	if err := s.contractRepo.Update(ctx, contract.ID.String(), updates); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, req.ID)
}
