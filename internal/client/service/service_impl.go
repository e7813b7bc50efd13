package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	clientdomain "github.com/praxisjuris/praxis/internal/client/domain"
	taskdomain "github.com/praxisjuris/praxis/internal/task/domain"
	"github.com/praxisjuris/praxis/pkg/db"
	"github.com/praxisjuris/praxis/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID      *snowflake.Node
	clientRepo repository.Repository[clientdomain.Client]
	taskSvc    taskdomain.Service
}

type ServiceParam struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	TaskSvc taskdomain.Service
}

func NewService(p ServiceParam) clientdomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("client.service"),

		genID:      p.GenID,
		clientRepo: repository.ProvideStore[clientdomain.Client](p.DB),
		taskSvc:    p.TaskSvc,
	}
}

func (s *Service) Create(ctx context.Context, req clientdomain.CreateRequest) (*clientdomain.Client, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, clientdomain.ErrInvalidName
	}

	client := &clientdomain.Client{
		ID:        s.genID.Generate(),
		Name:      name,
		NIT:       strings.TrimSpace(req.NIT),
		Email:     strings.TrimSpace(req.Email),
		City:      strings.TrimSpace(req.City),
		Permanent: req.Permanent,
		Active:    true,
	}
	if err := s.clientRepo.Create(ctx, client); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, clientdomain.ErrAlreadyExists
		}
		return nil, err
	}
	return client, nil
}

func (s *Service) List(ctx context.Context) ([]*clientdomain.Client, error) {
	return s.clientRepo.Find(ctx, &clientdomain.Client{Active: true})
}

func (s *Service) GetByID(ctx context.Context, id string) (*clientdomain.Client, error) {
	clientID, err := snowflake.ParseString(id)
	if err != nil {
		return nil, clientdomain.ErrInvalidID
	}
	client, err := s.clientRepo.FindOne(ctx, &clientdomain.Client{ID: clientID})
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, clientdomain.ErrNotFound
	}
	return client, nil
}

func (s *Service) Deactivate(ctx context.Context, id string) error {
	client, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.taskSvc.DeactivateByClient(ctx, client.ID); err != nil {
		return err
	}
	return s.clientRepo.Update(ctx, client.ID.String(), map[string]any{"active": false})
}
