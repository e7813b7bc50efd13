package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	lawyerdomain "github.com/praxisjuris/praxis/internal/lawyer/domain"
	"github.com/praxisjuris/praxis/pkg/repository"
	"gorm.io/gorm"
)

type rateResolver struct {
	lawyerRepo repository.Repository[lawyerdomain.Lawyer]
}

func NewRateResolver(db *gorm.DB) lawyerdomain.RateResolver {
	return &rateResolver{
		lawyerRepo: repository.ProvideStore[lawyerdomain.Lawyer](db),
	}
}

func (r *rateResolver) HourlyRate(ctx context.Context, lawyerID snowflake.ID) (float64, error) {
	lawyer, err := r.lawyerRepo.FindOne(ctx, &lawyerdomain.Lawyer{ID: lawyerID})
	if err != nil {
		return 0, err
	}
	if lawyer == nil {
		return 0, lawyerdomain.ErrNotFound
	}
	return lawyer.HourlyRate, nil
}

func (r *rateResolver) HourlyRates(ctx context.Context, lawyerIDs []snowflake.ID) (map[snowflake.ID]float64, error) {
	rates := make(map[snowflake.ID]float64, len(lawyerIDs))
	for _, id := range lawyerIDs {
		if _, ok := rates[id]; ok {
			continue
		}
		rate, err := r.HourlyRate(ctx, id)
		if err != nil {
			return nil, err
		}
		rates[id] = rate
	}
	return rates, nil
}
