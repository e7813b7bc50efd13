package service

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	clientdomain "github.com/praxisjuris/praxis/internal/client/domain"
	"github.com/praxisjuris/praxis/internal/clock"
	"github.com/praxisjuris/praxis/internal/config"
	lawyerdomain "github.com/praxisjuris/praxis/internal/lawyer/domain"
	reportsdomain "github.com/praxisjuris/praxis/internal/reports/domain"
	taskdomain "github.com/praxisjuris/praxis/internal/task/domain"
	tedomain "github.com/praxisjuris/praxis/internal/timeentry/domain"
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	billing *config.BillingConfigHolder
	clock   clock.Clock
}

type ServiceParam struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Billing *config.BillingConfigHolder
	Clock   clock.Clock
}

func NewService(p ServiceParam) reportsdomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("reports.service"),

		billing: p.Billing,
		clock:   p.Clock,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// currentMonth returns [first of month, first of next month) in the practice
// timezone.
func (s *Service) currentMonth() reportsdomain.Period {
	loc := s.billing.Get().Location()
	now := s.clock.Now().In(loc)
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	return reportsdomain.Period{From: from, To: from.AddDate(0, 1, 0)}
}

// currentWeek returns [Monday, next Monday) in the practice timezone.
func (s *Service) currentWeek() reportsdomain.Period {
	loc := s.billing.Get().Location()
	now := s.clock.Now().In(loc)
	offset := (int(now.Weekday()) + 6) % 7
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc).
		AddDate(0, 0, -offset)
	return reportsdomain.Period{From: from, To: from.AddDate(0, 0, 7)}
}

func normalizePeriod(period, fallback reportsdomain.Period) (reportsdomain.Period, error) {
	if period.IsZero() {
		return fallback, nil
	}
	if period.From.IsZero() || period.To.IsZero() || !period.From.Before(period.To) {
		return reportsdomain.Period{}, reportsdomain.ErrInvalidPeriod
	}
	return period, nil
}

func (s *Service) entriesIn(ctx context.Context, period reportsdomain.Period) ([]*tedomain.TimeEntry, error) {
	var entries []*tedomain.TimeEntry
	err := s.db.WithContext(ctx).
		Where("start_time >= ? AND start_time < ?", period.From, period.To).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *Service) allLawyers(ctx context.Context) ([]*lawyerdomain.Lawyer, error) {
	var lawyers []*lawyerdomain.Lawyer
	if err := s.db.WithContext(ctx).Order("name asc").Find(&lawyers).Error; err != nil {
		return nil, err
	}
	return lawyers, nil
}

func hoursByLawyer(entries []*tedomain.TimeEntry) map[snowflake.ID]float64 {
	hours := make(map[snowflake.ID]float64)
	for _, e := range entries {
		hours[e.LawyerID] += e.Duration
	}
	return hours
}

func (s *Service) LawyerProfitability(ctx context.Context, period reportsdomain.Period) ([]*reportsdomain.LawyerProfitability, error) {
	period, err := normalizePeriod(period, s.currentMonth())
	if err != nil {
		return nil, err
	}
	lawyers, err := s.allLawyers(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := s.entriesIn(ctx, period)
	if err != nil {
		return nil, err
	}
	hours := hoursByLawyer(entries)

	out := make([]*reportsdomain.LawyerProfitability, 0, len(lawyers))
	for _, l := range lawyers {
		worked := round2(hours[l.ID])
		revenue := round2(worked * l.HourlyRate)
		out = append(out, &reportsdomain.LawyerProfitability{
			LawyerID:    l.ID,
			Name:        l.Name,
			WorkedHours: worked,
			Salary:      round2(l.Salary),
			Revenue:     revenue,
			Profit:      round2(revenue - l.Salary),
		})
	}
	return out, nil
}

func (s *Service) LawyerCostVsHours(ctx context.Context, period reportsdomain.Period) ([]*reportsdomain.LawyerCostVsHours, error) {
	period, err := normalizePeriod(period, s.currentMonth())
	if err != nil {
		return nil, err
	}
	lawyers, err := s.allLawyers(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := s.entriesIn(ctx, period)
	if err != nil {
		return nil, err
	}
	hours := hoursByLawyer(entries)

	out := make([]*reportsdomain.LawyerCostVsHours, 0, len(lawyers))
	for _, l := range lawyers {
		worked := round2(hours[l.ID])
		var perHour float64
		if worked > 0 {
			perHour = round2(l.HourlyRate - l.CostPerHour)
		}
		out = append(out, &reportsdomain.LawyerCostVsHours{
			LawyerID:          l.ID,
			Name:              l.Name,
			Salary:            round2(l.Salary),
			WorkedHours:       worked,
			CostPerHourFirm:   round2(l.CostPerHour),
			CostPerHourClient: round2(l.HourlyRate),
			Revenue:           round2(worked * l.HourlyRate),
			ProfitPerHour:     perHour,
		})
	}
	return out, nil
}

func (s *Service) LawyerWorkload(ctx context.Context) ([]*reportsdomain.LawyerWorkload, error) {
	period := s.currentWeek()
	lawyers, err := s.allLawyers(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := s.entriesIn(ctx, period)
	if err != nil {
		return nil, err
	}
	hours := hoursByLawyer(entries)

	out := make([]*reportsdomain.LawyerWorkload, 0, len(lawyers))
	for _, l := range lawyers {
		out = append(out, &reportsdomain.LawyerWorkload{
			LawyerID:      l.ID,
			Name:          l.Name,
			WorkedHours:   round2(hours[l.ID]),
			ExpectedHours: round2(l.WeeklyHours),
		})
	}
	return out, nil
}

func (s *Service) ClientContributions(ctx context.Context, period reportsdomain.Period) ([]*reportsdomain.ClientContribution, error) {
	period, err := normalizePeriod(period, s.currentWeek())
	if err != nil {
		return nil, err
	}
	entries, err := s.entriesIn(ctx, period)
	if err != nil {
		return nil, err
	}
	taskClient, _, err := s.taskIndex(ctx)
	if err != nil {
		return nil, err
	}
	clientNames, err := s.clientNames(ctx)
	if err != nil {
		return nil, err
	}
	lawyers, err := s.allLawyers(ctx)
	if err != nil {
		return nil, err
	}
	lawyerNames := make(map[snowflake.ID]string, len(lawyers))
	for _, l := range lawyers {
		lawyerNames[l.ID] = l.Name
	}

	totals := make(map[snowflake.ID]float64)
	perLawyer := make(map[snowflake.ID]map[snowflake.ID]float64)
	for _, e := range entries {
		clientID, ok := taskClient[e.TaskID]
		if !ok {
			continue
		}
		totals[clientID] += e.Duration
		if perLawyer[clientID] == nil {
			perLawyer[clientID] = make(map[snowflake.ID]float64)
		}
		perLawyer[clientID][e.LawyerID] += e.Duration
	}

	out := make([]*reportsdomain.ClientContribution, 0, len(totals))
	for clientID, total := range totals {
		contributions := make([]reportsdomain.Contribution, 0, len(perLawyer[clientID]))
		for lawyerID, h := range perLawyer[clientID] {
			var pct float64
			if total > 0 {
				pct = round2(h / total * 100)
			}
			contributions = append(contributions, reportsdomain.Contribution{
				LawyerID: lawyerID,
				Name:     lawyerNames[lawyerID],
				Hours:    round2(h),
				Percent:  pct,
			})
		}
		sort.Slice(contributions, func(i, j int) bool {
			return contributions[i].Hours > contributions[j].Hours
		})
		out = append(out, &reportsdomain.ClientContribution{
			ClientID:      clientID,
			Name:          clientNames[clientID],
			TotalHours:    round2(total),
			Contributions: contributions,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TotalHours > out[j].TotalHours })
	return out, nil
}

func (s *Service) HoursByClient(ctx context.Context, period reportsdomain.Period) ([]*reportsdomain.ClientHours, error) {
	period, err := normalizePeriod(period, s.currentMonth())
	if err != nil {
		return nil, err
	}
	entries, err := s.entriesIn(ctx, period)
	if err != nil {
		return nil, err
	}
	taskClient, taskTitles, err := s.taskIndex(ctx)
	if err != nil {
		return nil, err
	}
	clientNames, err := s.clientNames(ctx)
	if err != nil {
		return nil, err
	}

	totals := make(map[snowflake.ID]float64)
	perTask := make(map[snowflake.ID]map[snowflake.ID]float64)
	for _, e := range entries {
		clientID, ok := taskClient[e.TaskID]
		if !ok {
			continue
		}
		totals[clientID] += e.Duration
		if perTask[clientID] == nil {
			perTask[clientID] = make(map[snowflake.ID]float64)
		}
		perTask[clientID][e.TaskID] += e.Duration
	}

	out := make([]*reportsdomain.ClientHours, 0, len(totals))
	for clientID, total := range totals {
		tasks := make([]reportsdomain.TaskHours, 0, len(perTask[clientID]))
		for taskID, h := range perTask[clientID] {
			tasks = append(tasks, reportsdomain.TaskHours{
				TaskID: taskID,
				Title:  taskTitles[taskID],
				Hours:  round2(h),
			})
		}
		sort.Slice(tasks, func(i, j int) bool { return tasks[i].Hours > tasks[j].Hours })
		out = append(out, &reportsdomain.ClientHours{
			ClientID:   clientID,
			Name:       clientNames[clientID],
			TotalHours: round2(total),
			Tasks:      tasks,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TotalHours > out[j].TotalHours })
	return out, nil
}

func (s *Service) OfficeSummary(ctx context.Context, period reportsdomain.Period) (*reportsdomain.OfficeSummary, error) {
	period, err := normalizePeriod(period, s.currentMonth())
	if err != nil {
		return nil, err
	}
	lawyers, err := s.allLawyers(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := s.entriesIn(ctx, period)
	if err != nil {
		return nil, err
	}

	rates := make(map[snowflake.ID]float64, len(lawyers))
	var salaries float64
	for _, l := range lawyers {
		rates[l.ID] = l.HourlyRate
		salaries += l.Salary
	}

	var totalHours, revenue float64
	for _, e := range entries {
		totalHours += e.Duration
		revenue += e.Duration * rates[e.LawyerID]
	}

	return &reportsdomain.OfficeSummary{
		TotalSalaries: round2(salaries),
		TotalHours:    round2(totalHours),
		TotalRevenue:  round2(revenue),
		Profit:        round2(revenue - salaries),
	}, nil
}

func (s *Service) taskIndex(ctx context.Context) (map[snowflake.ID]snowflake.ID, map[snowflake.ID]string, error) {
	var tasks []*taskdomain.Task
	if err := s.db.WithContext(ctx).Find(&tasks).Error; err != nil {
		return nil, nil, err
	}
	clients := make(map[snowflake.ID]snowflake.ID, len(tasks))
	titles := make(map[snowflake.ID]string, len(tasks))
	for _, t := range tasks {
		clients[t.ID] = t.ClientID
		titles[t.ID] = t.Title
	}
	return clients, titles, nil
}

func (s *Service) clientNames(ctx context.Context) (map[snowflake.ID]string, error) {
	var clients []*clientdomain.Client
	if err := s.db.WithContext(ctx).Find(&clients).Error; err != nil {
		return nil, err
	}
	names := make(map[snowflake.ID]string, len(clients))
	for _, c := range clients {
		names[c.ID] = c.Name
	}
	return names, nil
}
