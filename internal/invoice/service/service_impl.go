package service

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/praxisjuris/praxis/internal/billing"
	"github.com/praxisjuris/praxis/internal/clock"
	"github.com/praxisjuris/praxis/internal/config"
	contractdomain "github.com/praxisjuris/praxis/internal/contract/domain"
	"github.com/praxisjuris/praxis/internal/currency"
	invoicedomain "github.com/praxisjuris/praxis/internal/invoice/domain"
	lawyerdomain "github.com/praxisjuris/praxis/internal/lawyer/domain"
	"github.com/praxisjuris/praxis/internal/locks"
	"github.com/praxisjuris/praxis/internal/observability/metrics"
	taskdomain "github.com/praxisjuris/praxis/internal/task/domain"
	tedomain "github.com/praxisjuris/praxis/internal/timeentry/domain"
	"github.com/praxisjuris/praxis/pkg/db/option"
	"github.com/praxisjuris/praxis/pkg/db/pagination"
	"github.com/praxisjuris/praxis/pkg/repository"
)

// billedEpsilon matches the contract ledger's tolerance when a percentage
// invoice is billed directly against the task's fixed value.
const billedEpsilon = 1e-6

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID   *snowflake.Node
	billing *config.BillingConfigHolder
	clock   clock.Clock
	metrics *metrics.Metrics
	locker  locks.Locker
	rates   lawyerdomain.RateResolver

	invoiceRepo repository.Repository[invoicedomain.Invoice]
	itemRepo    repository.Repository[invoicedomain.InvoiceItem]
}

type ServiceParam struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Billing *config.BillingConfigHolder
	Clock   clock.Clock
	Metrics *metrics.Metrics `optional:"true"`
	Locker  locks.Locker
	Rates   lawyerdomain.RateResolver
}

func NewService(p ServiceParam) invoicedomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("invoice.service"),

		genID:   p.GenID,
		billing: p.Billing,
		clock:   p.Clock,
		metrics: p.Metrics,
		locker:  p.Locker,
		rates:   p.Rates,

		invoiceRepo: repository.ProvideStore[invoicedomain.Invoice](p.DB),
		itemRepo:    repository.ProvideStore[invoicedomain.InvoiceItem](p.DB),
	}
}

func (s *Service) Generate(ctx context.Context, req invoicedomain.GenerateRequest) (*invoicedomain.Invoice, error) {
	taskID, err := snowflake.ParseString(req.TaskID)
	if err != nil {
		return nil, taskdomain.ErrInvalidID
	}

	cfg := s.billing.Get()

	lockKey := fmt.Sprintf("invoice:task:%s", taskID)
	lockTTL := time.Duration(cfg.InvoiceLockTTLSeconds) * time.Second
	token, err := s.locker.TryLock(ctx, lockKey, lockTTL)
	if err != nil {
		if errors.Is(err, locks.ErrLockHeld) {
			s.metrics.IncLockContention()
			return nil, invoicedomain.ErrLocked
		}
		return nil, fmt.Errorf("%w: %v", invoicedomain.ErrExternalService, err)
	}
	defer func() {
		if err := s.locker.Release(context.WithoutCancel(ctx), lockKey, token); err != nil {
			s.log.Warn("release invoice lock", zap.String("key", lockKey), zap.Error(err))
		}
	}()

	started := time.Now()
	var inv *invoicedomain.Invoice
	err = s.withRetry(ctx, cfg, func(ctx context.Context) error {
		var txErr error
		inv, txErr = s.generateTx(ctx, cfg, taskID, req)
		return txErr
	})
	if err != nil {
		s.metrics.IncInvoiceError("", errKind(err))
		return nil, err
	}

	s.metrics.IncInvoiceIssued(string(inv.BillingModel), inv.Currency)
	s.metrics.ObserveInvoiceDuration(string(inv.BillingModel), time.Since(started))
	s.log.Info("invoice issued",
		zap.String("invoice_id", inv.ID.String()),
		zap.String("task_id", inv.TaskID.String()),
		zap.String("billing_model", string(inv.BillingModel)),
		zap.Float64("total", inv.Total),
		zap.String("currency", inv.Currency),
	)
	return inv, nil
}

// generateTx prices and persists one invoice inside a single transaction.
// Either the invoice, its items, the billed-state flips and the running
// totals all commit, or none of them do.
func (s *Service) generateTx(ctx context.Context, cfg config.BillingConfig, taskID snowflake.ID, req invoicedomain.GenerateRequest) (*invoicedomain.Invoice, error) {
	var inv *invoicedomain.Invoice

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var task taskdomain.Task
		if err := tx.First(&task, "id = ?", taskID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return taskdomain.ErrNotFound
			}
			return err
		}
		if !task.Active {
			return invoicedomain.ErrTaskInactive
		}

		model, err := taskdomain.ParseBillingModel(string(task.BillingModel))
		if err != nil {
			return err
		}

		code := req.Currency
		if code == "" {
			code = task.Currency
		}
		params := billing.PriceParams{
			Converter:    currency.NewConverter(currency.Code(cfg.BaseCurrency)),
			Currency:     currency.Code(code),
			ExchangeRate: req.ExchangeRate,
			TaxRate:      cfg.TaxRate,
			WithTax:      req.WithTax,
		}

		start, end, err := s.resolvePeriod(cfg, model, req)
		if err != nil {
			return err
		}

		var (
			quote       *billing.Quote
			contractID  *snowflake.ID
			modelFields datatypes.JSONMap
		)

		switch model {
		case taskdomain.BillingModelHourly:
			entries, err := listUnbilled(tx, taskID, start, end)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				return invoicedomain.ErrNothingToBill
			}
			rates, err := s.resolveRates(ctx, entries)
			if err != nil {
				return err
			}
			quote, err = billing.PriceHourly(entries, rates, params)
			if err != nil {
				return err
			}
			modelFields = datatypes.JSONMap{"total_hours": quote.TotalHours}

		case taskdomain.BillingModelFixedRate:
			quote, err = billing.PriceFixed(&task, params)
			if err != nil {
				return err
			}
			modelFields = datatypes.JSONMap{"fixed_value": task.FixedValue}

		case taskdomain.BillingModelMonthlySubscription:
			entries, err := listUnbilled(tx, taskID, start, end)
			if err != nil {
				return err
			}
			rates, err := s.resolveRates(ctx, entries)
			if err != nil {
				return err
			}
			quote, err = billing.PriceSubscription(&task, entries, rates, params)
			if err != nil {
				return err
			}
			modelFields = datatypes.JSONMap{
				"flat_fee":            quote.FlatFee,
				"overage_charge":      quote.OverageCharge,
				"covered_hours":       quote.CoveredHours,
				"overage_hours":       quote.OverageHours,
				"monthly_limit_hours": task.MonthlyLimitHours,
			}

		case taskdomain.BillingModelPercentage:
			quote, contractID, err = s.pricePercentage(tx, &task, req, params)
			if err != nil {
				return err
			}
			modelFields = datatypes.JSONMap{
				"percentage":      quote.Percentage,
				"reference_total": quote.ReferenceTotal,
			}
			if contractID != nil {
				modelFields["contract_id"] = contractID.String()
			}

		default:
			return taskdomain.ErrUnknownBillingModel
		}

		inv = &invoicedomain.Invoice{
			ID:           s.genID.Generate(),
			TaskID:       task.ID,
			ClientID:     task.ClientID,
			ContractID:   contractID,
			BillingModel: model,
			Currency:     string(quote.Currency),
			ExchangeRate: req.ExchangeRate,
			Subtotal:     quote.Subtotal,
			Tax:          quote.Tax,
			Total:        quote.Total,
			WithTax:      req.WithTax,
			ModelFields:  modelFields,
			IssuedAt:     s.clock.Now(),
		}
		if !start.IsZero() {
			inv.PeriodStart = &start
		}
		if !end.IsZero() {
			inv.PeriodEnd = &end
		}
		if err := tx.Create(inv).Error; err != nil {
			return err
		}

		if len(quote.Lines) > 0 {
			items := make([]*invoicedomain.InvoiceItem, 0, len(quote.Lines))
			for _, line := range quote.Lines {
				items = append(items, &invoicedomain.InvoiceItem{
					ID:          s.genID.Generate(),
					InvoiceID:   inv.ID,
					TimeEntryID: line.EntryID,
					LawyerID:    line.LawyerID,
					Description: line.Description,
					Hours:       line.Hours,
					Rate:        line.Rate,
					Amount:      line.Amount,
				})
			}
			if err := tx.Create(items).Error; err != nil {
				return err
			}
		}

		if err := markBilled(tx, quote.BilledEntryIDs, tedomain.BilledStateBilled); err != nil {
			return err
		}
		if err := markBilled(tx, quote.PartialEntryIDs, tedomain.BilledStatePartiallyBilled); err != nil {
			return err
		}

		s.metrics.AddEntriesBilled(len(quote.BilledEntryIDs) + len(quote.PartialEntryIDs))
		s.metrics.AddOverageHours(quote.OverageHours)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// pricePercentage prices a percentage slice and records it on the running
// ledger: the contract when one is named, the task itself otherwise.
func (s *Service) pricePercentage(tx *gorm.DB, task *taskdomain.Task, req invoicedomain.GenerateRequest, params billing.PriceParams) (*billing.Quote, *snowflake.ID, error) {
	if req.ContractID != "" {
		cid, err := snowflake.ParseString(req.ContractID)
		if err != nil {
			return nil, nil, contractdomain.ErrInvalidID
		}
		var contract contractdomain.Contract
		if err := tx.First(&contract, "id = ?", cid).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, contractdomain.ErrNotFound
			}
			return nil, nil, err
		}

		quote, err := billing.PricePercentage(req.Percentage, contract.TotalValue, params)
		if err != nil {
			return nil, nil, err
		}

		baseAmount := contract.TotalValue * req.Percentage / 100
		if err := contract.ApplyBilling(baseAmount, req.Percentage); err != nil {
			return nil, nil, err
		}
		err = tx.Model(&contractdomain.Contract{}).
			Where("id = ?", contract.ID).
			Updates(map[string]any{
				"cumulative_billed_amount":     contract.CumulativeBilledAmount,
				"cumulative_billed_percentage": contract.CumulativeBilledPercentage,
				"active":                       contract.Active,
			}).Error
		if err != nil {
			return nil, nil, err
		}
		return quote, &contract.ID, nil
	}

	quote, err := billing.PricePercentage(req.Percentage, task.FixedValue, params)
	if err != nil {
		return nil, nil, err
	}
	if task.CumulativeBilledPercentage+req.Percentage > 100+billedEpsilon {
		return nil, nil, contractdomain.ErrOverBilled
	}
	baseAmount := task.FixedValue * req.Percentage / 100
	err = tx.Model(&taskdomain.Task{}).
		Where("id = ?", task.ID).
		Updates(map[string]any{
			"cumulative_billed_amount":     task.CumulativeBilledAmount + baseAmount,
			"cumulative_billed_percentage": task.CumulativeBilledPercentage + req.Percentage,
		}).Error
	if err != nil {
		return nil, nil, err
	}
	return quote, nil, nil
}

// resolvePeriod validates the requested window and defaults subscriptions to
// the current calendar month in the practice timezone.
func (s *Service) resolvePeriod(cfg config.BillingConfig, model taskdomain.BillingModel, req invoicedomain.GenerateRequest) (time.Time, time.Time, error) {
	start, end := req.PeriodStart, req.PeriodEnd
	if !start.IsZero() && !end.IsZero() && !start.Before(end) {
		return time.Time{}, time.Time{}, invoicedomain.ErrInvalidPeriod
	}
	if model == taskdomain.BillingModelMonthlySubscription && start.IsZero() && end.IsZero() {
		loc := cfg.Location()
		now := s.clock.Now().In(loc)
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		end = start.AddDate(0, 1, 0)
	}
	return start, end, nil
}

func (s *Service) resolveRates(ctx context.Context, entries []*tedomain.TimeEntry) (billing.Rates, error) {
	ids := make([]snowflake.ID, 0, len(entries))
	seen := make(map[snowflake.ID]struct{}, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.LawyerID]; ok {
			continue
		}
		seen[e.LawyerID] = struct{}{}
		ids = append(ids, e.LawyerID)
	}
	rates, err := s.rates.HourlyRates(ctx, ids)
	if err != nil {
		return nil, err
	}
	return billing.Rates(rates), nil
}

func listUnbilled(tx *gorm.DB, taskID snowflake.ID, start, end time.Time) ([]*tedomain.TimeEntry, error) {
	q := tx.Where("task_id = ? AND billed_state = ?", taskID, tedomain.BilledStateUnbilled)
	if !start.IsZero() {
		q = q.Where("start_time >= ?", start)
	}
	if !end.IsZero() {
		q = q.Where("start_time < ?", end)
	}
	var entries []*tedomain.TimeEntry
	if err := q.Order("start_time asc").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func markBilled(tx *gorm.DB, ids []snowflake.ID, state tedomain.BilledState) error {
	if len(ids) == 0 {
		return nil
	}
	return tx.Model(&tedomain.TimeEntry{}).
		Where("id IN ?", ids).
		Update("billed_state", state).Error
}

// withRetry runs fn under the configured per-attempt timeout, retrying
// transient failures up to the configured budget before surfacing
// ErrExternalService.
func (s *Service) withRetry(ctx context.Context, cfg config.BillingConfig, fn func(ctx context.Context) error) error {
	timeout := time.Duration(cfg.StoreTimeoutSeconds) * time.Second
	attempts := cfg.StoreRetries + 1
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for i := 0; i < attempts; i++ {
		attemptCtx := ctx
		cancel := context.CancelFunc(func() {})
		if timeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, timeout)
		}
		err = fn(attemptCtx)
		cancel()

		if err == nil {
			return nil
		}
		if !isTransient(err) {
			return err
		}
		if i < attempts-1 {
			s.metrics.IncStoreRetry()
			s.log.Warn("transient store failure, retrying", zap.Error(err))
		}
	}
	return fmt.Errorf("%w: %v", invoicedomain.ErrExternalService, err)
}

// isTransient classifies failures worth a retry: attempt timeouts and
// connection-class store errors. Anything the caller can fix (validation,
// conflicts) is not transient.
func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "database is closed") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection reset")
}

// errKind buckets failures for the error counter.
func errKind(err error) string {
	switch {
	case errors.Is(err, contractdomain.ErrOverBilled):
		return "over_billed"
	case errors.Is(err, invoicedomain.ErrLocked):
		return "locked"
	case errors.Is(err, invoicedomain.ErrExternalService):
		return "external"
	case errors.Is(err, invoicedomain.ErrNothingToBill):
		return "nothing_to_bill"
	case errors.Is(err, taskdomain.ErrUnknownBillingModel):
		return "unknown_model"
	case errors.Is(err, currency.ErrMissingExchangeRate):
		return "missing_rate"
	default:
		return "other"
	}
}

func (s *Service) GetByID(ctx context.Context, id string) (*invoicedomain.Invoice, error) {
	invID, err := snowflake.ParseString(id)
	if err != nil {
		return nil, invoicedomain.ErrInvalidID
	}
	inv, err := s.invoiceRepo.FindOne(ctx, &invoicedomain.Invoice{ID: invID})
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, invoicedomain.ErrNotFound
	}
	return inv, nil
}

func (s *Service) List(ctx context.Context, req invoicedomain.ListRequest) (invoicedomain.ListResponse, error) {
	filter := &invoicedomain.Invoice{}
	if req.TaskID != "" {
		taskID, err := snowflake.ParseString(req.TaskID)
		if err != nil {
			return invoicedomain.ListResponse{}, taskdomain.ErrInvalidID
		}
		filter.TaskID = taskID
	}
	if req.ClientID != "" {
		clientID, err := snowflake.ParseString(req.ClientID)
		if err != nil {
			return invoicedomain.ListResponse{}, invoicedomain.ErrInvalidID
		}
		filter.ClientID = clientID
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.invoiceRepo.Find(ctx, filter,
		option.WithTimeRange("issued_at", req.From, req.To),
		option.ApplyPagination(pagination.Pagination{
			PageToken: req.PageToken,
			PageSize:  pageSize,
		}),
		option.WithSortBy(option.QuerySortBy{
			Allow:  map[string]bool{"created_at": true},
			SortBy: "created_at",
			Order:  "desc",
		}),
		option.WithSortBy(option.QuerySortBy{
			Allow:  map[string]bool{"id": true},
			SortBy: "id",
			Order:  "desc",
		}),
	)
	if err != nil {
		return invoicedomain.ListResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(inv *invoicedomain.Invoice) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        inv.ID.String(),
			CreatedAt: inv.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo.HasMore && len(items) > pageSize {
		items = items[:pageSize]
	}

	return invoicedomain.ListResponse{Invoices: items, PageInfo: *pageInfo}, nil
}

func (s *Service) ListItems(ctx context.Context, invoiceID string) ([]*invoicedomain.InvoiceItem, error) {
	invID, err := snowflake.ParseString(invoiceID)
	if err != nil {
		return nil, invoicedomain.ErrInvalidID
	}
	return s.itemRepo.Find(ctx, &invoicedomain.InvoiceItem{InvoiceID: invID})
}
