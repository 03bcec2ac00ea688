package contract

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/frahmantamala/hr-payroll/internal"
	"github.com/frahmantamala/hr-payroll/internal/core/clock"
	"github.com/frahmantamala/hr-payroll/internal/core/common/validation"
	contractDatamodel "github.com/frahmantamala/hr-payroll/internal/core/datamodel/contract"
	"github.com/frahmantamala/hr-payroll/internal/core/events"
	"github.com/frahmantamala/hr-payroll/internal/core/tasks"
	"github.com/google/uuid"
)

type Service struct {
	tx        Transactor
	repo      RepositoryAPI
	employees EmployeeDirectory
	queue     Enqueuer
	events    events.Publisher
	clock     clock.Clock
	logger    *slog.Logger
}

func NewService(tx Transactor, repo RepositoryAPI, employees EmployeeDirectory, queue Enqueuer, publisher events.Publisher, c clock.Clock, logger *slog.Logger) *Service {
	if c == nil {
		c = clock.System
	}
	return &Service{
		tx:        tx,
		repo:      repo,
		employees: employees,
		queue:     queue,
		events:    publisher,
		clock:     c,
		logger:    logger,
	}
}

func (s *Service) today() time.Time {
	return clock.DateOnly(s.clock.Now())
}

// UpdateExpiredContracts moves every ACTIVE contract whose end date is before
// today to EXPIRED. Running it again finds nothing to do.
func (s *Service) UpdateExpiredContracts(ctx context.Context) (*ExpiryResult, error) {
	today := s.today()
	result := &ExpiryResult{Contracts: []string{}}

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		lapsed, err := s.repo.FindActiveEndedBefore(ctx, today)
		if err != nil {
			return fmt.Errorf("failed to find lapsed contracts: %w", err)
		}
		if len(lapsed) == 0 {
			return nil
		}

		ids := make([]int64, 0, len(lapsed))
		for _, c := range lapsed {
			ids = append(ids, c.ID)
			result.Contracts = append(result.Contracts, c.Code)
		}

		n, err := s.repo.MarkExpired(ctx, ids, today)
		if err != nil {
			return fmt.Errorf("failed to expire contracts: %w", err)
		}
		result.Updated = n
		return nil
	})
	if err != nil {
		s.logger.Error("contract expiry sweep failed", "error", err)
		return nil, err
	}

	actor := internal.TriggeredBy(ctx)
	s.logger.Info("contract expiry sweep finished",
		"today", today.Format(validation.DateLayout),
		"triggered_by", actor,
		"updated", result.Updated,
		"contracts", result.Contracts)

	if result.Updated > 0 && s.events != nil {
		if err := s.events.Publish(ctx, events.NewContractsExpiredEvent(result.Updated, result.Contracts, today, actor)); err != nil {
			s.logger.Warn("failed to publish contracts expired event", "error", err)
		}
	}
	return result, nil
}

// GetContractByID reports a lapsed ACTIVE contract as EXPIRED even before the
// sweep has run, and queues the stored status correction in the background.
func (s *Service) GetContractByID(ctx context.Context, id int64) (*contractDatamodel.Contract, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	today := s.today()
	if !IsLapsed(c, today) {
		return c, nil
	}

	view := *c
	view.Status = contractDatamodel.StatusExpired
	s.enqueueExpiry(c, today)
	return &view, nil
}

func (s *Service) enqueueExpiry(c *contractDatamodel.Contract, today time.Time) {
	if s.queue == nil {
		return
	}
	id, code := c.ID, c.Code
	task := tasks.NewTask(TaskKindExpireContract, id, func(ctx context.Context) error {
		ctx, cancel := internal.WithTimeout(ctx, internal.DefaultTaskTimeout)
		defer cancel()
		n, err := s.repo.MarkExpired(ctx, []int64{id}, today)
		if err != nil {
			return fmt.Errorf("expire contract %s: %w", code, err)
		}
		if n > 0 {
			s.logger.Info("lapsed contract expired on read", "contract_id", id, "code", code)
		}
		return nil
	})
	if err := s.queue.Enqueue(task); err != nil {
		s.logger.Warn("could not queue contract expiry, the sweep will pick it up",
			"contract_id", id,
			"task_id", task.ID,
			"error", err)
	}
}

func (s *Service) CreateContract(ctx context.Context, req CreateContractRequest) (*contractDatamodel.Contract, error) {
	c, err := req.ToModel()
	if err != nil {
		return nil, err
	}
	if c.Code == "" {
		c.Code = newContractCode(c.StartDate)
	}

	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		if _, err := s.employees.GetByID(ctx, c.EmployeeID); err != nil {
			return err
		}
		if c.Status == contractDatamodel.StatusActive {
			if err := s.ensureNoActive(ctx, c.EmployeeID, 0); err != nil {
				return err
			}
		}
		return s.repo.Create(ctx, c)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("contract created", "contract_id", c.ID, "code", c.Code, "employee_id", c.EmployeeID, "status", c.Status)
	return c, nil
}

func (s *Service) ensureNoActive(ctx context.Context, employeeID, exceptID int64) error {
	active, err := s.repo.FindActive(ctx, employeeID)
	if err != nil {
		return err
	}
	if active != nil && active.ID != exceptID {
		return internal.ErrActiveContractExists.WithDetails(map[string]interface{}{
			"contract_id": active.ID,
			"code":        active.Code,
		})
	}
	return nil
}

// RenewContract replaces an ACTIVE or EXPIRED contract with a new ACTIVE one
// that starts the day after the old end date, or today if that has passed.
// The old contract becomes RENEWED.
func (s *Service) RenewContract(ctx context.Context, id int64, req RenewContractRequest) (*contractDatamodel.Contract, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	newEnd := validation.ParseDate(req.EndDate)
	today := s.today()

	var renewed *contractDatamodel.Contract
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		old, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !IsRenewable(old.Status) {
			return internal.ErrContractNotRenewable.WithDetails(map[string]string{"status": string(old.Status)})
		}
		if err := s.ensureNoActive(ctx, old.EmployeeID, old.ID); err != nil {
			return err
		}

		start := old.EndDate.AddDate(0, 0, 1)
		if start.Before(today) {
			start = today
		}

		next := &contractDatamodel.Contract{
			EmployeeID:        old.EmployeeID,
			Type:              old.Type,
			StartDate:         start,
			EndDate:           newEnd,
			SignedDate:        today,
			Status:            contractDatamodel.StatusActive,
			DailySalaryAmount: old.DailySalaryAmount,
			AllowanceAmount:   old.AllowanceAmount,
			RenewedFromID:     &old.ID,
		}
		if req.DailySalaryAmount != nil {
			next.DailySalaryAmount = *req.DailySalaryAmount
		}
		if req.AllowanceAmount != nil {
			next.AllowanceAmount = req.AllowanceAmount
		}
		if err := ValidateTerms(next); err != nil {
			return err
		}

		base := baseCode(old.Code)
		n, err := s.repo.CountByCodePrefix(ctx, base+"-R")
		if err != nil {
			return err
		}
		next.Code = fmt.Sprintf("%s-R%d", base, n+1)

		flipped, err := s.repo.UpdateStatus(ctx, old.ID,
			[]contractDatamodel.Status{contractDatamodel.StatusActive, contractDatamodel.StatusExpired},
			contractDatamodel.StatusRenewed)
		if err != nil {
			return err
		}
		if flipped == 0 {
			return internal.ErrContractNotRenewable
		}

		if err := s.repo.Create(ctx, next); err != nil {
			return err
		}
		renewed = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("contract renewed", "old_contract_id", id, "contract_id", renewed.ID, "code", renewed.Code)
	return renewed, nil
}

// ListExpiring returns ACTIVE contracts ending within the next withinDays
// days, today included.
func (s *Service) ListExpiring(ctx context.Context, withinDays int) ([]*contractDatamodel.Contract, error) {
	if withinDays < 0 {
		return nil, internal.NewValidationFieldError("within_days", "within_days must not be negative", internal.ErrCodeValidationFailed)
	}
	today := s.today()
	return s.repo.ListActiveEndingBetween(ctx, today, today.AddDate(0, 0, withinDays))
}

var renewalSuffix = regexp.MustCompile(`-R\d+$`)

func baseCode(code string) string {
	return renewalSuffix.ReplaceAllString(code, "")
}

func newContractCode(start time.Time) string {
	return fmt.Sprintf("CTR-%s-%s", start.Format("20060102"), strings.ToUpper(uuid.NewString()[:8]))
}
