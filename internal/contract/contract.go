package contract

import (
	"context"
	"time"

	contractDatamodel "github.com/frahmantamala/hr-payroll/internal/core/datamodel/contract"
	employeeDatamodel "github.com/frahmantamala/hr-payroll/internal/core/datamodel/employee"
	"github.com/frahmantamala/hr-payroll/internal/core/tasks"
)

type RepositoryAPI interface {
	GetByID(ctx context.Context, id int64) (*contractDatamodel.Contract, error)
	// FindActive returns the newest ACTIVE contract of the employee, or nil.
	FindActive(ctx context.Context, employeeID int64) (*contractDatamodel.Contract, error)
	FindActiveEndedBefore(ctx context.Context, day time.Time) ([]*contractDatamodel.Contract, error)
	ListActiveEndingBetween(ctx context.Context, from, to time.Time) ([]*contractDatamodel.Contract, error)
	// MarkExpired flips the listed contracts to EXPIRED, but only those still
	// ACTIVE with an end date before day.
	MarkExpired(ctx context.Context, ids []int64, day time.Time) (int64, error)
	UpdateStatus(ctx context.Context, id int64, from []contractDatamodel.Status, to contractDatamodel.Status) (int64, error)
	CountByCodePrefix(ctx context.Context, prefix string) (int64, error)
	Create(ctx context.Context, c *contractDatamodel.Contract) error
}

type EmployeeDirectory interface {
	GetByID(ctx context.Context, id int64) (*employeeDatamodel.Employee, error)
}

type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type Enqueuer interface {
	Enqueue(task tasks.Task) error
}

const TaskKindExpireContract = "contract.expire"

type ExpiryResult struct {
	Updated   int64    `json:"updated"`
	Contracts []string `json:"contracts"`
}

// IsLapsed reports whether an ACTIVE contract's end date is before today.
// A contract ending today is still in force.
func IsLapsed(c *contractDatamodel.Contract, today time.Time) bool {
	return c.Status == contractDatamodel.StatusActive && c.EndDate.Before(today)
}

func IsRenewable(status contractDatamodel.Status) bool {
	return status == contractDatamodel.StatusActive || status == contractDatamodel.StatusExpired
}
