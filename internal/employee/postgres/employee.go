package postgres

import (
	"context"

	"github.com/frahmantamala/hr-payroll/internal/core/datamodel/employee"
	"github.com/frahmantamala/hr-payroll/internal/core/store"
	employeePkg "github.com/frahmantamala/hr-payroll/internal/employee"
)

type EmployeeRepository struct {
	*store.Repository[employee.Employee]
}

func NewEmployeeRepository(s *store.Store) employeePkg.RepositoryAPI {
	return &EmployeeRepository{Repository: store.NewRepository[employee.Employee](s)}
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id int64) (*employee.Employee, error) {
	return r.FindByID(ctx, id)
}

func (r *EmployeeRepository) ListEligible(ctx context.Context) ([]*employee.Employee, error) {
	return r.FindMany(ctx,
		store.Where("work_status NOT IN ?", employee.SeparatedStatuses),
		store.OrderBy("id ASC"),
	)
}
