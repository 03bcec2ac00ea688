package postgres

import (
	"context"
	"time"

	leaveDatamodel "github.com/frahmantamala/hr-payroll/internal/core/datamodel/leave"
	"github.com/frahmantamala/hr-payroll/internal/core/store"
	"github.com/frahmantamala/hr-payroll/internal/leave"
)

type LeaveRepository struct {
	applications *store.Repository[leaveDatamodel.LeaveApplication]
}

func NewLeaveRepository(s *store.Store) leave.RepositoryAPI {
	return &LeaveRepository{
		applications: store.NewRepository[leaveDatamodel.LeaveApplication](s),
	}
}

func (r *LeaveRepository) FindApprovedInWindow(ctx context.Context, employeeID int64, from, to time.Time) ([]*leaveDatamodel.LeaveApplication, error) {
	return r.applications.FindMany(ctx,
		store.Preload("LeaveType"),
		store.Where("status = ? AND employee_id = ?", leaveDatamodel.ApplicationStatusApproved, employeeID),
		store.Where("NOT (end_date < ? OR start_date > ?)", from, to),
		store.OrderBy("start_date ASC"),
	)
}
