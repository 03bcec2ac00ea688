package leave

import (
	"fmt"
	"sort"

	"github.com/frahmantamala/hr-payroll/internal"
	leaveDatamodel "github.com/frahmantamala/hr-payroll/internal/core/datamodel/leave"
	"github.com/frahmantamala/hr-payroll/internal/core/period"
)

// Usage is an employee's leave consumption within one period.
type Usage struct {
	LeaveDays     int `json:"leave_days"`
	OverLeaveDays int `json:"over_leave_days"`
}

// TypeUsage is the per leave type line behind a Usage.
type TypeUsage struct {
	LeaveTypeID   int64  `json:"leave_type_id"`
	LeaveTypeName string `json:"leave_type_name"`
	MaxDays       int    `json:"max_days"`
	Days          int    `json:"days"`
	OverDays      int    `json:"over_days"`
}

// Summarize clips each approved application to the period window and totals
// the days per leave type. Days beyond a type's quota count as over-leave;
// quotas are never pooled across types. Overlapping applications of the same
// type are summed as they are.
func Summarize(p period.Period, applications []*leaveDatamodel.LeaveApplication) (Usage, []TypeUsage, error) {
	byType := make(map[int64]*TypeUsage)

	for _, app := range applications {
		if app.LeaveType == nil {
			return Usage{}, nil, internal.NewDataIntegrityError(
				fmt.Sprintf("leave application %d references missing leave type %d", app.ID, app.LeaveTypeID))
		}
		if app.LeaveType.MaxDays == nil {
			return Usage{}, nil, internal.NewDataIntegrityError(
				fmt.Sprintf("leave type %d (%s) has no max days", app.LeaveType.ID, app.LeaveType.Name))
		}

		from, to, ok := p.Clip(app.StartDate, app.EndDate)
		if !ok {
			continue
		}

		tu, exists := byType[app.LeaveTypeID]
		if !exists {
			tu = &TypeUsage{
				LeaveTypeID:   app.LeaveTypeID,
				LeaveTypeName: app.LeaveType.Name,
				MaxDays:       *app.LeaveType.MaxDays,
			}
			byType[app.LeaveTypeID] = tu
		}
		tu.Days += period.InclusiveDays(from, to)
	}

	var usage Usage
	breakdown := make([]TypeUsage, 0, len(byType))
	for _, tu := range byType {
		if over := tu.Days - tu.MaxDays; over > 0 {
			tu.OverDays = over
		}
		usage.LeaveDays += tu.Days
		usage.OverLeaveDays += tu.OverDays
		breakdown = append(breakdown, *tu)
	}
	sort.Slice(breakdown, func(i, j int) bool {
		return breakdown[i].LeaveTypeID < breakdown[j].LeaveTypeID
	})

	return usage, breakdown, nil
}
