package testdb

import (
	"fmt"
	"time"

	"github.com/frahmantamala/hr-payroll/internal/core/datamodel/attendance"
	"github.com/frahmantamala/hr-payroll/internal/core/datamodel/contract"
	"github.com/frahmantamala/hr-payroll/internal/core/datamodel/employee"
	"github.com/frahmantamala/hr-payroll/internal/core/datamodel/leave"
	"github.com/frahmantamala/hr-payroll/internal/core/datamodel/performance"
	"gorm.io/gorm"
)

// Date is a date-only value as the repositories persist it.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Fixtures inserts rows for tests. Fail is called with any insert error, so
// suites pass a handler that fails the running spec.
type Fixtures struct {
	DB   *gorm.DB
	Fail func(err error)
	seq  int
}

func NewFixtures(db *gorm.DB, fail func(err error)) *Fixtures {
	return &Fixtures{DB: db, Fail: fail}
}

func (f *Fixtures) create(v interface{}) {
	if err := f.DB.Create(v).Error; err != nil {
		f.Fail(err)
	}
}

func (f *Fixtures) next() int {
	f.seq++
	return f.seq
}

func (f *Fixtures) Employee(status employee.WorkStatus) *employee.Employee {
	n := f.next()
	e := &employee.Employee{
		Code:       fmt.Sprintf("EMP-%03d", n),
		FullName:   fmt.Sprintf("Employee %d", n),
		Email:      fmt.Sprintf("employee%d@example.com", n),
		WorkStatus: status,
		IsActive:   !status.IsSeparated(),
	}
	f.create(e)
	return e
}

func (f *Fixtures) LeaveType(name string, maxDays *int) *leave.LeaveType {
	lt := &leave.LeaveType{Name: name, MaxDays: maxDays}
	f.create(lt)
	return lt
}

func (f *Fixtures) Leave(employeeID, leaveTypeID int64, start, end time.Time, status leave.ApplicationStatus) *leave.LeaveApplication {
	app := &leave.LeaveApplication{
		EmployeeID:  employeeID,
		LeaveTypeID: leaveTypeID,
		StartDate:   start,
		EndDate:     end,
		Status:      status,
	}
	f.create(app)
	return app
}

func (f *Fixtures) Contract(employeeID int64, status contract.Status, start, end time.Time, daily int64, allowance *int64) *contract.Contract {
	c := &contract.Contract{
		Code:              fmt.Sprintf("CTR-%03d", f.next()),
		EmployeeID:        employeeID,
		Type:              contract.TypeFullTime,
		StartDate:         start,
		EndDate:           end,
		SignedDate:        start,
		Status:            status,
		DailySalaryAmount: daily,
		AllowanceAmount:   allowance,
	}
	f.create(c)
	return c
}

// PerformanceScore records a score for the period, creating the period's
// report on first use.
func (f *Fixtures) PerformanceScore(employeeID int64, month, year int, score *float64) *performance.PerformanceReportDetail {
	var report performance.PerformanceReport
	err := f.DB.Where(performance.PerformanceReport{Month: month, Year: year}).
		FirstOrCreate(&report).Error
	if err != nil {
		f.Fail(err)
		return nil
	}
	d := &performance.PerformanceReportDetail{
		PerformanceReportID: report.ID,
		EmployeeID:          employeeID,
		AverageScore:        score,
	}
	f.create(d)
	return d
}

func (f *Fixtures) AttendanceReport(month, year int) *attendance.AttendanceReport {
	r := &attendance.AttendanceReport{Month: month, Year: year}
	f.create(r)
	return r
}

func IntPtr(v int) *int             { return &v }
func Int64Ptr(v int64) *int64       { return &v }
func Float64Ptr(v float64) *float64 { return &v }
