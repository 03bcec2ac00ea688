package leave

import "time"

type ApplicationStatus string

const (
	ApplicationStatusPending   ApplicationStatus = "PENDING"
	ApplicationStatusApproved  ApplicationStatus = "APPROVED"
	ApplicationStatusRejected  ApplicationStatus = "REJECTED"
	ApplicationStatusCancelled ApplicationStatus = "CANCELLED"
)

type LeaveType struct {
	ID   int64  `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"column:name;uniqueIndex;not null"`
	// MaxDays is the per-period quota. nil means the reference data is broken,
	// not "unlimited".
	MaxDays   *int      `json:"max_days" gorm:"column:max_days"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (LeaveType) TableName() string {
	return "leave_types"
}

type LeaveApplication struct {
	ID          int64             `json:"id" gorm:"primaryKey"`
	EmployeeID  int64             `json:"employee_id" gorm:"column:employee_id;not null;index"`
	LeaveTypeID int64             `json:"leave_type_id" gorm:"column:leave_type_id;not null"`
	StartDate   time.Time         `json:"start_date" gorm:"column:start_date;type:date;not null"`
	EndDate     time.Time         `json:"end_date" gorm:"column:end_date;type:date;not null"`
	Status      ApplicationStatus `json:"status" gorm:"column:status;not null;default:PENDING"`
	Reason      string            `json:"reason" gorm:"column:reason"`
	LeaveType   *LeaveType        `json:"leave_type,omitempty" gorm:"foreignKey:LeaveTypeID"`
	CreatedAt   time.Time         `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (LeaveApplication) TableName() string {
	return "leave_applications"
}
