package employee

import "time"

type WorkStatus string

const (
	WorkStatusOnsite       WorkStatus = "WORKING_ONSITE"
	WorkStatusFromHome     WorkStatus = "WORK_FROM_HOME"
	WorkStatusBusinessTrip WorkStatus = "ON_BUSINESS_TRIP"
	WorkStatusOnLeave      WorkStatus = "ON_LEAVE"
	WorkStatusResigned     WorkStatus = "RESIGNED"
	WorkStatusTerminated   WorkStatus = "TERMINATED"
	WorkStatusRetired      WorkStatus = "RETIRED"
)

// SeparatedStatuses are the statuses of people no longer employed; they are
// excluded from every report generation.
var SeparatedStatuses = []WorkStatus{WorkStatusResigned, WorkStatusTerminated, WorkStatusRetired}

func (s WorkStatus) IsSeparated() bool {
	for _, st := range SeparatedStatuses {
		if s == st {
			return true
		}
	}
	return false
}

type Employee struct {
	ID         int64      `json:"id" gorm:"primaryKey"`
	Code       string     `json:"code" gorm:"column:code;uniqueIndex;not null"`
	FullName   string     `json:"full_name" gorm:"column:full_name;not null"`
	Email      string     `json:"email" gorm:"column:email"`
	WorkStatus WorkStatus `json:"work_status" gorm:"column:work_status;not null;default:WORKING_ONSITE"`
	IsActive   bool       `json:"is_active" gorm:"column:is_active;default:true"`
	HiredAt    *time.Time `json:"hired_at,omitempty" gorm:"column:hired_at;type:date"`
	CreatedAt  time.Time  `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time  `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (Employee) TableName() string {
	return "employees"
}
