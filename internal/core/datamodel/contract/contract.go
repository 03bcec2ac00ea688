package contract

import "time"

type Status string

const (
	StatusDraft      Status = "DRAFT"
	StatusActive     Status = "ACTIVE"
	StatusExpired    Status = "EXPIRED"
	StatusTerminated Status = "TERMINATED"
	StatusPending    Status = "PENDING"
	StatusRenewed    Status = "RENEWED"
)

type Type string

const (
	TypeFullTime   Type = "FULL_TIME"
	TypePartTime   Type = "PART_TIME"
	TypeProbation  Type = "PROBATION"
	TypeInternship Type = "INTERNSHIP"
	TypeFreelance  Type = "FREELANCE"
)

type Contract struct {
	ID                int64     `json:"id" gorm:"primaryKey"`
	Code              string    `json:"code" gorm:"column:code;uniqueIndex;not null"`
	EmployeeID        int64     `json:"employee_id" gorm:"column:employee_id;not null;index"`
	Type              Type      `json:"type" gorm:"column:type;not null"`
	StartDate         time.Time `json:"start_date" gorm:"column:start_date;type:date;not null"`
	EndDate           time.Time `json:"end_date" gorm:"column:end_date;type:date;not null;index"`
	SignedDate        time.Time `json:"signed_date" gorm:"column:signed_date;type:date;not null"`
	Status            Status    `json:"status" gorm:"column:status;not null;index"`
	DailySalaryAmount int64     `json:"daily_salary_amount" gorm:"column:daily_salary_amount;not null"`
	AllowanceAmount   *int64    `json:"allowance_amount,omitempty" gorm:"column:allowance_amount"`
	RenewedFromID     *int64    `json:"renewed_from_id,omitempty" gorm:"column:renewed_from_id"`
	CreatedAt         time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (Contract) TableName() string {
	return "contracts"
}
