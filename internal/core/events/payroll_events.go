package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeAttendanceReportGenerated = "attendance.report_generated"
	EventTypePayrollReportGenerated    = "payroll.report_generated"
	EventTypePayrollReportDeleted      = "payroll.report_deleted"
	EventTypeContractsExpired          = "contracts.expired"
)

type AttendanceReportGeneratedEvent struct {
	BaseEvent
	ReportID       int64 `json:"report_id"`
	Month          int   `json:"month"`
	Year           int   `json:"year"`
	DetailsCreated int   `json:"details_created"`
}

func NewAttendanceReportGeneratedEvent(reportID int64, month, year, detailsCreated int) *AttendanceReportGeneratedEvent {
	return &AttendanceReportGeneratedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeAttendanceReportGenerated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"report_id":       reportID,
				"month":           month,
				"year":            year,
				"details_created": detailsCreated,
			},
		},
		ReportID:       reportID,
		Month:          month,
		Year:           year,
		DetailsCreated: detailsCreated,
	}
}

type PayrollReportGeneratedEvent struct {
	BaseEvent
	ReportID       int64          `json:"report_id"`
	Month          int            `json:"month"`
	Year           int            `json:"year"`
	DetailsCreated int            `json:"details_created"`
	Skipped        map[string]int `json:"skipped"`
	TriggeredBy    string         `json:"triggered_by"`
}

func NewPayrollReportGeneratedEvent(reportID int64, month, year, detailsCreated int, skipped map[string]int, triggeredBy string) *PayrollReportGeneratedEvent {
	return &PayrollReportGeneratedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePayrollReportGenerated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"report_id":       reportID,
				"month":           month,
				"year":            year,
				"details_created": detailsCreated,
				"skipped":         skipped,
				"triggered_by":    triggeredBy,
			},
		},
		ReportID:       reportID,
		Month:          month,
		Year:           year,
		DetailsCreated: detailsCreated,
		Skipped:        skipped,
		TriggeredBy:    triggeredBy,
	}
}

type PayrollReportDeletedEvent struct {
	BaseEvent
	ReportID    int64  `json:"report_id"`
	Month       int    `json:"month"`
	Year        int    `json:"year"`
	TriggeredBy string `json:"triggered_by"`
}

func NewPayrollReportDeletedEvent(reportID int64, month, year int, triggeredBy string) *PayrollReportDeletedEvent {
	return &PayrollReportDeletedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePayrollReportDeleted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"report_id":    reportID,
				"month":        month,
				"year":         year,
				"triggered_by": triggeredBy,
			},
		},
		ReportID:    reportID,
		Month:       month,
		Year:        year,
		TriggeredBy: triggeredBy,
	}
}

type ContractsExpiredEvent struct {
	BaseEvent
	Count       int64     `json:"count"`
	Codes       []string  `json:"codes"`
	AsOf        time.Time `json:"as_of"`
	TriggeredBy string    `json:"triggered_by"`
}

func NewContractsExpiredEvent(count int64, codes []string, asOf time.Time, triggeredBy string) *ContractsExpiredEvent {
	return &ContractsExpiredEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeContractsExpired,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"count":        count,
				"codes":        codes,
				"as_of":        asOf.Format("2006-01-02"),
				"triggered_by": triggeredBy,
			},
		},
		Count:       count,
		Codes:       codes,
		AsOf:        asOf,
		TriggeredBy: triggeredBy,
	}
}
