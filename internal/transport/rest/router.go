package rest

import (
	"database/sql"
	"log/slog"

	"github.com/frahmantamala/hr-payroll/internal/attendance"
	"github.com/frahmantamala/hr-payroll/internal/auth"
	"github.com/frahmantamala/hr-payroll/internal/contract"
	"github.com/frahmantamala/hr-payroll/internal/payroll"
	"github.com/frahmantamala/hr-payroll/internal/transport/middleware"
	"github.com/frahmantamala/hr-payroll/internal/transport/swagger"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

type Handlers struct {
	Attendance *attendance.Handler
	Payroll    *payroll.Handler
	Contract   *contract.Handler
}

type RouterConfig struct {
	DB              *sql.DB
	Driver          string
	Tokens          auth.TokenValidator
	AdminPermission string
	OpenAPIPath     string
	Logger          *slog.Logger
}

func RegisterAllRoutes(router *chi.Mux, cfg RouterConfig, h Handlers) {
	healthHandler := NewHealthHandler(cfg.DB, cfg.Driver)

	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware)
	router.Use(middleware.RecoveryMiddleware)

	if cfg.OpenAPIPath != "" {
		router.Get(swagger.SpecRoute, swagger.SpecHandler(cfg.OpenAPIPath))
		router.Handle("/swagger/*", swagger.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Group(func(pr chi.Router) {
			pr.Use(middleware.Authenticate(cfg.Tokens, cfg.Logger))
			pr.Use(middleware.RequirePermission(cfg.AdminPermission))

			if h.Attendance != nil {
				pr.Route("/attendance-reports", func(ar chi.Router) {
					ar.Post("/", h.Attendance.CreateAttendanceReport)
					ar.Get("/", h.Attendance.GetAttendanceReport)
				})
			}

			if h.Payroll != nil {
				pr.Route("/payroll-reports", func(prr chi.Router) {
					prr.Post("/", h.Payroll.CreatePayrollReport)
					prr.Get("/", h.Payroll.ListPayrollReports)
					prr.Get("/{id}", h.Payroll.GetPayrollReport)
					prr.Delete("/{id}", h.Payroll.DeletePayrollReport)
					prr.Get("/{id}/details", h.Payroll.ListPayrollDetails)
					prr.Get("/{id}/payslips/{employeeID}", h.Payroll.DownloadPayslip)
				})
			}

			if h.Contract != nil {
				pr.Route("/contracts", func(cr chi.Router) {
					cr.Post("/", h.Contract.CreateContract)
					cr.Post("/expire", h.Contract.ExpireContracts)
					cr.Get("/expiring", h.Contract.ListExpiring)
					cr.Get("/{id}", h.Contract.GetContract)
					cr.Post("/{id}/renew", h.Contract.RenewContract)
				})
			}
		})
	})
}
