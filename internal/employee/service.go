package employee

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/hr-payroll/internal"
	employeeDatamodel "github.com/frahmantamala/hr-payroll/internal/core/datamodel/employee"
	"github.com/frahmantamala/hr-payroll/internal/core/store"
)

type RepositoryAPI interface {
	GetByID(ctx context.Context, id int64) (*employeeDatamodel.Employee, error)
	ListEligible(ctx context.Context) ([]*employeeDatamodel.Employee, error)
	Create(ctx context.Context, e *employeeDatamodel.Employee) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) GetByID(ctx context.Context, id int64) (*employeeDatamodel.Employee, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, internal.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to get employee by id: %w", err)
	}
	return e, nil
}

// ListEligible returns everyone still employed, i.e. not resigned, terminated
// or retired, ordered by id.
func (s *Service) ListEligible(ctx context.Context) ([]*employeeDatamodel.Employee, error) {
	employees, err := s.repo.ListEligible(ctx)
	if err != nil {
		s.logger.Error("failed to list eligible employees", "error", err)
		return nil, fmt.Errorf("failed to list eligible employees: %w", err)
	}
	return employees, nil
}
