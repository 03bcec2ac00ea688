package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/frahmantamala/hr-payroll/internal"
	"github.com/frahmantamala/hr-payroll/internal/contract"
	contractDatamodel "github.com/frahmantamala/hr-payroll/internal/core/datamodel/contract"
	"github.com/frahmantamala/hr-payroll/internal/core/store"
)

type ContractRepository struct {
	*store.Repository[contractDatamodel.Contract]
}

func NewContractRepository(s *store.Store) *ContractRepository {
	return &ContractRepository{Repository: store.NewRepository[contractDatamodel.Contract](s)}
}

var _ contract.RepositoryAPI = (*ContractRepository)(nil)

func active() store.Scope {
	return store.Where("status = ?", contractDatamodel.StatusActive)
}

func (r *ContractRepository) GetByID(ctx context.Context, id int64) (*contractDatamodel.Contract, error) {
	c, err := r.FindByID(ctx, id)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, internal.ErrContractNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *ContractRepository) FindActive(ctx context.Context, employeeID int64) (*contractDatamodel.Contract, error) {
	c, err := r.FindOne(ctx,
		active(),
		store.Where("employee_id = ?", employeeID),
		store.OrderBy("start_date DESC"),
	)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

func (r *ContractRepository) FindActiveEndedBefore(ctx context.Context, day time.Time) ([]*contractDatamodel.Contract, error) {
	return r.FindMany(ctx, active(), store.Where("end_date < ?", day), store.OrderBy("id ASC"))
}

func (r *ContractRepository) ListActiveEndingBetween(ctx context.Context, from, to time.Time) ([]*contractDatamodel.Contract, error) {
	return r.FindMany(ctx, active(), store.Where("end_date BETWEEN ? AND ?", from, to), store.OrderBy("end_date ASC, id ASC"))
}

func (r *ContractRepository) MarkExpired(ctx context.Context, ids []int64, day time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return r.UpdateMany(ctx,
		map[string]interface{}{"status": contractDatamodel.StatusExpired},
		store.Where("id IN ?", ids),
		active(),
		store.Where("end_date < ?", day),
	)
}

func (r *ContractRepository) UpdateStatus(ctx context.Context, id int64, from []contractDatamodel.Status, to contractDatamodel.Status) (int64, error) {
	return r.UpdateMany(ctx,
		map[string]interface{}{"status": to},
		store.Where("id = ?", id),
		store.Where("status IN ?", from),
	)
}

// CountByCodePrefix matches prefix literally, so "_" and "%" in a
// user-supplied code are not wildcards.
func (r *ContractRepository) CountByCodePrefix(ctx context.Context, prefix string) (int64, error) {
	return r.Count(ctx, store.Where("code LIKE ? ESCAPE '!'", likeEscaper.Replace(prefix)+"%"))
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
