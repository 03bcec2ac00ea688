package rest_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/frahmantamala/hr-payroll/internal"
	"github.com/frahmantamala/hr-payroll/internal/auth"
	"github.com/frahmantamala/hr-payroll/internal/contract"
	"github.com/frahmantamala/hr-payroll/internal/core/database/testdb"
	contractDatamodel "github.com/frahmantamala/hr-payroll/internal/core/datamodel/contract"
	payrollDatamodel "github.com/frahmantamala/hr-payroll/internal/core/datamodel/payroll"
	"github.com/frahmantamala/hr-payroll/internal/core/period"
	"github.com/frahmantamala/hr-payroll/internal/core/store"
	"github.com/frahmantamala/hr-payroll/internal/payroll"
	"github.com/frahmantamala/hr-payroll/internal/transport"
	"github.com/frahmantamala/hr-payroll/internal/transport/rest"
)

type mockPayrollService struct {
	generatedFor *period.Period
	generateErr  error
	reports      map[int64]*payrollDatamodel.PayrollReport
	deleted      []int64
}

func (m *mockPayrollService) result(p period.Period) *payroll.GenerationResult {
	return &payroll.GenerationResult{
		Report:         &payrollDatamodel.PayrollReport{ID: 1, Month: p.Month, Year: p.Year, Status: payrollDatamodel.ReportStatusDetailsPopulated, DetailCount: 2, Currency: "IDR"},
		Period:         p,
		DetailsCreated: 2,
		Skipped:        map[payroll.SkipReason]int{payroll.SkipNoActiveContract: 1},
	}
}

func (m *mockPayrollService) CreatePayrollReport(ctx context.Context) (*payroll.GenerationResult, error) {
	return m.CreatePayrollReportForPeriod(ctx, period.Period{Month: 3, Year: 2024})
}

func (m *mockPayrollService) CreatePayrollReportForPeriod(ctx context.Context, p period.Period) (*payroll.GenerationResult, error) {
	m.generatedFor = &p
	if m.generateErr != nil {
		return nil, m.generateErr
	}
	return m.result(p), nil
}

func (m *mockPayrollService) DeletePayrollReportByID(ctx context.Context, id int64) error {
	if _, ok := m.reports[id]; !ok {
		return internal.ErrPayrollReportNotFound
	}
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockPayrollService) GetPayrollReport(ctx context.Context, id int64) (*payrollDatamodel.PayrollReport, error) {
	if r, ok := m.reports[id]; ok {
		return r, nil
	}
	return nil, internal.ErrPayrollReportNotFound
}

func (m *mockPayrollService) ListPayrollReports(ctx context.Context, page store.Page) ([]*payrollDatamodel.PayrollReport, int64, error) {
	out := []*payrollDatamodel.PayrollReport{}
	for _, r := range m.reports {
		out = append(out, r)
	}
	return out, int64(len(out)), nil
}

func (m *mockPayrollService) ListPayrollDetails(ctx context.Context, reportID int64) ([]payroll.DetailSummary, error) {
	if _, ok := m.reports[reportID]; !ok {
		return nil, internal.ErrPayrollReportNotFound
	}
	return []payroll.DetailSummary{{DetailID: 1, EmployeeID: 5, EmployeeCode: "EMP-005", TotalSalary: 11500000}}, nil
}

func (m *mockPayrollService) RenderPayslip(ctx context.Context, reportID, employeeID int64, w io.Writer) error {
	if employeeID != 5 {
		return internal.ErrPayrollDetailNotFound
	}
	_, err := io.WriteString(w, "%PDF-1.3 fake")
	return err
}

type mockContractService struct {
	contract.ServiceAPI
	contracts map[int64]*contractDatamodel.Contract
}

func (m *mockContractService) GetContractByID(ctx context.Context, id int64) (*contractDatamodel.Contract, error) {
	if c, ok := m.contracts[id]; ok {
		return c, nil
	}
	return nil, internal.ErrContractNotFound
}

func (m *mockContractService) UpdateExpiredContracts(ctx context.Context) (*contract.ExpiryResult, error) {
	return &contract.ExpiryResult{Updated: 1, Contracts: []string{"CTR-001"}}, nil
}

var _ = Describe("Router", func() {
	var (
		db       *gorm.DB
		router   *chi.Mux
		tokens   *auth.JWTTokenGenerator
		payrolls *mockPayrollService
		adminTok string
	)

	do := func(method, path, body, token string) *httptest.ResponseRecorder {
		var reader io.Reader
		if body != "" {
			reader = strings.NewReader(body)
		}
		req := httptest.NewRequest(method, path, reader)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	errorCode := func(w *httptest.ResponseRecorder) string {
		var body struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(Succeed())
		return body.Error.Code
	}

	BeforeEach(func() {
		var err error
		db, err = testdb.Open()
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())

		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		base := transport.NewBaseHandler(logger)
		tokens = auth.NewJWTTokenGenerator("router-secret", time.Hour)
		adminTok, err = tokens.GenerateAccessToken("1", "hr@example.com", []string{internal.DefaultAdminPermission})
		Expect(err).NotTo(HaveOccurred())

		payrolls = &mockPayrollService{reports: map[int64]*payrollDatamodel.PayrollReport{
			7: {ID: 7, Month: 2, Year: 2024, Status: payrollDatamodel.ReportStatusDetailsPopulated, Currency: "IDR"},
		}}
		contracts := &mockContractService{contracts: map[int64]*contractDatamodel.Contract{
			3: {ID: 3, Code: "CTR-003", Status: contractDatamodel.StatusExpired, Type: contractDatamodel.TypeFullTime},
		}}

		router = chi.NewRouter()
		rest.RegisterAllRoutes(router, rest.RouterConfig{
			DB:              sqlDB,
			Driver:          "sqlite",
			Tokens:          tokens,
			AdminPermission: internal.DefaultAdminPermission,
			Logger:          logger,
		}, rest.Handlers{
			Payroll:  payroll.NewHandler(base, payrolls),
			Contract: contract.NewHandler(base, contracts),
		})
	})

	AfterEach(func() {
		testdb.Close(db)
	})

	Context("public routes", func() {
		It("answers ping and health without a token", func() {
			Expect(do(http.MethodGet, "/api/v1/ping", "", "").Code).To(Equal(http.StatusOK))

			w := do(http.MethodGet, "/api/v1/health", "", "")
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(ContainSubstring(`"healthy"`))
		})
	})

	Context("authentication", func() {
		It("rejects a request without a token", func() {
			w := do(http.MethodGet, "/api/v1/payroll-reports", "", "")

			Expect(w.Code).To(Equal(http.StatusUnauthorized))
			Expect(errorCode(w)).To(Equal(string(internal.ErrCodeInvalidToken)))
		})

		It("rejects a token without the payroll permission", func() {
			tok, err := tokens.GenerateAccessToken("2", "staff@example.com", []string{"view_profile"})
			Expect(err).NotTo(HaveOccurred())

			w := do(http.MethodGet, "/api/v1/payroll-reports", "", tok)

			Expect(w.Code).To(Equal(http.StatusForbidden))
		})
	})

	Context("payroll reports", func() {
		It("generates the current period when the body is empty", func() {
			w := do(http.MethodPost, "/api/v1/payroll-reports", "", adminTok)

			Expect(w.Code).To(Equal(http.StatusCreated))
			var resp payroll.GenerationResponse
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Report.Period).To(Equal("2024-03"))
			Expect(resp.DetailsCreated).To(Equal(2))
			Expect(resp.Skipped).To(HaveKeyWithValue("no_active_contract", 1))
		})

		It("generates an explicit period", func() {
			w := do(http.MethodPost, "/api/v1/payroll-reports", `{"month":1,"year":2024}`, adminTok)

			Expect(w.Code).To(Equal(http.StatusCreated))
			Expect(*payrolls.generatedFor).To(Equal(period.Period{Month: 1, Year: 2024}))
		})

		It("rejects an invalid period", func() {
			w := do(http.MethodPost, "/api/v1/payroll-reports", `{"month":13,"year":2024}`, adminTok)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(errorCode(w)).To(Equal(string(internal.ErrCodeInvalidPeriod)))
		})

		It("answers a duplicate period with a conflict", func() {
			payrolls.generateErr = internal.ErrPeriodAlreadyGenerated

			w := do(http.MethodPost, "/api/v1/payroll-reports", `{"month":2,"year":2024}`, adminTok)

			Expect(w.Code).To(Equal(http.StatusConflict))
			Expect(errorCode(w)).To(Equal(string(internal.ErrCodePeriodAlreadyGenerated)))
		})

		It("hides unexpected errors behind a 500", func() {
			payrolls.generateErr = io.ErrUnexpectedEOF

			w := do(http.MethodPost, "/api/v1/payroll-reports", "", adminTok)

			Expect(w.Code).To(Equal(http.StatusInternalServerError))
			Expect(w.Body.String()).NotTo(ContainSubstring("unexpected EOF"))
		})

		It("gets, lists and deletes reports", func() {
			Expect(do(http.MethodGet, "/api/v1/payroll-reports/7", "", adminTok).Code).To(Equal(http.StatusOK))
			Expect(do(http.MethodGet, "/api/v1/payroll-reports/8", "", adminTok).Code).To(Equal(http.StatusNotFound))
			Expect(do(http.MethodGet, "/api/v1/payroll-reports/abc", "", adminTok).Code).To(Equal(http.StatusBadRequest))

			list := do(http.MethodGet, "/api/v1/payroll-reports?limit=500", "", adminTok)
			Expect(list.Code).To(Equal(http.StatusOK))
			var resp payroll.ReportListResponse
			Expect(json.Unmarshal(list.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Total).To(Equal(int64(1)))
			Expect(resp.Limit).To(Equal(store.MaxPageLimit))

			Expect(do(http.MethodDelete, "/api/v1/payroll-reports/7", "", adminTok).Code).To(Equal(http.StatusNoContent))
			Expect(payrolls.deleted).To(Equal([]int64{7}))
		})

		It("lists details and serves payslips", func() {
			details := do(http.MethodGet, "/api/v1/payroll-reports/7/details", "", adminTok)
			Expect(details.Code).To(Equal(http.StatusOK))
			Expect(details.Body.String()).To(ContainSubstring("EMP-005"))

			slip := do(http.MethodGet, "/api/v1/payroll-reports/7/payslips/5", "", adminTok)
			Expect(slip.Code).To(Equal(http.StatusOK))
			Expect(slip.Header().Get("Content-Type")).To(Equal("application/pdf"))
			Expect(slip.Body.String()).To(HavePrefix("%PDF"))

			missing := do(http.MethodGet, "/api/v1/payroll-reports/7/payslips/6", "", adminTok)
			Expect(missing.Code).To(Equal(http.StatusNotFound))
			Expect(missing.Header().Get("Content-Type")).To(Equal("application/json"))
		})
	})

	Context("contracts", func() {
		It("returns a contract and runs the sweep on demand", func() {
			w := do(http.MethodGet, "/api/v1/contracts/3", "", adminTok)
			Expect(w.Code).To(Equal(http.StatusOK))
			var c contract.ContractResponse
			Expect(json.Unmarshal(w.Body.Bytes(), &c)).To(Succeed())
			Expect(c.Status).To(Equal("EXPIRED"))

			Expect(do(http.MethodGet, "/api/v1/contracts/4", "", adminTok).Code).To(Equal(http.StatusNotFound))

			sweep := do(http.MethodPost, "/api/v1/contracts/expire", "", adminTok)
			Expect(sweep.Code).To(Equal(http.StatusOK))
			Expect(sweep.Body.String()).To(ContainSubstring("CTR-001"))
		})

		It("requires a body to create a contract", func() {
			w := do(http.MethodPost, "/api/v1/contracts", "", adminTok)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})
})
