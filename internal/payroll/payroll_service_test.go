package payroll

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go-hrcore/internal/attendance"
	"go-hrcore/internal/employee"
	"go-hrcore/internal/messaging/kafka"
	payrollerrors "go-hrcore/internal/payroll/errors"
	"go-hrcore/internal/salary"
	"go-hrcore/internal/shared/apperror"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

// memPayrollRepo is an in-memory Repository safe for the worker pool.
type memPayrollRepo struct {
	mu       sync.Mutex
	runs     map[string]PayrollRun
	payslips map[string]Payslip
}

func newMemPayrollRepo() *memPayrollRepo {
	return &memPayrollRepo{
		runs:     make(map[string]PayrollRun),
		payslips: make(map[string]Payslip),
	}
}

func (m *memPayrollRepo) WithTx(tx *sql.Tx) Repository { return m }

func (m *memPayrollRepo) CreateRun(ctx context.Context, run *PayrollRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs[run.ID.String()] = *run
	return nil
}

func (m *memPayrollRepo) FindRunByID(ctx context.Context, id string) (*PayrollRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.runs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &run, nil
}

func (m *memPayrollRepo) CreatePayslip(ctx context.Context, payslip *Payslip) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payslips[payslip.ID.String()] = *payslip
	return nil
}

func (m *memPayrollRepo) UpdatePayslip(ctx context.Context, payslip *Payslip) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payslips[payslip.ID.String()] = *payslip
	return nil
}

func (m *memPayrollRepo) FindPayslipByID(ctx context.Context, id string) (*Payslip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payslips[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if run, ok := m.runs[p.PayrollRunID.String()]; ok {
		p.Run = &run
	}
	return &p, nil
}

func (m *memPayrollRepo) FindPayslipsByEmployee(ctx context.Context, employeeID string) ([]Payslip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Payslip
	for _, p := range m.payslips {
		if p.EmployeeID.String() == employeeID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memPayrollRepo) FindPayslipsByRun(ctx context.Context, runID string) ([]Payslip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Payslip
	for _, p := range m.payslips {
		if p.PayrollRunID.String() == runID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeEmployees struct {
	actives []employee.Employee
}

func (f *fakeEmployees) FindAllActive(ctx context.Context) ([]employee.Employee, error) {
	return f.actives, nil
}
func (f *fakeEmployees) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	for i := range f.actives {
		if f.actives[i].ID.String() == id {
			return &f.actives[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeEmployees) FindByUserID(ctx context.Context, userID string) (*employee.Employee, error) {
	return nil, gorm.ErrRecordNotFound
}

type fakeSalaries struct {
	structures map[string][]salary.EmployeeSalaryComponent
	err        error
}

func (f *fakeSalaries) WithTx(tx *sql.Tx) salary.Repository                    { return f }
func (f *fakeSalaries) CreateComponent(ctx context.Context, c *salary.SalaryComponent) error {
	return nil
}
func (f *fakeSalaries) FindActiveComponents(ctx context.Context) ([]salary.SalaryComponent, error) {
	return nil, nil
}
func (f *fakeSalaries) FindComponentByID(ctx context.Context, id string) (*salary.SalaryComponent, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeSalaries) ClearStructure(ctx context.Context, employeeID string) error { return nil }
func (f *fakeSalaries) CreateStructureRow(ctx context.Context, row *salary.EmployeeSalaryComponent) error {
	return nil
}
func (f *fakeSalaries) FindStructureByEmployee(ctx context.Context, employeeID string) ([]salary.EmployeeSalaryComponent, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.structures[employeeID], nil
}

type fakeAttendance struct {
	absences map[string]int64
}

func (f *fakeAttendance) WithTx(tx *sql.Tx) attendance.Repository { return f }
func (f *fakeAttendance) Create(ctx context.Context, a *attendance.AttendanceDay) error { return nil }
func (f *fakeAttendance) Update(ctx context.Context, a *attendance.AttendanceDay) error { return nil }
func (f *fakeAttendance) FindByID(ctx context.Context, id string) (*attendance.AttendanceDay, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeAttendance) FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.AttendanceDay, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeAttendance) FindAll(ctx context.Context, filter attendance.QueryFilter) ([]attendance.AttendanceDay, error) {
	return nil, nil
}
func (f *fakeAttendance) CountByStatusInRange(ctx context.Context, employeeID, status string, from, to time.Time) (int64, error) {
	return f.absences[employeeID], nil
}
func (f *fakeAttendance) FindEmployeeIDsWithVerdict(ctx context.Context, date time.Time) ([]string, error) {
	return nil, nil
}

type fakeCounter struct {
	next int64
}

func (f *fakeCounter) GetNextValue(ctx context.Context, counterType string) (int64, error) {
	return atomic.AddInt64(&f.next, 1), nil
}

type fakeOutbox struct {
	mu     sync.Mutex
	events []kafka.OutboxEvent
}

func (f *fakeOutbox) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }
func (f *fakeOutbox) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}
func (f *fakeOutbox) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}
func (f *fakeOutbox) MarkSent(ctx context.Context, id string) error               { return nil }
func (f *fakeOutbox) MarkFailed(ctx context.Context, id string, reason string) error { return nil }

type fakeRenderer struct {
	renderFn func(ctx context.Context, payslip *Payslip, emp *employee.Employee, run *PayrollRun) (string, error)
}

func (f *fakeRenderer) Render(ctx context.Context, payslip *Payslip, emp *employee.Employee, run *PayrollRun) (string, error) {
	if f.renderFn != nil {
		return f.renderFn(ctx, payslip, emp, run)
	}
	return fmt.Sprintf("uploads/payslips/payslip_%s_%d_%02d.pdf", payslip.EmployeeID, run.Year, run.Month), nil
}

type fakeAuthorizer struct {
	elevated map[string]bool
}

func (f *fakeAuthorizer) Enforce(role, resource, action string) (bool, error) {
	return f.elevated[role], nil
}

func standardStructure() []salary.EmployeeSalaryComponent {
	return []salary.EmployeeSalaryComponent{
		fixedEarning("Basic Salary", 50000),
		percentageComponent("HRA", salary.TypeEarning, 40),
		percentageComponent("Provident Fund", salary.TypeDeduction, 12),
	}
}

func newTestService(
	repo Repository,
	employees *fakeEmployees,
	salaries *fakeSalaries,
	att *fakeAttendance,
	outbox *fakeOutbox,
	renderer Renderer,
	authorizer Authorizer,
) Service {
	return NewService(nil, repo, Dependencies{
		Employees:  employees,
		Salaries:   salaries,
		Attendance: att,
		Counter:    &fakeCounter{},
		Outbox:     outbox,
		Renderer:   renderer,
		Authorizer: authorizer,
	})
}

func TestRunPayroll_ComputesAndSkips(t *testing.T) {
	withStructure := employee.Employee{ID: uuid.New(), FirstName: "Asha", LastName: "Nair"}
	withoutStructure := employee.Employee{ID: uuid.New(), FirstName: "Ravi", LastName: "Menon"}

	repo := newMemPayrollRepo()
	employees := &fakeEmployees{actives: []employee.Employee{withStructure, withoutStructure}}
	salaries := &fakeSalaries{structures: map[string][]salary.EmployeeSalaryComponent{
		withStructure.ID.String(): standardStructure(),
	}}
	outbox := &fakeOutbox{}

	svc := newTestService(repo, employees, salaries, &fakeAttendance{}, outbox, &fakeRenderer{}, nil)

	resp, err := svc.RunPayroll(context.Background(), RunPayrollRequest{Month: 3, Year: 2026})
	assert.NoError(t, err)
	assert.Equal(t, 1, resp.ProcessedCount)
	assert.Equal(t, 1, resp.SkippedCount)
	assert.Equal(t, 0, resp.FailedCount)
	assert.Len(t, resp.Outcomes, 2)

	var processed, skipped EmployeeOutcome
	for _, o := range resp.Outcomes {
		switch o.Status {
		case OutcomeProcessed:
			processed = o
		case OutcomeSkippedNoStructure:
			skipped = o
		}
	}

	assert.Equal(t, withStructure.ID.String(), processed.EmployeeID)
	assert.NotEmpty(t, processed.PayslipID)
	assert.Equal(t, withoutStructure.ID.String(), skipped.EmployeeID)
	assert.Empty(t, skipped.PayslipID)

	payslip, err := repo.FindPayslipByID(context.Background(), processed.PayslipID)
	assert.NoError(t, err)
	assert.Equal(t, 64000.0, payslip.NetPay)
	assert.Equal(t, 50000.0, payslip.BasicSalary)
	assert.Equal(t, "PS-202603-00001", payslip.PayslipNumber)
	assert.NotNil(t, payslip.PdfPath)

	// Run completion lands on the outbox, not the broker.
	assert.Len(t, outbox.events, 1)
	assert.Equal(t, "payroll_run_completed", outbox.events[0].EventType)
}

func TestRunPayroll_AppliesLossOfPay(t *testing.T) {
	emp := employee.Employee{ID: uuid.New(), FirstName: "Asha", LastName: "Nair"}

	repo := newMemPayrollRepo()
	employees := &fakeEmployees{actives: []employee.Employee{emp}}
	salaries := &fakeSalaries{structures: map[string][]salary.EmployeeSalaryComponent{
		emp.ID.String(): standardStructure(),
	}}
	att := &fakeAttendance{absences: map[string]int64{emp.ID.String(): 2}}

	svc := newTestService(repo, employees, salaries, att, &fakeOutbox{}, &fakeRenderer{}, nil)

	resp, err := svc.RunPayroll(context.Background(), RunPayrollRequest{Month: 3, Year: 2026})
	assert.NoError(t, err)
	assert.Equal(t, 1, resp.ProcessedCount)

	payslip, err := repo.FindPayslipByID(context.Background(), resp.Outcomes[0].PayslipID)
	assert.NoError(t, err)
	assert.Equal(t, 60666.67, payslip.NetPay)
	assert.Equal(t, 9333.33, payslip.Deductions)
}

func TestRunPayroll_RenderFailureKeepsPayslip(t *testing.T) {
	broken := employee.Employee{ID: uuid.New(), FirstName: "Asha", LastName: "Nair"}
	healthy := employee.Employee{ID: uuid.New(), FirstName: "Ravi", LastName: "Menon"}

	repo := newMemPayrollRepo()
	employees := &fakeEmployees{actives: []employee.Employee{broken, healthy}}
	salaries := &fakeSalaries{structures: map[string][]salary.EmployeeSalaryComponent{
		broken.ID.String():  standardStructure(),
		healthy.ID.String(): standardStructure(),
	}}
	renderer := &fakeRenderer{
		renderFn: func(ctx context.Context, payslip *Payslip, emp *employee.Employee, run *PayrollRun) (string, error) {
			if emp.ID == broken.ID {
				return "", errors.New("disk full")
			}
			return "uploads/payslips/ok.pdf", nil
		},
	}

	svc := newTestService(repo, employees, salaries, &fakeAttendance{}, &fakeOutbox{}, renderer, nil)

	resp, err := svc.RunPayroll(context.Background(), RunPayrollRequest{Month: 3, Year: 2026})
	assert.NoError(t, err)
	assert.Equal(t, 1, resp.ProcessedCount)
	assert.Equal(t, 1, resp.FailedCount)

	var failed EmployeeOutcome
	for _, o := range resp.Outcomes {
		if o.Status == OutcomeFailed {
			failed = o
		}
	}
	assert.Equal(t, broken.ID.String(), failed.EmployeeID)
	assert.Contains(t, failed.Reason, "rendering failed")
	assert.NotEmpty(t, failed.PayslipID)

	// The numbers survived; only the document is missing.
	payslip, err := repo.FindPayslipByID(context.Background(), failed.PayslipID)
	assert.NoError(t, err)
	assert.Equal(t, 64000.0, payslip.NetPay)
	assert.Nil(t, payslip.PdfPath)
}

func TestRunPayroll_InvalidPeriod(t *testing.T) {
	svc := newTestService(newMemPayrollRepo(), &fakeEmployees{}, &fakeSalaries{}, &fakeAttendance{}, &fakeOutbox{}, &fakeRenderer{}, nil)

	_, err := svc.RunPayroll(context.Background(), RunPayrollRequest{Month: 13, Year: 2026})
	assert.ErrorIs(t, err, payrollerrors.ErrInvalidPeriod)

	_, err = svc.RunPayroll(context.Background(), RunPayrollRequest{Month: 0, Year: 2026})
	assert.ErrorIs(t, err, payrollerrors.ErrInvalidPeriod)

	_, err = svc.RunPayroll(context.Background(), RunPayrollRequest{Month: 6, Year: 1999})
	assert.ErrorIs(t, err, payrollerrors.ErrInvalidPeriod)
}

func seedPayslip(t *testing.T, repo *memPayrollRepo, employeeID uuid.UUID, pdfPath *string) Payslip {
	t.Helper()
	run := PayrollRun{ID: uuid.New(), Month: 3, Year: 2026, Status: StatusProcessed}
	assert.NoError(t, repo.CreateRun(context.Background(), &run))

	payslip := Payslip{
		ID:            uuid.New(),
		PayrollRunID:  run.ID,
		EmployeeID:    employeeID,
		PayslipNumber: "PS-202603-00001",
		NetPay:        64000,
		Details:       `{"earnings":[],"deductions":[],"absentDays":0}`,
		PdfPath:       pdfPath,
	}
	assert.NoError(t, repo.CreatePayslip(context.Background(), &payslip))
	return payslip
}

func TestGetPayslip_AccessControl(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()

	repo := newMemPayrollRepo()
	payslip := seedPayslip(t, repo, owner, nil)

	authorizer := &fakeAuthorizer{elevated: map[string]bool{"HR": true}}
	svc := newTestService(repo, &fakeEmployees{}, &fakeSalaries{}, &fakeAttendance{}, &fakeOutbox{}, &fakeRenderer{}, authorizer)

	// The owner reads their own payslip.
	resp, err := svc.GetPayslip(context.Background(), payslip.ID.String(), owner.String(), "EMPLOYEE")
	assert.NoError(t, err)
	assert.Equal(t, payslip.ID.String(), resp.ID)
	assert.Equal(t, 3, resp.Month)
	assert.Equal(t, 2026, resp.Year)

	// Another employee does not.
	_, err = svc.GetPayslip(context.Background(), payslip.ID.String(), stranger.String(), "EMPLOYEE")
	assert.ErrorIs(t, err, payrollerrors.ErrPayslipAccessDenied)

	// An elevated role reads anyone's.
	_, err = svc.GetPayslip(context.Background(), payslip.ID.String(), stranger.String(), "HR")
	assert.NoError(t, err)

	// Missing payslip is a 404, not a permission error.
	_, err = svc.GetPayslip(context.Background(), uuid.New().String(), owner.String(), "HR")
	assert.ErrorIs(t, err, payrollerrors.ErrPayslipNotFound)
}

func TestGetPayslipFile_NotRendered(t *testing.T) {
	owner := uuid.New()
	repo := newMemPayrollRepo()
	payslip := seedPayslip(t, repo, owner, nil)

	svc := newTestService(repo, &fakeEmployees{}, &fakeSalaries{}, &fakeAttendance{}, &fakeOutbox{}, &fakeRenderer{}, nil)

	_, err := svc.GetPayslipFile(context.Background(), payslip.ID.String(), owner.String(), "EMPLOYEE")
	assert.ErrorIs(t, err, payrollerrors.ErrPayslipNotRendered)

	path := "uploads/payslips/ok.pdf"
	rendered := seedPayslip(t, repo, owner, &path)
	got, err := svc.GetPayslipFile(context.Background(), rendered.ID.String(), owner.String(), "EMPLOYEE")
	assert.NoError(t, err)
	assert.Equal(t, path, got)
}

func TestRenderPayslip_StoresPath(t *testing.T) {
	owner := uuid.New()
	repo := newMemPayrollRepo()
	payslip := seedPayslip(t, repo, owner, nil)

	employees := &fakeEmployees{actives: []employee.Employee{
		{ID: owner, FirstName: "Asha", LastName: "Nair"},
	}}

	svc := newTestService(repo, employees, &fakeSalaries{}, &fakeAttendance{}, &fakeOutbox{}, &fakeRenderer{}, nil)

	resp, err := svc.RenderPayslip(context.Background(), payslip.ID.String())
	assert.NoError(t, err)
	assert.NotNil(t, resp.PdfPath)

	stored, err := repo.FindPayslipByID(context.Background(), payslip.ID.String())
	assert.NoError(t, err)
	assert.NotNil(t, stored.PdfPath)
}

func TestRenderPayslip_WrapsRendererError(t *testing.T) {
	owner := uuid.New()
	repo := newMemPayrollRepo()
	payslip := seedPayslip(t, repo, owner, nil)

	employees := &fakeEmployees{actives: []employee.Employee{
		{ID: owner, FirstName: "Asha", LastName: "Nair"},
	}}

	cause := errors.New("disk full")
	failing := &fakeRenderer{renderFn: func(ctx context.Context, payslip *Payslip, emp *employee.Employee, run *PayrollRun) (string, error) {
		return "", cause
	}}

	svc := newTestService(repo, employees, &fakeSalaries{}, &fakeAttendance{}, &fakeOutbox{}, failing, nil)

	_, err := svc.RenderPayslip(context.Background(), payslip.ID.String())
	assert.Error(t, err)
	assert.ErrorIs(t, err, cause)

	var appErr *apperror.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeInternalError, appErr.Code)
}

func TestRequestRender_QueuesOutboxEvent(t *testing.T) {
	owner := uuid.New()
	repo := newMemPayrollRepo()
	payslip := seedPayslip(t, repo, owner, nil)

	outbox := &fakeOutbox{}
	svc := newTestService(repo, &fakeEmployees{}, &fakeSalaries{}, &fakeAttendance{}, outbox, &fakeRenderer{}, nil)

	err := svc.RequestRender(context.Background(), payslip.ID.String())
	assert.NoError(t, err)
	assert.Len(t, outbox.events, 1)
	assert.Equal(t, "payslip_render_requested", outbox.events[0].EventType)
	assert.Equal(t, payslip.ID.String(), outbox.events[0].AggregateID)
}

func TestGetPayslipsForEmployee_InvalidID(t *testing.T) {
	svc := newTestService(newMemPayrollRepo(), &fakeEmployees{}, &fakeSalaries{}, &fakeAttendance{}, &fakeOutbox{}, &fakeRenderer{}, nil)

	_, err := svc.GetPayslipsForEmployee(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, payrollerrors.ErrInvalidEmployeeID)
}

func TestGetPayslipsForEmployee_CacheHitSkipsRepository(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	employeeID := uuid.New()

	cached := []PayslipResponse{{
		ID:            uuid.NewString(),
		EmployeeID:    employeeID.String(),
		PayslipNumber: "PS-202603-00001",
		Month:         3,
		Year:          2026,
		NetPay:        64000,
	}}
	payload, err := json.Marshal(cached)
	assert.NoError(t, err)

	mock.ExpectGet(PayslipListKeyPrefix + employeeID.String()).SetVal(string(payload))

	// Repository stays empty; the cached list must be served as-is.
	svc := NewService(nil, newMemPayrollRepo(), Dependencies{Redis: rdb})

	got, err := svc.GetPayslipsForEmployee(context.Background(), employeeID.String())
	assert.NoError(t, err)
	assert.Equal(t, cached, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPayslipsForEmployee_CacheMissPopulatesCache(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	employeeID := uuid.New()
	cacheKey := PayslipListKeyPrefix + employeeID.String()

	mock.ExpectGet(cacheKey).RedisNil()
	mock.ExpectSet(cacheKey, []byte("[]"), payslipListTTL).SetVal("OK")

	svc := NewService(nil, newMemPayrollRepo(), Dependencies{Redis: rdb})

	got, err := svc.GetPayslipsForEmployee(context.Background(), employeeID.String())
	assert.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}
