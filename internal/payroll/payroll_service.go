package payroll

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"go-hrcore/internal/attendance"
	"go-hrcore/internal/employee"
	"go-hrcore/internal/events"
	"go-hrcore/internal/messaging/kafka"
	payrollerrors "go-hrcore/internal/payroll/errors"
	"go-hrcore/internal/salary"
	"go-hrcore/internal/shared/contextutil"
	"go-hrcore/internal/shared/counter"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	PayslipListKeyPrefix = "payslips:employee:"
	payslipListTTL       = 10 * time.Minute
	defaultWorkers       = 4
)

type Service interface {
	RunPayroll(ctx context.Context, req RunPayrollRequest) (RunPayrollResponse, error)
	GetPayslipsForEmployee(ctx context.Context, employeeID string) ([]PayslipResponse, error)
	GetPayslip(ctx context.Context, payslipID, actorEmployeeID, actorRole string) (PayslipResponse, error)
	GetPayslipFile(ctx context.Context, payslipID, actorEmployeeID, actorRole string) (string, error)
	RequestRender(ctx context.Context, payslipID string) error
	RenderPayslip(ctx context.Context, payslipID string) (PayslipResponse, error)
}

// Authorizer answers whether a role may perform an action on a resource.
type Authorizer interface {
	Enforce(role, resource, action string) (bool, error)
}

type Dependencies struct {
	Employees  employee.Repository
	Salaries   salary.Repository
	Attendance attendance.Repository
	Counter    counter.Repository
	Outbox     kafka.OutboxRepository
	Renderer   Renderer
	Authorizer Authorizer
	Redis      *redis.Client
}

type service struct {
	db         *sql.DB
	repo       Repository
	employees  employee.Repository
	salaries   salary.Repository
	attendance attendance.Repository
	counter    counter.Repository
	outbox     kafka.OutboxRepository
	renderer   Renderer
	authorizer Authorizer
	rdb        *redis.Client
	sf         singleflight.Group
	workers    int
	logger     *zap.Logger
}

func NewService(db *sql.DB, repo Repository, deps Dependencies, logger ...*zap.Logger) Service {
	l := zap.L().Named("payroll.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.service")
	}

	workers := defaultWorkers
	if v := os.Getenv("PAYROLL_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			workers = n
		}
	}

	return &service{
		db:         db,
		repo:       repo,
		employees:  deps.Employees,
		salaries:   deps.Salaries,
		attendance: deps.Attendance,
		counter:    deps.Counter,
		outbox:     deps.Outbox,
		renderer:   deps.Renderer,
		authorizer: deps.Authorizer,
		rdb:        deps.Redis,
		workers:    workers,
		logger:     l,
	}
}

func payslipListKey(employeeID string) string {
	return PayslipListKeyPrefix + employeeID
}

// RunPayroll computes payslips for every active employee for the given
// period. Employee failures are isolated: one bad structure or a panic
// in a worker tags that employee's outcome without aborting the run.
func (s *service) RunPayroll(ctx context.Context, req RunPayrollRequest) (RunPayrollResponse, error) {
	if req.Month < 1 || req.Month > 12 || req.Year < 2000 || req.Year > 2100 {
		return RunPayrollResponse{}, payrollerrors.ErrInvalidPeriod
	}

	run := &PayrollRun{
		ID:     uuid.New(),
		Month:  req.Month,
		Year:   req.Year,
		Status: StatusProcessed,
	}
	if err := s.repo.CreateRun(ctx, run); err != nil {
		s.logger.Error("create payroll run failed", zap.Error(err))
		return RunPayrollResponse{}, err
	}

	actives, err := s.employees.FindAllActive(ctx)
	if err != nil {
		return RunPayrollResponse{}, err
	}

	periodStart := time.Date(req.Year, time.Month(req.Month), 1, 0, 0, 0, 0, time.Local)
	// Day 0 of the next month normalizes to the last day of this one.
	periodEnd := time.Date(req.Year, time.Month(req.Month)+1, 0, 0, 0, 0, 0, time.Local)

	outcomes := make([]EmployeeOutcome, len(actives))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, emp := range actives {
		i, emp := i, emp
		g.Go(func() error {
			outcomes[i] = s.processEmployee(gctx, run, emp, periodStart, periodEnd)
			return nil
		})
	}
	// Workers never return errors; failures are carried in the outcomes.
	_ = g.Wait()

	var processed, skipped, failed int
	for _, o := range outcomes {
		switch o.Status {
		case OutcomeProcessed:
			processed++
		case OutcomeSkippedNoStructure:
			skipped++
		default:
			failed++
		}
	}

	s.queueRunCompleted(ctx, run, processed, skipped, failed)

	s.logger.Info("payroll run complete",
		zap.String("run_id", run.ID.String()),
		zap.Int("month", run.Month),
		zap.Int("year", run.Year),
		zap.Int("processed", processed),
		zap.Int("skipped", skipped),
		zap.Int("failed", failed),
	)

	return RunPayrollResponse{
		Run:            mapRunToResponse(*run),
		ProcessedCount: processed,
		SkippedCount:   skipped,
		FailedCount:    failed,
		Outcomes:       outcomes,
	}, nil
}

func (s *service) processEmployee(
	ctx context.Context,
	run *PayrollRun,
	emp employee.Employee,
	periodStart, periodEnd time.Time,
) (outcome EmployeeOutcome) {
	outcome = EmployeeOutcome{
		EmployeeID:   emp.ID.String(),
		EmployeeName: emp.FullName(),
	}
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("payroll worker panic",
				zap.String("employee_id", emp.ID.String()),
				zap.Any("panic", r),
			)
			outcome.Status = OutcomeFailed
			outcome.Reason = fmt.Sprintf("panic: %v", r)
		}
	}()

	structure, err := s.salaries.FindStructureByEmployee(ctx, emp.ID.String())
	if err != nil {
		outcome.Status = OutcomeFailed
		outcome.Reason = "load salary structure: " + err.Error()
		return
	}
	if len(structure) == 0 {
		// A soft skip, not an error: the employee simply has no
		// structure assigned yet.
		outcome.Status = OutcomeSkippedNoStructure
		outcome.Reason = "no salary structure assigned"
		return
	}

	absentDays, err := s.attendance.CountByStatusInRange(
		ctx, emp.ID.String(), attendance.StatusAbsent, periodStart, periodEnd,
	)
	if err != nil {
		outcome.Status = OutcomeFailed
		outcome.Reason = "count absences: " + err.Error()
		return
	}

	comp := computePayslip(structure, absentDays)

	seq, err := s.counter.GetNextValue(ctx, fmt.Sprintf("payslip:%d", run.Year))
	if err != nil {
		outcome.Status = OutcomeFailed
		outcome.Reason = "allocate payslip number: " + err.Error()
		return
	}

	detailsJSON, err := json.Marshal(comp.Details)
	if err != nil {
		outcome.Status = OutcomeFailed
		outcome.Reason = "encode payslip details: " + err.Error()
		return
	}

	payslip := &Payslip{
		ID:            uuid.New(),
		PayrollRunID:  run.ID,
		EmployeeID:    emp.ID,
		PayslipNumber: fmt.Sprintf("PS-%d%02d-%05d", run.Year, run.Month, seq),
		BasicSalary:   comp.Basic,
		Allowances:    comp.Allowances,
		Deductions:    comp.TotalDeductions,
		NetPay:        comp.NetPay,
		Details:       string(detailsJSON),
	}
	if err := s.repo.CreatePayslip(ctx, payslip); err != nil {
		outcome.Status = OutcomeFailed
		outcome.Reason = "persist payslip: " + err.Error()
		return
	}
	outcome.PayslipID = payslip.ID.String()

	if s.rdb != nil {
		if err := s.rdb.Del(ctx, payslipListKey(emp.ID.String())).Err(); err != nil {
			s.logger.Warn("invalidate payslip cache failed",
				zap.String("employee_id", emp.ID.String()),
				zap.Error(err),
			)
		}
	}

	path, err := s.renderer.Render(ctx, payslip, &emp, run)
	if err != nil {
		// The payslip row stands; only the document is missing and can
		// be re-rendered on demand.
		s.logger.Error("render payslip failed",
			zap.String("payslip_id", payslip.ID.String()),
			zap.Error(err),
		)
		outcome.Status = OutcomeFailed
		outcome.Reason = "payslip stored but rendering failed: " + err.Error()
		return
	}

	payslip.PdfPath = &path
	if err := s.repo.UpdatePayslip(ctx, payslip); err != nil {
		outcome.Status = OutcomeFailed
		outcome.Reason = "persist payslip path: " + err.Error()
		return
	}

	outcome.Status = OutcomeProcessed
	return
}

func (s *service) queueRunCompleted(ctx context.Context, run *PayrollRun, processed, skipped, failed int) {
	if s.outbox == nil {
		return
	}

	rid := contextutil.GetRequestID(ctx)
	event := events.PayrollRunCompletedEvent{
		EventType:      "payroll_run_completed",
		PayrollRunID:   run.ID.String(),
		Month:          run.Month,
		Year:           run.Year,
		ProcessedCount: processed,
		SkippedCount:   skipped,
		FailedCount:    failed,
		OccurredAt:     time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal run completed event failed", zap.Error(err))
		return
	}

	if err := s.outbox.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "payroll_run",
		AggregateID:   run.ID.String(),
		EventType:     event.EventType,
		Topic:         events.PayrollRunCompletedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		s.logger.Error("queue run completed event failed",
			zap.String("run_id", run.ID.String()),
			zap.Error(err),
		)
		return
	}

	s.logger.Info("run completed event queued", zap.String("run_id", run.ID.String()))
}

func (s *service) GetPayslipsForEmployee(ctx context.Context, employeeID string) ([]PayslipResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, payrollerrors.ErrInvalidEmployeeID
	}

	cacheKey := payslipListKey(employeeID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp []PayslipResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		payslips, err := s.repo.FindPayslipsByEmployee(ctx, employeeID)
		if err != nil {
			return nil, err
		}

		resp := make([]PayslipResponse, len(payslips))
		for i, p := range payslips {
			resp[i] = mapPayslipToResponse(p)
		}

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, payslipListTTL)
			}
		}

		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]PayslipResponse), nil
}

func (s *service) GetPayslip(ctx context.Context, payslipID, actorEmployeeID, actorRole string) (PayslipResponse, error) {
	payslip, err := s.findPayslip(ctx, payslipID)
	if err != nil {
		return PayslipResponse{}, err
	}

	if err := s.authorizePayslipRead(payslip, actorEmployeeID, actorRole); err != nil {
		return PayslipResponse{}, err
	}

	return mapPayslipToResponse(*payslip), nil
}

func (s *service) GetPayslipFile(ctx context.Context, payslipID, actorEmployeeID, actorRole string) (string, error) {
	payslip, err := s.findPayslip(ctx, payslipID)
	if err != nil {
		return "", err
	}

	if err := s.authorizePayslipRead(payslip, actorEmployeeID, actorRole); err != nil {
		return "", err
	}

	if payslip.PdfPath == nil || *payslip.PdfPath == "" {
		return "", payrollerrors.ErrPayslipNotRendered
	}
	return *payslip.PdfPath, nil
}

// RequestRender queues an asynchronous re-render of a payslip document.
// The actual rendering happens in the consumer process.
func (s *service) RequestRender(ctx context.Context, payslipID string) error {
	payslip, err := s.findPayslip(ctx, payslipID)
	if err != nil {
		return err
	}
	if s.outbox == nil {
		return errors.New("event queue not configured")
	}

	rid := contextutil.GetRequestID(ctx)
	event := events.PayslipRenderRequestedEvent{
		EventType:   "payslip_render_requested",
		PayslipID:   payslip.ID.String(),
		RequestedBy: contextutil.GetUserID(ctx),
		OccurredAt:  time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if err := s.outbox.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "payslip",
		AggregateID:   payslip.ID.String(),
		EventType:     event.EventType,
		Topic:         events.PayslipRenderRequestedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		s.logger.Error("queue render request failed",
			zap.String("payslip_id", payslip.ID.String()),
			zap.Error(err),
		)
		return err
	}

	s.logger.Info("payslip render queued", zap.String("payslip_id", payslip.ID.String()))
	return nil
}

// RenderPayslip renders (or re-renders) the document for an existing
// payslip and stores the resulting path.
func (s *service) RenderPayslip(ctx context.Context, payslipID string) (PayslipResponse, error) {
	payslip, err := s.findPayslip(ctx, payslipID)
	if err != nil {
		return PayslipResponse{}, err
	}

	run := payslip.Run
	if run == nil {
		run, err = s.repo.FindRunByID(ctx, payslip.PayrollRunID.String())
		if err != nil {
			return PayslipResponse{}, err
		}
	}

	emp, err := s.employees.FindByID(ctx, payslip.EmployeeID.String())
	if err != nil {
		return PayslipResponse{}, err
	}

	path, err := s.renderer.Render(ctx, payslip, emp, run)
	if err != nil {
		s.logger.Error("render payslip failed",
			zap.String("payslip_id", payslipID),
			zap.Error(err),
		)
		return PayslipResponse{}, payrollerrors.RenderFailed(err)
	}

	payslip.PdfPath = &path
	if err := s.repo.UpdatePayslip(ctx, payslip); err != nil {
		return PayslipResponse{}, err
	}

	if s.rdb != nil {
		s.rdb.Del(ctx, payslipListKey(payslip.EmployeeID.String()))
	}

	return mapPayslipToResponse(*payslip), nil
}

func (s *service) findPayslip(ctx context.Context, payslipID string) (*Payslip, error) {
	if _, err := uuid.Parse(payslipID); err != nil {
		return nil, payrollerrors.ErrInvalidPayslipID
	}

	payslip, err := s.repo.FindPayslipByID(ctx, payslipID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, payrollerrors.ErrPayslipNotFound
		}
		return nil, err
	}
	return payslip, nil
}

func (s *service) authorizePayslipRead(payslip *Payslip, actorEmployeeID, actorRole string) error {
	if s.authorizer != nil {
		elevated, err := s.authorizer.Enforce(actorRole, "payslip", "read_all")
		if err != nil {
			return err
		}
		if elevated {
			return nil
		}
	}
	if actorEmployeeID == "" || payslip.EmployeeID.String() != actorEmployeeID {
		return payrollerrors.ErrPayslipAccessDenied
	}
	return nil
}

func mapRunToResponse(run PayrollRun) RunResponse {
	return RunResponse{
		ID:        run.ID.String(),
		Month:     run.Month,
		Year:      run.Year,
		Status:    run.Status,
		CreatedAt: run.CreatedAt,
	}
}

func mapPayslipToResponse(p Payslip) PayslipResponse {
	resp := PayslipResponse{
		ID:            p.ID.String(),
		PayrollRunID:  p.PayrollRunID.String(),
		EmployeeID:    p.EmployeeID.String(),
		PayslipNumber: p.PayslipNumber,
		BasicSalary:   p.BasicSalary,
		Allowances:    p.Allowances,
		Deductions:    p.Deductions,
		NetPay:        p.NetPay,
		PdfPath:       p.PdfPath,
		CreatedAt:     p.CreatedAt,
	}
	if p.Run != nil {
		resp.Month = p.Run.Month
		resp.Year = p.Run.Year
	}
	if p.Employee != nil {
		resp.EmployeeName = p.Employee.FirstName + " " + p.Employee.LastName
	}
	_ = json.Unmarshal([]byte(p.Details), &resp.Details)
	return resp
}
