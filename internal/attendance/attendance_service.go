package attendance

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"
	"time"

	attendanceerrors "go-hrcore/internal/attendance/errors"
	"go-hrcore/internal/employee"
	"go-hrcore/internal/punch"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const sweepRemarks = "System Auto-Absent (No Punch Found)"

type Service interface {
	ProcessDaily(ctx context.Context, employeeID, date string) (ProcessResult, error)
	Regularize(ctx context.Context, id string, req RegularizeRequest) (AttendanceResponse, error)
	ClockIn(ctx context.Context, employeeID string) (AttendanceResponse, error)
	ClockOut(ctx context.Context, employeeID string) (AttendanceResponse, error)
	GetAll(ctx context.Context, actorEmployeeID string, canReadAll bool, filter QueryFilter) ([]AttendanceResponse, error)
	SweepAbsent(ctx context.Context, date time.Time) (SweepResult, error)
}

// dayLocks serializes aggregation per (employee, date) so concurrent
// ProcessDaily calls cannot race the read-then-write upsert. Keys are
// date-stamped and never reused once the day closes, so past-day
// entries are pruned when the map grows; an evicted straggler still
// hits the unique constraint and merges.
type dayLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

const dayLocksPruneThreshold = 4096

func (d *dayLocks) get(key string) *sync.Mutex {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.locks) >= dayLocksPruneThreshold {
		d.prune(time.Now().Format("2006-01-02"))
	}

	l, exists := d.locks[key]
	if !exists {
		l = &sync.Mutex{}
		d.locks[key] = l
	}
	return l
}

// prune drops entries dated before today. Caller holds d.mu.
func (d *dayLocks) prune(today string) {
	for key := range d.locks {
		if i := strings.LastIndexByte(key, '|'); i >= 0 && key[i+1:] < today {
			delete(d.locks, key)
		}
	}
}

type service struct {
	db        *sql.DB
	repo      Repository
	punches   punch.Repository
	employees employee.Repository
	locks     dayLocks
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	punches punch.Repository,
	employees employee.Repository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		punches:   punches,
		employees: employees,
		locks:     dayLocks{locks: make(map[string]*sync.Mutex)},
		logger:    l,
	}
}

func (s *service) ProcessDaily(ctx context.Context, employeeID, date string) (ProcessResult, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return ProcessResult{}, attendanceerrors.ErrInvalidEmployeeID
	}

	day, err := resolveDay(date)
	if err != nil {
		return ProcessResult{}, err
	}
	dayStart, dayEnd := dayBounds(day)

	records, err := s.punches.FindByEmployeeAndDay(ctx, employeeID, dayStart, dayEnd)
	if err != nil {
		return ProcessResult{}, err
	}

	// An empty day is a sentinel, not an error. Absence is owned by the
	// end-of-day sweep, never by the aggregator.
	if len(records) == 0 {
		return ProcessResult{Skipped: true, Message: "no punch records found for this date"}, nil
	}

	var checkIn, checkOut *time.Time
	if first := records[0]; first.Type == punch.TypeIn {
		t := first.Timestamp
		checkIn = &t
	}
	if last := records[len(records)-1]; last.Type == punch.TypeOut {
		t := last.Timestamp
		checkOut = &t
	}

	verdict := Classify(checkIn, checkOut)

	lock := s.locks.get(employeeID + "|" + dayStart.Format("2006-01-02"))
	lock.Lock()
	defer lock.Unlock()

	row, err := s.upsertVerdict(ctx, employeeID, dayStart, checkIn, checkOut, verdict)
	if err != nil {
		return ProcessResult{}, err
	}

	resp := mapToResponse(*row)
	return ProcessResult{Attendance: &resp}, nil
}

// upsertVerdict updates the existing verdict for (employee, date) or
// inserts a new one. IsManual and Remarks are never touched here. A
// unique-constraint conflict means another writer inserted first; merge
// by retrying the update path.
func (s *service) upsertVerdict(
	ctx context.Context,
	employeeID string,
	day time.Time,
	checkIn, checkOut *time.Time,
	verdict Verdict,
) (*AttendanceDay, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	existing, err := qtx.FindByEmployeeAndDate(ctx, employeeID, day)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err == nil {
		existing.CheckIn = checkIn
		existing.CheckOut = checkOut
		existing.TotalHours = verdict.TotalHours
		existing.Status = verdict.Status
		if err := qtx.Update(ctx, existing); err != nil {
			return nil, err
		}
		if err := tx.Commit(); err != nil {
			return nil, err
		}
		return existing, nil
	}

	row := &AttendanceDay{
		ID:         uuid.New(),
		EmployeeID: uuid.MustParse(employeeID),
		Date:       day,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		TotalHours: verdict.TotalHours,
		Status:     verdict.Status,
	}
	if err := qtx.Create(ctx, row); err != nil {
		if errors.Is(mapRepositoryError(err), attendanceerrors.ErrDuplicateVerdict) {
			// Lost the insert race; fold into the winner's row.
			winner, findErr := qtx.FindByEmployeeAndDate(ctx, employeeID, day)
			if findErr != nil {
				return nil, findErr
			}
			winner.CheckIn = checkIn
			winner.CheckOut = checkOut
			winner.TotalHours = verdict.TotalHours
			winner.Status = verdict.Status
			if updateErr := qtx.Update(ctx, winner); updateErr != nil {
				return nil, updateErr
			}
			row = winner
		} else {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return row, nil
}

func (s *service) Regularize(ctx context.Context, id string, req RegularizeRequest) (AttendanceResponse, error) {
	checkIn, err := time.Parse(time.RFC3339, req.CheckIn)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidTimestamp
	}
	checkOut, err := time.Parse(time.RFC3339, req.CheckOut)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidTimestamp
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	row, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, attendanceerrors.ErrAttendanceNotFound
		}
		return AttendanceResponse{}, err
	}

	// Authoritative override: the stored punches are not consulted, the
	// supplied pair fully replaces the verdict.
	verdict := Classify(&checkIn, &checkOut)

	row.CheckIn = &checkIn
	row.CheckOut = &checkOut
	row.TotalHours = verdict.TotalHours
	row.Status = verdict.Status
	row.IsManual = true // one-way flag, nothing clears it
	row.Remarks = &req.Remarks

	if err := qtx.Update(ctx, row); err != nil {
		return AttendanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}

	s.logger.Info("attendance regularized",
		zap.String("attendance_id", id),
		zap.String("status", row.Status),
	)

	return mapToResponse(*row), nil
}

func (s *service) ClockIn(ctx context.Context, employeeID string) (AttendanceResponse, error) {
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidEmployeeID
	}

	now := time.Now()
	today := startOfDay(now)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	_, err = qtx.FindByEmployeeAndDate(ctx, employeeID, today)
	if err == nil {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyClockedIn
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return AttendanceResponse{}, err
	}

	// Placeholder status until clock-out (or the end-of-day sweep).
	row := &AttendanceDay{
		ID:         uuid.New(),
		EmployeeID: employeeUUID,
		Date:       today,
		CheckIn:    &now,
		Status:     StatusAbsent,
	}

	if err := qtx.Create(ctx, row); err != nil {
		if errors.Is(mapRepositoryError(err), attendanceerrors.ErrDuplicateVerdict) {
			return AttendanceResponse{}, attendanceerrors.ErrAlreadyClockedIn
		}
		return AttendanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}

	return mapToResponse(*row), nil
}

func (s *service) ClockOut(ctx context.Context, employeeID string) (AttendanceResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidEmployeeID
	}

	now := time.Now()
	today := startOfDay(now)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	row, err := qtx.FindByEmployeeAndDate(ctx, employeeID, today)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, attendanceerrors.ErrNoOpenClockIn
		}
		return AttendanceResponse{}, err
	}
	if row.CheckOut != nil {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyClockedOut
	}
	if row.CheckIn == nil {
		return AttendanceResponse{}, attendanceerrors.ErrMissingCheckIn
	}

	// The clock path only walks the hour ladder; the late-arrival
	// override is applied by the aggregator and regularizer, not here.
	row.CheckOut = &now
	row.TotalHours = now.Sub(*row.CheckIn).Hours()
	row.Status = classifyHours(row.TotalHours)

	if err := qtx.Update(ctx, row); err != nil {
		return AttendanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}

	return mapToResponse(*row), nil
}

func (s *service) GetAll(ctx context.Context, actorEmployeeID string, canReadAll bool, filter QueryFilter) ([]AttendanceResponse, error) {
	if !canReadAll {
		if _, err := uuid.Parse(actorEmployeeID); err != nil {
			return nil, attendanceerrors.ErrInvalidEmployeeID
		}
		filter.EmployeeID = actorEmployeeID
	}

	rows, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	res := make([]AttendanceResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res, nil
}

func (s *service) SweepAbsent(ctx context.Context, date time.Time) (SweepResult, error) {
	day := startOfDay(date)

	actives, err := s.employees.FindAllActive(ctx)
	if err != nil {
		return SweepResult{}, err
	}

	covered, err := s.repo.FindEmployeeIDsWithVerdict(ctx, day)
	if err != nil {
		return SweepResult{}, err
	}
	seen := make(map[string]struct{}, len(covered))
	for _, id := range covered {
		seen[id] = struct{}{}
	}

	remarks := sweepRemarks
	marked := 0
	for _, emp := range actives {
		if _, ok := seen[emp.ID.String()]; ok {
			continue
		}

		row := &AttendanceDay{
			ID:         uuid.New(),
			EmployeeID: emp.ID,
			Date:       day,
			Status:     StatusAbsent,
			Remarks:    &remarks,
		}
		if err := s.repo.Create(ctx, row); err != nil {
			// Someone clocked in between the scan and the insert.
			if errors.Is(mapRepositoryError(err), attendanceerrors.ErrDuplicateVerdict) {
				continue
			}
			return SweepResult{}, err
		}
		marked++
	}

	s.logger.Info("absentee sweep complete",
		zap.String("date", day.Format("2006-01-02")),
		zap.Int("marked", marked),
		zap.Int("active_employees", len(actives)),
	)

	return SweepResult{Date: day.Format("2006-01-02"), MarkedCount: marked}, nil
}

func resolveDay(date string) (time.Time, error) {
	if date == "" {
		return startOfDay(time.Now()), nil
	}
	t, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		return time.Time{}, attendanceerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func dayBounds(day time.Time) (time.Time, time.Time) {
	start := startOfDay(day)
	end := start.Add(24*time.Hour - time.Nanosecond)
	return start, end
}

func mapToResponse(a AttendanceDay) AttendanceResponse {
	resp := AttendanceResponse{
		ID:         a.ID.String(),
		EmployeeID: a.EmployeeID.String(),
		Date:       a.Date.Format("2006-01-02"),
		TotalHours: a.TotalHours,
		Status:     a.Status,
		IsManual:   a.IsManual,
		Remarks:    a.Remarks,
	}
	if a.Employee != nil {
		resp.EmployeeName = a.Employee.FirstName + " " + a.Employee.LastName
	}
	if a.CheckIn != nil {
		v := a.CheckIn.Format(time.RFC3339)
		resp.CheckIn = &v
	}
	if a.CheckOut != nil {
		v := a.CheckOut.Format(time.RFC3339)
		resp.CheckOut = &v
	}
	return resp
}
