package punch

import (
	"context"
	"testing"
	"time"

	puncherrors "go-hrcore/internal/punch/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakePunchRepo struct {
	createFn  func(ctx context.Context, p *PunchEvent) error
	findDayFn func(ctx context.Context, employeeID string, dayStart, dayEnd time.Time) ([]PunchEvent, error)
}

func (f *fakePunchRepo) Create(ctx context.Context, p *PunchEvent) error { return f.createFn(ctx, p) }
func (f *fakePunchRepo) FindByEmployeeAndDay(ctx context.Context, employeeID string, dayStart, dayEnd time.Time) ([]PunchEvent, error) {
	return f.findDayFn(ctx, employeeID, dayStart, dayEnd)
}

func floatPtr(v float64) *float64 { return &v }

func validRequest() IngestRequest {
	return IngestRequest{
		EmployeeID: uuid.New().String(),
		Timestamp:  "2026-03-16T09:00:00Z",
		Type:       TypeIn,
	}
}

func TestIngest_PersistsPunch(t *testing.T) {
	var saved PunchEvent
	repo := &fakePunchRepo{
		createFn: func(ctx context.Context, p *PunchEvent) error { saved = *p; return nil },
	}

	fence := Geofence{Latitude: 12.9716, Longitude: 77.5946, RadiusMeters: 200}
	svc := NewService(repo, fence)

	req := validRequest()
	resp, err := svc.Ingest(context.Background(), req)
	assert.NoError(t, err)
	assert.Equal(t, req.EmployeeID, resp.EmployeeID)
	assert.Equal(t, TypeIn, saved.Type)
	assert.Equal(t, "2026-03-16T09:00:00Z", saved.Timestamp.Format(time.RFC3339))
}

func TestIngest_ValidationErrors(t *testing.T) {
	repo := &fakePunchRepo{
		createFn: func(ctx context.Context, p *PunchEvent) error { return nil },
	}
	svc := NewService(repo, Geofence{RadiusMeters: 200})

	req := validRequest()
	req.EmployeeID = "nope"
	_, err := svc.Ingest(context.Background(), req)
	assert.ErrorIs(t, err, puncherrors.ErrInvalidEmployeeID)

	req = validRequest()
	req.Timestamp = "16/03/2026 09:00"
	_, err = svc.Ingest(context.Background(), req)
	assert.ErrorIs(t, err, puncherrors.ErrInvalidTimestamp)

	req = validRequest()
	req.Type = "BREAK"
	_, err = svc.Ingest(context.Background(), req)
	assert.ErrorIs(t, err, puncherrors.ErrInvalidPunchType)
}

func TestIngest_GeofenceViolation(t *testing.T) {
	created := false
	repo := &fakePunchRepo{
		createFn: func(ctx context.Context, p *PunchEvent) error { created = true; return nil },
	}

	fence := Geofence{Latitude: 12.9716, Longitude: 77.5946, RadiusMeters: 200}
	svc := NewService(repo, fence)

	req := validRequest()
	req.Latitude = floatPtr(12.9816) // ~1.1km away
	req.Longitude = floatPtr(77.5946)

	_, err := svc.Ingest(context.Background(), req)
	assert.ErrorIs(t, err, puncherrors.ErrGeofenceViolation)
	assert.False(t, created)
}

func TestIngest_NoCoordinateSkipsGeofence(t *testing.T) {
	repo := &fakePunchRepo{
		createFn: func(ctx context.Context, p *PunchEvent) error { return nil },
	}

	// A fence with zero radius would reject every coordinate.
	svc := NewService(repo, Geofence{})

	_, err := svc.Ingest(context.Background(), validRequest())
	assert.NoError(t, err)
}

func TestIngest_AcceptsOutOfOrderPunches(t *testing.T) {
	var types []string
	repo := &fakePunchRepo{
		createFn: func(ctx context.Context, p *PunchEvent) error { types = append(types, p.Type); return nil },
	}
	svc := NewService(repo, Geofence{RadiusMeters: 200})

	out := validRequest()
	out.Type = TypeOut
	_, err := svc.Ingest(context.Background(), out)
	assert.NoError(t, err)

	again := validRequest()
	again.Type = TypeOut
	_, err = svc.Ingest(context.Background(), again)
	assert.NoError(t, err)

	assert.Equal(t, []string{TypeOut, TypeOut}, types)
}
