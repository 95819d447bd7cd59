package punch

import (
	"context"
	"time"

	puncherrors "go-hrcore/internal/punch/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	Ingest(ctx context.Context, req IngestRequest) (PunchResponse, error)
}

type service struct {
	repo   Repository
	fence  Geofence
	logger *zap.Logger
}

func NewService(repo Repository, fence Geofence, logger ...*zap.Logger) Service {
	l := zap.L().Named("punch.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("punch.service")
	}
	return &service{repo: repo, fence: fence, logger: l}
}

func (s *service) Ingest(ctx context.Context, req IngestRequest) (PunchResponse, error) {
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return PunchResponse{}, puncherrors.ErrInvalidEmployeeID
	}

	ts, err := time.Parse(time.RFC3339, req.Timestamp)
	if err != nil {
		return PunchResponse{}, puncherrors.ErrInvalidTimestamp
	}

	if req.Type != TypeIn && req.Type != TypeOut {
		return PunchResponse{}, puncherrors.ErrInvalidPunchType
	}

	// Geofence only applies when a coordinate is supplied.
	if req.Latitude != nil && req.Longitude != nil {
		distance := s.fence.DistanceMeters(*req.Latitude, *req.Longitude)
		s.logger.Debug("geofence check",
			zap.String("employee_id", req.EmployeeID),
			zap.Float64("distance_m", distance),
			zap.Float64("radius_m", s.fence.RadiusMeters),
		)
		if distance > s.fence.RadiusMeters {
			return PunchResponse{}, puncherrors.ErrGeofenceViolation
		}
	}

	// No dedup and no IN/OUT ordering check here. The ledger accepts
	// whatever the clock sends, the aggregator sorts it out.
	row := &PunchEvent{
		ID:         uuid.New(),
		EmployeeID: employeeID,
		Timestamp:  ts,
		Type:       req.Type,
		Device:     req.Device,
	}

	if err := s.repo.Create(ctx, row); err != nil {
		return PunchResponse{}, err
	}

	return mapToResponse(*row), nil
}

func mapToResponse(p PunchEvent) PunchResponse {
	return PunchResponse{
		ID:         p.ID.String(),
		EmployeeID: p.EmployeeID.String(),
		Timestamp:  p.Timestamp.Format(time.RFC3339),
		Type:       p.Type,
		Device:     p.Device,
	}
}
