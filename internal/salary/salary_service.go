package salary

import (
	"context"
	"database/sql"
	"errors"

	salaryerrors "go-hrcore/internal/salary/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service interface {
	CreateComponent(ctx context.Context, req CreateComponentRequest) (ComponentResponse, error)
	GetAllComponents(ctx context.Context) ([]ComponentResponse, error)
	ReplaceStructure(ctx context.Context, employeeID string, req ReplaceStructureRequest) ([]StructureRowResponse, error)
	GetStructure(ctx context.Context, employeeID string) ([]StructureRowResponse, error)
}

type service struct {
	db   *sql.DB
	repo Repository
}

func NewService(db *sql.DB, repo Repository) Service {
	return &service{db: db, repo: repo}
}

func (s *service) CreateComponent(ctx context.Context, req CreateComponentRequest) (ComponentResponse, error) {
	if req.Type != TypeEarning && req.Type != TypeDeduction {
		return ComponentResponse{}, salaryerrors.ErrInvalidComponentType
	}

	isFixed := req.IsFixed == nil || *req.IsFixed
	if !isFixed && req.Percentage == nil {
		return ComponentResponse{}, salaryerrors.ErrPercentageRequired
	}

	row := &SalaryComponent{
		ID:         uuid.New(),
		Name:       req.Name,
		Type:       req.Type,
		IsFixed:    isFixed,
		Percentage: req.Percentage,
		IsActive:   true,
	}

	if err := s.repo.CreateComponent(ctx, row); err != nil {
		return ComponentResponse{}, err
	}

	return mapComponent(*row), nil
}

func (s *service) GetAllComponents(ctx context.Context) ([]ComponentResponse, error) {
	rows, err := s.repo.FindActiveComponents(ctx)
	if err != nil {
		return nil, err
	}

	res := make([]ComponentResponse, len(rows))
	for i, r := range rows {
		res[i] = mapComponent(r)
	}
	return res, nil
}

// ReplaceStructure is a full replace: the existing structure is cleared
// and the supplied rows inserted inside one transaction. There is no
// diff/patch path.
func (s *service) ReplaceStructure(ctx context.Context, employeeID string, req ReplaceStructureRequest) ([]StructureRowResponse, error) {
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return nil, salaryerrors.ErrInvalidEmployeeID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := qtx.ClearStructure(ctx, employeeID); err != nil {
		return nil, err
	}

	for _, comp := range req.Components {
		componentUUID, err := uuid.Parse(comp.ComponentID)
		if err != nil {
			return nil, salaryerrors.ErrComponentNotFound
		}
		if _, err := qtx.FindComponentByID(ctx, comp.ComponentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, salaryerrors.ErrComponentNotFound
			}
			return nil, err
		}

		row := &EmployeeSalaryComponent{
			ID:          uuid.New(),
			EmployeeID:  employeeUUID,
			ComponentID: componentUUID,
			Amount:      comp.Amount,
		}
		if err := qtx.CreateStructureRow(ctx, row); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return s.GetStructure(ctx, employeeID)
}

func (s *service) GetStructure(ctx context.Context, employeeID string) ([]StructureRowResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, salaryerrors.ErrInvalidEmployeeID
	}

	rows, err := s.repo.FindStructureByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	res := make([]StructureRowResponse, len(rows))
	for i, r := range rows {
		res[i] = mapStructureRow(r)
	}
	return res, nil
}

func mapComponent(c SalaryComponent) ComponentResponse {
	return ComponentResponse{
		ID:         c.ID.String(),
		Name:       c.Name,
		Type:       c.Type,
		IsFixed:    c.IsFixed,
		Percentage: c.Percentage,
	}
}

func mapStructureRow(r EmployeeSalaryComponent) StructureRowResponse {
	resp := StructureRowResponse{
		ID:     r.ID.String(),
		Amount: r.Amount,
	}
	if r.Component != nil {
		resp.Component = mapComponent(*r.Component)
	}
	return resp
}
