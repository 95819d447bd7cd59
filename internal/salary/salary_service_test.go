package salary

import (
	"context"
	"database/sql"
	"testing"

	salaryerrors "go-hrcore/internal/salary/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeSalaryRepo struct {
	components map[string]*SalaryComponent
	structure  map[string][]EmployeeSalaryComponent
	created    []SalaryComponent
	cleared    []string
}

func newFakeSalaryRepo() *fakeSalaryRepo {
	return &fakeSalaryRepo{
		components: make(map[string]*SalaryComponent),
		structure:  make(map[string][]EmployeeSalaryComponent),
	}
}

func (f *fakeSalaryRepo) WithTx(tx *sql.Tx) Repository { return f }

func (f *fakeSalaryRepo) CreateComponent(ctx context.Context, c *SalaryComponent) error {
	f.components[c.ID.String()] = c
	f.created = append(f.created, *c)
	return nil
}

func (f *fakeSalaryRepo) FindActiveComponents(ctx context.Context) ([]SalaryComponent, error) {
	var out []SalaryComponent
	for _, c := range f.components {
		if c.IsActive {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeSalaryRepo) FindComponentByID(ctx context.Context, id string) (*SalaryComponent, error) {
	c, ok := f.components[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (f *fakeSalaryRepo) ClearStructure(ctx context.Context, employeeID string) error {
	f.cleared = append(f.cleared, employeeID)
	f.structure[employeeID] = nil
	return nil
}

func (f *fakeSalaryRepo) CreateStructureRow(ctx context.Context, row *EmployeeSalaryComponent) error {
	withComponent := *row
	if c, ok := f.components[row.ComponentID.String()]; ok {
		withComponent.Component = c
	}
	f.structure[row.EmployeeID.String()] = append(f.structure[row.EmployeeID.String()], withComponent)
	return nil
}

func (f *fakeSalaryRepo) FindStructureByEmployee(ctx context.Context, employeeID string) ([]EmployeeSalaryComponent, error) {
	return f.structure[employeeID], nil
}

func boolPtr(v bool) *bool       { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestCreateComponent_PercentageRequiresValue(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	svc := NewService(db, newFakeSalaryRepo())

	_, err := svc.CreateComponent(context.Background(), CreateComponentRequest{
		Name:    "HRA",
		Type:    TypeEarning,
		IsFixed: boolPtr(false),
	})
	assert.ErrorIs(t, err, salaryerrors.ErrPercentageRequired)

	resp, err := svc.CreateComponent(context.Background(), CreateComponentRequest{
		Name:       "HRA",
		Type:       TypeEarning,
		IsFixed:    boolPtr(false),
		Percentage: floatPtr(40),
	})
	assert.NoError(t, err)
	assert.False(t, resp.IsFixed)
	assert.Equal(t, 40.0, *resp.Percentage)
}

func TestCreateComponent_RejectsUnknownType(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	svc := NewService(db, newFakeSalaryRepo())

	_, err := svc.CreateComponent(context.Background(), CreateComponentRequest{
		Name:    "Bonus",
		Type:    "REIMBURSEMENT",
		IsFixed: boolPtr(true),
	})
	assert.ErrorIs(t, err, salaryerrors.ErrInvalidComponentType)
}

func TestReplaceStructure_FullReplace(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := newFakeSalaryRepo()
	basic := &SalaryComponent{ID: uuid.New(), Name: "Basic Salary", Type: TypeEarning, IsFixed: true, IsActive: true}
	repo.components[basic.ID.String()] = basic

	employeeID := uuid.New()
	svc := NewService(db, repo)

	mock.ExpectBegin()
	mock.ExpectCommit()
	rows, err := svc.ReplaceStructure(context.Background(), employeeID.String(), ReplaceStructureRequest{
		Components: []StructureRowRequest{
			{ComponentID: basic.ID.String(), Amount: 50000},
		},
	})
	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, "Basic Salary", rows[0].Component.Name)
	assert.Equal(t, 50000.0, rows[0].Amount)
	assert.Equal(t, []string{employeeID.String()}, repo.cleared)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceStructure_UnknownComponent(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	svc := NewService(db, newFakeSalaryRepo())

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.ReplaceStructure(context.Background(), uuid.New().String(), ReplaceStructureRequest{
		Components: []StructureRowRequest{
			{ComponentID: uuid.New().String(), Amount: 1000},
		},
	})
	assert.ErrorIs(t, err, salaryerrors.ErrComponentNotFound)
}

func TestGetStructure_InvalidEmployeeID(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	svc := NewService(db, newFakeSalaryRepo())

	_, err := svc.GetStructure(context.Background(), "whoami")
	assert.ErrorIs(t, err, salaryerrors.ErrInvalidEmployeeID)
}
