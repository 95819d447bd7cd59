package rbac

import (
	"sync"

	"github.com/casbin/casbin/v2"
	casbinmodel "github.com/casbin/casbin/v2/model"
)

const (
	RoleAdmin    = "ADMIN"
	RoleHR       = "HR"
	RoleEmployee = "EMPLOYEE"
)

const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// policies is the static permission table. Roles are fixed for this
// deployment; there is no per-tenant policy store.
var policies = [][]string{
	{RoleAdmin, "attendance", "ingest"},
	{RoleAdmin, "attendance", "process"},
	{RoleAdmin, "attendance", "regularize"},
	{RoleAdmin, "attendance", "sweep"},
	{RoleAdmin, "attendance", "read_all"},
	{RoleAdmin, "salary", "manage"},
	{RoleAdmin, "salary", "read"},
	{RoleAdmin, "payroll", "run"},
	{RoleAdmin, "payslip", "read_all"},

	{RoleEmployee, "attendance", "clock"},
	{RoleEmployee, "attendance", "read"},
	{RoleEmployee, "payslip", "read_own"},
}

// grouping makes HR inherit everything ADMIN can do, and both inherit
// the employee self-service permissions.
var grouping = [][]string{
	{RoleHR, RoleAdmin},
	{RoleAdmin, RoleEmployee},
	{RoleHR, RoleEmployee},
}

type Service interface {
	Enforce(role, resource, action string) (bool, error)
}

type service struct {
	enforcer *casbin.Enforcer
	mu       sync.Mutex
}

func NewService() (Service, error) {
	m, err := casbinmodel.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}

	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	for _, p := range policies {
		if _, err := enforcer.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, err
		}
	}
	for _, g := range grouping {
		if _, err := enforcer.AddGroupingPolicy(g[0], g[1]); err != nil {
			return nil, err
		}
	}

	return &service{enforcer: enforcer}, nil
}

func (s *service) Enforce(role, resource, action string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.enforcer.Enforce(role, resource, action)
}
