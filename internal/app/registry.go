package app

import (
	"database/sql"

	"go-hrcore/internal/attendance"
	"go-hrcore/internal/employee"
	"go-hrcore/internal/messaging/kafka"
	"go-hrcore/internal/middleware"
	"go-hrcore/internal/payroll"
	"go-hrcore/internal/punch"
	"go-hrcore/internal/rbac"
	"go-hrcore/internal/salary"
	"go-hrcore/internal/shared/counter"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	employeeRepo := employee.NewRepository(gormDB)
	punchRepo := punch.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	salaryRepo := salary.NewRepository(gormDB)
	payrollRepo := payroll.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	rbacService, err := rbac.NewService()
	if err != nil {
		return err
	}

	// --- Services ---
	punchService := punch.NewService(punchRepo, punch.GeofenceFromEnv())
	attendanceService := attendance.NewService(db, attendanceRepo, punchRepo, employeeRepo)
	salaryService := salary.NewService(db, salaryRepo)
	payrollService := payroll.NewService(db, payrollRepo, payroll.Dependencies{
		Employees:  employeeRepo,
		Salaries:   salaryRepo,
		Attendance: attendanceRepo,
		Counter:    counterRepo,
		Outbox:     outboxRepo,
		Renderer:   payroll.NewPDFRenderer(),
		Authorizer: rbacService,
		Redis:      rdb,
	})

	// --- Handlers ---
	punchHandler := punch.NewHandler(punchService)
	attendanceHandler := attendance.NewHandler(attendanceService)
	salaryHandler := salary.NewHandler(salaryService)
	payrollHandler := payroll.NewHandlerWithRedis(payrollService, rdb)

	// --- Routes Registration ---
	router.Use(middleware.RequestID())
	router.Use(middleware.RateLimitByIP(rate.Limit(50), 100))

	api := router.Group("/api/v1")
	{
		punch.RegisterRoutes(api, punchHandler, rbacService)
		attendance.RegisterRoutes(api, attendanceHandler, rbacService)
		salary.RegisterRoutes(api, salaryHandler, rbacService)
		payroll.RegisterRoutes(api, payrollHandler, rbacService, rdb)
	}

	return nil
}
