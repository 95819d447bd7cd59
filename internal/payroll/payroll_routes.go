package payroll

import (
	"go-hrcore/internal/middleware"
	"go-hrcore/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service, rdb *redis.Client) {
	payrolls := r.Group("/payroll")
	payrolls.Use(middleware.AuthMiddleware())
	{
		payrolls.POST("/run",
			middleware.RBACAuthorize(rbacService, "payroll", "run"),
			middleware.Idempotency(rdb),
			h.Run,
		)

		payrolls.GET("/payslips/me",
			middleware.RBACAuthorize(rbacService, "payslip", "read_own"),
			h.GetMyPayslips,
		)
		payrolls.GET("/payslips/employee/:employeeId",
			middleware.RBACAuthorize(rbacService, "payslip", "read_all"),
			h.GetEmployeePayslips,
		)
		payrolls.GET("/payslips/:id",
			middleware.RBACAuthorize(rbacService, "payslip", "read_own"),
			h.GetPayslip,
		)
		payrolls.GET("/payslips/:id/download",
			middleware.RBACAuthorize(rbacService, "payslip", "read_own"),
			h.DownloadPayslip,
		)
		payrolls.POST("/payslips/:id/render",
			middleware.RBACAuthorize(rbacService, "payslip", "read_all"),
			h.RequestRender,
		)
	}
}
