package salary

import (
	"go-hrcore/internal/middleware"
	"go-hrcore/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	salaries := r.Group("/salary")
	salaries.Use(middleware.AuthMiddleware())
	{
		salaries.GET("/components", middleware.RBACAuthorize(rbacService, "salary", "read"), h.GetAllComponents)
		salaries.POST("/components", middleware.RBACAuthorize(rbacService, "salary", "manage"), h.CreateComponent)
		salaries.GET("/structure/:employeeId", middleware.RBACAuthorize(rbacService, "salary", "read"), h.GetStructure)
		salaries.PUT("/structure/:employeeId", middleware.RBACAuthorize(rbacService, "salary", "manage"), h.ReplaceStructure)
	}
}
