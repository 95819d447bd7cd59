package attendance

import (
	"go-hrcore/internal/middleware"
	"go-hrcore/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	attendances := r.Group("/attendance")
	attendances.Use(middleware.AuthMiddleware())
	{
		attendances.GET("", middleware.RBACAuthorize(rbacService, "attendance", "read"), h.GetAll)
		attendances.POST("/process", middleware.RBACAuthorize(rbacService, "attendance", "process"), h.Process)
		attendances.PATCH("/:id/regularize", middleware.RBACAuthorize(rbacService, "attendance", "regularize"), h.Regularize)
		attendances.POST("/clock-in", middleware.RBACAuthorize(rbacService, "attendance", "clock"), h.ClockIn)
		attendances.POST("/clock-out", middleware.RBACAuthorize(rbacService, "attendance", "clock"), h.ClockOut)
		attendances.POST("/sweep-absent", middleware.RBACAuthorize(rbacService, "attendance", "sweep"), h.SweepAbsent)
	}
}
