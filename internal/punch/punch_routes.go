package punch

import (
	"go-hrcore/internal/middleware"
	"go-hrcore/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	punches := r.Group("/attendance")
	punches.Use(middleware.AuthMiddleware())
	{
		punches.POST("/ingest", middleware.RBACAuthorize(rbacService, "attendance", "ingest"), h.Ingest)
	}
}
