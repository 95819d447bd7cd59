package attendance

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	attendanceerrors "go-hrcore/internal/attendance/errors"
	"go-hrcore/internal/shared/apperror"
	"go-hrcore/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Process(c *gin.Context) {
	var req ProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.ProcessDaily(c.Request.Context(), req.EmployeeID, req.Date)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Regularize(c *gin.Context) {
	id := c.Param("id")

	var req RegularizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Regularize(c.Request.Context(), id, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ClockIn(c *gin.Context) {
	employeeID := c.GetString("employee_id")

	resp, err := h.service.ClockIn(c.Request.Context(), employeeID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) ClockOut(c *gin.Context) {
	employeeID := c.GetString("employee_id")

	resp, err := h.service.ClockOut(c.Request.Context(), employeeID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	actorID := c.GetString("employee_id")
	role := strings.ToUpper(strings.TrimSpace(c.GetString("role")))
	canReadAll := isPrivilegedRole(role)

	filter := QueryFilter{EmployeeID: c.Query("employee_id")}
	if from, err := time.Parse("2006-01-02", c.Query("start_date")); err == nil {
		if to, err := time.Parse("2006-01-02", c.Query("end_date")); err == nil {
			filter.From = &from
			filter.To = &to
		}
	}

	resp, err := h.service.GetAll(c.Request.Context(), actorID, canReadAll, filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if pageSize < 1 {
		pageSize = 10
	}

	total := int64(len(resp))
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(resp) {
		start = len(resp)
	}
	if end > len(resp) {
		end = len(resp)
	}

	meta := response.NewPaginationMeta(total, page, pageSize)
	response.Success(c, http.StatusOK, resp[start:end], &meta)
}

func (h *Handler) SweepAbsent(c *gin.Context) {
	var req SweepRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	day := time.Now()
	if req.Date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
		if err != nil {
			writeServiceError(c, attendanceerrors.ErrInvalidDateFormat)
			return
		}
		day = parsed
	}

	resp, err := h.service.SweepAbsent(c.Request.Context(), day)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func isPrivilegedRole(role string) bool {
	switch role {
	case "ADMIN", "HR":
		return true
	default:
		return false
	}
}
