package payroll

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go-hrcore/internal/shared/apperror"
	"go-hrcore/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type Handler struct {
	service Service
	rdb     *redis.Client
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func NewHandlerWithRedis(service Service, rdb *redis.Client) *Handler {
	return &Handler{service: service, rdb: rdb}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func actorRole(c *gin.Context) string {
	return strings.ToUpper(strings.TrimSpace(c.GetString("role")))
}

func (h *Handler) Run(c *gin.Context) {
	lockKey, _ := c.Get("idempotency_lock_key")
	cacheKey, _ := c.Get("idempotency_cache_key")

	if h.rdb != nil {
		if lk, ok := lockKey.(string); ok && lk != "" {
			defer h.rdb.Del(c.Request.Context(), lk)
		}
	}

	var req RunPayrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.RunPayroll(c.Request.Context(), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	if h.rdb != nil {
		if ck, ok := cacheKey.(string); ok && ck != "" {
			if payload, marshalErr := json.Marshal(resp); marshalErr == nil {
				_ = h.rdb.Set(c.Request.Context(), ck, payload, 24*time.Hour).Err()
			}
		}
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

// GetMyPayslips lists the calling employee's own payslips.
func (h *Handler) GetMyPayslips(c *gin.Context) {
	employeeID := c.GetString("employee_id")

	resp, err := h.service.GetPayslipsForEmployee(c.Request.Context(), employeeID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.writePayslipPage(c, resp)
}

// GetEmployeePayslips lists any employee's payslips; the route is gated
// to elevated roles.
func (h *Handler) GetEmployeePayslips(c *gin.Context) {
	employeeID := c.Param("employeeId")

	resp, err := h.service.GetPayslipsForEmployee(c.Request.Context(), employeeID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.writePayslipPage(c, resp)
}

func (h *Handler) writePayslipPage(c *gin.Context, resp []PayslipResponse) {
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

func (h *Handler) GetPayslip(c *gin.Context) {
	resp, err := h.service.GetPayslip(
		c.Request.Context(),
		c.Param("id"),
		c.GetString("employee_id"),
		actorRole(c),
	)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) DownloadPayslip(c *gin.Context) {
	path, err := h.service.GetPayslipFile(
		c.Request.Context(),
		c.Param("id"),
		c.GetString("employee_id"),
		actorRole(c),
	)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.File(path)
}

func (h *Handler) RequestRender(c *gin.Context) {
	if err := h.service.RequestRender(c.Request.Context(), c.Param("id")); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusAccepted, gin.H{"queued": true}, nil)
}
