package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wmarfa/production-db/internal/mes/repository"
	"github.com/wmarfa/production-db/internal/mes/service"
)

// Handlers 处理器集合
type Handlers struct {
	Product     *ProductHandler
	Performance *PerformanceHandler
	Dashboard   *DashboardHandler
	Backup      *BackupHandler
}

// NewHandlers 创建处理器集合
func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Product:     NewProductHandler(services.Product),
		Performance: NewPerformanceHandler(services.Performance),
		Dashboard:   NewDashboardHandler(services.Dashboard),
		Backup:      NewBackupHandler(services.Backup),
	}
}

// === 响应辅助函数 ===

type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type ListResponse struct {
	Items      interface{} `json:"items"`
	Pagination *Pagination `json:"pagination"`
}

type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

// Fail 业务错误映射：校验→400，未找到→404，冲突→409，其余→500
func Fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		Error(c, 40001, err.Error())
	case errors.Is(err, service.ErrBadSnapshot):
		Error(c, 40002, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		Error(c, 40401, err.Error())
	case errors.Is(err, service.ErrProductReferenced):
		Error(c, 40901, err.Error())
	case errors.Is(err, service.ErrRestoreBusy):
		Error(c, 40902, err.Error())
	default:
		Error(c, 50001, err.Error())
	}
}

func queryInt(c *gin.Context, key string, fallback int) int {
	v := c.Query(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func totalPages(total int64, size int) int {
	if size <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}
