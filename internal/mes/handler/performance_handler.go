package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/wmarfa/production-db/internal/mes/repository"
	"github.com/wmarfa/production-db/internal/mes/service"
)

// PerformanceHandler 日报录入接口
type PerformanceHandler struct {
	svc *service.PerformanceService
}

func NewPerformanceHandler(svc *service.PerformanceService) *PerformanceHandler {
	return &PerformanceHandler{svc: svc}
}

// Create POST /performance
func (h *PerformanceHandler) Create(c *gin.Context) {
	var input service.RecordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		Error(c, 40001, "invalid request body: "+err.Error())
		return
	}
	id, err := h.svc.Create(c.Request.Context(), &input)
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, gin.H{"id": id})
}

// Replace PUT /performance/:id（整单替换，不做差量）
func (h *PerformanceHandler) Replace(c *gin.Context) {
	var input service.RecordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		Error(c, 40001, "invalid request body: "+err.Error())
		return
	}
	if err := h.svc.Replace(c.Request.Context(), c.Param("id"), &input); err != nil {
		Fail(c, err)
		return
	}
	Success(c, nil)
}

// Delete DELETE /performance/:id
func (h *PerformanceHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		Fail(c, err)
		return
	}
	Success(c, nil)
}

// Get GET /performance/:id
func (h *PerformanceHandler) Get(c *gin.Context) {
	record, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, record)
}

// List GET /performance
func (h *PerformanceHandler) List(c *gin.Context) {
	params := repository.PerformanceListParams{
		DateFrom:  c.Query("date_from"),
		DateTo:    c.Query("date_to"),
		LineShift: c.Query("line_shift"),
		Page:      queryInt(c, "page", 1),
		Size:      queryInt(c, "size", 20),
	}
	records, total, err := h.svc.List(c.Request.Context(), params)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, ListResponse{
		Items: records,
		Pagination: &Pagination{
			Page:       params.Page,
			PageSize:   params.Size,
			Total:      int(total),
			TotalPages: totalPages(total, params.Size),
		},
	})
}
