package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/wmarfa/production-db/internal/mes/service"
)

// DashboardHandler 看板聚合接口
type DashboardHandler struct {
	svc *service.DashboardService
}

func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Daily GET /dashboard/daily?date=YYYY-MM-DD&line_shift=
// 返回当天全部日报及现算指标与综合得分
func (h *DashboardHandler) Daily(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		Error(c, 40001, "date is required")
		return
	}
	metrics, err := h.svc.GetDailyMetrics(c.Request.Context(), date, c.Query("line_shift"))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, metrics)
}
