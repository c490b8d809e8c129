package handler

import (
	"fmt"
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wmarfa/production-db/internal/mes/service"
)

// BackupHandler 备份/恢复接口
type BackupHandler struct {
	svc *service.BackupService
}

func NewBackupHandler(svc *service.BackupService) *BackupHandler {
	return &BackupHandler{svc: svc}
}

// Download GET /backup 导出全库快照文件
func (h *BackupHandler) Download(c *gin.Context) {
	snapshot, err := h.svc.Backup(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	filename := fmt.Sprintf("production-db-%s.json", time.Now().Format("20060102-150405"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.JSON(200, snapshot)
}

// Restore POST /restore 上传快照并整库替换恢复
func (h *BackupHandler) Restore(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		Error(c, 40001, "read request body: "+err.Error())
		return
	}
	if err := h.svc.Restore(c.Request.Context(), raw); err != nil {
		Fail(c, err)
		return
	}
	Success(c, nil)
}
