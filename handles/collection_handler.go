package handles

import (
	"fmt"
	"net/http"

	"mediacms/services"
	"mediacms/utils"

	"github.com/gin-gonic/gin"
)

// CollectionHandler 采集和导入
type CollectionHandler struct {
	imports *services.ImportService
}

// NewCollectionHandler 创建采集处理器
func NewCollectionHandler(imports *services.ImportService) *CollectionHandler {
	return &CollectionHandler{imports: imports}
}

// CollectVideos 同步执行采集，返回每个数据源的采集日志
// POST /api/admin/collect
// Body: {"mode": "today", "source_keys": ["hhzy"], "max_pages": 5}
func (h *CollectionHandler) CollectVideos(c *gin.Context) {
	var req struct {
		Mode       string   `json:"mode"`        // today, week, month, all
		SourceKeys []string `json:"source_keys"` // 为空时采集全部启用的源
		MaxPages   int      `json:"max_pages"`
	}
	if !bindJSON(c, &req) {
		return
	}

	mode, err := services.ParseCollectMode(req.Mode)
	if err != nil {
		respondError(c, err)
		return
	}

	logs, err := h.imports.CollectSources(c.Request.Context(), req.SourceKeys, mode, req.MaxPages)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Response(c, http.StatusOK, fmt.Sprintf("采集完成，共 %d 个数据源", len(logs)), logs)
}

// GetCollectionLogs 采集日志
// GET /api/admin/collection-logs?source_key=hhzy&page=1
func (h *CollectionHandler) GetCollectionLogs(c *gin.Context) {
	logs, err := h.imports.ListCollectionLogs(c.Request.Context(), c.Query("source_key"), utils.GetPage(c), utils.GetPageSize(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, logs)
}

// ImportJSON 直接导入一批苹果CMS格式的条目
// POST /api/admin/import
// Body: {"source_key": "hhzy", "list": [{"vod_id": 1, "vod_name": "..."}]}
func (h *CollectionHandler) ImportJSON(c *gin.Context) {
	var req struct {
		SourceKey string                   `json:"source_key" binding:"required"`
		List      []map[string]interface{} `json:"list" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}

	stats, err := h.imports.ImportList(c.Request.Context(), req.SourceKey, req.List)
	if err != nil {
		respondError(c, err)
		return
	}
	msg := fmt.Sprintf("导入完成: 新增 %d 条，更新 %d 条，失败 %d 条", stats.Created, stats.Updated, stats.Errors)
	utils.Response(c, http.StatusOK, msg, stats)
}
