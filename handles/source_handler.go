package handles

import (
	"fmt"
	"net/http"

	"mediacms/services"
	"mediacms/utils"

	"github.com/gin-gonic/gin"
)

// SourceHandler 第三方数据源管理
type SourceHandler struct {
	sources    *services.SourceService
	imports    *services.ImportService
	configFile string
}

// NewSourceHandler 创建数据源处理器，configFile 为数据源配置文件
func NewSourceHandler(svc *services.Services, configFile string) *SourceHandler {
	return &SourceHandler{sources: svc.Sources, imports: svc.Import, configFile: configFile}
}

// GetSources 数据源列表
// GET /api/admin/sources?active=1
func (h *SourceHandler) GetSources(c *gin.Context) {
	sources, err := h.sources.ListSources(c.Request.Context(), c.Query("active") == "1")
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, sources)
}

// CreateSource POST /api/admin/sources
func (h *SourceHandler) CreateSource(c *gin.Context) {
	var req services.SourceInput
	if !bindJSON(c, &req) {
		return
	}
	source, err := h.sources.CreateSource(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Created(c, "创建成功", source)
}

// UpdateSource PUT /api/admin/sources/:key
func (h *SourceHandler) UpdateSource(c *gin.Context) {
	var req services.SourceInput
	if !bindJSON(c, &req) {
		return
	}
	source, err := h.sources.UpdateSource(c.Request.Context(), c.Param("key"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Response(c, http.StatusOK, "更新成功", source)
}

// DeleteSource DELETE /api/admin/sources/:key
func (h *SourceHandler) DeleteSource(c *gin.Context) {
	if err := h.sources.DeleteSource(c.Request.Context(), c.Param("key")); err != nil {
		respondError(c, err)
		return
	}
	utils.Response(c, http.StatusOK, "删除成功", nil)
}

// SyncSources 按配置文件同步数据源
// POST /api/admin/sources/sync
func (h *SourceHandler) SyncSources(c *gin.Context) {
	configs, err := services.LoadSourceConfig(h.configFile)
	if err != nil {
		respondError(c, err)
		return
	}
	created, updated, err := h.sources.SyncSources(c.Request.Context(), configs)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Response(c, http.StatusOK, fmt.Sprintf("新增 %d 个，更新 %d 个", created, updated), gin.H{
		"created": created,
		"updated": updated,
	})
}

// DiscoverCategories 发现资源站分类并给出映射建议
// GET /api/admin/sources/:key/categories
func (h *SourceHandler) DiscoverCategories(c *gin.Context) {
	discovery, err := h.imports.DiscoverCategories(c.Request.Context(), c.Param("key"))
	if err != nil {
		respondError(c, err)
		return
	}
	msg := fmt.Sprintf("发现 %d 个分类，已映射 %d 个，未映射 %d 个",
		len(discovery.Categories), discovery.MappedCount, discovery.UnmappedCount)
	utils.Response(c, http.StatusOK, msg, discovery)
}

// MapCategories 设置分类映射
// PUT /api/admin/sources/:key/category-map
// Body: {"mappings": {"6": "action", "13": ""}}，slug 为空表示删除
func (h *SourceHandler) MapCategories(c *gin.Context) {
	var req struct {
		Mappings map[string]string `json:"mappings" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}
	source, err := h.sources.MapCategories(c.Request.Context(), c.Param("key"), req.Mappings)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Response(c, http.StatusOK, "映射已保存", gin.H{
		"source_key":   source.Key,
		"category_map": services.CategoryMap(source),
	})
}

// AutoMapCategories 自动应用映射建议
// POST /api/admin/sources/:key/auto-map
// Body: {"confidence_threshold": "medium"}
func (h *SourceHandler) AutoMapCategories(c *gin.Context) {
	var req struct {
		ConfidenceThreshold string `json:"confidence_threshold"`
	}
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}
	applied, err := h.imports.AutoMapCategories(c.Request.Context(), c.Param("key"), req.ConfidenceThreshold)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Response(c, http.StatusOK, fmt.Sprintf("已自动映射 %d 个分类", len(applied)), applied)
}
