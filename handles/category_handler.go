package handles

import (
	"net/http"

	"mediacms/services"
	"mediacms/utils"

	"github.com/gin-gonic/gin"
)

// CategoryHandler 分类和标签
type CategoryHandler struct {
	taxonomy *services.TaxonomyService
}

// NewCategoryHandler 创建分类处理器
func NewCategoryHandler(taxonomy *services.TaxonomyService) *CategoryHandler {
	return &CategoryHandler{taxonomy: taxonomy}
}

// GetRootCategories 导航菜单中的一级分类
// GET /api/categories?media_type=video&category_type=movie
func (h *CategoryHandler) GetRootCategories(c *gin.Context) {
	categories, err := h.taxonomy.GetRootCategories(c.Request.Context(), c.Query("media_type"), c.Query("category_type"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, categories)
}

// GetCategoryTree 按类型获取分类树（一级分类及其子分类）
// GET /api/categories/type/:category_type
func (h *CategoryHandler) GetCategoryTree(c *gin.Context) {
	categoryType := c.Param("category_type")
	if categoryType == "all" {
		categoryType = ""
	}
	tree, err := h.taxonomy.GetCategoryTree(c.Request.Context(), categoryType)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, tree)
}

// GetChildren 子分类
// GET /api/categories/:id/children
func (h *CategoryHandler) GetChildren(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	children, err := h.taxonomy.GetChildren(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, children)
}

// CreateCategory 创建分类
// POST /api/admin/categories
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req services.CategoryInput
	if !bindJSON(c, &req) {
		return
	}
	category, err := h.taxonomy.CreateCategory(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Created(c, "创建成功", category)
}

// SetParent 修改父分类，parent_id 为 null 表示设为顶级
// PUT /api/admin/categories/:id/parent
func (h *CategoryHandler) SetParent(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		ParentID *uint `json:"parent_id"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if err := h.taxonomy.SetParent(c.Request.Context(), id, req.ParentID); err != nil {
		respondError(c, err)
		return
	}
	utils.Response(c, http.StatusOK, "更新成功", nil)
}

// DeactivateCategory 停用分类
// POST /api/admin/categories/:id/deactivate
func (h *CategoryHandler) DeactivateCategory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.taxonomy.DeactivateCategory(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	utils.Response(c, http.StatusOK, "已停用", nil)
}

// DeleteCategory 删除分类，子分类变为无父分类
// DELETE /api/admin/categories/:id
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.taxonomy.DeleteCategory(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	utils.Response(c, http.StatusOK, "删除成功", nil)
}

// GetTags 标签列表
// GET /api/tags?tag_category_id=1
func (h *CategoryHandler) GetTags(c *gin.Context) {
	tags, err := h.taxonomy.ListTags(c.Request.Context(), utils.QueryUint(c, "tag_category_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, tags)
}

// CreateTagCategory POST /api/admin/tag-categories
func (h *CategoryHandler) CreateTagCategory(c *gin.Context) {
	var req services.TagCategoryInput
	if !bindJSON(c, &req) {
		return
	}
	tc, err := h.taxonomy.CreateTagCategory(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Created(c, "创建成功", tc)
}

// DeleteTagCategory DELETE /api/admin/tag-categories/:id
func (h *CategoryHandler) DeleteTagCategory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.taxonomy.DeleteTagCategory(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	utils.Response(c, http.StatusOK, "删除成功", nil)
}

// CreateTag POST /api/admin/tags
func (h *CategoryHandler) CreateTag(c *gin.Context) {
	var req services.TagInput
	if !bindJSON(c, &req) {
		return
	}
	tag, err := h.taxonomy.CreateTag(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Created(c, "创建成功", tag)
}

// DeleteTag DELETE /api/admin/tags/:id
func (h *CategoryHandler) DeleteTag(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.taxonomy.DeleteTag(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	utils.Response(c, http.StatusOK, "删除成功", nil)
}
