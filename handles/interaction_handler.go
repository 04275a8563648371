package handles

import (
	"net/http"
	"strconv"

	"mediacms/middleware"
	"mediacms/services"
	"mediacms/utils"

	"github.com/gin-gonic/gin"
)

// InteractionHandler 评论、弹幕、评分和缓存
type InteractionHandler struct {
	comments     *services.CommentService
	interactions *services.InteractionService
}

// NewInteractionHandler 创建互动处理器
func NewInteractionHandler(svc *services.Services) *InteractionHandler {
	return &InteractionHandler{comments: svc.Comments, interactions: svc.Interactions}
}

// GetComments 一级评论，最新在前
// GET /api/videos/:id/comments?page=1
func (h *InteractionHandler) GetComments(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	comments, err := h.comments.ListComments(c.Request.Context(), id, utils.GetPage(c), utils.GetPageSize(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, comments)
}

// GetReplies GET /api/comments/:id/replies
func (h *InteractionHandler) GetReplies(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	replies, err := h.comments.ListReplies(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, replies)
}

// CreateComment POST /api/videos/:id/comments
func (h *InteractionHandler) CreateComment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req services.CommentInput
	if !bindJSON(c, &req) {
		return
	}
	req.VideoID = id
	req.UserID = middleware.UserID(c)

	comment, err := h.comments.CreateComment(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Created(c, "评论成功", comment)
}

// DeleteComment 删除评论及其回复
// DELETE /api/admin/comments/:id
func (h *InteractionHandler) DeleteComment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.comments.DeleteComment(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	utils.Response(c, http.StatusOK, "删除成功", nil)
}

// ApproveComment 审核评论
// PUT /api/admin/comments/:id/approve
func (h *InteractionHandler) ApproveComment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Approved bool `json:"approved"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if err := h.comments.SetApproved(c.Request.Context(), id, req.Approved); err != nil {
		respondError(c, err)
		return
	}
	utils.Response(c, http.StatusOK, "更新成功", nil)
}

// GetDanmaku 弹幕，可按时间段过滤
// GET /api/videos/:id/danmaku?from=0&to=60
func (h *InteractionHandler) GetDanmaku(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	list, err := h.interactions.ListDanmaku(c.Request.Context(), id, utils.QueryFloat(c, "from"), utils.QueryFloat(c, "to"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, list)
}

// CreateDanmaku POST /api/videos/:id/danmaku
func (h *InteractionHandler) CreateDanmaku(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req services.DanmakuInput
	if !bindJSON(c, &req) {
		return
	}
	req.VideoID = id
	req.UserID = middleware.UserID(c)

	danmaku, err := h.interactions.CreateDanmaku(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Created(c, "发送成功", danmaku)
}

// DeleteDanmaku 只能删除自己的弹幕
// DELETE /api/danmaku/:id
func (h *InteractionHandler) DeleteDanmaku(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.interactions.DeleteDanmaku(c.Request.Context(), id, middleware.UserID(c)); err != nil {
		respondError(c, err)
		return
	}
	utils.Response(c, http.StatusOK, "删除成功", nil)
}

// GetRating 平均分
// GET /api/videos/:id/rating
func (h *InteractionHandler) GetRating(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	summary, err := h.interactions.AverageRating(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, summary)
}

// Rate 评分，每个用户只能评一次
// POST /api/videos/:id/rating
func (h *InteractionHandler) Rate(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Score int `json:"score" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}
	rating, err := h.interactions.Rate(c.Request.Context(), id, middleware.UserID(c), req.Score)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Created(c, "评分成功", rating)
}

// GetVideoCaches GET /api/admin/videos/:id/caches
func (h *InteractionHandler) GetVideoCaches(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	caches, err := h.interactions.ListVideoCaches(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, caches)
}

// CreateVideoCache POST /api/admin/videos/:id/caches
func (h *InteractionHandler) CreateVideoCache(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req services.VideoCacheInput
	if !bindJSON(c, &req) {
		return
	}
	cache, err := h.interactions.CreateVideoCache(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Created(c, "创建成功", cache)
}

// DeleteVideoCache DELETE /api/admin/caches/:id
func (h *InteractionHandler) DeleteVideoCache(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.interactions.DeleteVideoCache(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	utils.Response(c, http.StatusOK, "删除成功", nil)
}

// GetHotSearches GET /api/hot-searches?limit=10
func (h *InteractionHandler) GetHotSearches(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	list, err := h.interactions.ListHotSearches(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, list)
}
