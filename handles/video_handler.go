package handles

import (
	"net/http"
	"strconv"

	"mediacms/models"
	"mediacms/services"
	"mediacms/utils"

	"github.com/gin-gonic/gin"
)

// VideoHandler 视频、媒体和演职人员
type VideoHandler struct {
	videos  *services.VideoService
	media   *services.MediaService
	cast    *services.CastService
	listing *services.ListingService
}

// NewVideoHandler 创建视频处理器
func NewVideoHandler(svc *services.Services) *VideoHandler {
	return &VideoHandler{
		videos:  svc.Videos,
		media:   svc.Media,
		cast:    svc.Cast,
		listing: svc.Listing,
	}
}

// GetVideos 视频列表
// GET /api/videos?category=1&tag=2&q=xx&sort=popular&page=1&page_size=20
// category_id、tag_id、keyword 作为别名保留；q 为空时返回空列表
func (h *VideoHandler) GetVideos(c *gin.Context) {
	filter := services.VideoFilter{
		CategoryID: utils.QueryUint(c, "category", "category_id"),
		TagID:      utils.QueryUint(c, "tag", "tag_id"),
	}
	for _, name := range []string{"q", "keyword"} {
		if keyword, ok := c.GetQuery(name); ok {
			filter.Keyword = &keyword
			break
		}
	}

	result, err := h.listing.ListVideos(c.Request.Context(), filter, services.ParseSort(c.Query("sort")), utils.GetPage(c), utils.GetPageSize(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, result)
}

// GetVideoByID 视频详情
// GET /api/videos/:id
func (h *VideoHandler) GetVideoByID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	detail, err := h.videos.GetVideoDetail(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, detail)
}

// GetRenditions 媒体版本，不带参数时返回默认版本
// GET /api/videos/:id/renditions?quality=1080p&episode=2
func (h *VideoHandler) GetRenditions(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if _, err := h.videos.GetActiveVideo(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	filter := services.RenditionFilter{Quality: c.Query("quality")}
	if ep := c.Query("episode"); ep != "" {
		n, err := strconv.Atoi(ep)
		if err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "episode参数无效")
			return
		}
		filter.EpisodeIndex = &n
	}

	medias, err := h.media.ListRenditions(c.Request.Context(), id, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, medias)
}

// GetEpisodes 按播放来源分组的剧集
// GET /api/videos/:id/episodes
func (h *VideoHandler) GetEpisodes(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if _, err := h.videos.GetActiveVideo(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	sources, err := h.media.ListEpisodes(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, gin.H{
		"play_sources": sources,
		"source_count": len(sources),
	})
}

// GetImages 视频图片
// GET /api/videos/:id/images
func (h *VideoHandler) GetImages(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	images, err := h.media.ListImages(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, images)
}

// Play 记录一次播放
// POST /api/videos/:id/play
func (h *VideoHandler) Play(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.videos.IncrementPlayCount(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	utils.Response(c, http.StatusOK, "success", nil)
}

// CreateVideo POST /api/admin/videos
func (h *VideoHandler) CreateVideo(c *gin.Context) {
	var req services.VideoInput
	if !bindJSON(c, &req) {
		return
	}
	video, err := h.videos.CreateVideo(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Created(c, "创建成功", video)
}

// AttachCategories POST /api/admin/videos/:id/categories
func (h *VideoHandler) AttachCategories(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		CategoryIDs []uint `json:"category_ids" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if err := h.videos.AttachCategories(c.Request.Context(), id, req.CategoryIDs); err != nil {
		respondError(c, err)
		return
	}
	utils.Response(c, http.StatusOK, "关联成功", nil)
}

// AttachTags POST /api/admin/videos/:id/tags
func (h *VideoHandler) AttachTags(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		TagIDs []uint `json:"tag_ids" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if err := h.videos.AttachTags(c.Request.Context(), id, req.TagIDs); err != nil {
		respondError(c, err)
		return
	}
	utils.Response(c, http.StatusOK, "关联成功", nil)
}

type castRequest struct {
	Names string `json:"names" binding:"required"` // 逗号分隔
	Role  string `json:"role" binding:"required"`  // actor / director
}

// AttachCast 关联演员或导演
// POST /api/admin/videos/:id/cast
func (h *VideoHandler) AttachCast(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req castRequest
	if !bindJSON(c, &req) {
		return
	}
	people, err := h.cast.AttachCast(c.Request.Context(), id, services.SplitCastNames(req.Names), req.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Response(c, http.StatusOK, "关联成功", people)
}

// ProcessCast 批量获取或创建演职人员
// POST /api/admin/cast/process
func (h *VideoHandler) ProcessCast(c *gin.Context) {
	var req castRequest
	if !bindJSON(c, &req) {
		return
	}
	people, err := h.cast.ProcessCast(c.Request.Context(), req.Names, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, people)
}

// DeactivateVideo POST /api/admin/videos/:id/deactivate
func (h *VideoHandler) DeactivateVideo(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.videos.Deactivate(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	utils.Response(c, http.StatusOK, "已停用", nil)
}

// PurgeVideo 彻底删除
// DELETE /api/admin/videos/:id
func (h *VideoHandler) PurgeVideo(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.videos.Purge(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	utils.Response(c, http.StatusOK, "删除成功", nil)
}

// AttachMedia POST /api/admin/videos/:id/media
func (h *VideoHandler) AttachMedia(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req models.VideoMedia
	if !bindJSON(c, &req) {
		return
	}
	media, err := h.media.AttachMedia(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Created(c, "添加成功", media)
}

// AddImage POST /api/admin/videos/:id/images
func (h *VideoHandler) AddImage(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req models.ImageResource
	if !bindJSON(c, &req) {
		return
	}
	req.VideoID = &id
	image, err := h.media.AddImage(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Created(c, "添加成功", image)
}

// GetSeriesEpisodes GET /api/videos/:id/series
func (h *VideoHandler) GetSeriesEpisodes(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	episodes, err := h.videos.ListSeriesEpisodes(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, episodes)
}

// AddSeriesEpisode POST /api/admin/videos/:id/series
func (h *VideoHandler) AddSeriesEpisode(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req services.SeriesEpisodeInput
	if !bindJSON(c, &req) {
		return
	}
	episode, err := h.videos.AddSeriesEpisode(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Created(c, "添加成功", episode)
}

// CreateEncodeProfile POST /api/admin/encode-profiles
func (h *VideoHandler) CreateEncodeProfile(c *gin.Context) {
	var req models.EncodeProfile
	if !bindJSON(c, &req) {
		return
	}
	profile, err := h.media.CreateEncodeProfile(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Created(c, "创建成功", profile)
}

// GetEncodeProfiles GET /api/admin/encode-profiles
func (h *VideoHandler) GetEncodeProfiles(c *gin.Context) {
	profiles, err := h.media.ListEncodeProfiles(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, profiles)
}

// CreateEncoding 登记编码任务（只记录）
// POST /api/admin/encodings
func (h *VideoHandler) CreateEncoding(c *gin.Context) {
	var req struct {
		MediaID   uint `json:"media_id" binding:"required"`
		ProfileID uint `json:"profile_id" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}
	task, err := h.media.CreateEncodingTask(c.Request.Context(), req.MediaID, req.ProfileID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Created(c, "创建成功", task)
}

// UpdateEncoding PUT /api/admin/encodings/:id
func (h *VideoHandler) UpdateEncoding(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req services.EncodingUpdate
	if !bindJSON(c, &req) {
		return
	}
	task, err := h.media.UpdateEncodingStatus(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, task)
}
