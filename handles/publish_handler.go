package handles

import (
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"mediacms/middleware"
	"mediacms/services"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// PublishHandler 用户发布
type PublishHandler struct {
	publish *services.PublishService
}

// NewPublishHandler 创建发布处理器
func NewPublishHandler(publish *services.PublishService) *PublishHandler {
	return &PublishHandler{publish: publish}
}

func uploadFile(fh *multipart.FileHeader) services.UploadFile {
	return services.UploadFile{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

// publishResult 发布接口使用 {success, message, video_id}
func publishResult(c *gin.Context, videoID uint, err error) {
	if err == nil {
		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"message":  "发布成功",
			"video_id": videoID,
		})
		return
	}

	if ve, ok := services.AsValidation(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": ve.Message})
		return
	}
	if services.IsNotFound(err) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": err.Error()})
		return
	}
	if services.IsConflict(err) {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": err.Error()})
		return
	}
	log.WithError(err).WithField("path", c.Request.URL.Path).Error("发布失败")
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "发布失败，请稍后重试"})
}

func formCategory(c *gin.Context) uint {
	id, _ := strconv.ParseUint(c.PostForm("category"), 10, 64)
	return uint(id)
}

// PublishContent 图文/视频混合发布
// POST /api/publish/content  multipart: content, category, files[]
func (h *PublishHandler) PublishContent(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "请求格式错误"})
		return
	}

	headers := form.File["files[]"]
	if len(headers) == 0 {
		headers = form.File["files"]
	}
	files := make([]services.UploadFile, len(headers))
	for i, fh := range headers {
		files[i] = uploadFile(fh)
	}

	video, err := h.publish.PublishContent(c.Request.Context(), services.PublishContentInput{
		Content:    c.PostForm("content"),
		CategoryID: formCategory(c),
		UserID:     middleware.UserID(c),
		Files:      files,
	})
	if err != nil {
		publishResult(c, 0, err)
		return
	}
	publishResult(c, video.ID, nil)
}

// PublishVideo 短视频发布
// POST /api/publish/video  multipart: title, description, category, video
func (h *PublishHandler) PublishVideo(c *gin.Context) {
	in := services.PublishVideoInput{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		CategoryID:  formCategory(c),
		UserID:      middleware.UserID(c),
	}
	if fh, err := c.FormFile("video"); err == nil {
		f := uploadFile(fh)
		in.File = &f
	}

	video, err := h.publish.PublishVideo(c.Request.Context(), in)
	if err != nil {
		publishResult(c, 0, err)
		return
	}
	publishResult(c, video.ID, nil)
}

// PublishMovie 发布影视条目（演员、导演用逗号分隔）
// POST /api/publish/movie
func (h *PublishHandler) PublishMovie(c *gin.Context) {
	var req services.MovieInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "无效的请求数据"})
		return
	}
	req.UserID = middleware.UserID(c)

	video, err := h.publish.PublishMovie(c.Request.Context(), req)
	if err != nil {
		publishResult(c, 0, err)
		return
	}
	publishResult(c, video.ID, nil)
}
