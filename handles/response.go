package handles

import (
	"net/http"

	"mediacms/services"
	"mediacms/utils"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// respondError 业务错误转换为HTTP状态码，未知错误只记录日志不返回细节
func respondError(c *gin.Context, err error) {
	if ve, ok := services.AsValidation(err); ok {
		utils.ErrorResponse(c, http.StatusBadRequest, ve.Message)
		return
	}
	switch {
	case services.IsNotFound(err):
		utils.ErrorResponse(c, http.StatusNotFound, err.Error())
	case services.IsConflict(err):
		utils.ErrorResponse(c, http.StatusConflict, err.Error())
	default:
		log.WithError(err).WithFields(log.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).Error("请求处理失败")
		_ = c.Error(err)
		utils.ErrorResponse(c, http.StatusInternalServerError, "服务器内部错误")
	}
}

// bindJSON 解析请求体，失败时直接返回 400
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "无效的请求数据: "+err.Error())
		return false
	}
	return true
}

// pathID 解析路径中的ID，无效时返回 400
func pathID(c *gin.Context, name string) (uint, bool) {
	id, ok := utils.ParseUintParam(c, name)
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "ID参数无效")
	}
	return id, ok
}
