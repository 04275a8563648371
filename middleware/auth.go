package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// UserIDHeader 网关传入的用户ID
const UserIDHeader = "X-User-ID"

const userIDKey = "user_id"

// AdminAuth 管理员认证中间件
// 支持 "Bearer token" 和 "token" 两种格式
func AdminAuth(adminToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code": 401,
				"msg":  "未提供认证信息",
			})
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if adminToken == "" || token != adminToken {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code": 401,
				"msg":  "认证失败，无权限访问",
			})
			return
		}

		c.Set("is_admin", true)
		c.Next()
	}
}

// UserIdentity 从请求头读取用户ID，认证由上游完成
func UserIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(strings.TrimSpace(c.GetHeader(UserIDHeader)), 10, 64)
		if err != nil || id == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code": 401,
				"msg":  "请先登录",
			})
			return
		}
		c.Set(userIDKey, uint(id))
		c.Next()
	}
}

// UserID 当前用户ID，未经过 UserIdentity 时为 0
func UserID(c *gin.Context) uint {
	return c.GetUint(userIDKey)
}
