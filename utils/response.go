package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 统一响应格式
func Response(c *gin.Context, status int, msg string, data interface{}) {
	response := gin.H{
		"code": status,
		"msg":  msg,
	}
	if data != nil {
		response["data"] = data
	}
	c.JSON(status, response)
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	Response(c, http.StatusOK, "success", data)
}

// Created 创建成功
func Created(c *gin.Context, msg string, data interface{}) {
	Response(c, http.StatusCreated, msg, data)
}

// ErrorResponse 错误响应
func ErrorResponse(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"code": status,
		"msg":  message,
	})
}
