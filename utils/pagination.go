package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// GetPage 页码，无效时为 1
func GetPage(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// GetPageSize 每页数量，默认 20，最大 100
func GetPageSize(c *gin.Context) int {
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultPageSize)))
	if err != nil || pageSize < 1 {
		return defaultPageSize
	}
	if pageSize > maxPageSize {
		return maxPageSize
	}
	return pageSize
}

// ParseUintParam 路径参数转为 uint
func ParseUintParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// QueryUint 可选的 uint 查询参数，按顺序取第一个非空的名字，缺失或无效返回 nil
func QueryUint(c *gin.Context, names ...string) *uint {
	var v string
	for _, name := range names {
		if v = c.Query(name); v != "" {
			break
		}
	}
	if v == "" {
		return nil
	}
	id, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return nil
	}
	u := uint(id)
	return &u
}

// QueryFloat 可选的浮点查询参数
func QueryFloat(c *gin.Context, name string) *float64 {
	v := c.Query(name)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &f
}
