package services

import (
	"gorm.io/gorm"
)

// DefaultPageSize 默认每页数量
const DefaultPageSize = 20

// Page 分页结果
type Page[T any] struct {
	List       []T   `json:"list"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return page, pageSize
}

func emptyPage[T any](page, pageSize int) *Page[T] {
	page, pageSize = normalizePage(page, pageSize)
	return &Page[T]{List: []T{}, Page: page, PageSize: pageSize}
}

// paginate 统计总数后按偏移量取一页，超出范围返回空列表
func paginate[T any](query *gorm.DB, order string, page, pageSize int) (*Page[T], error) {
	page, pageSize = normalizePage(page, pageSize)
	query = query.Session(&gorm.Session{})

	result := &Page[T]{List: []T{}, Page: page, PageSize: pageSize}
	if err := query.Count(&result.Total).Error; err != nil {
		return nil, err
	}
	result.TotalPages = int((result.Total + int64(pageSize) - 1) / int64(pageSize))

	offset := (page - 1) * pageSize
	if int64(offset) >= result.Total {
		return result, nil
	}

	if err := query.Order(order).Limit(pageSize).Offset(offset).Find(&result.List).Error; err != nil {
		return nil, err
	}
	return result, nil
}
