package models

import "time"

// 媒体类型
const (
	MediaTypeVideo   = "video"
	MediaTypeArticle = "article"
	MediaTypeImage   = "image"
	MediaTypeMusic   = "music"
)

// 分类类型
var CategoryTypes = []string{"movie", "tv", "variety", "anime", "documentary", "actor", "director", "other"}

// Category 分类（自引用树，父节点只保存ID）
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Slug         string `gorm:"size:50;uniqueIndex;not null" json:"slug"`
	Description  string `gorm:"type:text" json:"description"`
	ParentID     *uint  `gorm:"index" json:"parent_id"` // 父分类删除后置空
	MediaType    string `gorm:"size:20;index" json:"media_type"`
	CategoryType string `gorm:"size:20;index" json:"category_type"`
	IsRoot       bool   `gorm:"index" json:"is_root"`
	ShowInMenu   bool   `json:"show_in_menu"`
	Order        int    `gorm:"column:sort_order;index" json:"order"`
	Icon         string `gorm:"size:50" json:"icon"`
	Template     string `gorm:"size:100" json:"template"`
	Keywords     string `gorm:"type:text" json:"keywords"`
	IsActive     bool   `gorm:"index" json:"is_active"`
}

// TableName 指定表名
func (Category) TableName() string {
	return "categories"
}

// TagCategory 标签分类
type TagCategory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name     string  `gorm:"size:100;not null" json:"name"`
	Slug     *string `gorm:"size:50;uniqueIndex" json:"slug"`
	Order    int     `gorm:"column:sort_order" json:"order"`
	IsActive bool    `json:"is_active"`
}

// TableName 指定表名
func (TagCategory) TableName() string {
	return "tag_categories"
}

// Tag 标签
type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name          string `gorm:"size:100;not null" json:"name"`
	Slug          string `gorm:"size:50;uniqueIndex;not null" json:"slug"`
	Description   string `gorm:"type:text" json:"description"`
	TagCategoryID *uint  `gorm:"index" json:"tag_category_id"` // 标签分类删除后置空
	Order         int    `gorm:"column:sort_order" json:"order"`
	IsActive      bool   `gorm:"index" json:"is_active"`
}

// TableName 指定表名
func (Tag) TableName() string {
	return "tags"
}
