package models

import "time"

// 来源类型
const (
	SourceTypeAPI    = "api"
	SourceTypeScrape = "scrape"
	SourceTypeImport = "import"
	SourceTypeOther  = "other"
)

// ThirdPartySource 第三方数据源
type ThirdPartySource struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name       string   `gorm:"size:100;not null" json:"name"`
	Key        string   `gorm:"size:50;uniqueIndex;not null" json:"key"` // 源标识
	SourceType string   `gorm:"size:20" json:"source_type"`
	BaseURL    string   `gorm:"size:500" json:"base_url"`
	APIKey     string   `gorm:"size:255" json:"-"`
	AuthToken  string   `gorm:"size:255" json:"-"`
	Headers    MetaJSON `json:"headers"`
	Params     MetaJSON `json:"params"`
	IsActive   bool     `gorm:"index" json:"is_active"`
	ExtraInfo  MetaJSON `json:"extra_info"` // category_map: 源分类ID -> 分类slug
}

// TableName 指定表名
func (ThirdPartySource) TableName() string {
	return "third_party_sources"
}
