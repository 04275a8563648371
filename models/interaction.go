package models

import "time"

// Comment 视频评论（parent_id 指向父评论）
type Comment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	VideoID    uint      `gorm:"index;not null" json:"video_id"`
	UserID     uint      `gorm:"index;not null" json:"user_id"`
	Text       string    `gorm:"type:text;not null" json:"text"`
	ParentID   *uint     `gorm:"index" json:"parent_id"`
	IsApproved bool      `json:"is_approved"`
	AddDate    time.Time `gorm:"index" json:"add_date"`
	UID        string    `gorm:"column:uid;size:50;uniqueIndex;not null" json:"uid"`
	MediaURL   *string   `gorm:"size:1000" json:"media_url"`
}

// TableName 指定表名
func (Comment) TableName() string {
	return "comments"
}

// 弹幕位置
const (
	DanmakuRight  = "right"
	DanmakuTop    = "top"
	DanmakuBottom = "bottom"
)

// Danmaku 弹幕
type Danmaku struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	VideoID    uint      `gorm:"index:idx_danmaku_video_time;not null" json:"video_id"`
	UserID     uint      `gorm:"index;not null" json:"user_id"`
	Text       string    `gorm:"size:100;not null" json:"text"`
	Time       float64   `gorm:"index:idx_danmaku_video_time" json:"time"` // 秒
	Color      string    `gorm:"size:10" json:"color"`
	Type       string    `gorm:"size:20" json:"type"`
	FontSize   int       `json:"font_size"`
	IsApproved bool      `json:"is_approved"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName 指定表名
func (Danmaku) TableName() string {
	return "danmakus"
}

// Rating 视频评分（每个用户对每个视频一条）
type Rating struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	VideoID   uint      `gorm:"uniqueIndex:idx_rating_video_user;not null" json:"video_id"`
	UserID    uint      `gorm:"uniqueIndex:idx_rating_video_user;not null" json:"user_id"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName 指定表名
func (Rating) TableName() string {
	return "ratings"
}

// VideoCache 视频缓存记录（只记录路径和大小）
type VideoCache struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	VideoID   uint      `gorm:"uniqueIndex:idx_cache_video_quality;not null" json:"video_id"`
	Quality   string    `gorm:"uniqueIndex:idx_cache_video_quality;size:20;not null" json:"quality"`
	FilePath  string    `gorm:"size:255;not null" json:"file_path"`
	FileSize  int64     `json:"file_size"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName 指定表名
func (VideoCache) TableName() string {
	return "video_caches"
}

// HotSearch 热门搜索
type HotSearch struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Keyword     string `gorm:"size:100;uniqueIndex;not null" json:"keyword"`
	SearchCount int    `json:"count"`
	Order       int    `gorm:"column:sort_order" json:"order"`
	IsActive    bool   `json:"is_active"`
}

// TableName 指定表名
func (HotSearch) TableName() string {
	return "hot_searches"
}
