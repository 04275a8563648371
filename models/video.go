package models

import (
	"time"
)

// 视频类型
const (
	VideoTypeSingle = "single"
	VideoTypeSeries = "series"
	VideoTypeShort  = "short"
)

// 视频状态
const (
	VideoStatusDraft      = "draft"
	VideoStatusProcessing = "processing"
	VideoStatusPublished  = "published"
	VideoStatusBlocked    = "blocked"
)

// 更新状态
const (
	UpdateOngoing   = "ongoing"
	UpdateCompleted = "completed"
)

// DefaultVideoDescription 未填写描述时的默认值
const DefaultVideoDescription = "暂无描述"

// Video 视频模型
type Video struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 基本信息
	Title       string  `gorm:"size:200;not null;index" json:"title"`
	Description string  `gorm:"type:text" json:"description"`
	VideoType   string  `gorm:"size:10;index" json:"video_type"`
	Status      string  `gorm:"size:20;index" json:"status"`
	Thumbnail   *string `gorm:"size:1000" json:"thumbnail"`
	Duration    int     `json:"duration"`

	// 清晰度版本 / 额外信息
	QualityVersions MetaJSON `json:"quality_versions"`
	ExtraInfo       MetaJSON `json:"extra_info"`

	// 统计信息（comment_count 只能由评论重算写入）
	Views        int `json:"views"`
	PlayCount    int `gorm:"index" json:"play_count"`
	LikeCount    int `json:"like_count"`
	CommentCount int `json:"comment_count"`

	// 详细信息
	Year            *string `gorm:"size:20" json:"year"`
	Area            *string `gorm:"size:100" json:"area"`
	Language        *string `gorm:"size:50" json:"language"`
	TotalEpisodes   int     `json:"total_episodes"`
	CurrentEpisodes int     `json:"current_episodes"`
	UpdateStatus    string  `gorm:"size:20" json:"update_status"`
	ThirdPartyID    *string `gorm:"size:100;index" json:"third_party_id"`

	IsActive  bool `gorm:"index" json:"is_active"`
	CreatedBy uint `gorm:"index;not null" json:"created_by"`
}

// TableName 指定表名
func (Video) TableName() string {
	return "videos"
}

// VideoCategory 视频分类关联
type VideoCategory struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	VideoID    uint      `gorm:"uniqueIndex:idx_video_category_pair;not null" json:"video_id"`
	CategoryID uint      `gorm:"uniqueIndex:idx_video_category_pair;index;not null" json:"category_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName 指定表名
func (VideoCategory) TableName() string {
	return "video_categories"
}

// VideoTag 视频标签关联
type VideoTag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	VideoID   uint      `gorm:"uniqueIndex:idx_video_tag_pair;not null" json:"video_id"`
	TagID     uint      `gorm:"uniqueIndex:idx_video_tag_pair;index;not null" json:"tag_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName 指定表名
func (VideoTag) TableName() string {
	return "video_tags"
}

// SeriesVideo 剧集视频（每集一条）
type SeriesVideo struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	VideoID       uint       `gorm:"index;not null" json:"video_id"`
	SeriesTitle   string     `gorm:"size:200;not null" json:"series_title"`
	EpisodeNumber int        `gorm:"index" json:"episode_number"`
	TotalEpisodes int        `json:"total_episodes"`
	UpdateStatus  string     `gorm:"size:50" json:"update_status"`
	NextUpdate    *time.Time `json:"next_update"`
}

// TableName 指定表名
func (SeriesVideo) TableName() string {
	return "series_videos"
}
