package models

import "time"

// 清晰度
const (
	Quality240p  = "240p"
	Quality480p  = "480p"
	Quality720p  = "720p"
	Quality1080p = "1080p"
)

// QualityLevels 清晰度 -> 显示名
var QualityLevels = map[string]string{
	Quality240p:  "流畅",
	Quality480p:  "清晰",
	Quality720p:  "高清",
	Quality1080p: "超清",
}

// DefaultMediaPath 未提供文件时使用的占位路径
const DefaultMediaPath = "videos/default.mp4"

// VideoMedia 视频媒体文件（一个清晰度/来源/集数的版本）
type VideoMedia struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	FilePath      string   `gorm:"size:500" json:"file_path"`
	FileSize      int64    `json:"file_size"`
	Duration      int      `json:"duration"`
	Width         int      `json:"width"`
	Height        int      `json:"height"`
	MediaType     string   `gorm:"size:20" json:"media_type"`
	Quality       string   `gorm:"size:20;index" json:"quality"`
	APIRequestURL *string  `gorm:"size:1000" json:"api_request_url"`
	CdnURL        *string  `gorm:"size:1000" json:"cdn_url"`
	IsDefault     bool     `gorm:"index" json:"is_default"`
	EpisodeIndex  int      `gorm:"index" json:"episode_index"`
	EpisodeTitle  *string  `gorm:"size:200" json:"episode_title"`
	SourceName    *string  `gorm:"size:50" json:"source_name"`
	SourceIndex   int      `json:"source_index"`
	ExtraInfo     MetaJSON `json:"extra_info"`
}

// TableName 指定表名
func (VideoMedia) TableName() string {
	return "video_media"
}

// VideoMediaFile 视频与媒体文件的关联
type VideoMediaFile struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	VideoID      uint      `gorm:"uniqueIndex:idx_video_media_pair;not null" json:"video_id"`
	VideoMediaID uint      `gorm:"uniqueIndex:idx_video_media_pair;index;not null" json:"video_media_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName 指定表名
func (VideoMediaFile) TableName() string {
	return "video_media_files"
}

// EncodeProfile 视频编码配置
type EncodeProfile struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Extension    string `gorm:"size:10" json:"extension"`
	Resolution   int    `gorm:"index" json:"resolution"`
	Bitrate      int    `json:"bitrate"`       // kbps
	AudioBitrate int    `json:"audio_bitrate"` // kbps
	IsActive     bool   `json:"is_active"`
}

// TableName 指定表名
func (EncodeProfile) TableName() string {
	return "encode_profiles"
}

// 编码任务状态
const (
	EncodingPending   = "pending"
	EncodingRunning   = "running"
	EncodingCompleted = "completed"
	EncodingFailed    = "failed"
)

// Encoding 视频编码任务（只记录，不在本服务执行）
type Encoding struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	VideoMediaID uint       `gorm:"index;not null" json:"video_media_id"`
	ProfileID    uint       `gorm:"index;not null" json:"profile_id"`
	Status       string     `gorm:"size:20;index" json:"status"`
	Progress     int        `json:"progress"`
	OutputURL    string     `gorm:"size:1000" json:"output_url"`
	ErrorMessage string     `gorm:"type:text" json:"error_message"`
	StartedAt    *time.Time `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at"`
}

// TableName 指定表名
func (Encoding) TableName() string {
	return "encodings"
}

// 图片类型
var ImageTypes = []string{"cover", "screenshot", "poster", "banner", "avatar", "other"}

// ImageResource 图片资源
type ImageResource struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	VideoID   *uint    `gorm:"index" json:"video_id"`
	ImageType string   `gorm:"size:20" json:"image_type"`
	URL       string   `gorm:"size:1000;not null" json:"url"`
	LocalPath string   `gorm:"size:500" json:"local_path"`
	CdnURL    *string  `gorm:"size:1000" json:"cdn_url"`
	Width     int      `json:"width"`
	Height    int      `json:"height"`
	FileSize  int      `json:"file_size"`
	IsMain    bool     `json:"is_main"`
	Order     int      `gorm:"column:sort_order" json:"order"`
	Status    string   `gorm:"size:20" json:"status"`
	ExtraInfo MetaJSON `json:"extra_info"`
}

// TableName 指定表名
func (ImageResource) TableName() string {
	return "image_resources"
}
