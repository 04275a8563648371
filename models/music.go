package models

import "time"

// Music 音乐
type Music struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title        string  `gorm:"size:200;not null" json:"title"`
	Artist       string  `gorm:"size:200;index" json:"artist"`
	AlbumID      *uint   `gorm:"index" json:"album_id"` // 专辑删除后置空
	TrackNo      int     `json:"track_no"`
	FilePath     string  `gorm:"size:500" json:"file_path"`
	Duration     int     `json:"duration"`
	Cover        *string `gorm:"size:500" json:"cover"`
	PlayCount    int     `json:"play_count"`
	LikeCount    int     `json:"like_count"`
	CommentCount int     `json:"comment_count"`
	IsActive     bool    `gorm:"index" json:"is_active"`
}

// TableName 指定表名
func (Music) TableName() string {
	return "music"
}

// Album 专辑
type Album struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title       string     `gorm:"size:200;not null" json:"title"`
	Artist      string     `gorm:"size:200" json:"artist"`
	Description string     `gorm:"type:text" json:"description"`
	Cover       *string    `gorm:"size:500" json:"cover"`
	ReleaseDate *time.Time `json:"release_date"`
	PlayCount   int        `json:"play_count"`
	IsActive    bool       `gorm:"index" json:"is_active"`
}

// TableName 指定表名
func (Album) TableName() string {
	return "albums"
}

// Playlist 歌单
type Playlist struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title       string  `gorm:"size:200;not null" json:"title"`
	Description string  `gorm:"type:text" json:"description"`
	Cover       *string `gorm:"size:500" json:"cover"`
	PlayCount   int     `json:"play_count"`
	IsActive    bool    `gorm:"index" json:"is_active"`
}

// TableName 指定表名
func (Playlist) TableName() string {
	return "playlists"
}

// PlaylistMusic 歌单音乐关联
type PlaylistMusic struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PlaylistID uint      `gorm:"uniqueIndex:idx_playlist_music_pair;not null" json:"playlist_id"`
	MusicID    uint      `gorm:"uniqueIndex:idx_playlist_music_pair;index;not null" json:"music_id"`
	Order      int       `gorm:"column:sort_order" json:"order"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName 指定表名
func (PlaylistMusic) TableName() string {
	return "playlist_music"
}
