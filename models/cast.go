package models

import "time"

// Person 演员和导演共用的字段
type Person struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name        string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Avatar      string `gorm:"size:1000" json:"avatar"`
	Status      string `gorm:"size:20" json:"status"`
}

// Actor 演员
type Actor struct {
	Person
}

// TableName 指定表名
func (Actor) TableName() string {
	return "actors"
}

// Director 导演
type Director struct {
	Person
}

// TableName 指定表名
func (Director) TableName() string {
	return "directors"
}

// VideoActor 视频演员关联
type VideoActor struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	VideoID   uint      `gorm:"uniqueIndex:idx_video_actor_pair;not null" json:"video_id"`
	ActorID   uint      `gorm:"uniqueIndex:idx_video_actor_pair;index;not null" json:"actor_id"`
	Role      *string   `gorm:"size:100" json:"role"`
	IsMain    bool      `json:"is_main"`
	Order     int       `gorm:"column:sort_order" json:"order"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName 指定表名
func (VideoActor) TableName() string {
	return "video_actors"
}

// VideoDirector 视频导演关联
type VideoDirector struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	VideoID    uint      `gorm:"uniqueIndex:idx_video_director_pair;not null" json:"video_id"`
	DirectorID uint      `gorm:"uniqueIndex:idx_video_director_pair;index;not null" json:"director_id"`
	IsMain     bool      `json:"is_main"`
	Order      int       `gorm:"column:sort_order" json:"order"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName 指定表名
func (VideoDirector) TableName() string {
	return "video_directors"
}
