package services

import (
	"context"
	"strings"

	"mediacms/models"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SortKey 视频列表排序方式
type SortKey string

const (
	SortNewest  SortKey = "newest"
	SortPopular SortKey = "popular"
)

// ParseSort 未知的排序方式按最新处理
func ParseSort(s string) SortKey {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "popular", "play_count", "-play_count":
		return SortPopular
	}
	return SortNewest
}

func (k SortKey) orderClause() string {
	if k == SortPopular {
		return "videos.play_count DESC, videos.id DESC"
	}
	return "videos.created_at DESC, videos.id DESC"
}

// VideoFilter 视频过滤条件，nil 表示不过滤
type VideoFilter struct {
	CategoryID *uint
	TagID      *uint
	Keyword    *string
}

// ListingService 视频列表和搜索
type ListingService struct {
	db           *gorm.DB
	interactions *InteractionService
}

// NewListingService 创建列表服务
func NewListingService(db *gorm.DB, interactions *InteractionService) *ListingService {
	return &ListingService{db: db, interactions: interactions}
}

// filteredVideos 组合过滤条件，始终只查启用的视频
func (s *ListingService) filteredVideos(ctx context.Context, filter VideoFilter) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.Video{}).Where("videos.is_active = ?", true)

	if filter.CategoryID != nil {
		members := s.db.Session(&gorm.Session{NewDB: true}).
			Model(&models.VideoCategory{}).
			Select("video_id").
			Where("category_id = ?", *filter.CategoryID)
		query = query.Where("videos.id IN (?)", members)
	}
	if filter.TagID != nil {
		members := s.db.Session(&gorm.Session{NewDB: true}).
			Model(&models.VideoTag{}).
			Select("video_id").
			Where("tag_id = ?", *filter.TagID)
		query = query.Where("videos.id IN (?)", members)
	}
	if filter.Keyword != nil {
		pattern := "%" + escapeLike(strings.ToLower(*filter.Keyword)) + "%"
		query = query.Where("(LOWER(videos.title) LIKE ? ESCAPE '!' OR LOWER(videos.description) LIKE ? ESCAPE '!')", pattern, pattern)
	}
	return query
}

// escapeLike 转义 LIKE 通配符，转义字符为 '!'
func escapeLike(s string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return r.Replace(s)
}

// ListVideos 按条件分页查询视频
//
// Keyword 为空字符串时返回空结果，而不是全部视频。
func (s *ListingService) ListVideos(ctx context.Context, filter VideoFilter, sort SortKey, page, pageSize int) (*Page[models.Video], error) {
	if filter.Keyword != nil && strings.TrimSpace(*filter.Keyword) == "" {
		return emptyPage[models.Video](page, pageSize), nil
	}

	result, err := paginate[models.Video](s.filteredVideos(ctx, filter), sort.orderClause(), page, pageSize)
	if err != nil {
		return nil, errors.Wrap(err, "查询视频列表失败")
	}
	return result, nil
}

// Search 按标题或描述搜索，最新在前
func (s *ListingService) Search(ctx context.Context, q string, page, pageSize int) (*Page[models.Video], error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return emptyPage[models.Video](page, pageSize), nil
	}

	if s.interactions != nil {
		if err := s.interactions.RecordSearch(ctx, q); err != nil {
			log.WithError(err).WithField("q", q).Warn("记录热门搜索失败")
		}
	}
	return s.ListVideos(ctx, VideoFilter{Keyword: &q}, SortNewest, page, pageSize)
}

// ListHotVideos 播放最多的视频，categoryID 为空时不限分类
func (s *ListingService) ListHotVideos(ctx context.Context, categoryID *uint, limit int) ([]models.Video, error) {
	return s.topVideos(ctx, VideoFilter{CategoryID: categoryID}, SortPopular, limit)
}

// ListLatestVideos 最新的视频
func (s *ListingService) ListLatestVideos(ctx context.Context, categoryID *uint, limit int) ([]models.Video, error) {
	return s.topVideos(ctx, VideoFilter{CategoryID: categoryID}, SortNewest, limit)
}

func (s *ListingService) topVideos(ctx context.Context, filter VideoFilter, sort SortKey, limit int) ([]models.Video, error) {
	if limit <= 0 {
		limit = 12
	}
	videos := []models.Video{}
	err := s.filteredVideos(ctx, filter).Order(sort.orderClause()).Limit(limit).Find(&videos).Error
	if err != nil {
		return nil, errors.Wrap(err, "查询视频失败")
	}
	return videos, nil
}
