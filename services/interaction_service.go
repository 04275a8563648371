package services

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"mediacms/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InteractionService 弹幕、评分、缓存记录和热门搜索
type InteractionService struct {
	db *gorm.DB
}

// NewInteractionService 创建互动服务
func NewInteractionService(db *gorm.DB) *InteractionService {
	return &InteractionService{db: db}
}

const (
	danmakuMaxLength       = 100
	danmakuDefaultColor    = "#ffffff"
	danmakuDefaultFontSize = 25
)

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{3}([0-9a-fA-F]{3})?$`)

// DanmakuInput 发送弹幕参数
type DanmakuInput struct {
	VideoID  uint    `json:"-"`
	UserID   uint    `json:"-"`
	Text     string  `json:"text" binding:"required"`
	Time     float64 `json:"time"`
	Color    string  `json:"color"`
	Type     string  `json:"type"`
	FontSize int     `json:"font_size"`
}

// CreateDanmaku 发送弹幕
func (s *InteractionService) CreateDanmaku(ctx context.Context, in DanmakuInput) (*models.Danmaku, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, NewValidationError("弹幕内容不能为空")
	}
	if utf8.RuneCountInString(text) > danmakuMaxLength {
		return nil, NewValidationError("弹幕内容不能超过%d个字符", danmakuMaxLength)
	}
	if in.Time < 0 {
		return nil, NewValidationError("弹幕时间不能为负数")
	}
	if in.UserID == 0 {
		return nil, NewValidationError("缺少用户身份")
	}

	danmaku := models.Danmaku{
		VideoID:    in.VideoID,
		UserID:     in.UserID,
		Text:       text,
		Time:       in.Time,
		Color:      in.Color,
		Type:       in.Type,
		FontSize:   in.FontSize,
		IsApproved: true,
	}
	if danmaku.Color == "" {
		danmaku.Color = danmakuDefaultColor
	}
	if !colorPattern.MatchString(danmaku.Color) {
		return nil, NewValidationError("无效的颜色: %s", danmaku.Color)
	}
	if danmaku.Type == "" {
		danmaku.Type = models.DanmakuRight
	}
	if !oneOf(danmaku.Type, []string{models.DanmakuRight, models.DanmakuTop, models.DanmakuBottom}) {
		return nil, NewValidationError("不支持的弹幕类型: %s", danmaku.Type)
	}
	if danmaku.FontSize <= 0 {
		danmaku.FontSize = danmakuDefaultFontSize
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Video{}).Where("id = ? AND is_active = ?", in.VideoID, true).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return errors.Wrapf(ErrNotFound, "视频 %d", in.VideoID)
		}
		return tx.Create(&danmaku).Error
	})
	if err != nil {
		return nil, err
	}
	return &danmaku, nil
}

// ListDanmaku 已审核的弹幕，按时间点排序，可限定时间范围
func (s *InteractionService) ListDanmaku(ctx context.Context, videoID uint, from, to *float64) ([]models.Danmaku, error) {
	query := s.db.WithContext(ctx).Where("video_id = ? AND is_approved = ?", videoID, true)
	if from != nil {
		query = query.Where("time >= ?", *from)
	}
	if to != nil {
		query = query.Where("time <= ?", *to)
	}

	list := []models.Danmaku{}
	if err := query.Order("time ASC, id ASC").Find(&list).Error; err != nil {
		return nil, errors.Wrap(err, "查询弹幕失败")
	}
	return list, nil
}

// DeleteDanmaku 删除弹幕，只能删除自己发送的
func (s *InteractionService) DeleteDanmaku(ctx context.Context, id, userID uint) error {
	var danmaku models.Danmaku
	if err := s.db.WithContext(ctx).First(&danmaku, id).Error; err != nil {
		return translateDBError(err, "弹幕")
	}
	if danmaku.UserID != userID {
		// 不暴露他人的弹幕
		return errors.Wrap(ErrNotFound, "弹幕")
	}
	return errors.Wrap(s.db.WithContext(ctx).Delete(&danmaku).Error, "删除弹幕失败")
}

// Rate 评分（1-10），同一用户对同一视频只能评一次
func (s *InteractionService) Rate(ctx context.Context, videoID, userID uint, score int) (*models.Rating, error) {
	if score < 1 || score > 10 {
		return nil, NewValidationError("评分必须在 1-10 之间")
	}
	if userID == 0 {
		return nil, NewValidationError("缺少用户身份")
	}

	rating := models.Rating{VideoID: videoID, UserID: userID, Score: score}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireVideo(tx, videoID); err != nil {
			return err
		}
		return translateDBError(tx.Create(&rating).Error, "评分")
	})
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

// RatingSummary 评分统计
type RatingSummary struct {
	VideoID uint    `json:"video_id"`
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

// AverageRating 平均评分，没有评分时为 0
func (s *InteractionService) AverageRating(ctx context.Context, videoID uint) (*RatingSummary, error) {
	var row struct {
		Average *float64
		Count   int64
	}
	err := s.db.WithContext(ctx).Model(&models.Rating{}).
		Select("AVG(score) AS average, COUNT(*) AS count").
		Where("video_id = ?", videoID).
		Scan(&row).Error
	if err != nil {
		return nil, errors.Wrap(err, "统计评分失败")
	}

	summary := &RatingSummary{VideoID: videoID, Count: row.Count}
	if row.Average != nil {
		summary.Average = *row.Average
	}
	return summary, nil
}

// VideoCacheInput 缓存记录参数
type VideoCacheInput struct {
	Quality  string `json:"quality" binding:"required"`
	FilePath string `json:"file_path" binding:"required"`
	FileSize int64  `json:"file_size"`
}

// CreateVideoCache 登记一个缓存文件，每个视频每种清晰度一条
func (s *InteractionService) CreateVideoCache(ctx context.Context, videoID uint, in VideoCacheInput) (*models.VideoCache, error) {
	if _, ok := models.QualityLevels[in.Quality]; !ok {
		return nil, NewValidationError("不支持的清晰度: %s", in.Quality)
	}
	if strings.TrimSpace(in.FilePath) == "" {
		return nil, NewValidationError("缓存路径不能为空")
	}
	if in.FileSize < 0 {
		return nil, NewValidationError("文件大小不能为负数")
	}

	cache := models.VideoCache{VideoID: videoID, Quality: in.Quality, FilePath: in.FilePath, FileSize: in.FileSize}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireVideo(tx, videoID); err != nil {
			return err
		}
		return translateDBError(tx.Create(&cache).Error, "缓存记录")
	})
	if err != nil {
		return nil, err
	}
	return &cache, nil
}

// ListVideoCaches 视频的缓存记录
func (s *InteractionService) ListVideoCaches(ctx context.Context, videoID uint) ([]models.VideoCache, error) {
	caches := []models.VideoCache{}
	err := s.db.WithContext(ctx).Where("video_id = ?", videoID).Order("quality ASC").Find(&caches).Error
	if err != nil {
		return nil, errors.Wrap(err, "查询缓存记录失败")
	}
	return caches, nil
}

// DeleteVideoCache 删除缓存记录
func (s *InteractionService) DeleteVideoCache(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.VideoCache{}, id)
	if result.Error != nil {
		return errors.Wrap(result.Error, "删除缓存记录失败")
	}
	if result.RowsAffected == 0 {
		return errors.Wrap(ErrNotFound, "缓存记录")
	}
	return nil
}

// RecordSearch 记录一次搜索，次数原子加一
func (s *InteractionService) RecordSearch(ctx context.Context, keyword string) error {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return nil
	}
	if utf8.RuneCountInString(keyword) > 100 {
		keyword = string([]rune(keyword)[:100])
	}

	hot := models.HotSearch{Keyword: keyword, SearchCount: 1, IsActive: true}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "keyword"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"search_count": gorm.Expr("hot_searches.search_count + ?", 1),
			"updated_at":   gorm.Expr("CURRENT_TIMESTAMP"),
		}),
	}).Create(&hot).Error
	return errors.Wrap(err, "记录搜索失败")
}

// ListHotSearches 启用的热门搜索
func (s *InteractionService) ListHotSearches(ctx context.Context, limit int) ([]models.HotSearch, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	list := []models.HotSearch{}
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order ASC, search_count DESC, id ASC").
		Limit(limit).
		Find(&list).Error
	if err != nil {
		return nil, errors.Wrap(err, "查询热门搜索失败")
	}
	return list, nil
}
