package services

import (
	"context"
	"strings"
	"time"

	"mediacms/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VideoService 视频服务
type VideoService struct {
	db           *gorm.DB
	cast         *CastService
	media        *MediaService
	systemUserID uint
}

// NewVideoService 创建视频服务
func NewVideoService(db *gorm.DB, cast *CastService, media *MediaService, systemUserID uint) *VideoService {
	return &VideoService{
		db:           db,
		cast:         cast,
		media:        media,
		systemUserID: systemUserID,
	}
}

// VideoInput 创建视频参数，未填写的字段使用默认值
type VideoInput struct {
	Title           string      `json:"title" binding:"required"`
	Description     string      `json:"description"`
	VideoType       string      `json:"video_type"`
	Status          string      `json:"status"`
	Thumbnail       *string     `json:"thumbnail"`
	Duration        int         `json:"duration"`
	Year            *string     `json:"year"`
	Area            *string     `json:"area"`
	Language        *string     `json:"language"`
	TotalEpisodes   int         `json:"total_episodes"`
	CurrentEpisodes int         `json:"current_episodes"`
	UpdateStatus    string      `json:"update_status"`
	ThirdPartyID    *string     `json:"third_party_id"`
	QualityVersions models.Meta `json:"quality_versions"`
	ExtraInfo       models.Meta `json:"extra_info"`
	IsActive        *bool       `json:"is_active"`
	CreatedBy       uint        `json:"created_by"`
}

var (
	videoTypes    = []string{models.VideoTypeSingle, models.VideoTypeSeries, models.VideoTypeShort}
	videoStatuses = []string{models.VideoStatusDraft, models.VideoStatusProcessing, models.VideoStatusPublished, models.VideoStatusBlocked}
)

func oneOf(value string, allowed []string) bool {
	for _, a := range allowed {
		if a == value {
			return true
		}
	}
	return false
}

// buildVideo 校验参数并补全默认值
func (s *VideoService) buildVideo(in VideoInput) (*models.Video, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, NewValidationError("标题不能为空")
	}

	video := &models.Video{
		Title:           title,
		Description:     in.Description,
		VideoType:       in.VideoType,
		Status:          in.Status,
		Thumbnail:       in.Thumbnail,
		Duration:        in.Duration,
		Year:            in.Year,
		Area:            in.Area,
		Language:        in.Language,
		TotalEpisodes:   in.TotalEpisodes,
		CurrentEpisodes: in.CurrentEpisodes,
		UpdateStatus:    in.UpdateStatus,
		ThirdPartyID:    in.ThirdPartyID,
		IsActive:        boolOr(in.IsActive, true),
		CreatedBy:       in.CreatedBy,
	}

	if video.VideoType == "" {
		video.VideoType = models.VideoTypeSingle
	}
	if !oneOf(video.VideoType, videoTypes) {
		return nil, NewValidationError("不支持的视频类型: %s", video.VideoType)
	}
	if video.Status == "" {
		video.Status = models.VideoStatusDraft
	}
	if !oneOf(video.Status, videoStatuses) {
		return nil, NewValidationError("不支持的视频状态: %s", video.Status)
	}
	if video.UpdateStatus == "" {
		video.UpdateStatus = models.UpdateCompleted
	}
	if video.UpdateStatus != models.UpdateOngoing && video.UpdateStatus != models.UpdateCompleted {
		return nil, NewValidationError("不支持的更新状态: %s", video.UpdateStatus)
	}
	if video.Description == "" {
		video.Description = models.DefaultVideoDescription
	}
	if video.CreatedBy == 0 {
		video.CreatedBy = s.systemUserID
	}

	quality := in.QualityVersions
	if quality == nil {
		quality = models.Meta{}
	}
	extra := in.ExtraInfo
	if extra == nil {
		extra = models.Meta{}
	}
	video.QualityVersions = models.NewMetaJSON(quality)
	video.ExtraInfo = models.NewMetaJSON(extra)
	return video, nil
}

// CreateVideo 创建视频（默认草稿、启用）
func (s *VideoService) CreateVideo(ctx context.Context, in VideoInput) (*models.Video, error) {
	video, err := s.buildVideo(in)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(video).Error; err != nil {
		return nil, translateDBError(err, "视频")
	}
	return video, nil
}

// GetActiveVideo 获取启用的视频，停用视为不存在
func (s *VideoService) GetActiveVideo(ctx context.Context, id uint) (*models.Video, error) {
	var video models.Video
	err := s.db.WithContext(ctx).Where("id = ? AND is_active = ?", id, true).First(&video).Error
	if err != nil {
		return nil, translateDBError(err, "视频")
	}
	return &video, nil
}

// VideoDetail 视频详情
type VideoDetail struct {
	models.Video
	Categories []models.Category    `json:"categories"`
	Tags       []models.Tag         `json:"tags"`
	Actors     []CastCredit         `json:"actors"`
	Directors  []CastCredit         `json:"directors"`
	Renditions []models.VideoMedia  `json:"renditions"`
	Episodes   []models.SeriesVideo `json:"episodes,omitempty"`
}

// GetVideoDetail 视频详情（分类、标签、演职人员、默认版本）
func (s *VideoService) GetVideoDetail(ctx context.Context, id uint) (*VideoDetail, error) {
	video, err := s.GetActiveVideo(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &VideoDetail{Video: *video}
	db := s.db.WithContext(ctx)

	detail.Categories = []models.Category{}
	err = db.Select("categories.*").
		Joins("JOIN video_categories ON video_categories.category_id = categories.id").
		Where("video_categories.video_id = ? AND categories.is_active = ?", id, true).
		Order("categories.sort_order ASC, categories.id ASC").
		Find(&detail.Categories).Error
	if err != nil {
		return nil, errors.Wrap(err, "查询视频分类失败")
	}

	detail.Tags = []models.Tag{}
	err = db.Select("tags.*").
		Joins("JOIN video_tags ON video_tags.tag_id = tags.id").
		Where("video_tags.video_id = ? AND tags.is_active = ?", id, true).
		Order("tags.sort_order ASC, tags.name ASC").
		Find(&detail.Tags).Error
	if err != nil {
		return nil, errors.Wrap(err, "查询视频标签失败")
	}

	if detail.Actors, detail.Directors, err = s.cast.ListCredits(ctx, id); err != nil {
		return nil, err
	}
	if detail.Renditions, err = s.media.ListRenditions(ctx, id, RenditionFilter{}); err != nil {
		return nil, err
	}
	if video.VideoType == models.VideoTypeSeries {
		if detail.Episodes, err = s.ListSeriesEpisodes(ctx, id); err != nil {
			return nil, err
		}
	}
	return detail, nil
}

// AttachCategories 关联分类，已存在的关联跳过
func (s *VideoService) AttachCategories(ctx context.Context, videoID uint, categoryIDs []uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return attachCategoriesTx(tx, videoID, categoryIDs)
	})
}

func attachCategoriesTx(tx *gorm.DB, videoID uint, categoryIDs []uint) error {
	ids := uniqueIDs(categoryIDs)
	if len(ids) == 0 {
		return nil
	}
	if err := requireVideo(tx, videoID); err != nil {
		return err
	}
	if err := requireAll(tx, &models.Category{}, ids, "分类"); err != nil {
		return err
	}

	links := make([]models.VideoCategory, len(ids))
	for i, id := range ids {
		links[i] = models.VideoCategory{VideoID: videoID, CategoryID: id}
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error
}

// AttachTags 关联标签，已存在的关联跳过
func (s *VideoService) AttachTags(ctx context.Context, videoID uint, tagIDs []uint) error {
	ids := uniqueIDs(tagIDs)
	if len(ids) == 0 {
		return nil
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireVideo(tx, videoID); err != nil {
			return err
		}
		if err := requireAll(tx, &models.Tag{}, ids, "标签"); err != nil {
			return err
		}

		links := make([]models.VideoTag, len(ids))
		for i, id := range ids {
			links[i] = models.VideoTag{VideoID: videoID, TagID: id}
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error
	})
}

// requireAll 所有ID都必须存在
func requireAll(tx *gorm.DB, model interface{}, ids []uint, what string) error {
	var count int64
	if err := tx.Model(model).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return err
	}
	if int(count) != len(ids) {
		return NewValidationError("%s不存在", what)
	}
	return nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	result := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		result = append(result, id)
	}
	return result
}

// Deactivate 停用视频（软删除）
func (s *VideoService) Deactivate(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Model(&models.Video{}).Where("id = ?", id).Update("is_active", false)
	if result.Error != nil {
		return errors.Wrap(result.Error, "停用视频失败")
	}
	if result.RowsAffected == 0 {
		return errors.Wrap(ErrNotFound, "视频")
	}
	return nil
}

// Purge 彻底删除视频及所有关联和互动数据
func (s *VideoService) Purge(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireVideo(tx, id); err != nil {
			return err
		}

		var mediaIDs []uint
		if err := tx.Model(&models.VideoMediaFile{}).Where("video_id = ?", id).Pluck("video_media_id", &mediaIDs).Error; err != nil {
			return errors.Wrap(err, "查询视频媒体失败")
		}

		owned := []interface{}{
			&models.VideoCategory{},
			&models.VideoTag{},
			&models.VideoMediaFile{},
			&models.VideoActor{},
			&models.VideoDirector{},
			&models.SeriesVideo{},
			&models.Comment{},
			&models.Danmaku{},
			&models.Rating{},
			&models.VideoCache{},
		}
		for _, model := range owned {
			if err := tx.Where("video_id = ?", id).Delete(model).Error; err != nil {
				return errors.Wrap(err, "删除视频关联失败")
			}
		}
		if err := deleteOrphanMediaTx(tx, mediaIDs); err != nil {
			return err
		}
		if err := tx.Model(&models.ImageResource{}).Where("video_id = ?", id).Update("video_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Video{}, id).Error
	})
}

// deleteOrphanMediaTx 删除不再被任何视频引用的媒体及其编码任务
func deleteOrphanMediaTx(tx *gorm.DB, mediaIDs []uint) error {
	if len(mediaIDs) == 0 {
		return nil
	}
	var orphans []uint
	err := tx.Model(&models.VideoMedia{}).
		Where("id IN ?", mediaIDs).
		Where("id NOT IN (?)", tx.Model(&models.VideoMediaFile{}).Select("video_media_id")).
		Pluck("id", &orphans).Error
	if err != nil {
		return errors.Wrap(err, "查询媒体引用失败")
	}
	if len(orphans) == 0 {
		return nil
	}
	if err := tx.Where("video_media_id IN ?", orphans).Delete(&models.Encoding{}).Error; err != nil {
		return errors.Wrap(err, "删除编码任务失败")
	}
	if err := tx.Where("id IN ?", orphans).Delete(&models.VideoMedia{}).Error; err != nil {
		return errors.Wrap(err, "删除媒体失败")
	}
	return nil
}

// SeriesEpisodeInput 剧集参数
type SeriesEpisodeInput struct {
	EpisodeNumber int        `json:"episode_number" binding:"required"`
	TotalEpisodes int        `json:"total_episodes"`
	UpdateStatus  string     `json:"update_status"`
	NextUpdate    *time.Time `json:"next_update"`
}

// AddSeriesEpisode 为剧集视频添加一集，同时更新视频的集数
func (s *VideoService) AddSeriesEpisode(ctx context.Context, videoID uint, in SeriesEpisodeInput) (*models.SeriesVideo, error) {
	if in.EpisodeNumber < 1 {
		return nil, NewValidationError("集数必须大于0")
	}
	if in.UpdateStatus == "" {
		in.UpdateStatus = models.UpdateOngoing
	}
	if in.UpdateStatus != models.UpdateOngoing && in.UpdateStatus != models.UpdateCompleted {
		return nil, NewValidationError("不支持的更新状态: %s", in.UpdateStatus)
	}

	var episode models.SeriesVideo
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var video models.Video
		if err := tx.First(&video, videoID).Error; err != nil {
			return translateDBError(err, "视频")
		}
		if video.VideoType != models.VideoTypeSeries {
			return NewValidationError("只有剧集类型的视频可以添加分集")
		}

		episode = models.SeriesVideo{
			VideoID:       videoID,
			SeriesTitle:   video.Title,
			EpisodeNumber: in.EpisodeNumber,
			TotalEpisodes: in.TotalEpisodes,
			UpdateStatus:  in.UpdateStatus,
			NextUpdate:    in.NextUpdate,
		}
		if err := tx.Create(&episode).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{"update_status": in.UpdateStatus}
		if in.EpisodeNumber > video.CurrentEpisodes {
			updates["current_episodes"] = in.EpisodeNumber
		}
		if in.TotalEpisodes > 0 {
			updates["total_episodes"] = in.TotalEpisodes
		}
		return tx.Model(&video).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	return &episode, nil
}

// ListSeriesEpisodes 按集数排序
func (s *VideoService) ListSeriesEpisodes(ctx context.Context, videoID uint) ([]models.SeriesVideo, error) {
	episodes := []models.SeriesVideo{}
	err := s.db.WithContext(ctx).
		Where("video_id = ?", videoID).
		Order("episode_number ASC, id ASC").
		Find(&episodes).Error
	if err != nil {
		return nil, errors.Wrap(err, "查询剧集失败")
	}
	return episodes, nil
}

// IncrementPlayCount 播放数和浏览数加一
func (s *VideoService) IncrementPlayCount(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Model(&models.Video{}).
		Where("id = ? AND is_active = ?", id, true).
		UpdateColumns(map[string]interface{}{
			"play_count": gorm.Expr("play_count + ?", 1),
			"views":      gorm.Expr("views + ?", 1),
		})
	if result.Error != nil {
		return errors.Wrap(result.Error, "更新播放次数失败")
	}
	if result.RowsAffected == 0 {
		return errors.Wrap(ErrNotFound, "视频")
	}
	return nil
}
