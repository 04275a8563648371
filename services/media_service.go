package services

import (
	"context"
	"time"

	"mediacms/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// MediaService 视频媒体文件、图片和编码任务记录
type MediaService struct {
	db *gorm.DB
}

// NewMediaService 创建媒体服务
func NewMediaService(db *gorm.DB) *MediaService {
	return &MediaService{db: db}
}

// AttachMedia 为视频添加一个媒体文件，未提供路径时使用占位路径
func (s *MediaService) AttachMedia(ctx context.Context, videoID uint, media models.VideoMedia) (*models.VideoMedia, error) {
	if err := prepareMedia(&media); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireVideo(tx, videoID); err != nil {
			return err
		}
		return attachMediaTx(tx, videoID, &media)
	})
	if err != nil {
		return nil, err
	}
	return &media, nil
}

// prepareMedia 补全默认值并校验清晰度
func prepareMedia(media *models.VideoMedia) error {
	if media.FilePath == "" && media.CdnURL == nil {
		media.FilePath = models.DefaultMediaPath
	}
	if media.Quality == "" {
		media.Quality = models.Quality720p
	}
	if _, ok := models.QualityLevels[media.Quality]; !ok {
		return NewValidationError("不支持的清晰度: %s", media.Quality)
	}
	if media.MediaType == "" {
		media.MediaType = "video"
	}
	if media.ExtraInfo.Data() == nil {
		media.ExtraInfo = models.NewMetaJSON(models.Meta{})
	}
	return nil
}

// attachMediaTx 在事务中写入媒体和关联
func attachMediaTx(tx *gorm.DB, videoID uint, media *models.VideoMedia) error {
	media.ID = 0
	if err := tx.Create(media).Error; err != nil {
		return errors.Wrap(err, "保存媒体文件失败")
	}
	link := models.VideoMediaFile{VideoID: videoID, VideoMediaID: media.ID}
	return translateDBError(tx.Create(&link).Error, "媒体关联")
}

// requireVideo 视频不存在时返回 ErrNotFound（不区分是否启用）
func requireVideo(tx *gorm.DB, videoID uint) error {
	var count int64
	if err := tx.Model(&models.Video{}).Where("id = ?", videoID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errors.Wrapf(ErrNotFound, "视频 %d", videoID)
	}
	return nil
}

// RenditionFilter 媒体版本过滤条件，都为空时只返回默认版本
type RenditionFilter struct {
	Quality      string
	EpisodeIndex *int
}

// ListRenditions 视频当前可用的媒体版本
func (s *MediaService) ListRenditions(ctx context.Context, videoID uint, filter RenditionFilter) ([]models.VideoMedia, error) {
	linked := s.db.Session(&gorm.Session{NewDB: true}).
		Model(&models.VideoMediaFile{}).
		Select("video_media_id").
		Where("video_id = ?", videoID)

	query := s.db.WithContext(ctx).Where("id IN (?)", linked)
	if filter.Quality == "" && filter.EpisodeIndex == nil {
		query = query.Where("is_default = ?", true)
	}
	if filter.Quality != "" {
		query = query.Where("quality = ?", filter.Quality)
	}
	if filter.EpisodeIndex != nil {
		query = query.Where("episode_index = ?", *filter.EpisodeIndex)
	}

	medias := []models.VideoMedia{}
	if err := query.Order("source_index ASC, episode_index ASC, id ASC").Find(&medias).Error; err != nil {
		return nil, errors.Wrap(err, "查询媒体版本失败")
	}
	return medias, nil
}

// EpisodeSource 一个播放来源下的剧集列表
type EpisodeSource struct {
	SourceName  string              `json:"source_name"`
	SourceIndex int                 `json:"source_index"`
	Episodes    []models.VideoMedia `json:"episodes"`
}

// ListEpisodes 按播放来源分组的全部剧集
func (s *MediaService) ListEpisodes(ctx context.Context, videoID uint) ([]EpisodeSource, error) {
	linked := s.db.Session(&gorm.Session{NewDB: true}).
		Model(&models.VideoMediaFile{}).
		Select("video_media_id").
		Where("video_id = ?", videoID)

	var medias []models.VideoMedia
	err := s.db.WithContext(ctx).
		Where("id IN (?)", linked).
		Order("source_index ASC, episode_index ASC, id ASC").
		Find(&medias).Error
	if err != nil {
		return nil, errors.Wrap(err, "查询剧集失败")
	}

	sources := []EpisodeSource{}
	for _, m := range medias {
		name := ""
		if m.SourceName != nil {
			name = *m.SourceName
		}
		last := len(sources) - 1
		if last < 0 || sources[last].SourceIndex != m.SourceIndex {
			sources = append(sources, EpisodeSource{SourceName: name, SourceIndex: m.SourceIndex})
			last++
		}
		sources[last].Episodes = append(sources[last].Episodes, m)
	}
	return sources, nil
}

// AddImage 添加图片资源
func (s *MediaService) AddImage(ctx context.Context, image models.ImageResource) (*models.ImageResource, error) {
	if image.URL == "" {
		return nil, NewValidationError("图片地址不能为空")
	}
	if image.ImageType == "" {
		image.ImageType = "cover"
	}
	valid := false
	for _, t := range models.ImageTypes {
		if t == image.ImageType {
			valid = true
			break
		}
	}
	if !valid {
		return nil, NewValidationError("不支持的图片类型: %s", image.ImageType)
	}
	if image.Status == "" {
		image.Status = "active"
	}
	if image.ExtraInfo.Data() == nil {
		image.ExtraInfo = models.NewMetaJSON(models.Meta{})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if image.VideoID != nil {
			if err := requireVideo(tx, *image.VideoID); err != nil {
				return err
			}
		}
		return tx.Create(&image).Error
	})
	if err != nil {
		return nil, err
	}
	return &image, nil
}

// ListImages 视频的图片，主图在前
func (s *MediaService) ListImages(ctx context.Context, videoID uint) ([]models.ImageResource, error) {
	images := []models.ImageResource{}
	err := s.db.WithContext(ctx).
		Where("video_id = ?", videoID).
		Order("is_main DESC, sort_order ASC, id ASC").
		Find(&images).Error
	if err != nil {
		return nil, errors.Wrap(err, "查询图片失败")
	}
	return images, nil
}

// CreateEncodeProfile 创建编码配置
func (s *MediaService) CreateEncodeProfile(ctx context.Context, profile models.EncodeProfile) (*models.EncodeProfile, error) {
	if profile.Name == "" {
		return nil, NewValidationError("编码配置名称不能为空")
	}
	if profile.Extension == "" {
		profile.Extension = "mp4"
	}
	profile.IsActive = true
	if err := s.db.WithContext(ctx).Create(&profile).Error; err != nil {
		return nil, errors.Wrap(err, "创建编码配置失败")
	}
	return &profile, nil
}

// ListEncodeProfiles 启用的编码配置
func (s *MediaService) ListEncodeProfiles(ctx context.Context) ([]models.EncodeProfile, error) {
	profiles := []models.EncodeProfile{}
	err := s.db.WithContext(ctx).Where("is_active = ?", true).Order("resolution DESC, id ASC").Find(&profiles).Error
	return profiles, errors.Wrap(err, "查询编码配置失败")
}

// CreateEncodingTask 记录一个待执行的编码任务
func (s *MediaService) CreateEncodingTask(ctx context.Context, mediaID, profileID uint) (*models.Encoding, error) {
	task := models.Encoding{VideoMediaID: mediaID, ProfileID: profileID, Status: models.EncodingPending}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var media models.VideoMedia
		if err := tx.Select("id").First(&media, mediaID).Error; err != nil {
			return translateDBError(err, "媒体文件")
		}
		var profile models.EncodeProfile
		if err := tx.Select("id").First(&profile, profileID).Error; err != nil {
			return translateDBError(err, "编码配置")
		}
		return tx.Create(&task).Error
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// 允许的状态变化
var encodingTransitions = map[string][]string{
	models.EncodingPending: {models.EncodingRunning, models.EncodingFailed},
	models.EncodingRunning: {models.EncodingRunning, models.EncodingCompleted, models.EncodingFailed},
}

// EncodingUpdate 编码任务状态更新
type EncodingUpdate struct {
	Status       string `json:"status" binding:"required"`
	Progress     int    `json:"progress"`
	OutputURL    string `json:"output_url"`
	ErrorMessage string `json:"error_message"`
}

// UpdateEncodingStatus 更新编码任务状态（只记录，不执行编码）
func (s *MediaService) UpdateEncodingStatus(ctx context.Context, id uint, update EncodingUpdate) (*models.Encoding, error) {
	if update.Progress < 0 || update.Progress > 100 {
		return nil, NewValidationError("进度必须在 0-100 之间")
	}

	var task models.Encoding
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&task, id).Error; err != nil {
			return translateDBError(err, "编码任务")
		}

		allowed := false
		for _, next := range encodingTransitions[task.Status] {
			if next == update.Status {
				allowed = true
				break
			}
		}
		if !allowed {
			return NewValidationError("编码任务不能从 %s 变为 %s", task.Status, update.Status)
		}

		now := time.Now()
		updates := map[string]interface{}{
			"status":   update.Status,
			"progress": update.Progress,
		}
		switch update.Status {
		case models.EncodingRunning:
			if task.StartedAt == nil {
				updates["started_at"] = now
			}
		case models.EncodingCompleted:
			updates["progress"] = 100
			updates["output_url"] = update.OutputURL
			updates["completed_at"] = now
		case models.EncodingFailed:
			updates["error_message"] = update.ErrorMessage
			updates["completed_at"] = now
		}

		if err := tx.Model(&task).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&task, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}
