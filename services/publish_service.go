package services

import (
	"context"
	"io"
	"strings"

	"mediacms/models"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// PublishLimits 上传大小限制（字节）
type PublishLimits struct {
	ContentMaxSize int64
	VideoMaxSize   int64
}

// DefaultPublishLimits 图文 100MB，视频 500MB
var DefaultPublishLimits = PublishLimits{
	ContentMaxSize: 100 * humanize.MiByte,
	VideoMaxSize:   500 * humanize.MiByte,
}

// UploadFile 一个待保存的上传文件
type UploadFile struct {
	Filename    string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// PublishService 用户发布内容和视频
type PublishService struct {
	db      *gorm.DB
	storage Storage
	videos  *VideoService
	cast    *CastService
	limits  PublishLimits
}

// NewPublishService 创建发布服务
func NewPublishService(db *gorm.DB, storage Storage, videos *VideoService, cast *CastService, limits PublishLimits) *PublishService {
	return &PublishService{db: db, storage: storage, videos: videos, cast: cast, limits: limits}
}

// PublishContentInput 图文/视频混合发布
type PublishContentInput struct {
	Content    string
	CategoryID uint
	UserID     uint
	Files      []UploadFile
}

// PublishVideoInput 短视频发布
type PublishVideoInput struct {
	Title       string
	Description string
	CategoryID  uint
	UserID      uint
	File        *UploadFile
}

// mediaTypeOf 只接受图片和视频
func mediaTypeOf(contentType string, allowImage bool) (string, bool) {
	ct := strings.ToLower(contentType)
	if strings.HasPrefix(ct, "video/") {
		return "video", true
	}
	if allowImage && strings.HasPrefix(ct, "image/") {
		return "image", true
	}
	return "", false
}

// storedFile 已保存的文件
type storedFile struct {
	key       string
	mediaType string
	size      int64
}

// PublishContent 发布内容：所有文件校验通过后才保存，数据库写入失败时删除已保存的文件
func (s *PublishService) PublishContent(ctx context.Context, in PublishContentInput) (*models.Video, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" || len(in.Files) == 0 {
		return nil, NewValidationError("内容和文件不能为空")
	}

	mediaTypes := make([]string, len(in.Files))
	for i, f := range in.Files {
		if f.Size > s.limits.ContentMaxSize {
			return nil, NewValidationError("文件大小不能超过%s", humanize.IBytes(uint64(s.limits.ContentMaxSize)))
		}
		mt, ok := mediaTypeOf(f.ContentType, true)
		if !ok {
			return nil, NewValidationError("仅支持图片和视频文件")
		}
		mediaTypes[i] = mt
	}
	if err := s.requireCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	title := content
	if runes := []rune(content); len(runes) > 50 {
		title = string(runes[:50])
	}
	input := VideoInput{
		Title:       title,
		Description: content,
		CreatedBy:   in.UserID,
	}
	return s.publish(ctx, input, in.CategoryID, in.Files, mediaTypes)
}

// PublishVideo 发布短视频，状态直接为已发布
func (s *PublishService) PublishVideo(ctx context.Context, in PublishVideoInput) (*models.Video, error) {
	if strings.TrimSpace(in.Title) == "" || in.File == nil {
		return nil, NewValidationError("标题和视频文件不能为空")
	}
	if in.File.Size > s.limits.VideoMaxSize {
		return nil, NewValidationError("视频大小不能超过%s", humanize.IBytes(uint64(s.limits.VideoMaxSize)))
	}
	if _, ok := mediaTypeOf(in.File.ContentType, false); !ok {
		return nil, NewValidationError("仅支持视频文件")
	}
	if err := s.requireCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	input := VideoInput{
		Title:       in.Title,
		Description: in.Description,
		VideoType:   models.VideoTypeShort,
		Status:      models.VideoStatusPublished,
		CreatedBy:   in.UserID,
	}
	return s.publish(ctx, input, in.CategoryID, []UploadFile{*in.File}, []string{"video"})
}

func (s *PublishService) requireCategory(ctx context.Context, categoryID uint) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", categoryID).Count(&count).Error; err != nil {
		return errors.Wrap(err, "查询分类失败")
	}
	if count == 0 {
		return NewValidationError("分类不存在")
	}
	return nil
}

// publish 保存文件，然后在一个事务中写视频、分类和媒体
func (s *PublishService) publish(ctx context.Context, input VideoInput, categoryID uint, files []UploadFile, mediaTypes []string) (*models.Video, error) {
	video, err := s.videos.buildVideo(input)
	if err != nil {
		return nil, err
	}

	stored := make([]storedFile, 0, len(files))
	cleanup := func() {
		for _, f := range stored {
			if err := s.storage.Delete(context.Background(), f.key); err != nil {
				log.WithError(err).WithField("key", f.key).Error("清理上传文件失败")
			}
		}
	}

	for i, f := range files {
		key, err := s.saveFile(ctx, mediaTypes[i], f)
		if err != nil {
			cleanup()
			return nil, err
		}
		stored = append(stored, storedFile{key: key, mediaType: mediaTypes[i], size: f.Size})
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(video).Error; err != nil {
			return errors.Wrap(err, "保存视频失败")
		}
		if err := attachCategoriesTx(tx, video.ID, []uint{categoryID}); err != nil {
			return err
		}
		for i, f := range stored {
			media := models.VideoMedia{
				FilePath:  f.key,
				FileSize:  f.size,
				MediaType: f.mediaType,
				IsDefault: i == 0,
			}
			if err := prepareMedia(&media); err != nil {
				return err
			}
			if err := attachMediaTx(tx, video.ID, &media); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		cleanup()
		return nil, err
	}

	log.WithFields(log.Fields{"video_id": video.ID, "files": len(stored), "user_id": video.CreatedBy}).Info("发布成功")
	return video, nil
}

func (s *PublishService) saveFile(ctx context.Context, mediaType string, f UploadFile) (string, error) {
	r, err := f.Open()
	if err != nil {
		return "", errors.Wrapf(err, "读取上传文件 %s 失败", f.Filename)
	}
	defer r.Close()

	folder := "videos"
	if mediaType == "image" {
		folder = "images"
	}
	return s.storage.Save(ctx, folder, f.Filename, f.ContentType, r)
}

// MovieInput 影视发布参数，演员和导演用逗号分隔
type MovieInput struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	CategoryID  uint    `json:"category_id" binding:"required"`
	VideoType   string  `json:"video_type"`
	Area        *string `json:"region"`
	Language    *string `json:"language"`
	Year        *string `json:"year"`
	Status      string  `json:"status"`
	Cover       *string `json:"cover_image"`
	Actors      string  `json:"actors"`
	Directors   string  `json:"directors"`
	UserID      uint    `json:"-"`
}

// PublishMovie 发布影视条目并关联演员和导演
func (s *PublishService) PublishMovie(ctx context.Context, in MovieInput) (*models.Video, error) {
	video, err := s.videos.buildVideo(VideoInput{
		Title:       in.Title,
		Description: in.Description,
		VideoType:   in.VideoType,
		Status:      in.Status,
		Thumbnail:   in.Cover,
		Area:        in.Area,
		Language:    in.Language,
		Year:        in.Year,
		CreatedBy:   in.UserID,
	})
	if err != nil {
		return nil, err
	}
	if err := s.requireCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	// 人员在事务外准备（可能调用AI接口）
	actors, err := s.cast.ProcessCast(ctx, in.Actors, RoleActor)
	if err != nil {
		return nil, err
	}
	directors, err := s.cast.ProcessCast(ctx, in.Directors, RoleDirector)
	if err != nil {
		return nil, err
	}
	actors, directors = dedupePeople(actors), dedupePeople(directors)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(video).Error; err != nil {
			return errors.Wrap(err, "保存视频失败")
		}
		if err := attachCategoriesTx(tx, video.ID, []uint{in.CategoryID}); err != nil {
			return err
		}
		if len(actors) > 0 {
			if err := attachCastTx(tx, video.ID, actors, RoleActor); err != nil {
				return err
			}
		}
		if len(directors) > 0 {
			if err := attachCastTx(tx, video.ID, directors, RoleDirector); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return video, nil
}
