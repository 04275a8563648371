package services

import (
	"context"
	"strings"
	"time"

	"mediacms/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// CommentService 评论（楼中楼）
//
// videos.comment_count 只在这里写入：每次新增或删除评论后，
// 在同一个事务里用 COUNT(*) 子查询重算。未审核的评论也计入。
type CommentService struct {
	db *gorm.DB
}

// NewCommentService 创建评论服务
func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{db: db}
}

// CommentInput 发表评论参数
type CommentInput struct {
	VideoID  uint    `json:"-"`
	UserID   uint    `json:"-"`
	Text     string  `json:"text" binding:"required"`
	ParentID *uint   `json:"parent_id"`
	MediaURL *string `json:"media_url"`
}

// CreateComment 发表评论并重算视频评论数
func (s *CommentService) CreateComment(ctx context.Context, in CommentInput) (*models.Comment, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, NewValidationError("评论内容不能为空")
	}
	if in.UserID == 0 {
		return nil, NewValidationError("缺少用户身份")
	}

	comment := models.Comment{
		VideoID:    in.VideoID,
		UserID:     in.UserID,
		Text:       text,
		ParentID:   in.ParentID,
		IsApproved: true,
		AddDate:    time.Now(),
		UID:        uuid.NewString(),
		MediaURL:   in.MediaURL,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Video{}).Where("id = ? AND is_active = ?", in.VideoID, true).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return errors.Wrapf(ErrNotFound, "视频 %d", in.VideoID)
		}

		if in.ParentID != nil {
			var parent models.Comment
			if err := tx.Select("id", "video_id").First(&parent, *in.ParentID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return NewValidationError("回复的评论不存在")
				}
				return err
			}
			if parent.VideoID != in.VideoID {
				return NewValidationError("回复的评论不属于该视频")
			}
		}

		if err := tx.Create(&comment).Error; err != nil {
			return translateDBError(err, "评论")
		}
		return recountComments(tx, in.VideoID)
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// DeleteComment 删除评论及其所有回复，并重算视频评论数
func (s *CommentService) DeleteComment(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var comment models.Comment
		if err := tx.Select("id", "video_id").First(&comment, id).Error; err != nil {
			return translateDBError(err, "评论")
		}

		// 按层收集回复ID
		ids := []uint{comment.ID}
		frontier := []uint{comment.ID}
		for len(frontier) > 0 {
			var next []uint
			if err := tx.Model(&models.Comment{}).Where("parent_id IN ?", frontier).Pluck("id", &next).Error; err != nil {
				return err
			}
			ids = append(ids, next...)
			frontier = next
		}

		if err := tx.Where("id IN ?", ids).Delete(&models.Comment{}).Error; err != nil {
			return errors.Wrap(err, "删除评论失败")
		}
		return recountComments(tx, comment.VideoID)
	})
}

// SetApproved 审核评论（不影响评论数）
func (s *CommentService) SetApproved(ctx context.Context, id uint, approved bool) error {
	result := s.db.WithContext(ctx).Model(&models.Comment{}).Where("id = ?", id).Update("is_approved", approved)
	if result.Error != nil {
		return errors.Wrap(result.Error, "审核评论失败")
	}
	if result.RowsAffected == 0 {
		return errors.Wrap(ErrNotFound, "评论")
	}
	return nil
}

// recountComments 用子查询重算评论数，必须在写评论的同一事务中调用
func recountComments(tx *gorm.DB, videoID uint) error {
	count := tx.Session(&gorm.Session{NewDB: true}).
		Model(&models.Comment{}).
		Select("COUNT(*)").
		Where("video_id = ?", videoID)

	err := tx.Model(&models.Video{}).Where("id = ?", videoID).UpdateColumn("comment_count", count).Error
	return errors.Wrap(err, "更新评论数失败")
}

// ListComments 视频的一级评论（已审核），最新在前
func (s *CommentService) ListComments(ctx context.Context, videoID uint, page, pageSize int) (*Page[models.Comment], error) {
	query := s.db.WithContext(ctx).Model(&models.Comment{}).
		Where("video_id = ? AND parent_id IS NULL AND is_approved = ?", videoID, true)

	result, err := paginate[models.Comment](query, "add_date DESC, id DESC", page, pageSize)
	return result, errors.Wrap(err, "查询评论失败")
}

// ListReplies 评论的直接回复（已审核），按时间先后
func (s *CommentService) ListReplies(ctx context.Context, commentID uint) ([]models.Comment, error) {
	replies := []models.Comment{}
	err := s.db.WithContext(ctx).
		Where("parent_id = ? AND is_approved = ?", commentID, true).
		Order("add_date ASC, id ASC").
		Find(&replies).Error
	if err != nil {
		return nil, errors.Wrap(err, "查询回复失败")
	}
	return replies, nil
}
