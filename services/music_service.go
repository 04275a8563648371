package services

import (
	"context"
	"strings"
	"time"

	"mediacms/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// MusicService 音乐、专辑和歌单
type MusicService struct {
	db *gorm.DB
}

// NewMusicService 创建音乐服务
func NewMusicService(db *gorm.DB) *MusicService {
	return &MusicService{db: db}
}

// AlbumInput 创建专辑参数
type AlbumInput struct {
	Title       string     `json:"title" binding:"required"`
	Artist      string     `json:"artist"`
	Description string     `json:"description"`
	Cover       *string    `json:"cover"`
	ReleaseDate *time.Time `json:"release_date"`
}

// CreateAlbum 创建专辑
func (s *MusicService) CreateAlbum(ctx context.Context, in AlbumInput) (*models.Album, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, NewValidationError("专辑标题不能为空")
	}
	album := models.Album{
		Title:       strings.TrimSpace(in.Title),
		Artist:      in.Artist,
		Description: in.Description,
		Cover:       in.Cover,
		ReleaseDate: in.ReleaseDate,
		IsActive:    true,
	}
	if err := s.db.WithContext(ctx).Create(&album).Error; err != nil {
		return nil, errors.Wrap(err, "创建专辑失败")
	}
	return &album, nil
}

// MusicInput 创建音乐参数
type MusicInput struct {
	Title    string  `json:"title" binding:"required"`
	Artist   string  `json:"artist"`
	AlbumID  *uint   `json:"album_id"`
	TrackNo  int     `json:"track_no"`
	FilePath string  `json:"file_path"`
	Duration int     `json:"duration"`
	Cover    *string `json:"cover"`
}

// CreateMusic 创建音乐，专辑必须存在
func (s *MusicService) CreateMusic(ctx context.Context, in MusicInput) (*models.Music, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, NewValidationError("音乐标题不能为空")
	}
	if in.Duration < 0 {
		return nil, NewValidationError("时长不能为负数")
	}

	music := models.Music{
		Title:    strings.TrimSpace(in.Title),
		Artist:   in.Artist,
		AlbumID:  in.AlbumID,
		TrackNo:  in.TrackNo,
		FilePath: in.FilePath,
		Duration: in.Duration,
		Cover:    in.Cover,
		IsActive: true,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.AlbumID != nil {
			var count int64
			if err := tx.Model(&models.Album{}).Where("id = ?", *in.AlbumID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return NewValidationError("专辑不存在")
			}
		}
		return tx.Create(&music).Error
	})
	if err != nil {
		return nil, err
	}
	return &music, nil
}

// PlaylistInput 创建歌单参数
type PlaylistInput struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	Cover       *string `json:"cover"`
}

// CreatePlaylist 创建歌单
func (s *MusicService) CreatePlaylist(ctx context.Context, in PlaylistInput) (*models.Playlist, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, NewValidationError("歌单标题不能为空")
	}
	playlist := models.Playlist{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Cover:       in.Cover,
		IsActive:    true,
	}
	if err := s.db.WithContext(ctx).Create(&playlist).Error; err != nil {
		return nil, errors.Wrap(err, "创建歌单失败")
	}
	return &playlist, nil
}

// AddToPlaylist 把音乐加入歌单，重复加入返回 ErrConflict
func (s *MusicService) AddToPlaylist(ctx context.Context, playlistID, musicID uint, order int) (*models.PlaylistMusic, error) {
	link := models.PlaylistMusic{PlaylistID: playlistID, MusicID: musicID, Order: order}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var playlist models.Playlist
		if err := tx.Select("id").First(&playlist, playlistID).Error; err != nil {
			return translateDBError(err, "歌单")
		}
		var music models.Music
		if err := tx.Select("id").First(&music, musicID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewValidationError("音乐不存在")
			}
			return err
		}
		return translateDBError(tx.Create(&link).Error, "歌单音乐")
	})
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// RemoveFromPlaylist 从歌单移除音乐
func (s *MusicService) RemoveFromPlaylist(ctx context.Context, playlistID, musicID uint) error {
	result := s.db.WithContext(ctx).
		Where("playlist_id = ? AND music_id = ?", playlistID, musicID).
		Delete(&models.PlaylistMusic{})
	if result.Error != nil {
		return errors.Wrap(result.Error, "移除歌单音乐失败")
	}
	if result.RowsAffected == 0 {
		return errors.Wrap(ErrNotFound, "歌单音乐")
	}
	return nil
}

// ListMusic 启用的音乐，最新在前
func (s *MusicService) ListMusic(ctx context.Context, page, pageSize int) (*Page[models.Music], error) {
	query := s.db.WithContext(ctx).Model(&models.Music{}).Where("is_active = ?", true)
	result, err := paginate[models.Music](query, "created_at DESC, id DESC", page, pageSize)
	return result, errors.Wrap(err, "查询音乐失败")
}

// ListAlbums 启用的专辑，最新在前
func (s *MusicService) ListAlbums(ctx context.Context, page, pageSize int) (*Page[models.Album], error) {
	query := s.db.WithContext(ctx).Model(&models.Album{}).Where("is_active = ?", true)
	result, err := paginate[models.Album](query, "created_at DESC, id DESC", page, pageSize)
	return result, errors.Wrap(err, "查询专辑失败")
}

// ListPlaylists 启用的歌单，最新在前
func (s *MusicService) ListPlaylists(ctx context.Context, page, pageSize int) (*Page[models.Playlist], error) {
	query := s.db.WithContext(ctx).Model(&models.Playlist{}).Where("is_active = ?", true)
	result, err := paginate[models.Playlist](query, "created_at DESC, id DESC", page, pageSize)
	return result, errors.Wrap(err, "查询歌单失败")
}

// AlbumDetail 专辑和曲目
type AlbumDetail struct {
	models.Album
	Tracks []models.Music `json:"tracks"`
}

// GetAlbumDetail 专辑详情，曲目按曲序排列
func (s *MusicService) GetAlbumDetail(ctx context.Context, id uint) (*AlbumDetail, error) {
	var album models.Album
	if err := s.db.WithContext(ctx).Where("id = ? AND is_active = ?", id, true).First(&album).Error; err != nil {
		return nil, translateDBError(err, "专辑")
	}

	detail := &AlbumDetail{Album: album, Tracks: []models.Music{}}
	err := s.db.WithContext(ctx).
		Where("album_id = ? AND is_active = ?", id, true).
		Order("track_no ASC, id ASC").
		Find(&detail.Tracks).Error
	if err != nil {
		return nil, errors.Wrap(err, "查询专辑曲目失败")
	}
	return detail, nil
}

// PlaylistDetail 歌单和曲目
type PlaylistDetail struct {
	models.Playlist
	Tracks []models.Music `json:"tracks"`
}

// GetPlaylistDetail 歌单详情，曲目按歌单内排序
func (s *MusicService) GetPlaylistDetail(ctx context.Context, id uint) (*PlaylistDetail, error) {
	var playlist models.Playlist
	if err := s.db.WithContext(ctx).Where("id = ? AND is_active = ?", id, true).First(&playlist).Error; err != nil {
		return nil, translateDBError(err, "歌单")
	}

	detail := &PlaylistDetail{Playlist: playlist, Tracks: []models.Music{}}
	err := s.db.WithContext(ctx).
		Select("music.*").
		Joins("JOIN playlist_music ON playlist_music.music_id = music.id").
		Where("playlist_music.playlist_id = ? AND music.is_active = ?", id, true).
		Order("playlist_music.sort_order ASC, playlist_music.id ASC").
		Find(&detail.Tracks).Error
	if err != nil {
		return nil, errors.Wrap(err, "查询歌单曲目失败")
	}
	return detail, nil
}

// DeleteAlbum 删除专辑，曲目保留并清空专辑
func (s *MusicService) DeleteAlbum(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Music{}).Where("album_id = ?", id).Update("album_id", nil).Error; err != nil {
			return err
		}
		return deleteByID(tx, &models.Album{}, id, "专辑")
	})
}

// DeletePlaylist 删除歌单及其曲目关联
func (s *MusicService) DeletePlaylist(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("playlist_id = ?", id).Delete(&models.PlaylistMusic{}).Error; err != nil {
			return err
		}
		return deleteByID(tx, &models.Playlist{}, id, "歌单")
	})
}

// DeleteMusic 删除音乐及其歌单关联
func (s *MusicService) DeleteMusic(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("music_id = ?", id).Delete(&models.PlaylistMusic{}).Error; err != nil {
			return err
		}
		return deleteByID(tx, &models.Music{}, id, "音乐")
	})
}

func deleteByID(tx *gorm.DB, model interface{}, id uint, what string) error {
	result := tx.Delete(model, id)
	if result.Error != nil {
		return errors.Wrapf(result.Error, "删除%s失败", what)
	}
	if result.RowsAffected == 0 {
		return errors.Wrap(ErrNotFound, what)
	}
	return nil
}
