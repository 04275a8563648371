package handles

import (
	"context"
	"net/http"

	"mediacms/services"
	"mediacms/utils"

	"github.com/gin-gonic/gin"
)

// MusicHandler 音乐、专辑和歌单
type MusicHandler struct {
	music *services.MusicService
}

// NewMusicHandler 创建音乐处理器
func NewMusicHandler(music *services.MusicService) *MusicHandler {
	return &MusicHandler{music: music}
}

// GetMusic GET /api/music
func (h *MusicHandler) GetMusic(c *gin.Context) {
	result, err := h.music.ListMusic(c.Request.Context(), utils.GetPage(c), utils.GetPageSize(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, result)
}

// GetAlbums GET /api/music/albums
func (h *MusicHandler) GetAlbums(c *gin.Context) {
	result, err := h.music.ListAlbums(c.Request.Context(), utils.GetPage(c), utils.GetPageSize(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, result)
}

// GetAlbum GET /api/music/albums/:id
func (h *MusicHandler) GetAlbum(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	detail, err := h.music.GetAlbumDetail(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, detail)
}

// GetPlaylists GET /api/music/playlists
func (h *MusicHandler) GetPlaylists(c *gin.Context) {
	result, err := h.music.ListPlaylists(c.Request.Context(), utils.GetPage(c), utils.GetPageSize(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, result)
}

// GetPlaylist GET /api/music/playlists/:id
func (h *MusicHandler) GetPlaylist(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	detail, err := h.music.GetPlaylistDetail(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, detail)
}

// CreateAlbum POST /api/admin/music/albums
func (h *MusicHandler) CreateAlbum(c *gin.Context) {
	var req services.AlbumInput
	if !bindJSON(c, &req) {
		return
	}
	album, err := h.music.CreateAlbum(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Created(c, "创建成功", album)
}

// CreateMusic POST /api/admin/music
func (h *MusicHandler) CreateMusic(c *gin.Context) {
	var req services.MusicInput
	if !bindJSON(c, &req) {
		return
	}
	music, err := h.music.CreateMusic(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Created(c, "创建成功", music)
}

// CreatePlaylist POST /api/admin/music/playlists
func (h *MusicHandler) CreatePlaylist(c *gin.Context) {
	var req services.PlaylistInput
	if !bindJSON(c, &req) {
		return
	}
	playlist, err := h.music.CreatePlaylist(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Created(c, "创建成功", playlist)
}

// AddToPlaylist POST /api/admin/music/playlists/:id/tracks
func (h *MusicHandler) AddToPlaylist(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		MusicID uint `json:"music_id" binding:"required"`
		Order   int  `json:"order"`
	}
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.music.AddToPlaylist(c.Request.Context(), id, req.MusicID, req.Order)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Created(c, "添加成功", item)
}

// RemoveFromPlaylist DELETE /api/admin/music/playlists/:id/tracks/:music_id
func (h *MusicHandler) RemoveFromPlaylist(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	musicID, ok := pathID(c, "music_id")
	if !ok {
		return
	}
	if err := h.music.RemoveFromPlaylist(c.Request.Context(), id, musicID); err != nil {
		respondError(c, err)
		return
	}
	utils.Response(c, http.StatusOK, "移除成功", nil)
}

// DeleteAlbum DELETE /api/admin/music/albums/:id
func (h *MusicHandler) DeleteAlbum(c *gin.Context) {
	h.deleteBy(c, h.music.DeleteAlbum)
}

// DeletePlaylist DELETE /api/admin/music/playlists/:id
func (h *MusicHandler) DeletePlaylist(c *gin.Context) {
	h.deleteBy(c, h.music.DeletePlaylist)
}

// DeleteMusic DELETE /api/admin/music/:id
func (h *MusicHandler) DeleteMusic(c *gin.Context) {
	h.deleteBy(c, h.music.DeleteMusic)
}

func (h *MusicHandler) deleteBy(c *gin.Context, del func(ctx context.Context, id uint) error) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := del(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	utils.Response(c, http.StatusOK, "删除成功", nil)
}
