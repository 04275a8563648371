package services

import (
	"context"
	"testing"

	"mediacms/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMusic_AlbumAndTracks(t *testing.T) {
	svc, db := newTestServices(t, Deps{})
	ctx := context.Background()

	album, err := svc.Music.CreateAlbum(ctx, AlbumInput{Title: "范特西", Artist: "周杰伦"})
	require.NoError(t, err)

	second, err := svc.Music.CreateMusic(ctx, MusicInput{Title: "简单爱", AlbumID: &album.ID, TrackNo: 2})
	require.NoError(t, err)
	first, err := svc.Music.CreateMusic(ctx, MusicInput{Title: "爱在西元前", AlbumID: &album.ID, TrackNo: 1})
	require.NoError(t, err)

	_, err = svc.Music.CreateMusic(ctx, MusicInput{Title: "x", AlbumID: uintPtr(404)})
	_, ok := AsValidation(err)
	assert.True(t, ok)

	detail, err := svc.Music.GetAlbumDetail(ctx, album.ID)
	require.NoError(t, err)
	require.Len(t, detail.Tracks, 2)
	assert.Equal(t, first.ID, detail.Tracks[0].ID)
	assert.Equal(t, second.ID, detail.Tracks[1].ID)

	// 删除专辑保留曲目
	require.NoError(t, svc.Music.DeleteAlbum(ctx, album.ID))
	var track models.Music
	require.NoError(t, db.First(&track, first.ID).Error)
	assert.Nil(t, track.AlbumID)

	_, err = svc.Music.GetAlbumDetail(ctx, album.ID)
	assert.True(t, IsNotFound(err))
	assert.True(t, IsNotFound(svc.Music.DeleteAlbum(ctx, album.ID)))
}

func TestMusic_Playlist(t *testing.T) {
	svc, db := newTestServices(t, Deps{})
	ctx := context.Background()

	playlist, err := svc.Music.CreatePlaylist(ctx, PlaylistInput{Title: "通勤"})
	require.NoError(t, err)
	a, err := svc.Music.CreateMusic(ctx, MusicInput{Title: "A"})
	require.NoError(t, err)
	b, err := svc.Music.CreateMusic(ctx, MusicInput{Title: "B"})
	require.NoError(t, err)

	_, err = svc.Music.AddToPlaylist(ctx, playlist.ID, a.ID, 2)
	require.NoError(t, err)
	_, err = svc.Music.AddToPlaylist(ctx, playlist.ID, b.ID, 1)
	require.NoError(t, err)

	_, err = svc.Music.AddToPlaylist(ctx, playlist.ID, a.ID, 3)
	assert.True(t, IsConflict(err))

	_, err = svc.Music.AddToPlaylist(ctx, 404, a.ID, 0)
	assert.True(t, IsNotFound(err))

	detail, err := svc.Music.GetPlaylistDetail(ctx, playlist.ID)
	require.NoError(t, err)
	require.Len(t, detail.Tracks, 2)
	assert.Equal(t, b.ID, detail.Tracks[0].ID)

	require.NoError(t, svc.Music.RemoveFromPlaylist(ctx, playlist.ID, b.ID))
	assert.True(t, IsNotFound(svc.Music.RemoveFromPlaylist(ctx, playlist.ID, b.ID)))

	// 删除音乐同时删除歌单关联
	require.NoError(t, svc.Music.DeleteMusic(ctx, a.ID))
	assert.Zero(t, countRows(t, db, &models.PlaylistMusic{}))

	require.NoError(t, svc.Music.DeletePlaylist(ctx, playlist.ID))
	lists, err := svc.Music.ListPlaylists(ctx, 1, 20)
	require.NoError(t, err)
	assert.Zero(t, lists.Total)
}
