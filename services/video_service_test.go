package services

import (
	"context"
	"testing"

	"mediacms/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVideo_PurgeRemovesMedia(t *testing.T) {
	svc, db := newTestServices(t, Deps{})
	ctx := context.Background()

	video := mustVideo(t, svc, "purge me")
	other := mustVideo(t, svc, "keeps shared media")

	own, err := svc.Media.AttachMedia(ctx, video.ID, models.VideoMedia{Quality: models.Quality720p})
	require.NoError(t, err)
	shared, err := svc.Media.AttachMedia(ctx, video.ID, models.VideoMedia{FilePath: "videos/shared.mp4"})
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.VideoMediaFile{VideoID: other.ID, VideoMediaID: shared.ID}).Error)

	profile, err := svc.Media.CreateEncodeProfile(ctx, models.EncodeProfile{Name: "720p", Resolution: 720})
	require.NoError(t, err)
	_, err = svc.Media.CreateEncodingTask(ctx, own.ID, profile.ID)
	require.NoError(t, err)
	_, err = svc.Comments.CreateComment(ctx, CommentInput{VideoID: video.ID, UserID: 1, Text: "hi"})
	require.NoError(t, err)

	require.NoError(t, svc.Videos.Purge(ctx, video.ID))

	var count int64
	require.NoError(t, db.Model(&models.VideoMedia{}).Where("id = ?", own.ID).Count(&count).Error)
	assert.Zero(t, count, "media only linked to the purged video is deleted")
	require.NoError(t, db.Model(&models.Encoding{}).Where("video_media_id = ?", own.ID).Count(&count).Error)
	assert.Zero(t, count)

	require.NoError(t, db.Model(&models.VideoMedia{}).Where("id = ?", shared.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count, "media still linked to another video is kept")

	require.NoError(t, db.Model(&models.VideoMediaFile{}).Where("video_id = ?", video.ID).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&models.Comment{}).Where("video_id = ?", video.ID).Count(&count).Error)
	assert.Zero(t, count)

	_, err = svc.Videos.GetVideoDetail(ctx, video.ID)
	assert.True(t, IsNotFound(err))
	assert.True(t, IsNotFound(svc.Videos.Purge(ctx, video.ID)))
}
