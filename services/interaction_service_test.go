package services

import (
	"context"
	"strings"
	"testing"

	"mediacms/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInteractions_Danmaku(t *testing.T) {
	svc, _ := newTestServices(t, Deps{})
	ctx := context.Background()
	video := mustVideo(t, svc, "v")

	d, err := svc.Interactions.CreateDanmaku(ctx, DanmakuInput{VideoID: video.ID, UserID: 7, Text: "前方高能", Time: 12.5})
	require.NoError(t, err)
	assert.Equal(t, "#ffffff", d.Color)
	assert.Equal(t, models.DanmakuRight, d.Type)
	assert.Equal(t, 25, d.FontSize)

	_, err = svc.Interactions.CreateDanmaku(ctx, DanmakuInput{VideoID: video.ID, UserID: 7, Text: "早", Time: 3, Color: "#F00", Type: models.DanmakuTop})
	require.NoError(t, err)

	invalid := []DanmakuInput{
		{VideoID: video.ID, UserID: 7, Text: ""},
		{VideoID: video.ID, UserID: 7, Text: strings.Repeat("长", 101)},
		{VideoID: video.ID, UserID: 7, Text: "x", Time: -1},
		{VideoID: video.ID, UserID: 7, Text: "x", Color: "red"},
		{VideoID: video.ID, UserID: 7, Text: "x", Type: "scroll"},
	}
	for _, in := range invalid {
		_, err := svc.Interactions.CreateDanmaku(ctx, in)
		_, ok := AsValidation(err)
		assert.True(t, ok, "expected validation error for %+v", in)
	}

	_, err = svc.Interactions.CreateDanmaku(ctx, DanmakuInput{VideoID: 404, UserID: 7, Text: "x"})
	assert.True(t, IsNotFound(err))

	list, err := svc.Interactions.ListDanmaku(ctx, video.ID, nil, nil)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "早", list[0].Text)

	from := 10.0
	ranged, err := svc.Interactions.ListDanmaku(ctx, video.ID, &from, nil)
	require.NoError(t, err)
	assert.Len(t, ranged, 1)

	// 只能删除自己发送的弹幕
	assert.True(t, IsNotFound(svc.Interactions.DeleteDanmaku(ctx, d.ID, 8)))
	require.NoError(t, svc.Interactions.DeleteDanmaku(ctx, d.ID, 7))
}

func TestInteractions_Rating(t *testing.T) {
	svc, _ := newTestServices(t, Deps{})
	ctx := context.Background()
	video := mustVideo(t, svc, "v")

	summary, err := svc.Interactions.AverageRating(ctx, video.ID)
	require.NoError(t, err)
	assert.Zero(t, summary.Average)
	assert.Zero(t, summary.Count)

	_, err = svc.Interactions.Rate(ctx, video.ID, 1, 8)
	require.NoError(t, err)
	_, err = svc.Interactions.Rate(ctx, video.ID, 2, 5)
	require.NoError(t, err)

	_, err = svc.Interactions.Rate(ctx, video.ID, 1, 3)
	assert.True(t, IsConflict(err))

	for _, score := range []int{0, 11} {
		_, err = svc.Interactions.Rate(ctx, video.ID, 3, score)
		_, ok := AsValidation(err)
		assert.True(t, ok)
	}

	_, err = svc.Interactions.Rate(ctx, 404, 1, 5)
	assert.True(t, IsNotFound(err))

	summary, err = svc.Interactions.AverageRating(ctx, video.ID)
	require.NoError(t, err)
	assert.InDelta(t, 6.5, summary.Average, 0.001)
	assert.EqualValues(t, 2, summary.Count)
}

func TestInteractions_VideoCache(t *testing.T) {
	svc, _ := newTestServices(t, Deps{})
	ctx := context.Background()
	video := mustVideo(t, svc, "v")

	cache, err := svc.Interactions.CreateVideoCache(ctx, video.ID, VideoCacheInput{Quality: "720p", FilePath: "cache/1.mp4", FileSize: 1024})
	require.NoError(t, err)

	_, err = svc.Interactions.CreateVideoCache(ctx, video.ID, VideoCacheInput{Quality: "720p", FilePath: "cache/2.mp4"})
	assert.True(t, IsConflict(err))

	_, err = svc.Interactions.CreateVideoCache(ctx, video.ID, VideoCacheInput{Quality: "4k", FilePath: "cache/3.mp4"})
	_, ok := AsValidation(err)
	assert.True(t, ok)

	caches, err := svc.Interactions.ListVideoCaches(ctx, video.ID)
	require.NoError(t, err)
	assert.Len(t, caches, 1)

	require.NoError(t, svc.Interactions.DeleteVideoCache(ctx, cache.ID))
	assert.True(t, IsNotFound(svc.Interactions.DeleteVideoCache(ctx, cache.ID)))
}

func TestInteractions_HotSearches(t *testing.T) {
	svc, _ := newTestServices(t, Deps{})
	ctx := context.Background()

	for _, q := range []string{"Naruto", "naruto ", "海贼王"} {
		require.NoError(t, svc.Interactions.RecordSearch(ctx, q))
	}
	require.NoError(t, svc.Interactions.RecordSearch(ctx, "   "))

	hot, err := svc.Interactions.ListHotSearches(ctx, 10)
	require.NoError(t, err)
	require.Len(t, hot, 2)
	assert.Equal(t, "naruto", hot[0].Keyword)
	assert.Equal(t, 2, hot[0].SearchCount)
}
