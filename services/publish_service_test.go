package services

import (
	"context"
	"testing"

	"mediacms/models"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestPublish_Content(t *testing.T) {
	storage := newMemStorage()
	svc, db := newTestServices(t, Deps{Storage: storage})
	ctx := context.Background()
	cat := mustCategory(t, svc, CategoryInput{Name: "生活", Slug: "life"})

	video, err := svc.Publish.PublishContent(ctx, PublishContentInput{
		Content:    "今天去爬山了",
		CategoryID: cat.ID,
		UserID:     42,
		Files: []UploadFile{
			uploadOf("a.jpg", "image/jpeg", 1024),
			uploadOf("b.mp4", "video/mp4", 2048),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "今天去爬山了", video.Title)
	assert.Equal(t, uint(42), video.CreatedBy)
	assert.Equal(t, models.VideoStatusDraft, video.Status)
	assert.Len(t, storage.files, 2)
	assert.EqualValues(t, 2, countRows(t, db, &models.VideoMediaFile{}))

	renditions, err := svc.Media.ListRenditions(ctx, video.ID, RenditionFilter{})
	require.NoError(t, err)
	require.Len(t, renditions, 1)
	assert.Equal(t, "image", renditions[0].MediaType)
}

func TestPublish_ContentTooLarge(t *testing.T) {
	storage := newMemStorage()
	svc, db := newTestServices(t, Deps{Storage: storage})
	ctx := context.Background()
	cat := mustCategory(t, svc, CategoryInput{Name: "生活", Slug: "life"})

	_, err := svc.Publish.PublishContent(ctx, PublishContentInput{
		Content:    "big",
		CategoryID: cat.ID,
		UserID:     1,
		Files:      []UploadFile{uploadOf("big.mp4", "video/mp4", 150*humanize.MiByte)},
	})
	_, ok := AsValidation(err)
	require.True(t, ok)

	assert.Empty(t, storage.files)
	assert.Zero(t, countRows(t, db, &models.Video{}))
	assert.Zero(t, countRows(t, db, &models.VideoMedia{}))
}

func TestPublish_ContentValidation(t *testing.T) {
	svc, db := newTestServices(t, Deps{})
	ctx := context.Background()
	cat := mustCategory(t, svc, CategoryInput{Name: "生活", Slug: "life"})

	cases := []PublishContentInput{
		{Content: "", CategoryID: cat.ID, Files: []UploadFile{uploadOf("a.jpg", "image/jpeg", 1)}},
		{Content: "x", CategoryID: cat.ID},
		{Content: "x", CategoryID: cat.ID, Files: []UploadFile{uploadOf("a.pdf", "application/pdf", 1)}},
		{Content: "x", CategoryID: 999, Files: []UploadFile{uploadOf("a.jpg", "image/jpeg", 1)}},
	}
	for _, in := range cases {
		_, err := svc.Publish.PublishContent(ctx, in)
		_, ok := AsValidation(err)
		assert.True(t, ok)
	}
	assert.Zero(t, countRows(t, db, &models.Video{}))
}

func TestPublish_VideoStorageFailure(t *testing.T) {
	storage := newMemStorage()
	storage.saveErr = errors.New("disk full")
	svc, db := newTestServices(t, Deps{Storage: storage})
	ctx := context.Background()
	cat := mustCategory(t, svc, CategoryInput{Name: "短片", Slug: "shorts"})

	file := uploadOf("clip.mp4", "video/mp4", 10)
	_, err := svc.Publish.PublishVideo(ctx, PublishVideoInput{Title: "clip", CategoryID: cat.ID, UserID: 1, File: &file})
	require.Error(t, err)
	assert.Zero(t, countRows(t, db, &models.Video{}))
}

func TestPublish_Video(t *testing.T) {
	svc, _ := newTestServices(t, Deps{})
	ctx := context.Background()
	cat := mustCategory(t, svc, CategoryInput{Name: "短片", Slug: "shorts"})

	image := uploadOf("a.png", "image/png", 10)
	_, err := svc.Publish.PublishVideo(ctx, PublishVideoInput{Title: "clip", CategoryID: cat.ID, UserID: 1, File: &image})
	_, ok := AsValidation(err)
	assert.True(t, ok, "images are not accepted as videos")

	file := uploadOf("clip.mp4", "video/mp4", 10)
	video, err := svc.Publish.PublishVideo(ctx, PublishVideoInput{Title: "clip", CategoryID: cat.ID, UserID: 1, File: &file})
	require.NoError(t, err)
	assert.Equal(t, models.VideoTypeShort, video.VideoType)
	assert.Equal(t, models.VideoStatusPublished, video.Status)
}

func TestPublish_Movie(t *testing.T) {
	svc, _ := newTestServices(t, Deps{Describer: failingDescriber{}})
	ctx := context.Background()
	cat := mustCategory(t, svc, CategoryInput{Name: "电影", Slug: "movie"})

	video, err := svc.Publish.PublishMovie(ctx, MovieInput{
		Title:      "无间道",
		CategoryID: cat.ID,
		Actors:     "刘德华，梁朝伟",
		Directors:  "刘伟强,麦兆辉",
		Area:       strPtr("香港"),
		UserID:     3,
	})
	require.NoError(t, err)

	detail, err := svc.Videos.GetVideoDetail(ctx, video.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Actors, 2)
	assert.Len(t, detail.Directors, 2)
	require.Len(t, detail.Categories, 1)
	assert.Equal(t, "movie", detail.Categories[0].Slug)
	assert.Equal(t, "香港", *detail.Area)
}

func TestPublish_MovieRepeatedCastName(t *testing.T) {
	svc, _ := newTestServices(t, Deps{Describer: failingDescriber{}})
	ctx := context.Background()
	cat := mustCategory(t, svc, CategoryInput{Name: "电影", Slug: "movie"})

	video, err := svc.Publish.PublishMovie(ctx, MovieInput{
		Title:      "T",
		CategoryID: cat.ID,
		Actors:     "张三，李四,张三",
		Directors:  "王五,王五",
	})
	require.NoError(t, err)

	actors, directors, err := svc.Cast.ListCredits(ctx, video.ID)
	require.NoError(t, err)
	require.Len(t, actors, 2)
	assert.Equal(t, "张三", actors[0].Name)
	assert.Equal(t, "李四", actors[1].Name)
	assert.Len(t, directors, 1)
}
