package services

import (
	"context"
	"fmt"
	"testing"

	"mediacms/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListing_Pagination(t *testing.T) {
	svc, _ := newTestServices(t, Deps{})
	ctx := context.Background()

	for i := 0; i < 45; i++ {
		mustVideo(t, svc, fmt.Sprintf("video %02d", i))
	}

	first, err := svc.Listing.ListVideos(ctx, VideoFilter{}, SortNewest, 1, 20)
	require.NoError(t, err)
	assert.Len(t, first.List, 20)
	assert.Equal(t, 1, first.Page)

	page, err := svc.Listing.ListVideos(ctx, VideoFilter{}, SortNewest, 3, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 45, page.Total)
	assert.Equal(t, 3, page.TotalPages)
	assert.Len(t, page.List, 5)

	beyond, err := svc.Listing.ListVideos(ctx, VideoFilter{}, SortNewest, 4, 20)
	require.NoError(t, err)
	assert.Empty(t, beyond.List)
	assert.EqualValues(t, 45, beyond.Total)
}

func TestListing_RootCategoryNewest(t *testing.T) {
	svc, _ := newTestServices(t, Deps{})
	ctx := context.Background()

	movies := mustCategory(t, svc, CategoryInput{Name: "电影", Slug: "movies", IsRoot: true})
	mustVideo(t, svc, "other")
	x, err := svc.Videos.CreateVideo(ctx, VideoInput{Title: "X", IsActive: boolPtr(true)})
	require.NoError(t, err)
	require.NoError(t, svc.Videos.AttachCategories(ctx, x.ID, []uint{movies.ID}))

	page, err := svc.Listing.ListVideos(ctx, VideoFilter{CategoryID: &movies.ID}, ParseSort("newest"), 1, 20)
	require.NoError(t, err)
	require.NotEmpty(t, page.List)
	assert.Equal(t, x.ID, page.List[0].ID)
	assert.Equal(t, "X", page.List[0].Title)
	assert.Len(t, page.List, 1)
}

func TestListing_Filters(t *testing.T) {
	svc, db := newTestServices(t, Deps{})
	ctx := context.Background()

	cat := mustCategory(t, svc, CategoryInput{Name: "动作", Slug: "action"})
	tag, err := svc.Taxonomy.CreateTag(ctx, TagInput{Name: "经典", Slug: "classic"})
	require.NoError(t, err)

	inCat := mustVideo(t, svc, "Die Hard")
	both := mustVideo(t, svc, "Heat")
	mustVideo(t, svc, "Amelie")
	hidden := mustVideo(t, svc, "Hidden Action")

	require.NoError(t, svc.Videos.AttachCategories(ctx, inCat.ID, []uint{cat.ID}))
	require.NoError(t, svc.Videos.AttachCategories(ctx, both.ID, []uint{cat.ID}))
	require.NoError(t, svc.Videos.AttachCategories(ctx, hidden.ID, []uint{cat.ID}))
	require.NoError(t, svc.Videos.AttachTags(ctx, both.ID, []uint{tag.ID}))
	require.NoError(t, svc.Videos.Deactivate(ctx, hidden.ID))

	// 重复关联不报错
	require.NoError(t, svc.Videos.AttachCategories(ctx, inCat.ID, []uint{cat.ID}))

	byCat, err := svc.Listing.ListVideos(ctx, VideoFilter{CategoryID: &cat.ID}, SortNewest, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, byCat.Total)

	byBoth, err := svc.Listing.ListVideos(ctx, VideoFilter{CategoryID: &cat.ID, TagID: &tag.ID}, SortNewest, 1, 20)
	require.NoError(t, err)
	require.Len(t, byBoth.List, 1)
	assert.Equal(t, both.ID, byBoth.List[0].ID)

	keyword := "die"
	byKeyword, err := svc.Listing.ListVideos(ctx, VideoFilter{Keyword: &keyword}, SortNewest, 1, 20)
	require.NoError(t, err)
	require.Len(t, byKeyword.List, 1)
	assert.Equal(t, inCat.ID, byKeyword.List[0].ID)

	wildcard := "%"
	escaped, err := svc.Listing.ListVideos(ctx, VideoFilter{Keyword: &wildcard}, SortNewest, 1, 20)
	require.NoError(t, err)
	assert.Empty(t, escaped.List)

	require.NoError(t, db.Model(&models.Video{}).Where("id = ?", inCat.ID).Update("play_count", 50).Error)
	popular, err := svc.Listing.ListVideos(ctx, VideoFilter{}, SortPopular, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, inCat.ID, popular.List[0].ID)
}

func TestListing_Search(t *testing.T) {
	svc, _ := newTestServices(t, Deps{})
	ctx := context.Background()

	mustVideo(t, svc, "海贼王 第一季")
	_, err := svc.Videos.CreateVideo(ctx, VideoInput{Title: "冒险", Description: "关于海贼王的纪录片"})
	require.NoError(t, err)

	empty, err := svc.Listing.Search(ctx, "  ", 1, 20)
	require.NoError(t, err)
	assert.Empty(t, empty.List)
	assert.Zero(t, empty.Total)

	result, err := svc.Listing.Search(ctx, "海贼王", 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, result.Total)

	hot, err := svc.Interactions.ListHotSearches(ctx, 10)
	require.NoError(t, err)
	require.Len(t, hot, 1)
	assert.Equal(t, "海贼王", hot[0].Keyword)
}

func TestParseSort(t *testing.T) {
	assert.Equal(t, SortPopular, ParseSort("popular"))
	assert.Equal(t, SortPopular, ParseSort("-play_count"))
	assert.Equal(t, SortNewest, ParseSort(""))
	assert.Equal(t, SortNewest, ParseSort("rating"))
}

func TestChannel_HomePage(t *testing.T) {
	svc, db := newTestServices(t, Deps{})
	ctx := context.Background()

	root := mustCategory(t, svc, CategoryInput{Name: "电影", Slug: "movies", IsRoot: true})
	mustCategory(t, svc, CategoryInput{Name: "动作", Slug: "action", ParentID: &root.ID})

	var videos []*models.Video
	for i := 0; i < 14; i++ {
		videos = append(videos, mustVideo(t, svc, fmt.Sprintf("video %02d", i)))
	}
	popular := videos[3]
	require.NoError(t, db.Model(popular).Update("play_count", 100).Error)

	home, err := svc.Channels.GetHomePage(ctx)
	require.NoError(t, err)

	require.Len(t, home.Categories, 1)
	assert.Len(t, home.Categories[0].Children, 1)

	require.Len(t, home.LatestVideos, 12)
	assert.Equal(t, videos[13].ID, home.LatestVideos[0].ID)
	require.Len(t, home.HotVideos, 12)
	assert.Equal(t, popular.ID, home.HotVideos[0].ID)
}
