package services

import (
	"context"
	"testing"

	"mediacms/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingMenuCache struct {
	data        map[string][]models.Category
	invalidated int
}

func (c *countingMenuCache) Get(_ context.Context, key string) ([]models.Category, bool) {
	v, ok := c.data[key]
	return v, ok
}

func (c *countingMenuCache) Set(_ context.Context, key string, categories []models.Category) {
	c.data[key] = categories
}

func (c *countingMenuCache) Invalidate(context.Context) {
	c.invalidated++
	c.data = map[string][]models.Category{}
}

func TestTaxonomy_GetChildren(t *testing.T) {
	svc, _ := newTestServices(t, Deps{})
	ctx := context.Background()

	root := mustCategory(t, svc, CategoryInput{Name: "电影", Slug: "movie", IsRoot: true})
	second := mustCategory(t, svc, CategoryInput{Name: "喜剧", Slug: "comedy", ParentID: &root.ID, Order: 2})
	first := mustCategory(t, svc, CategoryInput{Name: "动作", Slug: "action", ParentID: &root.ID, Order: 1})
	mustCategory(t, svc, CategoryInput{Name: "已停用", Slug: "off", ParentID: &root.ID, IsActive: boolPtr(false)})

	children, err := svc.Taxonomy.GetChildren(ctx, root.ID)
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, first.ID, children[0].ID)
	assert.Equal(t, second.ID, children[1].ID)

	t.Run("missing category returns empty list", func(t *testing.T) {
		children, err := svc.Taxonomy.GetChildren(ctx, 9999)
		require.NoError(t, err)
		assert.Empty(t, children)
	})
}

func TestTaxonomy_GetRootCategories(t *testing.T) {
	cache := &countingMenuCache{data: map[string][]models.Category{}}
	svc, _ := newTestServices(t, Deps{MenuCache: cache})
	ctx := context.Background()

	root := mustCategory(t, svc, CategoryInput{Name: "电视剧", Slug: "tv", IsRoot: true, CategoryType: "tv"})
	mustCategory(t, svc, CategoryInput{Name: "隐藏", Slug: "hidden", ShowInMenu: boolPtr(false)})
	mustCategory(t, svc, CategoryInput{Name: "子分类", Slug: "sub", ParentID: &root.ID})

	roots, err := svc.Taxonomy.GetRootCategories(ctx, "", "")
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.Equal(t, "tv", roots[0].Slug)

	// 第二次命中缓存
	_, ok := cache.Get(ctx, "|")
	assert.True(t, ok)

	byType, err := svc.Taxonomy.GetRootCategories(ctx, "", "movie")
	require.NoError(t, err)
	assert.Empty(t, byType)

	invalidatedBefore := cache.invalidated
	mustCategory(t, svc, CategoryInput{Name: "综艺", Slug: "variety"})
	assert.Equal(t, invalidatedBefore+1, cache.invalidated)

	roots, err = svc.Taxonomy.GetRootCategories(ctx, "", "")
	require.NoError(t, err)
	assert.Len(t, roots, 2)
}

func TestTaxonomy_CreateCategory_Validation(t *testing.T) {
	svc, _ := newTestServices(t, Deps{})
	ctx := context.Background()

	_, err := svc.Taxonomy.CreateCategory(ctx, CategoryInput{Name: " ", Slug: "x"})
	_, ok := AsValidation(err)
	assert.True(t, ok)

	_, err = svc.Taxonomy.CreateCategory(ctx, CategoryInput{Name: "a", Slug: "a", ParentID: uintPtr(42)})
	_, ok = AsValidation(err)
	assert.True(t, ok, "unknown parent must be rejected")

	created := mustCategory(t, svc, CategoryInput{Name: "a", Slug: "a"})
	assert.True(t, created.IsActive)
	assert.True(t, created.ShowInMenu)
	assert.Equal(t, models.MediaTypeVideo, created.MediaType)

	_, err = svc.Taxonomy.CreateCategory(ctx, CategoryInput{Name: "b", Slug: "a"})
	assert.True(t, IsConflict(err))
}

func TestTaxonomy_SetParent_RejectsCycle(t *testing.T) {
	svc, _ := newTestServices(t, Deps{})
	ctx := context.Background()

	a := mustCategory(t, svc, CategoryInput{Name: "A", Slug: "a"})
	b := mustCategory(t, svc, CategoryInput{Name: "B", Slug: "b", ParentID: &a.ID})
	c := mustCategory(t, svc, CategoryInput{Name: "C", Slug: "c", ParentID: &b.ID})

	err := svc.Taxonomy.SetParent(ctx, a.ID, &c.ID)
	_, ok := AsValidation(err)
	assert.True(t, ok)

	err = svc.Taxonomy.SetParent(ctx, a.ID, &a.ID)
	_, ok = AsValidation(err)
	assert.True(t, ok)

	require.NoError(t, svc.Taxonomy.SetParent(ctx, c.ID, &a.ID))
	got, err := svc.Taxonomy.GetCategory(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, *got.ParentID)

	require.NoError(t, svc.Taxonomy.SetParent(ctx, c.ID, nil))
	got, err = svc.Taxonomy.GetCategory(ctx, c.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ParentID)

	assert.True(t, IsNotFound(svc.Taxonomy.SetParent(ctx, 999, nil)))
}

func TestTaxonomy_DeleteCategory_OrphansChildren(t *testing.T) {
	svc, db := newTestServices(t, Deps{})
	ctx := context.Background()

	parent := mustCategory(t, svc, CategoryInput{Name: "P", Slug: "p"})
	child := mustCategory(t, svc, CategoryInput{Name: "C", Slug: "c", ParentID: &parent.ID})
	video := mustVideo(t, svc, "v")
	require.NoError(t, svc.Videos.AttachCategories(ctx, video.ID, []uint{parent.ID}))

	require.NoError(t, svc.Taxonomy.DeleteCategory(ctx, parent.ID))

	got, err := svc.Taxonomy.GetCategory(ctx, child.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ParentID)

	var links int64
	require.NoError(t, db.Model(&models.VideoCategory{}).Where("category_id = ?", parent.ID).Count(&links).Error)
	assert.Zero(t, links)

	assert.True(t, IsNotFound(svc.Taxonomy.DeleteCategory(ctx, parent.ID)))
}

func TestTaxonomy_GetCategoryTree(t *testing.T) {
	svc, _ := newTestServices(t, Deps{})
	ctx := context.Background()

	movie := mustCategory(t, svc, CategoryInput{Name: "电影", Slug: "movie", CategoryType: "movie"})
	mustCategory(t, svc, CategoryInput{Name: "动作", Slug: "action", CategoryType: "movie", ParentID: &movie.ID})
	mustCategory(t, svc, CategoryInput{Name: "动漫", Slug: "anime", CategoryType: "anime"})

	tree, err := svc.Taxonomy.GetCategoryTree(ctx, "movie")
	require.NoError(t, err)
	require.Len(t, tree, 1)
	assert.Equal(t, "movie", tree[0].Slug)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, "action", tree[0].Children[0].Slug)

	all, err := svc.Taxonomy.GetCategoryTree(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestTaxonomy_Tags(t *testing.T) {
	svc, db := newTestServices(t, Deps{})
	ctx := context.Background()

	group, err := svc.Taxonomy.CreateTagCategory(ctx, TagCategoryInput{Name: "风格"})
	require.NoError(t, err)

	tag, err := svc.Taxonomy.CreateTag(ctx, TagInput{Name: "热血", Slug: "hot", TagCategoryID: &group.ID})
	require.NoError(t, err)

	_, err = svc.Taxonomy.CreateTag(ctx, TagInput{Name: "x", Slug: "x", TagCategoryID: uintPtr(404)})
	_, ok := AsValidation(err)
	assert.True(t, ok)

	tags, err := svc.Taxonomy.ListTags(ctx, &group.ID)
	require.NoError(t, err)
	require.Len(t, tags, 1)

	require.NoError(t, svc.Taxonomy.DeleteTagCategory(ctx, group.ID))
	var reloaded models.Tag
	require.NoError(t, db.First(&reloaded, tag.ID).Error)
	assert.Nil(t, reloaded.TagCategoryID)

	video := mustVideo(t, svc, "v")
	require.NoError(t, svc.Videos.AttachTags(ctx, video.ID, []uint{tag.ID}))
	require.NoError(t, svc.Taxonomy.DeleteTag(ctx, tag.ID))

	var links int64
	require.NoError(t, db.Model(&models.VideoTag{}).Count(&links).Error)
	assert.Zero(t, links)
}

func TestTaxonomy_WritesInvalidateMenuCache(t *testing.T) {
	cache := &countingMenuCache{data: map[string][]models.Category{}}
	svc, _ := newTestServices(t, Deps{MenuCache: cache})
	ctx := context.Background()

	root := mustCategory(t, svc, CategoryInput{Name: "电影", Slug: "movie"})
	assert.Equal(t, 1, cache.invalidated, "CreateCategory")

	child := mustCategory(t, svc, CategoryInput{Name: "动作", Slug: "action"})
	assert.Equal(t, 2, cache.invalidated)

	_, err := svc.Taxonomy.GetRootCategories(ctx, "", "")
	require.NoError(t, err)
	require.NotEmpty(t, cache.data)

	require.NoError(t, svc.Taxonomy.SetParent(ctx, child.ID, &root.ID))
	assert.Equal(t, 3, cache.invalidated, "SetParent")
	assert.Empty(t, cache.data)

	require.NoError(t, svc.Taxonomy.DeactivateCategory(ctx, child.ID))
	assert.Equal(t, 4, cache.invalidated, "DeactivateCategory")

	require.NoError(t, svc.Taxonomy.DeleteCategory(ctx, root.ID))
	assert.Equal(t, 5, cache.invalidated, "DeleteCategory")

	t.Run("failed writes keep the cache", func(t *testing.T) {
		_, err := svc.Taxonomy.CreateCategory(ctx, CategoryInput{Name: "动作", Slug: "action"})
		assert.True(t, IsConflict(err))
		assert.Error(t, svc.Taxonomy.SetParent(ctx, child.ID, &child.ID))
		assert.True(t, IsNotFound(svc.Taxonomy.DeleteCategory(ctx, root.ID)))
		assert.Equal(t, 5, cache.invalidated)
	})
}
