package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"mediacms/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSourceConfig(t *testing.T) {
	sources, err := LoadSourceConfig(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSources(), sources)

	path := filepath.Join(t.TempDir(), "sources.json")
	content := `{"sources":[{"name":"A","key":"a","base_url":"http://a","enabled":true,"category_map":{"1":"movie"}}]}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	sources, err = LoadSourceConfig(path)
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, "movie", sources[0].CategoryMap["1"])
}

func TestSources_Sync(t *testing.T) {
	svc, _ := newTestServices(t, Deps{})
	ctx := context.Background()

	configs := []SourceConfig{
		{Name: "A", Key: "a", BaseURL: "http://a", Enabled: true, CategoryMap: map[string]string{"1": "movie"}},
		{Name: "B", Key: "b", BaseURL: "http://b", Enabled: false},
	}
	created, updated, err := svc.Sources.SyncSources(ctx, configs)
	require.NoError(t, err)
	assert.Equal(t, 2, created)
	assert.Zero(t, updated)

	configs[1].Enabled = true
	configs[1].Name = "B2"
	created, updated, err = svc.Sources.SyncSources(ctx, configs)
	require.NoError(t, err)
	assert.Zero(t, created)
	assert.Equal(t, 2, updated)

	b, err := svc.Sources.GetByKey(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "B2", b.Name)
	assert.True(t, b.IsActive)

	a, err := svc.Sources.GetByKey(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"1": "movie"}, CategoryMap(a))

	_, _, err = svc.Sources.SyncSources(ctx, []SourceConfig{{Name: "no key"}})
	_, ok := AsValidation(err)
	assert.True(t, ok)
}

func TestSources_CRUD(t *testing.T) {
	svc, _ := newTestServices(t, Deps{})
	ctx := context.Background()

	_, err := svc.Sources.CreateSource(ctx, SourceInput{Name: "A", Key: "a", SourceType: "ftp"})
	_, ok := AsValidation(err)
	assert.True(t, ok)

	source, err := svc.Sources.CreateSource(ctx, SourceInput{Name: "A", Key: "a"})
	require.NoError(t, err)
	assert.Equal(t, models.SourceTypeOther, source.SourceType)
	assert.True(t, source.IsActive)

	_, err = svc.Sources.CreateSource(ctx, SourceInput{Name: "A", Key: "a"})
	assert.True(t, IsConflict(err))

	updated, err := svc.Sources.UpdateSource(ctx, "a", SourceInput{BaseURL: "http://new", APIKey: strPtr("secret")})
	require.NoError(t, err)
	assert.Equal(t, "http://new", updated.BaseURL)
	assert.Equal(t, "secret", updated.APIKey)
	assert.Equal(t, "A", updated.Name)

	active, err := svc.Sources.ListSources(ctx, true)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	require.NoError(t, svc.Sources.DeleteSource(ctx, "a"))
	assert.True(t, IsNotFound(svc.Sources.DeleteSource(ctx, "a")))
	_, err = svc.Sources.UpdateSource(ctx, "a", SourceInput{Name: "x"})
	assert.True(t, IsNotFound(err))
}

func TestSuggestCategory(t *testing.T) {
	categories := []models.Category{
		{Name: "电影", Slug: "movie"},
		{Name: "动作", Slug: "action", Keywords: "武侠, 功夫"},
		{Name: "动漫", Slug: "anime", Keywords: "动画|番剧"},
	}

	cases := []struct {
		typeName   string
		slug       string
		confidence string
	}{
		{"电影", "movie", ConfidenceHigh},
		{"动作片", "action", ConfidenceMedium},
		{"国产动画", "anime", ConfidenceMedium},
		{"武侠剧", "action", ConfidenceMedium},
		{"体育", "", ConfidenceLow},
		{"", "", ConfidenceLow},
	}
	for _, tc := range cases {
		t.Run(tc.typeName, func(t *testing.T) {
			got, confidence := suggestCategory(tc.typeName, categories)
			assert.Equal(t, tc.confidence, confidence)
			if tc.slug == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tc.slug, got.Slug)
		})
	}
}

func TestSources_MapCategories(t *testing.T) {
	svc, _ := newTestServices(t, Deps{})
	ctx := context.Background()
	mustCategory(t, svc, CategoryInput{Name: "电影", Slug: "movie"})
	mustCategory(t, svc, CategoryInput{Name: "剧集", Slug: "tv"})
	_, err := svc.Sources.CreateSource(ctx, SourceInput{Name: "A", Key: "a", CategoryMap: map[string]string{"5": "movie"}})
	require.NoError(t, err)

	source, err := svc.Sources.MapCategories(ctx, "a", map[string]string{"1": "movie", "2": "tv"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"1": "movie", "2": "tv", "5": "movie"}, CategoryMap(source))

	source, err = svc.Sources.MapCategories(ctx, "a", map[string]string{"5": ""})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"1": "movie", "2": "tv"}, CategoryMap(source))

	_, err = svc.Sources.MapCategories(ctx, "a", map[string]string{"3": "nope"})
	_, ok := AsValidation(err)
	assert.True(t, ok)

	_, err = svc.Sources.MapCategories(ctx, "missing", map[string]string{})
	assert.True(t, IsNotFound(err))
}

func TestImport_DiscoverAndAutoMap(t *testing.T) {
	var requests int32
	server := appleCMSServer(t, &requests)
	defer server.Close()

	svc, _ := newTestServices(t, Deps{})
	ctx := context.Background()
	mustCategory(t, svc, CategoryInput{Name: "电影", Slug: "movie"})
	mustCategory(t, svc, CategoryInput{Name: "动作", Slug: "action"})
	newImportSource(t, svc, server.URL, map[string]string{"1": "movie"})

	discovery, err := svc.Import.DiscoverCategories(ctx, "test")
	require.NoError(t, err)
	require.Len(t, discovery.Categories, 3)
	assert.Equal(t, 1, discovery.MappedCount)
	assert.Equal(t, 2, discovery.UnmappedCount)

	first := discovery.Categories[0]
	assert.Equal(t, 1, first.TypeID)
	assert.True(t, first.Mapped)

	action := discovery.Categories[1]
	assert.Equal(t, "action", action.SuggestedSlug)
	assert.Equal(t, ConfidenceMedium, action.Confidence)
	assert.Equal(t, ConfidenceLow, discovery.Categories[2].Confidence)

	_, err = svc.Import.AutoMapCategories(ctx, "test", "certain")
	_, ok := AsValidation(err)
	assert.True(t, ok)

	applied, err := svc.Import.AutoMapCategories(ctx, "test", ConfidenceHigh)
	require.NoError(t, err)
	assert.Empty(t, applied)

	applied, err = svc.Import.AutoMapCategories(ctx, "test", "")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"2": "action"}, applied)

	source, err := svc.Sources.GetByKey(ctx, "test")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"1": "movie", "2": "action"}, CategoryMap(source))
}
