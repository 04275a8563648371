package routes

import (
	"mediacms/handles"
	"mediacms/middleware"
	"mediacms/services"

	"github.com/gin-gonic/gin"
)

// Options 路由需要的配置
type Options struct {
	AdminToken   string
	SourceConfig string
}

// SetupRoutes 设置路由
func SetupRoutes(r *gin.Engine, svc *services.Services, opts Options) {
	categoryHandler := handles.NewCategoryHandler(svc.Taxonomy)
	videoHandler := handles.NewVideoHandler(svc)
	interactionHandler := handles.NewInteractionHandler(svc)
	listingHandler := handles.NewListingHandler(svc)
	musicHandler := handles.NewMusicHandler(svc.Music)
	publishHandler := handles.NewPublishHandler(svc.Publish)
	sourceHandler := handles.NewSourceHandler(svc, opts.SourceConfig)
	collectionHandler := handles.NewCollectionHandler(svc.Import)

	// ============ 公开API ============
	public := r.Group("/api")
	{
		public.GET("/health", healthCheck)
		public.GET("/home", listingHandler.GetHome)

		// 视频
		public.GET("/videos", videoHandler.GetVideos)
		public.GET("/videos/:id", videoHandler.GetVideoByID)
		public.GET("/videos/:id/renditions", videoHandler.GetRenditions)
		public.GET("/videos/:id/episodes", videoHandler.GetEpisodes)
		public.GET("/videos/:id/series", videoHandler.GetSeriesEpisodes)
		public.GET("/videos/:id/images", videoHandler.GetImages)

		// 互动
		public.GET("/videos/:id/comments", interactionHandler.GetComments)
		public.GET("/comments/:id/replies", interactionHandler.GetReplies)
		public.GET("/videos/:id/danmaku", interactionHandler.GetDanmaku)
		public.GET("/videos/:id/rating", interactionHandler.GetRating)

		// 搜索
		public.GET("/search", listingHandler.Search)
		public.GET("/hot-searches", interactionHandler.GetHotSearches)

		// 分类和标签
		public.GET("/categories", categoryHandler.GetRootCategories)
		public.GET("/categories/type/:category_type", categoryHandler.GetCategoryTree)
		public.GET("/categories/:id/children", categoryHandler.GetChildren)
		public.GET("/category/:slug", listingHandler.GetCategoryListing)
		public.GET("/channel/:slug", listingHandler.GetChannel)
		public.GET("/channel/:slug/:sub", listingHandler.GetSubcategory)
		public.GET("/tags", categoryHandler.GetTags)

		// 音乐
		public.GET("/music", musicHandler.GetMusic)
		public.GET("/music/albums", musicHandler.GetAlbums)
		public.GET("/music/albums/:id", musicHandler.GetAlbum)
		public.GET("/music/playlists", musicHandler.GetPlaylists)
		public.GET("/music/playlists/:id", musicHandler.GetPlaylist)
	}

	// ============ 用户API（需要用户身份）============
	user := r.Group("/api")
	user.Use(middleware.UserIdentity())
	{
		user.POST("/publish/content", publishHandler.PublishContent)
		user.POST("/publish/video", publishHandler.PublishVideo)
		user.POST("/publish/movie", publishHandler.PublishMovie)

		user.POST("/videos/:id/comments", interactionHandler.CreateComment)
		user.POST("/videos/:id/danmaku", interactionHandler.CreateDanmaku)
		user.DELETE("/danmaku/:id", interactionHandler.DeleteDanmaku)
		user.POST("/videos/:id/rating", interactionHandler.Rate)
		user.POST("/videos/:id/play", videoHandler.Play)
	}

	// ============ 管理员API（需要认证）============
	admin := r.Group("/api/admin")
	admin.Use(middleware.AdminAuth(opts.AdminToken))
	{
		// 【分类和标签】
		admin.POST("/categories", categoryHandler.CreateCategory)
		admin.PUT("/categories/:id/parent", categoryHandler.SetParent)
		admin.POST("/categories/:id/deactivate", categoryHandler.DeactivateCategory)
		admin.DELETE("/categories/:id", categoryHandler.DeleteCategory)
		admin.POST("/tag-categories", categoryHandler.CreateTagCategory)
		admin.DELETE("/tag-categories/:id", categoryHandler.DeleteTagCategory)
		admin.POST("/tags", categoryHandler.CreateTag)
		admin.DELETE("/tags/:id", categoryHandler.DeleteTag)

		// 【视频】
		admin.POST("/videos", videoHandler.CreateVideo)
		admin.POST("/videos/:id/categories", videoHandler.AttachCategories)
		admin.POST("/videos/:id/tags", videoHandler.AttachTags)
		admin.POST("/videos/:id/cast", videoHandler.AttachCast)
		admin.POST("/videos/:id/deactivate", videoHandler.DeactivateVideo)
		admin.DELETE("/videos/:id", videoHandler.PurgeVideo)
		admin.POST("/videos/:id/media", videoHandler.AttachMedia)
		admin.POST("/videos/:id/images", videoHandler.AddImage)
		admin.POST("/videos/:id/series", videoHandler.AddSeriesEpisode)
		admin.POST("/cast/process", videoHandler.ProcessCast)

		// 【缓存和编码】
		admin.GET("/videos/:id/caches", interactionHandler.GetVideoCaches)
		admin.POST("/videos/:id/caches", interactionHandler.CreateVideoCache)
		admin.DELETE("/caches/:id", interactionHandler.DeleteVideoCache)
		admin.GET("/encode-profiles", videoHandler.GetEncodeProfiles)
		admin.POST("/encode-profiles", videoHandler.CreateEncodeProfile)
		admin.POST("/encodings", videoHandler.CreateEncoding)
		admin.PUT("/encodings/:id", videoHandler.UpdateEncoding)

		// 【评论审核】
		admin.DELETE("/comments/:id", interactionHandler.DeleteComment)
		admin.PUT("/comments/:id/approve", interactionHandler.ApproveComment)

		// 【音乐】
		admin.POST("/music", musicHandler.CreateMusic)
		admin.DELETE("/music/:id", musicHandler.DeleteMusic)
		admin.POST("/music/albums", musicHandler.CreateAlbum)
		admin.DELETE("/music/albums/:id", musicHandler.DeleteAlbum)
		admin.POST("/music/playlists", musicHandler.CreatePlaylist)
		admin.DELETE("/music/playlists/:id", musicHandler.DeletePlaylist)
		admin.POST("/music/playlists/:id/tracks", musicHandler.AddToPlaylist)
		admin.DELETE("/music/playlists/:id/tracks/:music_id", musicHandler.RemoveFromPlaylist)

		// 【数据源管理】
		admin.GET("/sources", sourceHandler.GetSources)
		admin.POST("/sources", sourceHandler.CreateSource)
		admin.POST("/sources/sync", sourceHandler.SyncSources)
		admin.PUT("/sources/:key", sourceHandler.UpdateSource)
		admin.DELETE("/sources/:key", sourceHandler.DeleteSource)
		admin.GET("/sources/:key/categories", sourceHandler.DiscoverCategories)
		admin.PUT("/sources/:key/category-map", sourceHandler.MapCategories)
		admin.POST("/sources/:key/auto-map", sourceHandler.AutoMapCategories)

		// 【采集管理】
		admin.POST("/collect", collectionHandler.CollectVideos)
		admin.GET("/collection-logs", collectionHandler.GetCollectionLogs)
		admin.POST("/import", collectionHandler.ImportJSON)
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":  "ok",
		"message": "Server is running",
	})
}
