package handles

import (
	"mediacms/services"
	"mediacms/utils"

	"github.com/gin-gonic/gin"
)

// ListingHandler 搜索、首页、频道和分类页
type ListingHandler struct {
	listing  *services.ListingService
	channels *services.ChannelService
}

// NewListingHandler 创建列表处理器
func NewListingHandler(svc *services.Services) *ListingHandler {
	return &ListingHandler{listing: svc.Listing, channels: svc.Channels}
}

// Search 搜索，空关键词返回空列表
// GET /api/search?q=xx&page=1
func (h *ListingHandler) Search(c *gin.Context) {
	result, err := h.listing.Search(c.Request.Context(), c.Query("q"), utils.GetPage(c), utils.GetPageSize(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, gin.H{
		"query":  c.Query("q"),
		"videos": result,
	})
}

// GetHome 首页
// GET /api/home
func (h *ListingHandler) GetHome(c *gin.Context) {
	home, err := h.channels.GetHomePage(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, home)
}

// GetChannel 频道页；discover 频道的第二段是子分类过滤
// GET /api/channel/:slug
func (h *ListingHandler) GetChannel(c *gin.Context) {
	channel, err := h.channels.GetChannel(c.Request.Context(), c.Param("slug"), c.Query("sub"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, channel)
}

// GetSubcategory 二级类目页，discover 频道返回过滤后的频道页
// GET /api/channel/:slug/:sub?sort=popular&page=1
func (h *ListingHandler) GetSubcategory(c *gin.Context) {
	slug, sub := c.Param("slug"), c.Param("sub")
	if slug == services.DiscoverSlug {
		channel, err := h.channels.GetChannel(c.Request.Context(), slug, sub)
		if err != nil {
			respondError(c, err)
			return
		}
		utils.Success(c, channel)
		return
	}

	listing, err := h.channels.GetSubcategoryListing(c.Request.Context(), slug, sub,
		services.ParseSort(c.Query("sort")), utils.GetPage(c), utils.GetPageSize(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, listing)
}

// GetCategoryListing 分类页
// GET /api/category/:slug?page=1
func (h *ListingHandler) GetCategoryListing(c *gin.Context) {
	listing, err := h.channels.GetCategoryListing(c.Request.Context(), c.Param("slug"), utils.GetPage(c), utils.GetPageSize(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, listing)
}
