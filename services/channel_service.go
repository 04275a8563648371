package services

import (
	"context"

	"mediacms/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// DiscoverSlug 发现频道使用单独的数据结构
const DiscoverSlug = "discover"

const (
	channelVideoLimit  = 12
	discoverVideoLimit = 20
)

// ChannelService 频道页、二级分类页和分类页
type ChannelService struct {
	db       *gorm.DB
	taxonomy *TaxonomyService
	listing  *ListingService
}

// NewChannelService 创建频道服务
func NewChannelService(db *gorm.DB, taxonomy *TaxonomyService, listing *ListingService) *ChannelService {
	return &ChannelService{db: db, taxonomy: taxonomy, listing: listing}
}

// Channel 频道页数据
type Channel struct {
	Category            models.Category   `json:"category"`
	Subcategories       []models.Category `json:"subcategories"`
	LatestVideos        []models.Video    `json:"latest_videos,omitempty"`
	HotVideos           []models.Video    `json:"hot_videos"`
	SelectedSubcategory *models.Category  `json:"selected_subcategory,omitempty"`
}

// rootBySlug 只接受一级类目
func (s *ChannelService) rootBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	err := s.db.WithContext(ctx).Where("slug = ? AND is_root = ?", slug, true).First(&category).Error
	if err != nil {
		return nil, translateDBError(err, "频道 "+slug)
	}
	return &category, nil
}

// GetChannel 频道页：二级类目、最新和热门视频
//
// 发现频道只返回热门视频，subSlug 可以指定一个子分类过滤，找不到时忽略。
func (s *ChannelService) GetChannel(ctx context.Context, slug, subSlug string) (*Channel, error) {
	root, err := s.rootBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	channel := &Channel{Category: *root}

	if slug == DiscoverSlug {
		if channel.Subcategories, err = s.taxonomy.GetChildren(ctx, root.ID); err != nil {
			return nil, err
		}

		var filterID *uint
		if subSlug != "" {
			var sub models.Category
			err := s.db.WithContext(ctx).
				Where("slug = ? AND parent_id = ? AND is_active = ?", subSlug, root.ID, true).
				First(&sub).Error
			switch {
			case err == nil:
				channel.SelectedSubcategory = &sub
				filterID = &sub.ID
			case !errors.Is(err, gorm.ErrRecordNotFound):
				return nil, errors.Wrap(err, "查询子分类失败")
			}
		}

		channel.HotVideos, err = s.listing.ListHotVideos(ctx, filterID, discoverVideoLimit)
		if err != nil {
			return nil, err
		}
		return channel, nil
	}

	channel.Subcategories = []models.Category{}
	err = s.db.WithContext(ctx).
		Where("parent_id = ? AND is_active = ? AND show_in_menu = ?", root.ID, true, true).
		Order("sort_order ASC, id ASC").
		Find(&channel.Subcategories).Error
	if err != nil {
		return nil, errors.Wrap(err, "查询二级类目失败")
	}

	if channel.LatestVideos, err = s.listing.ListLatestVideos(ctx, &root.ID, channelVideoLimit); err != nil {
		return nil, err
	}
	if channel.HotVideos, err = s.listing.ListHotVideos(ctx, &root.ID, channelVideoLimit); err != nil {
		return nil, err
	}
	return channel, nil
}

// SubcategoryListing 二级类目列表页数据
type SubcategoryListing struct {
	Parent   models.Category     `json:"parent_category"`
	Category models.Category     `json:"category"`
	Siblings []models.Category   `json:"sibling_categories"`
	Videos   *Page[models.Video] `json:"videos"`
	Sort     SortKey             `json:"sort"`
}

// GetSubcategoryListing 二级类目下的视频分页，附带同级类目
func (s *ChannelService) GetSubcategoryListing(ctx context.Context, rootSlug, subSlug string, sort SortKey, page, pageSize int) (*SubcategoryListing, error) {
	root, err := s.rootBySlug(ctx, rootSlug)
	if err != nil {
		return nil, err
	}

	var sub models.Category
	err = s.db.WithContext(ctx).
		Where("slug = ? AND parent_id = ? AND show_in_menu = ?", subSlug, root.ID, true).
		First(&sub).Error
	if err != nil {
		return nil, translateDBError(err, "分类 "+subSlug)
	}

	listing := &SubcategoryListing{Parent: *root, Category: sub, Siblings: []models.Category{}, Sort: sort}
	err = s.db.WithContext(ctx).
		Where("parent_id = ? AND show_in_menu = ? AND id <> ?", root.ID, true, sub.ID).
		Order("sort_order ASC, id ASC").
		Find(&listing.Siblings).Error
	if err != nil {
		return nil, errors.Wrap(err, "查询同级类目失败")
	}

	listing.Videos, err = s.listing.ListVideos(ctx, VideoFilter{CategoryID: &sub.ID}, sort, page, pageSize)
	if err != nil {
		return nil, err
	}
	return listing, nil
}

// CategoryListing 分类页数据
type CategoryListing struct {
	Category models.Category     `json:"category"`
	Videos   *Page[models.Video] `json:"videos"`
}

// GetCategoryListing 分类下的视频，最新在前
func (s *ChannelService) GetCategoryListing(ctx context.Context, slug string, page, pageSize int) (*CategoryListing, error) {
	category, err := s.taxonomy.ResolveBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	videos, err := s.listing.ListVideos(ctx, VideoFilter{CategoryID: &category.ID}, SortNewest, page, pageSize)
	if err != nil {
		return nil, err
	}
	return &CategoryListing{Category: *category, Videos: videos}, nil
}

// HomePage 首页数据
type HomePage struct {
	Categories   []CategoryNode `json:"categories"`
	LatestVideos []models.Video `json:"latest_videos"`
	HotVideos    []models.Video `json:"hot_videos"`
}

// GetHomePage 一级分类（含子分类）、全站最新和热门视频
func (s *ChannelService) GetHomePage(ctx context.Context) (*HomePage, error) {
	roots, err := s.taxonomy.GetRootCategories(ctx, "", "")
	if err != nil {
		return nil, err
	}

	home := &HomePage{Categories: make([]CategoryNode, 0, len(roots))}
	for _, root := range roots {
		children, err := s.taxonomy.GetChildren(ctx, root.ID)
		if err != nil {
			return nil, err
		}
		home.Categories = append(home.Categories, CategoryNode{Category: root, Children: children})
	}

	if home.LatestVideos, err = s.listing.ListLatestVideos(ctx, nil, channelVideoLimit); err != nil {
		return nil, err
	}
	if home.HotVideos, err = s.listing.ListHotVideos(ctx, nil, channelVideoLimit); err != nil {
		return nil, err
	}
	return home, nil
}
