package services

import (
	"context"
	"strings"

	"mediacms/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// TaxonomyService 分类树和标签
type TaxonomyService struct {
	db    *gorm.DB
	cache MenuCache
}

// NewTaxonomyService 创建分类服务，cache 为空时不缓存
func NewTaxonomyService(db *gorm.DB, cache MenuCache) *TaxonomyService {
	if cache == nil {
		cache = nopMenuCache{}
	}
	return &TaxonomyService{db: db, cache: cache}
}

// CategoryInput 创建分类参数
type CategoryInput struct {
	Name         string `json:"name" binding:"required"`
	Slug         string `json:"slug" binding:"required"`
	Description  string `json:"description"`
	ParentID     *uint  `json:"parent_id"`
	MediaType    string `json:"media_type"`
	CategoryType string `json:"category_type"`
	IsRoot       bool   `json:"is_root"`
	ShowInMenu   *bool  `json:"show_in_menu"`
	Order        int    `json:"order"`
	Icon         string `json:"icon"`
	Keywords     string `json:"keywords"`
	IsActive     *bool  `json:"is_active"`
}

// CategoryNode 分类树节点
type CategoryNode struct {
	models.Category
	Children []models.Category `json:"children"`
}

// GetRootCategories 获取一级分类（启用、显示在菜单、无父分类）
func (s *TaxonomyService) GetRootCategories(ctx context.Context, mediaType, categoryType string) ([]models.Category, error) {
	cacheKey := mediaType + "|" + categoryType
	if cached, ok := s.cache.Get(ctx, cacheKey); ok {
		return cached, nil
	}

	query := s.db.WithContext(ctx).
		Where("parent_id IS NULL AND is_active = ? AND show_in_menu = ?", true, true)
	if mediaType != "" {
		query = query.Where("media_type = ?", mediaType)
	}
	if categoryType != "" {
		query = query.Where("category_type = ?", categoryType)
	}

	categories := []models.Category{}
	if err := query.Order("sort_order ASC, id ASC").Find(&categories).Error; err != nil {
		return nil, errors.Wrap(err, "查询一级分类失败")
	}

	s.cache.Set(ctx, cacheKey, categories)
	return categories, nil
}

// GetChildren 获取启用的子分类
func (s *TaxonomyService) GetChildren(ctx context.Context, categoryID uint) ([]models.Category, error) {
	children := []models.Category{}
	err := s.db.WithContext(ctx).
		Where("parent_id = ? AND is_active = ?", categoryID, true).
		Order("sort_order ASC, id ASC").
		Find(&children).Error
	if err != nil {
		return nil, errors.Wrap(err, "查询子分类失败")
	}
	return children, nil
}

// GetCategoryTree 一级分类及其启用的子分类，categoryType 为空时不过滤
func (s *TaxonomyService) GetCategoryTree(ctx context.Context, categoryType string) ([]CategoryNode, error) {
	query := s.db.WithContext(ctx).Where("is_active = ?", true)
	if categoryType != "" {
		query = query.Where("category_type = ?", categoryType)
	}

	var roots []models.Category
	if err := query.Where("parent_id IS NULL").Order("sort_order ASC, id ASC").Find(&roots).Error; err != nil {
		return nil, errors.Wrap(err, "查询分类树失败")
	}
	if len(roots) == 0 {
		return []CategoryNode{}, nil
	}

	rootIDs := make([]uint, len(roots))
	for i, r := range roots {
		rootIDs[i] = r.ID
	}

	var children []models.Category
	err := s.db.WithContext(ctx).
		Where("parent_id IN ? AND is_active = ?", rootIDs, true).
		Order("sort_order ASC, id ASC").
		Find(&children).Error
	if err != nil {
		return nil, errors.Wrap(err, "查询分类树失败")
	}

	byParent := make(map[uint][]models.Category, len(roots))
	for _, child := range children {
		byParent[*child.ParentID] = append(byParent[*child.ParentID], child)
	}

	tree := make([]CategoryNode, len(roots))
	for i, r := range roots {
		kids := byParent[r.ID]
		if kids == nil {
			kids = []models.Category{}
		}
		tree[i] = CategoryNode{Category: r, Children: kids}
	}
	return tree, nil
}

// GetCategory 按ID获取分类
func (s *TaxonomyService) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := s.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, translateDBError(err, "分类")
	}
	return &category, nil
}

// ResolveBySlug 按slug获取分类
func (s *TaxonomyService) ResolveBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	if err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&category).Error; err != nil {
		return nil, translateDBError(err, "分类 "+slug)
	}
	return &category, nil
}

// CreateCategory 创建分类
func (s *TaxonomyService) CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Slug = strings.TrimSpace(in.Slug)
	if in.Name == "" || in.Slug == "" {
		return nil, NewValidationError("分类名称和别名不能为空")
	}
	if in.IsRoot && in.ParentID != nil {
		return nil, NewValidationError("根分类不能设置父分类")
	}

	category := models.Category{
		Name:         in.Name,
		Slug:         in.Slug,
		Description:  in.Description,
		ParentID:     in.ParentID,
		MediaType:    in.MediaType,
		CategoryType: in.CategoryType,
		IsRoot:       in.IsRoot,
		ShowInMenu:   boolOr(in.ShowInMenu, true),
		Order:        in.Order,
		Icon:         in.Icon,
		Keywords:     in.Keywords,
		IsActive:     boolOr(in.IsActive, true),
	}
	if category.MediaType == "" {
		category.MediaType = models.MediaTypeVideo
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.ParentID != nil {
			var count int64
			if err := tx.Model(&models.Category{}).Where("id = ?", *in.ParentID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return NewValidationError("父分类不存在")
			}
		}
		return translateDBError(tx.Create(&category).Error, "分类 "+in.Slug)
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx)
	return &category, nil
}

// SetParent 修改父分类，拒绝形成环
func (s *TaxonomyService) SetParent(ctx context.Context, id uint, parentID *uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.First(&category, id).Error; err != nil {
			return translateDBError(err, "分类")
		}

		if parentID != nil {
			if category.IsRoot {
				return NewValidationError("根分类不能设置父分类")
			}
			if err := checkNoCycle(tx, id, *parentID); err != nil {
				return err
			}
		}

		return tx.Model(&category).Update("parent_id", parentID).Error
	})
	if err != nil {
		return err
	}

	s.cache.Invalidate(ctx)
	return nil
}

// checkNoCycle 从新父节点向上查找，遇到自身说明会成环
func checkNoCycle(tx *gorm.DB, id, parentID uint) error {
	seen := map[uint]bool{}
	current := &parentID
	for current != nil {
		if *current == id {
			return NewValidationError("不能把分类移动到自己或子分类下")
		}
		if seen[*current] {
			// 已有数据中存在环，不再继续
			return NewValidationError("分类树中存在循环引用")
		}
		seen[*current] = true

		var node models.Category
		if err := tx.Select("id", "parent_id").First(&node, *current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewValidationError("父分类不存在")
			}
			return err
		}
		current = node.ParentID
	}
	return nil
}

// DeactivateCategory 停用分类（不删除）
func (s *TaxonomyService) DeactivateCategory(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).Update("is_active", false)
	if result.Error != nil {
		return errors.Wrap(result.Error, "停用分类失败")
	}
	if result.RowsAffected == 0 {
		return errors.Wrap(ErrNotFound, "分类")
	}
	s.cache.Invalidate(ctx)
	return nil
}

// DeleteCategory 删除分类：子分类的父分类置空，视频关联一并删除
func (s *TaxonomyService) DeleteCategory(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Category{}).Where("parent_id = ?", id).Update("parent_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("category_id = ?", id).Delete(&models.VideoCategory{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Category{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errors.Wrap(ErrNotFound, "分类")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.cache.Invalidate(ctx)
	return nil
}

// TagCategoryInput 创建标签分类参数
type TagCategoryInput struct {
	Name  string  `json:"name" binding:"required"`
	Slug  *string `json:"slug"`
	Order int     `json:"order"`
}

// CreateTagCategory 创建标签分类
func (s *TaxonomyService) CreateTagCategory(ctx context.Context, in TagCategoryInput) (*models.TagCategory, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, NewValidationError("标签分类名称不能为空")
	}
	tc := models.TagCategory{Name: strings.TrimSpace(in.Name), Slug: in.Slug, Order: in.Order, IsActive: true}
	if err := s.db.WithContext(ctx).Create(&tc).Error; err != nil {
		return nil, translateDBError(err, "标签分类")
	}
	return &tc, nil
}

// DeleteTagCategory 删除标签分类，其下标签的分类置空
func (s *TaxonomyService) DeleteTagCategory(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Tag{}).Where("tag_category_id = ?", id).Update("tag_category_id", nil).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.TagCategory{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errors.Wrap(ErrNotFound, "标签分类")
		}
		return nil
	})
}

// TagInput 创建标签参数
type TagInput struct {
	Name          string `json:"name" binding:"required"`
	Slug          string `json:"slug" binding:"required"`
	Description   string `json:"description"`
	TagCategoryID *uint  `json:"tag_category_id"`
	Order         int    `json:"order"`
}

// CreateTag 创建标签
func (s *TaxonomyService) CreateTag(ctx context.Context, in TagInput) (*models.Tag, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Slug) == "" {
		return nil, NewValidationError("标签名称和别名不能为空")
	}

	tag := models.Tag{
		Name:          strings.TrimSpace(in.Name),
		Slug:          strings.TrimSpace(in.Slug),
		Description:   in.Description,
		TagCategoryID: in.TagCategoryID,
		Order:         in.Order,
		IsActive:      true,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.TagCategoryID != nil {
			var count int64
			if err := tx.Model(&models.TagCategory{}).Where("id = ?", *in.TagCategoryID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return NewValidationError("标签分类不存在")
			}
		}
		return translateDBError(tx.Create(&tag).Error, "标签 "+tag.Slug)
	})
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// ListTags 启用的标签，可按标签分类过滤
func (s *TaxonomyService) ListTags(ctx context.Context, tagCategoryID *uint) ([]models.Tag, error) {
	query := s.db.WithContext(ctx).Where("is_active = ?", true)
	if tagCategoryID != nil {
		query = query.Where("tag_category_id = ?", *tagCategoryID)
	}

	tags := []models.Tag{}
	if err := query.Order("sort_order ASC, name ASC").Find(&tags).Error; err != nil {
		return nil, errors.Wrap(err, "查询标签失败")
	}
	return tags, nil
}

// ResolveTagBySlug 按slug获取标签
func (s *TaxonomyService) ResolveTagBySlug(ctx context.Context, slug string) (*models.Tag, error) {
	var tag models.Tag
	if err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&tag).Error; err != nil {
		return nil, translateDBError(err, "标签 "+slug)
	}
	return &tag, nil
}

// DeleteTag 删除标签及视频关联
func (s *TaxonomyService) DeleteTag(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tag_id = ?", id).Delete(&models.VideoTag{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Tag{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errors.Wrap(ErrNotFound, "标签")
		}
		return nil
	})
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
