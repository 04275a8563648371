package services

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"mediacms/models"

	"github.com/pkg/errors"
)

// 映射建议置信度
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// ClassMapping 资源站分类与本地分类的对应情况
type ClassMapping struct {
	TypeID        int    `json:"type_id"`
	TypeName      string `json:"type_name"`
	Mapped        bool   `json:"mapped"`
	MappedSlug    string `json:"mapped_slug,omitempty"`
	SuggestedSlug string `json:"suggested_slug,omitempty"`
	SuggestedName string `json:"suggested_name,omitempty"`
	Confidence    string `json:"confidence,omitempty"`
}

// CategoryDiscovery 分类发现结果
type CategoryDiscovery struct {
	SourceKey     string         `json:"source_key"`
	Categories    []ClassMapping `json:"categories"`
	MappedCount   int            `json:"mapped_count"`
	UnmappedCount int            `json:"unmapped_count"`
}

// suggestCategory 按名称给出映射建议：名称完全相同为高置信度，
// 名称互相包含或命中分类关键词为中等，其余为低（不建议）
func suggestCategory(typeName string, categories []models.Category) (*models.Category, string) {
	name := strings.ToLower(strings.TrimSpace(typeName))
	if name == "" {
		return nil, ConfidenceLow
	}

	for i := range categories {
		if strings.ToLower(categories[i].Name) == name {
			return &categories[i], ConfidenceHigh
		}
	}
	for i := range categories {
		catName := strings.ToLower(categories[i].Name)
		if catName != "" && (strings.Contains(name, catName) || strings.Contains(catName, name)) {
			return &categories[i], ConfidenceMedium
		}
	}
	for i := range categories {
		for _, kw := range strings.FieldsFunc(categories[i].Keywords, isKeywordSep) {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" && strings.Contains(name, kw) {
				return &categories[i], ConfidenceMedium
			}
		}
	}
	return nil, ConfidenceLow
}

func isKeywordSep(r rune) bool {
	return r == ',' || r == '，' || r == ' ' || r == '|'
}

func confidenceRank(c string) int {
	switch c {
	case ConfidenceHigh:
		return 3
	case ConfidenceMedium:
		return 2
	}
	return 1
}

// DiscoverCategories 拉取资源站分类，标出已映射的并为未映射的给出建议
func (s *ImportService) DiscoverCategories(ctx context.Context, key string) (*CategoryDiscovery, error) {
	source, err := s.sources.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	classes, err := s.collector.FetchClasses(ctx, source)
	if err != nil {
		return nil, errors.Wrap(err, "获取资源站分类失败")
	}

	var categories []models.Category
	if err := s.db.WithContext(ctx).Where("is_active = ?", true).Order("sort_order ASC, id ASC").Find(&categories).Error; err != nil {
		return nil, errors.Wrap(err, "查询分类失败")
	}

	current := CategoryMap(source)
	result := &CategoryDiscovery{SourceKey: key, Categories: make([]ClassMapping, 0, len(classes))}
	for _, class := range classes {
		m := ClassMapping{TypeID: class.TypeID, TypeName: class.TypeName}
		if slug, ok := current[strconv.Itoa(class.TypeID)]; ok {
			m.Mapped = true
			m.MappedSlug = slug
			result.MappedCount++
		} else {
			category, confidence := suggestCategory(class.TypeName, categories)
			if category != nil {
				m.SuggestedSlug = category.Slug
				m.SuggestedName = category.Name
			}
			m.Confidence = confidence
			result.UnmappedCount++
		}
		result.Categories = append(result.Categories, m)
	}
	sort.Slice(result.Categories, func(i, j int) bool {
		return result.Categories[i].TypeID < result.Categories[j].TypeID
	})
	return result, nil
}

// AutoMapCategories 应用置信度不低于 threshold 的建议，返回新增的映射
func (s *ImportService) AutoMapCategories(ctx context.Context, key, threshold string) (map[string]string, error) {
	if threshold == "" {
		threshold = ConfidenceMedium
	}
	if threshold != ConfidenceHigh && threshold != ConfidenceMedium && threshold != ConfidenceLow {
		return nil, NewValidationError("未知的置信度: %s", threshold)
	}

	discovery, err := s.DiscoverCategories(ctx, key)
	if err != nil {
		return nil, err
	}

	applied := map[string]string{}
	for _, m := range discovery.Categories {
		if m.Mapped || m.SuggestedSlug == "" || confidenceRank(m.Confidence) < confidenceRank(threshold) {
			continue
		}
		applied[strconv.Itoa(m.TypeID)] = m.SuggestedSlug
	}
	if len(applied) == 0 {
		return applied, nil
	}
	if _, err := s.sources.MapCategories(ctx, key, applied); err != nil {
		return nil, err
	}
	return applied, nil
}

// MapCategories 合并分类映射（源分类ID -> 分类slug），slug 为空表示删除该映射
func (s *SourceService) MapCategories(ctx context.Context, key string, mappings map[string]string) (*models.ThirdPartySource, error) {
	source, err := s.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	var slugs []string
	for _, slug := range mappings {
		if slug != "" {
			slugs = append(slugs, slug)
		}
	}
	if len(slugs) > 0 {
		var found []string
		if err := s.db.WithContext(ctx).Model(&models.Category{}).Where("slug IN ?", slugs).Pluck("slug", &found).Error; err != nil {
			return nil, errors.Wrap(err, "查询分类失败")
		}
		exists := make(map[string]bool, len(found))
		for _, f := range found {
			exists[f] = true
		}
		for _, slug := range slugs {
			if !exists[slug] {
				return nil, NewValidationError("分类不存在: %s", slug)
			}
		}
	}

	merged := CategoryMap(source)
	for typeID, slug := range mappings {
		if slug == "" {
			delete(merged, typeID)
		} else {
			merged[typeID] = slug
		}
	}

	extra := source.ExtraInfo.Data()
	if extra == nil {
		extra = models.Meta{}
	}
	extra["category_map"] = categoryMapValue(merged)
	if err := s.db.WithContext(ctx).Model(source).Update("extra_info", models.NewMetaJSON(extra)).Error; err != nil {
		return nil, errors.Wrap(err, "保存分类映射失败")
	}
	return s.GetByKey(ctx, key)
}
