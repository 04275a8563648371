package services

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	"mediacms/models"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SourceService 第三方数据源
type SourceService struct {
	db *gorm.DB
}

// NewSourceService 创建数据源服务
func NewSourceService(db *gorm.DB) *SourceService {
	return &SourceService{db: db}
}

// SourceConfig 配置文件中的一个数据源
type SourceConfig struct {
	Name        string            `json:"name"`
	BaseURL     string            `json:"base_url"`
	Key         string            `json:"key"`
	Enabled     bool              `json:"enabled"`
	CategoryMap map[string]string `json:"category_map,omitempty"` // 源分类ID -> 分类slug
}

// DefaultSources 预定义的苹果CMS资源站
func DefaultSources() []SourceConfig {
	return []SourceConfig{
		{Name: "豪华资源", BaseURL: "https://hhzyapi.com/api.php/provide/vod/from/hhm3u8/at/json", Key: "hhzy", Enabled: true},
		{Name: "光速资源", BaseURL: "https://api.guangsuapi.com/api.php/provide/vod/from/gsm3u8/at/json", Key: "guangsuzy", Enabled: true},
		{Name: "索尼资源", BaseURL: "https://suoniapi.com/api.php/provide/vod/from/snm3u8/at/json", Key: "snzy", Enabled: true},
		{Name: "红牛资源", BaseURL: "https://www.hongniuzy2.com/api.php/provide/vod/from/hnm3u8/at/json/", Key: "hnzy", Enabled: true},
		{Name: "新浪资源", BaseURL: "https://api.xinlangapi.com/xinlangapi.php/provide/vod/from/xlm3u8/at/json", Key: "xlzy", Enabled: true},
	}
}

// LoadSourceConfig 读取数据源配置文件，文件不存在时使用默认数据源
func LoadSourceConfig(file string) ([]SourceConfig, error) {
	data, err := os.ReadFile(file)
	if os.IsNotExist(err) {
		return DefaultSources(), nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "读取配置文件失败")
	}

	var cfg struct {
		Sources []SourceConfig `json:"sources"`
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "解析配置文件失败")
	}
	return cfg.Sources, nil
}

// SyncSources 同步配置到数据库：不存在则创建，存在则更新名称、地址和状态
func (s *SourceService) SyncSources(ctx context.Context, configs []SourceConfig) (created, updated int, err error) {
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, c := range configs {
			if c.Key == "" {
				return NewValidationError("数据源 %s 缺少 key", c.Name)
			}

			var source models.ThirdPartySource
			result := tx.Where("`key` = ?", c.Key).Limit(1).Find(&source)
			if result.Error != nil {
				return result.Error
			}

			if result.RowsAffected == 0 {
				source = models.ThirdPartySource{
					Name:       c.Name,
					Key:        c.Key,
					SourceType: models.SourceTypeAPI,
					BaseURL:    c.BaseURL,
					Headers:    models.NewMetaJSON(models.Meta{}),
					Params:     models.NewMetaJSON(models.Meta{}),
					IsActive:   c.Enabled,
					ExtraInfo:  models.NewMetaJSON(models.Meta{"category_map": categoryMapValue(c.CategoryMap)}),
				}
				if err := tx.Create(&source).Error; err != nil {
					return err
				}
				created++
				log.WithField("key", c.Key).Infof("已添加数据源: %s", c.Name)
				continue
			}

			updates := map[string]interface{}{
				"name":      c.Name,
				"base_url":  c.BaseURL,
				"is_active": c.Enabled,
			}
			if len(c.CategoryMap) > 0 {
				extra := source.ExtraInfo.Data()
				if extra == nil {
					extra = models.Meta{}
				}
				extra["category_map"] = categoryMapValue(c.CategoryMap)
				updates["extra_info"] = models.NewMetaJSON(extra)
			}
			if err := tx.Model(&source).Updates(updates).Error; err != nil {
				return err
			}
			updated++
		}
		return nil
	})
	if err != nil {
		return 0, 0, errors.Wrap(err, "同步数据源失败")
	}
	return created, updated, nil
}

func categoryMapValue(m map[string]string) models.MetaValue {
	inner := models.Meta{}
	for k, v := range m {
		inner[k] = models.String(v)
	}
	return models.Object(inner)
}

// CategoryMap 数据源的分类映射（源分类ID -> 分类slug）
func CategoryMap(source *models.ThirdPartySource) map[string]string {
	extra := source.ExtraInfo.Data()
	if extra == nil {
		return map[string]string{}
	}
	m, ok := extra.GetMap("category_map")
	if !ok {
		return map[string]string{}
	}
	return m.StringMap()
}

// ListSources 数据源列表，activeOnly 时只返回启用的
func (s *SourceService) ListSources(ctx context.Context, activeOnly bool) ([]models.ThirdPartySource, error) {
	query := s.db.WithContext(ctx)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	sources := []models.ThirdPartySource{}
	if err := query.Order("name ASC, id ASC").Find(&sources).Error; err != nil {
		return nil, errors.Wrap(err, "查询数据源失败")
	}
	return sources, nil
}

// GetByKey 按标识获取数据源
func (s *SourceService) GetByKey(ctx context.Context, key string) (*models.ThirdPartySource, error) {
	var source models.ThirdPartySource
	if err := s.db.WithContext(ctx).Where("`key` = ?", key).First(&source).Error; err != nil {
		return nil, translateDBError(err, "数据源 "+key)
	}
	return &source, nil
}

// SourceInput 创建/更新数据源参数
type SourceInput struct {
	Name        string            `json:"name"`
	Key         string            `json:"key"`
	SourceType  string            `json:"source_type"`
	BaseURL     string            `json:"base_url"`
	APIKey      *string           `json:"api_key"`
	AuthToken   *string           `json:"auth_token"`
	Headers     models.Meta       `json:"headers"`
	Params      models.Meta       `json:"params"`
	IsActive    *bool             `json:"is_active"`
	CategoryMap map[string]string `json:"category_map"`
}

var sourceTypes = []string{models.SourceTypeAPI, models.SourceTypeScrape, models.SourceTypeImport, models.SourceTypeOther}

// CreateSource 创建数据源，key 重复返回 ErrConflict
func (s *SourceService) CreateSource(ctx context.Context, in SourceInput) (*models.ThirdPartySource, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Key = strings.TrimSpace(in.Key)
	if in.Name == "" || in.Key == "" {
		return nil, NewValidationError("数据源名称和标识不能为空")
	}
	if in.SourceType == "" {
		in.SourceType = models.SourceTypeOther
	}
	if !oneOf(in.SourceType, sourceTypes) {
		return nil, NewValidationError("不支持的来源类型: %s", in.SourceType)
	}

	headers, params := in.Headers, in.Params
	if headers == nil {
		headers = models.Meta{}
	}
	if params == nil {
		params = models.Meta{}
	}

	source := models.ThirdPartySource{
		Name:       in.Name,
		Key:        in.Key,
		SourceType: in.SourceType,
		BaseURL:    in.BaseURL,
		Headers:    models.NewMetaJSON(headers),
		Params:     models.NewMetaJSON(params),
		IsActive:   boolOr(in.IsActive, true),
		ExtraInfo:  models.NewMetaJSON(models.Meta{"category_map": categoryMapValue(in.CategoryMap)}),
	}
	if in.APIKey != nil {
		source.APIKey = *in.APIKey
	}
	if in.AuthToken != nil {
		source.AuthToken = *in.AuthToken
	}

	if err := s.db.WithContext(ctx).Create(&source).Error; err != nil {
		return nil, translateDBError(err, "数据源 "+in.Key)
	}
	return &source, nil
}

// UpdateSource 只更新传入的字段，key 不可修改
func (s *SourceService) UpdateSource(ctx context.Context, key string, in SourceInput) (*models.ThirdPartySource, error) {
	source, err := s.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if strings.TrimSpace(in.Name) != "" {
		updates["name"] = strings.TrimSpace(in.Name)
	}
	if in.SourceType != "" {
		if !oneOf(in.SourceType, sourceTypes) {
			return nil, NewValidationError("不支持的来源类型: %s", in.SourceType)
		}
		updates["source_type"] = in.SourceType
	}
	if in.BaseURL != "" {
		updates["base_url"] = in.BaseURL
	}
	if in.APIKey != nil {
		updates["api_key"] = *in.APIKey
	}
	if in.AuthToken != nil {
		updates["auth_token"] = *in.AuthToken
	}
	if in.Headers != nil {
		updates["headers"] = models.NewMetaJSON(in.Headers)
	}
	if in.Params != nil {
		updates["params"] = models.NewMetaJSON(in.Params)
	}
	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}
	if in.CategoryMap != nil {
		extra := source.ExtraInfo.Data()
		if extra == nil {
			extra = models.Meta{}
		}
		extra["category_map"] = categoryMapValue(in.CategoryMap)
		updates["extra_info"] = models.NewMetaJSON(extra)
	}
	if len(updates) == 0 {
		return source, nil
	}

	if err := s.db.WithContext(ctx).Model(source).Updates(updates).Error; err != nil {
		return nil, errors.Wrap(err, "更新数据源失败")
	}
	return s.GetByKey(ctx, key)
}

// DeleteSource 删除数据源（已导入的视频保留）
func (s *SourceService) DeleteSource(ctx context.Context, key string) error {
	result := s.db.WithContext(ctx).Where("`key` = ?", key).Delete(&models.ThirdPartySource{})
	if result.Error != nil {
		return errors.Wrap(result.Error, "删除数据源失败")
	}
	if result.RowsAffected == 0 {
		return errors.Wrap(ErrNotFound, "数据源 "+key)
	}
	return nil
}
