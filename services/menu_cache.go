package services

import (
	"context"
	"encoding/json"
	"time"

	"mediacms/models"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// MenuCache 根分类（导航菜单）缓存
type MenuCache interface {
	Get(ctx context.Context, key string) ([]models.Category, bool)
	Set(ctx context.Context, key string, categories []models.Category)
	Invalidate(ctx context.Context)
}

// nopMenuCache 未配置缓存时使用
type nopMenuCache struct{}

func (nopMenuCache) Get(context.Context, string) ([]models.Category, bool) { return nil, false }
func (nopMenuCache) Set(context.Context, string, []models.Category)        {}
func (nopMenuCache) Invalidate(context.Context)                            {}

// RedisMenuCache 把根分类列表存到一个 redis hash 中，写分类时整体删除
type RedisMenuCache struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisMenuCache 创建 redis 菜单缓存
func NewRedisMenuCache(client *redis.Client, ttl time.Duration) *RedisMenuCache {
	return &RedisMenuCache{
		client: client,
		key:    "mediacms:menu:root_categories",
		ttl:    ttl,
	}
}

func (c *RedisMenuCache) Get(ctx context.Context, field string) ([]models.Category, bool) {
	data, err := c.client.HGet(ctx, c.key, field).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.WithError(err).Warn("读取菜单缓存失败")
		}
		return nil, false
	}

	var categories []models.Category
	if err := json.Unmarshal(data, &categories); err != nil {
		log.WithError(err).Warn("解析菜单缓存失败")
		return nil, false
	}
	return categories, true
}

func (c *RedisMenuCache) Set(ctx context.Context, field string, categories []models.Category) {
	data, err := json.Marshal(categories)
	if err != nil {
		log.WithError(err).Warn("序列化菜单缓存失败")
		return
	}

	pipe := c.client.TxPipeline()
	pipe.HSet(ctx, c.key, field, data)
	pipe.Expire(ctx, c.key, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		log.WithError(err).Warn("写入菜单缓存失败")
	}
}

func (c *RedisMenuCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, c.key).Err(); err != nil {
		log.WithError(err).Warn("清除菜单缓存失败")
	}
}
