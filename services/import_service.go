package services

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"time"

	"mediacms/models"
	"mediacms/utils"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ImportService 把资源站数据导入为视频
type ImportService struct {
	db        *gorm.DB
	sources   *SourceService
	videos    *VideoService
	cast      *CastService
	collector *Collector
}

// NewImportService 创建导入服务
func NewImportService(db *gorm.DB, sources *SourceService, videos *VideoService, cast *CastService, collector *Collector) *ImportService {
	return &ImportService{db: db, sources: sources, videos: videos, cast: cast, collector: collector}
}

// ImportStats 导入统计
type ImportStats struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Errors  int      `json:"errors"`
	Message []string `json:"messages,omitempty"`
}

func (s *ImportStats) add(o ImportStats) {
	s.Created += o.Created
	s.Updated += o.Updated
	s.Errors += o.Errors
	s.Message = append(s.Message, o.Message...)
}

// ImportItems 导入一批苹果CMS条目，单条失败不影响其他条目
func (s *ImportService) ImportItems(ctx context.Context, source *models.ThirdPartySource, items []map[string]interface{}) ImportStats {
	var stats ImportStats
	categoryMap := CategoryMap(source)
	resolved := map[string]*uint{}

	for _, item := range items {
		created, err := s.importItem(ctx, source, categoryMap, resolved, item)
		if err != nil {
			stats.Errors++
			msg := toString(item["vod_id"]) + ": " + err.Error()
			stats.Message = append(stats.Message, msg)
			log.WithError(err).WithFields(log.Fields{"source": source.Key, "vod_id": toString(item["vod_id"])}).Warn("导入失败")
			continue
		}
		if created {
			stats.Created++
		} else {
			stats.Updated++
		}
	}
	return stats
}

// resolveCategory 源分类ID -> 本地分类ID，映射不到返回 nil
func (s *ImportService) resolveCategory(ctx context.Context, categoryMap map[string]string, resolved map[string]*uint, typeID string) *uint {
	if id, ok := resolved[typeID]; ok {
		return id
	}

	var id *uint
	if slug, ok := categoryMap[typeID]; ok {
		var category models.Category
		err := s.db.WithContext(ctx).Select("id").Where("slug = ?", slug).First(&category).Error
		if err == nil {
			id = &category.ID
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.WithError(err).WithField("slug", slug).Warn("查询映射分类失败")
		}
	}
	resolved[typeID] = id
	return id
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func (s *ImportService) importItem(ctx context.Context, source *models.ThirdPartySource, categoryMap map[string]string, resolved map[string]*uint, item map[string]interface{}) (bool, error) {
	vodID := toString(item["vod_id"])
	if vodID == "" {
		return false, NewValidationError("缺少 vod_id")
	}
	thirdPartyID := source.Key + ":" + vodID

	playSources := utils.ParsePlayURLs(toString(item["vod_play_from"]), toString(item["vod_play_url"]))
	episodeCount := 0
	if len(playSources) > 0 {
		episodeCount = len(playSources[0].Episodes)
	}

	input := VideoInput{
		Title:           toString(item["vod_name"]),
		Description:     utils.StripHTML(toString(item["vod_content"])),
		Status:          models.VideoStatusPublished,
		Thumbnail:       optional(toString(item["vod_pic"])),
		Year:            optional(toString(item["vod_year"])),
		Area:            optional(toString(item["vod_area"])),
		Language:        optional(toString(item["vod_lang"])),
		ThirdPartyID:    &thirdPartyID,
		TotalEpisodes:   toInt(item["vod_total"]),
		CurrentEpisodes: episodeCount,
		ExtraInfo: models.Meta{
			"source_key": models.String(source.Key),
			"vod_id":     models.String(vodID),
			"remarks":    models.String(toString(item["vod_remarks"])),
			"type_name":  models.String(toString(item["type_name"])),
			"score":      models.String(toString(item["vod_score"])),
		},
	}
	if input.Description == "" {
		input.Description = strings.TrimSpace(toString(item["vod_blurb"]))
	}
	input.VideoType = models.VideoTypeSingle
	input.UpdateStatus = models.UpdateCompleted
	if episodeCount > 1 {
		input.VideoType = models.VideoTypeSeries
		if toInt(item["vod_isend"]) != 1 {
			input.UpdateStatus = models.UpdateOngoing
		}
	}
	if input.TotalEpisodes < episodeCount {
		input.TotalEpisodes = episodeCount
	}

	video, err := s.videos.buildVideo(input)
	if err != nil {
		return false, err
	}
	categoryID := s.resolveCategory(ctx, categoryMap, resolved, toString(item["type_id"]))

	// 演职人员在事务外准备
	actors, err := s.cast.ProcessCast(ctx, toString(item["vod_actor"]), RoleActor)
	if err != nil {
		return false, err
	}
	directors, err := s.cast.ProcessCast(ctx, toString(item["vod_director"]), RoleDirector)
	if err != nil {
		return false, err
	}

	created := false
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Video
		result := tx.Where("third_party_id = ?", thirdPartyID).Limit(1).Find(&existing)
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			created = true
			if err := tx.Create(video).Error; err != nil {
				return errors.Wrap(err, "保存视频失败")
			}
		} else {
			// 统计数据和启用状态保留
			video.ID = existing.ID
			err := tx.Model(&existing).Select(
				"title", "description", "video_type", "status", "thumbnail", "year", "area", "language",
				"total_episodes", "current_episodes", "update_status", "extra_info",
			).Updates(video).Error
			if err != nil {
				return errors.Wrap(err, "更新视频失败")
			}
			if err := clearImportedRelations(tx, video.ID); err != nil {
				return err
			}
		}

		if categoryID != nil {
			if err := attachCategoriesTx(tx, video.ID, []uint{*categoryID}); err != nil {
				return err
			}
		}
		if len(actors) > 0 {
			if err := attachCastTx(tx, video.ID, dedupePeople(actors), RoleActor); err != nil {
				return err
			}
		}
		if len(directors) > 0 {
			if err := attachCastTx(tx, video.ID, dedupePeople(directors), RoleDirector); err != nil {
				return err
			}
		}
		return attachPlaySourcesTx(tx, video, playSources)
	})
	return created, err
}

// clearImportedRelations 重新导入前删除上次导入的媒体、演职人员和分集
func clearImportedRelations(tx *gorm.DB, videoID uint) error {
	var mediaIDs []uint
	if err := tx.Model(&models.VideoMediaFile{}).Where("video_id = ?", videoID).Pluck("video_media_id", &mediaIDs).Error; err != nil {
		return err
	}
	if err := tx.Where("video_id = ?", videoID).Delete(&models.VideoMediaFile{}).Error; err != nil {
		return err
	}
	if err := deleteOrphanMediaTx(tx, mediaIDs); err != nil {
		return err
	}
	for _, model := range []interface{}{&models.VideoActor{}, &models.VideoDirector{}, &models.SeriesVideo{}} {
		if err := tx.Where("video_id = ?", videoID).Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

// dedupePeople 名单中重复的人只保留一次
func dedupePeople(people []models.Person) []models.Person {
	seen := make(map[uint]bool, len(people))
	result := people[:0:0]
	for _, p := range people {
		if !seen[p.ID] {
			seen[p.ID] = true
			result = append(result, p)
		}
	}
	return result
}

// attachPlaySourcesTx 每个来源的每一集写一条媒体记录，第一个来源为默认
func attachPlaySourcesTx(tx *gorm.DB, video *models.Video, playSources []utils.PlaySource) error {
	for si, ps := range playSources {
		name := ps.Name
		for ei, ep := range ps.Episodes {
			url, title := ep.URL, ep.Title
			media := models.VideoMedia{
				CdnURL:       &url,
				IsDefault:    si == 0,
				EpisodeIndex: ei + 1,
				EpisodeTitle: &title,
				SourceName:   &name,
				SourceIndex:  si,
				ExtraInfo:    models.NewMetaJSON(models.Meta{"format": models.String(formatOf(url))}),
			}
			if err := prepareMedia(&media); err != nil {
				return err
			}
			if err := attachMediaTx(tx, video.ID, &media); err != nil {
				return err
			}
		}
	}

	if video.VideoType != models.VideoTypeSeries || len(playSources) == 0 {
		return nil
	}
	episodes := make([]models.SeriesVideo, len(playSources[0].Episodes))
	for i := range playSources[0].Episodes {
		episodes[i] = models.SeriesVideo{
			VideoID:       video.ID,
			SeriesTitle:   video.Title,
			EpisodeNumber: i + 1,
			TotalEpisodes: video.TotalEpisodes,
			UpdateStatus:  video.UpdateStatus,
		}
	}
	return tx.Create(&episodes).Error
}

func formatOf(url string) string {
	lower := strings.ToLower(url)
	switch {
	case strings.Contains(lower, ".m3u8"):
		return "m3u8"
	case strings.Contains(lower, ".mp4"):
		return "mp4"
	}
	return "page"
}

// CollectSource 采集一个数据源并导入，结果写入采集日志
func (s *ImportService) CollectSource(ctx context.Context, key string, mode CollectMode, maxPages int) (*models.CollectionLog, error) {
	source, err := s.sources.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if !source.IsActive {
		return nil, NewValidationError("数据源 %s 已停用", key)
	}

	startTime := time.Now()
	entry := models.CollectionLog{
		SourceName: source.Name,
		SourceKey:  source.Key,
		Mode:       string(mode),
		StartTime:  startTime,
		Status:     models.CollectRunning,
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return nil, errors.Wrap(err, "创建采集日志失败")
	}

	logger := log.WithFields(log.Fields{"source": source.Key, "mode": mode})
	logger.Infof("开始采集: %s", source.Name)

	var stats ImportStats
	firstPage, err := s.collector.FetchPage(ctx, source, 1, mode)
	if err != nil {
		logger.WithError(err).Error("采集失败")
		stats.Errors++
		stats.Message = append(stats.Message, err.Error())
	} else {
		pageCount := toInt(firstPage.PageCount)
		if maxPages > 0 && pageCount > maxPages {
			logger.Warnf("限制采集页数为 %d 页 (总共 %d 页)", maxPages, pageCount)
			pageCount = maxPages
		}
		entry.TotalPages = pageCount
		entry.TotalVideos = toInt(firstPage.Total)

		stats.add(s.ImportItems(ctx, source, firstPage.List))
		for page := 2; page <= pageCount; page++ {
			select {
			case <-ctx.Done():
				stats.Errors++
				stats.Message = append(stats.Message, ctx.Err().Error())
				page = pageCount + 1
				continue
			case <-time.After(s.collector.pageDelay):
			}

			logger.Debugf("采集第 %d/%d 页", page, pageCount)
			pageData, err := s.collector.FetchPage(ctx, source, page, mode)
			if err != nil {
				logger.WithError(err).Warnf("第 %d 页失败", page)
				stats.Errors++
				stats.Message = append(stats.Message, err.Error())
				continue
			}
			stats.add(s.ImportItems(ctx, source, pageData.List))
		}
	}

	entry.CreatedCount = stats.Created
	entry.UpdatedCount = stats.Updated
	entry.ErrorCount = stats.Errors
	entry.EndTime = time.Now()
	entry.Duration = entry.EndTime.Sub(startTime).Round(time.Millisecond).String()
	entry.ErrorMessages = strings.Join(limitMessages(stats.Message, 50), "\n")
	switch {
	case stats.Errors == 0:
		entry.Status = models.CollectSuccess
	case stats.Created+stats.Updated > 0:
		entry.Status = models.CollectPartial
	default:
		entry.Status = models.CollectFailed
	}

	// 请求可能已取消，日志仍然要写
	if err := s.db.WithContext(context.Background()).Save(&entry).Error; err != nil {
		return nil, errors.Wrap(err, "更新采集日志失败")
	}
	logger.Infof("采集完成: 新增 %d 条，更新 %d 条，失败 %d 条，耗时 %s",
		entry.CreatedCount, entry.UpdatedCount, entry.ErrorCount, entry.Duration)
	return &entry, nil
}

func limitMessages(msgs []string, n int) []string {
	if len(msgs) > n {
		return msgs[:n]
	}
	return msgs
}

// CollectSources 依次采集多个数据源，keys 为空时采集全部启用的源
func (s *ImportService) CollectSources(ctx context.Context, keys []string, mode CollectMode, maxPages int) ([]models.CollectionLog, error) {
	if len(keys) == 0 {
		sources, err := s.sources.ListSources(ctx, true)
		if err != nil {
			return nil, err
		}
		for _, src := range sources {
			keys = append(keys, src.Key)
		}
	}
	if len(keys) == 0 {
		return nil, NewValidationError("没有可用的数据源")
	}

	logs := make([]models.CollectionLog, 0, len(keys))
	for _, key := range keys {
		entry, err := s.CollectSource(ctx, key, mode, maxPages)
		if err != nil {
			return logs, err
		}
		logs = append(logs, *entry)
	}
	return logs, nil
}

// ImportFile 导入采集器保存的 JSON 文件（{"videos": [...]}）
func (s *ImportService) ImportFile(ctx context.Context, key, path string) (*ImportStats, error) {
	source, err := s.sources.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "读取文件失败")
	}
	var fileData struct {
		Videos []map[string]interface{} `json:"videos"`
		List   []map[string]interface{} `json:"list"`
	}
	if err := json.Unmarshal(data, &fileData); err != nil {
		return nil, NewValidationError("解析JSON失败: %v", err)
	}

	items := fileData.Videos
	if len(items) == 0 {
		items = fileData.List
	}
	return s.importSource(ctx, source, items), nil
}

// ImportList 按数据源标识导入一批条目
func (s *ImportService) ImportList(ctx context.Context, key string, items []map[string]interface{}) (*ImportStats, error) {
	source, err := s.sources.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	return s.importSource(ctx, source, items), nil
}

func (s *ImportService) importSource(ctx context.Context, source *models.ThirdPartySource, items []map[string]interface{}) *ImportStats {
	stats := s.ImportItems(ctx, source, items)
	log.WithField("source", source.Key).Infof("导入完成: 新增 %d 条，更新 %d 条，失败 %d 条", stats.Created, stats.Updated, stats.Errors)
	return &stats
}

// ListCollectionLogs 采集日志，最新在前
func (s *ImportService) ListCollectionLogs(ctx context.Context, sourceKey string, page, pageSize int) (*Page[models.CollectionLog], error) {
	query := s.db.WithContext(ctx).Model(&models.CollectionLog{})
	if sourceKey != "" {
		query = query.Where("source_key = ?", sourceKey)
	}
	result, err := paginate[models.CollectionLog](query, "start_time DESC, id DESC", page, pageSize)
	return result, errors.Wrap(err, "查询采集日志失败")
}
