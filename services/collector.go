package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"mediacms/models"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// CollectMode 采集模式
type CollectMode string

const (
	CollectAll   CollectMode = "all"   // 全部
	CollectToday CollectMode = "today" // 今天（24小时）
	CollectWeek  CollectMode = "week"  // 一周（168小时）
	CollectMonth CollectMode = "month" // 一个月（720小时）
)

// ParseCollectMode 未知模式返回错误
func ParseCollectMode(s string) (CollectMode, error) {
	switch CollectMode(s) {
	case CollectAll, CollectToday, CollectWeek, CollectMonth:
		return CollectMode(s), nil
	case "":
		return CollectToday, nil
	}
	return "", NewValidationError("未知的采集模式: %s", s)
}

// hours 模式对应的 h 参数，0 表示不限
func (m CollectMode) hours() int {
	switch m {
	case CollectToday:
		return 24
	case CollectWeek:
		return 168
	case CollectMonth:
		return 720
	}
	return 0
}

// AppleCMSResponse 苹果CMS API响应结构
type AppleCMSResponse struct {
	Code      int                      `json:"code"`
	Msg       string                   `json:"msg"`
	Page      interface{}              `json:"page"`
	PageCount interface{}              `json:"pagecount"`
	Limit     interface{}              `json:"limit"`
	Total     interface{}              `json:"total"`
	List      []map[string]interface{} `json:"list"`
	Class     []AppleCMSClass          `json:"class"`
}

// AppleCMSClass 资源站的分类
type AppleCMSClass struct {
	TypeID   int    `json:"type_id"`
	TypePID  int    `json:"type_pid"`
	TypeName string `json:"type_name"`
}

// Collector 采集器
type Collector struct {
	client *http.Client
	// 翻页间隔，避免请求过快
	pageDelay time.Duration
}

// NewCollector 创建采集器
func NewCollector() *Collector {
	return &Collector{
		client:    &http.Client{Timeout: 30 * time.Second},
		pageDelay: 500 * time.Millisecond,
	}
}

// buildURL 根据模式构建URL，数据源的 params 追加到查询参数
func (c *Collector) buildURL(source *models.ThirdPartySource, page int, mode CollectMode) (string, error) {
	u, err := url.Parse(source.BaseURL)
	if err != nil {
		return "", NewValidationError("数据源地址无效: %s", source.BaseURL)
	}

	q := u.Query()
	if params := source.Params.Data(); params != nil {
		for k, v := range params.StringMap() {
			q.Set(k, v)
		}
	}
	q.Set("ac", "videolist")
	q.Set("pg", strconv.Itoa(page))
	if h := mode.hours(); h > 0 {
		q.Set("h", strconv.Itoa(h))
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// FetchPage 获取一页数据
func (c *Collector) FetchPage(ctx context.Context, source *models.ThirdPartySource, page int, mode CollectMode) (*AppleCMSResponse, error) {
	target, err := c.buildURL(source, page, mode)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"source": source.Key, "page": page}).Debugf("请求: %s", target)
	return c.fetch(ctx, source, target)
}

// FetchClasses 获取资源站的分类列表（ac=list）
func (c *Collector) FetchClasses(ctx context.Context, source *models.ThirdPartySource) ([]AppleCMSClass, error) {
	target, err := c.buildURL(source, 1, CollectAll)
	if err != nil {
		return nil, err
	}
	u, _ := url.Parse(target)
	q := u.Query()
	q.Set("ac", "list")
	u.RawQuery = q.Encode()

	result, err := c.fetch(ctx, source, u.String())
	if err != nil {
		return nil, err
	}
	return result.Class, nil
}

func (c *Collector) fetch(ctx context.Context, source *models.ThirdPartySource, target string) (*AppleCMSResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, errors.Wrap(err, "创建请求失败")
	}
	if headers := source.Headers.Data(); headers != nil {
		for k, v := range headers.StringMap() {
			req.Header.Set(k, v)
		}
	}
	if source.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+source.AuthToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "请求失败")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("请求失败: HTTP %d", resp.StatusCode)
	}

	var result AppleCMSResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, errors.Wrap(err, "JSON解析失败")
	}
	if result.Code != 1 {
		return nil, errors.Errorf("API返回错误: %s", result.Msg)
	}
	return &result, nil
}

// 辅助函数：类型转换
func toInt(v interface{}) int {
	switch val := v.(type) {
	case int:
		return val
	case float64:
		return int(val)
	case string:
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return 0
}

func toString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	}
	return ""
}
