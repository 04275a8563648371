package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// 演职人员角色
const (
	RoleActor    = "actor"
	RoleDirector = "director"
)

// Describer 为演员/导演生成简介
type Describer interface {
	Describe(ctx context.Context, name, role string) (string, error)
}

// NopDescriber 未配置AI接口时使用，总是失败走默认简介
type NopDescriber struct{}

func (NopDescriber) Describe(context.Context, string, string) (string, error) {
	return "", &DependencyError{Service: "ai", Err: errors.New("未配置")}
}

// OpenAIDescriber 调用 chat completions 兼容接口
type OpenAIDescriber struct {
	apiURL string
	apiKey string
	model  string
	client *http.Client
}

// NewOpenAIDescriber 创建AI简介生成器
func NewOpenAIDescriber(apiURL, apiKey, model string, timeout time.Duration) *OpenAIDescriber {
	return &OpenAIDescriber{
		apiURL: strings.TrimRight(apiURL, "/"),
		apiKey: apiKey,
		model:  model,
		client: &http.Client{Timeout: timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (d *OpenAIDescriber) Describe(ctx context.Context, name, role string) (string, error) {
	prompt := fmt.Sprintf("请用100字简要介绍演员%s的主要成就和代表作品。", name)
	if role == RoleDirector {
		prompt = fmt.Sprintf("请用100字简要介绍导演%s的导演风格和代表作品。", name)
	}

	body, err := json.Marshal(chatRequest{
		Model: d.model,
		Messages: []chatMessage{
			{Role: "system", Content: "你是一个专业的影视资料编辑。"},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", &DependencyError{Service: "ai", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.apiURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", &DependencyError{Service: "ai", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+d.apiKey)

	resp, err := d.client.Do(req)
	if err != nil {
		return "", &DependencyError{Service: "ai", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", &DependencyError{Service: "ai", Err: errors.Errorf("HTTP %d: %s", resp.StatusCode, msg)}
	}

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", &DependencyError{Service: "ai", Err: errors.Wrap(err, "解析响应失败")}
	}
	if len(result.Choices) == 0 || strings.TrimSpace(result.Choices[0].Message.Content) == "" {
		return "", &DependencyError{Service: "ai", Err: errors.New("响应为空")}
	}
	return strings.TrimSpace(result.Choices[0].Message.Content), nil
}

// fallbackDescription 生成失败时的默认简介
func fallbackDescription(name, role string) string {
	return fmt.Sprintf("%s is a well-known %s.", name, role)
}

// describeOrFallback 生成简介，失败只记日志
func describeOrFallback(ctx context.Context, d Describer, name, role string) string {
	desc, err := d.Describe(ctx, name, role)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{"name": name, "role": role}).Warn("AI生成描述失败，使用默认描述")
		return fallbackDescription(name, role)
	}
	return desc
}
