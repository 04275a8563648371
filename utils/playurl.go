package utils

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// PlayEpisode 一集的播放地址
type PlayEpisode struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// PlaySource 一个播放来源（线路）
type PlaySource struct {
	Name     string        `json:"name"`
	Episodes []PlayEpisode `json:"episodes"`
}

// ParsePlayURLs 解析苹果CMS格式的播放地址
//
// 多个来源用 $$$ 分隔，每集用 # 分隔，集名和地址用 $ 分隔：
//
//	vod_play_from: "hhm3u8$$$gsm3u8"
//	vod_play_url:  "第01集$https://a/1.m3u8#第02集$https://a/2.m3u8$$$第01集$https://b/1.m3u8"
//
// 没有集名的地址按 "第N集" 命名，空地址跳过，没有任何地址的来源不返回。
func ParsePlayURLs(from, urls string) []PlaySource {
	if strings.TrimSpace(urls) == "" {
		return nil
	}

	names := strings.Split(from, "$$$")
	groups := strings.Split(urls, "$$$")

	sources := make([]PlaySource, 0, len(groups))
	for i, group := range groups {
		source := PlaySource{Name: "source" + strconv.Itoa(i+1)}
		if i < len(names) && strings.TrimSpace(names[i]) != "" {
			source.Name = strings.TrimSpace(names[i])
		}

		for _, item := range strings.Split(group, "#") {
			item = strings.TrimSpace(item)
			if item == "" {
				continue
			}

			title, url := "", item
			if idx := strings.LastIndex(item, "$"); idx >= 0 {
				title, url = strings.TrimSpace(item[:idx]), strings.TrimSpace(item[idx+1:])
			}
			if url == "" {
				continue
			}
			if title == "" {
				title = "第" + strconv.Itoa(len(source.Episodes)+1) + "集"
			}
			source.Episodes = append(source.Episodes, PlayEpisode{Title: title, URL: url})
		}

		if len(source.Episodes) > 0 {
			sources = append(sources, source)
		}
	}
	return sources
}

// StripHTML 去掉采集简介里的HTML标签，只保留文本
func StripHTML(s string) string {
	if !strings.Contains(s, "<") {
		return strings.TrimSpace(html.UnescapeString(s))
	}

	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.TrimSpace(b.String())
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.SelfClosingTagToken:
			if name, _ := z.TagName(); string(name) == "br" || string(name) == "p" {
				if b.Len() > 0 {
					b.WriteByte('\n')
				}
			}
		}
	}
}
