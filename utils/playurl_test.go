package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePlayURLs(t *testing.T) {
	t.Run("multiple sources", func(t *testing.T) {
		sources := ParsePlayURLs(
			"hhm3u8$$$gsm3u8",
			"第01集$https://a/1.m3u8#第02集$https://a/2.m3u8$$$第01集$https://b/1.m3u8",
		)
		require.Len(t, sources, 2)
		assert.Equal(t, "hhm3u8", sources[0].Name)
		assert.Equal(t, []PlayEpisode{
			{Title: "第01集", URL: "https://a/1.m3u8"},
			{Title: "第02集", URL: "https://a/2.m3u8"},
		}, sources[0].Episodes)
		assert.Equal(t, "gsm3u8", sources[1].Name)
		assert.Len(t, sources[1].Episodes, 1)
	})

	t.Run("missing titles and names", func(t *testing.T) {
		sources := ParsePlayURLs("", "https://a/1.m3u8#$https://a/2.m3u8#")
		require.Len(t, sources, 1)
		assert.Equal(t, "source1", sources[0].Name)
		assert.Equal(t, "第1集", sources[0].Episodes[0].Title)
		assert.Equal(t, "第2集", sources[0].Episodes[1].Title)
	})

	t.Run("empty sources are dropped", func(t *testing.T) {
		sources := ParsePlayURLs("a$$$b", "$$$正片$https://b/1.mp4")
		require.Len(t, sources, 1)
		assert.Equal(t, "b", sources[0].Name)
	})

	t.Run("blank input", func(t *testing.T) {
		assert.Nil(t, ParsePlayURLs("a", "  "))
	})
}

func TestStripHTML(t *testing.T) {
	assert.Equal(t, "好看&刺激", StripHTML("<p>好看&amp;刺激</p>"))
	assert.Equal(t, "第一行\n第二行", StripHTML("<p>第一行</p><p>第二行</p>"))
	assert.Equal(t, "a\nb", StripHTML("a<br/>b"))
	assert.Equal(t, "plain & text", StripHTML(" plain &amp; text "))
	assert.Equal(t, "", StripHTML(""))
}
