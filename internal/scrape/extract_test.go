package scrape

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingFixture = `
<html><body>
<ul class="new-post">
  <li class="article-list">
    <a href="/article/123" title="满1元送京东卡"
       data-catename="京东" data-content="前往活动页面下单"
       data-louzhu="羊毛君">满1元送京东卡</a>
    <time class="badge">14:05</time>
    <span class="badge com">12 评论</span>
  </li>
  <li class="article-list">
    <a href="https://other.example.com/post/9" title="外站活动"></a>
  </li>
  <li class="article-list">
    <a href="/article/456" title=""></a>
  </li>
  <li class="article-list">
    <a href="" title="没有链接"></a>
  </li>
</ul>
</body></html>`

func TestExtract(t *testing.T) {
	now := time.Date(2026, 3, 15, 15, 0, 0, 0, time.UTC)
	e := NewExtractor("https://new.ixbk.net/")

	posts, err := e.Extract(strings.NewReader(listingFixture), now)
	require.NoError(t, err)
	require.Len(t, posts, 2)

	first := posts[0]
	assert.Equal(t, "满1元送京东卡", first.Title)
	assert.Equal(t, "https://new.ixbk.net/article/123", first.Link)
	assert.Equal(t, "京东", first.Category)
	assert.Equal(t, "前往活动页面下单", first.Content)
	assert.Equal(t, "羊毛君", first.Author)
	assert.Equal(t, 12, first.Comments)
	assert.Equal(t, time.Date(2026, 3, 15, 14, 5, 0, 0, time.UTC), first.PublishedAt)

	// Absolute links pass through, missing attributes take defaults
	second := posts[1]
	assert.Equal(t, "https://other.example.com/post/9", second.Link)
	assert.Equal(t, "未分类", second.Category)
	assert.Equal(t, "匿名", second.Author)
	assert.Equal(t, "外站活动", second.Content)
	assert.Equal(t, 0, second.Comments)
	assert.True(t, second.PublishedAt.Equal(now))
}

func TestExtractEmptyDocument(t *testing.T) {
	e := NewExtractor("https://new.ixbk.net")

	posts, err := e.Extract(strings.NewReader("<html><body></body></html>"), time.Now())
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestExtractDocumentOrder(t *testing.T) {
	fixture := `<ul class="new-post">
	  <li class="article-list"><a href="/a/1" title="第一条"></a></li>
	  <li class="article-list"><a href="/a/2" title="第二条"></a></li>
	  <li class="article-list"><a href="/a/3" title="第三条"></a></li>
	</ul>`

	e := NewExtractor("https://new.ixbk.net")
	posts, err := e.Extract(strings.NewReader(fixture), time.Now())
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, "https://new.ixbk.net/a/1", posts[0].Link)
	assert.Equal(t, "https://new.ixbk.net/a/2", posts[1].Link)
	assert.Equal(t, "https://new.ixbk.net/a/3", posts[2].Link)
}

func TestResolveURL(t *testing.T) {
	e := NewExtractor("https://new.ixbk.net/")

	assert.Equal(t, "https://new.ixbk.net/article/1", e.ResolveURL("/article/1"))
	assert.Equal(t, "https://cdn.example.com/x", e.ResolveURL("https://cdn.example.com/x"))
}
