package scrape

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"woolfeed/helpers"
	"woolfeed/logger"
	apperrors "woolfeed/pkg/errors"
)

const noDetailPlaceholder = "无详细内容"

var (
	scriptPattern   = regexp.MustCompile(`(?is)<script[\s\S]*?</script>`)
	stylePattern    = regexp.MustCompile(`(?is)<style[\s\S]*?</style>`)
	brPattern       = regexp.MustCompile(`(?i)<br[^>]*>`)
	closePPattern   = regexp.MustCompile(`(?i)</p>`)
	tagPattern      = regexp.MustCompile(`<[^>]+>`)
	newlinesPattern = regexp.MustCompile(`\n\s*\n\s*\n+`)
)

// Detail holds the enrichment result for a single post.
type Detail struct {
	Content      string
	Images       []string
	CommentLinks []string
}

// Enricher fetches post detail pages and extracts their content.
type Enricher struct {
	Fetch FetchFunc
	log   *logger.Logger
}

// NewEnricher creates an enricher using the given fetch function
func NewEnricher(fetch FetchFunc) *Enricher {
	return &Enricher{
		Fetch: fetch,
		log:   logger.ForScraper(),
	}
}

// Enrich fetches a post's detail page and extracts its full content,
// image URLs and comment-section links. Returns nil on any fetch or
// parse failure; the caller keeps the post's excerpt in that case.
func (e *Enricher) Enrich(link string) *Detail {
	body, err := e.Fetch(link)
	if err != nil {
		e.log.Debug().Err(apperrors.NewNetwork("detail", "fetch failed", err)).Str("link", link).Msg("keeping excerpt")
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		e.log.Debug().Err(apperrors.NewParsing("detail", "bad markup", err)).Str("link", link).Msg("keeping excerpt")
		return nil
	}

	detail := &Detail{}
	var parts []string

	container := doc.Find("div.article-content").First()
	if container.Length() > 0 {
		// Images are collected before the markup is stripped
		container.Find("img").Each(func(i int, s *goquery.Selection) {
			if src, ok := s.Attr("src"); ok && src != "" {
				detail.Images = append(detail.Images, src)
			}
		})

		if text := containerText(container); text != "" {
			parts = append(parts, text)
		}
	}

	if len(detail.Images) > 0 {
		lines := make([]string, 0, len(detail.Images))
		for i, img := range detail.Images {
			lines = append(lines, fmt.Sprintf("[图%d] %s", i+1, img))
		}
		parts = append(parts, "📷 图片:\n"+strings.Join(lines, "\n"))
	}

	if href := sourceLink(doc); href != "" {
		parts = append(parts, "🔗 原文链接: "+href)
	}

	detail.CommentLinks = ExtractCommentLinks(doc)

	detail.Content = strings.Join(parts, "\n\n")
	if detail.Content == "" {
		detail.Content = noDetailPlaceholder
	}

	return detail
}

// containerText turns the container's inner markup into plain text:
// scripts and styles are dropped, break and paragraph-closing tags
// become newlines, remaining tags are stripped, entities decoded, and
// runs of 3+ newlines collapse to 2.
func containerText(container *goquery.Selection) string {
	html, err := container.Html()
	if err != nil {
		return ""
	}

	text := scriptPattern.ReplaceAllString(html, "")
	text = stylePattern.ReplaceAllString(text, "")
	text = brPattern.ReplaceAllString(text, "\n")
	text = closePPattern.ReplaceAllString(text, "\n\n")
	text = tagPattern.ReplaceAllString(text, "")
	text = helpers.DecodeEntities(text)
	text = newlinesPattern.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// sourceLink finds the href of an anchor literally labeled 原文地址
func sourceLink(doc *goquery.Document) string {
	var href string
	doc.Find("a").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if strings.TrimSpace(s.Text()) == "原文地址" {
			href, _ = s.Attr("href")
			return false
		}
		return true
	})
	return href
}
