package scrape

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	defaultCategory = "未分类"
	defaultAuthor   = "匿名"
)

var digitPattern = regexp.MustCompile(`\d+`)

// Extractor parses listing-page markup into post candidates.
type Extractor struct {
	Origin    string
	Selectors Selectors
}

// NewExtractor creates an extractor for the given site origin
func NewExtractor(origin string) *Extractor {
	return &Extractor{
		Origin:    strings.TrimSuffix(origin, "/"),
		Selectors: DefaultSelectors(),
	}
}

// Extract parses the listing markup and returns post candidates in
// document order. Items with an empty title or link are dropped.
// The reference time is used to resolve bare HH:MM timestamps.
func (e *Extractor) Extract(body io.Reader, now time.Time) ([]Post, error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("HTML parse error: %w", err)
	}

	var posts []Post
	doc.Find(e.Selectors.List).Each(func(i int, s *goquery.Selection) {
		if post := e.extractItem(s, now); post != nil {
			posts = append(posts, *post)
		}
	})

	return posts, nil
}

func (e *Extractor) extractItem(s *goquery.Selection, now time.Time) *Post {
	anchor := s.Find(e.Selectors.Anchor).First()
	if anchor.Length() == 0 {
		return nil
	}

	title := strings.TrimSpace(anchor.AttrOr("title", ""))
	link := strings.TrimSpace(anchor.AttrOr("href", ""))
	if title == "" || link == "" {
		return nil
	}
	link = e.ResolveURL(link)

	category := strings.TrimSpace(anchor.AttrOr(e.Selectors.CategoryAttr, ""))
	if category == "" {
		category = defaultCategory
	}

	excerpt := strings.TrimSpace(anchor.AttrOr(e.Selectors.ExcerptAttr, ""))
	if excerpt == "" {
		excerpt = title
	}

	author := strings.TrimSpace(anchor.AttrOr(e.Selectors.AuthorAttr, ""))
	if author == "" {
		author = defaultAuthor
	}

	rawTime := strings.TrimSpace(s.Find(e.Selectors.Time).First().Text())

	comments := 0
	if commentText := s.Find(e.Selectors.CommentCount).First().Text(); commentText != "" {
		if m := digitPattern.FindString(commentText); m != "" {
			comments, _ = strconv.Atoi(m)
		}
	}

	return &Post{
		Title:       title,
		Link:        link,
		Category:    category,
		Author:      author,
		Content:     excerpt,
		PublishedAt: NormalizeTime(rawTime, now),
		Comments:    comments,
	}
}

// ResolveURL resolves a path-absolute href against the site origin
func (e *Extractor) ResolveURL(link string) string {
	if strings.HasPrefix(link, "/") {
		return e.Origin + link
	}
	return link
}
