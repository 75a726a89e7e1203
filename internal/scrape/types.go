package scrape

import (
	"io"
	"time"
)

// Post represents a single deal post scraped from the listing page.
// Link doubles as the post's identity in the dedup ledger.
type Post struct {
	Title        string    `json:"title"`
	Link         string    `json:"link"`
	Category     string    `json:"category"`
	Author       string    `json:"author,omitempty"`
	Content      string    `json:"content"`
	PublishedAt  time.Time `json:"publish_time"`
	Comments     int       `json:"comments,omitempty"`
	Images       []string  `json:"images,omitempty"`
	CommentLinks []string  `json:"links,omitempty"`
	QualityScore int       `json:"quality_score,omitempty"`
}

// FetchFunc fetches a URL and returns its body as UTF-8 text.
type FetchFunc func(url string) (io.Reader, error)

// Selectors contains CSS selectors and attribute names for the
// elements of a listing item
type Selectors struct {
	List         string
	Anchor       string
	Time         string
	CommentCount string
	CategoryAttr string
	ExcerptAttr  string
	AuthorAttr   string
}

// DefaultSelectors returns the selector set for the source site's
// listing markup.
func DefaultSelectors() Selectors {
	return Selectors{
		List:         "ul.new-post li.article-list",
		Anchor:       "a",
		Time:         "time.badge",
		CommentCount: "span.badge.com",
		CategoryAttr: "data-catename",
		ExcerptAttr:  "data-content",
		AuthorAttr:   "data-louzhu",
	}
}
