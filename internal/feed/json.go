package feed

import (
	"encoding/json"
	"time"

	"woolfeed/internal/scrape"
)

// Document is the JSON feed shape.
type Document struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Link        string        `json:"link"`
	Updated     time.Time     `json:"updated"`
	Count       int           `json:"count"`
	Items       []scrape.Post `json:"items"`
}

// RenderJSON serializes the posts as an indented JSON document.
// Timestamps marshal as RFC 3339.
func RenderJSON(posts []scrape.Post, opts Options) ([]byte, error) {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	if posts == nil {
		posts = []scrape.Post{}
	}

	doc := Document{
		Title:       opts.Title,
		Description: opts.Description,
		Link:        opts.Link,
		Updated:     now,
		Count:       len(posts),
		Items:       posts,
	}
	return json.MarshalIndent(doc, "", "  ")
}
