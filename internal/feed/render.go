// Package feed renders post batches as RSS 2.0 XML or JSON.
package feed

import (
	"fmt"
	"strings"
	"time"

	"woolfeed/internal/scrape"
)

// rfc2822 matches the Date header style RSS readers expect
const rfc2822 = "Mon, 02 Jan 2006 15:04:05 GMT"

// Options carries the channel-level fields for a render pass.
type Options struct {
	Title       string
	Description string
	Link        string
	SelfLink    string
	Language    string

	// Incremental-run statistics, embedded in the channel description
	// when Incremental is set
	ShowAll      bool
	Incremental  bool
	NewCount     int
	TotalTracked int
	LastUpdate   time.Time
	Location     *time.Location

	Now time.Time
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// cdataEscaper deliberately preserves < and > so HTML fragments inside
// CDATA blocks keep their markup
var cdataEscaper = strings.NewReplacer(
	"&", "&amp;",
	`"`, "&quot;",
	"'", "&#39;",
)

// EscapeXML escapes text placed in XML elements or attributes
func EscapeXML(s string) string {
	return xmlEscaper.Replace(s)
}

// EscapeCDATA escapes text embedded in an HTML fragment inside CDATA
func EscapeCDATA(s string) string {
	return cdataEscaper.Replace(s)
}

// RenderRSS serializes the posts as an RSS 2.0 document with an atom
// self-link.
func RenderRSS(posts []scrape.Post, opts Options) string {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	title := opts.Title
	if opts.ShowAll {
		title += " (全部)"
	} else if opts.Incremental {
		title += " (增量)"
	}

	description := opts.Description
	if opts.ShowAll {
		description += fmt.Sprintf(" | 显示全部 %d 条", len(posts))
	} else if opts.Incremental {
		description += fmt.Sprintf(" | 本次更新: %d 条新内容", opts.NewCount)
		if opts.TotalTracked > 0 {
			description += fmt.Sprintf(" | 已追踪: %d 条", opts.TotalTracked)
		}
		if !opts.LastUpdate.IsZero() {
			loc := opts.Location
			if loc == nil {
				loc = time.UTC
			}
			description += " | 上次更新: " + opts.LastUpdate.In(loc).Format("2006-01-02 15:04:05")
		}
	}

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">` + "\n")
	b.WriteString("  <channel>\n")
	fmt.Fprintf(&b, "    <title>%s</title>\n", EscapeXML(title))
	fmt.Fprintf(&b, "    <link>%s</link>\n", EscapeXML(opts.Link))
	fmt.Fprintf(&b, "    <description>%s</description>\n", EscapeXML(description))
	fmt.Fprintf(&b, "    <language>%s</language>\n", opts.Language)
	fmt.Fprintf(&b, "    <lastBuildDate>%s</lastBuildDate>\n", now.UTC().Format(rfc2822))
	fmt.Fprintf(&b, "    <atom:link href=%q rel=\"self\" type=\"application/rss+xml\"/>\n", opts.SelfLink)

	for _, p := range posts {
		b.WriteString("    <item>\n")
		fmt.Fprintf(&b, "      <title><![CDATA[%s]]></title>\n", p.Title)
		fmt.Fprintf(&b, "      <link>%s</link>\n", EscapeXML(p.Link))
		fmt.Fprintf(&b, "      <description><![CDATA[%s]]></description>\n", itemDescription(p))
		fmt.Fprintf(&b, "      <category>%s</category>\n", EscapeXML(p.Category))
		fmt.Fprintf(&b, "      <pubDate>%s</pubDate>\n", p.PublishedAt.UTC().Format(rfc2822))
		fmt.Fprintf(&b, "      <guid isPermaLink=\"true\">%s</guid>\n", EscapeXML(p.Link))
		b.WriteString("    </item>\n")
	}

	b.WriteString("  </channel>\n")
	b.WriteString("</rss>\n")
	return b.String()
}

// itemDescription builds the HTML fragment placed inside the item's
// CDATA block.
func itemDescription(p scrape.Post) string {
	var b strings.Builder

	fmt.Fprintf(&b, "<p><strong>分类:</strong> %s</p><hr>", EscapeCDATA(p.Category))

	content := EscapeCDATA(p.Content)
	content = strings.ReplaceAll(content, "\n", "<br>")
	fmt.Fprintf(&b, "<p>%s</p>", content)

	if len(p.Images) > 0 {
		b.WriteString("<p><strong>📷 图片:</strong></p>")
		for _, img := range p.Images {
			fmt.Fprintf(&b, "<p><img src=%q referrerpolicy=\"no-referrer\"></p>", EscapeCDATA(img))
		}
	}

	if len(p.CommentLinks) > 0 {
		b.WriteString("<p><strong>💬 评论区补充:</strong><br>")
		escaped := make([]string, 0, len(p.CommentLinks))
		for _, l := range p.CommentLinks {
			escaped = append(escaped, EscapeCDATA(l))
		}
		b.WriteString(strings.Join(escaped, "<br>"))
		b.WriteString("</p>")
	}

	fmt.Fprintf(&b, "<p><a href=%q>查看原文</a></p>", EscapeCDATA(p.Link))
	return b.String()
}
