package scrape

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const maxCommentBlocks = 10

var bareURLPattern = regexp.MustCompile(`https?://[^\s<>"{}|\\^` + "`" + `\[\]]+`)

// redeemKeywords marks comments that describe how to claim a deal even
// when they carry no link.
var redeemKeywords = []string{
	"口令", "密令", "链接", "进入", "搜索", "打开", "复制", "淘宝", "京东", "拼多多",
}

// ExtractCommentLinks scans the detail page's comment section and
// returns up to one batch of supplementary entries from the first 10
// comment blocks. Each entry is prefixed with the 1-based index of the
// comment it came from; the index advances once per comment block even
// when the block contributes nothing. A URL is never listed twice for
// the same post.
func ExtractCommentLinks(doc *goquery.Document) []string {
	list := doc.Find("div.comment-list").First()
	if list.Length() == 0 {
		return nil
	}

	var entries []string
	seen := make(map[string]bool)

	list.Find("div.ul").EachWithBreak(func(i int, block *goquery.Selection) bool {
		if i >= maxCommentBlocks {
			return false
		}
		index := i + 1

		content := block.Find("div.c-neirong").First()
		if content.Length() == 0 {
			return true
		}

		contributed := 0

		// Anchor href/text pairs inside the comment body
		content.Find("a").Each(func(_ int, a *goquery.Selection) {
			href, ok := a.Attr("href")
			if !ok || href == "" || strings.HasPrefix(href, "#") {
				return
			}
			label := strings.TrimSpace(a.Text())
			if label == "" {
				label = "链接"
			}
			entries = append(entries, fmt.Sprintf("[%d] %s: %s", index, label, href))
			seen[href] = true
			contributed++
		})

		// Bare URLs in the comment's plain text
		text := content.Text()
		for _, u := range bareURLPattern.FindAllString(text, -1) {
			if seen[u] {
				continue
			}
			entries = append(entries, fmt.Sprintf("[%d] %s", index, u))
			seen[u] = true
			contributed++
		}

		// Keyword fallback: the comment likely explains how to redeem
		if contributed == 0 && containsAny(text, redeemKeywords) {
			short := strings.TrimSpace(truncateRunes(text, 200))
			if len([]rune(short)) > 10 {
				entries = append(entries, fmt.Sprintf("[%d] %s", index, short))
			}
		}

		return true
	})

	return entries
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
