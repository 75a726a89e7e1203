package scrape

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Keyword groups for the quality heuristic. Checked as case-insensitive
// substrings of title+content.
var (
	bonusGroups = []struct {
		words  []string
		points float64
	}{
		{[]string{"实物", "商品"}, 20},
		{[]string{"话费", "充值"}, 15},
		{[]string{"红包", "现金"}, 12},
	}

	penaltyGroups = []struct {
		words  []string
		points float64
	}{
		{[]string{"砍价"}, 30},
		{[]string{"拉人", "邀请好友"}, 30},
		{[]string{"助力"}, 25},
		{[]string{"邀请"}, 20},
		{[]string{"组队"}, 15},
	}

	categoryWeights = []struct {
		word   string
		factor float64
	}{
		{"京东", 1.2},
		{"话费", 1.3},
		{"淘宝", 1.1},
	}
)

// Score computes the heuristic desirability score for a post. The
// result is always an integer in [0,100].
func Score(title, content, category string, comments int, rawTime string, now time.Time) int {
	score := 50.0

	text := strings.ToLower(title + " " + content)

	for _, g := range bonusGroups {
		if containsAny(text, g.words) {
			score += g.points
		}
	}

	// Platform keywords match against text or category, independently
	if strings.Contains(text, "京东") || strings.Contains(category, "京东") {
		score += 10
	}
	if strings.Contains(text, "天猫") || strings.Contains(text, "淘宝") {
		score += 10
	}
	if strings.Contains(text, "拼多多") {
		score += 10
	}

	score += math.Min(float64(comments)*0.5, 10)

	// Freshness: posted within 2 hours of now
	if m := clockPattern.FindStringSubmatch(rawTime); m != nil {
		hour, _ := strconv.Atoi(m[1])
		diff := now.Hour() - hour
		if diff < 0 {
			diff = -diff
		}
		if diff <= 2 {
			score += 10
		}
	}

	for _, g := range penaltyGroups {
		if containsAny(text, g.words) {
			score -= g.points
		}
	}

	// Category multipliers compound when several match
	for _, w := range categoryWeights {
		if strings.Contains(category, w.word) {
			score *= w.factor
		}
	}

	return int(math.Round(math.Max(0, math.Min(100, score))))
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
