package scrape

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func scoreNow() time.Time {
	return time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)
}

func TestScoreBaseline(t *testing.T) {
	// Nothing matches: plain base score
	got := Score("普通内容", "没有关键词", "未分类", 0, "", scoreNow())
	assert.Equal(t, 50, got)
}

func TestScorePlatformAndCategoryMultiplier(t *testing.T) {
	// +10 for the platform keyword, then the category multiplier
	got := Score("满1元送京东卡", "前往活动页面下单", "京东", 0, "", scoreNow())
	assert.Equal(t, 72, got) // (50+10) * 1.2
}

func TestScoreBonusGroups(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		expected int
	}{
		{"physical goods", "包邮送实物", 70},
		{"phone credit", "免费领话费", 65},
		{"cash envelope", "抢现金红包", 62},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Score(tc.title, "", "未分类", 0, "", scoreNow())
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestScoreBonusGroupCountsOnce(t *testing.T) {
	// Both words of one group appear, the group still adds once
	got := Score("实物商品专区", "", "未分类", 0, "", scoreNow())
	assert.Equal(t, 70, got)
}

func TestScorePenalties(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		expected int
	}{
		{"bargain cut", "砍价得好礼", 20},
		{"team up", "组队瓜分奖池", 35},
		{"assist", "好友助力得奖励", 25},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Score(tc.title, "", "未分类", 0, "", scoreNow())
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestScoreInvitePenaltiesStack(t *testing.T) {
	// 邀请好友 matches both its own group and the bare 邀请 group
	got := Score("邀请好友得红包", "", "未分类", 0, "", scoreNow())
	assert.Equal(t, 12, got) // 50 + 12 - 30 - 20
}

func TestScoreCommentBonus(t *testing.T) {
	now := scoreNow()
	assert.Equal(t, 55, Score("普通内容", "", "未分类", 10, "", now))
	assert.Equal(t, 60, Score("普通内容", "", "未分类", 20, "", now))
	// Capped at 10
	assert.Equal(t, 60, Score("普通内容", "", "未分类", 500, "", now))
}

func TestScoreFreshness(t *testing.T) {
	now := scoreNow() // 14:30

	assert.Equal(t, 60, Score("普通内容", "", "未分类", 0, "13:05", now))
	assert.Equal(t, 60, Score("普通内容", "", "未分类", 0, "16:00", now))
	assert.Equal(t, 50, Score("普通内容", "", "未分类", 0, "10:00", now))
}

func TestScoreMultipliersCompound(t *testing.T) {
	// 话费 in text, 京东 via category, then both category multipliers
	got := Score("充话费优惠", "", "京东话费", 0, "", scoreNow())
	assert.Equal(t, 100, got) // (50+15+10) * 1.2 * 1.3, clamped
}

func TestScoreClamp(t *testing.T) {
	now := scoreNow()

	high := Score("实物话费红包 京东 淘宝 拼多多", "", "话费", 40, "14:00", now)
	assert.Equal(t, 100, high)

	low := Score("砍价拉人助力邀请组队", "", "未分类", 0, "", now)
	assert.Equal(t, 0, low)
}
