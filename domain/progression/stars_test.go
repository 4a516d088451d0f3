package progression

import "testing"

func TestDailyNetStars(t *testing.T) {
	tests := []struct {
		minutes int
		want    int
	}{
		{0, -4},
		{59, -4},
		{60, -3},
		{119, -3},
		{120, -2},
		{180, -1},
		{239, -1},
		{240, 0},
		{299, 0},
		{300, 1},
		{359, 1},
		{360, 1},
		{419, 1},
		{420, 2},
		{480, 3},
		{600, 5},
	}
	for _, tt := range tests {
		if got := DailyNetStars(tt.minutes); got != tt.want {
			t.Errorf("DailyNetStars(%d) = %d, want %d", tt.minutes, got, tt.want)
		}
	}
}

func TestRankFromStars_BronzeBoundaries(t *testing.T) {
	tests := []struct {
		name          string
		stars         int
		wantTier      string
		wantLabel     string
		wantStars     int
		wantPromotion bool
	}{
		{name: "fresh account sits at bronze III empty", stars: 0, wantTier: "倔强青铜", wantLabel: "III", wantStars: 0},
		{name: "one star into bronze III", stars: 1, wantTier: "倔强青铜", wantLabel: "III", wantStars: 1},
		{name: "exact multiple shows lower sub-tier full", stars: 3, wantTier: "倔强青铜", wantLabel: "III", wantStars: 3},
		{name: "four stars rolls into bronze II", stars: 4, wantTier: "倔强青铜", wantLabel: "II", wantStars: 1},
		{name: "tier capacity is a promotion match", stars: 9, wantTier: "倔强青铜", wantLabel: "I", wantStars: 3, wantPromotion: true},
		{name: "past capacity enters silver", stars: 10, wantTier: "秩序白银", wantLabel: "III", wantStars: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RankFromStars(tt.stars, nil)
			if got.TierName != tt.wantTier {
				t.Errorf("TierName = %q, want %q", got.TierName, tt.wantTier)
			}
			if got.SubTierLabel != tt.wantLabel {
				t.Errorf("SubTierLabel = %q, want %q", got.SubTierLabel, tt.wantLabel)
			}
			if got.Stars != tt.wantStars {
				t.Errorf("Stars = %d, want %d", got.Stars, tt.wantStars)
			}
			if got.PromotionMatch != tt.wantPromotion {
				t.Errorf("PromotionMatch = %v, want %v", got.PromotionMatch, tt.wantPromotion)
			}
		})
	}
}

func TestRankFromStars_KingIsUnbounded(t *testing.T) {
	total := 0
	for _, tier := range DefaultLadder {
		if tier.Unbounded {
			break
		}
		total += tier.Capacity()
	}

	got := RankFromStars(total+25, nil)
	if got.TierName != "最强王者" {
		t.Fatalf("TierName = %q, want 最强王者", got.TierName)
	}
	if got.Stars != 25 {
		t.Errorf("Stars = %d, want 25", got.Stars)
	}
	if got.PromotionMatch {
		t.Error("king tier should never report a promotion match")
	}
}

func TestApplyNetStars_FloorsAtZero(t *testing.T) {
	if got := ApplyNetStars(2, -5); got != 0 {
		t.Errorf("ApplyNetStars(2, -5) = %d, want 0", got)
	}
	if got := ApplyNetStars(7, 3); got != 10 {
		t.Errorf("ApplyNetStars(7, 3) = %d, want 10", got)
	}
}
