package progression

import "testing"

func TestComputeLevelStats(t *testing.T) {
	tests := []struct {
		name         string
		totalMinutes int
		wantLevel    int
		wantTitle    string
	}{
		{name: "zero minutes", totalMinutes: 0, wantLevel: 1, wantTitle: "考研萌新"},
		{name: "just below first threshold", totalMinutes: 59, wantLevel: 1, wantTitle: "考研萌新"},
		{name: "one hour crosses level 1", totalMinutes: 60, wantLevel: 2, wantTitle: "考研萌新"},
		{name: "negative clamps to zero", totalMinutes: -30, wantLevel: 1, wantTitle: "考研萌新"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeLevelStats(tt.totalMinutes)
			if got.Level != tt.wantLevel {
				t.Errorf("Level = %d, want %d", got.Level, tt.wantLevel)
			}
			if got.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", got.Title, tt.wantTitle)
			}
		})
	}
}

func TestComputeLevelStats_Monotonic(t *testing.T) {
	prev := ComputeLevelStats(0)
	for minutes := 10; minutes <= 60000; minutes += 10 {
		got := ComputeLevelStats(minutes)
		if got.Level < prev.Level {
			t.Fatalf("level decreased from %d to %d at %d minutes", prev.Level, got.Level, minutes)
		}
		if got.CurrentXP >= got.XPForNextLevel {
			t.Fatalf("residual XP %d not below threshold %d at %d minutes", got.CurrentXP, got.XPForNextLevel, minutes)
		}
		prev = got
	}
}

func TestComputeLevelStats_ThresholdGrows(t *testing.T) {
	// 100 XP for level 1->2, then floor(100*1.1)=110, then floor(110*1.1)=121.
	got := ComputeLevelStats(60) // exactly 100 XP
	if got.Level != 2 {
		t.Fatalf("Level = %d, want 2", got.Level)
	}
	if got.CurrentXP != 0 {
		t.Errorf("CurrentXP = %d, want 0", got.CurrentXP)
	}
	if got.XPForNextLevel != 110 {
		t.Errorf("XPForNextLevel = %d, want 110", got.XPForNextLevel)
	}
}

func TestTitleBrackets(t *testing.T) {
	tests := []struct {
		level int
		want  string
	}{
		{5, "考研萌新"},
		{6, "自律学徒"},
		{20, "专注达人"},
		{35, "学术精英"},
		{50, "卷王之王"},
		{70, "准研究生"},
		{71, "学术泰斗"},
	}
	for _, tt := range tests {
		if got := titleForLevel(tt.level); got != tt.want {
			t.Errorf("titleForLevel(%d) = %q, want %q", tt.level, got, tt.want)
		}
	}
}
