package progression

import "testing"

func TestHeroPowerGain(t *testing.T) {
	tests := []struct {
		name       string
		minutes    int
		multiplier float64
		peakScore  int
		wantPoints int
	}{
		{name: "base rate", minutes: 45, multiplier: 1.0, peakScore: 0, wantPoints: 450},
		{name: "math lane factor", minutes: 45, multiplier: 1.2, peakScore: 0, wantPoints: 540},
		{name: "peak bonus amplifies", minutes: 60, multiplier: 1.0, peakScore: 500, wantPoints: 900},
		{name: "fractional product floors", minutes: 7, multiplier: 1.1, peakScore: 0, wantPoints: 77},
		{name: "zero minutes", minutes: 0, multiplier: 1.2, peakScore: 100, wantPoints: 0},
		{name: "invalid multiplier falls back to 1", minutes: 10, multiplier: 0, peakScore: 0, wantPoints: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HeroPowerGain(tt.minutes, "math", tt.multiplier, tt.peakScore)
			if got.Points != tt.wantPoints {
				t.Errorf("Points = %d, want %d", got.Points, tt.wantPoints)
			}
		})
	}
}

func TestPeakBonus(t *testing.T) {
	if got := PeakBonus(0); got != 1.0 {
		t.Errorf("PeakBonus(0) = %v, want 1.0", got)
	}
	if got := PeakBonus(1000); got != 2.0 {
		t.Errorf("PeakBonus(1000) = %v, want 2.0", got)
	}
	if got := PeakBonus(-50); got != 1.0 {
		t.Errorf("PeakBonus(-50) = %v, want 1.0", got)
	}
}

func TestOvertimePeakGain(t *testing.T) {
	if got := OvertimePeakGain(90); got != 90 {
		t.Errorf("OvertimePeakGain(90) = %d, want 90", got)
	}
	if got := OvertimePeakGain(-5); got != 0 {
		t.Errorf("OvertimePeakGain(-5) = %d, want 0", got)
	}
}

func TestBadgeForScore(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{0, "新秀"},
		{999, "新秀"},
		{1000, "精英"},
		{5000, "史诗"},
		{20000, "荣耀"},
		{50000, "无双"},
		{100000, "荣耀典藏"},
		{250000, "荣耀典藏"},
	}
	for _, tt := range tests {
		if got := BadgeForScore(tt.score, nil); got.Label != tt.want {
			t.Errorf("BadgeForScore(%d) = %q, want %q", tt.score, got.Label, tt.want)
		}
	}
}

func TestStateAddHeroPower(t *testing.T) {
	state := NewState()
	state.AddHeroPower(PowerGain{Subject: "cs", Points: 495})
	state.AddHeroPower(PowerGain{Subject: "cs", Points: 100})
	if state.HeroPower["cs"] != 595 {
		t.Errorf("HeroPower[cs] = %d, want 595", state.HeroPower["cs"])
	}

	// A nil map from an old persisted document must not panic.
	state = &State{}
	state.AddHeroPower(PowerGain{Subject: "math", Points: 10})
	if state.HeroPower["math"] != 10 {
		t.Errorf("HeroPower[math] = %d, want 10", state.HeroPower["math"])
	}
}
