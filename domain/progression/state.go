package progression

// State holds the persisted progression counters. Unlike level and rank
// display values, which are recomputed on demand, these are running
// totals: they only move through settlement, commits and explicit
// resets.
type State struct {
	TotalStars int            `json:"total_stars"`
	PeakScore  int            `json:"peak_score"`
	HeroPower  map[string]int `json:"hero_power"`
}

// NewState returns zeroed progression counters.
func NewState() *State {
	return &State{HeroPower: make(map[string]int)}
}

// AddHeroPower folds a session's power gain into the per-subject total.
func (s *State) AddHeroPower(gain PowerGain) {
	if s.HeroPower == nil {
		s.HeroPower = make(map[string]int)
	}
	s.HeroPower[gain.Subject] += gain.Points
}
