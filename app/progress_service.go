package app

import (
	"context"
	"fmt"
	"strings"

	"levelup/domain/classify"
	"levelup/domain/progression"
	"levelup/internal/errors"
	"levelup/models"
	"levelup/ports"
)

// maxProgressChars caps one subject's progress notes. Old content is
// trimmed from the top once the cap is hit, keeping the recent tail.
const maxProgressChars = 5000

// ProgressService maintains the per-subject learning progress board and
// assembles the progression overview (level, rank, hero power).
type ProgressService struct {
	repo       *StateRepository
	clock      ports.Clock
	classifier *classify.Classifier
}

// NewProgressService builds the service.
func NewProgressService(repo *StateRepository, clock ports.Clock, classifier *classify.Classifier) *ProgressService {
	return &ProgressService{repo: repo, clock: clock, classifier: classifier}
}

// Board returns the progress board with an entry for every subject on
// the classifier's board, even those never written to.
func (s *ProgressService) Board(ctx context.Context) (map[string]models.SubjectProgress, error) {
	board, err := s.repo.LearningProgress(ctx)
	if err != nil {
		return nil, err
	}
	for _, subject := range s.classifier.Subjects() {
		if _, ok := board[subject.Key]; !ok {
			board[subject.Key] = models.SubjectProgress{}
		}
	}
	return board, nil
}

// SetSubject replaces a subject's progress notes wholesale.
func (s *ProgressService) SetSubject(ctx context.Context, key, content string) error {
	if _, ok := s.classifier.SubjectByKey(key); !ok {
		return errors.NotFound(fmt.Sprintf("subject %q", key))
	}

	s.repo.Lock()
	defer s.repo.Unlock()

	board, err := s.repo.LearningProgress(ctx)
	if err != nil {
		return err
	}
	board[key] = models.SubjectProgress{
		Content:   capContent(content),
		UpdatedAt: s.clock.Now(),
	}
	return s.repo.SaveLearningProgress(ctx, board)
}

// AppendCheckIn appends a dated check-in line for a committed log to
// its classified subject. Logs that match no subject leave the board
// untouched; an identical line already present for today is not
// repeated.
func (s *ProgressService) AppendCheckIn(ctx context.Context, content string) (string, error) {
	match, ok := s.classifier.Classify(content)
	if !ok {
		return "", nil
	}

	s.repo.Lock()
	defer s.repo.Unlock()

	board, err := s.repo.LearningProgress(ctx)
	if err != nil {
		return "", err
	}

	line := fmt.Sprintf("[%s 打卡] %s", s.clock.Today(), strings.TrimSpace(content))
	entry := board[match.Subject.Key]
	if strings.Contains(entry.Content, line) {
		return match.Subject.Key, nil
	}

	if entry.Content != "" {
		entry.Content += "\n"
	}
	entry.Content = capContent(entry.Content + line)
	entry.UpdatedAt = s.clock.Now()
	board[match.Subject.Key] = entry

	if err := s.repo.SaveLearningProgress(ctx, board); err != nil {
		return "", err
	}
	return match.Subject.Key, nil
}

func capContent(content string) string {
	runes := []rune(content)
	if len(runes) <= maxProgressChars {
		return content
	}
	trimmed := string(runes[len(runes)-maxProgressChars:])
	if i := strings.IndexByte(trimmed, '\n'); i >= 0 && i < len(trimmed)-1 {
		trimmed = trimmed[i+1:]
	}
	return trimmed
}

// Overview assembles the full progression panel from history and the
// persisted counters. Level and rank are derived on demand; only the
// counters themselves are stored.
func (s *ProgressService) Overview(ctx context.Context) (*models.ProgressionView, error) {
	history, err := s.repo.History(ctx)
	if err != nil {
		return nil, err
	}
	state, err := s.repo.Progression(ctx)
	if err != nil {
		return nil, err
	}

	totalMinutes := history.TotalStudyMinutes()
	level := progression.ComputeLevelStats(totalMinutes)
	rank := progression.RankFromStars(state.TotalStars, nil)

	view := &models.ProgressionView{
		Level: models.LevelView{
			Level:            level.Level,
			Title:            level.Title,
			TotalXP:          totalMinutes * 100 / 60,
			XPIntoLevel:      level.CurrentXP,
			XPForNextLevel:   level.XPForNextLevel,
			ProgressFraction: level.ProgressPercent / 100,
		},
		Rank: models.RankView{
			TierName:       rank.TierName,
			SubTierLabel:   rank.SubTierLabel,
			Stars:          rank.Stars,
			StarsPerSub:    rank.StarsPerSub,
			TotalStars:     rank.TotalStars,
			PromotionMatch: rank.PromotionMatch,
			Display:        fmt.Sprintf("%s %s", rank.TierName, rank.SubTierLabel),
		},
		PeakScore:    state.PeakScore,
		PeakBonus:    progression.PeakBonus(state.PeakScore),
		TotalMinutes: totalMinutes,
		TotalHours:   float64(totalMinutes) / 60.0,
	}

	if rec := history.Find(s.clock.Today()); rec != nil {
		view.TodayMinutes = rec.StudyMinutes
	}

	for _, subject := range s.classifier.Subjects() {
		power := state.HeroPower[subject.Key]
		view.Heroes = append(view.Heroes, models.HeroView{
			Subject:    subject.Key,
			Name:       subject.Name,
			LaneFactor: subject.LaneFactor,
			Power:      power,
			Badge:      progression.BadgeForScore(power, nil).Label,
		})
	}
	return view, nil
}
