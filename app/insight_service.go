package app

import (
	"context"
	"time"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"levelup/domain/ledger"
	"levelup/models"
	"levelup/ports"
)

// trendWindowDays is how much recent history feeds the trend slope.
const trendWindowDays = 14

// InsightService computes the statistical read over study history:
// central tendency, day-over-day trend and the current streak. Pure
// reads, no mutations.
type InsightService struct {
	repo  *StateRepository
	clock ports.Clock
}

// NewInsightService builds the service.
func NewInsightService(repo *StateRepository, clock ports.Clock) *InsightService {
	return &InsightService{repo: repo, clock: clock}
}

// Insights summarizes the recent study record. With no history every
// figure is zero and the trend is flat.
func (s *InsightService) Insights(ctx context.Context) (*models.InsightView, error) {
	history, err := s.repo.History(ctx)
	if err != nil {
		return nil, err
	}

	stage := stageInfo(s.clock.Now().Month())
	view := &models.InsightView{
		TrendLabel:  "flat",
		StageName:   stage.Name,
		StageAdvice: stage.Advice,
	}
	if len(history) == 0 {
		return view, nil
	}

	minutes := make([]float64, 0, len(history))
	best := 0
	total := 0
	for _, day := range history {
		minutes = append(minutes, float64(day.StudyMinutes))
		total += day.StudyMinutes
		if day.StudyMinutes > best {
			best = day.StudyMinutes
		}
	}

	view.Days = len(history)
	view.TotalMinutes = total
	view.BestDayMinutes = best
	view.MeanMinutes, _ = stats.Mean(minutes)
	view.MedianMinutes, _ = stats.Median(minutes)
	if len(minutes) > 1 {
		view.StdDevMinutes, _ = stats.StandardDeviationSample(minutes)
	}

	view.TrendSlope, view.TrendLabel = s.trend(history)
	view.StreakDays = s.streak(history)

	if settings, ok, err := s.repo.Settings(ctx); err == nil && ok && settings.TargetHours > 0 {
		view.TargetHours = settings.TargetHours
		target := int(settings.TargetHours * 60)
		for _, day := range history {
			if day.StudyMinutes >= target {
				view.DaysOnTarget++
			}
		}
	}
	return view, nil
}

// trend fits a least-squares line over the last trendWindowDays of
// minutes, day index as x. Missing days count as zero: a gap in the
// record is a day not studied, not a day to skip.
func (s *InsightService) trend(history ledger.History) (float64, string) {
	today := s.clock.Today()
	xs := make([]float64, 0, trendWindowDays)
	ys := make([]float64, 0, trendWindowDays)
	for i := 0; i < trendWindowDays; i++ {
		date := today.AddDays(i - trendWindowDays + 1)
		m := 0
		if rec := history.Find(date); rec != nil {
			m = rec.StudyMinutes
		}
		xs = append(xs, float64(i))
		ys = append(ys, float64(m))
	}

	_, slope := stat.LinearRegression(xs, ys, nil, false)

	label := "flat"
	switch {
	case slope > 2:
		label = "rising"
	case slope < -2:
		label = "falling"
	}
	return slope, label
}

// streak counts consecutive studied days ending today, or yesterday if
// today has no minutes yet.
func (s *InsightService) streak(history ledger.History) int {
	day := s.clock.Today()
	if rec := history.Find(day); rec == nil || rec.StudyMinutes == 0 {
		day = day.Prev()
	}
	count := 0
	for {
		rec := history.Find(day)
		if rec == nil || rec.StudyMinutes == 0 {
			break
		}
		count++
		day = day.Prev()
	}
	return count
}

// StageInfo names the preparation phase the calendar sits in.
type StageInfo struct {
	Name   string
	Advice string
}

// stageInfo maps the month onto the usual postgraduate-exam preparation
// arc. The exam sits in late December; the arc restarts in spring.
func stageInfo(month time.Month) StageInfo {
	switch {
	case month >= time.March && month <= time.June:
		return StageInfo{
			Name:   "基础阶段",
			Advice: "打牢基础最重要，单词、数学基础概念和专业课教材过一遍。",
		}
	case month >= time.July && month <= time.August:
		return StageInfo{
			Name:   "强化阶段",
			Advice: "暑期是拉开差距的关键期，保持高强度刷题，政治可以开始了。",
		}
	case month >= time.September && month <= time.October:
		return StageInfo{
			Name:   "提高阶段",
			Advice: "真题为王，开始系统做真题并整理错题，各科齐头并进。",
		}
	case month >= time.November && month <= time.December:
		return StageInfo{
			Name:   "冲刺阶段",
			Advice: "背诵、模拟、查漏补缺，调整作息到考试节奏，稳住心态。",
		}
	default:
		return StageInfo{
			Name:   "规划阶段",
			Advice: "选好目标院校和专业，制定全年复习计划，先把英语单词背起来。",
		}
	}
}
