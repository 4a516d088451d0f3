package app

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"levelup/domain/classify"
	"levelup/domain/core"
	"levelup/domain/ledger"
	"levelup/domain/progression"
	"levelup/domain/timer"
	"levelup/internal/api"
	"levelup/internal/config"
	"levelup/internal/errors"
	"levelup/internal/logx"
	"levelup/models"
	"levelup/ports"
)

// TimerService owns the single active session and everything a session
// turns into: pending time awaiting a log, ledger commits, reward
// spending and hero-power gains. All mutations go through its mutex;
// the ticker, HTTP handlers and recovery all share one session.
type TimerService struct {
	repo       *StateRepository
	clock      ports.Clock
	hub        *api.Hub
	notifier   ports.Notifier
	classifier *classify.Classifier
	cfg        config.TimerConfig
	log        *logx.Logger

	mu      sync.Mutex
	session *timer.Session

	// pendingSeconds is completed focus or stopped overtime time that
	// has not been committed with a log yet. Elapsed time never reaches
	// the ledger without a log, so it parks here until Commit or an
	// explicit discard.
	pendingSeconds int
	pendingMode    timer.Mode
}

// NewTimerService builds the service and recovers any persisted session
// from its snapshot. A countdown that expired while the process was
// gone surfaces as pending time, not as a silently running timer.
func NewTimerService(repo *StateRepository, clock ports.Clock, hub *api.Hub, notifier ports.Notifier, classifier *classify.Classifier, cfg config.TimerConfig, log *logx.Logger) *TimerService {
	if log == nil {
		log = logx.Default
	}
	s := &TimerService{
		repo:       repo,
		clock:      clock,
		hub:        hub,
		notifier:   notifier,
		classifier: classifier,
		cfg:        cfg,
		log:        log,
		session:    timer.NewIdle(timer.ModeFocus, cfg.DefaultFocusMinutes*60),
	}
	s.recover(context.Background())
	return s
}

func (s *TimerService) recover(ctx context.Context) {
	snap, ok, err := s.repo.TimerSnapshot(ctx)
	if err != nil {
		s.log.Warn("[TIMER] snapshot load failed, starting idle: %v", err)
		return
	}
	if !ok {
		return
	}

	now := s.clock.Now()
	session, outcome := timer.Recover(snap, now)
	s.session = session

	switch outcome {
	case timer.RecoveredRunning:
		s.log.Info("[TIMER] recovered running %s session, %d seconds on the clock", session.Mode, session.Remaining(now))
		s.hub.Broadcast(api.EventTimerRecovered, map[string]interface{}{
			"mode":      string(session.Mode),
			"remaining": session.Remaining(now),
			"stale":     false,
		})
	case timer.RecoveredStale:
		s.log.Info("[TIMER] recovered %s session already expired", session.Mode)
		s.handleCompletion(ctx, now)
		s.hub.Broadcast(api.EventTimerRecovered, map[string]interface{}{
			"mode":  string(session.Mode),
			"stale": true,
		})
	default:
		s.log.Debug("[TIMER] recovered idle snapshot")
	}
	s.persistSnapshot(ctx, now)
}

// Start begins a new session. Focus and break take their duration from
// the request (falling back to the configured defaults); a reward
// session is gated on a positive balance and capped at it; overtime has
// no duration at all.
func (s *TimerService) Start(ctx context.Context, mode timer.Mode, minutes int) (*models.TimerState, error) {
	if !mode.Valid() {
		return nil, errors.InvalidInput(fmt.Sprintf("unknown session mode %q", mode))
	}

	s.repo.Lock()
	defer s.repo.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session.Status == timer.StatusRunning || s.session.Status == timer.StatusPaused {
		return nil, errors.InvalidInput("a session is already in progress")
	}
	if s.pendingSeconds > 0 {
		return nil, errors.InvalidInput("uncommitted session time pending, commit or discard it first")
	}

	seconds, err := s.sessionSeconds(ctx, mode, minutes)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	s.session = timer.NewIdle(mode, seconds)
	if err := s.session.Start(now); err != nil {
		return nil, err
	}
	s.persistSnapshot(ctx, now)
	return s.stateLocked(ctx, now), nil
}

func (s *TimerService) sessionSeconds(ctx context.Context, mode timer.Mode, minutes int) (int, error) {
	switch mode {
	case timer.ModeOvertime:
		return 0, nil
	case timer.ModeFocus:
		if minutes <= 0 {
			minutes = s.cfg.DefaultFocusMinutes
		}
	case timer.ModeBreak:
		if minutes <= 0 {
			minutes = s.cfg.DefaultBreakMinutes
		}
	case timer.ModeReward:
		today, err := s.todayRecord(ctx)
		if err != nil {
			return 0, err
		}
		if today.RewardBalanceMinutes <= 0 {
			return 0, errors.InsufficientBalance("no reward minutes available")
		}
		if minutes <= 0 || minutes > today.RewardBalanceMinutes {
			minutes = today.RewardBalanceMinutes
		}
	}
	if minutes <= 0 {
		return 0, errors.InvalidDuration("session duration must be positive")
	}
	return minutes * 60, nil
}

// Pause freezes the running session.
func (s *TimerService) Pause(ctx context.Context) (*models.TimerState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	if err := s.session.Pause(now); err != nil {
		return nil, err
	}
	s.persistSnapshot(ctx, now)
	return s.stateLocked(ctx, now), nil
}

// Resume restarts a paused session.
func (s *TimerService) Resume(ctx context.Context) (*models.TimerState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	if err := s.session.Resume(now); err != nil {
		return nil, err
	}
	s.persistSnapshot(ctx, now)
	return s.stateLocked(ctx, now), nil
}

// Stop ends the session early. What the elapsed time is worth depends
// on the mode: focus and break discard it, reward deducts it from the
// balance, overtime parks it as pending time awaiting its log.
func (s *TimerService) Stop(ctx context.Context) (*models.TimerState, error) {
	s.repo.Lock()
	defer s.repo.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	mode := s.session.Mode
	elapsed, err := s.session.Stop(now)
	if err != nil {
		return nil, err
	}

	switch mode {
	case timer.ModeReward:
		if err := s.spendReward(ctx, elapsed); err != nil {
			s.warn(err)
		}
	case timer.ModeOvertime:
		if elapsed >= 60 {
			s.pendingSeconds = elapsed
			s.pendingMode = timer.ModeOvertime
		}
	}

	s.session = timer.NewIdle(timer.ModeFocus, s.cfg.DefaultFocusMinutes*60)
	s.persistSnapshot(ctx, now)
	return s.stateLocked(ctx, now), nil
}

// RunTicker drives the session clock until the context ends. The tick
// only prompts a wall-clock re-check; missing ticks never loses time.
func (s *TimerService) RunTicker(ctx context.Context) error {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *TimerService) tick(ctx context.Context) {
	s.repo.Lock()
	defer s.repo.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session.Status != timer.StatusRunning {
		return
	}

	now := s.clock.Now()
	if s.session.Tick(now) {
		s.handleCompletion(ctx, now)
		s.persistSnapshot(ctx, now)
		return
	}

	s.hub.Broadcast(api.EventTimerTick, map[string]interface{}{
		"mode":      string(s.session.Mode),
		"remaining": s.session.Remaining(now),
		"display":   core.FormatClock(s.session.Remaining(now)),
	})
}

// handleCompletion settles a countdown that hit zero. Callers hold both
// locks.
func (s *TimerService) handleCompletion(ctx context.Context, now time.Time) {
	mode := s.session.Mode
	target := s.session.TargetSeconds

	switch mode {
	case timer.ModeFocus:
		s.pendingSeconds = target
		s.pendingMode = timer.ModeFocus
		s.notify(ctx, "专注完成", fmt.Sprintf("本次专注 %d 分钟，记录一下学了什么吧", target/60))
	case timer.ModeBreak:
		s.notify(ctx, "休息结束", "该回去学习了")
	case timer.ModeReward:
		if err := s.spendReward(ctx, target); err != nil {
			s.warn(err)
		}
		s.notify(ctx, "奖励时间结束", "奖励时间用完了，继续加油")
	}

	s.hub.Broadcast(api.EventTimerCompleted, map[string]interface{}{
		"mode":            string(mode),
		"target_seconds":  target,
		"pending_seconds": s.pendingSeconds,
	})
	s.session = timer.NewIdle(timer.ModeFocus, s.cfg.DefaultFocusMinutes*60)
}

// Commit turns pending session time into a ledger entry and its
// progression gains. The log content is required; it is what the
// classifier reads to credit a subject's hero power.
func (s *TimerService) Commit(ctx context.Context, content string) (*models.CommitResult, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.InvalidInput("log content is required")
	}

	s.repo.Lock()
	defer s.repo.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pendingSeconds <= 0 {
		return nil, errors.InvalidInput("no session time pending commit")
	}

	res, err := s.commitLocked(ctx, s.pendingSeconds, content, s.pendingMode)
	if err != nil {
		return nil, err
	}
	s.pendingSeconds = 0
	s.pendingMode = ""
	s.persistSnapshot(ctx, s.clock.Now())
	return res, nil
}

// ManualLog records study time entered by hand, outside any timed
// session. It flows through the same commit path as a completed timer.
func (s *TimerService) ManualLog(ctx context.Context, content string, minutes int) (*models.CommitResult, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.InvalidInput("log content is required")
	}
	if minutes <= 0 {
		return nil, errors.InvalidDuration("logged minutes must be positive")
	}

	s.repo.Lock()
	defer s.repo.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.commitLocked(ctx, minutes*60, content, timer.ModeFocus)
}

// DiscardPending drops uncommitted session time.
func (s *TimerService) DiscardPending(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingSeconds = 0
	s.pendingMode = ""
	s.persistSnapshot(ctx, s.clock.Now())
	return nil
}

func (s *TimerService) commitLocked(ctx context.Context, seconds int, content string, mode timer.Mode) (*models.CommitResult, error) {
	now := s.clock.Now()
	today := s.clock.Today()

	history, err := s.repo.History(ctx)
	if err != nil {
		return nil, err
	}
	record := history.Find(today)
	if record == nil {
		record = ledger.NewDayRecord(today)
	}
	minutes := record.Commit(seconds, content, now, s.cfg.RewardDivisor)
	history = history.Upsert(record)

	state, err := s.repo.Progression(ctx)
	if err != nil {
		return nil, err
	}

	result := &models.CommitResult{
		Date:            today,
		Minutes:         minutes,
		StudyMinutes:    record.StudyMinutes,
		RewardBalance:   record.RewardBalanceMinutes,
		TotalStudyHours: float64(history.TotalStudyMinutes()) / 60.0,
	}

	if match, ok := s.classifier.Classify(content); ok {
		gain := progression.HeroPowerGain(minutes, match.Subject.Key, match.Subject.LaneFactor, state.PeakScore)
		state.AddHeroPower(gain)
		result.Subject = match.Subject.Key
		result.SubjectName = match.Subject.Name
		result.PowerGain = gain.Points
	}
	if mode == timer.ModeOvertime {
		state.PeakScore += progression.OvertimePeakGain(minutes)
		result.PeakGain = progression.OvertimePeakGain(minutes)
	}

	if err := s.repo.SaveHistory(ctx, history); err != nil {
		s.warn(err)
	}
	if err := s.repo.SaveProgression(ctx, state); err != nil {
		s.warn(err)
	}

	s.hub.Broadcast(api.EventSessionCommitted, map[string]interface{}{
		"date":       string(today),
		"minutes":    minutes,
		"subject":    result.Subject,
		"power_gain": result.PowerGain,
	})
	return result, nil
}

// spendReward deducts consumed reward seconds from today's balance.
// Callers hold the repository lock.
func (s *TimerService) spendReward(ctx context.Context, seconds int) error {
	today := s.clock.Today()
	history, err := s.repo.History(ctx)
	if err != nil {
		return err
	}
	record := history.Find(today)
	if record == nil {
		record = ledger.NewDayRecord(today)
	}
	record.SpendReward(seconds)
	history = history.Upsert(record)
	return s.repo.SaveHistory(ctx, history)
}

// State reports the current session for the API.
func (s *TimerService) State(ctx context.Context) *models.TimerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked(ctx, s.clock.Now())
}

func (s *TimerService) stateLocked(ctx context.Context, now time.Time) *models.TimerState {
	remaining := s.session.Remaining(now)
	state := &models.TimerState{
		Mode:           string(s.session.Mode),
		Status:         string(s.session.Status),
		Remaining:      remaining,
		Elapsed:        s.session.Elapsed(now),
		TargetSeconds:  s.session.TargetSeconds,
		Display:        core.FormatClock(remaining),
		PendingSeconds: s.pendingSeconds,
		PendingMode:    string(s.pendingMode),
	}
	if today, err := s.todayRecord(ctx); err == nil {
		state.RewardBalanceMinutes = today.RewardBalanceMinutes
	}
	return state
}

// Today returns today's ledger record, empty if nothing was logged yet.
func (s *TimerService) Today(ctx context.Context) (*ledger.DayRecord, error) {
	return s.todayRecord(ctx)
}

// History returns the full per-day ledger, most recent first.
func (s *TimerService) History(ctx context.Context) (ledger.History, error) {
	return s.repo.History(ctx)
}

func (s *TimerService) todayRecord(ctx context.Context) (*ledger.DayRecord, error) {
	history, err := s.repo.History(ctx)
	if err != nil {
		return nil, err
	}
	if rec := history.Find(s.clock.Today()); rec != nil {
		return rec, nil
	}
	return ledger.NewDayRecord(s.clock.Today()), nil
}

// persistSnapshot writes the recovery image. Failures degrade to the
// repository overlay and a warning; they never block the session.
func (s *TimerService) persistSnapshot(ctx context.Context, now time.Time) {
	if err := s.repo.SaveTimerSnapshot(ctx, s.session.Snapshot(now)); err != nil {
		s.warn(err)
	}
}

func (s *TimerService) notify(ctx context.Context, title, body string) {
	if s.notifier != nil {
		s.notifier.Notify(ctx, title, body)
	}
}

func (s *TimerService) warn(err error) {
	s.log.Warn("[TIMER] %v", err)
	s.hub.Broadcast(api.EventWarning, map[string]interface{}{
		"code":    errors.GetCode(err),
		"message": err.Error(),
	})
}
