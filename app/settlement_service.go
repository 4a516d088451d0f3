package app

import (
	"context"
	"fmt"
	"time"

	"levelup/domain/ledger"
	"levelup/internal/api"
	"levelup/internal/config"
	"levelup/internal/logx"
	"levelup/models"
	"levelup/ports"
)

// SettlementService runs the daily rollover: once per calendar day the
// previous day's studied minutes become a star delta on the rank
// ladder. The persisted last-settled marker makes the rollover
// idempotent across restarts, crashes and overlapping triggers.
type SettlementService struct {
	repo     *StateRepository
	clock    ports.Clock
	hub      *api.Hub
	notifier ports.Notifier
	cfg      config.TimerConfig
	log      *logx.Logger
}

// NewSettlementService builds the rollover service.
func NewSettlementService(repo *StateRepository, clock ports.Clock, hub *api.Hub, notifier ports.Notifier, cfg config.TimerConfig, log *logx.Logger) *SettlementService {
	if log == nil {
		log = logx.Default
	}
	return &SettlementService{
		repo:     repo,
		clock:    clock,
		hub:      hub,
		notifier: notifier,
		cfg:      cfg,
		log:      log,
	}
}

// RunDaily settles yesterday if it has not been settled yet. Calling it
// any number of times within the same day is a no-op after the first.
func (s *SettlementService) RunDaily(ctx context.Context) (*models.SettlementView, error) {
	s.repo.Lock()
	defer s.repo.Unlock()

	today := s.clock.Today()
	yesterday := today.Prev()

	last, err := s.repo.LastSettledDate(ctx)
	if err != nil {
		return nil, err
	}
	if last >= yesterday {
		return &models.SettlementView{SettledDate: last, AlreadySettled: true}, nil
	}

	history, err := s.repo.History(ctx)
	if err != nil {
		return nil, err
	}
	state, err := s.repo.Progression(ctx)
	if err != nil {
		return nil, err
	}

	minutes := 0
	if rec := history.Find(yesterday); rec != nil {
		minutes = rec.StudyMinutes
	}

	result := ledger.Settle(ledger.SettlementInput{
		PreviousDate:         yesterday,
		PreviousMinutes:      minutes,
		TotalStars:           state.TotalStars,
		PromotionGateMinutes: s.cfg.PromotionGateMinutes,
	})
	state.TotalStars = result.TotalStars

	if err := s.repo.SaveProgression(ctx, state); err != nil {
		return nil, err
	}
	if err := s.repo.SaveLastSettledDate(ctx, yesterday); err != nil {
		return nil, err
	}

	s.log.Info("[SETTLE] %s: %d minutes -> %+d stars (total %d)", yesterday, minutes, result.AppliedDelta, result.TotalStars)
	s.hub.Broadcast(api.EventSettlement, map[string]interface{}{
		"settled_date":    string(result.SettledDate),
		"applied_delta":   result.AppliedDelta,
		"gate_suppressed": result.GateSuppressed,
		"total_stars":     result.TotalStars,
	})
	s.announce(ctx, result, minutes)

	return &models.SettlementView{
		SettledDate:    result.SettledDate,
		RawDelta:       result.RawDelta,
		AppliedDelta:   result.AppliedDelta,
		GateSuppressed: result.GateSuppressed,
		TotalStars:     result.TotalStars,
	}, nil
}

func (s *SettlementService) announce(ctx context.Context, result ledger.SettlementResult, minutes int) {
	if s.notifier == nil {
		return
	}
	var body string
	switch {
	case result.GateSuppressed:
		body = fmt.Sprintf("昨天学了 %d 分钟，但晋级赛要求更高的投入，星星没有入账", minutes)
	case result.AppliedDelta > 0:
		body = fmt.Sprintf("昨天学了 %d 分钟，+%d 星！", minutes, result.AppliedDelta)
	case result.AppliedDelta < 0:
		body = fmt.Sprintf("昨天只学了 %d 分钟，%d 星", minutes, result.AppliedDelta)
	default:
		body = fmt.Sprintf("昨天学了 %d 分钟，星星保持不变", minutes)
	}
	s.notifier.Notify(ctx, "每日结算", body)
}

// RunScheduler blocks until the context ends, running a rollover at
// startup and shortly after every local midnight.
func (s *SettlementService) RunScheduler(ctx context.Context) error {
	if _, err := s.RunDaily(ctx); err != nil {
		s.log.Warn("[SETTLE] startup rollover failed: %v", err)
	}

	for {
		now := s.clock.Now()
		next := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 5, 0, now.Location()).AddDate(0, 0, 1)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(next.Sub(now)):
			if _, err := s.RunDaily(ctx); err != nil {
				s.log.Warn("[SETTLE] rollover failed: %v", err)
			}
		}
	}
}
