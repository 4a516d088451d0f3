package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"levelup/domain/ledger"
)

func seedYesterday(t *testing.T, f *fixture, minutes int) {
	t.Helper()
	history := ledger.History{}
	history = history.Upsert(&ledger.DayRecord{
		Date:         f.clock.Today().Prev(),
		StudyMinutes: minutes,
	})
	require.NoError(t, f.repo.SaveHistory(context.Background(), history))
}

func TestSettlement_AppliesYesterdaysDelta(t *testing.T) {
	f := newFixture()
	seedYesterday(t, f, 300) // 5h -> +1 star

	result, err := f.settlement().RunDaily(context.Background())
	require.NoError(t, err)
	assert.False(t, result.AlreadySettled)
	assert.Equal(t, 1, result.AppliedDelta)
	assert.Equal(t, 1, result.TotalStars)

	state, err := f.repo.Progression(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, state.TotalStars)
}

func TestSettlement_Idempotent(t *testing.T) {
	f := newFixture()
	seedYesterday(t, f, 300)
	svc := f.settlement()
	ctx := context.Background()

	first, err := svc.RunDaily(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, first.TotalStars)

	// Any number of repeats within the same day change nothing.
	for i := 0; i < 3; i++ {
		again, err := svc.RunDaily(ctx)
		require.NoError(t, err)
		assert.True(t, again.AlreadySettled)
	}

	state, err := f.repo.Progression(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, state.TotalStars)
}

func TestSettlement_RunsAgainNextDay(t *testing.T) {
	f := newFixture()
	seedYesterday(t, f, 300)
	svc := f.settlement()
	ctx := context.Background()

	_, err := svc.RunDaily(ctx)
	require.NoError(t, err)

	// Cross midnight; the day just settled becomes "yesterday" with no
	// record, so the zero-minute penalty applies.
	f.clock.Advance(24 * time.Hour)
	result, err := svc.RunDaily(ctx)
	require.NoError(t, err)
	assert.False(t, result.AlreadySettled)
	assert.Equal(t, -4, result.RawDelta)
	assert.Equal(t, 0, result.TotalStars, "total floors at zero")
}

func TestSettlement_PromotionGateSuppression(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	// Park the counter on a promotion match.
	state, err := f.repo.Progression(ctx)
	require.NoError(t, err)
	state.TotalStars = 9
	require.NoError(t, f.repo.SaveProgression(ctx, state))

	seedYesterday(t, f, 300) // earns +1 raw, below the 480-minute gate

	result, err := f.settlement().RunDaily(ctx)
	require.NoError(t, err)
	assert.True(t, result.GateSuppressed)
	assert.Equal(t, 0, result.AppliedDelta)
	assert.Equal(t, 9, result.TotalStars)
}

func TestSettlement_PersistedMarkerSurvivesRestart(t *testing.T) {
	f := newFixture()
	seedYesterday(t, f, 480)
	ctx := context.Background()

	_, err := f.settlement().RunDaily(ctx)
	require.NoError(t, err)

	// A fresh service over the same store sees the marker.
	result, err := f.settlement().RunDaily(ctx)
	require.NoError(t, err)
	assert.True(t, result.AlreadySettled)
}

func TestSettlement_RewardBalanceDoesNotCarry(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	// Yesterday ended with unspent reward minutes.
	history := ledger.History{}
	history = history.Upsert(&ledger.DayRecord{
		Date:                 f.clock.Today().Prev(),
		StudyMinutes:         300,
		RewardBalanceMinutes: 30,
	})
	require.NoError(t, f.repo.SaveHistory(ctx, history))

	_, err := f.settlement().RunDaily(ctx)
	require.NoError(t, err)

	// Today's record starts from zero balance; yesterday's leftover is
	// never consulted.
	timers := f.timers()
	_, err = timers.Start(ctx, "reward", 10)
	require.Error(t, err)
}
