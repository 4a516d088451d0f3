package app

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"levelup/internal/logx"
)

func TestBackup_ExportImportRoundTrip(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	// Build some state through the real services.
	timers := f.timers()
	_, err := timers.ManualLog(ctx, "复习了数据结构", 120)
	require.NoError(t, err)

	backups := NewBackupService(f.repo, f.clock, logx.NewDefaultLogger())
	doc, err := backups.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, doc.Version)
	require.Len(t, doc.History, 1)

	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	// Restore into a clean store.
	g := newFixture()
	fresh := NewBackupService(g.repo, g.clock, logx.NewDefaultLogger())
	require.NoError(t, fresh.Import(ctx, raw))

	history, err := g.repo.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 120, history[0].StudyMinutes)

	state, err := g.repo.Progression(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1320, state.HeroPower["cs"])
}

func TestBackup_ImportLegacyBareArray(t *testing.T) {
	f := newFixture()
	backups := NewBackupService(f.repo, f.clock, logx.NewDefaultLogger())

	legacy := []byte(`[
		{"date":"2026-08-30","study_minutes":200,"reward_balance_minutes":20,"reward_used_minutes":0,"logs":[]},
		{"date":"2026-08-31","study_minutes":310,"reward_balance_minutes":31,"reward_used_minutes":5,"logs":[]}
	]`)
	require.NoError(t, backups.Import(context.Background(), legacy))

	history, err := f.repo.History(context.Background())
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "2026-08-31", history[0].Date.String(), "import re-sorts most recent first")
}

func TestBackup_ImportDropsDuplicateDates(t *testing.T) {
	f := newFixture()
	backups := NewBackupService(f.repo, f.clock, logx.NewDefaultLogger())

	payload := []byte(`{"version":1,"history":[
		{"date":"2026-08-31","study_minutes":100,"logs":[]},
		{"date":"2026-08-31","study_minutes":999,"logs":[]}
	]}`)
	require.NoError(t, backups.Import(context.Background(), payload))

	history, err := f.repo.History(context.Background())
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 100, history[0].StudyMinutes, "first occurrence wins")
}

func TestBackup_ImportRejectsGarbage(t *testing.T) {
	f := newFixture()
	backups := NewBackupService(f.repo, f.clock, logx.NewDefaultLogger())
	ctx := context.Background()

	assert.Error(t, backups.Import(ctx, nil))
	assert.Error(t, backups.Import(ctx, []byte("not json")))
	assert.Error(t, backups.Import(ctx, []byte(`{"version":99}`)), "newer versions refuse to import")
}

func TestBackup_ClearAllWipesEverything(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	timers := f.timers()
	_, err := timers.ManualLog(ctx, "政治选择题", 60)
	require.NoError(t, err)

	backups := NewBackupService(f.repo, f.clock, logx.NewDefaultLogger())
	require.NoError(t, backups.ClearAll(ctx))

	history, err := f.repo.History(ctx)
	require.NoError(t, err)
	assert.Empty(t, history)

	keys, err := f.store.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestBackup_XLSXExportHasLogRows(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	timers := f.timers()
	_, err := timers.ManualLog(ctx, "英语阅读两篇", 50)
	require.NoError(t, err)

	backups := NewBackupService(f.repo, f.clock, logx.NewDefaultLogger())
	data, err := backups.ExportXLSX(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	// XLSX is a zip container.
	assert.Equal(t, []byte{'P', 'K'}, data[:2])
}
