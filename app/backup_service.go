package app

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/xuri/excelize/v2"

	"levelup/domain/ledger"
	"levelup/domain/progression"
	"levelup/internal/errors"
	"levelup/internal/logx"
	"levelup/models"
	"levelup/ports"
)

// backupVersion is the current export document version. Version 1
// exports (history plus progression only) and the oldest bare history
// arrays still import.
const backupVersion = 2

// BackupDocument is the full-state export envelope.
type BackupDocument struct {
	Version     int                               `json:"version"`
	ExportedAt  time.Time                         `json:"exported_at"`
	History     ledger.History                    `json:"history"`
	Progression *progression.State                `json:"progression,omitempty"`
	Progress    map[string]models.SubjectProgress `json:"learning_progress,omitempty"`
	Chat        []models.ChatEntry                `json:"chat_history,omitempty"`
	Settings    *models.Settings                  `json:"settings,omitempty"`
}

// BackupService exports and restores the whole persisted state.
type BackupService struct {
	repo  *StateRepository
	clock ports.Clock
	log   *logx.Logger
}

// NewBackupService builds the service.
func NewBackupService(repo *StateRepository, clock ports.Clock, log *logx.Logger) *BackupService {
	if log == nil {
		log = logx.Default
	}
	return &BackupService{repo: repo, clock: clock, log: log}
}

// Export snapshots everything into one versioned document.
func (s *BackupService) Export(ctx context.Context) (*BackupDocument, error) {
	history, err := s.repo.History(ctx)
	if err != nil {
		return nil, err
	}
	state, err := s.repo.Progression(ctx)
	if err != nil {
		return nil, err
	}
	board, err := s.repo.LearningProgress(ctx)
	if err != nil {
		return nil, err
	}
	chat, err := s.repo.ChatHistory(ctx)
	if err != nil {
		return nil, err
	}
	doc := &BackupDocument{
		Version:     backupVersion,
		ExportedAt:  s.clock.Now(),
		History:     history,
		Progression: state,
		Progress:    board,
		Chat:        chat,
	}
	if settings, ok, err := s.repo.Settings(ctx); err == nil && ok {
		doc.Settings = &settings
	}
	return doc, nil
}

// Import restores state from an export document. It accepts the current
// envelope, the version-1 envelope and the oldest format, a bare JSON
// array of day records. The restore replaces stored state wholesale.
func (s *BackupService) Import(ctx context.Context, raw []byte) error {
	doc, err := decodeBackup(raw)
	if err != nil {
		return err
	}

	s.repo.Lock()
	defer s.repo.Unlock()

	if err := s.repo.SaveHistory(ctx, normalizeHistory(doc.History)); err != nil {
		return err
	}
	if doc.Progression != nil {
		if err := s.repo.SaveProgression(ctx, doc.Progression); err != nil {
			return err
		}
	}
	if doc.Progress != nil {
		if err := s.repo.SaveLearningProgress(ctx, doc.Progress); err != nil {
			return err
		}
	}
	if doc.Chat != nil {
		if err := s.repo.SaveChatHistory(ctx, doc.Chat); err != nil {
			return err
		}
	}
	if doc.Settings != nil {
		if err := s.repo.SaveSettings(ctx, *doc.Settings); err != nil {
			return err
		}
	}
	s.log.Info("[BACKUP] imported %d day records (version %d)", len(doc.History), doc.Version)
	return nil
}

func decodeBackup(raw []byte) (*BackupDocument, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, errors.InvalidInput("backup payload is empty")
	}

	// Oldest format: a bare array of day records.
	if trimmed[0] == '[' {
		var history ledger.History
		if err := json.Unmarshal(trimmed, &history); err != nil {
			return nil, errors.InvalidInput("backup payload is not valid JSON")
		}
		return &BackupDocument{Version: 0, History: history}, nil
	}

	var doc BackupDocument
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, errors.InvalidInput("backup payload is not valid JSON")
	}
	if doc.Version > backupVersion {
		return nil, errors.InvalidInput("backup was created by a newer version")
	}
	return &doc, nil
}

// normalizeHistory re-sorts imported records and drops date duplicates,
// keeping the first occurrence of each day.
func normalizeHistory(history ledger.History) ledger.History {
	out := ledger.History{}
	for _, rec := range history {
		if rec == nil || rec.Date.IsZero() {
			continue
		}
		if out.Find(rec.Date) != nil {
			continue
		}
		out = out.Upsert(rec)
	}
	return out
}

// ClearAll wipes every stored document. The caller owns confirmation;
// this is the unrecoverable path.
func (s *BackupService) ClearAll(ctx context.Context) error {
	s.repo.Lock()
	defer s.repo.Unlock()
	return s.repo.ClearAll(ctx)
}

// ExportXLSX renders the study history as a spreadsheet, one row per
// log entry.
func (s *BackupService) ExportXLSX(ctx context.Context) ([]byte, error) {
	history, err := s.repo.History(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := "Sheet1"
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx == -1 {
		idx, err := f.NewSheet(sheet)
		if err != nil {
			return nil, err
		}
		f.SetActiveSheet(idx)
	}

	headers := []string{"日期", "时间", "内容", "时长(分钟)", "当日合计(分钟)", "奖励余额(分钟)"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	row := 2
	for i := len(history) - 1; i >= 0; i-- {
		day := history[i]
		for _, entry := range day.Logs {
			values := []interface{}{
				day.Date.String(),
				entry.Time,
				entry.Content,
				entry.DurationMinutes,
				day.StudyMinutes,
				day.RewardBalanceMinutes,
			}
			for c, v := range values {
				cell, _ := excelize.CoordinatesToCellName(c+1, row)
				if err := f.SetCellValue(sheet, cell, v); err != nil {
					return nil, err
				}
			}
			row++
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
