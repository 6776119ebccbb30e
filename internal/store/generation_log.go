package store

import (
	"context"
	"fmt"
	"time"
)

// GenerationLog 一次生成批次的记录
type GenerationLog struct {
	ID           int64      `json:"id"`
	BatchID      string     `json:"batchId"`
	Flow         string     `json:"flow"`
	Source       string     `json:"source"`
	Sheet        string     `json:"sheet"`
	PeriodLabel  string     `json:"periodLabel"`
	TruckCount   int        `json:"truckCount"`
	FileCount    int        `json:"fileCount"`
	Status       string     `json:"status"`
	ErrorMessage string     `json:"errorMessage,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
}

const (
	StatusProcessing = "processing"
	StatusSuccess    = "success"
	StatusFailed     = "failed"
)

// CreateGenerationLog 创建生成日志，返回 id
func (s *Store) CreateGenerationLog(ctx context.Context, flow, source string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO generation_logs (batch_id, flow, source, status)
		VALUES ('', ?, ?, ?)
	`, flow, source, StatusProcessing)
	if err != nil {
		return 0, fmt.Errorf("failed to create generation log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get generation log id: %w", err)
	}
	return id, nil
}

// CompleteGenerationLog 完成生成日志更新
func (s *Store) CompleteGenerationLog(ctx context.Context, id int64, batchID, sheet, periodLabel string, trucks, files int, status, errorMessage string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE generation_logs SET
			batch_id = ?,
			sheet = ?,
			period_label = ?,
			truck_count = ?,
			file_count = ?,
			status = ?,
			error_message = ?,
			completed_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, batchID, sheet, periodLabel, trucks, files, status, errorMessage, id)
	if err != nil {
		return fmt.Errorf("failed to update generation log: %w", err)
	}
	return nil
}

// ListGenerationLogs 最近的生成日志，按时间倒序
func (s *Store) ListGenerationLogs(ctx context.Context, limit int) ([]GenerationLog, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, batch_id, flow, COALESCE(source, ''), COALESCE(sheet, ''), COALESCE(period_label, ''),
			truck_count, file_count, status, COALESCE(error_message, ''), created_at, completed_at
		FROM generation_logs ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list generation logs: %w", err)
	}
	defer rows.Close()

	var out []GenerationLog
	for rows.Next() {
		var l GenerationLog
		if err := rows.Scan(&l.ID, &l.BatchID, &l.Flow, &l.Source, &l.Sheet, &l.PeriodLabel,
			&l.TruckCount, &l.FileCount, &l.Status, &l.ErrorMessage, &l.CreatedAt, &l.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan generation log: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
