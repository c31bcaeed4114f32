package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"RushWash_Web/internal/models"

	"github.com/google/uuid"
)

// 분석 결과를 세션에 저장 (결과 페이지가 ID로 다시 조회)
func (s *Store) CreateRecord(ctx context.Context, sessionID string, result models.AnalysisResult) (*models.Record, error) {
	raw, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}

	r := &models.Record{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Result:    result,
		CreatedAt: s.now(),
	}
	stmt, err := s.db.PrepareContext(ctx, "INSERT INTO records(id, session_id, result_json, created_at) VALUES(?, ?, ?, ?)")
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	if _, err = stmt.ExecContext(ctx, r.ID, sessionID, string(raw), r.CreatedAt.Unix()); err != nil {
		return nil, err
	}
	return r, nil
}

// 다른 세션의 결과이거나 보관 시간이 지난 결과는 ErrRecordNotFound
func (s *Store) GetRecord(ctx context.Context, sessionID, id string) (*models.Record, error) {
	var raw string
	var created int64
	row := s.db.QueryRowContext(ctx,
		"SELECT result_json, created_at FROM records WHERE id = ? AND session_id = ?", id, sessionID)
	if err := row.Scan(&raw, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}

	r := &models.Record{ID: id, SessionID: sessionID, CreatedAt: time.Unix(created, 0)}
	if s.resultTTL > 0 && s.now().Sub(r.CreatedAt) > s.resultTTL {
		return nil, ErrRecordNotFound
	}
	if err := json.Unmarshal([]byte(raw), &r.Result); err != nil {
		return nil, err
	}
	return r, nil
}

// 세션의 분석 결과 목록 (최근 순)
func (s *Store) ListRecords(ctx context.Context, sessionID string) ([]models.Record, error) {
	query := `
		SELECT id, result_json, created_at
		FROM records
		WHERE session_id = ?
		ORDER BY created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cutoff := s.now().Add(-s.resultTTL)
	var records []models.Record
	for rows.Next() {
		var r models.Record
		var raw string
		var created int64
		if err := rows.Scan(&r.ID, &raw, &created); err != nil {
			return nil, err
		}
		r.SessionID = sessionID
		r.CreatedAt = time.Unix(created, 0)
		if s.resultTTL > 0 && r.CreatedAt.Before(cutoff) {
			continue
		}
		if err := json.Unmarshal([]byte(raw), &r.Result); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
