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

// 로그인 성공 시 토큰과 사용자 정보를 저장하고 새 세션 ID를 돌려줌
func (s *Store) CreateSession(ctx context.Context, accessToken, refreshToken string, user models.User) (*models.Session, error) {
	access, err := s.seal(accessToken)
	if err != nil {
		return nil, err
	}
	refresh, err := s.seal(refreshToken)
	if err != nil {
		return nil, err
	}
	userJSON, err := json.Marshal(user)
	if err != nil {
		return nil, err
	}

	now := s.now()
	sess := &models.Session{
		ID:           uuid.NewString(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
		CreatedAt:    now,
		ExpiresAt:    now.Add(s.sessionTTL),
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO sessions(id, access_token, refresh_token, user_json, created_at, expires_at) VALUES(?, ?, ?, ?, ?, ?)",
		sess.ID, access, refresh, string(userJSON), now.Unix(), sess.ExpiresAt.Unix())
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// 세션 조회. 만료된 세션은 지우고 ErrSessionNotFound
func (s *Store) GetSession(ctx context.Context, id string) (*models.Session, error) {
	if id == "" {
		return nil, ErrSessionNotFound
	}

	var access, refresh []byte
	var userJSON string
	var created, expires int64
	row := s.db.QueryRowContext(ctx,
		"SELECT access_token, refresh_token, user_json, created_at, expires_at FROM sessions WHERE id = ?", id)
	if err := row.Scan(&access, &refresh, &userJSON, &created, &expires); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	sess := &models.Session{
		ID:        id,
		CreatedAt: time.Unix(created, 0),
		ExpiresAt: time.Unix(expires, 0),
	}
	if !s.now().Before(sess.ExpiresAt) {
		if err := s.DeleteSession(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrSessionNotFound
	}

	var err error
	if sess.AccessToken, err = s.open(access); err != nil {
		return nil, err
	}
	if sess.RefreshToken, err = s.open(refresh); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(userJSON), &sess.User); err != nil {
		return nil, err
	}
	return sess, nil
}

// 세션과 세션에 딸린 분석 결과 삭제. 없는 세션이어도 에러 아님
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM records WHERE session_id = ?", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id); err != nil {
		return err
	}
	return tx.Commit()
}

// 만료된 세션과 오래된 분석 결과 정리, 지운 세션 수 반환
func (s *Store) PurgeExpired(ctx context.Context) (int64, error) {
	now := s.now()
	var cutoff int64
	if s.resultTTL > 0 {
		cutoff = now.Add(-s.resultTTL).Unix()
	}
	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM records WHERE created_at <= ? OR session_id IN (SELECT id FROM sessions WHERE expires_at <= ?)",
		cutoff, now.Unix()); err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE expires_at <= ?", now.Unix())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
