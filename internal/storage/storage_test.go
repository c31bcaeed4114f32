package storage

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"RushWash_Web/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	var key [32]byte
	copy(key[:], []byte("0123456789abcdef0123456789abcdef"))
	s, err := Open(Options{Path: ":memory:", Key: key, SessionTTL: time.Hour, ResultTTL: 10 * time.Minute})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	user := models.User{ID: 5, Name: "홍길동", Email: "hong@example.com"}
	sess, err := s.CreateSession(ctx, "access-token", "refresh-token", user)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	got, err := s.GetSession(ctx, sess.ID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got.AccessToken != "access-token" || got.RefreshToken != "refresh-token" {
		t.Errorf("tokens = %q/%q", got.AccessToken, got.RefreshToken)
	}
	if got.User.Email != user.Email || got.User.ID != user.ID {
		t.Errorf("user = %+v", got.User)
	}
}

func TestTokensAreSealedAtRest(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	sess, err := s.CreateSession(ctx, "plain-access-token", "plain-refresh-token", models.User{})
	if err != nil {
		t.Fatal(err)
	}
	var raw []byte
	if err := s.db.QueryRow("SELECT access_token FROM sessions WHERE id = ?", sess.ID).Scan(&raw); err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(raw, []byte("plain-access-token")) {
		t.Error("access token stored in plain text")
	}

	// 다른 키로는 열 수 없음
	other := *s
	other.key[0] ^= 0xff
	if _, err := other.GetSession(ctx, sess.ID); err == nil {
		t.Error("want error opening with a different key")
	}
}

func TestExpiredSessionIsGone(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	sess, err := s.CreateSession(ctx, "a", "r", models.User{})
	if err != nil {
		t.Fatal(err)
	}
	s.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	if _, err := s.GetSession(ctx, sess.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("want ErrSessionNotFound, got %v", err)
	}
	if _, err := s.GetSession(ctx, ""); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("empty id: want ErrSessionNotFound, got %v", err)
	}
}

func TestRecordsBelongToSession(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	a, _ := s.CreateSession(ctx, "a", "r", models.User{})
	b, _ := s.CreateSession(ctx, "b", "r", models.User{})

	result := models.AnalysisResult{
		AnalysisType: models.AnalysisStain,
		Types:        []string{"coffee"},
		InstructionsMap: map[string][]models.Method{
			"coffee": {{Title: "세탁 방법", Description: "찬물로 헹구세요"}},
		},
	}
	rec, err := s.CreateRecord(ctx, a.ID, result)
	if err != nil {
		t.Fatal(err)
	}

	got, err := s.GetRecord(ctx, a.ID, rec.ID)
	if err != nil {
		t.Fatalf("GetRecord: %v", err)
	}
	if got.Result.InstructionsMap["coffee"][0].Description != "찬물로 헹구세요" {
		t.Errorf("result = %+v", got.Result)
	}
	if _, err := s.GetRecord(ctx, b.ID, rec.ID); !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("other session: want ErrRecordNotFound, got %v", err)
	}

	list, err := s.ListRecords(ctx, a.ID)
	if err != nil || len(list) != 1 {
		t.Fatalf("ListRecords = %v, %v", list, err)
	}

	if err := s.DeleteSession(ctx, a.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetRecord(ctx, a.ID, rec.ID); !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("after logout: want ErrRecordNotFound, got %v", err)
	}
}

func TestRecordTTLAndPurge(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	sess, _ := s.CreateSession(ctx, "a", "r", models.User{})
	rec, err := s.CreateRecord(ctx, sess.ID, models.AnalysisResult{AnalysisType: models.AnalysisLabel})
	if err != nil {
		t.Fatal(err)
	}

	s.now = func() time.Time { return time.Now().Add(30 * time.Minute) }
	if _, err := s.GetRecord(ctx, sess.ID, rec.ID); !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("stale record: want ErrRecordNotFound, got %v", err)
	}

	s.now = func() time.Time { return time.Now().Add(3 * time.Hour) }
	n, err := s.PurgeExpired(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("purged %d sessions, want 1", n)
	}
}
