package storage

import (
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/nacl/secretbox"
	_ "modernc.org/sqlite"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrRecordNotFound  = errors.New("analysis result not found")
	errSealedTooShort  = errors.New("sealed value too short")
	errOpenSealed      = errors.New("failed to open sealed value")
)

// 세션/분석 결과 저장소
type Store struct {
	db         *sql.DB
	key        [32]byte
	sessionTTL time.Duration
	resultTTL  time.Duration
	now        func() time.Time
}

type Options struct {
	Path       string
	Key        [32]byte
	SessionTTL time.Duration
	ResultTTL  time.Duration
}

func Open(opts Options) (*Store, error) {
	db, err := sql.Open("sqlite", opts.Path)
	if err != nil {
		return nil, fmt.Errorf("storage.Open(): failed to open database: %w", err)
	}
	// :memory: DB는 커넥션마다 별개이므로 하나만 사용
	if opts.Path == ":memory:" || strings.Contains(opts.Path, "mode=memory") {
		db.SetMaxOpenConns(1)
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.Open(): failed to connect to database: %w", err)
	}

	createSessionsTable := `
	CREATE TABLE IF NOT EXISTS sessions (
			"id" TEXT PRIMARY KEY,
			"access_token" BLOB NOT NULL,
			"refresh_token" BLOB NOT NULL,
			"user_json" TEXT NOT NULL,
			"created_at" INTEGER NOT NULL,
			"expires_at" INTEGER NOT NULL
	);`
	createRecordsTable := `
	CREATE TABLE IF NOT EXISTS records (
			"id" TEXT PRIMARY KEY,
			"session_id" TEXT NOT NULL,
			"result_json" TEXT NOT NULL,
			"created_at" INTEGER NOT NULL,
			FOREIGN KEY(session_id) REFERENCES sessions(id)
	);`
	createRecordsIndex := `CREATE INDEX IF NOT EXISTS records_session ON records(session_id)`

	for _, stmt := range []string{createSessionsTable, createRecordsTable, createRecordsIndex} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("storage.Open(): failed to create tables: %w", err)
		}
	}
	log.Println("storage.Open(): Init and create table successfully!")

	return &Store{
		db:         db,
		key:        opts.Key,
		sessionTTL: opts.SessionTTL,
		resultTTL:  opts.ResultTTL,
		now:        time.Now,
	}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// nonce(24바이트) + secretbox 암호문
func (s *Store) seal(plain string) ([]byte, error) {
	var nonce [24]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, err
	}
	return secretbox.Seal(nonce[:], []byte(plain), &nonce, &s.key), nil
}

func (s *Store) open(sealed []byte) (string, error) {
	if len(sealed) < 24+secretbox.Overhead {
		return "", errSealedTooShort
	}
	var nonce [24]byte
	copy(nonce[:], sealed[:24])
	plain, ok := secretbox.Open(nil, sealed[24:], &nonce, &s.key)
	if !ok {
		return "", errOpenSealed
	}
	return string(plain), nil
}
