/**
* Name: 			profile.go
* Description: 		CLI 프로필 저장소 (YAML, 프로필 이름 → 백엔드 주소와 로그인 토큰)
* Workflow: 		파일 로드(없으면 빈 저장소) → 수정 → 임시 파일에 쓰고 교체, 권한 0600
 */

package profile

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/hectane/go-acl"
	yaml "gopkg.in/yaml.v3"
)

const DefaultName = "default"

var ErrProfileNotFound = errors.New("profile is not found")
var ErrProfileInvalid = errors.New("profile is invalid")
var ErrNotLoggedIn = errors.New("로그인이 필요합니다. rushwash login 을 먼저 실행하세요.")

type Profile struct {
	// 백엔드 API 주소
	APIRoot string `yaml:"apiRoot"`

	Email        string `yaml:"email,omitempty"`
	AccessToken  string `yaml:"accessToken,omitempty"`
	RefreshToken string `yaml:"refreshToken,omitempty"`
}

func (p *Profile) Verify() error {
	u, err := url.Parse(p.APIRoot)
	if err != nil || !u.IsAbs() {
		return fmt.Errorf("%w: apiRoot is not URL: %s", ErrProfileInvalid, p.APIRoot)
	}
	return nil
}

func (p *Profile) LoggedIn() bool {
	return p.AccessToken != ""
}

// 로그아웃 (주소는 남김)
func (p *Profile) Clear() {
	p.Email = ""
	p.AccessToken = ""
	p.RefreshToken = ""
}

type Store struct {
	Current  string              `yaml:"current"`
	Profiles map[string]*Profile `yaml:"profiles"`
}

// ~/.rushwash/profiles.yaml
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".rushwash", "profiles.yaml"), nil
}

// 파일이 없으면 빈 저장소
func Load(path string) (*Store, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Store{Profiles: map[string]*Profile{}}, nil
		}
		return nil, err
	}
	return Unmarshal(buf)
}

func Unmarshal(buf []byte) (*Store, error) {
	s := &Store{}
	if err := yaml.Unmarshal(buf, s); err != nil {
		return nil, err
	}
	if s.Profiles == nil {
		s.Profiles = map[string]*Profile{}
	}
	return s, nil
}

// name이 비어 있으면 현재 프로필
func (s *Store) Get(name string) (*Profile, error) {
	if name == "" {
		name = s.Current
	}
	if name == "" {
		name = DefaultName
	}
	p, ok := s.Profiles[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}
	return p, nil
}

// 프로필을 추가/교체하고, 현재 프로필이 없으면 현재로 지정
func (s *Store) Set(name string, p *Profile) error {
	if err := p.Verify(); err != nil {
		return err
	}
	if name == "" {
		name = DefaultName
	}
	s.Profiles[name] = p
	if s.Current == "" {
		s.Current = name
	}
	return nil
}

func (s *Store) Use(name string) error {
	if _, ok := s.Profiles[name]; !ok {
		return fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}
	s.Current = name
	return nil
}

// 토큰이 들어 있으므로 0600
func (s *Store) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), os.FileMode(0700)); err != nil {
		return err
	}
	buf, err := yaml.Marshal(s)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".profiles-*.yaml")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(buf); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := acl.Chmod(tmp.Name(), os.FileMode(0600)); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
