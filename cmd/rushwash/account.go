package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"RushWash_Web/internal/auth"
	"RushWash_Web/internal/backend"
	"RushWash_Web/internal/models"
	"RushWash_Web/internal/profile"

	"github.com/google/subcommands"
)

const cliTimeout = 60 * time.Second

func (g *globalFlags) storePath() (string, error) {
	if g.profilePath != "" {
		return g.profilePath, nil
	}
	return profile.DefaultPath()
}

func (g *globalFlags) loadStore() (*profile.Store, string, error) {
	path, err := g.storePath()
	if err != nil {
		return nil, "", err
	}
	store, err := profile.Load(path)
	if err != nil {
		return nil, "", err
	}
	return store, path, nil
}

// 로그인된 프로필과 클라이언트. 토큰이 만료됐으면 로그아웃 상태로 취급
func (g *globalFlags) session() (*profile.Profile, *backend.Client, error) {
	store, _, err := g.loadStore()
	if err != nil {
		return nil, nil, err
	}
	p, err := store.Get(g.profileName)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			return nil, nil, profile.ErrNotLoggedIn
		}
		return nil, nil, err
	}
	if !p.LoggedIn() {
		return nil, nil, profile.ErrNotLoggedIn
	}
	claims, err := auth.ParseClaims(p.AccessToken)
	if err != nil || claims.Expired(time.Now()) {
		return nil, nil, profile.ErrNotLoggedIn
	}
	return p, backend.NewClient(p.APIRoot, cliTimeout), nil
}

// 실패 메시지 출력 (백엔드 메시지 우선)
func fail(err error, fallback string) subcommands.ExitStatus {
	log.Printf("[ERROR] %s", backend.MessageOf(err, fallback+": "+err.Error()))
	return subcommands.ExitFailure
}

type loginCmd struct {
	g        *globalFlags
	apiRoot  string
	email    string
	password string
}

func (*loginCmd) Name() string     { return "login" }
func (*loginCmd) Synopsis() string { return "백엔드에 로그인하고 토큰을 프로필에 저장" }
func (*loginCmd) Usage() string {
	return `login -email <이메일> [-api <백엔드 주소>] [-password <비밀번호>]:
  비밀번호를 생략하면 표준 입력에서 한 줄 읽습니다.
`
}

func (c *loginCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.apiRoot, "api", "", "백엔드 API 주소 (기본: 프로필에 저장된 주소 또는 http://localhost:8080)")
	f.StringVar(&c.email, "email", "", "이메일")
	f.StringVar(&c.password, "password", "", "비밀번호")
}

func (c *loginCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if strings.TrimSpace(c.email) == "" {
		log.Println("이메일을 입력해주세요.")
		return subcommands.ExitUsageError
	}
	store, path, err := c.g.loadStore()
	if err != nil {
		return fail(err, "프로필을 읽지 못했습니다")
	}

	p := &profile.Profile{APIRoot: "http://localhost:8080"}
	if old, err := store.Get(c.g.profileName); err == nil {
		p.APIRoot = old.APIRoot
	}
	if c.apiRoot != "" {
		p.APIRoot = c.apiRoot
	}
	if err := p.Verify(); err != nil {
		return fail(err, "백엔드 주소가 올바르지 않습니다")
	}

	password := c.password
	if password == "" {
		fmt.Fprint(os.Stderr, "비밀번호: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return fail(err, "비밀번호를 읽지 못했습니다")
		}
		password = strings.TrimRight(line, "\r\n")
	}

	api := backend.NewClient(p.APIRoot, cliTimeout)
	res, err := api.SignIn(ctx, models.SignInRequest{Email: c.email, Password: password})
	if err != nil {
		return fail(err, "로그인에 실패했습니다")
	}
	p.Email = res.User.Email
	p.AccessToken = res.AccessToken
	p.RefreshToken = res.RefreshToken
	if err := store.Set(c.g.profileName, p); err != nil {
		return fail(err, "프로필을 저장하지 못했습니다")
	}
	if err := store.Save(path); err != nil {
		return fail(err, "프로필을 저장하지 못했습니다")
	}
	fmt.Printf("%s 님, 로그인되었습니다.\n", res.User.Name)
	return subcommands.ExitSuccess
}

type logoutCmd struct {
	g *globalFlags
}

func (*logoutCmd) Name() string             { return "logout" }
func (*logoutCmd) Synopsis() string         { return "로그아웃하고 저장된 토큰 삭제" }
func (*logoutCmd) Usage() string            { return "logout\n" }
func (*logoutCmd) SetFlags(_ *flag.FlagSet) {}

// 백엔드 로그아웃이 실패해도 로컬 토큰은 지움
func (c *logoutCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, path, err := c.g.loadStore()
	if err != nil {
		return fail(err, "프로필을 읽지 못했습니다")
	}
	p, err := store.Get(c.g.profileName)
	if err != nil || !p.LoggedIn() {
		fmt.Println("로그인되어 있지 않습니다.")
		return subcommands.ExitSuccess
	}
	if err := backend.NewClient(p.APIRoot, cliTimeout).SignOut(ctx, p.AccessToken); err != nil {
		log.Printf("backend sign-out failed, clearing local token anyway: %v", err)
	}
	p.Clear()
	if err := store.Save(path); err != nil {
		return fail(err, "프로필을 저장하지 못했습니다")
	}
	fmt.Println("로그아웃되었습니다.")
	return subcommands.ExitSuccess
}

type useCmd struct {
	g *globalFlags
}

func (*useCmd) Name() string             { return "use" }
func (*useCmd) Synopsis() string         { return "현재 프로필 변경" }
func (*useCmd) Usage() string            { return "use <프로필 이름>\n" }
func (*useCmd) SetFlags(_ *flag.FlagSet) {}

func (c *useCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		log.Print(c.Usage())
		return subcommands.ExitUsageError
	}
	store, path, err := c.g.loadStore()
	if err != nil {
		return fail(err, "프로필을 읽지 못했습니다")
	}
	if err := store.Use(f.Arg(0)); err != nil {
		return fail(err, "프로필이 없습니다")
	}
	if err := store.Save(path); err != nil {
		return fail(err, "프로필을 저장하지 못했습니다")
	}
	return subcommands.ExitSuccess
}
