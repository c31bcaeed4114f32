package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/google/subcommands"
)

// 공통 플래그
type globalFlags struct {
	profilePath string
	profileName string
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("[rushwash] ")

	g := &globalFlags{}
	flag.StringVar(&g.profilePath, "profile-store", "", "프로필 파일 경로 (기본 ~/.rushwash/profiles.yaml)")
	flag.StringVar(&g.profileName, "profile", "", "사용할 프로필 이름 (기본: 현재 프로필)")

	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(&loginCmd{g: g}, "account")
	subcommands.Register(&logoutCmd{g: g}, "account")
	subcommands.Register(&useCmd{g: g}, "account")
	subcommands.Register(&analyzeCmd{g: g}, "laundry")
	subcommands.Register(&historyCmd{g: g}, "laundry")
	subcommands.Register(&shopsCmd{}, "laundry")

	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	os.Exit(int(subcommands.Execute(ctx)))
}
