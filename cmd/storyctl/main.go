// Package main runs story builder maintenance commands.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	storyctlcmd "github.com/louisbranch/storybuilder/internal/cmd/storyctl"
	"github.com/louisbranch/storybuilder/internal/platform/config"
)

func main() {
	cfg, err := storyctlcmd.LoadConfig()
	if err != nil {
		config.Exitf("load config: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := storyctlcmd.Execute(ctx, cfg, os.Args[1:]); err != nil {
		stop()
		config.Exitf("%v", err)
	}
}
