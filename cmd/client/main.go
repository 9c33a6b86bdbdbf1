package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"NoteKeeper/internal/cli/commands"
	"NoteKeeper/internal/config"
)

// заполняются через -ldflags "-X main.version=..."
var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	flag.Usage = func() {
		out := flag.CommandLine.Output()
		fmt.Fprint(out, commands.FormatGlobalUsage())
		fmt.Fprintln(out, "\nFlags:")
		flag.PrintDefaults()
	}

	cfg := config.NewConfig()
	if cfg.Version {
		fmt.Printf("nkcli %s (built %s)\n", version, buildDate)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := commands.Dispatch(ctx, cfg, flag.Args())
	stop()
	os.Exit(code)
}
