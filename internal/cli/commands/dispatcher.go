package commands

import (
	"NoteKeeper/internal/config"
	"context"
	"errors"
	"fmt"
	"strings"
)

// коды выхода nkcli
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// Dispatch выполняет команду args[0] и возвращает код выхода процесса.
// Флаги к этому моменту уже разобраны config.NewConfig.
func Dispatch(ctx context.Context, cfg *config.Config, args []string) int {
	if len(args) == 0 {
		fmt.Fprint(Out, FormatGlobalUsage())
		return exitUsage
	}

	name := strings.ToLower(args[0])
	if name == "help" || name == "-h" || name == "--help" {
		return help(args[1:])
	}

	c, ok := Get(name)
	if !ok {
		return unknownCommand(name)
	}

	err := c.Run(ctx, cfg, args[1:])
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, ErrUsage):
		fmt.Fprintf(Out, "usage: nkcli %s\n", c.Usage())
		return exitUsage
	default:
		fmt.Fprintf(Out, "nkcli %s: %v\n", c.Name(), err)
		return exitError
	}
}

// help: без аргумента общий список, иначе синтаксис одной команды.
func help(args []string) int {
	if len(args) == 0 {
		fmt.Fprint(Out, FormatGlobalUsage())
		return exitOK
	}
	c, ok := Get(args[0])
	if !ok {
		return unknownCommand(args[0])
	}
	fmt.Fprintf(Out, "usage: nkcli %s\n  %s\n", c.Usage(), c.Description())
	return exitOK
}

func unknownCommand(name string) int {
	fmt.Fprintf(Out, "nkcli: unknown command %q\n\n", name)
	fmt.Fprint(Out, FormatGlobalUsage())
	return exitUsage
}
