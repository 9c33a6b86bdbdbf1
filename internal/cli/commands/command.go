package commands

import (
	"NoteKeeper/internal/config"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// ErrUsage возвращает команда, если аргументы не подходят; Dispatch печатает её Usage.
var ErrUsage = errors.New("usage")

// Command подкоманда nkcli.
type Command interface {
	Name() string
	// Description одна строка для общего help.
	Description() string
	// Usage синтаксис без имени программы: "login <username> <password>".
	Usage() string
	// Run получает аргументы после имени команды.
	Run(ctx context.Context, cfg *config.Config, args []string) error
}

// sectioned команды, которые сами выбирают раздел в help.
type sectioned interface {
	Section() string
}

const otherSection = "Other"

// порядок разделов в help
var sectionOrder = []string{"Account", "Notes", otherSection}

var registry = map[string]Command{}

// Out вывод CLI; тесты подменяют его буфером.
var Out io.Writer = os.Stdout

// RegisterCmd вызывается из init() файла команды. Повторное имя заменяет прежнюю команду.
func RegisterCmd(cmd Command) {
	registry[strings.ToLower(cmd.Name())] = cmd
}

func Get(name string) (Command, bool) {
	c, ok := registry[strings.ToLower(name)]
	return c, ok
}

// List команды по имени.
func List() []Command {
	list := make([]Command, 0, len(registry))
	for _, c := range registry {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name() < list[j].Name() })
	return list
}

func sectionOf(c Command) string {
	if s, ok := c.(sectioned); ok && s.Section() != "" {
		return s.Section()
	}
	return otherSection
}

// FormatGlobalUsage общий help: команды, сгруппированные по разделам.
func FormatGlobalUsage() string {
	bySection := map[string][]Command{}
	for _, c := range List() {
		s := sectionOf(c)
		bySection[s] = append(bySection[s], c)
	}

	var b strings.Builder
	b.WriteString("nkcli: client for the NoteKeeper notes server\n\n")
	b.WriteString("Usage:\n")
	b.WriteString("  nkcli [flags] <command> [args]\n")
	b.WriteString("  nkcli help <command>\n")
	for _, s := range sectionOrder {
		cmds := bySection[s]
		if len(cmds) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s:\n", s)
		for _, c := range cmds {
			fmt.Fprintf(&b, "  %-34s %s\n", c.Usage(), c.Description())
		}
	}
	b.WriteString("\nServer address comes from --base-url / BASE_URL, the token is kept in --token-file / TOKEN_FILE.\n")
	return b.String()
}
