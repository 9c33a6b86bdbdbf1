package commands

import (
	"NoteKeeper/internal/cli/api"
	"NoteKeeper/internal/config"
	"NoteKeeper/internal/model"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"strings"
)

type notesCmd struct{}

func (notesCmd) Name() string        { return "notes" }
func (notesCmd) Description() string { return "Показать заметки (с фильтрами)" }
func (notesCmd) Section() string     { return "Notes" }
func (notesCmd) Usage() string {
	return "notes [--search text] [--tag tag] [--category name]"
}

func (notesCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("notes", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	search := fs.String("search", "", "substring of content")
	tag := fs.String("tag", "", "exact tag")
	category := fs.String("category", "", "exact category")
	if err := fs.Parse(args); err != nil || fs.NArg() != 0 {
		return ErrUsage
	}

	notes, err := fetchNotes(ctx, cfg, "/notes", map[string]string{
		"search":   *search,
		"tag":      *tag,
		"category": *category,
	})
	if err != nil {
		return err
	}
	printNotes(notes)
	return nil
}

type searchCmd struct{}

func (searchCmd) Name() string        { return "search" }
func (searchCmd) Description() string { return "Поиск по тексту, тегам и категории" }
func (searchCmd) Section() string     { return "Notes" }
func (searchCmd) Usage() string       { return "search <query>" }

func (searchCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) == 0 {
		return ErrUsage
	}
	notes, err := fetchNotes(ctx, cfg, "/notes/search", map[string]string{"query": strings.Join(args, " ")})
	if err != nil {
		return err
	}
	printNotes(notes)
	return nil
}

type noteAddRequest struct {
	Content  string   `json:"content"`
	Tags     []string `json:"tags,omitempty"`
	Category string   `json:"category,omitempty"`
}

type noteAddCmd struct{}

func (noteAddCmd) Name() string        { return "note-add" }
func (noteAddCmd) Description() string { return "Создать заметку" }
func (noteAddCmd) Section() string     { return "Notes" }
func (noteAddCmd) Usage() string       { return "note-add <content> [tag,tag] [category]" }

func (noteAddCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 1 || len(args) > 3 || args[0] == "" {
		return ErrUsage
	}
	req := noteAddRequest{Content: args[0]}
	if len(args) > 1 {
		for _, t := range strings.Split(args[1], ",") {
			if t = strings.TrimSpace(t); t != "" {
				req.Tags = append(req.Tags, t)
			}
		}
	}
	if len(args) > 2 {
		req.Category = args[2]
	}

	token, err := tokenStore(cfg).Load()
	if err != nil {
		return ErrNotLoggedIn
	}
	resp, body, err := api.PostJSON(ctx, api.Endpoint(cfg.ServerURL, "/notes", nil), req, token)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusCreated {
		return serverError(resp, body)
	}
	var n model.Note
	if err := json.Unmarshal(body, &n); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	fmt.Fprint(Out, "Создана заметка: ")
	printNote(n)
	return nil
}

func init() {
	RegisterCmd(notesCmd{})
	RegisterCmd(searchCmd{})
	RegisterCmd(noteAddCmd{})
}
