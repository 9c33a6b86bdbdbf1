package commands

import (
	"NoteKeeper/internal/cli/api"
	fsrepo "NoteKeeper/internal/cli/repo/fs"
	"NoteKeeper/internal/config"
	"NoteKeeper/internal/model"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNotLoggedIn нет сохранённого токена.
var ErrNotLoggedIn = errors.New("not logged in: run `login <username> <password>` first")

func tokenStore(cfg *config.Config) fsrepo.AuthFSStore {
	return fsrepo.AuthFSStore{Path: cfg.TokenFile}
}

// serverError превращает неуспешный ответ в ошибку с текстом сервера.
func serverError(resp *http.Response, body []byte) error {
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("not authorized (%d): log in again", resp.StatusCode)
	case http.StatusTooManyRequests:
		return errors.New("too many requests, try later")
	}
	return fmt.Errorf("server error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
}

// fetchNotes выполняет авторизованный GET и декодирует список заметок.
func fetchNotes(ctx context.Context, cfg *config.Config, path string, query map[string]string) ([]model.Note, error) {
	token, err := tokenStore(cfg).Load()
	if err != nil {
		return nil, ErrNotLoggedIn
	}
	resp, body, err := api.DoJSON(ctx, http.MethodGet, api.Endpoint(cfg.ServerURL, path, query), nil, token)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, serverError(resp, body)
	}
	var notes []model.Note
	if err := json.Unmarshal(body, &notes); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return notes, nil
}

func printNote(n model.Note) {
	var flags []string
	if n.IsFavorite {
		flags = append(flags, "favorite")
	}
	if n.Archived {
		flags = append(flags, "archived")
	}
	line := fmt.Sprintf("#%d  %s", n.ID, n.Content)
	if len(n.Tags) > 0 {
		line += "  [" + strings.Join(n.Tags, ", ") + "]"
	}
	if n.Category != "" {
		line += "  (" + n.Category + ")"
	}
	if len(flags) > 0 {
		line += "  {" + strings.Join(flags, ",") + "}"
	}
	fmt.Fprintln(Out, line)
}

func printNotes(notes []model.Note) {
	if len(notes) == 0 {
		fmt.Fprintln(Out, "Нет заметок")
		return
	}
	for _, n := range notes {
		printNote(n)
	}
	fmt.Fprintf(Out, "Всего: %d\n", len(notes))
}
