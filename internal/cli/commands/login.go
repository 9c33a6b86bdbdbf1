package commands

import (
	"NoteKeeper/internal/cli/api"
	"NoteKeeper/internal/config"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"accessToken"`
}

type loginCmd struct{}

func (loginCmd) Name() string        { return "login" }
func (loginCmd) Description() string { return "Login and store access token" }
func (loginCmd) Section() string     { return "Account" }
func (loginCmd) Usage() string       { return "login <username> <password>" }

func (loginCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	req := LoginRequest{Username: args[0], Password: args[1]}
	resp, body, err := api.PostJSON(ctx, api.Endpoint(cfg.ServerURL, "/auth/login", nil), req, "")
	if err != nil {
		return err
	}
	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return errors.New("invalid password")
	case http.StatusNotFound:
		return errors.New("user not found")
	default:
		return serverError(resp, body)
	}

	var lr loginResponse
	if err := json.Unmarshal(body, &lr); err != nil || lr.AccessToken == "" {
		return fmt.Errorf("no access token in response")
	}
	st := tokenStore(cfg)
	if err := st.Save(lr.AccessToken); err != nil {
		return fmt.Errorf("saving auth: %w", err)
	}
	if err := st.SaveLogin(req.Username); err != nil {
		return fmt.Errorf("saving login: %w", err)
	}
	fmt.Fprintln(Out, "Logged in successfully")
	return nil
}

func init() { RegisterCmd(loginCmd{}) }
