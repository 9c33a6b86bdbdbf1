package commands

import (
	"NoteKeeper/internal/cli/api"
	"NoteKeeper/internal/config"
	"context"
	"fmt"
	"net/http"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

type registerCmd struct{}

func (registerCmd) Name() string        { return "register" }
func (registerCmd) Description() string { return "Create a new account" }
func (registerCmd) Section() string     { return "Account" }
func (registerCmd) Usage() string       { return "register <username> <password> [role]" }

func (registerCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return ErrUsage
	}
	req := RegisterRequest{Username: args[0], Password: args[1]}
	if len(args) == 3 {
		req.Role = args[2]
	}
	resp, body, err := api.PostJSON(ctx, api.Endpoint(cfg.ServerURL, "/auth/register", nil), req, "")
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusCreated {
		return serverError(resp, body)
	}
	if err := tokenStore(cfg).SaveLogin(req.Username); err != nil {
		return fmt.Errorf("saving login: %w", err)
	}
	fmt.Fprintln(Out, "Registered successfully, now run login")
	return nil
}

func init() { RegisterCmd(registerCmd{}) }
