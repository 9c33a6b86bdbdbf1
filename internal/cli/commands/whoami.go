package commands

import (
	"NoteKeeper/internal/config"
	"NoteKeeper/internal/middleware"
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type whoamiCmd struct{}

func (whoamiCmd) Name() string        { return "whoami" }
func (whoamiCmd) Description() string { return "Show the stored account and token expiry" }
func (whoamiCmd) Section() string     { return "Account" }
func (whoamiCmd) Usage() string       { return "whoami" }

// Run читает claims без проверки подписи: секрет есть только у сервера.
func (whoamiCmd) Run(_ context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	token, err := tokenStore(cfg).Load()
	if err != nil {
		return ErrNotLoggedIn
	}
	claims := &middleware.Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return fmt.Errorf("stored token is malformed: %w", err)
	}

	fmt.Fprintf(Out, "User: %s (id=%d, role=%s)\n", claims.Username, claims.UserID, claims.Role)
	if claims.ExpiresAt != nil {
		exp := claims.ExpiresAt.Time
		state := "valid"
		if time.Now().After(exp) {
			state = "expired"
		}
		fmt.Fprintf(Out, "Token: %s until %s\n", state, exp.Format(time.RFC3339))
	}
	return nil
}

func init() { RegisterCmd(whoamiCmd{}) }
