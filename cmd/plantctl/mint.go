package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/redmonkez12/plantopia/cmd/plantctl/ui"
	"github.com/redmonkez12/plantopia/internal/auth"
	"github.com/redmonkez12/plantopia/internal/config"
	"github.com/redmonkez12/plantopia/internal/identity"
	"github.com/redmonkez12/plantopia/internal/profile"
	"github.com/redmonkez12/plantopia/internal/session"
)

func runMintSession(cmd *cobra.Command, args []string) error {
	id := ui.Identity{}
	id.UID, _ = cmd.Flags().GetString("uid")
	id.Email, _ = cmd.Flags().GetString("email")
	id.Name, _ = cmd.Flags().GetString("name")
	id.Onboarded, _ = cmd.Flags().GetBool("onboarded")
	ttl, _ := cmd.Flags().GetDuration("ttl")

	if id.UID == "" {
		if err := ui.AskIdentity(&id); err != nil {
			return fmt.Errorf("prompt cancelled: %w", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if ttl <= 0 {
		ttl = cfg.Auth.SessionDuration
	}

	minted, err := mintSession(cfg.Auth.TokenFormat, cfg.Auth.SessionSecret, ttl, id)
	if err != nil {
		return err
	}

	ui.PrintSession(cmd.OutOrStdout(), *minted)
	return nil
}

// mintSession issues a session exactly as sign-in would for id
func mintSession(format, secret string, ttl time.Duration, id ui.Identity) (*ui.Minted, error) {
	tokens, err := auth.NewTokenService(format, secret)
	if err != nil {
		return nil, err
	}

	claims := &identity.Claims{UID: id.UID, Email: id.Email, Name: id.Name}
	p := &profile.Profile{
		UID:                 id.UID,
		Email:               id.Email,
		DisplayName:         id.Name,
		CompletedOnboarding: id.Onboarded,
	}

	sess, err := auth.NewSessionManager(tokens, ttl).Issue(claims, p)
	if err != nil {
		return nil, err
	}

	hint, err := session.EncodeProfileHint(sess.Hint)
	if err != nil {
		return nil, fmt.Errorf("encode profile hint: %w", err)
	}

	return &ui.Minted{
		Token:       sess.Token,
		ProfileHint: hint,
		ExpiresIn:   sess.MaxAge.String(),
	}, nil
}
