package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/plantopia/cmd/plantctl/ui"
	"github.com/redmonkez12/plantopia/internal/auth"
	"github.com/redmonkez12/plantopia/internal/session"
)

const testSecret = "an-example-session-secret-of-32+bytes"

func TestMintSessionValidates(t *testing.T) {
	id := ui.Identity{UID: "u1", Email: "u1@example.com", Name: "Ivy", Onboarded: true}

	minted, err := mintSession(auth.FormatPaseto, testSecret, time.Hour, id)
	require.NoError(t, err)
	assert.Equal(t, "1h0m0s", minted.ExpiresIn)

	tokens, err := auth.NewTokenService(auth.FormatPaseto, testSecret)
	require.NoError(t, err)
	claims, err := auth.NewSessionManager(tokens, time.Hour).Validate(minted.Token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UID)

	hint, err := session.DecodeProfileHint(minted.ProfileHint)
	require.NoError(t, err)
	assert.True(t, hint.CompletedOnboarding)
	assert.Equal(t, "Ivy", hint.DisplayName)
}

func TestMintSessionRejectsShortSecret(t *testing.T) {
	_, err := mintSession(auth.FormatJWT, "short", time.Hour, ui.Identity{UID: "u1"})
	assert.Error(t, err)
}

func TestPrintSession(t *testing.T) {
	var buf bytes.Buffer
	ui.PrintSession(&buf, ui.Minted{Token: "tok", ProfileHint: "hint", ExpiresIn: "1h0m0s"})

	assert.Contains(t, buf.String(), "tok")
	assert.Contains(t, buf.String(), "Cookie: session=tok")
}

func TestRootCommandWiring(t *testing.T) {
	root := newRootCmd()

	mint, _, err := root.Find([]string{"mint-session"})
	require.NoError(t, err)
	assert.NotNil(t, mint.Flags().Lookup("onboarded"))

	migrate, _, err := root.Find([]string{"migrate"})
	require.NoError(t, err)
	assert.NotNil(t, migrate.Flags().Lookup("status"))
}
