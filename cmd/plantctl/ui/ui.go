// Package ui holds the interactive prompts and styled output of plantctl.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"
)

// Identity is the user a minted session is issued for
type Identity struct {
	UID       string
	Email     string
	Name      string
	Onboarded bool
}

// Minted is a session ready to paste into a browser or curl
type Minted struct {
	Token       string
	ProfileHint string
	ExpiresIn   string
}

// AskIdentity prompts for the fields of id that are still empty
func AskIdentity(id *Identity) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("User ID").
				Description("Identity provider uid the session belongs to").
				Value(&id.UID).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("uid is required")
					}
					return nil
				}),

			huh.NewInput().
				Title("Email").
				Placeholder("gardener@example.com").
				Value(&id.Email),

			huh.NewInput().
				Title("Display name").
				Value(&id.Name),

			huh.NewConfirm().
				Title("Mark onboarding as completed?").
				Value(&id.Onboarded),
		),
	).WithTheme(huh.ThemeCatppuccin())

	if err := form.Run(); err != nil {
		return err
	}

	id.UID = strings.TrimSpace(id.UID)
	return nil
}

// PrintSession prints the cookies of a minted session
func PrintSession(w io.Writer, m Minted) {
	fmt.Fprintln(w, titleStyle.Render("Session minted"))
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("session:    "), m.Token)
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("userProfile:"), m.ProfileHint)
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("expires in: "), m.ExpiresIn)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "curl example:")
	fmt.Fprintf(w, "  curl -H 'Cookie: session=%s' http://localhost:8080/api/profile\n", m.Token)
}

// PrintSuccess prints a one-line success message
func PrintSuccess(w io.Writer, msg string) {
	fmt.Fprintln(w, successStyle.Render(msg))
}

// PrintError prints an error message
func PrintError(w io.Writer, msg string) {
	fmt.Fprintln(w, errorStyle.Render("Error: "+msg))
}
