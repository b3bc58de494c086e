// Package session holds the request-facing pieces of a signed-in session:
// the validated claims carried in the request context, the profile hint, and
// the two cookies that transport them.
package session

import "time"

// Claims are the identity fields embedded in a session credential
type Claims struct {
	UID       string    `json:"uid"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Picture   string    `json:"picture"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}

// ProfileHint is a non-authoritative snapshot of the user's profile kept in a
// cookie so the route guard can branch on onboarding state without a database
// round-trip. It may be stale.
type ProfileHint struct {
	UID                 string `json:"uid"`
	Email               string `json:"email"`
	DisplayName         string `json:"displayName"`
	PhotoURL            string `json:"photoURL"`
	CompletedOnboarding bool   `json:"completedOnboarding"`
}
