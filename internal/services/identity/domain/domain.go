// Package domain defines the core types and interfaces for the identity service
package domain

import (
	"context"
	"time"
)

// Role is an account role with a strict hierarchy
type Role string

const (
	// RolePlayer can browse the catalog and play published apps
	RolePlayer Role = "player"

	// RoleDeveloper can additionally submit and manage their own apps
	RoleDeveloper Role = "developer"

	// RoleStaff can additionally review listings and change their state
	RoleStaff Role = "staff"
)

// rank orders roles for Covers; unknown roles rank below player
var rank = map[Role]int{
	RolePlayer:    1,
	RoleDeveloper: 2,
	RoleStaff:     3,
}

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	_, ok := rank[r]
	return ok
}

// Covers reports whether r grants at least the privileges of other.
// Staff covers developer covers player.
func (r Role) Covers(other Role) bool {
	return rank[r] >= rank[other] && rank[other] > 0
}

// User is a resolved account row
type User struct {
	ID        string
	SubjectID string
	Email     string
	Role      Role
	CreatedAt time.Time
}

// IDClaims are the fields we need from a verified identity provider token
type IDClaims struct {
	Subject   string
	Issuer    string
	ExpiresAt time.Time
}

// AppClaims are the fields carried by a short-lived app session token
type AppClaims struct {
	UserID    string
	AppID     string
	Role      Role
	ExpiresAt time.Time
}

// VerifierPort verifies bearer tokens and resolves them to accounts
type VerifierPort interface {
	// VerifyIDToken checks an RS256 token against the provider JWKS
	VerifyIDToken(ctx context.Context, token string) (IDClaims, error)

	// VerifyAppToken checks an HS256 app session token
	VerifyAppToken(ctx context.Context, token string) (AppClaims, error)

	// Resolve maps a provider subject to the local account
	Resolve(ctx context.Context, subject string) (User, error)
}

// IssuerPort mints app session tokens
type IssuerPort interface {
	// MintAppToken issues an HS256 token scoped to one app
	MintAppToken(ctx context.Context, userID, appID string, role Role, ttl time.Duration) (string, error)
}

// Repo abstracts the account storage the identity service needs
type Repo interface {
	// BySubject returns the user mapped to an identity provider subject
	BySubject(ctx context.Context, subject string) (User, error)

	// Ensure inserts a player account for the subject when none exists and
	// returns the stored row either way
	Ensure(ctx context.Context, subject, email string) (User, error)
}

// Ports is the full identity surface other modules consume
type Ports interface {
	VerifierPort
	IssuerPort
}
