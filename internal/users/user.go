// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package users implements accounts, sessions, downloads and teams.

It defines the domain entities, the repository contracts with their
PostgreSQL and Redis implementations, and the named queries that route
handlers execute as effects.

# Architecture

Route code never holds a repository. It builds an [effect.Query] over a
[*Store] (see queries.go) and the executor runs it against the store it owns,
a real one in production and an in-memory one in tests.
*/
package users

import (
	"time"

	"github.com/taibuivan/yomira-cast/internal/platform/sec"
	"github.com/taibuivan/yomira-cast/pkg/uuid"
)

// # Domain Entities

// User is a member who signed in with GitHub at least once.
type User struct {
	ID          string
	GithubUID   int64
	GithubLogin string
	GithubToken string
	AvatarURL   string
	Name        string
	Email       string
	Role        sec.UserRole

	// Subscriber mirrors the billing provider's view of the account.
	Subscriber bool

	// CSRF is the per-user secret every state-changing form must carry.
	CSRF string

	// TeamToken is the invitation token other users join this user's team with.
	TeamToken string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Premium reports whether the user may watch subscriber-only episodes on
// their own account.
func (user *User) Premium() bool {
	return user.Subscriber || user.Role.AtLeast(sec.RoleAdmin)
}

// Session is the signed-in state of one request.
type Session struct {
	ID   string
	User User

	// TeamOwner is the subscriber whose team the user belongs to, if any.
	TeamOwner *User

	CreatedAt time.Time
}

// Premium reports whether the session has subscriber access, either
// directly or through a team.
func (session *Session) Premium() bool {
	if session.User.Premium() {
		return true
	}
	return session.TeamOwner != nil && session.TeamOwner.Subscriber
}

// Download records that a user fetched an episode's file.
type Download struct {
	ID            string
	UserID        string
	EpisodeNumber int
	CreatedAt     time.Time
}

// TeamMember is a user who joined someone else's team.
type TeamMember struct {
	ID          string
	GithubLogin string
	AvatarURL   string
	JoinedAt    time.Time
}

// Identity is what GitHub tells us about the person signing in.
type Identity struct {
	GithubUID   int64
	GithubLogin string
	Name        string
	Email       string
	AvatarURL   string
	Token       string
}

// NewUser creates a member account for identity with fresh secrets.
func NewUser(identity Identity, now time.Time) *User {
	name := identity.Name
	if name == "" {
		name = identity.GithubLogin
	}

	return &User{
		ID:          uuid.New(),
		GithubUID:   identity.GithubUID,
		GithubLogin: identity.GithubLogin,
		GithubToken: identity.Token,
		AvatarURL:   identity.AvatarURL,
		Name:        name,
		Email:       identity.Email,
		Role:        sec.RoleMember,
		CSRF:        uuid.Secret(),
		TeamToken:   uuid.Secret(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Refresh copies the GitHub-owned fields of identity onto user. Name and
// email are edited by the user and stay untouched.
func (user *User) Refresh(identity Identity, now time.Time) {
	user.GithubLogin = identity.GithubLogin
	user.GithubToken = identity.Token
	user.AvatarURL = identity.AvatarURL
	user.UpdatedAt = now
}
