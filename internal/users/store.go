// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package users

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// # Store

// Store bundles every repository route queries run against.
type Store struct {
	Users     UserRepository
	Sessions  SessionRepository
	Downloads DownloadRepository
	Teams     TeamRepository
	States    StateRepository
}

// NewStore wires the PostgreSQL and Redis repositories.
func NewStore(pool *pgxpool.Pool, client *redis.Client) *Store {
	return &Store{
		Users:     NewUserRepository(pool),
		Sessions:  NewSessionRepository(pool),
		Downloads: NewDownloadRepository(pool),
		Teams:     NewTeamRepository(pool),
		States:    NewStateRepository(client),
	}
}

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		FindByGithubUID returns the account linked to a GitHub user id.

		Parameters:
		  - context: context.Context
		  - uid: int64

		Returns:
		  - *User: Hydrated entity
		  - error: dberr.ErrNotFound or database failures
	*/
	FindByGithubUID(context context.Context, uid int64) (*User, error)

	/*
		FindByTeamToken returns the owner of a team invitation token.

		Parameters:
		  - context: context.Context
		  - token: string

		Returns:
		  - *User: Team owner
		  - error: dberr.ErrNotFound or database failures
	*/
	FindByTeamToken(context context.Context, token string) (*User, error)

	/*
		Create persists a brand-new account.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Conflict when the GitHub account is already linked
	*/
	Create(context context.Context, user *User) error

	/*
		Update persists the mutable profile and GitHub fields.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: dberr.ErrNotFound or database failures
	*/
	Update(context context.Context, user *User) error

	/*
		SetSubscriber records the billing provider's subscription state.

		Parameters:
		  - context: context.Context
		  - id: string
		  - subscriber: bool

		Returns:
		  - error: dberr.ErrNotFound or database failures
	*/
	SetSubscriber(context context.Context, id string, subscriber bool) error
}

// # Session Data Access

// SessionRepository defines the data access contract for login sessions.
type SessionRepository interface {

	/*
		Find loads a session with its user and, when the user belongs to a
		team, the team owner.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *Session: Hydrated session
		  - error: dberr.ErrNotFound or database failures
	*/
	Find(context context.Context, id string) (*Session, error)

	/*
		Create starts a session for a user.

		Parameters:
		  - context: context.Context
		  - id: string
		  - userID: string

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, id string, userID string) error

	/*
		Delete ends a session. Deleting a missing session is not an error.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: Database failures
	*/
	Delete(context context.Context, id string) error
}

// # Download Data Access

// DownloadRepository defines the data access contract for episode downloads.
type DownloadRepository interface {

	/*
		Find returns the download of an episode by a user.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - episode: int

		Returns:
		  - *Download: Recorded download
		  - error: dberr.ErrNotFound or database failures
	*/
	Find(context context.Context, userID string, episode int) (*Download, error)

	/*
		Create records a download unless the user already has one for the
		episode.

		Parameters:
		  - context: context.Context
		  - download: *Download

		Returns:
		  - bool: false when the episode was already recorded for the user
		  - error: Database failures
	*/
	Create(context context.Context, download *Download) (bool, error)
}

// # Team Data Access

// TeamRepository defines the data access contract for team membership.
type TeamRepository interface {

	/*
		Members lists the users who joined an owner's team, oldest first.

		Parameters:
		  - context: context.Context
		  - ownerID: string

		Returns:
		  - []TeamMember: Members
		  - error: Database failures
	*/
	Members(context context.Context, ownerID string) ([]TeamMember, error)

	/*
		Add puts a member into an owner's team. Joining twice is a no-op.

		Parameters:
		  - context: context.Context
		  - ownerID: string
		  - memberID: string

		Returns:
		  - error: Database failures
	*/
	Add(context context.Context, ownerID string, memberID string) error

	/*
		Remove takes a member out of an owner's team.

		Parameters:
		  - context: context.Context
		  - ownerID: string
		  - memberID: string

		Returns:
		  - error: dberr.ErrNotFound when the user is not a member
	*/
	Remove(context context.Context, ownerID string, memberID string) error
}

// # OAuth State

// StateRepository stores the one-time nonces of pending GitHub logins.
type StateRepository interface {

	/*
		Put stores a nonce until it is consumed or expires.

		Parameters:
		  - context: context.Context
		  - nonce: string
		  - ttl: time.Duration

		Returns:
		  - error: Storage failures
	*/
	Put(context context.Context, nonce string, ttl time.Duration) error

	/*
		Consume deletes a nonce, failing when it was never issued, already
		used or expired.

		Parameters:
		  - context: context.Context
		  - nonce: string

		Returns:
		  - error: apperr.Unauthorized or storage failures
	*/
	Consume(context context.Context, nonce string) error
}
