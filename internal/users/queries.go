// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package users

import (
	"context"
	"time"

	"github.com/taibuivan/yomira-cast/internal/effect"
	"github.com/taibuivan/yomira-cast/pkg/uuid"
)

// Query is a database operation route handlers run against a [Store].
type Query[T any] = effect.Query[*Store, T]

// Nothing is the result of queries that only report success.
type Nothing = struct{}

// # Sessions

// SessionByID loads the session behind a cookie value.
func SessionByID(id string) Query[*Session] {
	return effect.NewQuery("session_by_id", func(ctx context.Context, store *Store) (*Session, error) {
		return store.Sessions.Find(ctx, id)
	})
}

// StartSession creates a session for userID and returns its id.
func StartSession(userID string) Query[string] {
	return effect.NewQuery("start_session", func(ctx context.Context, store *Store) (string, error) {
		id := uuid.New()
		if err := store.Sessions.Create(ctx, id, userID); err != nil {
			return "", err
		}
		return id, nil
	})
}

// EndSession deletes a session.
func EndSession(id string) Query[Nothing] {
	return effect.NewQuery("end_session", func(ctx context.Context, store *Store) (Nothing, error) {
		return Nothing{}, store.Sessions.Delete(ctx, id)
	})
}

// # Accounts

// UserByGithubUID loads the account linked to a GitHub user.
func UserByGithubUID(uid int64) Query[*User] {
	return effect.NewQuery("user_by_github_uid", func(ctx context.Context, store *Store) (*User, error) {
		return store.Users.FindByGithubUID(ctx, uid)
	})
}

// CreateUser creates an account for a first-time GitHub login.
func CreateUser(identity Identity) Query[*User] {
	return effect.NewQuery("create_user", func(ctx context.Context, store *Store) (*User, error) {
		user := NewUser(identity, time.Now().UTC())
		if err := store.Users.Create(ctx, user); err != nil {
			return nil, err
		}
		return user, nil
	})
}

// RefreshUser updates an existing account with fresh GitHub data.
func RefreshUser(user User, identity Identity) Query[*User] {
	return effect.NewQuery("refresh_user", func(ctx context.Context, store *Store) (*User, error) {
		user.Refresh(identity, time.Now().UTC())
		if err := store.Users.Update(ctx, &user); err != nil {
			return nil, err
		}
		return &user, nil
	})
}

// UpdateProfile changes the name and email of an account.
func UpdateProfile(user User, name, email string) Query[*User] {
	return effect.NewQuery("update_profile", func(ctx context.Context, store *Store) (*User, error) {
		user.Name = name
		user.Email = email
		user.UpdatedAt = time.Now().UTC()
		if err := store.Users.Update(ctx, &user); err != nil {
			return nil, err
		}
		return &user, nil
	})
}

// SetSubscriber records whether an account has an active subscription.
func SetSubscriber(userID string, subscriber bool) Query[Nothing] {
	return effect.NewQuery("set_subscriber", func(ctx context.Context, store *Store) (Nothing, error) {
		return Nothing{}, store.Users.SetSubscriber(ctx, userID, subscriber)
	})
}

// # Downloads

// FindDownload loads the download of an episode by a user.
func FindDownload(userID string, episode int) Query[*Download] {
	return effect.NewQuery("find_download", func(ctx context.Context, store *Store) (*Download, error) {
		return store.Downloads.Find(ctx, userID, episode)
	})
}

// RecordDownload records a first download of an episode. It reports false
// when another request recorded it first.
func RecordDownload(userID string, episode int) Query[bool] {
	return effect.NewQuery("record_download", func(ctx context.Context, store *Store) (bool, error) {
		return store.Downloads.Create(ctx, &Download{
			ID:            uuid.New(),
			UserID:        userID,
			EpisodeNumber: episode,
			CreatedAt:     time.Now().UTC(),
		})
	})
}

// # Teams

// TeamMembers lists the members of an owner's team.
func TeamMembers(ownerID string) Query[[]TeamMember] {
	return effect.NewQuery("team_members", func(ctx context.Context, store *Store) ([]TeamMember, error) {
		return store.Teams.Members(ctx, ownerID)
	})
}

// TeamOwnerByToken loads the owner of an invitation token.
func TeamOwnerByToken(token string) Query[*User] {
	return effect.NewQuery("team_owner_by_token", func(ctx context.Context, store *Store) (*User, error) {
		return store.Users.FindByTeamToken(ctx, token)
	})
}

// JoinTeam adds memberID to ownerID's team.
func JoinTeam(ownerID, memberID string) Query[Nothing] {
	return effect.NewQuery("join_team", func(ctx context.Context, store *Store) (Nothing, error) {
		return Nothing{}, store.Teams.Add(ctx, ownerID, memberID)
	})
}

// RemoveTeamMember takes memberID out of ownerID's team.
func RemoveTeamMember(ownerID, memberID string) Query[Nothing] {
	return effect.NewQuery("remove_team_member", func(ctx context.Context, store *Store) (Nothing, error) {
		return Nothing{}, store.Teams.Remove(ctx, ownerID, memberID)
	})
}

// # Login State

// IssueState remembers a login nonce for ttl.
func IssueState(nonce string, ttl time.Duration) Query[Nothing] {
	return effect.NewQuery("issue_state", func(ctx context.Context, store *Store) (Nothing, error) {
		return Nothing{}, store.States.Put(ctx, nonce, ttl)
	})
}

// ConsumeState spends a login nonce.
func ConsumeState(nonce string) Query[Nothing] {
	return effect.NewQuery("consume_state", func(ctx context.Context, store *Store) (Nothing, error) {
		return Nothing{}, store.States.Consume(ctx, nonce)
	})
}
