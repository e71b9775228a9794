// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package users_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"code.hybscloud.com/kont"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomira-cast/internal/effect"
	"github.com/taibuivan/yomira-cast/internal/effect/effecttest"
	"github.com/taibuivan/yomira-cast/internal/platform/apperr"
	"github.com/taibuivan/yomira-cast/internal/platform/dberr"
	"github.com/taibuivan/yomira-cast/internal/platform/sec"
	"github.com/taibuivan/yomira-cast/internal/users"
	"github.com/taibuivan/yomira-cast/internal/users/userfake"
)

// execute runs one query through the effect interpreter.
func execute[T any](t *testing.T, db *userfake.DB, query users.Query[T]) (T, error) {
	t.Helper()

	var outcome effect.Outcome[T]
	recorder := effecttest.New(db.Store(), "")
	effect.Run[*users.Store](context.Background(), recorder, effect.Exec(query, func(result effect.Outcome[T]) kont.Eff[effect.Done] {
		outcome = result
		return effect.Write(http.StatusOK, nil, nil)
	}), effect.Options{})

	return outcome.Get()
}

var identity = users.Identity{
	GithubUID:   42,
	GithubLogin: "ada",
	AvatarURL:   "https://avatars.example/ada",
	Token:       "gho_1",
}

/*
TestNewUser verifies defaults of a first-time account.
*/
func TestNewUser(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	user := users.NewUser(identity, now)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "ada", user.Name, "login is the default name")
	assert.Equal(t, sec.RoleMember, user.Role)
	assert.NotEmpty(t, user.CSRF)
	assert.NotEmpty(t, user.TeamToken)
	assert.NotEqual(t, user.CSRF, user.TeamToken)
	assert.False(t, user.Premium())
	assert.Equal(t, now, user.CreatedAt)
}

/*
TestSession_Premium verifies direct, admin and team-delegated access.
*/
func TestSession_Premium(t *testing.T) {
	tests := []struct {
		name    string
		session users.Session
		want    bool
	}{
		{name: "Member", session: users.Session{User: users.User{Role: sec.RoleMember}}, want: false},
		{name: "Subscriber", session: users.Session{User: users.User{Subscriber: true}}, want: true},
		{name: "Admin", session: users.Session{User: users.User{Role: sec.RoleAdmin}}, want: true},
		{name: "Team of subscriber", session: users.Session{TeamOwner: &users.User{Subscriber: true}}, want: true},
		{name: "Team of lapsed owner", session: users.Session{TeamOwner: &users.User{}}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.session.Premium())
		})
	}
}

/*
TestQueries_SignInLifecycle verifies account creation, sessions and logout.
*/
func TestQueries_SignInLifecycle(t *testing.T) {
	db := userfake.New()

	_, err := execute(t, db, users.UserByGithubUID(42))
	assert.True(t, dberr.IsNotFound(err))

	created, err := execute(t, db, users.CreateUser(identity))
	require.NoError(t, err)

	_, err = execute(t, db, users.CreateUser(identity))
	assert.Equal(t, "CONFLICT", apperr.From(err).Code)

	sessionID, err := execute(t, db, users.StartSession(created.ID))
	require.NoError(t, err)

	session, err := execute(t, db, users.SessionByID(sessionID))
	require.NoError(t, err)
	assert.Equal(t, created.ID, session.User.ID)
	assert.Nil(t, session.TeamOwner)

	_, err = execute(t, db, users.EndSession(sessionID))
	require.NoError(t, err)
	assert.Equal(t, 0, db.SessionCount())
}

/*
TestQueries_RefreshKeepsProfile verifies a repeated login only updates GitHub fields.
*/
func TestQueries_RefreshKeepsProfile(t *testing.T) {
	db := userfake.New()
	stored := db.AddUser(users.User{GithubUID: 42, GithubLogin: "old", Name: "Ada Lovelace", Email: "ada@example.com"})

	refreshed, err := execute(t, db, users.RefreshUser(stored, identity))
	require.NoError(t, err)

	assert.Equal(t, "ada", refreshed.GithubLogin)
	assert.Equal(t, "gho_1", refreshed.GithubToken)
	assert.Equal(t, "Ada Lovelace", refreshed.Name)
	assert.Equal(t, "ada@example.com", refreshed.Email)
}

/*
TestQueries_Downloads verifies a download is recorded once per user and episode.
*/
func TestQueries_Downloads(t *testing.T) {
	db := userfake.New()
	user := db.AddUser(users.User{GithubUID: 1})

	_, err := execute(t, db, users.FindDownload(user.ID, 3))
	assert.True(t, dberr.IsNotFound(err))

	recorded, err := execute(t, db, users.RecordDownload(user.ID, 3))
	require.NoError(t, err)
	assert.True(t, recorded)

	found, err := execute(t, db, users.FindDownload(user.ID, 3))
	require.NoError(t, err)
	assert.Equal(t, 3, found.EpisodeNumber)

	recorded, err = execute(t, db, users.RecordDownload(user.ID, 3))
	require.NoError(t, err)
	assert.False(t, recorded)
	assert.Len(t, db.Downloads(), 1)
}

/*
TestQueries_Teams verifies joining, delegated access and removal.
*/
func TestQueries_Teams(t *testing.T) {
	db := userfake.New()
	owner := db.AddUser(users.User{GithubUID: 1, GithubLogin: "owner", Subscriber: true})
	member := db.AddUser(users.User{GithubUID: 2, GithubLogin: "member"})

	found, err := execute(t, db, users.TeamOwnerByToken(owner.TeamToken))
	require.NoError(t, err)
	assert.Equal(t, owner.ID, found.ID)

	_, err = execute(t, db, users.JoinTeam(owner.ID, member.ID))
	require.NoError(t, err)
	_, err = execute(t, db, users.JoinTeam(owner.ID, member.ID))
	require.NoError(t, err)
	assert.Equal(t, 1, db.MemberCount())

	session, err := execute(t, db, users.SessionByID(db.AddSession(member.ID)))
	require.NoError(t, err)
	require.NotNil(t, session.TeamOwner)
	assert.True(t, session.Premium())

	members, err := execute(t, db, users.TeamMembers(owner.ID))
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "member", members[0].GithubLogin)

	_, err = execute(t, db, users.RemoveTeamMember(owner.ID, member.ID))
	require.NoError(t, err)
	_, err = execute(t, db, users.RemoveTeamMember(owner.ID, member.ID))
	assert.True(t, dberr.IsNotFound(err))
}

/*
TestQueries_LoginState verifies a nonce can be consumed exactly once.
*/
func TestQueries_LoginState(t *testing.T) {
	db := userfake.New()

	_, err := execute(t, db, users.IssueState("nonce-1", time.Minute))
	require.NoError(t, err)

	_, err = execute(t, db, users.ConsumeState("nonce-1"))
	require.NoError(t, err)

	_, err = execute(t, db, users.ConsumeState("nonce-1"))
	assert.Equal(t, http.StatusUnauthorized, apperr.From(err).HTTPStatus)
}
