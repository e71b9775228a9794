// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package users

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yomira-cast/internal/platform/dberr"
	"github.com/taibuivan/yomira-cast/pkg/uuid"
)

// accountColumns selects a full account row aliased as "u".
const accountColumns = `
	u.id, u.githubuid, u.githublogin, u.githubtoken, u.avatarurl, u.name, u.email,
	u.role, u.subscriber, u.csrf, u.teamtoken, u.createdat, u.updatedat`

func scanUser(row pgx.Row, user *User, extra ...any) error {
	destinations := append([]any{
		&user.ID,
		&user.GithubUID,
		&user.GithubLogin,
		&user.GithubToken,
		&user.AvatarURL,
		&user.Name,
		&user.Email,
		&user.Role,
		&user.Subscriber,
		&user.CSRF,
		&user.TeamToken,
		&user.CreatedAt,
		&user.UpdatedAt,
	}, extra...)
	return row.Scan(destinations...)
}

// # User Repository

// PostgresUserRepository implements [UserRepository] using PostgreSQL.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL-backed UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// FindByGithubUID retrieves the account linked to a GitHub user.
func (repository *PostgresUserRepository) FindByGithubUID(context context.Context, uid int64) (*User, error) {
	query := `SELECT ` + accountColumns + ` FROM users.account u WHERE u.githubuid = $1`

	user := &User{}
	if err := scanUser(repository.pool.QueryRow(context, query, uid), user); err != nil {
		return nil, dberr.Wrap(err, "postgres_user_repo_find_by_github_uid_failed")
	}
	return user, nil
}

// FindByTeamToken retrieves the owner of an invitation token.
func (repository *PostgresUserRepository) FindByTeamToken(context context.Context, token string) (*User, error) {
	if !uuid.Valid(token) {
		return nil, dberr.ErrNotFound
	}

	query := `SELECT ` + accountColumns + ` FROM users.account u WHERE u.teamtoken = $1`

	user := &User{}
	if err := scanUser(repository.pool.QueryRow(context, query, token), user); err != nil {
		return nil, dberr.Wrap(err, "postgres_user_repo_find_by_team_token_failed")
	}
	return user, nil
}

/*
Create inserts a new account.

Parameters:
  - context: context.Context
  - user: *User (ID and secrets already generated)

Returns:
  - error: Conflict on a duplicate GitHub account, or database errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	const query = `
		INSERT INTO users.account
			(id, githubuid, githublogin, githubtoken, avatarurl, name, email, role, subscriber, csrf, teamtoken, createdat, updatedat)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.GithubUID,
		user.GithubLogin,
		user.GithubToken,
		user.AvatarURL,
		user.Name,
		user.Email,
		user.Role,
		user.Subscriber,
		user.CSRF,
		user.TeamToken,
		user.CreatedAt,
		user.UpdatedAt,
	)
	return dberr.Wrap(err, "postgres_user_repo_create_failed")
}

// Update persists the mutable fields of an account.
func (repository *PostgresUserRepository) Update(context context.Context, user *User) error {
	const query = `
		UPDATE users.account
		SET githublogin = $2, githubtoken = $3, avatarurl = $4, name = $5, email = $6, updatedat = $7
		WHERE id = $1`

	tag, err := repository.pool.Exec(context, query,
		user.ID,
		user.GithubLogin,
		user.GithubToken,
		user.AvatarURL,
		user.Name,
		user.Email,
		user.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "postgres_user_repo_update_failed")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

// SetSubscriber stores the subscription flag reported by billing.
func (repository *PostgresUserRepository) SetSubscriber(context context.Context, id string, subscriber bool) error {
	if !uuid.Valid(id) {
		return dberr.ErrNotFound
	}

	const query = `UPDATE users.account SET subscriber = $2, updatedat = $3 WHERE id = $1`

	tag, err := repository.pool.Exec(context, query, id, subscriber, time.Now().UTC())
	if err != nil {
		return dberr.Wrap(err, "postgres_user_repo_set_subscriber_failed")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

// # Session Repository

// PostgresSessionRepository implements [SessionRepository] using PostgreSQL.
type PostgresSessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new PostgreSQL-backed SessionRepository.
func NewSessionRepository(pool *pgxpool.Pool) *PostgresSessionRepository {
	return &PostgresSessionRepository{pool: pool}
}

/*
Find loads a session, its user and the owner of the user's team.

Description: A member of several teams is attached to a subscribing owner
when there is one, otherwise to the team joined first.

Parameters:
  - context: context.Context
  - id: string (value of the session cookie)

Returns:
  - *Session: Hydrated session
  - error: dberr.ErrNotFound for unknown or malformed ids
*/
func (repository *PostgresSessionRepository) Find(context context.Context, id string) (*Session, error) {
	if !uuid.Valid(id) {
		return nil, dberr.ErrNotFound
	}

	sessionQuery := `
		SELECT ` + accountColumns + `, s.id, s.createdat
		FROM users.session s
		JOIN users.account u ON u.id = s.userid
		WHERE s.id = $1`

	session := &Session{}
	row := repository.pool.QueryRow(context, sessionQuery, id)
	if err := scanUser(row, &session.User, &session.ID, &session.CreatedAt); err != nil {
		return nil, dberr.Wrap(err, "postgres_session_repo_find_failed")
	}

	ownerQuery := `
		SELECT ` + accountColumns + `
		FROM users.teammember tm
		JOIN users.account u ON u.id = tm.ownerid
		WHERE tm.memberid = $1
		ORDER BY u.subscriber DESC, tm.createdat ASC
		LIMIT 1`

	owner := &User{}
	err := scanUser(repository.pool.QueryRow(context, ownerQuery, session.User.ID), owner)
	switch {
	case err == nil:
		session.TeamOwner = owner
	case !errors.Is(err, pgx.ErrNoRows):
		return nil, dberr.Wrap(err, "postgres_session_repo_find_team_owner_failed")
	}

	return session, nil
}

// Create inserts a session row.
func (repository *PostgresSessionRepository) Create(context context.Context, id string, userID string) error {
	const query = `INSERT INTO users.session (id, userid, createdat) VALUES ($1, $2, $3)`

	_, err := repository.pool.Exec(context, query, id, userID, time.Now().UTC())
	return dberr.Wrap(err, "postgres_session_repo_create_failed")
}

// Delete removes a session row.
func (repository *PostgresSessionRepository) Delete(context context.Context, id string) error {
	if !uuid.Valid(id) {
		return nil
	}

	const query = `DELETE FROM users.session WHERE id = $1`

	_, err := repository.pool.Exec(context, query, id)
	return dberr.Wrap(err, "postgres_session_repo_delete_failed")
}

// # Download Repository

// PostgresDownloadRepository implements [DownloadRepository] using PostgreSQL.
type PostgresDownloadRepository struct {
	pool *pgxpool.Pool
}

// NewDownloadRepository creates a new PostgreSQL-backed DownloadRepository.
func NewDownloadRepository(pool *pgxpool.Pool) *PostgresDownloadRepository {
	return &PostgresDownloadRepository{pool: pool}
}

// Find retrieves the download of an episode by a user.
func (repository *PostgresDownloadRepository) Find(context context.Context, userID string, episode int) (*Download, error) {
	const query = `
		SELECT id, userid, episodenumber, createdat
		FROM users.download
		WHERE userid = $1 AND episodenumber = $2`

	download := &Download{}
	err := repository.pool.QueryRow(context, query, userID, episode).Scan(
		&download.ID,
		&download.UserID,
		&download.EpisodeNumber,
		&download.CreatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "postgres_download_repo_find_failed")
	}
	return download, nil
}

// Create inserts a download row. A row that already exists for the user and
// episode is left alone and reported as not inserted.
func (repository *PostgresDownloadRepository) Create(context context.Context, download *Download) (bool, error) {
	const query = `
		INSERT INTO users.download (id, userid, episodenumber, createdat)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (userid, episodenumber) DO NOTHING`

	tag, err := repository.pool.Exec(context, query,
		download.ID,
		download.UserID,
		download.EpisodeNumber,
		download.CreatedAt,
	)
	if err != nil {
		return false, dberr.Wrap(err, "postgres_download_repo_create_failed")
	}
	return tag.RowsAffected() == 1, nil
}

// # Team Repository

// PostgresTeamRepository implements [TeamRepository] using PostgreSQL.
type PostgresTeamRepository struct {
	pool *pgxpool.Pool
}

// NewTeamRepository creates a new PostgreSQL-backed TeamRepository.
func NewTeamRepository(pool *pgxpool.Pool) *PostgresTeamRepository {
	return &PostgresTeamRepository{pool: pool}
}

// Members lists the members of an owner's team.
func (repository *PostgresTeamRepository) Members(context context.Context, ownerID string) ([]TeamMember, error) {
	const query = `
		SELECT u.id, u.githublogin, u.avatarurl, tm.createdat
		FROM users.teammember tm
		JOIN users.account u ON u.id = tm.memberid
		WHERE tm.ownerid = $1
		ORDER BY tm.createdat ASC`

	rows, err := repository.pool.Query(context, query, ownerID)
	if err != nil {
		return nil, dberr.Wrap(err, "postgres_team_repo_members_failed")
	}
	defer rows.Close()

	var members []TeamMember
	for rows.Next() {
		var member TeamMember
		if err := rows.Scan(&member.ID, &member.GithubLogin, &member.AvatarURL, &member.JoinedAt); err != nil {
			return nil, dberr.Wrap(err, "postgres_team_repo_members_scan_failed")
		}
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "postgres_team_repo_members_failed")
	}

	return members, nil
}

// Add inserts a membership, ignoring duplicates.
func (repository *PostgresTeamRepository) Add(context context.Context, ownerID string, memberID string) error {
	const query = `
		INSERT INTO users.teammember (ownerid, memberid, createdat)
		VALUES ($1, $2, $3)
		ON CONFLICT (ownerid, memberid) DO NOTHING`

	_, err := repository.pool.Exec(context, query, ownerID, memberID, time.Now().UTC())
	return dberr.Wrap(err, "postgres_team_repo_add_failed")
}

// Remove deletes a membership.
func (repository *PostgresTeamRepository) Remove(context context.Context, ownerID string, memberID string) error {
	if !uuid.Valid(memberID) {
		return dberr.ErrNotFound
	}

	const query = `DELETE FROM users.teammember WHERE ownerid = $1 AND memberid = $2`

	tag, err := repository.pool.Exec(context, query, ownerID, memberID)
	if err != nil {
		return dberr.Wrap(err, "postgres_team_repo_remove_failed")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}
