// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package userfake provides an in-memory [users.Store] for tests.
package userfake

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/taibuivan/yomira-cast/internal/platform/apperr"
	"github.com/taibuivan/yomira-cast/internal/platform/dberr"
	"github.com/taibuivan/yomira-cast/internal/users"
	"github.com/taibuivan/yomira-cast/pkg/uuid"
)

var (
	_ users.UserRepository     = userRepository{}
	_ users.SessionRepository  = sessionRepository{}
	_ users.DownloadRepository = downloadRepository{}
	_ users.TeamRepository     = teamRepository{}
	_ users.StateRepository    = stateRepository{}
)

type membership struct {
	ownerID  string
	memberID string
	joinedAt time.Time
}

type session struct {
	userID    string
	createdAt time.Time
}

// DB holds every table in memory.
type DB struct {
	lock sync.Mutex

	users     map[string]users.User
	sessions  map[string]session
	downloads []users.Download
	members   []membership
	states    map[string]time.Time

	writes int

	// Err, when set, fails every repository call.
	Err error
}

// New creates an empty database.
func New() *DB {
	return &DB{
		users:    make(map[string]users.User),
		sessions: make(map[string]session),
		states:   make(map[string]time.Time),
	}
}

// Store returns repositories backed by db.
func (db *DB) Store() *users.Store {
	return &users.Store{
		Users:     userRepository{db},
		Sessions:  sessionRepository{db},
		Downloads: downloadRepository{db},
		Teams:     teamRepository{db},
		States:    stateRepository{db},
	}
}

// # Seeding and inspection

// AddUser inserts user, generating missing ids and secrets.
func (db *DB) AddUser(user users.User) users.User {
	db.lock.Lock()
	defer db.lock.Unlock()

	if user.ID == "" {
		user.ID = uuid.New()
	}
	if user.CSRF == "" {
		user.CSRF = uuid.Secret()
	}
	if user.TeamToken == "" {
		user.TeamToken = uuid.Secret()
	}
	db.users[user.ID] = user
	return user
}

// AddSession signs userID in and returns the session id.
func (db *DB) AddSession(userID string) string {
	db.lock.Lock()
	defer db.lock.Unlock()

	id := uuid.New()
	db.sessions[id] = session{userID: userID, createdAt: time.Now()}
	return id
}

// AddMember puts memberID into ownerID's team.
func (db *DB) AddMember(ownerID, memberID string) {
	db.lock.Lock()
	defer db.lock.Unlock()

	db.members = append(db.members, membership{ownerID: ownerID, memberID: memberID, joinedAt: time.Now()})
}

// User returns the stored account with id.
func (db *DB) User(id string) (users.User, bool) {
	db.lock.Lock()
	defer db.lock.Unlock()

	user, ok := db.users[id]
	return user, ok
}

// Users returns every account ordered by creation.
func (db *DB) Users() []users.User {
	db.lock.Lock()
	defer db.lock.Unlock()

	all := make([]users.User, 0, len(db.users))
	for _, user := range db.users {
		all = append(all, user)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })
	return all
}

// SessionUser reports who owns a session.
func (db *DB) SessionUser(id string) (string, bool) {
	db.lock.Lock()
	defer db.lock.Unlock()

	stored, ok := db.sessions[id]
	return stored.userID, ok
}

// SessionCount returns the number of live sessions.
func (db *DB) SessionCount() int {
	db.lock.Lock()
	defer db.lock.Unlock()
	return len(db.sessions)
}

// Downloads returns every recorded download.
func (db *DB) Downloads() []users.Download {
	db.lock.Lock()
	defer db.lock.Unlock()
	return append([]users.Download(nil), db.downloads...)
}

// MemberCount returns the number of team memberships.
func (db *DB) MemberCount() int {
	db.lock.Lock()
	defer db.lock.Unlock()
	return len(db.members)
}

// HasState reports whether nonce is waiting to be consumed.
func (db *DB) HasState(nonce string) bool {
	db.lock.Lock()
	defer db.lock.Unlock()
	_, ok := db.states[nonce]
	return ok
}

// Writes counts successful mutations.
func (db *DB) Writes() int {
	db.lock.Lock()
	defer db.lock.Unlock()
	return db.writes
}

// # Repositories

type userRepository struct{ db *DB }

func (repository userRepository) FindByGithubUID(_ context.Context, uid int64) (*users.User, error) {
	return repository.db.find(func(user users.User) bool { return user.GithubUID == uid })
}

func (repository userRepository) FindByTeamToken(_ context.Context, token string) (*users.User, error) {
	return repository.db.find(func(user users.User) bool { return user.TeamToken == token })
}

func (repository userRepository) Create(_ context.Context, user *users.User) error {
	db := repository.db
	db.lock.Lock()
	defer db.lock.Unlock()

	if db.Err != nil {
		return db.Err
	}
	for _, existing := range db.users {
		if existing.GithubUID == user.GithubUID {
			return apperr.Conflict("Resource already exists")
		}
	}
	db.users[user.ID] = *user
	db.writes++
	return nil
}

func (repository userRepository) Update(_ context.Context, user *users.User) error {
	db := repository.db
	db.lock.Lock()
	defer db.lock.Unlock()

	if db.Err != nil {
		return db.Err
	}
	if _, ok := db.users[user.ID]; !ok {
		return dberr.ErrNotFound
	}
	db.users[user.ID] = *user
	db.writes++
	return nil
}

func (repository userRepository) SetSubscriber(_ context.Context, id string, subscriber bool) error {
	db := repository.db
	db.lock.Lock()
	defer db.lock.Unlock()

	if db.Err != nil {
		return db.Err
	}
	user, ok := db.users[id]
	if !ok {
		return dberr.ErrNotFound
	}
	user.Subscriber = subscriber
	db.users[id] = user
	db.writes++
	return nil
}

type sessionRepository struct{ db *DB }

func (repository sessionRepository) Find(_ context.Context, id string) (*users.Session, error) {
	db := repository.db
	db.lock.Lock()
	defer db.lock.Unlock()

	if db.Err != nil {
		return nil, db.Err
	}
	stored, ok := db.sessions[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	user, ok := db.users[stored.userID]
	if !ok {
		return nil, dberr.ErrNotFound
	}

	found := &users.Session{ID: id, User: user, CreatedAt: stored.createdAt}
	for _, member := range db.members {
		if member.memberID != user.ID {
			continue
		}
		owner := db.users[member.ownerID]
		if found.TeamOwner == nil || (owner.Subscriber && !found.TeamOwner.Subscriber) {
			found.TeamOwner = &owner
		}
	}
	return found, nil
}

func (repository sessionRepository) Create(_ context.Context, id string, userID string) error {
	db := repository.db
	db.lock.Lock()
	defer db.lock.Unlock()

	if db.Err != nil {
		return db.Err
	}
	db.sessions[id] = session{userID: userID, createdAt: time.Now()}
	db.writes++
	return nil
}

func (repository sessionRepository) Delete(_ context.Context, id string) error {
	db := repository.db
	db.lock.Lock()
	defer db.lock.Unlock()

	if db.Err != nil {
		return db.Err
	}
	if _, ok := db.sessions[id]; ok {
		delete(db.sessions, id)
		db.writes++
	}
	return nil
}

type downloadRepository struct{ db *DB }

func (repository downloadRepository) Find(_ context.Context, userID string, episode int) (*users.Download, error) {
	db := repository.db
	db.lock.Lock()
	defer db.lock.Unlock()

	if db.Err != nil {
		return nil, db.Err
	}
	for _, download := range db.downloads {
		if download.UserID == userID && download.EpisodeNumber == episode {
			found := download
			return &found, nil
		}
	}
	return nil, dberr.ErrNotFound
}

func (repository downloadRepository) Create(_ context.Context, download *users.Download) (bool, error) {
	db := repository.db
	db.lock.Lock()
	defer db.lock.Unlock()

	if db.Err != nil {
		return false, db.Err
	}
	for _, existing := range db.downloads {
		if existing.UserID == download.UserID && existing.EpisodeNumber == download.EpisodeNumber {
			return false, nil
		}
	}
	db.downloads = append(db.downloads, *download)
	db.writes++
	return true, nil
}

type teamRepository struct{ db *DB }

func (repository teamRepository) Members(_ context.Context, ownerID string) ([]users.TeamMember, error) {
	db := repository.db
	db.lock.Lock()
	defer db.lock.Unlock()

	if db.Err != nil {
		return nil, db.Err
	}
	var members []users.TeamMember
	for _, member := range db.members {
		if member.ownerID != ownerID {
			continue
		}
		user := db.users[member.memberID]
		members = append(members, users.TeamMember{
			ID:          user.ID,
			GithubLogin: user.GithubLogin,
			AvatarURL:   user.AvatarURL,
			JoinedAt:    member.joinedAt,
		})
	}
	return members, nil
}

func (repository teamRepository) Add(_ context.Context, ownerID string, memberID string) error {
	db := repository.db
	db.lock.Lock()
	defer db.lock.Unlock()

	if db.Err != nil {
		return db.Err
	}
	for _, member := range db.members {
		if member.ownerID == ownerID && member.memberID == memberID {
			return nil
		}
	}
	db.members = append(db.members, membership{ownerID: ownerID, memberID: memberID, joinedAt: time.Now()})
	db.writes++
	return nil
}

func (repository teamRepository) Remove(_ context.Context, ownerID string, memberID string) error {
	db := repository.db
	db.lock.Lock()
	defer db.lock.Unlock()

	if db.Err != nil {
		return db.Err
	}
	for index, member := range db.members {
		if member.ownerID == ownerID && member.memberID == memberID {
			db.members = append(db.members[:index], db.members[index+1:]...)
			db.writes++
			return nil
		}
	}
	return dberr.ErrNotFound
}

type stateRepository struct{ db *DB }

func (repository stateRepository) Put(_ context.Context, nonce string, ttl time.Duration) error {
	db := repository.db
	db.lock.Lock()
	defer db.lock.Unlock()

	if db.Err != nil {
		return db.Err
	}
	db.states[nonce] = time.Now().Add(ttl)
	return nil
}

func (repository stateRepository) Consume(_ context.Context, nonce string) error {
	db := repository.db
	db.lock.Lock()
	defer db.lock.Unlock()

	if db.Err != nil {
		return db.Err
	}
	expiresAt, ok := db.states[nonce]
	delete(db.states, nonce)
	if !ok || time.Now().After(expiresAt) {
		return apperr.Unauthorized("Your login link expired, please try again")
	}
	return nil
}

func (db *DB) find(match func(users.User) bool) (*users.User, error) {
	db.lock.Lock()
	defer db.lock.Unlock()

	if db.Err != nil {
		return nil, db.Err
	}
	for _, user := range db.users {
		if match(user) {
			found := user
			return &found, nil
		}
	}
	return nil, dberr.ErrNotFound
}
