// Package store owns the canonical User and Group tables. Everything lives
// in process memory and dies with the process; the whole store is a
// disposable fixture, so there is deliberately no persistence behind it.
package store

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/scimulator/scimulator/internal/models"
	"github.com/scimulator/scimulator/internal/scim"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrGroupNotFound = errors.New("group not found")
	ErrUserNameTaken = errors.New("userName already in use")
	// ErrIDCollision is must-not-happen territory; it exists so a random
	// identifier collision dies loudly instead of overwriting an entity.
	ErrIDCollision = errors.New("resource identifier collision")
)

// MemberOpKind tags one normalized member operation.
type MemberOpKind int

const (
	MemberAdd MemberOpKind = iota
	MemberRemove
)

// MemberOp is one add/remove instruction against a group's member list.
type MemberOp struct {
	MemberID string
	Kind     MemberOpKind
}

// Store holds both entity tables behind one lock. One mutex over the whole
// store keeps the cross-table operations (delete cascade, seed) atomic
// without any ordering discipline between per-table locks. Iteration order
// is creation order, kept in the id slices beside the maps.
type Store struct {
	mu         sync.RWMutex
	users      map[string]*models.User
	userOrder  []string
	groups     map[string]*models.Group
	groupOrder []string
}

func New() *Store {
	return &Store{
		users:  make(map[string]*models.User),
		groups: make(map[string]*models.Group),
	}
}

// Clear drops every user and group. Callers observe either the full old
// state or the full empty state, never a half-cleared one.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

func (s *Store) reset() {
	s.users = make(map[string]*models.User)
	s.userOrder = nil
	s.groups = make(map[string]*models.Group)
	s.groupOrder = nil
}

// Counts reports the live user and group totals.
func (s *Store) Counts() (users, groups int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users), len(s.groups)
}

func (s *Store) newID(taken func(string) bool) (string, error) {
	id := uuid.NewString()
	if taken(id) {
		return "", ErrIDCollision
	}
	return id, nil
}

func newMeta(resourceType string) models.Meta {
	now := time.Now().UTC()
	return models.Meta{
		Created:      now,
		LastModified: now,
		ResourceType: resourceType,
	}
}

// resolveMemberDisplays pins each member entry's display label to the
// referenced user's displayName (userName fallback) as of right now. Entries
// whose value does not resolve keep whatever display the caller supplied;
// existing entries elsewhere are never re-synced on later renames.
func (s *Store) resolveMemberDisplays(members []models.Member) []models.Member {
	out := models.CloneMembers(members)
	for i := range out {
		if out[i].Type == "" {
			out[i].Type = scim.ResourceTypeUser
		}
		u, ok := s.users[out[i].Value]
		if !ok {
			continue
		}
		d := displayFor(u)
		out[i].Display = &d
	}
	return out
}

func displayFor(u *models.User) string {
	if u.DisplayName != nil && *u.DisplayName != "" {
		return *u.DisplayName
	}
	return u.UserName
}
