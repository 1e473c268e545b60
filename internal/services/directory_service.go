package services

import (
	"encoding/json"
	"errors"

	"github.com/scimulator/scimulator/internal/dto"
	"github.com/scimulator/scimulator/internal/models"
	"github.com/scimulator/scimulator/internal/patch"
	"github.com/scimulator/scimulator/internal/policy"
	"github.com/scimulator/scimulator/internal/scim"
	"github.com/scimulator/scimulator/internal/store"
)

var (
	ErrGroupsPutDisabled   = errors.New("group replace disabled by policy")
	ErrGroupsPatchDisabled = errors.New("group patch disabled by policy")
	ErrUserNameRequired    = errors.New("userName is required")
	ErrDisplayNameRequired = errors.New("displayName is required")
)

// DirectoryService is the one entry point the transport layer talks to.
// It dispatches resource operations into the store, runs patch payloads
// through the merger, and gates group mutations on the policy resolver.
// The gate check always precedes any store access.
type DirectoryService struct {
	store  *store.Store
	merger *patch.Merger
	policy *policy.Resolver
}

func NewDirectoryService(st *store.Store, res *policy.Resolver) *DirectoryService {
	return &DirectoryService{
		store:  st,
		merger: patch.NewMerger(st),
		policy: res,
	}
}

func (s *DirectoryService) CreateUser(d scim.Dialect, p *dto.UserPayload) (*models.User, error) {
	u, err := userFromPayload(d, p)
	if err != nil {
		return nil, err
	}
	return s.store.CreateUser(u)
}

func (s *DirectoryService) GetUser(id string) (*models.User, error) {
	return s.store.GetUser(id)
}

func (s *DirectoryService) ListUsers(startIndex, count int, filter string) ([]*models.User, int) {
	return s.store.ListUsers(startIndex, count, filter)
}

// ReplaceUser applies a full-replace request. Only attributes present
// in the payload are overwritten; the rest keep their stored values.
func (s *DirectoryService) ReplaceUser(d scim.Dialect, id string, p *dto.UserPayload) (*models.User, error) {
	mp, err := putUserPatch(d, p)
	if err != nil {
		return nil, err
	}
	return s.store.UpdateUser(id, mp)
}

func (s *DirectoryService) PatchUser(d scim.Dialect, id string, doc map[string]json.RawMessage) (*models.User, error) {
	return s.merger.User(d, id, doc)
}

func (s *DirectoryService) DeleteUser(id string) error {
	return s.store.DeleteUser(id)
}

// GroupsForUser is the derived membership view attached to rendered
// users.
func (s *DirectoryService) GroupsForUser(id string) []models.GroupRef {
	return s.store.GroupsForUser(id)
}

func (s *DirectoryService) CreateGroup(p *dto.GroupPayload) (*models.Group, error) {
	g, err := groupFromPayload(p)
	if err != nil {
		return nil, err
	}
	return s.store.CreateGroup(g)
}

func (s *DirectoryService) GetGroup(id string) (*models.Group, error) {
	return s.store.GetGroup(id)
}

func (s *DirectoryService) ListGroups(startIndex, count int, filter string) ([]*models.Group, int) {
	return s.store.ListGroups(startIndex, count, filter)
}

func (s *DirectoryService) ReplaceGroup(id string, p *dto.GroupPayload) (*models.Group, error) {
	if !s.allowed(policy.FlagGroupsPut) {
		return nil, ErrGroupsPutDisabled
	}
	gp, err := groupPutPatch(p)
	if err != nil {
		return nil, err
	}
	return s.store.UpdateGroup(id, gp)
}

func (s *DirectoryService) PatchGroup(d scim.Dialect, id string, doc map[string]json.RawMessage) (*models.Group, error) {
	if !s.allowed(policy.FlagGroupsPatch) {
		return nil, ErrGroupsPatchDisabled
	}
	return s.merger.Group(d, id, doc)
}

func (s *DirectoryService) DeleteGroup(id string) error {
	return s.store.DeleteGroup(id)
}

// Seed atomically replaces the whole directory with the given payload.
func (s *DirectoryService) Seed(req *dto.SeedRequest) (users, groups int, err error) {
	seedUsers, seedGroups, err := seedFromRequest(req)
	if err != nil {
		return 0, 0, err
	}
	return s.store.Seed(seedUsers, seedGroups)
}

func (s *DirectoryService) ClearAll() {
	s.store.Clear()
}

func (s *DirectoryService) Counts() (users, groups int) {
	return s.store.Counts()
}

func (s *DirectoryService) PolicySnapshot() policy.Snapshot {
	return s.policy.Snapshot()
}

func (s *DirectoryService) SetProfile(name string) error {
	return s.policy.SetProfile(name)
}

func (s *DirectoryService) SetOverride(flag string, value bool) error {
	return s.policy.SetOverride(flag, value)
}

func (s *DirectoryService) ClearOverride(flag string) error {
	return s.policy.ClearOverride(flag)
}

func (s *DirectoryService) allowed(flag string) bool {
	v, err := s.policy.Effective(flag)
	return err == nil && v
}
