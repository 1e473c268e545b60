package store

import (
	"time"

	"github.com/scimulator/scimulator/internal/filter"
	"github.com/scimulator/scimulator/internal/models"
	"github.com/scimulator/scimulator/internal/scim"
)

// CreateGroup assigns identity and metadata and stores the draft. Member
// entries created here resolve their display labels against the live user
// table (displayName, then userName); unresolvable values keep whatever the
// caller sent. Duplicate group displayNames are allowed.
func (s *Store) CreateGroup(draft *models.Group) (*models.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.newID(func(id string) bool { _, ok := s.groups[id]; return ok })
	if err != nil {
		return nil, err
	}

	g := draft.Clone()
	g.ID = id
	g.Members = s.resolveMemberDisplays(g.Members)
	g.Meta = newMeta(scim.ResourceTypeGroup)
	s.groups[id] = g
	s.groupOrder = append(s.groupOrder, id)
	return g.Clone(), nil
}

func (s *Store) GetGroup(id string) (*models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.groups[id]
	if !ok {
		return nil, ErrGroupNotFound
	}
	return g.Clone(), nil
}

func (s *Store) ListGroups(startIndex, count int, filterStr string) ([]*models.Group, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*models.Group, 0, len(s.groupOrder))
	pred, filtered := filter.Parse(filterStr)
	for _, id := range s.groupOrder {
		g := s.groups[id]
		if filtered && !pred.Matches(g.FilterValue) {
			continue
		}
		matched = append(matched, g)
	}

	total := len(matched)
	start, end := pageBounds(total, startIndex, count)
	page := make([]*models.Group, 0, end-start)
	for _, g := range matched[start:end] {
		page = append(page, g.Clone())
	}
	return page, total
}

// UpdateGroup applies the normalized patch over the group whitelist
// (displayName, externalId, members); a replaced member list goes through
// display resolution like freshly created entries.
func (s *Store) UpdateGroup(id string, p *models.GroupPatch) (*models.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.groups[id]
	if !ok {
		return nil, ErrGroupNotFound
	}

	next := cur.Clone()
	if p.DisplayName.Present {
		next.DisplayName = ""
		if !p.DisplayName.Null {
			next.DisplayName = p.DisplayName.Value
		}
	}
	next.ExternalID = applyStr(next.ExternalID, p.ExternalID)
	if p.Members.Present {
		next.Members = nil
		if !p.Members.Null {
			next.Members = s.resolveMemberDisplays(p.Members.Value)
		}
	}
	next.Meta.LastModified = time.Now().UTC()
	next = next.Clone()
	s.groups[id] = next
	return next.Clone(), nil
}

func (s *Store) DeleteGroup(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.groups[id]; !ok {
		return ErrGroupNotFound
	}
	delete(s.groups, id)
	s.groupOrder = removeID(s.groupOrder, id)
	return nil
}

// ApplyMemberOps replays the normalized ops in order against the member
// list. Add is idempotent: an entry already present is neither duplicated
// nor display-refreshed. Remove drops every entry with that value. The ops
// build a working list that replaces the stored one in a single swap, and
// lastModified bumps once per call even when every op was a no-op.
func (s *Store) ApplyMemberOps(groupID string, ops []MemberOp) (*models.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.groups[groupID]
	if !ok {
		return nil, ErrGroupNotFound
	}

	members := models.CloneMembers(cur.Members)
	for _, op := range ops {
		if op.MemberID == "" {
			continue
		}
		switch op.Kind {
		case MemberAdd:
			if hasMemberValue(members, op.MemberID) {
				continue
			}
			entry := models.Member{Value: op.MemberID, Type: scim.ResourceTypeUser}
			if u, live := s.users[op.MemberID]; live {
				d := displayFor(u)
				entry.Display = &d
			}
			members = append(members, entry)
		case MemberRemove:
			members = withoutMember(members, op.MemberID)
		}
	}

	next := cur.Clone()
	next.Members = members
	next.Meta.LastModified = time.Now().UTC()
	s.groups[groupID] = next
	return next.Clone(), nil
}

func hasMemberValue(members []models.Member, id string) bool {
	for _, m := range members {
		if m.Value == id {
			return true
		}
	}
	return false
}
