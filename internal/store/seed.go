package store

import (
	"fmt"

	"github.com/scimulator/scimulator/internal/models"
	"github.com/scimulator/scimulator/internal/scim"
)

// SeedGroup is a group draft whose members are userNames, resolved against
// the users seeded in the same call.
type SeedGroup struct {
	DisplayName     string
	ExternalID      *string
	MemberUserNames []string
}

// Seed replaces the entire store contents in one atomic step: the new
// tables are built completely before they are swapped in, so concurrent
// readers see either the old world or the new one. Group members are
// resolved by userName against the seeded users; unknown userNames are
// skipped. A duplicate userName in the seed rejects the whole seed with
// the store untouched.
func (s *Store) Seed(users []*models.User, groups []SeedGroup) (userCount, groupCount int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	newUsers := make(map[string]*models.User, len(users))
	newUserOrder := make([]string, 0, len(users))
	byName := make(map[string]*models.User, len(users))

	for _, draft := range users {
		if _, dup := byName[draft.UserName]; dup {
			return 0, 0, fmt.Errorf("seed user %q: %w", draft.UserName, ErrUserNameTaken)
		}
		id, idErr := s.newID(func(id string) bool { _, ok := newUsers[id]; return ok })
		if idErr != nil {
			return 0, 0, idErr
		}
		u := draft.Clone()
		u.ID = id
		u.Meta = newMeta(scim.ResourceTypeUser)
		newUsers[id] = u
		newUserOrder = append(newUserOrder, id)
		byName[u.UserName] = u
	}

	newGroups := make(map[string]*models.Group, len(groups))
	newGroupOrder := make([]string, 0, len(groups))

	for _, sg := range groups {
		id, idErr := s.newID(func(id string) bool { _, ok := newGroups[id]; return ok })
		if idErr != nil {
			return 0, 0, idErr
		}
		members := make([]models.Member, 0, len(sg.MemberUserNames))
		for _, name := range sg.MemberUserNames {
			u, ok := byName[name]
			if !ok {
				continue
			}
			d := displayFor(u)
			members = append(members, models.Member{
				Value:   u.ID,
				Display: &d,
				Type:    scim.ResourceTypeUser,
			})
		}
		g := &models.Group{
			ID:          id,
			DisplayName: sg.DisplayName,
			ExternalID:  clonePtrStr(sg.ExternalID),
			Members:     members,
			Meta:        newMeta(scim.ResourceTypeGroup),
		}
		newGroups[id] = g
		newGroupOrder = append(newGroupOrder, id)
	}

	s.users = newUsers
	s.userOrder = newUserOrder
	s.groups = newGroups
	s.groupOrder = newGroupOrder
	return len(newUsers), len(newGroups), nil
}

func clonePtrStr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
