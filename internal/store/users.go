package store

import (
	"time"

	"github.com/scimulator/scimulator/internal/filter"
	"github.com/scimulator/scimulator/internal/models"
	"github.com/scimulator/scimulator/internal/scim"
)

// CreateUser assigns a fresh identifier and lifecycle metadata, enforces
// userName uniqueness, and stores a private copy of the draft. The returned
// entity is detached from store state.
func (s *Store) CreateUser(draft *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.userNameTaken(draft.UserName) {
		return nil, ErrUserNameTaken
	}
	id, err := s.newID(func(id string) bool { _, ok := s.users[id]; return ok })
	if err != nil {
		return nil, err
	}

	u := draft.Clone()
	u.ID = id
	u.Meta = newMeta(scim.ResourceTypeUser)
	s.users[id] = u
	s.userOrder = append(s.userOrder, id)
	return u.Clone(), nil
}

func (s *Store) userNameTaken(name string) bool {
	for _, u := range s.users {
		if u.UserName == name {
			return true
		}
	}
	return false
}

func (s *Store) GetUser(id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u.Clone(), nil
}

// GetUserByName returns the most recently created live user with that
// userName, matched case-sensitively.
func (s *Store) GetUserByName(userName string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.userOrder) - 1; i >= 0; i-- {
		u := s.users[s.userOrder[i]]
		if u.UserName == userName {
			return u.Clone(), nil
		}
	}
	return nil, ErrUserNotFound
}

// ListUsers filters first, totals second, windows last. startIndex is
// 1-based; a window past the end is an empty page, never an error.
func (s *Store) ListUsers(startIndex, count int, filterStr string) ([]*models.User, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*models.User, 0, len(s.userOrder))
	pred, filtered := filter.Parse(filterStr)
	for _, id := range s.userOrder {
		u := s.users[id]
		if filtered && !pred.Matches(u.FilterValue) {
			continue
		}
		matched = append(matched, u)
	}

	total := len(matched)
	start, end := pageBounds(total, startIndex, count)
	page := make([]*models.User, 0, end-start)
	for _, u := range matched[start:end] {
		page = append(page, u.Clone())
	}
	return page, total
}

// UpdateUser applies the normalized patch with full-replace semantics over
// the attribute whitelist: only attributes the patch mentions change,
// everything else survives. lastModified bumps on every successful call.
func (s *Store) UpdateUser(id string, p *models.UserPatch) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}

	next := cur.Clone()
	applyUserPatch(next, p)
	next.Meta.LastModified = time.Now().UTC()
	// Detach from any memory the patch values share with the caller.
	next = next.Clone()
	s.users[id] = next
	return next.Clone(), nil
}

// DeleteUser removes the user and cascades into every group's member list
// in the same critical section, so no reader ever sees a dangling member.
// The cascade does not touch the groups' lastModified.
func (s *Store) DeleteUser(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return ErrUserNotFound
	}
	delete(s.users, id)
	s.userOrder = removeID(s.userOrder, id)
	for _, g := range s.groups {
		g.Members = withoutMember(g.Members, id)
	}
	return nil
}

// GroupsForUser computes the derived groups view by scanning the group
// table. It is recomputed on every read, never cached on the user, so it
// cannot drift from the group side of truth.
func (s *Store) GroupsForUser(userID string) []models.GroupRef {
	s.mu.RLock()
	defer s.mu.RUnlock()

	refs := make([]models.GroupRef, 0)
	for _, id := range s.groupOrder {
		g := s.groups[id]
		if g.HasMember(userID) {
			refs = append(refs, models.GroupRef{Value: g.ID, Display: g.DisplayName})
		}
	}
	return refs
}

func applyUserPatch(u *models.User, p *models.UserPatch) {
	if p.UserName.Present {
		u.UserName = ""
		if !p.UserName.Null {
			u.UserName = p.UserName.Value
		}
	}
	if p.Name.Present {
		u.Name = nil
		if !p.Name.Null {
			v := p.Name.Value
			u.Name = &v
		}
	}
	u.DisplayName = applyStr(u.DisplayName, p.DisplayName)
	u.NickName = applyStr(u.NickName, p.NickName)
	u.ProfileURL = applyStr(u.ProfileURL, p.ProfileURL)
	u.Title = applyStr(u.Title, p.Title)
	u.UserType = applyStr(u.UserType, p.UserType)
	u.PreferredLanguage = applyStr(u.PreferredLanguage, p.PreferredLanguage)
	u.Locale = applyStr(u.Locale, p.Locale)
	u.Timezone = applyStr(u.Timezone, p.Timezone)
	u.ExternalID = applyStr(u.ExternalID, p.ExternalID)
	if p.Password.Present {
		u.PasswordHash = ""
		if !p.Password.Null {
			u.PasswordHash = p.Password.Value
		}
	}
	u.Emails = applySlice(u.Emails, p.Emails)
	u.PhoneNumbers = applySlice(u.PhoneNumbers, p.PhoneNumbers)
	u.IMs = applySlice(u.IMs, p.IMs)
	u.Photos = applySlice(u.Photos, p.Photos)
	u.Addresses = applySlice(u.Addresses, p.Addresses)
	u.Entitlements = applySlice(u.Entitlements, p.Entitlements)
	u.Roles = applySlice(u.Roles, p.Roles)
	u.X509Certificates = applySlice(u.X509Certificates, p.X509Certificates)
	if p.Active.Present {
		// Clearing a defaulted attribute falls back to its default.
		u.Active = true
		if !p.Active.Null {
			u.Active = p.Active.Value
		}
	}
	if p.Enterprise.Present {
		u.Enterprise = nil
		if !p.Enterprise.Null {
			v := p.Enterprise.Value
			u.Enterprise = &v
		}
	}
}

func applyStr(cur *string, a models.Attr[string]) *string {
	if !a.Present {
		return cur
	}
	if a.Null {
		return nil
	}
	v := a.Value
	return &v
}

func applySlice[T any](cur []T, a models.Attr[[]T]) []T {
	if !a.Present {
		return cur
	}
	if a.Null {
		return nil
	}
	return a.Value
}

func pageBounds(total, startIndex, count int) (start, end int) {
	if startIndex < 1 {
		startIndex = 1
	}
	if count < 0 {
		count = 0
	}
	start = startIndex - 1
	if start > total {
		start = total
	}
	end = start + count
	if end > total {
		end = total
	}
	return start, end
}

func removeID(order []string, id string) []string {
	for i, v := range order {
		if v == id {
			return append(order[:i], order[i+1:]...)
		}
	}
	return order
}

func withoutMember(members []models.Member, userID string) []models.Member {
	out := members[:0]
	for _, m := range members {
		if m.Value != userID {
			out = append(out, m)
		}
	}
	return out
}
