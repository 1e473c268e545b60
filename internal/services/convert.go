package services

import (
	"fmt"

	"github.com/scimulator/scimulator/internal/dto"
	"github.com/scimulator/scimulator/internal/models"
	"github.com/scimulator/scimulator/internal/scim"
	"github.com/scimulator/scimulator/internal/store"
)

// userFromPayload builds a store draft from a create request. Password
// plaintext is hashed here and never travels further.
func userFromPayload(d scim.Dialect, p *dto.UserPayload) (*models.User, error) {
	if p.UserName == "" {
		return nil, ErrUserNameRequired
	}
	u := &models.User{
		UserName:          p.UserName,
		Name:              p.Name,
		DisplayName:       p.DisplayName,
		NickName:          p.NickName,
		ProfileURL:        p.ProfileURL,
		Title:             p.Title,
		UserType:          p.UserType,
		PreferredLanguage: p.PreferredLanguage,
		Locale:            p.Locale,
		Timezone:          p.Timezone,
		Emails:            p.Emails,
		PhoneNumbers:      p.PhoneNumbers,
		IMs:               p.IMs,
		Photos:            p.Photos,
		Addresses:         p.Addresses,
		Entitlements:      p.Entitlements,
		Roles:             p.Roles,
		X509Certificates:  p.X509Certificates,
		Active:            p.Active == nil || *p.Active,
		ExternalID:        p.ExternalID,
		Enterprise:        p.Enterprise(d),
	}
	if p.Password != nil {
		hash, err := models.HashPassword(*p.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		u.PasswordHash = hash
	}
	return u, nil
}

// putUserPatch reduces a full-replace request to the store's partial
// update shape: every attribute carried by the payload overwrites, an
// absent one stays untouched. The active flag is special in that the
// wire default true always counts as carried.
func putUserPatch(d scim.Dialect, p *dto.UserPayload) (*models.UserPatch, error) {
	if p.UserName == "" {
		return nil, ErrUserNameRequired
	}
	mp := &models.UserPatch{
		UserName: models.SetAttr(p.UserName),
		Active:   models.SetAttr(p.Active == nil || *p.Active),
	}
	if p.Name != nil {
		mp.Name = models.SetAttr(*p.Name)
	}
	setStr(&mp.DisplayName, p.DisplayName)
	setStr(&mp.NickName, p.NickName)
	setStr(&mp.ProfileURL, p.ProfileURL)
	setStr(&mp.Title, p.Title)
	setStr(&mp.UserType, p.UserType)
	setStr(&mp.PreferredLanguage, p.PreferredLanguage)
	setStr(&mp.Locale, p.Locale)
	setStr(&mp.Timezone, p.Timezone)
	setStr(&mp.ExternalID, p.ExternalID)
	setSlice(&mp.Emails, p.Emails)
	setSlice(&mp.PhoneNumbers, p.PhoneNumbers)
	setSlice(&mp.IMs, p.IMs)
	setSlice(&mp.Photos, p.Photos)
	setSlice(&mp.Addresses, p.Addresses)
	setSlice(&mp.Entitlements, p.Entitlements)
	setSlice(&mp.Roles, p.Roles)
	setSlice(&mp.X509Certificates, p.X509Certificates)
	if p.Password != nil {
		hash, err := models.HashPassword(*p.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		mp.Password = models.SetAttr(hash)
	}
	if ent := p.Enterprise(d); ent != nil {
		mp.Enterprise = models.SetAttr(*ent)
	}
	return mp, nil
}

func groupFromPayload(p *dto.GroupPayload) (*models.Group, error) {
	if p.DisplayName == "" {
		return nil, ErrDisplayNameRequired
	}
	return &models.Group{
		DisplayName: p.DisplayName,
		ExternalID:  p.ExternalID,
		Members:     p.Members,
	}, nil
}

func groupPutPatch(p *dto.GroupPayload) (*models.GroupPatch, error) {
	if p.DisplayName == "" {
		return nil, ErrDisplayNameRequired
	}
	gp := &models.GroupPatch{DisplayName: models.SetAttr(p.DisplayName)}
	if p.ExternalID != nil {
		gp.ExternalID = models.SetAttr(*p.ExternalID)
	}
	if p.Members != nil {
		gp.Members = models.SetAttr(p.Members)
	}
	return gp, nil
}

// seedFromRequest converts the admin seed payload. Seeded users accept
// the extension under either dialect URN; the current one wins when
// both are present.
func seedFromRequest(req *dto.SeedRequest) ([]*models.User, []store.SeedGroup, error) {
	users := make([]*models.User, 0, len(req.Users))
	for i := range req.Users {
		u, err := userFromPayload(scim.V2, &req.Users[i])
		if err != nil {
			return nil, nil, err
		}
		if u.Enterprise == nil {
			u.Enterprise = req.Users[i].EnterpriseV1.Model()
		}
		users = append(users, u)
	}
	groups := make([]store.SeedGroup, 0, len(req.Groups))
	for _, g := range req.Groups {
		if g.DisplayName == "" {
			return nil, nil, ErrDisplayNameRequired
		}
		groups = append(groups, store.SeedGroup{
			DisplayName:     g.DisplayName,
			ExternalID:      g.ExternalID,
			MemberUserNames: g.Members,
		})
	}
	return users, groups, nil
}

func setStr(a *models.Attr[string], p *string) {
	if p != nil {
		*a = models.SetAttr(*p)
	}
}

func setSlice[T any](a *models.Attr[[]T], s []T) {
	if s != nil {
		*a = models.SetAttr(s)
	}
}
