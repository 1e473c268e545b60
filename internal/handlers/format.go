package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/scimulator/scimulator/internal/dto"
	"github.com/scimulator/scimulator/internal/models"
	"github.com/scimulator/scimulator/internal/scim"
)

// formatUser renders a user document for one dialect. Optional
// attributes are carried only when set, the derived groups list is
// always attached, the enterprise extension keeps its origin URN and
// manager shape, and the password hash never leaves the process.
func formatUser(c *fiber.Ctx, d scim.Dialect, u *models.User, groups []models.GroupRef) dto.UserResource {
	entV1, entV2 := dto.FromModel(u.Enterprise)
	if groups == nil {
		groups = []models.GroupRef{}
	}
	return dto.UserResource{
		Schemas:           []string{d.UserSchema()},
		ID:                u.ID,
		UserName:          u.UserName,
		Name:              u.Name,
		DisplayName:       u.DisplayName,
		NickName:          u.NickName,
		ProfileURL:        u.ProfileURL,
		Title:             u.Title,
		UserType:          u.UserType,
		PreferredLanguage: u.PreferredLanguage,
		Locale:            u.Locale,
		Timezone:          u.Timezone,
		Emails:            u.Emails,
		PhoneNumbers:      u.PhoneNumbers,
		IMs:               u.IMs,
		Photos:            u.Photos,
		Addresses:         u.Addresses,
		Entitlements:      u.Entitlements,
		Roles:             u.Roles,
		X509Certificates:  u.X509Certificates,
		Active:            u.Active,
		ExternalID:        u.ExternalID,
		Groups:            groups,
		Meta:              formatMeta(c, d, "Users", u.ID, u.Meta),
		EnterpriseV1:      entV1,
		EnterpriseV2:      entV2,
	}
}

func formatGroup(c *fiber.Ctx, d scim.Dialect, g *models.Group) dto.GroupResource {
	members := g.Members
	if members == nil {
		members = []models.Member{}
	}
	return dto.GroupResource{
		Schemas:     []string{d.GroupSchema()},
		ID:          g.ID,
		DisplayName: g.DisplayName,
		ExternalID:  g.ExternalID,
		Members:     members,
		Meta:        formatMeta(c, d, "Groups", g.ID, g.Meta),
	}
}

func formatMeta(c *fiber.Ctx, d scim.Dialect, collection, id string, m models.Meta) dto.Meta {
	return dto.Meta{
		ResourceType: m.ResourceType,
		Created:      m.Created,
		LastModified: m.LastModified,
		Location:     c.BaseURL() + d.PathPrefix() + "/" + collection + "/" + id,
	}
}

func formatList(d scim.Dialect, total, startIndex, pageLen int, resources any) dto.ListResponse {
	return dto.ListResponse{
		Schemas:      []string{d.ListSchema()},
		TotalResults: total,
		StartIndex:   startIndex,
		ItemsPerPage: pageLen,
		Resources:    resources,
	}
}

// scimError writes the dialect-appropriate error envelope.
func scimError(c *fiber.Ctx, d scim.Dialect, status int, detail string) error {
	if d == scim.V2 {
		return c.Status(status).JSON(dto.NewErrorV2(status, detail))
	}
	return c.Status(status).JSON(dto.NewErrorV1(status, detail))
}

// pageWindow reads the list query params, clamping instead of rejecting
// out-of-range values.
func pageWindow(c *fiber.Ctx) (startIndex, count int) {
	startIndex = c.QueryInt("startIndex", 1)
	if startIndex < 1 {
		startIndex = 1
	}
	count = c.QueryInt("count", 100)
	if count < 0 {
		count = 0
	}
	return startIndex, count
}
