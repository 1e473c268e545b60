package dto

import (
	"github.com/scimulator/scimulator/internal/models"
	"github.com/scimulator/scimulator/internal/scim"
)

// UserPayload is the user create/replace request body. Both dialects
// share the core attributes; the enterprise extension arrives under a
// dialect specific URN key and only the key matching the request's
// dialect is honored.
type UserPayload struct {
	Schemas           []string             `json:"schemas"`
	UserName          string               `json:"userName"`
	Name              *models.Name         `json:"name"`
	DisplayName       *string              `json:"displayName"`
	NickName          *string              `json:"nickName"`
	ProfileURL        *string              `json:"profileUrl"`
	Title             *string              `json:"title"`
	UserType          *string              `json:"userType"`
	PreferredLanguage *string              `json:"preferredLanguage"`
	Locale            *string              `json:"locale"`
	Timezone          *string              `json:"timezone"`
	Password          *string              `json:"password"`
	Emails            []models.Email       `json:"emails"`
	PhoneNumbers      []models.PhoneNumber `json:"phoneNumbers"`
	IMs               []models.IM          `json:"ims"`
	Photos            []models.Photo       `json:"photos"`
	Addresses         []models.Address     `json:"addresses"`
	Entitlements      []models.Entitlement `json:"entitlements"`
	Roles             []models.Role        `json:"roles"`
	X509Certificates  []models.Certificate `json:"x509Certificates"`
	Active            *bool                `json:"active"`
	ExternalID        *string              `json:"externalId"`
	EnterpriseV1      *EnterpriseV1        `json:"urn:scim:schemas:extension:enterprise:1.0"`
	EnterpriseV2      *EnterpriseV2        `json:"urn:ietf:params:scim:schemas:extension:enterprise:2.0:User"`
}

// Enterprise picks the extension record keyed by the request dialect.
func (p *UserPayload) Enterprise(d scim.Dialect) *models.Enterprise {
	if d == scim.V1 {
		return p.EnterpriseV1.Model()
	}
	return p.EnterpriseV2.Model()
}
