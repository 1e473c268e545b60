package dto

import (
	"time"

	"github.com/scimulator/scimulator/internal/models"
	"github.com/scimulator/scimulator/internal/scim"
)

// Meta is the rendered lifecycle block of a resource.
type Meta struct {
	ResourceType string    `json:"resourceType"`
	Created      time.Time `json:"created"`
	LastModified time.Time `json:"lastModified"`
	Location     string    `json:"location"`
}

// UserResource is the rendered user document. Optional attributes are
// omitted when absent rather than serialized as null; the derived
// groups list is always attached, even when empty, and the password is
// never part of the document.
type UserResource struct {
	Schemas           []string             `json:"schemas"`
	ID                string               `json:"id"`
	UserName          string               `json:"userName"`
	Name              *models.Name         `json:"name,omitempty"`
	DisplayName       *string              `json:"displayName,omitempty"`
	NickName          *string              `json:"nickName,omitempty"`
	ProfileURL        *string              `json:"profileUrl,omitempty"`
	Title             *string              `json:"title,omitempty"`
	UserType          *string              `json:"userType,omitempty"`
	PreferredLanguage *string              `json:"preferredLanguage,omitempty"`
	Locale            *string              `json:"locale,omitempty"`
	Timezone          *string              `json:"timezone,omitempty"`
	Emails            []models.Email       `json:"emails,omitempty"`
	PhoneNumbers      []models.PhoneNumber `json:"phoneNumbers,omitempty"`
	IMs               []models.IM          `json:"ims,omitempty"`
	Photos            []models.Photo       `json:"photos,omitempty"`
	Addresses         []models.Address     `json:"addresses,omitempty"`
	Entitlements      []models.Entitlement `json:"entitlements,omitempty"`
	Roles             []models.Role        `json:"roles,omitempty"`
	X509Certificates  []models.Certificate `json:"x509Certificates,omitempty"`
	Active            bool                 `json:"active"`
	ExternalID        *string              `json:"externalId,omitempty"`
	Groups            []models.GroupRef    `json:"groups"`
	Meta              Meta                 `json:"meta"`
	EnterpriseV1      *EnterpriseV1        `json:"urn:scim:schemas:extension:enterprise:1.0,omitempty"`
	EnterpriseV2      *EnterpriseV2        `json:"urn:ietf:params:scim:schemas:extension:enterprise:2.0:User,omitempty"`
}

// GroupResource is the rendered group document.
type GroupResource struct {
	Schemas     []string        `json:"schemas"`
	ID          string          `json:"id"`
	DisplayName string          `json:"displayName"`
	ExternalID  *string         `json:"externalId,omitempty"`
	Members     []models.Member `json:"members"`
	Meta        Meta            `json:"meta"`
}

// ListResponse is the paged envelope shared by both dialects; only the
// schemas value differs.
type ListResponse struct {
	Schemas      []string `json:"schemas"`
	TotalResults int      `json:"totalResults"`
	StartIndex   int      `json:"startIndex"`
	ItemsPerPage int      `json:"itemsPerPage"`
	Resources    any      `json:"Resources"`
}

// ErrorV1 is the legacy dialect error envelope.
type ErrorV1 struct {
	Errors []ErrorDetailV1 `json:"Errors"`
}

type ErrorDetailV1 struct {
	Description string `json:"description"`
	Code        int    `json:"code"`
}

// ErrorV2 is the current dialect error envelope.
type ErrorV2 struct {
	Schemas []string `json:"schemas"`
	Detail  string   `json:"detail"`
	Status  int      `json:"status"`
}

func NewErrorV1(status int, description string) ErrorV1 {
	return ErrorV1{Errors: []ErrorDetailV1{{Description: description, Code: status}}}
}

func NewErrorV2(status int, detail string) ErrorV2 {
	return ErrorV2{
		Schemas: []string{scim.SchemaErrorV2},
		Detail:  detail,
		Status:  status,
	}
}
