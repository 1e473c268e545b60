package models

import "time"

// Meta is the lifecycle metadata carried by every resource.
type Meta struct {
	Created      time.Time
	LastModified time.Time
	ResourceType string
}

// Name is the structured name sub-record of a User.
type Name struct {
	Formatted       *string `json:"formatted,omitempty"`
	FamilyName      *string `json:"familyName,omitempty"`
	GivenName       *string `json:"givenName,omitempty"`
	MiddleName      *string `json:"middleName,omitempty"`
	HonorificPrefix *string `json:"honorificPrefix,omitempty"`
	HonorificSuffix *string `json:"honorificSuffix,omitempty"`
}

type Email struct {
	Value   string  `json:"value"`
	Type    *string `json:"type,omitempty"`
	Primary *bool   `json:"primary,omitempty"`
}

type PhoneNumber struct {
	Value   string  `json:"value"`
	Type    *string `json:"type,omitempty"`
	Primary *bool   `json:"primary,omitempty"`
	Display *string `json:"display,omitempty"`
}

type IM struct {
	Value   string  `json:"value"`
	Type    *string `json:"type,omitempty"`
	Primary *bool   `json:"primary,omitempty"`
	Display *string `json:"display,omitempty"`
}

type Photo struct {
	Value   string  `json:"value"`
	Type    *string `json:"type,omitempty"`
	Primary *bool   `json:"primary,omitempty"`
	Display *string `json:"display,omitempty"`
}

type Address struct {
	Formatted     *string `json:"formatted,omitempty"`
	StreetAddress *string `json:"streetAddress,omitempty"`
	Locality      *string `json:"locality,omitempty"`
	Region        *string `json:"region,omitempty"`
	PostalCode    *string `json:"postalCode,omitempty"`
	Country       *string `json:"country,omitempty"`
	Type          *string `json:"type,omitempty"`
	Primary       *bool   `json:"primary,omitempty"`
}

type Entitlement struct {
	Value   string  `json:"value"`
	Type    *string `json:"type,omitempty"`
	Primary *bool   `json:"primary,omitempty"`
	Display *string `json:"display,omitempty"`
}

type Role struct {
	Value   string  `json:"value"`
	Type    *string `json:"type,omitempty"`
	Primary *bool   `json:"primary,omitempty"`
	Display *string `json:"display,omitempty"`
}

type Certificate struct {
	Value   string  `json:"value"`
	Type    *string `json:"type,omitempty"`
	Primary *bool   `json:"primary,omitempty"`
	Display *string `json:"display,omitempty"`
}

// User is the canonical directory entity. Optional attributes are pointers
// or slices so an absent attribute stays distinguishable from a set one;
// the wire layer builds dialect-specific documents from this.
type User struct {
	ID                string
	UserName          string
	Name              *Name
	DisplayName       *string
	NickName          *string
	ProfileURL        *string
	Title             *string
	UserType          *string
	PreferredLanguage *string
	Locale            *string
	Timezone          *string
	PasswordHash      string
	Emails            []Email
	PhoneNumbers      []PhoneNumber
	IMs               []IM
	Photos            []Photo
	Addresses         []Address
	Entitlements      []Entitlement
	Roles             []Role
	X509Certificates  []Certificate
	Active            bool
	ExternalID        *string
	Enterprise        *Enterprise
	Meta              Meta
}

// FilterValue exposes the top-level string attributes the equality filter
// can match against. Absent attributes report ok == false and never match.
func (u *User) FilterValue(attr string) (string, bool) {
	switch attr {
	case "id":
		return u.ID, true
	case "userName":
		return u.UserName, true
	case "displayName":
		return strValue(u.DisplayName)
	case "externalId":
		return strValue(u.ExternalID)
	case "nickName":
		return strValue(u.NickName)
	case "profileUrl":
		return strValue(u.ProfileURL)
	case "title":
		return strValue(u.Title)
	case "userType":
		return strValue(u.UserType)
	case "preferredLanguage":
		return strValue(u.PreferredLanguage)
	case "locale":
		return strValue(u.Locale)
	case "timezone":
		return strValue(u.Timezone)
	}
	return "", false
}

func strValue(p *string) (string, bool) {
	if p == nil {
		return "", false
	}
	return *p, true
}
