package models

// Attr is a tri-state patch field. The zero value means the attribute was
// not mentioned and must be left alone; Present with Null means the caller
// explicitly cleared it; Present without Null carries the new value. This
// keeps "absent" and "cleared" apart, which both patch dialects depend on.
type Attr[T any] struct {
	Present bool
	Null    bool
	Value   T
}

// SetAttr builds a present attribute carrying v.
func SetAttr[T any](v T) Attr[T] {
	return Attr[T]{Present: true, Value: v}
}

// ClearAttr builds an explicit clear of the attribute.
func ClearAttr[T any]() Attr[T] {
	return Attr[T]{Present: true, Null: true}
}

// UserPatch is the normalized mutation set applied by the store's user
// update path. Both dialects' patch grammars and full-replace requests are
// reduced to this one shape before any state is touched. Password carries
// the already-hashed credential, never plaintext.
type UserPatch struct {
	UserName          Attr[string]
	Name              Attr[Name]
	DisplayName       Attr[string]
	NickName          Attr[string]
	ProfileURL        Attr[string]
	Title             Attr[string]
	UserType          Attr[string]
	PreferredLanguage Attr[string]
	Locale            Attr[string]
	Timezone          Attr[string]
	Password          Attr[string]
	Emails            Attr[[]Email]
	PhoneNumbers      Attr[[]PhoneNumber]
	IMs               Attr[[]IM]
	Photos            Attr[[]Photo]
	Addresses         Attr[[]Address]
	Entitlements      Attr[[]Entitlement]
	Roles             Attr[[]Role]
	X509Certificates  Attr[[]Certificate]
	Active            Attr[bool]
	ExternalID        Attr[string]
	Enterprise        Attr[Enterprise]
}

// Empty reports whether the patch mentions no attribute at all.
func (p *UserPatch) Empty() bool {
	return !(p.UserName.Present || p.Name.Present || p.DisplayName.Present ||
		p.NickName.Present || p.ProfileURL.Present || p.Title.Present ||
		p.UserType.Present || p.PreferredLanguage.Present || p.Locale.Present ||
		p.Timezone.Present || p.Password.Present || p.Emails.Present ||
		p.PhoneNumbers.Present || p.IMs.Present || p.Photos.Present ||
		p.Addresses.Present || p.Entitlements.Present || p.Roles.Present ||
		p.X509Certificates.Present || p.Active.Present || p.ExternalID.Present ||
		p.Enterprise.Present)
}

// GroupPatch is the normalized mutation set for the group update path.
type GroupPatch struct {
	DisplayName Attr[string]
	ExternalID  Attr[string]
	Members     Attr[[]Member]
}
