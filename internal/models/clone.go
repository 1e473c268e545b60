package models

// Deep copies. The store hands these out so no caller ever holds a
// reference into locked state.

func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.Name = cloneNamePtr(u.Name)
	c.DisplayName = clonePtr(u.DisplayName)
	c.NickName = clonePtr(u.NickName)
	c.ProfileURL = clonePtr(u.ProfileURL)
	c.Title = clonePtr(u.Title)
	c.UserType = clonePtr(u.UserType)
	c.PreferredLanguage = clonePtr(u.PreferredLanguage)
	c.Locale = clonePtr(u.Locale)
	c.Timezone = clonePtr(u.Timezone)
	c.ExternalID = clonePtr(u.ExternalID)
	c.Emails = cloneEmails(u.Emails)
	c.PhoneNumbers = clonePhoneNumbers(u.PhoneNumbers)
	c.IMs = cloneIMs(u.IMs)
	c.Photos = clonePhotos(u.Photos)
	c.Addresses = cloneAddresses(u.Addresses)
	c.Entitlements = cloneEntitlements(u.Entitlements)
	c.Roles = cloneRoles(u.Roles)
	c.X509Certificates = cloneCertificates(u.X509Certificates)
	c.Enterprise = u.Enterprise.Clone()
	return &c
}

func (g *Group) Clone() *Group {
	if g == nil {
		return nil
	}
	c := *g
	c.ExternalID = clonePtr(g.ExternalID)
	c.Members = CloneMembers(g.Members)
	return &c
}

// CloneMembers deep-copies a member list; nil stays nil.
func CloneMembers(ms []Member) []Member {
	if ms == nil {
		return nil
	}
	out := make([]Member, len(ms))
	for i, m := range ms {
		out[i] = m
		out[i].Display = clonePtr(m.Display)
	}
	return out
}

func (e *Enterprise) Clone() *Enterprise {
	if e == nil {
		return nil
	}
	c := *e
	c.EmployeeNumber = clonePtr(e.EmployeeNumber)
	c.CostCenter = clonePtr(e.CostCenter)
	c.Organization = clonePtr(e.Organization)
	c.Division = clonePtr(e.Division)
	c.Department = clonePtr(e.Department)
	if e.Manager != nil {
		m := *e.Manager
		m.Ref = clonePtr(e.Manager.Ref)
		m.DisplayName = clonePtr(e.Manager.DisplayName)
		c.Manager = &m
	}
	return &c
}

func cloneNamePtr(n *Name) *Name {
	if n == nil {
		return nil
	}
	c := Name{
		Formatted:       clonePtr(n.Formatted),
		FamilyName:      clonePtr(n.FamilyName),
		GivenName:       clonePtr(n.GivenName),
		MiddleName:      clonePtr(n.MiddleName),
		HonorificPrefix: clonePtr(n.HonorificPrefix),
		HonorificSuffix: clonePtr(n.HonorificSuffix),
	}
	return &c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneEmails(in []Email) []Email {
	if in == nil {
		return nil
	}
	out := make([]Email, len(in))
	for i, e := range in {
		out[i] = Email{Value: e.Value, Type: clonePtr(e.Type), Primary: clonePtr(e.Primary)}
	}
	return out
}

func clonePhoneNumbers(in []PhoneNumber) []PhoneNumber {
	if in == nil {
		return nil
	}
	out := make([]PhoneNumber, len(in))
	for i, p := range in {
		out[i] = PhoneNumber{Value: p.Value, Type: clonePtr(p.Type), Primary: clonePtr(p.Primary), Display: clonePtr(p.Display)}
	}
	return out
}

func cloneIMs(in []IM) []IM {
	if in == nil {
		return nil
	}
	out := make([]IM, len(in))
	for i, m := range in {
		out[i] = IM{Value: m.Value, Type: clonePtr(m.Type), Primary: clonePtr(m.Primary), Display: clonePtr(m.Display)}
	}
	return out
}

func clonePhotos(in []Photo) []Photo {
	if in == nil {
		return nil
	}
	out := make([]Photo, len(in))
	for i, p := range in {
		out[i] = Photo{Value: p.Value, Type: clonePtr(p.Type), Primary: clonePtr(p.Primary), Display: clonePtr(p.Display)}
	}
	return out
}

func cloneAddresses(in []Address) []Address {
	if in == nil {
		return nil
	}
	out := make([]Address, len(in))
	for i, a := range in {
		out[i] = Address{
			Formatted:     clonePtr(a.Formatted),
			StreetAddress: clonePtr(a.StreetAddress),
			Locality:      clonePtr(a.Locality),
			Region:        clonePtr(a.Region),
			PostalCode:    clonePtr(a.PostalCode),
			Country:       clonePtr(a.Country),
			Type:          clonePtr(a.Type),
			Primary:       clonePtr(a.Primary),
		}
	}
	return out
}

func cloneEntitlements(in []Entitlement) []Entitlement {
	if in == nil {
		return nil
	}
	out := make([]Entitlement, len(in))
	for i, e := range in {
		out[i] = Entitlement{Value: e.Value, Type: clonePtr(e.Type), Primary: clonePtr(e.Primary), Display: clonePtr(e.Display)}
	}
	return out
}

func cloneRoles(in []Role) []Role {
	if in == nil {
		return nil
	}
	out := make([]Role, len(in))
	for i, r := range in {
		out[i] = Role{Value: r.Value, Type: clonePtr(r.Type), Primary: clonePtr(r.Primary), Display: clonePtr(r.Display)}
	}
	return out
}

func cloneCertificates(in []Certificate) []Certificate {
	if in == nil {
		return nil
	}
	out := make([]Certificate, len(in))
	for i, cer := range in {
		out[i] = Certificate{Value: cer.Value, Type: clonePtr(cer.Type), Primary: clonePtr(cer.Primary), Display: clonePtr(cer.Display)}
	}
	return out
}
