package models

// Member is one entry in a Group's member list.
type Member struct {
	Value   string  `json:"value"`
	Display *string `json:"display,omitempty"`
	Type    string  `json:"type,omitempty"`
}

// GroupRef is one entry in a User's derived, read-only groups view.
type GroupRef struct {
	Value   string `json:"value"`
	Display string `json:"display,omitempty"`
}

// Group is the canonical group entity.
type Group struct {
	ID          string
	DisplayName string
	ExternalID  *string
	Members     []Member
	Meta        Meta
}

func (g *Group) FilterValue(attr string) (string, bool) {
	switch attr {
	case "id":
		return g.ID, true
	case "displayName":
		return g.DisplayName, true
	case "externalId":
		return strValue(g.ExternalID)
	}
	return "", false
}

// HasMember reports whether the member list already references the id.
func (g *Group) HasMember(userID string) bool {
	for _, m := range g.Members {
		if m.Value == userID {
			return true
		}
	}
	return false
}
