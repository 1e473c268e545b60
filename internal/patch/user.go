package patch

import (
	"encoding/json"
	"fmt"

	"github.com/scimulator/scimulator/internal/dto"
	"github.com/scimulator/scimulator/internal/models"
	"github.com/scimulator/scimulator/internal/scim"
)

// User applies a dialect specific user patch document. The document is
// the parsed top-level JSON object of the request body; value decoding
// stays here so a key present with null remains distinguishable from an
// absent key.
func (m *Merger) User(d scim.Dialect, id string, doc map[string]json.RawMessage) (*models.User, error) {
	var (
		p   *models.UserPatch
		err error
	)
	if d == scim.V1 {
		p, err = userPatchFromMap(d, doc)
	} else {
		p, err = userPatchFromOps(d, doc)
	}
	if err != nil {
		return nil, err
	}
	if p.Empty() {
		return nil, fmt.Errorf("%w: no patchable attributes", ErrInvalidPatch)
	}
	return m.store.UpdateUser(id, p)
}

// userPatchFromMap handles the legacy grammar: every present key
// overwrites its attribute, an explicit null clears it.
func userPatchFromMap(d scim.Dialect, doc map[string]json.RawMessage) (*models.UserPatch, error) {
	p := &models.UserPatch{}
	for key, raw := range doc {
		if err := applyUserAttr(p, key, raw); err != nil {
			return nil, err
		}
	}
	if err := mergeEnterprise(p, d, doc); err != nil {
		return nil, err
	}
	return p, nil
}

// userPatchFromOps handles the current grammar. Only flat top-level
// paths are honored; replace and add both set, remove clears, and
// anything else is dropped.
func userPatchFromOps(d scim.Dialect, doc map[string]json.RawMessage) (*models.UserPatch, error) {
	rawOps, ok := doc["Operations"]
	if !ok || isNull(rawOps) {
		return nil, fmt.Errorf("%w: no operations provided", ErrInvalidPatch)
	}
	var ops []Operation
	if err := json.Unmarshal(rawOps, &ops); err != nil {
		return nil, fmt.Errorf("%w: malformed Operations array", ErrInvalidPatch)
	}
	if len(ops) == 0 {
		return nil, fmt.Errorf("%w: no operations provided", ErrInvalidPatch)
	}
	p := &models.UserPatch{}
	for _, op := range ops {
		switch op.Op {
		case "replace", "add":
			if err := applyUserAttr(p, op.Path, op.Value); err != nil {
				return nil, err
			}
		case "remove":
			if err := applyUserAttr(p, op.Path, json.RawMessage("null")); err != nil {
				return nil, err
			}
		}
	}
	if err := mergeEnterprise(p, d, doc); err != nil {
		return nil, err
	}
	return p, nil
}

// applyUserAttr routes one attribute mutation into the patch. Unknown
// attribute names are ignored.
func applyUserAttr(p *models.UserPatch, attr string, raw json.RawMessage) error {
	switch attr {
	case "userName":
		return setValue(&p.UserName, attr, raw)
	case "name":
		return setValue(&p.Name, attr, raw)
	case "displayName":
		return setValue(&p.DisplayName, attr, raw)
	case "nickName":
		return setValue(&p.NickName, attr, raw)
	case "profileUrl":
		return setValue(&p.ProfileURL, attr, raw)
	case "title":
		return setValue(&p.Title, attr, raw)
	case "userType":
		return setValue(&p.UserType, attr, raw)
	case "preferredLanguage":
		return setValue(&p.PreferredLanguage, attr, raw)
	case "locale":
		return setValue(&p.Locale, attr, raw)
	case "timezone":
		return setValue(&p.Timezone, attr, raw)
	case "password":
		return setPassword(p, raw)
	case "emails":
		return setValue(&p.Emails, attr, raw)
	case "phoneNumbers":
		return setValue(&p.PhoneNumbers, attr, raw)
	case "ims":
		return setValue(&p.IMs, attr, raw)
	case "photos":
		return setValue(&p.Photos, attr, raw)
	case "addresses":
		return setValue(&p.Addresses, attr, raw)
	case "entitlements":
		return setValue(&p.Entitlements, attr, raw)
	case "roles":
		return setValue(&p.Roles, attr, raw)
	case "x509Certificates":
		return setValue(&p.X509Certificates, attr, raw)
	case "active":
		return setValue(&p.Active, attr, raw)
	case "externalId":
		return setValue(&p.ExternalID, attr, raw)
	}
	return nil
}

func setValue[T any](a *models.Attr[T], attr string, raw json.RawMessage) error {
	if isNull(raw) {
		*a = models.ClearAttr[T]()
		return nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("%w: attribute %q", ErrInvalidPatch, attr)
	}
	*a = models.SetAttr(v)
	return nil
}

// setPassword hashes the incoming plaintext; the patch never carries
// the raw credential past this point.
func setPassword(p *models.UserPatch, raw json.RawMessage) error {
	if isNull(raw) {
		p.Password = models.ClearAttr[string]()
		return nil
	}
	var plain string
	if err := json.Unmarshal(raw, &plain); err != nil {
		return fmt.Errorf("%w: attribute %q", ErrInvalidPatch, "password")
	}
	hash, err := models.HashPassword(plain)
	if err != nil {
		return err
	}
	p.Password = models.SetAttr(hash)
	return nil
}

func mergeEnterprise(p *models.UserPatch, d scim.Dialect, doc map[string]json.RawMessage) error {
	raw, ok := doc[d.EnterpriseURN()]
	if !ok {
		return nil
	}
	if isNull(raw) {
		p.Enterprise = models.ClearAttr[models.Enterprise]()
		return nil
	}
	ent, err := dto.ParseEnterprise(d, raw)
	if err != nil {
		return fmt.Errorf("%w: enterprise extension", ErrInvalidPatch)
	}
	p.Enterprise = models.SetAttr(*ent)
	return nil
}
