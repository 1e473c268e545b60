// Package scim holds the protocol constants shared by both supported
// dialects: SCIM 1.1 (legacy) and SCIM 2.0 (current).
package scim

// Dialect selects which protocol version a request arrived on.
type Dialect int

const (
	V1 Dialect = iota + 1
	V2
)

func (d Dialect) String() string {
	if d == V2 {
		return "v2"
	}
	return "v1"
}

// PathPrefix is the URL prefix resources of this dialect live under.
func (d Dialect) PathPrefix() string {
	return "/scim/" + d.String()
}

// Schema URNs. SCIM 1.1 uses one core URN for both resource types; SCIM 2.0
// has per-type URNs plus dedicated message URNs.
const (
	SchemaCoreV1      = "urn:scim:schemas:core:1.0"
	SchemaUserV2      = "urn:ietf:params:scim:schemas:core:2.0:User"
	SchemaGroupV2     = "urn:ietf:params:scim:schemas:core:2.0:Group"
	SchemaListV2      = "urn:ietf:params:scim:api:messages:2.0:ListResponse"
	SchemaErrorV2     = "urn:ietf:params:scim:api:messages:2.0:Error"
	EnterpriseURNV1   = "urn:scim:schemas:extension:enterprise:1.0"
	EnterpriseURNV2   = "urn:ietf:params:scim:schemas:extension:enterprise:2.0:User"
	ResourceTypeUser  = "User"
	ResourceTypeGroup = "Group"
)

// UserSchema returns the schemas value for a single user resource.
func (d Dialect) UserSchema() string {
	if d == V2 {
		return SchemaUserV2
	}
	return SchemaCoreV1
}

// GroupSchema returns the schemas value for a single group resource.
func (d Dialect) GroupSchema() string {
	if d == V2 {
		return SchemaGroupV2
	}
	return SchemaCoreV1
}

// ListSchema returns the schemas value for a list response. The legacy
// dialect reuses its core URN; the current dialect has a message URN.
func (d Dialect) ListSchema() string {
	if d == V2 {
		return SchemaListV2
	}
	return SchemaCoreV1
}

// EnterpriseURN returns the enterprise-extension key this dialect uses.
func (d Dialect) EnterpriseURN() string {
	if d == V2 {
		return EnterpriseURNV2
	}
	return EnterpriseURNV1
}
