package models

import "github.com/scimulator/scimulator/internal/scim"

// Manager is the unified manager reference inside the enterprise extension.
// The legacy dialect writes it as {managerId, displayName}, the current one
// as {value, $ref, displayName}; both collapse onto this record.
type Manager struct {
	Value       string
	Ref         *string
	DisplayName *string
}

// Enterprise is the organizational extension sub-record. Dialect remembers
// which protocol version supplied it, and output renders the record under
// that dialect's URN and manager shape regardless of the read path.
type Enterprise struct {
	Dialect        scim.Dialect
	EmployeeNumber *string
	CostCenter     *string
	Organization   *string
	Division       *string
	Department     *string
	Manager        *Manager
}
