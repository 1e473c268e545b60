package dto

import (
	"encoding/json"

	"github.com/scimulator/scimulator/internal/models"
	"github.com/scimulator/scimulator/internal/scim"
)

// ManagerV1 is the legacy dialect manager reference.
type ManagerV1 struct {
	ManagerID   *string `json:"managerId,omitempty"`
	DisplayName *string `json:"displayName,omitempty"`
}

// ManagerV2 is the current dialect manager reference.
type ManagerV2 struct {
	Value       *string `json:"value,omitempty"`
	Ref         *string `json:"$ref,omitempty"`
	DisplayName *string `json:"displayName,omitempty"`
}

type EnterpriseV1 struct {
	EmployeeNumber *string    `json:"employeeNumber,omitempty"`
	CostCenter     *string    `json:"costCenter,omitempty"`
	Organization   *string    `json:"organization,omitempty"`
	Division       *string    `json:"division,omitempty"`
	Department     *string    `json:"department,omitempty"`
	Manager        *ManagerV1 `json:"manager,omitempty"`
}

type EnterpriseV2 struct {
	EmployeeNumber *string    `json:"employeeNumber,omitempty"`
	CostCenter     *string    `json:"costCenter,omitempty"`
	Organization   *string    `json:"organization,omitempty"`
	Division       *string    `json:"division,omitempty"`
	Department     *string    `json:"department,omitempty"`
	Manager        *ManagerV2 `json:"manager,omitempty"`
}

func (e *EnterpriseV1) Model() *models.Enterprise {
	if e == nil {
		return nil
	}
	ent := &models.Enterprise{
		Dialect:        scim.V1,
		EmployeeNumber: e.EmployeeNumber,
		CostCenter:     e.CostCenter,
		Organization:   e.Organization,
		Division:       e.Division,
		Department:     e.Department,
	}
	if e.Manager != nil {
		ent.Manager = &models.Manager{DisplayName: e.Manager.DisplayName}
		if e.Manager.ManagerID != nil {
			ent.Manager.Value = *e.Manager.ManagerID
		}
	}
	return ent
}

func (e *EnterpriseV2) Model() *models.Enterprise {
	if e == nil {
		return nil
	}
	ent := &models.Enterprise{
		Dialect:        scim.V2,
		EmployeeNumber: e.EmployeeNumber,
		CostCenter:     e.CostCenter,
		Organization:   e.Organization,
		Division:       e.Division,
		Department:     e.Department,
	}
	if e.Manager != nil {
		ent.Manager = &models.Manager{Ref: e.Manager.Ref, DisplayName: e.Manager.DisplayName}
		if e.Manager.Value != nil {
			ent.Manager.Value = *e.Manager.Value
		}
	}
	return ent
}

// FromModel renders a stored extension back into its origin dialect's
// wire shape. Exactly one of the two returns is non-nil.
func FromModel(ent *models.Enterprise) (*EnterpriseV1, *EnterpriseV2) {
	if ent == nil {
		return nil, nil
	}
	if ent.Dialect == scim.V1 {
		e := &EnterpriseV1{
			EmployeeNumber: ent.EmployeeNumber,
			CostCenter:     ent.CostCenter,
			Organization:   ent.Organization,
			Division:       ent.Division,
			Department:     ent.Department,
		}
		if ent.Manager != nil {
			e.Manager = &ManagerV1{DisplayName: ent.Manager.DisplayName}
			if ent.Manager.Value != "" {
				id := ent.Manager.Value
				e.Manager.ManagerID = &id
			}
		}
		return e, nil
	}
	e := &EnterpriseV2{
		EmployeeNumber: ent.EmployeeNumber,
		CostCenter:     ent.CostCenter,
		Organization:   ent.Organization,
		Division:       ent.Division,
		Department:     ent.Department,
	}
	if ent.Manager != nil {
		e.Manager = &ManagerV2{Ref: ent.Manager.Ref, DisplayName: ent.Manager.DisplayName}
		if ent.Manager.Value != "" {
			v := ent.Manager.Value
			e.Manager.Value = &v
		}
	}
	return nil, e
}

// ParseEnterprise decodes a raw extension value in the shape of the
// given dialect.
func ParseEnterprise(d scim.Dialect, raw json.RawMessage) (*models.Enterprise, error) {
	if d == scim.V1 {
		var e EnterpriseV1
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, err
		}
		return e.Model(), nil
	}
	var e EnterpriseV2
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, err
	}
	return e.Model(), nil
}
