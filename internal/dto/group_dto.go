package dto

import "github.com/scimulator/scimulator/internal/models"

// GroupPayload is the group create/replace request body, identical in
// both dialects.
type GroupPayload struct {
	Schemas     []string        `json:"schemas"`
	DisplayName string          `json:"displayName"`
	Members     []models.Member `json:"members"`
	ExternalID  *string         `json:"externalId"`
}
