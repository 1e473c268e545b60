package dto

import "github.com/scimulator/scimulator/internal/policy"

// SeedRequest replaces the whole directory in one call. Group members
// reference seeded users by userName, not by identifier.
type SeedRequest struct {
	Users  []UserPayload      `json:"users"`
	Groups []SeedGroupPayload `json:"groups"`
}

type SeedGroupPayload struct {
	DisplayName string   `json:"displayName"`
	Members     []string `json:"members"`
	ExternalID  *string  `json:"externalId"`
}

type SeedResponse struct {
	Message string `json:"message"`
	Users   int    `json:"users"`
	Groups  int    `json:"groups"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type StatusResponse struct {
	Users  int             `json:"users"`
	Groups int             `json:"groups"`
	Config policy.Snapshot `json:"config"`
}

type ConfigResponse struct {
	Message string          `json:"message"`
	Config  policy.Snapshot `json:"config"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Users     int    `json:"users"`
	Groups    int    `json:"groups"`
}

type LogsResponse struct {
	Count int      `json:"count"`
	Logs  []string `json:"logs"`
}
