package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/scimulator/scimulator/internal/dto"
	"github.com/scimulator/scimulator/internal/services"
)

type HealthHandler struct {
	service *services.DirectoryService
}

func NewHealthHandler(service *services.DirectoryService) *HealthHandler {
	return &HealthHandler{service: service}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	users, groups := h.service.Counts()
	return c.JSON(dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Users:     users,
		Groups:    groups,
	})
}
