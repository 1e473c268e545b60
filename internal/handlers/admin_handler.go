package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/scimulator/scimulator/internal/dto"
	"github.com/scimulator/scimulator/internal/logging"
	"github.com/scimulator/scimulator/internal/policy"
	"github.com/scimulator/scimulator/internal/scim"
	"github.com/scimulator/scimulator/internal/services"
	"github.com/scimulator/scimulator/internal/store"
)

// AdminHandler serves the management surface: seeding, state
// inspection, and runtime policy changes. Admin errors use the current
// dialect's envelope since the surface is not dialect-scoped.
type AdminHandler struct {
	service *services.DirectoryService
	logs    *logging.MemoryHandler
}

func NewAdminHandler(service *services.DirectoryService, logs *logging.MemoryHandler) *AdminHandler {
	return &AdminHandler{service: service, logs: logs}
}

func (h *AdminHandler) Seed(c *fiber.Ctx) error {
	var req dto.SeedRequest
	if err := c.BodyParser(&req); err != nil {
		return scimError(c, scim.V2, fiber.StatusBadRequest, "Invalid request body")
	}

	users, groups, err := h.service.Seed(&req)
	if err != nil {
		if errors.Is(err, store.ErrUserNameTaken) {
			return scimError(c, scim.V2, fiber.StatusConflict, err.Error())
		}
		return scimError(c, scim.V2, fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(dto.SeedResponse{
		Message: "Data seeded successfully",
		Users:   users,
		Groups:  groups,
	})
}

func (h *AdminHandler) Clear(c *fiber.Ctx) error {
	h.service.ClearAll()
	return c.JSON(dto.MessageResponse{Message: "All data cleared"})
}

func (h *AdminHandler) Status(c *fiber.Ctx) error {
	users, groups := h.service.Counts()
	return c.JSON(dto.StatusResponse{
		Users:  users,
		Groups: groups,
		Config: h.service.PolicySnapshot(),
	})
}

func (h *AdminHandler) Config(c *fiber.Ctx) error {
	return c.JSON(h.service.PolicySnapshot())
}

// SetProfile switches the active policy profile, wiping runtime
// overrides. Mounted under both /admin/preset/:name and the deprecated
// /admin/mode/:name path.
func (h *AdminHandler) SetProfile(c *fiber.Ctx) error {
	name := c.Params("name")
	if err := h.service.SetProfile(name); err != nil {
		return scimError(c, scim.V2, fiber.StatusBadRequest,
			fmt.Sprintf("Invalid profile '%s'. Valid profiles: %s",
				name, strings.Join(policy.Profiles(), ", ")))
	}

	return c.JSON(dto.ConfigResponse{
		Message: fmt.Sprintf("Profile changed to '%s'", name),
		Config:  h.service.PolicySnapshot(),
	})
}

func (h *AdminHandler) SetOverride(c *fiber.Ctx) error {
	flag := c.Params("flag")
	value, err := strconv.ParseBool(c.Query("value"))
	if err != nil {
		return scimError(c, scim.V2, fiber.StatusBadRequest,
			"Query parameter 'value' must be true or false")
	}

	if err := h.service.SetOverride(flag, value); err != nil {
		return scimError(c, scim.V2, fiber.StatusBadRequest, invalidFlagDetail(flag))
	}

	return c.JSON(dto.ConfigResponse{
		Message: fmt.Sprintf("Override set: %s=%t", flag, value),
		Config:  h.service.PolicySnapshot(),
	})
}

func (h *AdminHandler) ClearOverride(c *fiber.Ctx) error {
	flag := c.Params("flag")
	if err := h.service.ClearOverride(flag); err != nil {
		return scimError(c, scim.V2, fiber.StatusBadRequest, invalidFlagDetail(flag))
	}

	return c.JSON(dto.ConfigResponse{
		Message: fmt.Sprintf("Override cleared: %s", flag),
		Config:  h.service.PolicySnapshot(),
	})
}

func (h *AdminHandler) Logs(c *fiber.Ctx) error {
	count := c.QueryInt("count", 100)
	lines := h.logs.Recent(count)
	return c.JSON(dto.LogsResponse{Count: len(lines), Logs: lines})
}

func invalidFlagDetail(flag string) string {
	return fmt.Sprintf("Invalid setting '%s'. Valid settings: %s",
		flag, strings.Join(policy.Flags(), ", "))
}
