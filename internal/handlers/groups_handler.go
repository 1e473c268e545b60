package handlers

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/scimulator/scimulator/internal/dto"
	"github.com/scimulator/scimulator/internal/patch"
	"github.com/scimulator/scimulator/internal/scim"
	"github.com/scimulator/scimulator/internal/services"
	"github.com/scimulator/scimulator/internal/store"
)

// GroupsHandler serves the Groups collection for one dialect. The
// mutating verbs report the policy gate before anything else, so a
// blocked PUT answers 405 even for a group that does not exist.
type GroupsHandler struct {
	service *services.DirectoryService
	dialect scim.Dialect
}

func NewGroupsHandler(service *services.DirectoryService, dialect scim.Dialect) *GroupsHandler {
	return &GroupsHandler{service: service, dialect: dialect}
}

func (h *GroupsHandler) List(c *fiber.Ctx) error {
	startIndex, count := pageWindow(c)
	groups, total := h.service.ListGroups(startIndex, count, c.Query("filter"))

	resources := make([]dto.GroupResource, 0, len(groups))
	for _, g := range groups {
		resources = append(resources, formatGroup(c, h.dialect, g))
	}
	return c.JSON(formatList(h.dialect, total, startIndex, len(resources), resources))
}

func (h *GroupsHandler) Get(c *fiber.Ctx) error {
	id := c.Params("id")
	g, err := h.service.GetGroup(id)
	if err != nil {
		return scimError(c, h.dialect, fiber.StatusNotFound, fmt.Sprintf("Group %s not found", id))
	}
	return c.JSON(formatGroup(c, h.dialect, g))
}

func (h *GroupsHandler) Create(c *fiber.Ctx) error {
	var req dto.GroupPayload
	if err := c.BodyParser(&req); err != nil {
		return scimError(c, h.dialect, fiber.StatusBadRequest, "Invalid request body")
	}

	g, err := h.service.CreateGroup(&req)
	if err != nil {
		if errors.Is(err, services.ErrDisplayNameRequired) {
			return scimError(c, h.dialect, fiber.StatusBadRequest, err.Error())
		}
		return scimError(c, h.dialect, fiber.StatusInternalServerError, "Internal server error")
	}

	return c.Status(fiber.StatusCreated).JSON(formatGroup(c, h.dialect, g))
}

func (h *GroupsHandler) Replace(c *fiber.Ctx) error {
	id := c.Params("id")
	var req dto.GroupPayload
	if err := c.BodyParser(&req); err != nil {
		return scimError(c, h.dialect, fiber.StatusBadRequest, "Invalid request body")
	}

	g, err := h.service.ReplaceGroup(id, &req)
	if err != nil {
		if errors.Is(err, services.ErrGroupsPutDisabled) {
			return scimError(c, h.dialect, fiber.StatusMethodNotAllowed,
				"Method Not Allowed. Use PATCH for group updates.")
		}
		if errors.Is(err, services.ErrDisplayNameRequired) {
			return scimError(c, h.dialect, fiber.StatusBadRequest, err.Error())
		}
		if errors.Is(err, store.ErrGroupNotFound) {
			return scimError(c, h.dialect, fiber.StatusNotFound, fmt.Sprintf("Group %s not found", id))
		}
		return scimError(c, h.dialect, fiber.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(formatGroup(c, h.dialect, g))
}

func (h *GroupsHandler) Patch(c *fiber.Ctx) error {
	id := c.Params("id")
	var doc map[string]json.RawMessage
	if err := c.BodyParser(&doc); err != nil {
		return scimError(c, h.dialect, fiber.StatusBadRequest, "Invalid request body")
	}

	g, err := h.service.PatchGroup(h.dialect, id, doc)
	if err != nil {
		if errors.Is(err, services.ErrGroupsPatchDisabled) {
			return scimError(c, h.dialect, fiber.StatusMethodNotAllowed,
				"Method Not Allowed. Use PUT for group updates.")
		}
		if errors.Is(err, patch.ErrInvalidPatch) {
			return scimError(c, h.dialect, fiber.StatusBadRequest, err.Error())
		}
		if errors.Is(err, store.ErrGroupNotFound) {
			return scimError(c, h.dialect, fiber.StatusNotFound, fmt.Sprintf("Group %s not found", id))
		}
		return scimError(c, h.dialect, fiber.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(formatGroup(c, h.dialect, g))
}

func (h *GroupsHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.DeleteGroup(id); err != nil {
		return scimError(c, h.dialect, fiber.StatusNotFound, fmt.Sprintf("Group %s not found", id))
	}
	return c.SendStatus(fiber.StatusNoContent)
}
