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

// UsersHandler serves the Users collection for one dialect. Both
// dialect route groups mount their own instance over the shared
// service.
type UsersHandler struct {
	service *services.DirectoryService
	dialect scim.Dialect
}

func NewUsersHandler(service *services.DirectoryService, dialect scim.Dialect) *UsersHandler {
	return &UsersHandler{service: service, dialect: dialect}
}

func (h *UsersHandler) List(c *fiber.Ctx) error {
	startIndex, count := pageWindow(c)
	users, total := h.service.ListUsers(startIndex, count, c.Query("filter"))

	resources := make([]dto.UserResource, 0, len(users))
	for _, u := range users {
		resources = append(resources, formatUser(c, h.dialect, u, h.service.GroupsForUser(u.ID)))
	}
	return c.JSON(formatList(h.dialect, total, startIndex, len(resources), resources))
}

func (h *UsersHandler) Get(c *fiber.Ctx) error {
	id := c.Params("id")
	u, err := h.service.GetUser(id)
	if err != nil {
		return scimError(c, h.dialect, fiber.StatusNotFound, fmt.Sprintf("User %s not found", id))
	}
	return c.JSON(formatUser(c, h.dialect, u, h.service.GroupsForUser(u.ID)))
}

func (h *UsersHandler) Create(c *fiber.Ctx) error {
	var req dto.UserPayload
	if err := c.BodyParser(&req); err != nil {
		return scimError(c, h.dialect, fiber.StatusBadRequest, "Invalid request body")
	}

	u, err := h.service.CreateUser(h.dialect, &req)
	if err != nil {
		if errors.Is(err, store.ErrUserNameTaken) {
			return scimError(c, h.dialect, fiber.StatusConflict,
				fmt.Sprintf("User %s already exists", req.UserName))
		}
		if errors.Is(err, services.ErrUserNameRequired) {
			return scimError(c, h.dialect, fiber.StatusBadRequest, err.Error())
		}
		return scimError(c, h.dialect, fiber.StatusInternalServerError, "Internal server error")
	}

	return c.Status(fiber.StatusCreated).JSON(formatUser(c, h.dialect, u, h.service.GroupsForUser(u.ID)))
}

func (h *UsersHandler) Replace(c *fiber.Ctx) error {
	id := c.Params("id")
	var req dto.UserPayload
	if err := c.BodyParser(&req); err != nil {
		return scimError(c, h.dialect, fiber.StatusBadRequest, "Invalid request body")
	}

	u, err := h.service.ReplaceUser(h.dialect, id, &req)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return scimError(c, h.dialect, fiber.StatusNotFound, fmt.Sprintf("User %s not found", id))
		}
		if errors.Is(err, services.ErrUserNameRequired) {
			return scimError(c, h.dialect, fiber.StatusBadRequest, err.Error())
		}
		return scimError(c, h.dialect, fiber.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(formatUser(c, h.dialect, u, h.service.GroupsForUser(u.ID)))
}

func (h *UsersHandler) Patch(c *fiber.Ctx) error {
	id := c.Params("id")
	var doc map[string]json.RawMessage
	if err := c.BodyParser(&doc); err != nil {
		return scimError(c, h.dialect, fiber.StatusBadRequest, "Invalid request body")
	}

	u, err := h.service.PatchUser(h.dialect, id, doc)
	if err != nil {
		if errors.Is(err, patch.ErrInvalidPatch) {
			return scimError(c, h.dialect, fiber.StatusBadRequest, err.Error())
		}
		if errors.Is(err, store.ErrUserNotFound) {
			return scimError(c, h.dialect, fiber.StatusNotFound, fmt.Sprintf("User %s not found", id))
		}
		return scimError(c, h.dialect, fiber.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(formatUser(c, h.dialect, u, h.service.GroupsForUser(u.ID)))
}

func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.DeleteUser(id); err != nil {
		return scimError(c, h.dialect, fiber.StatusNotFound, fmt.Sprintf("User %s not found", id))
	}
	return c.SendStatus(fiber.StatusNoContent)
}
