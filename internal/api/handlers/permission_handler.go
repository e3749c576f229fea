package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/zdziszkee/bankmap/internal/service"
)

// PermissionHandler lets superusers grant and revoke the superuser flag
type PermissionHandler struct {
	service service.PermissionService
}

// NewPermissionHandler creates a new handler instance
func NewPermissionHandler(service service.PermissionService) *PermissionHandler {
	return &PermissionHandler{service: service}
}

// List renders every account in ascending id order
func (h *PermissionHandler) List(c fiber.Ctx) error {
	users, err := h.service.ListUsers(c.Context())
	if err != nil {
		return err
	}
	return render(c, "permissions", fiber.Map{
		"PageTitle": "Phân quyền",
		"Users":     users,
	})
}

// Toggle flips the flag of user_id; unknown users are ignored
func (h *PermissionHandler) Toggle(c fiber.Ctx) error {
	err := h.service.ToggleSuperuser(c.Context(), c.FormValue("user_id"))
	if err != nil && !errors.Is(err, service.ErrUserNotFound) {
		return err
	}
	return c.Redirect().To("/permissions/")
}
