package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v3"

	"github.com/zdziszkee/bankmap/internal/service"
)

// LocationHandler serves the map page and the bank, branch and ATM endpoints
type LocationHandler struct {
	service service.LocationService
}

// NewLocationHandler creates a new handler instance
func NewLocationHandler(service service.LocationService) *LocationHandler {
	return &LocationHandler{service: service}
}

// MapView renders the map page with every bank, branch and ATM embedded as JSON
func (h *LocationHandler) MapView(c fiber.Ctx) error {
	snap, err := h.service.Snapshot(c.Context())
	if err != nil {
		return err
	}
	return render(c, "map", fiber.Map{
		"Banks":    snap.Banks,
		"Branches": snap.Branches,
		"ATMs":     snap.ATMs,
	})
}

func (h *LocationHandler) SaveBank(c fiber.Ctx) error {
	in, err := service.ParseBankForm(formValues{c})
	if err != nil {
		return handleError(c, err)
	}
	res, err := h.service.SaveBank(c.Context(), in)
	if err != nil {
		return handleError(c, err)
	}
	return saved(c, res)
}

func (h *LocationHandler) DeleteBank(c fiber.Ctx) error {
	if err := h.service.DeleteBank(c.Context(), c.FormValue("bank_id")); err != nil {
		return handleError(c, err)
	}
	return deleted(c)
}

func (h *LocationHandler) SaveBranch(c fiber.Ctx) error {
	in, err := service.ParseBranchForm(formValues{c})
	if err != nil {
		return handleError(c, err)
	}
	res, err := h.service.SaveBranch(c.Context(), in)
	if err != nil {
		return handleError(c, err)
	}
	return saved(c, res)
}

func (h *LocationHandler) DeleteBranch(c fiber.Ctx) error {
	if err := h.service.DeleteBranch(c.Context(), c.FormValue("branch_id")); err != nil {
		return handleError(c, err)
	}
	return deleted(c)
}

func (h *LocationHandler) SaveATM(c fiber.Ctx) error {
	in, err := service.ParseATMForm(formValues{c})
	if err != nil {
		return handleError(c, err)
	}
	res, err := h.service.SaveATM(c.Context(), in)
	if err != nil {
		return handleError(c, err)
	}
	return saved(c, res)
}

func (h *LocationHandler) DeleteATM(c fiber.Ctx) error {
	if err := h.service.DeleteATM(c.Context(), c.FormValue("atm_id")); err != nil {
		return handleError(c, err)
	}
	return deleted(c)
}

// SetATMStatus applies one status to every atm_id in the form
func (h *LocationHandler) SetATMStatus(c fiber.Ctx) error {
	var ids []string
	for _, raw := range c.Request().PostArgs().PeekMulti("atm_id") {
		ids = append(ids, string(raw))
	}
	if len(ids) == 0 {
		if id := c.FormValue("atm_id"); id != "" {
			ids = append(ids, id)
		}
	}

	n, err := h.service.SetATMStatus(c.Context(), ids, c.FormValue("status"))
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"ok":    true,
		"msg":   "updated",
		"count": n,
	})
}

// ATMsByBank lists the ATMs of a bank. Unexpected failures are reported as
// 400 with the error text.
func (h *LocationHandler) ATMsByBank(c fiber.Ctx) error {
	bankID := c.Params("bank_id")

	atms, err := h.service.ATMsByBank(c.Context(), bankID)
	switch {
	case errors.Is(err, service.ErrBankNotFound):
		return fail(c, fiber.StatusBadRequest, "Bank not found")
	case errors.Is(err, service.ErrNoATMs):
		return fail(c, fiber.StatusNotFound, fmt.Sprintf("No ATMs found for bank %s", bankID))
	case err != nil:
		return fail(c, fiber.StatusBadRequest, err.Error())
	}
	return c.Status(fiber.StatusOK).JSON(atms)
}

// ATMPinsByBank is the query-string variant of ATMsByBank with a leaner projection
func (h *LocationHandler) ATMPinsByBank(c fiber.Ctx) error {
	bankID := c.Query("bank_id")

	pins, err := h.service.ATMPinsByBank(c.Context(), bankID)
	switch {
	case errors.Is(err, service.ErrBankIDRequired):
		return fail(c, fiber.StatusBadRequest, "bank_id required")
	case errors.Is(err, service.ErrBankNotFound):
		return fail(c, fiber.StatusBadRequest, "Bank not found")
	case errors.Is(err, service.ErrNoATMs):
		return fail(c, fiber.StatusNotFound, fmt.Sprintf("No ATMs found for bank %s", bankID))
	case err != nil:
		return err
	}
	return c.Status(fiber.StatusOK).JSON(pins)
}

func saved(c fiber.Ctx, res *service.SaveResult) error {
	msg := "updated"
	if res.Created {
		msg = "created"
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"ok":  true,
		"id":  res.ID,
		"msg": msg,
	})
}

func deleted(c fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"ok":  true,
		"msg": "deleted",
	})
}

func fail(c fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{
		"ok":  false,
		"msg": msg,
	})
}

// Helper function for error handling. Client errors carry their message;
// anything else goes to the app error handler.
func handleError(c fiber.Ctx, err error) error {
	switch {
	case service.IsClientError(err):
		return fail(c, fiber.StatusBadRequest, err.Error())
	default:
		return err
	}
}
