package handlers

import (
	"github.com/gofiber/fiber/v3"

	"github.com/zdziszkee/bankmap/internal/web"
)

// formValues adapts a request body to service.FormValues
type formValues struct {
	c fiber.Ctx
}

func (f formValues) Get(key string) string {
	return f.c.FormValue(key)
}

// render executes a page inside the layout with the pending flash messages.
// Site labels and the current user are bound by middleware.
func render(c fiber.Ctx, name string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	msgs := c.Redirect().Messages()
	if len(msgs) > 0 {
		c.ClearCookie(fiber.FlashCookieName)
	}
	data["Messages"] = msgs
	return c.Render(name, data, web.Layout)
}
