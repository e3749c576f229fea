package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/gofiber/fiber/v3"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	handlers "github.com/zdziszkee/bankmap/internal/api/handlers"
	"github.com/zdziszkee/bankmap/internal/mocks"
	model "github.com/zdziszkee/bankmap/internal/model"
	"github.com/zdziszkee/bankmap/internal/service"
)

var _ = Describe("Permission Handler", func() {
	var (
		app     *fiber.App
		mockSvc *mocks.MockPermissionService
	)

	BeforeEach(func() {
		mockSvc = &mocks.MockPermissionService{}
		h := handlers.NewPermissionHandler(mockSvc)
		app = newApp()
		app.Get("/permissions/", h.List)
		app.Post("/permissions/", h.Toggle)
	})

	Describe("List", func() {
		It("should render every user", func() {
			mockSvc.ListUsersFunc = func(ctx context.Context) ([]model.User, error) {
				return []model.User{
					{ID: 1, Username: "admin", IsSuperuser: true},
					{ID: 2, Username: "bob", Email: "bob@example.com"},
				}, nil
			}

			resp := get(app, "/permissions/")
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			page := body(resp)
			Expect(page).To(ContainSubstring("admin"))
			Expect(page).To(ContainSubstring("bob@example.com"))
			Expect(page).To(ContainSubstring(`name="user_id" value="2"`))
		})
	})

	Describe("Toggle", func() {
		It("should toggle the submitted user and redirect back", func() {
			var toggled string
			mockSvc.ToggleSuperuserFunc = func(ctx context.Context, rawUserID string) error {
				toggled = rawUserID
				return nil
			}

			resp := postForm(app, "/permissions/", url.Values{"user_id": {"2"}})
			Expect(resp.StatusCode).To(Equal(http.StatusFound))
			Expect(resp.Header.Get("Location")).To(Equal("/permissions/"))
			Expect(toggled).To(Equal("2"))
		})

		It("should ignore unknown users", func() {
			mockSvc.ToggleSuperuserFunc = func(ctx context.Context, rawUserID string) error {
				return service.ErrUserNotFound
			}

			resp := postForm(app, "/permissions/", url.Values{"user_id": {"abc"}})
			Expect(resp.StatusCode).To(Equal(http.StatusFound))
			Expect(resp.Header.Get("Location")).To(Equal("/permissions/"))
		})

		It("should fail on store errors", func() {
			mockSvc.ToggleSuperuserFunc = func(ctx context.Context, rawUserID string) error {
				return errors.New("connection refused")
			}

			resp := postForm(app, "/permissions/", url.Values{"user_id": {"2"}})
			Expect(resp.StatusCode).To(Equal(http.StatusInternalServerError))
		})
	})
})
