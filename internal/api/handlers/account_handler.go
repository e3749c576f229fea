package handlers

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	config "github.com/zdziszkee/bankmap/internal/configuration"
	"github.com/zdziszkee/bankmap/internal/logger"
	"github.com/zdziszkee/bankmap/internal/service"
)

const (
	msgInvalidLogin = "Tên đăng nhập hoặc mật khẩu không đúng."
	msgRegistered   = "Tài khoản đã được tạo! Bạn có thể đăng nhập ngay."
	msgLoggedOut    = "Bạn đã đăng xuất."
)

// AccountHandler serves registration, login and logout
type AccountHandler struct {
	auth    service.AuthService
	session config.SessionConfig
}

// NewAccountHandler creates a new handler instance
func NewAccountHandler(auth service.AuthService, session config.SessionConfig) *AccountHandler {
	return &AccountHandler{auth: auth, session: session}
}

func (h *AccountHandler) RegisterPage(c fiber.Ctx) error {
	return renderRegister(c, service.RegisterInput{}, nil)
}

func (h *AccountHandler) Register(c fiber.Ctx) error {
	in := service.ParseRegisterForm(formValues{c})

	_, err := h.auth.Register(c.Context(), in)
	if err != nil {
		var fieldErrs service.FieldErrors
		if errors.As(err, &fieldErrs) {
			return renderRegister(c, in, fieldErrs)
		}
		return err
	}

	return c.Redirect().With("success", msgRegistered).To("/users/login/")
}

func (h *AccountHandler) LoginPage(c fiber.Ctx) error {
	return renderLogin(c, "", c.Query("next"), "")
}

// Login opens a session. Without remember=on the cookie lasts for the browser
// session only; next is followed when it points at this host.
func (h *AccountHandler) Login(c fiber.Ctx) error {
	username := strings.TrimSpace(c.FormValue("username"))
	next := c.Query("next")
	if next == "" {
		next = c.FormValue("next")
	}

	res, err := h.auth.Login(c.Context(), username, c.FormValue("password"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return renderLogin(c, username, next, msgInvalidLogin)
		}
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:        h.session.CookieName,
		Value:       res.Token,
		Path:        "/",
		Expires:     res.ExpiresAt,
		Secure:      h.session.Secure,
		HTTPOnly:    true,
		SameSite:    fiber.CookieSameSiteLaxMode,
		SessionOnly: c.FormValue("remember") != "on",
	})

	target := "/"
	if isSafeRedirect(next, c.Host(), c.Scheme() == "https") {
		target = next
	}
	return c.Redirect().
		With("success", fmt.Sprintf("Chào mừng %s đã đăng nhập!", res.User.Username)).
		To(target)
}

// Logout drops the session and expires the cookie
func (h *AccountHandler) Logout(c fiber.Ctx) error {
	if err := h.auth.Logout(c.Context(), c.Cookies(h.session.CookieName)); err != nil {
		logger.FromContext(c.Context()).Warn("failed to delete session", zap.Error(err))
	}

	c.Cookie(&fiber.Cookie{
		Name:     h.session.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		Secure:   h.session.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.Redirect().With("info", msgLoggedOut).To("/users/login/")
}

func renderLogin(c fiber.Ctx, username, next, errMsg string) error {
	return render(c, "login", fiber.Map{
		"PageTitle": "Đăng nhập",
		"Username":  username,
		"Next":      next,
		"Error":     errMsg,
	})
}

func renderRegister(c fiber.Ctx, in service.RegisterInput, errs service.FieldErrors) error {
	return render(c, "register", fiber.Map{
		"PageTitle": "Đăng ký",
		"Username":  in.Username,
		"Email":     in.Email,
		"Errors":    errs,
	})
}

// isSafeRedirect accepts relative paths and absolute URLs on host. Over
// https, plain http targets are refused.
func isSafeRedirect(target, host string, https bool) bool {
	target = strings.TrimSpace(target)
	if target == "" || strings.ContainsRune(target, '\\') {
		return false
	}
	u, err := url.Parse(target)
	if err != nil {
		return false
	}
	if u.Scheme == "" && u.Host == "" {
		return !strings.HasPrefix(target, "//") && u.Opaque == ""
	}
	switch u.Scheme {
	case "https":
	case "http":
		if https {
			return false
		}
	default:
		return false
	}
	return u.Host != "" && strings.EqualFold(u.Host, host)
}
