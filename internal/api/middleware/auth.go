package middleware

import (
	"context"
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v3"

	model "github.com/zdziszkee/bankmap/internal/model"
	"github.com/zdziszkee/bankmap/internal/service"
)

const userKey = "user"

// LoginPath is where guarded requests without a valid session are sent
const LoginPath = "/users/login/"

// AuthState is the outcome of evaluating a request against a guard
type AuthState int

const (
	Anonymous AuthState = iota
	Authenticated
	Forbidden
)

func (s AuthState) String() string {
	switch s {
	case Authenticated:
		return "authenticated"
	case Forbidden:
		return "forbidden"
	default:
		return "anonymous"
	}
}

// AuthResult is computed before the handler runs
type AuthResult struct {
	State AuthState
	User  *model.User
}

// Authenticator resolves a session cookie to its user
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.User, error)
}

// SessionGuard gates handlers on the session cookie
type SessionGuard struct {
	auth       Authenticator
	cookieName string
}

// NewSessionGuard creates a guard reading the named cookie
func NewSessionGuard(auth Authenticator, cookieName string) *SessionGuard {
	return &SessionGuard{auth: auth, cookieName: cookieName}
}

// Evaluate classifies the request. Store failures are returned as errors.
func (g *SessionGuard) Evaluate(c fiber.Ctx, superuser bool) (AuthResult, error) {
	user, err := g.auth.Authenticate(c.Context(), c.Cookies(g.cookieName))
	if err != nil {
		if errors.Is(err, service.ErrSessionInvalid) {
			return AuthResult{State: Anonymous}, nil
		}
		return AuthResult{}, err
	}
	if superuser && !user.IsSuperuser {
		return AuthResult{State: Forbidden, User: user}, nil
	}
	return AuthResult{State: Authenticated, User: user}, nil
}

// RequireLogin lets authenticated users through and redirects everyone else to the login page
func (g *SessionGuard) RequireLogin() fiber.Handler {
	return g.require(false)
}

// RequireSuperuser also redirects authenticated users that are not superusers
func (g *SessionGuard) RequireSuperuser() fiber.Handler {
	return g.require(true)
}

func (g *SessionGuard) require(superuser bool) fiber.Handler {
	return func(c fiber.Ctx) error {
		result, err := g.Evaluate(c, superuser)
		if err != nil {
			return err
		}
		if result.State != Authenticated {
			return c.Redirect().To(LoginPath + "?next=" + url.QueryEscape(c.OriginalURL()))
		}

		c.Locals(userKey, result.User)
		if err := c.ViewBind(fiber.Map{"User": result.User}); err != nil {
			return err
		}
		return c.Next()
	}
}

// CurrentUser returns the user admitted by a guard, or nil
func CurrentUser(c fiber.Ctx) *model.User {
	user, _ := c.Locals(userKey).(*model.User)
	return user
}
