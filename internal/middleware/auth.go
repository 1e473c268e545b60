package middleware

import (
	"crypto/subtle"
	"strings"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"

	"github.com/scimulator/scimulator/internal/config"
	"github.com/scimulator/scimulator/internal/dto"
	"github.com/scimulator/scimulator/internal/scim"
)

// Protected authorizes requests against whichever credential schemes
// are configured: HTTP Basic, a static bearer token, and HS256 JWT
// bearer tokens. A request passing any configured scheme is let
// through. With no scheme configured the server is open, which is the
// usual mode for a local test fixture.
func Protected(cfg *config.Config) fiber.Handler {
	var basic fiber.Handler
	if cfg.BasicAuthUsername != "" {
		basic = basicauth.New(basicauth.Config{
			Users:        map[string]string{cfg.BasicAuthUsername: cfg.BasicAuthPassword},
			Unauthorized: unauthorized,
		})
	}

	var jwt fiber.Handler
	if cfg.JWTSecret != "" {
		jwt = jwtware.New(jwtware.Config{
			SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
			ErrorHandler: func(c *fiber.Ctx, err error) error {
				return unauthorized(c)
			},
		})
	}

	open := basic == nil && jwt == nil && cfg.AuthToken == ""

	return func(c *fiber.Ctx) error {
		if open {
			return c.Next()
		}

		header := c.Get(fiber.HeaderAuthorization)
		switch {
		case strings.HasPrefix(header, "Basic ") && basic != nil:
			return basic(c)
		case strings.HasPrefix(header, "Bearer "):
			token := strings.TrimPrefix(header, "Bearer ")
			if cfg.AuthToken != "" &&
				subtle.ConstantTimeCompare([]byte(token), []byte(cfg.AuthToken)) == 1 {
				return c.Next()
			}
			if jwt != nil {
				return jwt(c)
			}
		}
		return unauthorized(c)
	}
}

func unauthorized(c *fiber.Ctx) error {
	if strings.HasPrefix(c.Path(), scim.V1.PathPrefix()) {
		return c.Status(fiber.StatusUnauthorized).
			JSON(dto.NewErrorV1(fiber.StatusUnauthorized, "Unauthorized"))
	}
	return c.Status(fiber.StatusUnauthorized).
		JSON(dto.NewErrorV2(fiber.StatusUnauthorized, "Unauthorized"))
}
