package middleware

import (
	"strings"

	"Fixit/Constants"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// SessionCookie is the cookie carrying the signed admin session token.
const SessionCookie = "jwt"

// Verify gates the operator-facing routes. Without a valid session the
// dashboard pages redirect to the login form; API calls get a 401 so the
// dashboard scripts can react.
func Verify() fiber.Handler {
	return func(c *fiber.Ctx) error {
		cookie := c.Cookies(SessionCookie)
		if cookie == "" {
			return refuse(c)
		}

		token, err := jwt.ParseWithClaims(cookie, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
			return []byte(Constants.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return refuse(c)
		}

		claims, ok := token.Claims.(*jwt.RegisteredClaims)
		if !ok || claims.Issuer != Constants.AdminUsername {
			return refuse(c)
		}

		c.Locals("admin", claims.Issuer)
		return c.Next()
	}
}

func refuse(c *fiber.Ctx) error {
	if strings.HasPrefix(c.Path(), "/api") {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Not Logged In.",
		})
	}
	return c.Redirect("/login")
}
