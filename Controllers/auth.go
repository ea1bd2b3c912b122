package Controllers

import (
	"crypto/subtle"
	"strings"
	"time"

	"Fixit/Constants"
	"Fixit/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

const sessionDuration = time.Hour * 24

type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// Login checks the submitted credentials against the configured admin
// account and, on success, issues the signed session cookie. A failed
// attempt changes nothing.
func Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	if !credentialsMatch(req.Username, req.Password) {
		if wantsJSON(c) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Incorrect username or password",
			})
		}
		return c.Status(fiber.StatusUnauthorized).Render("login", fiber.Map{
			"Error": "Login failed. Try again.",
		})
	}

	claims := &jwt.RegisteredClaims{
		Issuer:    Constants.AdminUsername,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(sessionDuration)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(Constants.JWTSecret))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create session",
		})
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Expires:  time.Now().Add(sessionDuration),
		HTTPOnly: true,
		SameSite: "Lax",
	})

	if wantsJSON(c) {
		return c.JSON(fiber.Map{"message": "success"})
	}
	return c.Redirect("/dashboard")
}

// Logout clears the session cookie and sends the operator back to the
// login page.
func Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})
	if wantsJSON(c) {
		return c.JSON(fiber.Map{"message": "success"})
	}
	return c.Redirect("/login")
}

// ValidateToken lets the dashboard probe whether its session is still good.
func ValidateToken(c *fiber.Ctx) error {
	cookie := c.Cookies(middleware.SessionCookie)
	if cookie == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"valid": false})
	}
	token, err := jwt.ParseWithClaims(cookie, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(Constants.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"valid": false})
	}
	return c.JSON(fiber.Map{"valid": true})
}

// credentialsMatch compares against the single configured admin credential.
// When a bcrypt hash is configured it takes precedence over the plain
// password.
func credentialsMatch(username, password string) bool {
	if Constants.AdminUsername == "" {
		return false
	}
	if subtle.ConstantTimeCompare([]byte(username), []byte(Constants.AdminUsername)) != 1 {
		return false
	}
	if Constants.AdminPasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(Constants.AdminPasswordHash), []byte(password)) == nil
	}
	if Constants.AdminPassword == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(Constants.AdminPassword)) == 1
}

func wantsJSON(c *fiber.Ctx) bool {
	return strings.Contains(c.Get(fiber.HeaderContentType), "json") ||
		strings.Contains(c.Get(fiber.HeaderAccept), "json")
}
