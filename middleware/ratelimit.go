// middleware/ratelimit.go
package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// Named limiter profiles, all keyed by client IP. State is in-process, so
// each instance of a horizontally scaled deployment enforces its own window.

func newLimiter(max int, window time.Duration, message string) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": message})
		},
	})
}

// LoginLimiter guards credential guessing on the login endpoint.
func LoginLimiter() fiber.Handler {
	return newLimiter(5, time.Minute, "Too many login attempts from this IP, please try again later.")
}

// RegisterLimiter throttles account creation per IP.
func RegisterLimiter() fiber.Handler {
	return newLimiter(5, 30*time.Minute, "Too many accounts created from this IP, please try again after 30 minutes.")
}

// StandardLimiter is the default profile for authenticated CRUD traffic.
func StandardLimiter() fiber.Handler {
	return newLimiter(10, time.Second, "You are sending too many requests.")
}

// HeavyLimiter guards endpoints that do real work per call (events, uploads, mail).
func HeavyLimiter() fiber.Handler {
	return newLimiter(1, time.Second, "You are sending too many requests.")
}

// SuperHeavyLimiter guards endpoints that trigger outbound email.
func SuperHeavyLimiter() fiber.Handler {
	return newLimiter(2, 30*time.Minute, "You are sending too many requests.")
}
