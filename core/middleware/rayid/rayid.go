package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Header is the response header carrying the generated request ID.
const Header = "X-Ray-Id"

// New returns a middleware that assigns every request a unique ray ID.
// The ID is stored in locals under "ray_id" and echoed in the response
// header so operator requests can be matched to log lines.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(Header)
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals("ray_id", id)
		c.Set(Header, id)
		return c.Next()
	}
}
