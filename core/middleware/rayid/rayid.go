package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Header carries the request's ray id back to the client.
const Header = "X-Ray-ID"

// New creates a middleware that assigns every request a unique ray id,
// stored in locals for log correlation and echoed in the response header.
// An id supplied by the client is preserved so traces can span services.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(Header)
		if rid == "" {
			rid = uuid.NewString()
		}

		c.Locals("ray_id", rid)
		c.Set(Header, rid)
		return c.Next()
	}
}
