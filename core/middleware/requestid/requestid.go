package requestid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// HeaderName is the request and response header carrying the request id.
const HeaderName = "X-Request-ID"

// New returns middleware that tags every request with a unique id. An id
// supplied by the caller in the X-Request-ID header is kept; otherwise a new
// uuid is generated. The id is stored under c.Locals("request_id") for
// logging and echoed in the response header.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(HeaderName)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Locals("request_id", rid)
		c.Set(HeaderName, rid)
		return c.Next()
	}
}
