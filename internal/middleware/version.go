package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/elementdb/internal/types"
)

// Version stamps every response with the service API version and stores the
// caller's requested version (X-Api-Version header, default current) in the
// request context for handlers that need it. Requests for a different major
// version are rejected before reaching a handler.
func Version(serviceVersion string) fiber.Handler {
	serviceMajor := majorVersion(serviceVersion)

	return func(c *fiber.Ctx) error {
		requested := c.Get("X-Api-Version", serviceVersion)

		// Alias short forms like "1.0" to the full version
		if requested+".0" == serviceVersion {
			requested = serviceVersion
		}

		if majorVersion(requested) != serviceMajor {
			return &types.CustomError{
				Code:    fiber.StatusBadRequest,
				Message: fmt.Sprintf("unsupported api version %q, service is %s", requested, serviceVersion),
				Type:    "version",
			}
		}

		c.Locals("apiVersion", requested)
		c.Set("X-Api-Version", serviceVersion)

		return c.Next()
	}
}

func majorVersion(version string) string {
	return strings.SplitN(version, ".", 2)[0]
}
