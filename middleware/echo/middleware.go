package echomw

import (
	"net/http"

	"github.com/labstack/echo/v4"
	goskema "github.com/reoring/jsonschema"
	"github.com/reoring/jsonschema/middleware"
)

// ValidateJSON decodes the request body and validates it against schema,
// storing the decoded instance in the request context on success, or
// responding 400 with an Issues payload on failure.
func ValidateJSON(schema *goskema.CompiledSchema) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			instance, err := middleware.DecodeAndValidate(schema, goskema.JSONReader(c.Request().Body))
			if err != nil {
				if iss, ok := goskema.AsIssues(err); ok {
					return c.JSON(http.StatusBadRequest, middleware.ErrorPayload(iss))
				}
				return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
			}
			ctx := middleware.ContextWithInstance(c.Request().Context(), instance)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// GetInstance fetches the decoded instance stored by ValidateJSON.
func GetInstance(c echo.Context) (any, bool) {
	return middleware.InstanceFromContext(c.Request().Context())
}
