package ginmw

import (
	"net/http"

	"github.com/gin-gonic/gin"
	goskema "github.com/reoring/jsonschema"
	"github.com/reoring/jsonschema/middleware"
)

// ValidateJSON decodes the request body and validates it against schema,
// storing the decoded instance in the request context on success, or
// responding 400 with an Issues payload on failure.
func ValidateJSON(schema *goskema.CompiledSchema) gin.HandlerFunc {
	return func(c *gin.Context) {
		instance, err := middleware.DecodeAndValidate(schema, goskema.JSONReader(c.Request.Body))
		if err != nil {
			if iss, ok := goskema.AsIssues(err); ok {
				c.JSON(http.StatusBadRequest, middleware.ErrorPayload(iss))
				c.Abort()
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			c.Abort()
			return
		}
		c.Request = c.Request.WithContext(middleware.ContextWithInstance(c.Request.Context(), instance))
		c.Next()
	}
}

// GetInstance fetches the decoded instance stored by ValidateJSON.
func GetInstance(c *gin.Context) (any, bool) {
	return middleware.InstanceFromContext(c.Request.Context())
}
