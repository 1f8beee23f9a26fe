package apierrors

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ErrorResponse is the wire shape for all error responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteError writes an error as an HTTP response, mapping APIError types to
// status codes. Unknown errors are treated as internal.
func WriteError(c *gin.Context, err error, log zerolog.Logger) {
	apiErr := Get(err)
	if apiErr == nil {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("unhandled error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "server_error",
			Message: "internal server error",
		})
		return
	}

	log.Warn().
		Str("error_type", string(apiErr.Type)).
		Str("code", apiErr.Code).
		Str("path", c.Request.URL.Path).
		Err(apiErr.Err).
		Msg(apiErr.Message)

	c.JSON(ToHTTPStatus(apiErr.Type), ErrorResponse{
		Error:   apiErr.Code,
		Message: apiErr.Message,
	})
}
