package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/riseresearch/rise-api/pkg/errors"
)

// ErrorBody is the failure contract shared by every endpoint.
type ErrorBody struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable,omitempty"`
}

// JSON sends payload with the given status. Payloads carry their own success flag.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(status, payload)
}

// OK responds with HTTP 200.
func OK(c *gin.Context, payload interface{}) {
	JSON(c, http.StatusOK, payload)
}

// Error sends an error response converting the error to the common structure.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	JSON(c, appErr.Status, ErrorBody{
		Success:   false,
		Error:     appErr.Code,
		Message:   appErr.Message,
		Retryable: appErr.Retryable,
	})
}

// NotFound answers unknown routes.
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"error":   "Not found",
		"message": "The requested endpoint does not exist",
	})
}

// Attachment streams a downloadable file.
func Attachment(c *gin.Context, filename, contentType string, body []byte) {
	c.Header("Cache-Control", "no-store")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, body)
}
