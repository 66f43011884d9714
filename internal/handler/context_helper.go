package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	appErrors "github.com/riseresearch/rise-api/pkg/errors"
	"github.com/riseresearch/rise-api/pkg/response"
)

// bindJSON decodes the request body into dest and renders a validation error
// when it cannot.
func bindJSON(c *gin.Context, dest interface{}, message string) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, message))
		return false
	}
	return true
}

// requireParam returns the trimmed path parameter or renders a validation error.
func requireParam(c *gin.Context, name, message string) (string, bool) {
	value := strings.TrimSpace(c.Param(name))
	if value == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, message))
		return "", false
	}
	return value, true
}
