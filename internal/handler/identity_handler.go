package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/riseresearch/rise-api/internal/dto"
	"github.com/riseresearch/rise-api/pkg/response"
)

type identityService interface {
	VerifyToken(ctx context.Context, req dto.VerifyIdentityRequest) (*dto.VerifyIdentityResponse, error)
	VerifyEmail(ctx context.Context, req dto.VerifyEmailRequest) (*dto.VerifyEmailResponse, error)
	AuthorizedEmails(ctx context.Context) (*dto.AuthorizedEmailsResponse, error)
}

// IdentityHandler resolves signed-in users to their role.
type IdentityHandler struct {
	service identityService
}

// NewIdentityHandler constructs the handler.
func NewIdentityHandler(service identityService) *IdentityHandler {
	return &IdentityHandler{service: service}
}

// VerifyToken godoc
// @Summary Verify a Google ID credential
// @Description Decodes the credential and looks the email up across the role tables.
// @Tags Identity
// @Accept json
// @Produce json
// @Param payload body dto.VerifyIdentityRequest true "Credential"
// @Success 200 {object} dto.VerifyIdentityResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 401 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Router /verify-identity-token [post]
func (h *IdentityHandler) VerifyToken(c *gin.Context) {
	var req dto.VerifyIdentityRequest
	if !bindJSON(c, &req, "Google credential is required") {
		return
	}
	resp, err := h.service.VerifyToken(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, resp)
}

// VerifyEmail godoc
// @Summary Check whether an email is registered
// @Tags Identity
// @Accept json
// @Produce json
// @Param payload body dto.VerifyEmailRequest true "Email"
// @Success 200 {object} dto.VerifyEmailResponse
// @Failure 400 {object} response.ErrorBody
// @Router /verify-email [post]
func (h *IdentityHandler) VerifyEmail(c *gin.Context) {
	var req dto.VerifyEmailRequest
	if !bindJSON(c, &req, "Email is required") {
		return
	}
	resp, err := h.service.VerifyEmail(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, resp)
}

// AuthorizedEmails godoc
// @Summary List registered emails
// @Tags Identity
// @Produce json
// @Success 200 {object} dto.AuthorizedEmailsResponse
// @Router /authorized-emails [get]
func (h *IdentityHandler) AuthorizedEmails(c *gin.Context) {
	resp, err := h.service.AuthorizedEmails(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, resp)
}
