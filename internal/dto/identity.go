package dto

import "github.com/riseresearch/rise-api/internal/models"

// VerifyIdentityRequest carries a Google ID credential.
type VerifyIdentityRequest struct {
	Credential string `json:"credential" validate:"required"`
}

// VerifyIdentityResponse describes the signed-in account.
type VerifyIdentityResponse struct {
	Success bool        `json:"success"`
	Email   string      `json:"email"`
	Name    string      `json:"name"`
	Picture string      `json:"picture"`
	Role    models.Role `json:"role"`
}

// VerifyEmailRequest asks whether an email is registered.
type VerifyEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// VerifyEmailResponse answers VerifyEmailRequest.
type VerifyEmailResponse struct {
	Authorized bool   `json:"authorized"`
	Email      string `json:"email"`
}

// AuthorizedEmailsResponse lists every registered email.
type AuthorizedEmailsResponse struct {
	Emails []string `json:"emails"`
	Count  int      `json:"count"`
}
