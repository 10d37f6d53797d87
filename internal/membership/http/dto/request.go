// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/membertoken/internal/validation"
)

// maxTokenLength bounds verify requests well above any issued token.
const maxTokenLength = 4096

// IssueTokenRequest contains the parameters for issuing a membership token.
type IssueTokenRequest struct {
	UserID string `json:"user_id"`
}

// Validate checks if the issue token request is valid.
func (r *IssueTokenRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.UserID,
			validation.Required,
			customValidation.NotBlank,
			customValidation.NoWhitespace,
			customValidation.Printable,
			validation.Length(1, 255),
		),
	)
}

// VerifyTokenRequest contains the token to verify.
type VerifyTokenRequest struct {
	Token string `json:"token"`
}

// Validate checks if the verify token request is valid.
func (r *VerifyTokenRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Token,
			validation.Required,
			customValidation.URLSafe,
			validation.Length(1, maxTokenLength),
		),
	)
}
