package domain

import (
	"github.com/allisson/membertoken/internal/errors"
)

// Membership token errors.
//
// Verification failures are caller mistakes and map to ErrInvalidInput. Creation
// failures come from the environment and stay internal.
var (
	// ErrTokenCreation indicates a token could not be issued.
	ErrTokenCreation = errors.New("token creation failed")

	// ErrInvalidToken indicates a token could not be decrypted or its payload is malformed.
	ErrInvalidToken = errors.Wrap(errors.ErrInvalidInput, "invalid token")

	// ErrIntegrity indicates the payload hash does not match its user id.
	ErrIntegrity = errors.Wrap(errors.ErrInvalidInput, "token integrity check failed")

	// ErrTokenExpired indicates a token older than the configured maximum age.
	ErrTokenExpired = errors.Wrap(errors.ErrInvalidInput, "token expired")

	// ErrEmptyUserID indicates an issuance request without a user id.
	ErrEmptyUserID = errors.Wrap(errors.ErrInvalidInput, "user id is required")

	// ErrIssuanceLogDisabled indicates the issuance log was queried while disabled.
	ErrIssuanceLogDisabled = errors.Wrap(errors.ErrNotFound, "issuance log is disabled")
)
