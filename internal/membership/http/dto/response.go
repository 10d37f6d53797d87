package dto

import (
	"time"

	membershipDomain "github.com/allisson/membertoken/internal/membership/domain"
)

// IssueTokenResponse contains a freshly issued token.
type IssueTokenResponse struct {
	Token    string    `json:"token"`
	UserID   string    `json:"user_id"`
	IssuedAt time.Time `json:"issued_at"`
}

// MapIssuedTokenToResponse converts an issued token to an API response.
func MapIssuedTokenToResponse(issued *membershipDomain.IssuedToken) IssueTokenResponse {
	return IssueTokenResponse{
		Token:    issued.Token,
		UserID:   issued.UserID,
		IssuedAt: issued.IssuedAt,
	}
}

// VerifyTokenResponse contains the outcome of a successful verification.
type VerifyTokenResponse struct {
	UserID    string  `json:"user_id"`
	Timestamp string  `json:"timestamp"`
	IsValid   bool    `json:"is_valid"`
	HoursOld  float64 `json:"hours_old"`
}

// MapVerificationResultToResponse converts a verification result to an API response.
func MapVerificationResultToResponse(result *membershipDomain.VerificationResult) VerifyTokenResponse {
	return VerifyTokenResponse{
		UserID:    result.UserID,
		Timestamp: result.Timestamp,
		IsValid:   result.IsValid,
		HoursOld:  result.HoursOld,
	}
}

// IssuanceLogResponse represents an issuance log entry in API responses.
type IssuanceLogResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	TokenHash string    `json:"token_hash"`
	IssuedAt  time.Time `json:"issued_at"`
}

// ListIssuanceLogsResponse represents a paginated list of issuance log entries.
type ListIssuanceLogsResponse struct {
	Data []IssuanceLogResponse `json:"data"`
}

// MapIssuanceLogsToListResponse converts domain issuance logs to a list response.
func MapIssuanceLogsToListResponse(issuanceLogs []*membershipDomain.IssuanceLog) ListIssuanceLogsResponse {
	data := make([]IssuanceLogResponse, 0, len(issuanceLogs))
	for _, l := range issuanceLogs {
		data = append(data, IssuanceLogResponse{
			ID:        l.ID.String(),
			UserID:    l.UserID,
			TokenHash: l.TokenHash,
			IssuedAt:  l.IssuedAt,
		})
	}

	return ListIssuanceLogsResponse{
		Data: data,
	}
}
