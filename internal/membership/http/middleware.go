package http

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	cryptoService "github.com/allisson/membertoken/internal/crypto/service"
	apperrors "github.com/allisson/membertoken/internal/errors"
	"github.com/allisson/membertoken/internal/httputil"
	membershipService "github.com/allisson/membertoken/internal/membership/service"
)

// issuerKeyVerifier checks bearer keys against the configured Argon2id hashes.
//
// Argon2id is deliberately slow, so keys that verified once are remembered by their
// SHA-256 fingerprint and later requests skip the hash comparison.
type issuerKeyVerifier struct {
	keyService    membershipService.IssuerKeyService
	digestService cryptoService.DigestService
	hashes        []string
	verified      sync.Map // fingerprint -> struct{}
}

func (v *issuerKeyVerifier) verify(plainKey string) bool {
	fingerprint := v.digestService.HashBytes([]byte(plainKey))
	if _, ok := v.verified.Load(fingerprint); ok {
		return true
	}

	for _, hash := range v.hashes {
		if v.keyService.CompareKey(plainKey, hash) {
			v.verified.Store(fingerprint, struct{}{})
			return true
		}
	}
	return false
}

// IssuerAuthMiddleware requires an issuer key in the Authorization header.
//
// Authorization header format: "Bearer <issuer-key>" (case-insensitive "bearer").
// Missing, malformed or unknown keys are answered with 401 Unauthorized. With no
// configured hashes every request is rejected.
func IssuerAuthMiddleware(
	keyService membershipService.IssuerKeyService,
	digestService cryptoService.DigestService,
	hashes []string,
	logger *slog.Logger,
) gin.HandlerFunc {
	verifier := &issuerKeyVerifier{
		keyService:    keyService,
		digestService: digestService,
		hashes:        hashes,
	}

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Debug("issuer authentication failed: missing authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		const bearerPrefix = "bearer "
		if len(authHeader) < len(bearerPrefix) ||
			!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
			logger.Debug("issuer authentication failed: malformed authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		plainKey := strings.TrimSpace(authHeader[len(bearerPrefix):])
		if plainKey == "" || !verifier.verify(plainKey) {
			logger.Debug("issuer authentication failed: unknown issuer key")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		c.Next()
	}
}
