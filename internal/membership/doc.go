// Package membership issues and verifies encrypted membership tokens.
//
// A membership token is an opaque, self-contained string binding a user identifier
// to the moment it was issued. Verification needs only the token secrets: nothing
// is looked up, so any replica holding the same keyring can verify any token.
//
// Layers follow the rest of the service:
//
//   - domain: token payload, verification result, issuance log and errors
//   - service: the token protocol and issuer API key hashing
//   - usecase: orchestration, optional issuance logging and metrics decorators
//   - repository: PostgreSQL and MySQL issuance log storage
//   - http: gin handlers, DTOs, issuer authentication and rate limiting
package membership
