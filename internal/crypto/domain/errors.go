package domain

import (
	"github.com/allisson/membertoken/internal/errors"
)

// Cryptographic operation error definitions.
//
// Serialization and decryption failures are caller mistakes (bad payload, bad
// ciphertext, wrong key) and map to ErrInvalidInput. Encryption failures come from
// the environment (entropy, cipher setup) and stay internal.
var (
	// ErrUnsupportedAlgorithm indicates the requested encryption algorithm is not supported.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates a derived or supplied key is not 32 bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrSerialization indicates a payload cannot be rendered to canonical form.
	ErrSerialization = errors.Wrap(errors.ErrInvalidInput, "payload serialization failed")

	// ErrEncryption indicates a payload could not be sealed.
	ErrEncryption = errors.New("encryption failed")

	// ErrDecryption indicates a ciphertext could not be opened or parsed.
	//
	// The cause (malformed text, wrong key, tampering, non-canonical plaintext) is
	// deliberately collapsed into this single error so callers cannot probe it.
	ErrDecryption = errors.Wrap(errors.ErrInvalidInput, "decryption failed")

	// ErrInvalidRandomLength indicates a negative length was requested from the random generator.
	ErrInvalidRandomLength = errors.Wrap(errors.ErrInvalidInput, "random length must not be negative")

	// ErrTokenSecretsNotSet indicates TOKEN_SECRETS is empty.
	ErrTokenSecretsNotSet = errors.Wrap(errors.ErrInvalidInput, "TOKEN_SECRETS is not set")

	// ErrActiveTokenSecretIDNotSet indicates ACTIVE_TOKEN_SECRET_ID is empty.
	ErrActiveTokenSecretIDNotSet = errors.Wrap(errors.ErrInvalidInput, "ACTIVE_TOKEN_SECRET_ID is not set")

	// ErrInvalidTokenSecretsFormat indicates an entry in TOKEN_SECRETS is not "id:value".
	ErrInvalidTokenSecretsFormat = errors.Wrap(errors.ErrInvalidInput, "invalid TOKEN_SECRETS format")

	// ErrInvalidTokenSecretBase64 indicates a KMS-wrapped secret is not valid base64.
	ErrInvalidTokenSecretBase64 = errors.Wrap(errors.ErrInvalidInput, "invalid token secret base64")

	// ErrActiveTokenSecretNotFound indicates the active id is not present in the keyring.
	ErrActiveTokenSecretNotFound = errors.Wrap(errors.ErrInvalidInput, "active token secret not found")

	// ErrDuplicateTokenSecretID indicates two keyring entries share an id.
	ErrDuplicateTokenSecretID = errors.Wrap(errors.ErrConflict, "duplicate token secret id")

	// ErrSecretTooShort indicates a passphrase shorter than MinSecretLength.
	ErrSecretTooShort = errors.Wrap(errors.ErrInvalidInput, "token secret is too short")

	// ErrKMSDecryptionFailed indicates the KMS keeper refused to unwrap a secret.
	ErrKMSDecryptionFailed = errors.New("failed to decrypt token secret with KMS")
)
