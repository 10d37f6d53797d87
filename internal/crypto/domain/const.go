package domain

// Algorithm represents the AEAD algorithm used to seal token payloads.
//
// Both algorithms use a 256-bit key, a 12-byte nonce and a 16-byte tag, so they are
// interchangeable from the envelope's point of view. Pick AESGCM on hardware with
// AES-NI and ChaCha20 elsewhere.
type Algorithm string

const (
	// AESGCM represents AES-256-GCM.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 represents ChaCha20-Poly1305.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

// Envelope layout constants.
//
// A sealed envelope is: version(1) | algorithm(1) | salt(16) | nonce(12) | ciphertext+tag.
// The first three fields form the header and are authenticated as associated data.
const (
	// EnvelopeVersion1 is the only envelope version currently produced.
	EnvelopeVersion1 byte = 1

	// SaltSize is the size of the per-message HKDF salt.
	SaltSize = 16

	// NonceSize is the AEAD nonce size shared by both algorithms.
	NonceSize = 12

	// TagSize is the AEAD authentication tag size shared by both algorithms.
	TagSize = 16

	// HeaderSize is the number of leading envelope bytes bound as associated data.
	HeaderSize = 2 + SaltSize

	// KeySize is the AEAD key size in bytes.
	KeySize = 32

	// MinSecretLength is the shortest passphrase accepted for a token secret.
	MinSecretLength = 16
)

// algorithmIDs maps algorithms to their single-byte envelope identifier.
var algorithmIDs = map[Algorithm]byte{
	AESGCM:   1,
	ChaCha20: 2,
}

// ID returns the envelope identifier for the algorithm and whether it is known.
func (a Algorithm) ID() (byte, bool) {
	id, ok := algorithmIDs[a]
	return id, ok
}

// AlgorithmFromID resolves an envelope identifier back to its algorithm.
func AlgorithmFromID(id byte) (Algorithm, bool) {
	for alg, algID := range algorithmIDs {
		if algID == id {
			return alg, true
		}
	}
	return "", false
}

// ParseAlgorithm converts a configuration or CLI string into an Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(s) {
	case AESGCM, ChaCha20:
		return Algorithm(s), nil
	default:
		return "", ErrUnsupportedAlgorithm
	}
}
