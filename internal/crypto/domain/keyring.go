package domain

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
)

// Secret is a pre-shared passphrase identified by a stable ID.
//
// The ID never leaves the process; it only selects which passphrase encrypts new
// tokens. String redacts the value so a Secret can be logged safely.
type Secret struct {
	ID    string
	Value []byte
}

// String implements fmt.Stringer without exposing the secret value.
func (s Secret) String() string {
	return s.ID + ":[REDACTED]"
}

// KMSKeeper is the subset of *secrets.Keeper used to wrap and unwrap token secrets.
type KMSKeeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}

// Keyring holds the token secrets of one deployment with one designated as active.
//
// New tokens are always sealed with the active secret. The remaining secrets are kept
// so tokens issued before a rotation still verify; dropping a secret from the keyring
// invalidates every token it sealed. A Keyring is immutable after construction.
type Keyring struct {
	activeID string
	order    []string
	secrets  map[string]*Secret
}

// NewKeyring builds a keyring from the given secrets. Values are copied, so callers
// may zero their buffers afterwards. Returns ErrActiveTokenSecretNotFound when activeID
// does not name one of the secrets.
func NewKeyring(activeID string, secrets ...Secret) (*Keyring, error) {
	if activeID == "" {
		return nil, ErrActiveTokenSecretIDNotSet
	}
	if len(secrets) == 0 {
		return nil, ErrTokenSecretsNotSet
	}

	k := &Keyring{
		activeID: activeID,
		order:    make([]string, 0, len(secrets)),
		secrets:  make(map[string]*Secret, len(secrets)),
	}

	for _, s := range secrets {
		if s.ID == "" {
			k.Close()
			return nil, fmt.Errorf("%w: empty secret id", ErrInvalidTokenSecretsFormat)
		}
		if _, exists := k.secrets[s.ID]; exists {
			k.Close()
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTokenSecretID, s.ID)
		}
		if len(s.Value) < MinSecretLength {
			k.Close()
			return nil, fmt.Errorf(
				"%w: secret %s must be at least %d bytes, got %d",
				ErrSecretTooShort,
				s.ID,
				MinSecretLength,
				len(s.Value),
			)
		}

		value := make([]byte, len(s.Value))
		copy(value, s.Value)
		k.secrets[s.ID] = &Secret{ID: s.ID, Value: value}
		k.order = append(k.order, s.ID)
	}

	if _, ok := k.secrets[activeID]; !ok {
		k.Close()
		return nil, fmt.Errorf("%w: ACTIVE_TOKEN_SECRET_ID=%s", ErrActiveTokenSecretNotFound, activeID)
	}

	return k, nil
}

// ActiveID returns the ID of the secret used to seal new tokens.
func (k *Keyring) ActiveID() string {
	return k.activeID
}

// Get returns the secret with the given ID.
func (k *Keyring) Get(id string) (*Secret, bool) {
	s, ok := k.secrets[id]
	return s, ok
}

// Secrets returns every secret in decryption order: the active secret first, then
// the others in the order they were configured.
func (k *Keyring) Secrets() []*Secret {
	out := make([]*Secret, 0, len(k.order))
	if active, ok := k.secrets[k.activeID]; ok {
		out = append(out, active)
	}
	for _, id := range k.order {
		if id == k.activeID {
			continue
		}
		out = append(out, k.secrets[id])
	}
	return out
}

// Len returns the number of secrets in the keyring.
func (k *Keyring) Len() int {
	return len(k.order)
}

// Close zeroes every secret value and empties the keyring.
func (k *Keyring) Close() {
	for _, s := range k.secrets {
		Zero(s.Value)
	}
	k.activeID = ""
	k.order = nil
	k.secrets = map[string]*Secret{}
}

// LoadKeyring parses raw plaintext secrets in the form "id1:passphrase1,id2:passphrase2".
//
// This is the format of TOKEN_SECRETS when no KMS provider is configured. Passphrases
// may contain ':' but not ','.
func LoadKeyring(raw, activeID string) (*Keyring, error) {
	entries, err := parseEntries(raw, activeID)
	if err != nil {
		return nil, err
	}

	secrets := make([]Secret, 0, len(entries))
	for _, e := range entries {
		secrets = append(secrets, Secret{ID: e[0], Value: []byte(e[1])})
	}

	return NewKeyring(activeID, secrets...)
}

// LoadKeyringWithKMS parses raw KMS-wrapped secrets in the form "id1:base64,id2:base64"
// and unwraps each value with the keeper. Unwrapped buffers are zeroed once copied into
// the keyring.
func LoadKeyringWithKMS(ctx context.Context, keeper KMSKeeper, raw, activeID string) (*Keyring, error) {
	entries, err := parseEntries(raw, activeID)
	if err != nil {
		return nil, err
	}

	secrets := make([]Secret, 0, len(entries))
	defer func() {
		for _, s := range secrets {
			Zero(s.Value)
		}
	}()

	for _, e := range entries {
		wrapped, err := base64.StdEncoding.DecodeString(e[1])
		if err != nil {
			return nil, fmt.Errorf("%w for %s: %v", ErrInvalidTokenSecretBase64, e[0], err)
		}

		value, err := keeper.Decrypt(ctx, wrapped)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrKMSDecryptionFailed, e[0], err)
		}

		secrets = append(secrets, Secret{ID: e[0], Value: value})
	}

	return NewKeyring(activeID, secrets...)
}

// parseEntries splits "id:value" pairs and checks the required inputs are present.
func parseEntries(raw, activeID string) ([][2]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrTokenSecretsNotSet
	}
	if activeID == "" {
		return nil, ErrActiveTokenSecretIDNotSet
	}

	var entries [][2]string
	for part := range strings.SplitSeq(raw, ",") {
		p := strings.SplitN(strings.TrimSpace(part), ":", 2)
		if len(p) != 2 || p[0] == "" || p[1] == "" {
			return nil, fmt.Errorf("%w: entry %d", ErrInvalidTokenSecretsFormat, len(entries)+1)
		}
		entries = append(entries, [2]string{p[0], p[1]})
	}

	return entries, nil
}
