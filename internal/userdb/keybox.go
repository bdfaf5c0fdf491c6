// internal/userdb/keybox.go
//
// Keybox seals Last.fm session keys before they hit disk. Session keys are
// long-lived bearer credentials, so rows only ever store ciphertext.
//
// Notes:
//   - XChaCha20-Poly1305 with a random 24-byte nonce prepended to each box.
//   - The AEAD key is derived from the configured secret via SHA-256, so
//     operators can use any passphrase-like string (SESSION_KEY_SECRET).

package userdb

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"

	"golang.org/x/crypto/chacha20poly1305"
)

// Keybox encrypts and decrypts small secrets.
type Keybox struct {
	aead cipher.AEAD
}

// NewKeybox derives an AEAD from the given secret. The secret must be
// non-empty; rotating it makes previously sealed values unreadable.
func NewKeybox(secret string) (*Keybox, error) {
	if secret == "" {
		return nil, errors.New("userdb: keybox secret is empty")
	}
	sum := sha256.Sum256([]byte(secret))
	aead, err := chacha20poly1305.NewX(sum[:])
	if err != nil {
		return nil, err
	}
	return &Keybox{aead: aead}, nil
}

// Seal encrypts plain and returns nonce||ciphertext.
func (k *Keybox) Seal(plain string) ([]byte, error) {
	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return k.aead.Seal(nonce, nonce, []byte(plain), nil), nil
}

// Open decrypts a value produced by Seal.
func (k *Keybox) Open(sealed []byte) (string, error) {
	if len(sealed) < chacha20poly1305.NonceSizeX {
		return "", errors.New("userdb: sealed value too short")
	}
	nonce, box := sealed[:chacha20poly1305.NonceSizeX], sealed[chacha20poly1305.NonceSizeX:]
	plain, err := k.aead.Open(nil, nonce, box, nil)
	if err != nil {
		return "", errors.New("userdb: cannot open sealed value")
	}
	return string(plain), nil
}
