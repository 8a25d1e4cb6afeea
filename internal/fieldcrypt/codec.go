package fieldcrypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

// Codec encrypts individual sensitive field values with AES-256-GCM.
//
// Invariants:
// - Every Encrypt call uses a fresh random salt and nonce, so identical
//   plaintexts never produce identical blobs.
// - Decrypt verifies the GCM tag before returning anything; tampered or
//   malformed blobs fail with ErrDecrypt, never with garbage plaintext.
//
// Blob layout (before base64): salt(32) || iv(16) || tag(16) || ciphertext.
// The key is derived per value from the passphrase and the blob's salt.

const (
	saltSize = 32
	ivSize   = 16
	tagSize  = 16
	keySize  = 32

	kdfIterations = 100_000
)

var (
	// ErrMissingKey indicates the encryption passphrase was not configured.
	// Fatal: the store must not accept writes involving sensitive fields.
	ErrMissingKey = errors.New("fieldcrypt: encryption key not configured")

	// ErrDecrypt covers tag verification failures and malformed blobs.
	ErrDecrypt = errors.New("fieldcrypt: decryption failed")
)

type Codec struct {
	passphrase []byte
}

// New builds a Codec from the process-wide passphrase. The passphrase is an
// explicit constructor dependency (not an ambient global) so it can be
// swapped in tests and rotated without a restart.
func New(passphrase string) (*Codec, error) {
	if passphrase == "" {
		return nil, ErrMissingKey
	}
	return &Codec{passphrase: []byte(passphrase)}, nil
}

// Encrypt returns an opaque base64 blob for plaintext.
// Empty input short-circuits to empty output without touching the cipher.
func (c *Codec) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("fieldcrypt: salt generation failed: %w", err)
	}
	iv := make([]byte, ivSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", fmt.Errorf("fieldcrypt: iv generation failed: %w", err)
	}

	gcm, err := c.aead(salt)
	if err != nil {
		return "", err
	}

	// Seal appends the tag after the ciphertext; the blob stores it first.
	sealed := gcm.Seal(nil, iv, []byte(plaintext), nil)
	ct := sealed[:len(sealed)-tagSize]
	tag := sealed[len(sealed)-tagSize:]

	blob := make([]byte, 0, saltSize+ivSize+tagSize+len(ct))
	blob = append(blob, salt...)
	blob = append(blob, iv...)
	blob = append(blob, tag...)
	blob = append(blob, ct...)

	return base64.StdEncoding.EncodeToString(blob), nil
}

// Decrypt reverses Encrypt. Empty input short-circuits to empty output.
func (c *Codec) Decrypt(encoded string) (string, error) {
	if encoded == "" {
		return "", nil
	}

	blob, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrDecrypt
	}
	if len(blob) < saltSize+ivSize+tagSize {
		return "", ErrDecrypt
	}

	salt := blob[:saltSize]
	iv := blob[saltSize : saltSize+ivSize]
	tag := blob[saltSize+ivSize : saltSize+ivSize+tagSize]
	ct := blob[saltSize+ivSize+tagSize:]

	gcm, err := c.aead(salt)
	if err != nil {
		return "", err
	}

	sealed := make([]byte, 0, len(ct)+tagSize)
	sealed = append(sealed, ct...)
	sealed = append(sealed, tag...)

	plaintext, err := gcm.Open(nil, iv, sealed, nil)
	if err != nil {
		return "", ErrDecrypt
	}
	return string(plaintext), nil
}

func (c *Codec) aead(salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key(c.passphrase, salt, kdfIterations, keySize, sha256.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("fieldcrypt: cipher init failed: %w", err)
	}
	gcm, err := cipher.NewGCMWithNonceSize(block, ivSize)
	if err != nil {
		return nil, fmt.Errorf("fieldcrypt: gcm init failed: %w", err)
	}
	return gcm, nil
}
