package middleware

import (
	"bytes"
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/corpus/pkg/artifact"
	"github.com/aretw0/corpus/pkg/domain"
	"github.com/aretw0/corpus/pkg/ports"
)

// envelopeMagic prefixes every encrypted artifact.
var envelopeMagic = []byte("CRPSENC1")

// ErrNotEncrypted is returned when a loaded artifact has no encryption envelope.
var ErrNotEncrypted = errors.New("artifact is missing encrypted data envelope")

// EncryptionConfig holds the keys for encryption and decryption.
type EncryptionConfig struct {
	// ActiveKey is the key used for encrypting new data.
	// Must be 32 bytes for AES-256.
	ActiveKey []byte

	// FallbackKeys is a list of old keys to try when decryption fails.
	// This enables zero-downtime key rotation.
	FallbackKeys [][]byte
}

type encryptionMiddleware struct {
	next   ports.ArtifactStore
	config EncryptionConfig
}

// NewEncryptionMiddleware creates a middleware that encrypts artifacts using AES-GCM.
// Names and listings pass through unchanged; only the bytes are sealed.
func NewEncryptionMiddleware(config EncryptionConfig) (Middleware, error) {
	if len(config.ActiveKey) != 32 {
		return nil, fmt.Errorf("active key must be 32 bytes (AES-256), got %d", len(config.ActiveKey))
	}
	for i, k := range config.FallbackKeys {
		if len(k) != 32 {
			return nil, fmt.Errorf("fallback key %d must be 32 bytes (AES-256), got %d", i, len(k))
		}
	}
	return func(next ports.ArtifactStore) ports.ArtifactStore {
		return &encryptionMiddleware{
			next:   next,
			config: config,
		}
	}, nil
}

func (m *encryptionMiddleware) Save(ctx context.Context, name string, model ports.Model) error {
	// 1. Serialize the model; a failure must reach the store as nothing at all.
	var plain bytes.Buffer
	if err := model.Serialize(&plain); err != nil {
		return &domain.ArtifactError{Path: name, Op: artifact.OpSerialize, Err: err}
	}

	// 2. Encrypt
	sealed, err := encrypt(plain.Bytes(), m.config.ActiveKey)
	if err != nil {
		return &domain.ArtifactError{Path: name, Op: artifact.OpSerialize, Err: fmt.Errorf("failed to encrypt artifact: %w", err)}
	}

	// 3. Store the envelope
	envelope := make([]byte, 0, len(envelopeMagic)+len(sealed))
	envelope = append(envelope, envelopeMagic...)
	envelope = append(envelope, sealed...)
	return m.next.Save(ctx, name, artifact.Bytes(envelope))
}

func (m *encryptionMiddleware) Load(ctx context.Context, name string) ([]byte, error) {
	envelope, err := m.next.Load(ctx, name)
	if err != nil {
		return nil, err
	}

	if !bytes.HasPrefix(envelope, envelopeMagic) {
		return nil, &domain.ArtifactError{Path: name, Op: artifact.OpLoad, Err: ErrNotEncrypted}
	}

	// Try Active, then Fallback
	plain, err := decryptWithRotation(envelope[len(envelopeMagic):], m.config.ActiveKey, m.config.FallbackKeys)
	if err != nil {
		return nil, &domain.ArtifactError{Path: name, Op: artifact.OpLoad, Err: err}
	}
	return plain, nil
}

func (m *encryptionMiddleware) Delete(ctx context.Context, name string) error {
	return m.next.Delete(ctx, name)
}

func (m *encryptionMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

// Helpers

func encrypt(plaintext []byte, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func decryptWithRotation(ciphertext []byte, activeKey []byte, fallbackKeys [][]byte) ([]byte, error) {
	if plain, err := decrypt(ciphertext, activeKey); err == nil {
		return plain, nil
	}

	for _, key := range fallbackKeys {
		if plain, err := decrypt(ciphertext, key); err == nil {
			return plain, nil
		}
	}

	return nil, errors.New("decryption failed with all available keys")
}

func decrypt(ciphertext []byte, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}

	nonce := ciphertext[:gcm.NonceSize()]
	return gcm.Open(nil, nonce, ciphertext[gcm.NonceSize():], nil)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
