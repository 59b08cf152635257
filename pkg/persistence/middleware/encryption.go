package middleware

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/savestate/pkg/document"
	"github.com/aretw0/savestate/pkg/ports"
)

// EnvelopeKey is the attribute of the stored envelope that holds the ciphertext.
const EnvelopeKey = "encrypted"

// ErrNoEnvelope is returned when a stored save was not written through the encryption middleware.
var ErrNoEnvelope = errors.New("save is missing encrypted envelope")

// EncryptionConfig holds the keys for encryption and decryption.
type EncryptionConfig struct {
	// ActiveKey is the key used for encrypting new data.
	// Must be 32 bytes for AES-256.
	ActiveKey []byte

	// FallbackKeys are older keys tried when the active one cannot decrypt a save.
	FallbackKeys [][]byte
}

type encryptionMiddleware struct {
	next   ports.SaveStore
	config EncryptionConfig
}

// NewEncryptionMiddleware creates a middleware that stores saves as AES-GCM envelopes.
// The envelope keeps only the campaign type in clear text.
func NewEncryptionMiddleware(config EncryptionConfig) Middleware {
	if len(config.ActiveKey) != 32 {
		panic("active key must be 32 bytes (AES-256)")
	}
	return func(next ports.SaveStore) ports.SaveStore {
		return &encryptionMiddleware{
			next:   next,
			config: config,
		}
	}
}

func (m *encryptionMiddleware) Save(ctx context.Context, id string, doc *document.Config) error {
	plainText, err := document.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal save: %w", err)
	}

	ciphertext, err := encrypt(plainText, m.config.ActiveKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt save: %w", err)
	}

	envelope := document.New()
	envelope.Set(EnvelopeKey, base64.StdEncoding.EncodeToString(ciphertext))
	if ct := doc.ChildOrEmpty("replay_start").Get("campaign_type"); !ct.Empty() {
		envelope.Set("campaign_type", ct)
	}
	return m.next.Save(ctx, id, envelope)
}

func (m *encryptionMiddleware) Load(ctx context.Context, id string) (*document.Config, error) {
	envelope, err := m.next.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	// Fail secure: plain saves are not passed through.
	encoded := envelope.Get(EnvelopeKey)
	if encoded.Empty() {
		return nil, ErrNoEnvelope
	}

	ciphertext, err := base64.StdEncoding.DecodeString(encoded.Str())
	if err != nil {
		return nil, fmt.Errorf("failed to decode ciphertext base64: %w", err)
	}

	plainText, err := decryptWithRotation(ciphertext, m.config.ActiveKey, m.config.FallbackKeys)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt save: %w", err)
	}

	doc, err := document.Unmarshal(plainText)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal decrypted save: %w", err)
	}
	return doc, nil
}

func (m *encryptionMiddleware) Delete(ctx context.Context, id string) error {
	return m.next.Delete(ctx, id)
}

func (m *encryptionMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

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

	nonce, body := ciphertext[:gcm.NonceSize()], ciphertext[gcm.NonceSize():]
	return gcm.Open(nil, nonce, body, nil)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
