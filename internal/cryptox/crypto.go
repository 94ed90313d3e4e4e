// Package cryptox wraps an AEAD cipher keyed by a configured secret. It turns
// strings into Envelopes (base64 ciphertext plus nonce) and back, failing
// loudly when anything about the envelope has been altered.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/dmitrijs2005/crowdops/internal/common"
	"golang.org/x/crypto/chacha20poly1305"
)

// Algorithm names the AEAD construction. Both supported constructions use a
// 12-byte nonce and a 16-byte tag.
type Algorithm string

const (
	AlgorithmAESGCM           Algorithm = "aes-256-gcm"
	AlgorithmChaCha20Poly1305 Algorithm = "chacha20-poly1305"
)

// ParseAlgorithm maps a configuration value onto an Algorithm. An empty
// string selects AES-256-GCM.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(s) {
	case "", AlgorithmAESGCM:
		return AlgorithmAESGCM, nil
	case AlgorithmChaCha20Poly1305:
		return AlgorithmChaCha20Poly1305, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
}

func newAEAD(alg Algorithm, key []byte) (cipher.AEAD, error) {
	switch alg {
	case AlgorithmChaCha20Poly1305:
		return chacha20poly1305.New(key)
	default:
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, err
		}
		return cipher.NewGCM(block)
	}
}

// Cipher encrypts and decrypts strings under the key derived from one secret.
// It is safe for concurrent use.
type Cipher struct {
	secret    string
	algorithm Algorithm
	key       []byte // set only when key caching is on
	cacheKey  bool
	random    io.Reader
}

// Option configures a Cipher.
type Option func(*Cipher)

// WithAlgorithm selects the AEAD construction.
func WithAlgorithm(alg Algorithm) Option {
	return func(c *Cipher) { c.algorithm = alg }
}

// WithKeyCaching keeps the derived key for the Cipher's lifetime instead of
// deriving and wiping it on every call.
func WithKeyCaching(enabled bool) Option {
	return func(c *Cipher) { c.cacheKey = enabled }
}

// WithRandom replaces the nonce source (crypto/rand by default).
func WithRandom(r io.Reader) Option {
	return func(c *Cipher) { c.random = r }
}

// NewCipher builds a Cipher for secret. An empty secret is rejected: there
// is no built-in fallback.
func NewCipher(secret string, opts ...Option) (*Cipher, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}

	c := &Cipher{secret: secret, algorithm: AlgorithmAESGCM, random: rand.Reader}
	for _, opt := range opts {
		opt(c)
	}

	alg, err := ParseAlgorithm(string(c.algorithm))
	if err != nil {
		return nil, err
	}
	c.algorithm = alg

	if c.cacheKey {
		c.key = DeriveKey(secret)
	}

	// surface a broken primitive at construction time
	if err := c.withAEAD(func(cipher.AEAD) error { return nil }); err != nil {
		return nil, err
	}

	return c, nil
}

// Algorithm reports the AEAD construction in use.
func (c *Cipher) Algorithm() Algorithm {
	return c.algorithm
}

func (c *Cipher) withAEAD(fn func(aead cipher.AEAD) error) error {
	key := c.key
	if key == nil {
		key = DeriveKey(c.secret)
		defer common.WipeByteArray(key)
	}

	aead, err := newAEAD(c.algorithm, key)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCryptoUnavailable, err)
	}
	return fn(aead)
}

// Encrypt seals the UTF-8 bytes of plaintext under a fresh random nonce with
// no associated data.
//
// Returns ErrEncoding if plaintext is not valid UTF-8 and ErrCryptoUnavailable
// if the nonce source or the cipher fails.
func (c *Cipher) Encrypt(plaintext string) (Envelope, error) {
	if !utf8.ValidString(plaintext) {
		return Envelope{}, ErrEncoding
	}

	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(c.random, nonce); err != nil {
		return Envelope{}, fmt.Errorf("%w: nonce: %v", ErrCryptoUnavailable, err)
	}

	var ciphertext []byte
	err := c.withAEAD(func(aead cipher.AEAD) error {
		ciphertext = aead.Seal(nil, nonce, []byte(plaintext), nil)
		return nil
	})
	if err != nil {
		return Envelope{}, err
	}

	return Envelope{
		Data: base64.StdEncoding.EncodeToString(ciphertext),
		IV:   base64.StdEncoding.EncodeToString(nonce),
	}, nil
}

// Decrypt opens env and returns the original string.
//
// Returns ErrMalformedEnvelope for invalid base64 and ErrDecryptionFailed when
// the tag does not verify, which covers a tampered ciphertext, a tampered or
// truncated nonce, and a different secret.
func (c *Cipher) Decrypt(env Envelope) (string, error) {
	data, nonce, err := env.decode()
	if err != nil {
		return "", err
	}

	var plaintext []byte
	err = c.withAEAD(func(aead cipher.AEAD) error {
		if len(nonce) != aead.NonceSize() {
			return fmt.Errorf("%w: nonce length %d", ErrDecryptionFailed, len(nonce))
		}
		var openErr error
		plaintext, openErr = aead.Open(nil, nonce, data, nil)
		if openErr != nil {
			return ErrDecryptionFailed
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	if !utf8.Valid(plaintext) {
		return "", ErrEncoding
	}
	return string(plaintext), nil
}

// EncryptValue serializes v to JSON and encrypts the result.
//
// Example:
//
//	env, err := c.EncryptValue(map[string]any{"id": "u1"})
//	if err != nil {
//	    return err
//	}
func (c *Cipher) EncryptValue(v any) (Envelope, error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	return c.Encrypt(string(plaintext))
}

// DecryptValue decrypts env and unmarshals the JSON plaintext into v, which
// must be a pointer.
func (c *Cipher) DecryptValue(env Envelope, v any) error {
	plaintext, err := c.Decrypt(env)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(plaintext), v); err != nil {
		return fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	return nil
}
