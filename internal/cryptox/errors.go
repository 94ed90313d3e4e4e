package cryptox

import "errors"

var (
	// ErrCryptoUnavailable is returned when the AEAD primitive or the entropy
	// source cannot be used.
	ErrCryptoUnavailable = errors.New("crypto unavailable")
	// ErrEncoding is returned when a plaintext is not valid UTF-8 text.
	ErrEncoding = errors.New("encoding error")
	// ErrMalformedEnvelope is returned when an envelope is not valid JSON,
	// lacks a field, or carries invalid base64.
	ErrMalformedEnvelope = errors.New("malformed envelope")
	// ErrDecryptionFailed is returned when the authentication tag does not
	// verify: tampered data or nonce, or a different secret.
	ErrDecryptionFailed = errors.New("decryption failed")

	ErrEmptySecret      = errors.New("empty secret")
	ErrUnknownAlgorithm = errors.New("unknown algorithm")
)
